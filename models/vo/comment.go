package vo

import (
	"time"

	"github.com/Xushengqwer/story_service/models/entities"
)

// CommentResponse 定义了评论的响应数据结构
type CommentResponse struct {
	ID         uint64    `json:"id"`          // 评论ID
	StoryID    uint64    `json:"story_id"`    // 所属故事ID
	AuthorName string    `json:"author_name"` // 评论者昵称
	AuthorID   *string   `json:"author_id"`   // 评论者ID，匿名为 null
	Content    string    `json:"content"`     // 评论内容
	CreatedAt  time.Time `json:"created_at"`  // 创建时间
}

// AddCommentResponse 定义了发表评论的响应数据结构
type AddCommentResponse struct {
	Comment      *CommentResponse `json:"comment"`       // 新建的评论
	EarnedBadges []*BadgeVO       `json:"earned_badges"` // 本次操作新获得的勋章
}

// MapCommentToResponseVO 将评论实体转换为响应VO。
func MapCommentToResponseVO(comment *entities.Comment) *CommentResponse {
	if comment == nil {
		return nil
	}
	return &CommentResponse{
		ID:         comment.ID,
		StoryID:    comment.StoryID,
		AuthorName: comment.AuthorName,
		AuthorID:   comment.AuthorID,
		Content:    comment.Content,
		CreatedAt:  comment.CreatedAt,
	}
}

// MapCommentsToResponseVOs 将评论实体列表转换为响应VO列表。
func MapCommentsToResponseVOs(comments []*entities.Comment) []*CommentResponse {
	if len(comments) == 0 {
		return []*CommentResponse{}
	}
	responses := make([]*CommentResponse, 0, len(comments))
	for _, comment := range comments {
		if comment == nil {
			continue
		}
		responses = append(responses, MapCommentToResponseVO(comment))
	}
	return responses
}
