package vo

import (
	"time"

	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
)

// StoryResponse 定义了故事的响应数据结构
type StoryResponse struct {
	ID            uint64         `json:"id"`             // 故事ID
	AuthorID      *string        `json:"author_id"`      // 作者ID，匿名提交为 null
	Caption       string         `json:"caption"`        // 标题
	Description   string         `json:"description"`    // 描述
	Category      enums.Category `json:"category"`       // 分类
	Privacy       enums.Privacy  `json:"privacy"`        // 可见性
	AllowedGroups []string       `json:"allowed_groups"` // 允许分组
	Tags          []string       `json:"tags"`           // 标签
	MediaPaths    []string       `json:"media_paths"`    // 媒体访问URL
	EventTitle    *string        `json:"event_title"`    // 事件标题
	ScheduledAt   *time.Time     `json:"scheduled_at"`   // 定时发布时间
	LikesCount    int64          `json:"likes_count"`    // 点赞数
	CommentsCount int64          `json:"comments_count"` // 评论数
	SharesCount   int64          `json:"shares_count"`   // 分享数
	Flagged       bool           `json:"flagged"`        // 是否被审核标记
	FlagReason    *string        `json:"flag_reason"`    // 标记原因
	IsDeleted     bool           `json:"is_deleted"`     // 是否处于软删除状态
	DeletedAt     *time.Time     `json:"deleted_at"`     // 删除时间，未删除为 null
	CreatedAt     time.Time      `json:"created_at"`     // 创建时间
	UpdatedAt     time.Time      `json:"updated_at"`     // 更新时间
}

// StoryUpdateResponse 定义了更新故事的响应数据结构
// - LockedFields 列出本次因编辑锁定被忽略的字段，其余修改仍然生效
type StoryUpdateResponse struct {
	Story        *StoryResponse `json:"story"`         // 更新后的故事
	LockedFields []string       `json:"locked_fields"` // 因24小时编辑锁定被忽略的字段名
}

// StoryListResponse 定义了故事列表查询的响应数据结构
type StoryListResponse struct {
	Stories []*StoryResponse `json:"stories"` // 故事列表
	Total   int64            `json:"total"`   // 符合条件的总记录数
}

// CreateStoryResponse 定义了创建故事的响应数据结构
// - 内容写入成功后触发成就评估，新获得的勋章随响应返回
type CreateStoryResponse struct {
	Story        *StoryResponse `json:"story"`         // 新建的故事
	EarnedBadges []*BadgeVO     `json:"earned_badges"` // 本次操作新获得的勋章
}

// MapStoryToResponseVO 将故事实体转换为响应VO。
func MapStoryToResponseVO(story *entities.Story) *StoryResponse {
	if story == nil {
		return nil
	}
	resp := &StoryResponse{
		ID:            story.ID,
		AuthorID:      story.AuthorID,
		Caption:       story.Caption,
		Description:   story.Description,
		Category:      story.Category,
		Privacy:       story.Privacy,
		AllowedGroups: story.AllowedGroups,
		Tags:          story.Tags,
		MediaPaths:    story.MediaPaths,
		EventTitle:    story.EventTitle,
		ScheduledAt:   story.ScheduledAt,
		LikesCount:    story.LikesCount,
		CommentsCount: story.CommentsCount,
		SharesCount:   story.SharesCount,
		Flagged:       story.Flagged,
		IsDeleted:     story.IsDeleted(),
		CreatedAt:     story.CreatedAt,
		UpdatedAt:     story.UpdatedAt,
	}
	if resp.AllowedGroups == nil {
		resp.AllowedGroups = []string{}
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if resp.MediaPaths == nil {
		resp.MediaPaths = []string{}
	}
	if story.FlagReason.Valid {
		reason := story.FlagReason.String
		resp.FlagReason = &reason
	}
	if story.DeletedAt.Valid {
		deletedAt := story.DeletedAt.Time
		resp.DeletedAt = &deletedAt
	}
	return resp
}

// MapStoriesToResponseVOs 将故事实体列表转换为响应VO列表。
func MapStoriesToResponseVOs(stories []*entities.Story) []*StoryResponse {
	if len(stories) == 0 {
		return []*StoryResponse{} // 返回空切片而不是nil，便于前端处理
	}
	responses := make([]*StoryResponse, 0, len(stories))
	for _, story := range stories {
		if story == nil {
			continue
		}
		responses = append(responses, MapStoryToResponseVO(story))
	}
	return responses
}
