package entities

import (
	"strings"

	"github.com/Xushengqwer/go-common/models/entities"
	"github.com/Xushengqwer/story_service/constant"
)

// Comment 评论实体
// - 使用场景: 故事下的评论，父故事冗余维护 comments_count 计数
// - 表名: comments
type Comment struct {
	entities.BaseModel

	// 所属故事ID
	// - GORM 标签: index 支持按故事拉取评论列表
	StoryID uint64 `gorm:"not null;index"`

	// 评论者昵称，必填，最大长度50个字符
	AuthorName string `gorm:"type:varchar(50);not null"`

	// 评论者ID，网关注入的用户ID，可为 NULL（匿名评论）
	AuthorID *string `gorm:"type:char(36);index"`

	// 评论内容，必填，最大长度1000个字符
	Content string `gorm:"type:text;not null"`
}

// Validate 校验评论内容，返回 字段名 -> 错误消息 的映射；合法时返回空映射。
func (c *Comment) Validate() map[string]string {
	errs := make(map[string]string)

	name := strings.TrimSpace(c.AuthorName)
	if name == "" {
		errs["author_name"] = "Name is required"
	} else if len([]rune(name)) > constant.CommentAuthorMaxLen {
		errs["author_name"] = "Name must be 50 characters or less"
	}

	content := strings.TrimSpace(c.Content)
	if content == "" {
		errs["content"] = "Comment is required"
	} else if len([]rune(content)) > constant.CommentMaxLen {
		errs["content"] = "Comment must be 1000 characters or less"
	}

	return errs
}
