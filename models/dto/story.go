package dto

import (
	"time"

	"github.com/Xushengqwer/story_service/models/enums"
)

// CreateStoryRequest 定义了创建故事的请求数据结构
// - 业务规则校验（长度、分类、分组约束等）在实体层统一进行并以字段错误映射返回，
//   binding 标签只拦截明显非法的输入
type CreateStoryRequest struct {
	Caption       string     `json:"caption" form:"caption" binding:"required"`  // 标题，必填
	Description   string     `json:"description" form:"description"`             // 描述，至少20字符（实体层校验）
	Category      string     `json:"category" form:"category" binding:"required"` // 分类名称
	Privacy       string     `json:"privacy" form:"privacy" binding:"required"`   // 可见性名称
	AllowedGroups []string   `json:"allowed_groups" form:"allowed_groups"`        // 允许分组，Specific Groups 时必填
	Tags          []string   `json:"tags" form:"tags"`                            // 标签，最多10个
	EventTitle    *string    `json:"event_title" form:"event_title"`              // 事件标题，可选
	ScheduledAt   *time.Time `json:"scheduled_at" form:"scheduled_at" time_format:"2006-01-02T15:04:05Z07:00"` // 定时发布时间，可选

	// 注意：媒体文件作为 multipart/form-data 的 media 字段直接上传，不在此结构中。
}

// UpdateStoryRequest 定义了更新故事的请求数据结构
// - 指针字段区分 "未提交" 与 "提交了零值"；未提交的字段保持原值
type UpdateStoryRequest struct {
	Caption       *string    `json:"caption" form:"caption"`               // 标题，发布24小时后锁定
	Description   *string    `json:"description" form:"description"`       // 描述，发布24小时后锁定
	Category      *string    `json:"category" form:"category"`             // 分类名称
	Privacy       *string    `json:"privacy" form:"privacy"`               // 可见性名称
	AllowedGroups *[]string  `json:"allowed_groups" form:"allowed_groups"` // 允许分组
	Tags          *[]string  `json:"tags" form:"tags"`                     // 标签
	EventTitle    *string    `json:"event_title" form:"event_title"`       // 事件标题
	ScheduledAt   *time.Time `json:"scheduled_at" form:"scheduled_at" time_format:"2006-01-02T15:04:05Z07:00"` // 定时发布时间
}

// ListStoriesRequest 定义了故事列表查询的请求数据结构
type ListStoriesRequest struct {
	Search         string          `json:"search" form:"search"`                   // 搜索词，匹配标题或描述
	Category       string          `json:"category" form:"category"`               // 按分类过滤，空表示不过滤
	SortBy         enums.StorySort `json:"sort_by" form:"sort_by"`                 // 排序方式，非法值回退到 recent
	IncludeDeleted bool            `json:"include_deleted" form:"include_deleted"` // 是否包含软删除的故事
}

// AddCommentRequest 定义了发表评论的请求数据结构
type AddCommentRequest struct {
	AuthorName string `json:"author_name" form:"author_name" binding:"required"` // 评论者昵称，必填，最大50字符
	Content    string `json:"content" form:"content" binding:"required"`         // 评论内容，必填，最大1000字符
}
