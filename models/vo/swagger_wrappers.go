package vo

// --- 用于成功响应且包含具体 Data 的包装器 ---

// StoryResponseWrapper 对应 response.APIResponse[vo.StoryResponse]
type StoryResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    StoryResponse `json:"data"` // 使用具体的 vo.StoryResponse
}

// CreateStoryResponseWrapper 对应 response.APIResponse[vo.CreateStoryResponse]
type CreateStoryResponseWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    CreateStoryResponse `json:"data"` // 包含新建故事与本次新获得的勋章
}

// StoryUpdateResponseWrapper 对应 response.APIResponse[vo.StoryUpdateResponse]
type StoryUpdateResponseWrapper struct {
	Code    int                 `json:"code" example:"0"`
	Message string              `json:"message,omitempty" example:"success"`
	Data    StoryUpdateResponse `json:"data"` // locked_fields 列出被编辑锁定忽略的字段
}

// StoryListResponseWrapper 对应 response.APIResponse[vo.StoryListResponse]
type StoryListResponseWrapper struct {
	Code    int               `json:"code" example:"0"`
	Message string            `json:"message,omitempty" example:"success"`
	Data    StoryListResponse `json:"data"` // 使用具体的 vo.StoryListResponse
}

// AddCommentResponseWrapper 对应 response.APIResponse[vo.AddCommentResponse]
type AddCommentResponseWrapper struct {
	Code    int                `json:"code" example:"0"`
	Message string             `json:"message,omitempty" example:"success"`
	Data    AddCommentResponse `json:"data"` // 包含新建评论与本次新获得的勋章
}

// CommentResponseWrapper 对应 response.APIResponse[vo.CommentResponse]
type CommentResponseWrapper struct {
	Code    int             `json:"code" example:"0"`
	Message string          `json:"message,omitempty" example:"success"`
	Data    CommentResponse `json:"data"`
}

// CommentListResponseWrapper 对应 response.APIResponse[[]vo.CommentResponse]
type CommentListResponseWrapper struct {
	Code    int                `json:"code" example:"0"`
	Message string             `json:"message,omitempty" example:"success"`
	Data    []*CommentResponse `json:"data"`
}

// BadgeCatalogResponseWrapper 对应 response.APIResponse[[]vo.BadgeCatalogItemVO]
type BadgeCatalogResponseWrapper struct {
	Code    int                   `json:"code" example:"0"`
	Message string                `json:"message,omitempty" example:"success"`
	Data    []*BadgeCatalogItemVO `json:"data"`
}

// BadgeCatalogItemResponseWrapper 对应 response.APIResponse[vo.BadgeCatalogItemVO]
type BadgeCatalogItemResponseWrapper struct {
	Code    int                `json:"code" example:"0"`
	Message string             `json:"message,omitempty" example:"success"`
	Data    BadgeCatalogItemVO `json:"data"`
}

// AchievementResponseWrapper 对应 response.APIResponse[vo.AchievementVO]
type AchievementResponseWrapper struct {
	Code    int           `json:"code" example:"0"`
	Message string        `json:"message,omitempty" example:"success"`
	Data    AchievementVO `json:"data"`
}

// AchievementListResponseWrapper 对应 response.APIResponse[[]vo.AchievementVO]
type AchievementListResponseWrapper struct {
	Code    int              `json:"code" example:"0"`
	Message string           `json:"message,omitempty" example:"success"`
	Data    []*AchievementVO `json:"data"`
}

// UserBadgeListResponseWrapper 对应 response.APIResponse[[]vo.UserBadgeVO]
type UserBadgeListResponseWrapper struct {
	Code    int            `json:"code" example:"0"`
	Message string         `json:"message,omitempty" example:"success"`
	Data    []*UserBadgeVO `json:"data"`
}

// UserAchievementListResponseWrapper 对应 response.APIResponse[[]vo.UserAchievementVO]
type UserAchievementListResponseWrapper struct {
	Code    int                  `json:"code" example:"0"`
	Message string               `json:"message,omitempty" example:"success"`
	Data    []*UserAchievementVO `json:"data"`
}

// UserStatsResponseWrapper 对应 response.APIResponse[vo.UserStats]
type UserStatsResponseWrapper struct {
	Code    int       `json:"code" example:"0"`
	Message string    `json:"message,omitempty" example:"success"`
	Data    UserStats `json:"data"`
}

// EngagementResponseWrapper 对应点赞/分享接口的响应
// Data 中携带最新计数，点赞/分享接口还会附带 earned_badges。
type EngagementResponseWrapper struct {
	Code    int                    `json:"code" example:"0"`
	Message string                 `json:"message,omitempty" example:"success"`
	Data    map[string]interface{} `json:"data"`
}

// PurgeResultResponseWrapper 对应清理接口的响应，Data 中携带清理数量。
type PurgeResultResponseWrapper struct {
	Code    int                    `json:"code" example:"0"`
	Message string                 `json:"message,omitempty" example:"success"`
	Data    map[string]interface{} `json:"data"`
}

// MetaOptionsResponseWrapper 对应元数据选项接口的响应（分类、可见性）。
type MetaOptionsResponseWrapper struct {
	Code    int      `json:"code" example:"0"`
	Message string   `json:"message,omitempty" example:"success"`
	Data    []string `json:"data"`
}

// --- 用于错误响应 或 简单成功响应（只有 Code 和 Message） ---

// BaseResponseWrapper 代表一个只包含 Code 和 Message 的响应。
// 适用于错误情况（RespondError 返回时 Data 为 nil 且 omitempty）
// 或某些成功操作（如 DELETE）可能也只返回 Code 和 Message。
type BaseResponseWrapper struct {
	Code    int    `json:"code" example:"0"`          // 成功时为 0, 错误时为具体错误码
	Message string `json:"message" example:"success"` // 成功或错误消息
	// 注意：这里没有 Data 字段，因为错误时它是 nil 且被 omitempty 省略了
}
