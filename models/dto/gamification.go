package dto

// CreateBadgeRequest 定义了创建勋章的请求数据结构（管理端）
type CreateBadgeRequest struct {
	Title       string `json:"title" binding:"required,max=100"`       // 勋章标题
	Description string `json:"description" binding:"required,max=255"` // 勋章描述
	IconURL     string `json:"icon_url" binding:"omitempty,max=255"`   // 图标URL，可选
	SortOrder   int    `json:"sort_order" binding:"omitempty"`         // 展示排序，可选
}

// UpdateBadgeRequest 定义了更新勋章的请求数据结构（管理端）
// - 指针字段区分 "未提交" 与 "提交了零值"
type UpdateBadgeRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=100"`       // 勋章标题
	Description *string `json:"description" binding:"omitempty,max=255"` // 勋章描述
	IconURL     *string `json:"icon_url" binding:"omitempty,max=255"`    // 图标URL
	SortOrder   *int    `json:"sort_order"`                              // 展示排序
}

// CreateAchievementRequest 定义了创建成就的请求数据结构（管理端）
type CreateAchievementRequest struct {
	Title       string   `json:"title" binding:"required,max=100"`       // 成就标题
	Description string   `json:"description" binding:"required,max=255"` // 成就描述
	RuleType    string   `json:"rule_type" binding:"required"`           // 规则类型，见 enums.RuleType
	RuleValue   int64    `json:"rule_value" binding:"required,gt=0"`     // 规则阈值
	Active      *bool    `json:"active"`                                 // 是否启用，缺省为 true
	BadgeIDs    []uint64 `json:"badge_ids"`                              // 达成后授予的勋章ID列表
}

// UpdateAchievementRequest 定义了更新成就的请求数据结构（管理端）
type UpdateAchievementRequest struct {
	Title       *string   `json:"title" binding:"omitempty,max=100"`       // 成就标题
	Description *string   `json:"description" binding:"omitempty,max=255"` // 成就描述
	RuleType    *string   `json:"rule_type"`                               // 规则类型
	RuleValue   *int64    `json:"rule_value" binding:"omitempty,gt=0"`     // 规则阈值
	Active      *bool     `json:"active"`                                  // 是否启用
	BadgeIDs    *[]uint64 `json:"badge_ids"`                               // 勋章ID列表，提交后整体替换现有关联
}
