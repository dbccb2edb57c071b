package entities

import (
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/Xushengqwer/go-common/models/entities"
	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/models/enums"
)

// tagPattern 标签只允许字母、数字与下划线。
var tagPattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)

// Story 故事实体
// - 使用场景: 故事的完整记录，包含内容、可见性、互动计数与审核标记
// - 表名: stories (GORM 默认使用结构体名复数形式)
// - 软删除: 嵌入的 BaseModel 携带 gorm.DeletedAt，软删除即 deleted_at 非 NULL
type Story struct {
	entities.BaseModel // 嵌入自定义的 BaseModel ,包含 ID, CreatedAt, UpdatedAt, DeletedAt，支持软删除

	// 作者ID，网关注入的用户ID
	// - 类型: char(36)，用户ID为UUID格式（36个字符），可为 NULL（匿名提交）
	// - GORM 标签: index 便于按作者聚合互动数据
	AuthorID *string `gorm:"type:char(36);index"`

	// 标题，必填，最大长度120个字符
	// - 类型: varchar(120)，限制长度与校验规则保持一致
	Caption string `gorm:"type:varchar(120);not null"`

	// 描述，必填，至少20个字符
	// - 类型: text，故事正文可能较长
	Description string `gorm:"type:text;not null"`

	// 分类，取值见 enums.Category
	// - 类型: varchar(50)，直接存储分类名称字符串
	Category enums.Category `gorm:"type:varchar(50);not null"`

	// 可见性，取值见 enums.Privacy
	// - 类型: varchar(20)，直接存储可见性名称字符串
	Privacy enums.Privacy `gorm:"type:varchar(20);not null"`

	// 允许分组，仅当可见性为 Specific Groups 时有意义
	// - 类型: text，JSON 序列化的字符串列表
	AllowedGroups StringList `gorm:"type:text"`

	// 标签，最多10个，仅允许字母、数字与下划线
	// - 类型: text，JSON 序列化的字符串列表
	// - 注意: 入库前统一去掉前导 '#' 并去重无关，原样保留顺序
	Tags StringList `gorm:"type:text"`

	// 媒体路径，对象存储返回的访问 URL 列表
	// - 类型: text，JSON 序列化的字符串列表
	MediaPaths StringList `gorm:"type:text"`

	// 事件标题，可选的关联事件名称
	EventTitle *string `gorm:"type:varchar(255)"`

	// 定时发布时间，为 NULL 表示立即可见
	// - 到达该时间前，故事对常规列表与详情不可见
	ScheduledAt *time.Time `gorm:"index"`

	// 点赞数，服务端权威计数，只能通过原子操作修改
	LikesCount int64 `gorm:"not null;default:0"`

	// 评论数，随评论创建/删除在同一事务内增减
	CommentsCount int64 `gorm:"not null;default:0"`

	// 分享数，服务端权威计数，只能通过原子操作修改
	SharesCount int64 `gorm:"not null;default:0"`

	// 审核标记，由外部审核服务通过消息队列设置，本服务不做内容判定
	Flagged bool `gorm:"not null;default:false"`

	// 审核原因，记录故事被标记的原因
	// - 类型: sql.NullString，可以为 NULL 的字符串
	FlagReason sql.NullString `gorm:"type:varchar(255);comment:审核原因"`

	// 标记时间，审核标记写入的时间
	FlaggedAt *time.Time
}

// NormalizeTags 规范化标签: 去掉前导 '#'，去除首尾空白，丢弃空标签。
// 在校验前调用，保证入库与校验看到同一份数据。
func (s *Story) NormalizeTags() {
	if len(s.Tags) == 0 {
		return
	}
	normalized := make(StringList, 0, len(s.Tags))
	for _, tag := range s.Tags {
		tag = strings.TrimSpace(strings.TrimLeft(tag, "#"))
		if tag == "" {
			continue
		}
		normalized = append(normalized, tag)
	}
	s.Tags = normalized
}

// Validate 校验故事内容，返回 字段名 -> 错误消息 的映射；合法时返回空映射。
// 调用前应先执行 NormalizeTags。
func (s *Story) Validate() map[string]string {
	errs := make(map[string]string)

	caption := strings.TrimSpace(s.Caption)
	if caption == "" {
		errs["caption"] = "Caption is required"
	} else if len([]rune(caption)) > constant.CaptionMaxLen {
		errs["caption"] = "Caption must be 120 characters or less"
	}

	description := strings.TrimSpace(s.Description)
	if len([]rune(description)) < constant.DescriptionMinLen {
		errs["description"] = "Description must be at least 20 characters"
	}

	if !s.Category.IsValid() {
		errs["category"] = "Please select a valid category"
	}

	if !s.Privacy.IsValid() {
		errs["privacy"] = "Please select a valid privacy setting"
	} else if s.Privacy.RequiresGroups() && len(s.AllowedGroups) == 0 {
		errs["allowed_groups"] = "Please specify at least one group"
	}

	if len(s.Tags) > constant.TagsMax {
		errs["tags"] = "Maximum 10 tags allowed"
	} else {
		for _, tag := range s.Tags {
			if !tagPattern.MatchString(tag) {
				errs["tags"] = "Tags can only contain letters, numbers, and underscores"
				break
			}
		}
	}

	return errs
}

// IsEditableAt 判断 now 时刻标题与描述是否仍可修改（发布后 24 小时内）。
func (s *Story) IsEditableAt(now time.Time) bool {
	return now.Sub(s.CreatedAt) < constant.EditLockDuration
}

// IsDeleted 判断故事是否处于软删除状态。
func (s *Story) IsDeleted() bool {
	return s.DeletedAt.Valid
}

// CanBeRestoredAt 判断 now 时刻是否仍在恢复窗口内（删除后 7 天内）。
// 未删除的故事不可恢复。
func (s *Story) CanBeRestoredAt(now time.Time) bool {
	if !s.DeletedAt.Valid {
		return false
	}
	return now.Sub(s.DeletedAt.Time) < constant.RecoveryWindow
}

// IsPublishedAt 判断 now 时刻故事是否已对外可见。
// 未设置定时发布时间视为立即可见。
func (s *Story) IsPublishedAt(now time.Time) bool {
	if s.ScheduledAt == nil {
		return true
	}
	return !s.ScheduledAt.After(now)
}
