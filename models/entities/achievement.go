package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
)

// Achievement 成就实体
// - 使用场景: 成就目录项，定义达成条件与达成后授予的勋章
// - 表名: achievements；关联表: achievement_badges (achievement_id, badge_id 复合主键)
type Achievement struct {
	entities.BaseModel

	// 成就标题
	Title string `gorm:"type:varchar(100);not null"`

	// 成就描述
	Description string `gorm:"type:varchar(255);not null"`

	// 规则类型，取值见 enums.RuleType
	// - 评估引擎对该字段做穷举 switch，未知类型一律视为不满足
	RuleType enums.RuleType `gorm:"type:varchar(50);not null"`

	// 规则阈值，统计值 >= 阈值 即视为达成
	RuleValue int64 `gorm:"not null"`

	// 是否启用，停用的成就不参与评估
	Active bool `gorm:"not null;default:true"`

	// 达成后授予的勋章，多对多
	Badges []*Badge `gorm:"many2many:achievement_badges"`
}

// IsSatisfiedBy 判断统计值是否满足达成条件。
func (a *Achievement) IsSatisfiedBy(stat int64) bool {
	return stat >= a.RuleValue
}
