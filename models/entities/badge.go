package entities

import (
	"github.com/Xushengqwer/go-common/models/entities"
)

// Badge 勋章实体
// - 使用场景: 可被成就授予的勋章目录项
// - 表名: badges
type Badge struct {
	entities.BaseModel

	// 勋章标题
	Title string `gorm:"type:varchar(100);not null"`

	// 勋章描述
	Description string `gorm:"type:varchar(255);not null"`

	// 图标URL
	IconURL string `gorm:"type:varchar(255)"`

	// 展示排序，运营配置，目录默认按此升序展示
	SortOrder int `gorm:"not null;default:0"`
}
