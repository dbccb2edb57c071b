package vo

import (
	"time"

	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
)

// BadgeVO 定义了勋章的响应数据结构
type BadgeVO struct {
	ID          uint64 `json:"badge_id"`    // 勋章ID
	Title       string `json:"title"`       // 勋章标题
	Description string `json:"description"` // 勋章描述
	IconURL     string `json:"icon_url"`    // 图标URL
}

// BadgeCatalogItemVO 定义了勋章目录项的响应数据结构（管理端与目录页）
type BadgeCatalogItemVO struct {
	ID          uint64    `json:"id"`          // 勋章ID
	Title       string    `json:"title"`       // 勋章标题
	Description string    `json:"description"` // 勋章描述
	IconURL     string    `json:"icon_url"`    // 图标URL
	SortOrder   int       `json:"sort_order"`  // 展示排序
	CreatedAt   time.Time `json:"created_at"`  // 创建时间
}

// UserBadgeVO 定义了用户已获得勋章的响应数据结构
type UserBadgeVO struct {
	BadgeVO
	EarnedAt time.Time `json:"earned_at"` // 获得时间
}

// AchievementVO 定义了成就的响应数据结构
type AchievementVO struct {
	ID          uint64         `json:"id"`          // 成就ID
	Title       string         `json:"title"`       // 成就标题
	Description string         `json:"description"` // 成就描述
	RuleType    enums.RuleType `json:"rule_type"`   // 规则类型
	RuleValue   int64          `json:"rule_value"`  // 规则阈值
	Active      bool           `json:"active"`      // 是否启用
	Badges      []*BadgeVO     `json:"badges"`      // 达成后授予的勋章
}

// UserAchievementVO 定义了用户已达成成就的响应数据结构
type UserAchievementVO struct {
	ID          uint64    `json:"achievement_id"` // 成就ID
	Title       string    `json:"title"`          // 成就标题
	Description string    `json:"description"`    // 成就描述
	EarnedAt    time.Time `json:"earned_at"`      // 达成时间
}

// MapBadgeToVO 将勋章实体转换为授予展示VO。
func MapBadgeToVO(badge *entities.Badge) *BadgeVO {
	if badge == nil {
		return nil
	}
	return &BadgeVO{
		ID:          badge.ID,
		Title:       badge.Title,
		Description: badge.Description,
		IconURL:     badge.IconURL,
	}
}

// MapBadgesToVOs 将勋章实体列表转换为授予展示VO列表。
func MapBadgesToVOs(badges []*entities.Badge) []*BadgeVO {
	if len(badges) == 0 {
		return []*BadgeVO{}
	}
	vos := make([]*BadgeVO, 0, len(badges))
	for _, badge := range badges {
		if badge == nil {
			continue
		}
		vos = append(vos, MapBadgeToVO(badge))
	}
	return vos
}

// MapBadgeToCatalogItemVO 将勋章实体转换为目录项VO。
func MapBadgeToCatalogItemVO(badge *entities.Badge) *BadgeCatalogItemVO {
	if badge == nil {
		return nil
	}
	return &BadgeCatalogItemVO{
		ID:          badge.ID,
		Title:       badge.Title,
		Description: badge.Description,
		IconURL:     badge.IconURL,
		SortOrder:   badge.SortOrder,
		CreatedAt:   badge.CreatedAt,
	}
}

// MapBadgesToCatalogItemVOs 将勋章实体列表转换为目录项VO列表。
func MapBadgesToCatalogItemVOs(badges []*entities.Badge) []*BadgeCatalogItemVO {
	if len(badges) == 0 {
		return []*BadgeCatalogItemVO{}
	}
	vos := make([]*BadgeCatalogItemVO, 0, len(badges))
	for _, badge := range badges {
		if badge == nil {
			continue
		}
		vos = append(vos, MapBadgeToCatalogItemVO(badge))
	}
	return vos
}

// MapAchievementToVO 将成就实体（含关联勋章）转换为响应VO。
func MapAchievementToVO(achievement *entities.Achievement) *AchievementVO {
	if achievement == nil {
		return nil
	}
	return &AchievementVO{
		ID:          achievement.ID,
		Title:       achievement.Title,
		Description: achievement.Description,
		RuleType:    achievement.RuleType,
		RuleValue:   achievement.RuleValue,
		Active:      achievement.Active,
		Badges:      MapBadgesToVOs(achievement.Badges),
	}
}

// MapAchievementsToVOs 将成就实体列表转换为响应VO列表。
func MapAchievementsToVOs(achievements []*entities.Achievement) []*AchievementVO {
	if len(achievements) == 0 {
		return []*AchievementVO{}
	}
	vos := make([]*AchievementVO, 0, len(achievements))
	for _, achievement := range achievements {
		if achievement == nil {
			continue
		}
		vos = append(vos, MapAchievementToVO(achievement))
	}
	return vos
}
