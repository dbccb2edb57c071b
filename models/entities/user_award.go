package entities

import "time"

// UserBadge 用户勋章授予记录
// - 表名: user_badges
// - 唯一约束: (user_id, badge_id)，同一勋章对同一用户至多授予一次；
//   授予写入依赖该约束做 insert-or-ignore，而非先查再插
type UserBadge struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// 用户ID
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_user_badge"`

	// 勋章ID
	BadgeID uint64 `gorm:"not null;uniqueIndex:uk_user_badge"`

	// 获得时间
	EarnedAt time.Time `gorm:"not null"`

	// 关联勋章，便于列表查询时 Preload
	Badge *Badge `gorm:"foreignKey:BadgeID"`
}

// UserAchievement 用户成就达成记录
// - 表名: user_achievements
// - 唯一约束: (user_id, achievement_id)，同一成就对同一用户至多达成一次
type UserAchievement struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"`

	// 用户ID
	UserID string `gorm:"type:char(36);not null;uniqueIndex:uk_user_achievement"`

	// 成就ID
	AchievementID uint64 `gorm:"not null;uniqueIndex:uk_user_achievement"`

	// 达成时间
	EarnedAt time.Time `gorm:"not null"`

	// 关联成就，便于列表查询时 Preload
	Achievement *Achievement `gorm:"foreignKey:AchievementID"`
}
