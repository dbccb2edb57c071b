package mysql

import (
	"context"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/models/vo"
)

// UserProgressRepository 定义了用户互动统计与授予台账在 MySQL 中的操作接口。
// 授予的"至多一次"保证建立在 (user_id, badge_id) / (user_id, achievement_id)
// 唯一索引之上：写入使用 insert-or-ignore，以插入是否生效作为唯一判定，
// 绝不使用先查后插。
type UserProgressRepository interface {
	// GetUserStats 按需聚合用户的互动统计，不做持久化。
	// - now 用于连续活跃天数的计算（以 now 所在自然日为基准）。
	GetUserStats(ctx context.Context, userID string, now time.Time) (*vo.UserStats, error)

	// HasAchievement 判断用户是否已达成指定成就。
	HasAchievement(ctx context.Context, userID string, achievementID uint64) (bool, error)

	// AwardAchievement 达成记录写入（insert-or-ignore）。
	// - 返回 true 表示本次为新达成；false 表示此前已达成，无任何副作用。
	AwardAchievement(ctx context.Context, userID string, achievementID uint64, earnedAt time.Time) (bool, error)

	// AwardBadge 勋章授予写入（insert-or-ignore）。
	// - 返回 true 表示本次为新授予；false 表示此前已持有，无任何副作用。
	AwardBadge(ctx context.Context, userID string, badgeID uint64, earnedAt time.Time) (bool, error)

	// GetUserBadges 查询用户已获得的勋章（含勋章详情）。
	// - sort 支持 newest / rarity / alphabetical，非法值回退到 newest。
	GetUserBadges(ctx context.Context, userID string, sort enums.BadgeSort) ([]*entities.UserBadge, error)

	// GetUserAchievements 查询用户已达成的成就（含成就详情），按达成时间倒序。
	GetUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error)

	// RecordActivityDate 记录用户在某个自然日有活动（insert-or-ignore）。
	// - date 格式为 YYYY-MM-DD，同一用户同一天重复记录无副作用。
	RecordActivityDate(ctx context.Context, userID string, date string) error
}

// userProgressRepository 是 UserProgressRepository 接口针对 MySQL 的具体实现。
type userProgressRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewUserProgressRepository 是 userProgressRepository 的构造函数。
func NewUserProgressRepository(db *gorm.DB, logger *core.ZapLogger) UserProgressRepository {
	return &userProgressRepository{
		db:     db,
		logger: logger,
	}
}

// GetUserStats 实现用户互动统计的按需聚合。
func (r *userProgressRepository) GetUserStats(ctx context.Context, userID string, now time.Time) (*vo.UserStats, error) {
	stats := &vo.UserStats{}
	db := r.db.WithContext(ctx)

	// 创建的故事数（软删除的不计入）
	if err := db.Model(&entities.Story{}).
		Where("author_id = ?", userID).
		Count(&stats.StoriesCreated).Error; err != nil {
		r.logger.Error("统计用户故事数失败", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("统计用户故事数失败: %w", err)
	}

	// 发表的评论数
	if err := db.Model(&entities.Comment{}).
		Where("author_id = ?", userID).
		Count(&stats.CommentsWritten).Error; err != nil {
		r.logger.Error("统计用户评论数失败", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("统计用户评论数失败: %w", err)
	}

	// 未删除故事上收到的点赞/分享总数
	type counterSums struct {
		Likes  int64
		Shares int64
	}
	var sums counterSums
	if err := db.Model(&entities.Story{}).
		Select("COALESCE(SUM(likes_count), 0) AS likes, COALESCE(SUM(shares_count), 0) AS shares").
		Where("author_id = ?", userID).
		Scan(&sums).Error; err != nil {
		r.logger.Error("统计用户收到的互动总数失败", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("统计用户收到的互动总数失败: %w", err)
	}
	stats.LikesReceived = sums.Likes
	stats.SharesReceived = sums.Shares

	// 连续活跃天数
	streak, err := r.computeStreak(ctx, userID, now)
	if err != nil {
		return nil, err
	}
	stats.DaysActiveStreak = streak

	return stats, nil
}

// computeStreak 读取用户全部活跃日期并计算连续活跃天数。
func (r *userProgressRepository) computeStreak(ctx context.Context, userID string, now time.Time) (int64, error) {
	var dates []string
	err := r.db.WithContext(ctx).
		Model(&entities.UserActivityDate{}).
		Where("user_id = ?", userID).
		Order("activity_date DESC").
		Pluck("activity_date", &dates).Error
	if err != nil {
		r.logger.Error("查询用户活跃日期失败", zap.Error(err), zap.String("userID", userID))
		return 0, fmt.Errorf("查询用户活跃日期失败: %w", err)
	}
	return streakFromDates(dates, now)
}

// streakFromDates 计算连续活跃天数。dates 为 YYYY-MM-DD 格式，按日期倒序。
// 规则: 以最近一个活跃日为链尾，逐日向前回溯，任何断档即终止；
// 链尾早于昨天说明连续性已断，计为 0。
func streakFromDates(dates []string, now time.Time) (int64, error) {
	if len(dates) == 0 {
		return 0, nil
	}

	today := now.Format(constant.ActivityDateLayout)
	yesterday := now.AddDate(0, 0, -1).Format(constant.ActivityDateLayout)
	if dates[0] != today && dates[0] != yesterday {
		return 0, nil
	}

	head, err := time.Parse(constant.ActivityDateLayout, dates[0])
	if err != nil {
		return 0, fmt.Errorf("解析活跃日期 %q 失败: %w", dates[0], err)
	}

	var streak int64 = 1
	expected := head.AddDate(0, 0, -1)
	for _, d := range dates[1:] {
		if d != expected.Format(constant.ActivityDateLayout) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak, nil
}

// HasAchievement 实现达成记录的存在性检查。
func (r *userProgressRepository) HasAchievement(ctx context.Context, userID string, achievementID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entities.UserAchievement{}).
		Where("user_id = ? AND achievement_id = ?", userID, achievementID).
		Count(&count).Error
	if err != nil {
		r.logger.Error("查询用户成就达成记录失败",
			zap.Error(err),
			zap.String("userID", userID),
			zap.Uint64("achievementID", achievementID),
		)
		return false, err
	}
	return count > 0, nil
}

// AwardAchievement 实现达成记录的 insert-or-ignore 写入。
func (r *userProgressRepository) AwardAchievement(ctx context.Context, userID string, achievementID uint64, earnedAt time.Time) (bool, error) {
	record := &entities.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		EarnedAt:      earnedAt,
	}

	// 唯一索引 uk_user_achievement 兜底；冲突时静默忽略，RowsAffected 为 0
	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record)
	if result.Error != nil {
		r.logger.Error("写入用户成就达成记录失败",
			zap.Error(result.Error),
			zap.String("userID", userID),
			zap.Uint64("achievementID", achievementID),
		)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// AwardBadge 实现勋章授予的 insert-or-ignore 写入。
func (r *userProgressRepository) AwardBadge(ctx context.Context, userID string, badgeID uint64, earnedAt time.Time) (bool, error) {
	record := &entities.UserBadge{
		UserID:   userID,
		BadgeID:  badgeID,
		EarnedAt: earnedAt,
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record)
	if result.Error != nil {
		r.logger.Error("写入用户勋章授予记录失败",
			zap.Error(result.Error),
			zap.String("userID", userID),
			zap.Uint64("badgeID", badgeID),
		)
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// GetUserBadges 实现用户勋章列表的查询。
func (r *userProgressRepository) GetUserBadges(ctx context.Context, userID string, sort enums.BadgeSort) ([]*entities.UserBadge, error) {
	var userBadges []*entities.UserBadge

	query := r.db.WithContext(ctx).
		Model(&entities.UserBadge{}).
		Preload("Badge").
		Joins("JOIN badges ON badges.id = user_badges.badge_id").
		Where("user_badges.user_id = ?", userID)

	switch sort {
	case enums.BadgeSortRarity:
		// 全站持有人数越少越靠前，持有人数相同按获得时间倒序
		query = query.Order(
			"(SELECT COUNT(*) FROM user_badges ub2 WHERE ub2.badge_id = user_badges.badge_id) ASC",
		).Order("user_badges.earned_at DESC")
	case enums.BadgeSortAlphabetical:
		query = query.Order("badges.title ASC").Order("user_badges.earned_at DESC")
	default:
		// newest 与所有非法值统一回退到按获得时间倒序
		query = query.Order("user_badges.earned_at DESC")
	}

	if err := query.Find(&userBadges).Error; err != nil {
		r.logger.Error("查询用户勋章列表失败",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("sort", string(sort)),
		)
		return nil, fmt.Errorf("查询用户勋章列表失败: %w", err)
	}
	return userBadges, nil
}

// GetUserAchievements 实现用户成就列表的查询。
func (r *userProgressRepository) GetUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error) {
	var records []*entities.UserAchievement
	err := r.db.WithContext(ctx).
		Preload("Achievement").
		Where("user_id = ?", userID).
		Order("earned_at DESC").
		Find(&records).Error
	if err != nil {
		r.logger.Error("查询用户成就列表失败", zap.Error(err), zap.String("userID", userID))
		return nil, fmt.Errorf("查询用户成就列表失败: %w", err)
	}
	return records, nil
}

// RecordActivityDate 实现活跃日期的 insert-or-ignore 写入。
func (r *userProgressRepository) RecordActivityDate(ctx context.Context, userID string, date string) error {
	record := &entities.UserActivityDate{
		UserID:       userID,
		ActivityDate: date,
	}
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(record).Error
	if err != nil {
		r.logger.Error("写入用户活跃日期失败",
			zap.Error(err),
			zap.String("userID", userID),
			zap.String("date", date),
		)
		return err
	}
	return nil
}
