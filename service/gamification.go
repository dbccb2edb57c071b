package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/models/vo"
	"github.com/Xushengqwer/story_service/myErrors"
	"github.com/Xushengqwer/story_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/story_service/repo/redis"
)

// GamificationService 定义了成就评估与勋章授予的业务逻辑接口。
type GamificationService interface {
	// EvaluateAndAward 对用户执行一次完整的成就评估。
	// - 匿名用户（userID 为空）直接返回空列表，不产生任何写入。
	// - 按成就 ID 升序遍历启用中的成就：已达成的跳过，统计值达到阈值的
	//   写入达成记录并授予关联勋章。
	// - 所有授予写入都是 insert-or-ignore，返回值只包含本次新获得的勋章。
	EvaluateAndAward(ctx context.Context, userID string) ([]*vo.BadgeVO, error)

	// RecordActivity 记录用户当天有活动（连续活跃天数的数据来源）。
	// - 匿名用户不记录；同一天重复调用无副作用。
	RecordActivity(ctx context.Context, userID string) error

	// GetUserStats 获取用户的互动统计。
	GetUserStats(ctx context.Context, userID string) (*vo.UserStats, error)

	// GetUserBadges 获取用户已获得的勋章列表。
	GetUserBadges(ctx context.Context, userID string, sort enums.BadgeSort) ([]*vo.UserBadgeVO, error)

	// GetUserAchievements 获取用户已达成的成就列表。
	GetUserAchievements(ctx context.Context, userID string) ([]*vo.UserAchievementVO, error)

	// GetBadgeCatalog 获取全量勋章目录。
	GetBadgeCatalog(ctx context.Context, order enums.BadgeCatalogOrder) ([]*vo.BadgeCatalogItemVO, error)

	// ListActiveAchievements 获取启用中的成就列表（含关联勋章），供目录页展示。
	ListActiveAchievements(ctx context.Context) ([]*vo.AchievementVO, error)
}

// gamificationService 是 GamificationService 接口的具体实现。
type gamificationService struct {
	achievementRepo  mysql.AchievementRepository
	badgeRepo        mysql.BadgeRepository
	progressRepo     mysql.UserProgressRepository
	achievementCache redisrepo.AchievementCache
	logger           *core.ZapLogger
	now              func() time.Time // 可注入的时钟，便于测试时间相关行为
}

// NewGamificationService 是 gamificationService 的构造函数。
func NewGamificationService(
	achievementRepo mysql.AchievementRepository,
	badgeRepo mysql.BadgeRepository,
	progressRepo mysql.UserProgressRepository,
	achievementCache redisrepo.AchievementCache,
	logger *core.ZapLogger,
) GamificationService {
	return &gamificationService{
		achievementRepo:  achievementRepo,
		badgeRepo:        badgeRepo,
		progressRepo:     progressRepo,
		achievementCache: achievementCache,
		logger:           logger,
		now:              time.Now,
	}
}

// activeAchievements 获取启用中的成就目录，优先读缓存，未命中时回源数据库并回填。
func (s *gamificationService) activeAchievements(ctx context.Context) ([]*entities.Achievement, error) {
	if s.achievementCache != nil {
		cached, err := s.achievementCache.GetActive(ctx)
		if err == nil {
			return cached, nil
		}
		if !errors.Is(err, myErrors.ErrCacheMiss) {
			// 缓存故障时降级回源，不中断评估
			s.logger.Warn("读取成就目录缓存失败，回源数据库", zap.Error(err))
		}
	}

	achievements, err := s.achievementRepo.ListActiveAchievements(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取启用中成就目录失败: %w", err)
	}

	if s.achievementCache != nil {
		// 回填失败只记录，不影响本次评估
		if cacheErr := s.achievementCache.SetActive(ctx, achievements); cacheErr != nil {
			s.logger.Warn("回填成就目录缓存失败", zap.Error(cacheErr))
		}
	}
	return achievements, nil
}

// EvaluateAndAward 实现成就评估的完整流程。
func (s *gamificationService) EvaluateAndAward(ctx context.Context, userID string) ([]*vo.BadgeVO, error) {
	// 匿名用户不参与成就体系
	if userID == "" {
		return []*vo.BadgeVO{}, nil
	}

	now := s.now()

	stats, err := s.progressRepo.GetUserStats(ctx, userID, now)
	if err != nil {
		return nil, fmt.Errorf("获取用户统计失败: %w", err)
	}

	achievements, err := s.activeAchievements(ctx)
	if err != nil {
		return nil, err
	}

	earnedBadges := make([]*vo.BadgeVO, 0)
	for _, achievement := range achievements {
		if achievement == nil {
			continue
		}

		held, err := s.progressRepo.HasAchievement(ctx, userID, achievement.ID)
		if err != nil {
			return nil, fmt.Errorf("查询成就达成记录失败: %w", err)
		}
		if held {
			continue
		}

		stat, ok := stats.ValueFor(achievement.RuleType)
		if !ok {
			// 未知规则类型视为不满足，目录数据问题只记录告警
			s.logger.Warn("成就使用了未知的规则类型，跳过评估",
				zap.Uint64("achievementID", achievement.ID),
				zap.String("ruleType", string(achievement.RuleType)),
			)
			continue
		}
		if !achievement.IsSatisfiedBy(stat) {
			continue
		}

		inserted, err := s.progressRepo.AwardAchievement(ctx, userID, achievement.ID, now)
		if err != nil {
			return nil, fmt.Errorf("写入成就达成记录失败: %w", err)
		}
		if !inserted {
			// 并发评估先写入了同一条记录，勋章授予由先到者完成
			s.logger.Debug("成就达成记录已存在，跳过勋章授予",
				zap.String("userID", userID),
				zap.Uint64("achievementID", achievement.ID),
			)
			continue
		}

		s.logger.Info("用户达成新成就",
			zap.String("userID", userID),
			zap.Uint64("achievementID", achievement.ID),
			zap.String("title", achievement.Title),
		)

		for _, badge := range achievement.Badges {
			if badge == nil {
				continue
			}
			newlyAwarded, err := s.progressRepo.AwardBadge(ctx, userID, badge.ID, now)
			if err != nil {
				return nil, fmt.Errorf("授予勋章失败: %w", err)
			}
			// 只有本次真正新插入的勋章才进入返回列表
			if newlyAwarded {
				earnedBadges = append(earnedBadges, vo.MapBadgeToVO(badge))
			}
		}
	}

	return earnedBadges, nil
}

// RecordActivity 实现活跃日期的记录。
func (s *gamificationService) RecordActivity(ctx context.Context, userID string) error {
	if userID == "" {
		return nil
	}
	date := s.now().Format(constant.ActivityDateLayout)
	return s.progressRepo.RecordActivityDate(ctx, userID, date)
}

// GetUserStats 实现用户统计的查询。
func (s *gamificationService) GetUserStats(ctx context.Context, userID string) (*vo.UserStats, error) {
	return s.progressRepo.GetUserStats(ctx, userID, s.now())
}

// GetUserBadges 实现用户勋章列表的查询。
func (s *gamificationService) GetUserBadges(ctx context.Context, userID string, sort enums.BadgeSort) ([]*vo.UserBadgeVO, error) {
	userBadges, err := s.progressRepo.GetUserBadges(ctx, userID, sort)
	if err != nil {
		return nil, err
	}

	vos := make([]*vo.UserBadgeVO, 0, len(userBadges))
	for _, ub := range userBadges {
		if ub == nil || ub.Badge == nil {
			continue
		}
		vos = append(vos, &vo.UserBadgeVO{
			BadgeVO:  *vo.MapBadgeToVO(ub.Badge),
			EarnedAt: ub.EarnedAt,
		})
	}
	return vos, nil
}

// GetUserAchievements 实现用户成就列表的查询。
func (s *gamificationService) GetUserAchievements(ctx context.Context, userID string) ([]*vo.UserAchievementVO, error) {
	records, err := s.progressRepo.GetUserAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}

	vos := make([]*vo.UserAchievementVO, 0, len(records))
	for _, record := range records {
		if record == nil || record.Achievement == nil {
			continue
		}
		vos = append(vos, &vo.UserAchievementVO{
			ID:          record.AchievementID,
			Title:       record.Achievement.Title,
			Description: record.Achievement.Description,
			EarnedAt:    record.EarnedAt,
		})
	}
	return vos, nil
}

// GetBadgeCatalog 实现勋章目录的查询。
func (s *gamificationService) GetBadgeCatalog(ctx context.Context, order enums.BadgeCatalogOrder) ([]*vo.BadgeCatalogItemVO, error) {
	badges, err := s.badgeRepo.ListBadges(ctx, order)
	if err != nil {
		return nil, err
	}
	return vo.MapBadgesToCatalogItemVOs(badges), nil
}

// ListActiveAchievements 实现启用中成就列表的查询。
func (s *gamificationService) ListActiveAchievements(ctx context.Context) ([]*vo.AchievementVO, error) {
	achievements, err := s.activeAchievements(ctx)
	if err != nil {
		return nil, err
	}
	return vo.MapAchievementsToVOs(achievements), nil
}
