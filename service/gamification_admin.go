package service

import (
	"context"
	"fmt"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/models/vo"
	"github.com/Xushengqwer/story_service/repo/mysql"
	redisrepo "github.com/Xushengqwer/story_service/repo/redis"
)

// GamificationAdminService 定义了勋章与成就目录的管理端业务逻辑接口。
// 所有写操作都会使成就目录缓存失效，保证评估引擎读到最新目录。
type GamificationAdminService interface {
	// CreateBadge 创建一个新勋章。
	CreateBadge(ctx context.Context, req *dto.CreateBadgeRequest) (*vo.BadgeCatalogItemVO, error)

	// UpdateBadge 更新勋章信息。
	UpdateBadge(ctx context.Context, badgeID uint64, req *dto.UpdateBadgeRequest) (*vo.BadgeCatalogItemVO, error)

	// DeleteBadge 删除勋章，同时清理成就关联与用户持有记录。
	DeleteBadge(ctx context.Context, badgeID uint64) error

	// CreateAchievement 创建一个新成就并关联勋章。
	// - 规则类型必须是受支持的枚举值。
	CreateAchievement(ctx context.Context, req *dto.CreateAchievementRequest) (*vo.AchievementVO, error)

	// UpdateAchievement 更新成就信息，badge_ids 提交后整体替换勋章关联。
	UpdateAchievement(ctx context.Context, achievementID uint64, req *dto.UpdateAchievementRequest) (*vo.AchievementVO, error)

	// DeleteAchievement 删除成就，同时清理勋章关联与用户达成记录。
	DeleteAchievement(ctx context.Context, achievementID uint64) error

	// ListAchievements 查询全部成就目录（含停用项）。
	ListAchievements(ctx context.Context) ([]*vo.AchievementVO, error)
}

// gamificationAdminService 是 GamificationAdminService 接口的具体实现。
type gamificationAdminService struct {
	badgeRepo        mysql.BadgeRepository
	achievementRepo  mysql.AchievementRepository
	achievementCache redisrepo.AchievementCache
	logger           *core.ZapLogger
}

// NewGamificationAdminService 是 gamificationAdminService 的构造函数。
func NewGamificationAdminService(
	badgeRepo mysql.BadgeRepository,
	achievementRepo mysql.AchievementRepository,
	achievementCache redisrepo.AchievementCache,
	logger *core.ZapLogger,
) GamificationAdminService {
	return &gamificationAdminService{
		badgeRepo:        badgeRepo,
		achievementRepo:  achievementRepo,
		achievementCache: achievementCache,
		logger:           logger,
	}
}

// invalidateCatalogCache 使成就目录缓存失效，失败只记录（TTL 兜底）。
func (s *gamificationAdminService) invalidateCatalogCache(ctx context.Context) {
	if s.achievementCache == nil {
		return
	}
	if err := s.achievementCache.Invalidate(ctx); err != nil {
		s.logger.Warn("使成就目录缓存失效失败，等待 TTL 过期", zap.Error(err))
	}
}

// CreateBadge 实现勋章创建。
func (s *gamificationAdminService) CreateBadge(ctx context.Context, req *dto.CreateBadgeRequest) (*vo.BadgeCatalogItemVO, error) {
	badge := &entities.Badge{
		Title:       req.Title,
		Description: req.Description,
		IconURL:     req.IconURL,
		SortOrder:   req.SortOrder,
	}
	if err := s.badgeRepo.CreateBadge(ctx, badge); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("勋章创建成功", zap.Uint64("badgeID", badge.ID), zap.String("title", badge.Title))
	return vo.MapBadgeToCatalogItemVO(badge), nil
}

// UpdateBadge 实现勋章更新。
func (s *gamificationAdminService) UpdateBadge(ctx context.Context, badgeID uint64, req *dto.UpdateBadgeRequest) (*vo.BadgeCatalogItemVO, error) {
	updateMap := make(map[string]interface{})
	if req.Title != nil {
		updateMap["title"] = *req.Title
	}
	if req.Description != nil {
		updateMap["description"] = *req.Description
	}
	if req.IconURL != nil {
		updateMap["icon_url"] = *req.IconURL
	}
	if req.SortOrder != nil {
		updateMap["sort_order"] = *req.SortOrder
	}

	if err := s.badgeRepo.UpdateBadge(ctx, badgeID, updateMap); err != nil {
		return nil, err
	}

	badge, err := s.badgeRepo.GetBadgeByID(ctx, badgeID)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return vo.MapBadgeToCatalogItemVO(badge), nil
}

// DeleteBadge 实现勋章删除。
func (s *gamificationAdminService) DeleteBadge(ctx context.Context, badgeID uint64) error {
	if err := s.badgeRepo.DeleteBadge(ctx, badgeID); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	s.logger.Info("勋章删除成功", zap.Uint64("badgeID", badgeID))
	return nil
}

// CreateAchievement 实现成就创建。
func (s *gamificationAdminService) CreateAchievement(ctx context.Context, req *dto.CreateAchievementRequest) (*vo.AchievementVO, error) {
	ruleType := enums.RuleType(req.RuleType)
	if !ruleType.IsValid() {
		return nil, fmt.Errorf("不支持的规则类型: %q", req.RuleType)
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	var badges []*entities.Badge
	if len(req.BadgeIDs) > 0 {
		found, err := s.badgeRepo.GetBadgesByIDs(ctx, req.BadgeIDs)
		if err != nil {
			return nil, err
		}
		if len(found) != len(req.BadgeIDs) {
			return nil, fmt.Errorf("部分勋章不存在: 提交 %d 个，找到 %d 个", len(req.BadgeIDs), len(found))
		}
		badges = found
	}

	achievement := &entities.Achievement{
		Title:       req.Title,
		Description: req.Description,
		RuleType:    ruleType,
		RuleValue:   req.RuleValue,
		Active:      active,
		Badges:      badges,
	}
	if err := s.achievementRepo.CreateAchievement(ctx, achievement); err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	s.logger.Info("成就创建成功",
		zap.Uint64("achievementID", achievement.ID),
		zap.String("title", achievement.Title),
		zap.String("ruleType", string(ruleType)),
	)
	return vo.MapAchievementToVO(achievement), nil
}

// UpdateAchievement 实现成就更新。
func (s *gamificationAdminService) UpdateAchievement(ctx context.Context, achievementID uint64, req *dto.UpdateAchievementRequest) (*vo.AchievementVO, error) {
	updateMap := make(map[string]interface{})
	if req.Title != nil {
		updateMap["title"] = *req.Title
	}
	if req.Description != nil {
		updateMap["description"] = *req.Description
	}
	if req.RuleType != nil {
		ruleType := enums.RuleType(*req.RuleType)
		if !ruleType.IsValid() {
			return nil, fmt.Errorf("不支持的规则类型: %q", *req.RuleType)
		}
		updateMap["rule_type"] = ruleType
	}
	if req.RuleValue != nil {
		updateMap["rule_value"] = *req.RuleValue
	}
	if req.Active != nil {
		updateMap["active"] = *req.Active
	}

	if err := s.achievementRepo.UpdateAchievement(ctx, achievementID, updateMap, req.BadgeIDs); err != nil {
		return nil, err
	}

	achievement, err := s.achievementRepo.GetAchievementByID(ctx, achievementID)
	if err != nil {
		return nil, err
	}

	s.invalidateCatalogCache(ctx)
	return vo.MapAchievementToVO(achievement), nil
}

// DeleteAchievement 实现成就删除。
func (s *gamificationAdminService) DeleteAchievement(ctx context.Context, achievementID uint64) error {
	if err := s.achievementRepo.DeleteAchievement(ctx, achievementID); err != nil {
		return err
	}
	s.invalidateCatalogCache(ctx)
	s.logger.Info("成就删除成功", zap.Uint64("achievementID", achievementID))
	return nil
}

// ListAchievements 实现全部成就目录查询。
func (s *gamificationAdminService) ListAchievements(ctx context.Context) ([]*vo.AchievementVO, error) {
	achievements, err := s.achievementRepo.ListAchievements(ctx)
	if err != nil {
		return nil, err
	}
	return vo.MapAchievementsToVOs(achievements), nil
}
