package mysql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/story_service/models/entities"
)

// AchievementRepository 定义了成就目录在 MySQL 中的持久化操作接口。
// 成就与勋章通过 achievement_badges 多对多关联，写操作对关联做整体替换。
type AchievementRepository interface {
	// CreateAchievement 持久化一个新成就，并建立与勋章的关联。
	// - achievement.Badges 中的勋章会写入 achievement_badges 关联表。
	CreateAchievement(ctx context.Context, achievement *entities.Achievement) error

	// GetAchievementByID 根据单个 ID 检索成就（含关联勋章）。
	// - 如果未找到成就，应返回 commonerrors.ErrRepoNotFound 错误。
	GetAchievementByID(ctx context.Context, id uint64) (*entities.Achievement, error)

	// ListActiveAchievements 查询所有启用中的成就（含关联勋章），按 ID 升序。
	// - 评估引擎依赖该顺序，保证授予结果的确定性。
	ListActiveAchievements(ctx context.Context) ([]*entities.Achievement, error)

	// ListAchievements 查询全部成就目录（含停用项与关联勋章），按 ID 升序。
	ListAchievements(ctx context.Context) ([]*entities.Achievement, error)

	// UpdateAchievement 更新指定成就的字段，badgeIDs 非 nil 时整体替换勋章关联。
	UpdateAchievement(ctx context.Context, achievementID uint64, updateMap map[string]interface{}, badgeIDs *[]uint64) error

	// DeleteAchievement 删除一个成就，同时清理勋章关联与用户达成记录。
	DeleteAchievement(ctx context.Context, id uint64) error
}

// achievementRepository 是 AchievementRepository 接口针对 MySQL 的具体实现。
type achievementRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewAchievementRepository 是 achievementRepository 的构造函数。
func NewAchievementRepository(db *gorm.DB, logger *core.ZapLogger) AchievementRepository {
	return &achievementRepository{
		db:     db,
		logger: logger,
	}
}

// CreateAchievement 实现成就与勋章关联的插入操作。
func (r *achievementRepository) CreateAchievement(ctx context.Context, achievement *entities.Achievement) error {
	// GORM 会在同一事务内写入 achievements 与 achievement_badges
	if err := r.db.WithContext(ctx).Create(achievement).Error; err != nil {
		r.logger.Error("创建成就失败", zap.Error(err), zap.String("title", achievement.Title))
		return err
	}
	return nil
}

// GetAchievementByID 实现根据单个 ID 获取成就。
func (r *achievementRepository) GetAchievementByID(ctx context.Context, id uint64) (*entities.Achievement, error) {
	var achievement entities.Achievement
	err := r.db.WithContext(ctx).
		Preload("Badges").
		First(&achievement, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取成就未找到", zap.Uint64("achievementID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取成就数据库查询失败", zap.Uint64("achievementID", id), zap.Error(err))
		return nil, err
	}
	return &achievement, nil
}

// ListActiveAchievements 实现启用中成就的查询。
func (r *achievementRepository) ListActiveAchievements(ctx context.Context) ([]*entities.Achievement, error) {
	var achievements []*entities.Achievement
	err := r.db.WithContext(ctx).
		Preload("Badges").
		Where("active = ?", true).
		Order("id ASC").
		Find(&achievements).Error
	if err != nil {
		r.logger.Error("查询启用中成就列表失败", zap.Error(err))
		return nil, fmt.Errorf("查询启用中成就列表失败: %w", err)
	}
	return achievements, nil
}

// ListAchievements 实现全部成就目录的查询。
func (r *achievementRepository) ListAchievements(ctx context.Context) ([]*entities.Achievement, error) {
	var achievements []*entities.Achievement
	err := r.db.WithContext(ctx).
		Preload("Badges").
		Order("id ASC").
		Find(&achievements).Error
	if err != nil {
		r.logger.Error("查询成就目录失败", zap.Error(err))
		return nil, fmt.Errorf("查询成就目录失败: %w", err)
	}
	return achievements, nil
}

// UpdateAchievement 实现成就字段更新与勋章关联替换的事务操作。
func (r *achievementRepository) UpdateAchievement(ctx context.Context, achievementID uint64, updateMap map[string]interface{}, badgeIDs *[]uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var achievement entities.Achievement
		if err := tx.First(&achievement, achievementID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return commonerrors.ErrRepoNotFound
			}
			return err
		}

		if len(updateMap) > 0 {
			updateMap["updated_at"] = time.Now()
			if err := tx.Model(&achievement).Updates(updateMap).Error; err != nil {
				return err
			}
		}

		// badgeIDs 非 nil 时整体替换勋章关联（提交空列表即清空）
		if badgeIDs != nil {
			var badges []*entities.Badge
			if len(*badgeIDs) > 0 {
				if err := tx.Where("id IN ?", *badgeIDs).Find(&badges).Error; err != nil {
					return err
				}
			}
			if err := tx.Model(&achievement).Association("Badges").Replace(badges); err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			r.logger.Error("更新成就事务失败", zap.Error(err), zap.Uint64("achievementID", achievementID))
		}
		return err
	}
	return nil
}

// DeleteAchievement 实现成就的删除，同一事务内清理关联数据。
func (r *achievementRepository) DeleteAchievement(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM achievement_badges WHERE achievement_id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("achievement_id = ?", id).Delete(&entities.UserAchievement{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&entities.Achievement{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return commonerrors.ErrRepoNotFound
		}
		return nil
	})

	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			r.logger.Error("删除成就事务失败", zap.Error(err), zap.Uint64("achievementID", id))
		}
		return err
	}
	return nil
}
