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
	"github.com/Xushengqwer/story_service/models/enums"
)

// BadgeRepository 定义了勋章目录在 MySQL 中的持久化操作接口。
type BadgeRepository interface {
	// CreateBadge 持久化一个新勋章。
	CreateBadge(ctx context.Context, badge *entities.Badge) error

	// GetBadgeByID 根据单个 ID 检索勋章。
	// - 如果未找到勋章，应返回 commonerrors.ErrRepoNotFound 错误。
	GetBadgeByID(ctx context.Context, id uint64) (*entities.Badge, error)

	// GetBadgesByIDs 批量检索勋章，结果按传入的 ID 顺序无保证。
	GetBadgesByIDs(ctx context.Context, ids []uint64) ([]*entities.Badge, error)

	// ListBadges 查询全部勋章目录。
	// - order 非法值回退到 sort_order 升序。
	ListBadges(ctx context.Context, order enums.BadgeCatalogOrder) ([]*entities.Badge, error)

	// UpdateBadge 更新指定勋章的字段。
	// - updateMap 的键为数据库列名；总是会自动更新修改时间 (updated_at)。
	UpdateBadge(ctx context.Context, badgeID uint64, updateMap map[string]interface{}) error

	// DeleteBadge 删除一个勋章，同时清理成就关联与用户持有记录。
	DeleteBadge(ctx context.Context, id uint64) error
}

// badgeRepository 是 BadgeRepository 接口针对 MySQL 的具体实现。
type badgeRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewBadgeRepository 是 badgeRepository 的构造函数。
func NewBadgeRepository(db *gorm.DB, logger *core.ZapLogger) BadgeRepository {
	return &badgeRepository{
		db:     db,
		logger: logger,
	}
}

// CreateBadge 实现勋章的数据库插入操作。
func (r *badgeRepository) CreateBadge(ctx context.Context, badge *entities.Badge) error {
	if err := r.db.WithContext(ctx).Create(badge).Error; err != nil {
		r.logger.Error("创建勋章失败", zap.Error(err), zap.String("title", badge.Title))
		return err
	}
	return nil
}

// GetBadgeByID 实现根据单个 ID 获取勋章。
func (r *badgeRepository) GetBadgeByID(ctx context.Context, id uint64) (*entities.Badge, error) {
	var badge entities.Badge
	err := r.db.WithContext(ctx).First(&badge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取勋章未找到", zap.Uint64("badgeID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取勋章数据库查询失败", zap.Uint64("badgeID", id), zap.Error(err))
		return nil, err
	}
	return &badge, nil
}

// GetBadgesByIDs 实现勋章的批量检索。
func (r *badgeRepository) GetBadgesByIDs(ctx context.Context, ids []uint64) ([]*entities.Badge, error) {
	if len(ids) == 0 {
		return []*entities.Badge{}, nil
	}
	var badges []*entities.Badge
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&badges).Error; err != nil {
		r.logger.Error("批量获取勋章失败", zap.Error(err), zap.Any("badgeIDs", ids))
		return nil, fmt.Errorf("批量获取勋章失败: %w", err)
	}
	return badges, nil
}

// ListBadges 实现勋章目录的查询。
func (r *badgeRepository) ListBadges(ctx context.Context, order enums.BadgeCatalogOrder) ([]*entities.Badge, error) {
	var badges []*entities.Badge

	query := r.db.WithContext(ctx).Model(&entities.Badge{})
	switch order {
	case enums.BadgeCatalogOrderTitle:
		query = query.Order("title ASC")
	case enums.BadgeCatalogOrderNewest:
		query = query.Order("created_at DESC")
	default:
		// sort_order 与所有非法值统一回退到运营配置的展示顺序
		query = query.Order("sort_order ASC").Order("title ASC")
	}

	if err := query.Find(&badges).Error; err != nil {
		r.logger.Error("查询勋章目录失败", zap.Error(err))
		return nil, fmt.Errorf("查询勋章目录失败: %w", err)
	}
	return badges, nil
}

// UpdateBadge 实现勋章字段的更新。
func (r *badgeRepository) UpdateBadge(ctx context.Context, badgeID uint64, updateMap map[string]interface{}) error {
	if len(updateMap) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新勋章", zap.Uint64("badgeID", badgeID))
		return nil
	}

	updateMap["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&entities.Badge{}).
		Where("id = ?", badgeID).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("更新勋章数据库操作失败", zap.Error(result.Error), zap.Uint64("badgeID", badgeID))
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新勋章但未找到记录", zap.Uint64("badgeID", badgeID))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// DeleteBadge 实现勋章的删除，同一事务内清理关联数据。
func (r *badgeRepository) DeleteBadge(ctx context.Context, id uint64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 清理成就与勋章的关联
		if err := tx.Exec("DELETE FROM achievement_badges WHERE badge_id = ?", id).Error; err != nil {
			return err
		}
		// 清理用户持有记录
		if err := tx.Where("badge_id = ?", id).Delete(&entities.UserBadge{}).Error; err != nil {
			return err
		}

		result := tx.Unscoped().Delete(&entities.Badge{}, id)
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
			r.logger.Error("删除勋章事务失败", zap.Error(err), zap.Uint64("badgeID", id))
		}
		return err
	}
	return nil
}
