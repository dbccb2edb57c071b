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

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
)

// StoryRepository 定义了故事数据在 MySQL 中的持久化操作接口。
// 接口的设计旨在将数据访问逻辑与业务逻辑（服务层）解耦。
type StoryRepository interface {
	// CreateStory 持久化一个新的故事记录。
	// - 这是故事生命周期的起点，对应用户发布故事的操作。
	CreateStory(ctx context.Context, db *gorm.DB, story *entities.Story) error

	// GetStoryByID 根据单个 ID 检索故事信息。
	// - includeDeleted 为 true 时同时检索软删除的记录（用于恢复、详情回显等场景）。
	// - 如果未找到故事，应返回 commonerrors.ErrRepoNotFound 错误。
	GetStoryByID(ctx context.Context, id uint64, includeDeleted bool) (*entities.Story, error)

	// ListStories 按条件查询故事列表。
	// - search: 模糊匹配标题或描述；category: 按分类过滤；sortBy 非法值回退到 recent。
	// - includeDeleted 为 false 时排除软删除记录。
	// - now 用于排除定时发布时间未到的故事（定时发布的故事在到点前对列表不可见）。
	// - 返回: 故事列表, 符合条件的总记录数, 错误。
	ListStories(ctx context.Context, params *dto.ListStoriesRequest, now time.Time) ([]*entities.Story, int64, error)

	// UpdateStory 更新指定故事的字段。
	// - updateMap 的键为数据库列名；总是会自动更新故事的修改时间 (updated_at)。
	// - 目标故事不存在或已删除时返回 commonerrors.ErrRepoNotFound。
	UpdateStory(ctx context.Context, storyID uint64, updateMap map[string]interface{}) error

	// SoftDeleteStory 对指定故事执行软删除（填充 deleted_at），开启 7 天恢复窗口。
	// - 故事不存在或已删除时返回 commonerrors.ErrRepoNotFound。
	SoftDeleteStory(ctx context.Context, db *gorm.DB, id uint64) error

	// RestoreStory 恢复一个软删除的故事（将 deleted_at 置回 NULL）。
	// - 仅对处于软删除状态的故事生效，否则返回 commonerrors.ErrRepoNotFound。
	RestoreStory(ctx context.Context, id uint64) error

	// PermanentDeleteStory 物理删除一个故事记录，数据不可恢复。
	PermanentDeleteStory(ctx context.Context, db *gorm.DB, id uint64) error

	// FindDeletedStories 查询仍在恢复窗口内的软删除故事，按删除时间倒序。
	// - cutoff 之前删除的故事已不可恢复，不出现在结果中。
	FindDeletedStories(ctx context.Context, cutoff time.Time) ([]*entities.Story, error)

	// PurgeExpiredStories 物理删除软删除时间早于 cutoff 的所有故事。
	// - 由定时清理任务调用，返回删除的记录数。
	PurgeExpiredStories(ctx context.Context, cutoff time.Time) (int64, error)

	// IncrementLikes 原子地将点赞数加一，返回更新后的计数。
	// - 计数为服务端权威数据，更新必须在单条 SQL 内完成，避免并发丢失更新。
	IncrementLikes(ctx context.Context, id uint64) (int64, error)

	// DecrementLikes 原子地将点赞数减一，下限为 0，返回更新后的计数。
	DecrementLikes(ctx context.Context, id uint64) (int64, error)

	// IncrementShares 原子地将分享数加一，返回更新后的计数。
	IncrementShares(ctx context.Context, id uint64) (int64, error)

	// UpdateFlag 写入审核标记（flagged / flag_reason / flagged_at）。
	// - 审核结论来自外部审核服务，本服务只负责落库。
	UpdateFlag(ctx context.Context, id uint64, flagged bool, reason string, flaggedAt *time.Time) error
}

// storyRepository 是 StoryRepository 接口针对 MySQL 的具体实现。
type storyRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewStoryRepository 是 storyRepository 的构造函数。
func NewStoryRepository(db *gorm.DB, logger *core.ZapLogger) StoryRepository {
	return &storyRepository{
		db:     db,
		logger: logger,
	}
}

// CreateStory 实现故事的数据库插入操作。
func (r *storyRepository) CreateStory(ctx context.Context, db *gorm.DB, story *entities.Story) error {
	// 使用传入的 db 对象（可能是事务对象 tx）执行数据库操作。
	// GORM 会自动填充 BaseModel 中的 CreatedAt 和 UpdatedAt 字段。
	if err := db.WithContext(ctx).Create(story).Error; err != nil {
		return err
	}
	return nil
}

// GetStoryByID 实现根据单个 ID 获取故事。
func (r *storyRepository) GetStoryByID(ctx context.Context, id uint64, includeDeleted bool) (*entities.Story, error) {
	var story entities.Story

	query := r.db.WithContext(ctx)
	if includeDeleted {
		// Unscoped 绕过 GORM 默认的 deleted_at IS NULL 条件
		query = query.Unscoped()
	}

	err := query.First(&story, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取故事未找到", zap.Uint64("storyID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取故事数据库查询失败", zap.Uint64("storyID", id), zap.Error(err))
		return nil, err
	}

	return &story, nil
}

// ListStories 实现按条件查询故事列表。
func (r *storyRepository) ListStories(ctx context.Context, params *dto.ListStoriesRequest, now time.Time) ([]*entities.Story, int64, error) {
	var stories []*entities.Story
	var totalCount int64

	// --- 构建基础查询 ---
	buildQuery := func() *gorm.DB {
		query := r.db.WithContext(ctx).Model(&entities.Story{})
		if params.IncludeDeleted {
			query = query.Unscoped()
		}
		// 定时发布的故事在到点前不可见
		query = query.Where("scheduled_at IS NULL OR scheduled_at <= ?", now)
		if params.Search != "" {
			pattern := "%" + params.Search + "%"
			query = query.Where("caption LIKE ? OR description LIKE ?", pattern, pattern)
		}
		if params.Category != "" {
			query = query.Where("category = ?", params.Category)
		}
		return query
	}

	// --- 执行计数查询 ---
	if err := buildQuery().Count(&totalCount).Error; err != nil {
		r.logger.Error("故事列表计数查询失败", zap.Error(err), zap.Any("params", params))
		return nil, 0, fmt.Errorf("计数故事列表失败: %w", err)
	}

	if totalCount == 0 {
		return []*entities.Story{}, 0, nil
	}

	// --- 应用排序 ---
	query := buildQuery()
	switch params.SortBy {
	case enums.StorySortLikes:
		query = query.Order("likes_count DESC").Order("id DESC")
	case enums.StorySortComments:
		query = query.Order("comments_count DESC").Order("id DESC")
	default:
		// recent 与所有非法值统一回退到按创建时间倒序
		query = query.Order("created_at DESC").Order("id DESC")
	}

	if err := query.Find(&stories).Error; err != nil {
		r.logger.Error("故事列表查询失败", zap.Error(err), zap.Any("params", params))
		return nil, 0, fmt.Errorf("查询故事列表失败: %w", err)
	}

	return stories, totalCount, nil
}

// UpdateStory 实现故事字段的更新。
func (r *storyRepository) UpdateStory(ctx context.Context, storyID uint64, updateMap map[string]interface{}) error {
	if len(updateMap) == 0 {
		r.logger.Info("没有提供任何有效的字段来更新故事",
			zap.Uint64("storyID", storyID),
		)
		return nil
	}

	// 总是更新 updated_at 字段
	updateMap["updated_at"] = time.Now()

	result := r.db.WithContext(ctx).
		Model(&entities.Story{}).
		Where("id = ? AND deleted_at IS NULL", storyID).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("更新故事数据库操作失败",
			zap.Error(result.Error),
			zap.Uint64("storyID", storyID),
			zap.Any("updateData", updateMap),
		)
		return result.Error
	}

	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新故事但未找到记录或记录已被删除",
			zap.Uint64("storyID", storyID),
		)
		return commonerrors.ErrRepoNotFound
	}

	return nil
}

// SoftDeleteStory 实现故事的软删除。
// db 参数是执行此操作的数据库句柄 (可以是普通连接，也可以是事务 tx)。
func (r *storyRepository) SoftDeleteStory(ctx context.Context, db *gorm.DB, id uint64) error {
	// entities.Story 嵌入了 gorm.DeletedAt，Delete 即为填充 deleted_at
	result := db.WithContext(ctx).Delete(&entities.Story{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		// 记录不存在或已处于软删除状态
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// RestoreStory 实现软删除故事的恢复。
func (r *storyRepository) RestoreStory(ctx context.Context, id uint64) error {
	result := r.db.WithContext(ctx).
		Unscoped().
		Model(&entities.Story{}).
		Where("id = ? AND deleted_at IS NOT NULL", id).
		Updates(map[string]interface{}{
			"deleted_at": nil,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		r.logger.Error("恢复故事数据库操作失败", zap.Error(result.Error), zap.Uint64("storyID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试恢复故事但记录不存在或未处于删除状态", zap.Uint64("storyID", id))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// PermanentDeleteStory 实现故事的物理删除。
func (r *storyRepository) PermanentDeleteStory(ctx context.Context, db *gorm.DB, id uint64) error {
	result := db.WithContext(ctx).Unscoped().Delete(&entities.Story{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return commonerrors.ErrRepoNotFound
	}
	return nil
}

// FindDeletedStories 实现回收站列表的查询，只返回仍可恢复的故事。
func (r *storyRepository) FindDeletedStories(ctx context.Context, cutoff time.Time) ([]*entities.Story, error) {
	var stories []*entities.Story
	err := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at >= ?", cutoff).
		Order("deleted_at DESC").
		Find(&stories).Error
	if err != nil {
		r.logger.Error("查询软删除故事列表失败", zap.Error(err))
		return nil, fmt.Errorf("查询软删除故事列表失败: %w", err)
	}
	return stories, nil
}

// PurgeExpiredStories 实现超过恢复窗口的软删除故事的物理清理。
func (r *storyRepository) PurgeExpiredStories(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Unscoped().
		Where("deleted_at IS NOT NULL AND deleted_at < ?", cutoff).
		Delete(&entities.Story{})
	if result.Error != nil {
		r.logger.Error("清理过期软删除故事失败", zap.Error(result.Error), zap.Time("cutoff", cutoff))
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// adjustCounter 在一个事务内原子更新计数列并回读最新值。
// MySQL 不支持 UPDATE ... RETURNING，因此在同一事务中完成更新与回读。
func (r *storyRepository) adjustCounter(ctx context.Context, id uint64, column string, expr string) (int64, error) {
	var newValue int64

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&entities.Story{}).
			Where("id = ?", id).
			UpdateColumn(column, gorm.Expr(expr))
		if result.Error != nil {
			return result.Error
		}
		// 注意: 不能依赖 RowsAffected 判断记录是否存在，
		// MySQL 对值未变化的更新（如计数已为 0 时的减一）同样报告 0 行。
		// 存在性由下面的回读判断。
		var story entities.Story
		if err := tx.Select(column).First(&story, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return commonerrors.ErrRepoNotFound
			}
			return err
		}
		switch column {
		case "likes_count":
			newValue = story.LikesCount
		case "comments_count":
			newValue = story.CommentsCount
		case "shares_count":
			newValue = story.SharesCount
		}
		return nil
	})

	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			r.logger.Error("原子更新故事计数失败",
				zap.Error(err),
				zap.Uint64("storyID", id),
				zap.String("column", column),
			)
		}
		return 0, err
	}
	return newValue, nil
}

// IncrementLikes 实现点赞数的原子加一。
func (r *storyRepository) IncrementLikes(ctx context.Context, id uint64) (int64, error) {
	return r.adjustCounter(ctx, id, "likes_count", "likes_count + 1")
}

// DecrementLikes 实现点赞数的原子减一，下限为 0。
func (r *storyRepository) DecrementLikes(ctx context.Context, id uint64) (int64, error) {
	return r.adjustCounter(ctx, id, "likes_count", "GREATEST(likes_count - 1, 0)")
}

// IncrementShares 实现分享数的原子加一。
func (r *storyRepository) IncrementShares(ctx context.Context, id uint64) (int64, error) {
	return r.adjustCounter(ctx, id, "shares_count", "shares_count + 1")
}

// UpdateFlag 实现审核标记的写入。
func (r *storyRepository) UpdateFlag(ctx context.Context, id uint64, flagged bool, reason string, flaggedAt *time.Time) error {
	updateMap := map[string]interface{}{
		"flagged":    flagged,
		"updated_at": time.Now(),
	}
	if flagged {
		updateMap["flag_reason"] = reason
		updateMap["flagged_at"] = flaggedAt
	} else {
		updateMap["flag_reason"] = nil
		updateMap["flagged_at"] = nil
	}

	result := r.db.WithContext(ctx).
		Model(&entities.Story{}).
		Where("id = ?", id).
		Updates(updateMap)

	if result.Error != nil {
		r.logger.Error("更新故事审核标记失败", zap.Error(result.Error), zap.Uint64("storyID", id))
		return result.Error
	}
	if result.RowsAffected == 0 {
		r.logger.Warn("尝试更新审核标记但故事不存在", zap.Uint64("storyID", id))
		return commonerrors.ErrRepoNotFound
	}
	return nil
}
