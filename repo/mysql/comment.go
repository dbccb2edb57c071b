package mysql

import (
	"context"
	"errors"
	"fmt"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Xushengqwer/story_service/models/entities"
)

// CommentRepository 定义了评论数据在 MySQL 中的持久化操作接口。
// 评论与父故事的 comments_count 冗余计数必须保持一致，
// 因此创建和删除都在同一事务内完成计数调整。
type CommentRepository interface {
	// CreateComment 持久化一条新评论，并在同一事务内将父故事的 comments_count 加一。
	// - 父故事不存在或已删除时返回 commonerrors.ErrRepoNotFound，不产生孤儿评论。
	CreateComment(ctx context.Context, comment *entities.Comment) error

	// GetCommentByID 根据单个 ID 检索评论。
	// - 如果未找到评论，应返回 commonerrors.ErrRepoNotFound 错误。
	GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error)

	// ListCommentsByStoryID 查询指定故事下的所有评论，按创建时间倒序。
	ListCommentsByStoryID(ctx context.Context, storyID uint64) ([]*entities.Comment, error)

	// DeleteComment 删除一条评论，并在同一事务内将父故事的 comments_count 减一（下限 0）。
	// - 返回 deleted=false 表示评论不存在，这是正常情况而不是错误。
	DeleteComment(ctx context.Context, id uint64) (bool, error)
}

// commentRepository 是 CommentRepository 接口针对 MySQL 的具体实现。
type commentRepository struct {
	db     *gorm.DB
	logger *core.ZapLogger
}

// NewCommentRepository 是 commentRepository 的构造函数。
func NewCommentRepository(db *gorm.DB, logger *core.ZapLogger) CommentRepository {
	return &commentRepository{
		db:     db,
		logger: logger,
	}
}

// CreateComment 实现评论插入与父故事计数加一的事务操作。
func (r *commentRepository) CreateComment(ctx context.Context, comment *entities.Comment) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先校验父故事存在且未删除，避免产生孤儿评论
		var count int64
		if err := tx.Model(&entities.Story{}).
			Where("id = ?", comment.StoryID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return commonerrors.ErrRepoNotFound
		}

		if err := tx.Create(comment).Error; err != nil {
			return err
		}

		// 同一事务内维护父故事的冗余计数
		if err := tx.Model(&entities.Story{}).
			Where("id = ?", comment.StoryID).
			UpdateColumn("comments_count", gorm.Expr("comments_count + 1")).Error; err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		if !errors.Is(err, commonerrors.ErrRepoNotFound) {
			r.logger.Error("创建评论事务失败",
				zap.Error(err),
				zap.Uint64("storyID", comment.StoryID),
			)
		}
		return err
	}
	return nil
}

// GetCommentByID 实现根据单个 ID 获取评论。
func (r *commentRepository) GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	var comment entities.Comment
	err := r.db.WithContext(ctx).First(&comment, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r.logger.Warn("根据 ID 获取评论未找到", zap.Uint64("commentID", id))
			return nil, commonerrors.ErrRepoNotFound
		}
		r.logger.Error("根据 ID 获取评论数据库查询失败", zap.Uint64("commentID", id), zap.Error(err))
		return nil, err
	}
	return &comment, nil
}

// ListCommentsByStoryID 实现故事评论列表的查询。
func (r *commentRepository) ListCommentsByStoryID(ctx context.Context, storyID uint64) ([]*entities.Comment, error) {
	var comments []*entities.Comment
	err := r.db.WithContext(ctx).
		Where("story_id = ?", storyID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		r.logger.Error("查询故事评论列表失败", zap.Error(err), zap.Uint64("storyID", storyID))
		return nil, fmt.Errorf("查询故事评论列表失败: %w", err)
	}
	return comments, nil
}

// DeleteComment 实现评论删除与父故事计数减一的事务操作。
func (r *commentRepository) DeleteComment(ctx context.Context, id uint64) (bool, error) {
	deleted := false

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 先读出评论以获得所属故事ID；不存在时直接结束，调用方拿到 deleted=false
		var comment entities.Comment
		if err := tx.First(&comment, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}

		result := tx.Delete(&entities.Comment{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true

		// 计数下限为 0，避免并发删除把计数减成负数
		if err := tx.Model(&entities.Story{}).
			Where("id = ?", comment.StoryID).
			UpdateColumn("comments_count", gorm.Expr("GREATEST(comments_count - 1, 0)")).Error; err != nil {
			return err
		}
		return nil
	})

	if err != nil {
		r.logger.Error("删除评论事务失败", zap.Error(err), zap.Uint64("commentID", id))
		return false, err
	}
	return deleted, nil
}
