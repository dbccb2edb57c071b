package service

import (
	"context"
	"strings"

	"github.com/Xushengqwer/go-common/core"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/vo"
	"github.com/Xushengqwer/story_service/repo/mysql"
)

// CommentService 定义了处理评论业务逻辑的接口。
type CommentService interface {
	// AddComment 处理发表评论的业务流程。
	// - 评论写入与父故事计数调整在同一事务内完成；
	//   提交后对评论作者执行成就评估（失败只记录日志）。
	// - 第二个返回值为字段级校验错误，非空时评论未创建。
	AddComment(ctx context.Context, storyID uint64, userID string, req *dto.AddCommentRequest) (*vo.AddCommentResponse, map[string]string, error)

	// GetCommentByID 获取单条评论。
	// - 如果未找到评论，透传 commonerrors.ErrRepoNotFound。
	GetCommentByID(ctx context.Context, id uint64) (*vo.CommentResponse, error)

	// ListComments 查询故事下的评论列表，按创建时间倒序。
	ListComments(ctx context.Context, storyID uint64) ([]*vo.CommentResponse, error)

	// DeleteComment 删除一条评论。
	// - 返回 deleted=false 表示评论不存在，这是正常情况而不是错误。
	DeleteComment(ctx context.Context, id uint64) (bool, error)
}

// commentService 是 CommentService 接口的具体实现。
type commentService struct {
	commentRepo  mysql.CommentRepository
	gamification GamificationService
	logger       *core.ZapLogger
}

// NewCommentService 是 commentService 的构造函数。
func NewCommentService(
	commentRepo mysql.CommentRepository,
	gamification GamificationService,
	logger *core.ZapLogger,
) CommentService {
	return &commentService{
		commentRepo:  commentRepo,
		gamification: gamification,
		logger:       logger,
	}
}

// AddComment 实现评论发表逻辑。
func (s *commentService) AddComment(ctx context.Context, storyID uint64, userID string, req *dto.AddCommentRequest) (*vo.AddCommentResponse, map[string]string, error) {
	comment := &entities.Comment{
		StoryID:    storyID,
		AuthorName: strings.TrimSpace(req.AuthorName),
		Content:    strings.TrimSpace(req.Content),
	}
	if userID != "" {
		comment.AuthorID = &userID
	}

	if fieldErrs := comment.Validate(); len(fieldErrs) > 0 {
		return nil, fieldErrs, nil
	}

	// 评论插入与父故事 comments_count 加一在仓库层同一事务内完成
	if err := s.commentRepo.CreateComment(ctx, comment); err != nil {
		return nil, nil, err
	}

	// 评论已提交，成就评估只增益不回滚
	earnedBadges := []*vo.BadgeVO{}
	if userID != "" {
		if err := s.gamification.RecordActivity(ctx, userID); err != nil {
			s.logger.Error("记录用户活跃日期失败", zap.Error(err), zap.String("userID", userID))
		}
		badges, err := s.gamification.EvaluateAndAward(ctx, userID)
		if err != nil {
			s.logger.Error("评论后的成就评估失败，按无新勋章处理",
				zap.Error(err),
				zap.String("userID", userID),
			)
		} else {
			earnedBadges = badges
		}
	}

	return &vo.AddCommentResponse{
		Comment:      vo.MapCommentToResponseVO(comment),
		EarnedBadges: earnedBadges,
	}, nil, nil
}

// GetCommentByID 实现单条评论查询。
func (s *commentService) GetCommentByID(ctx context.Context, id uint64) (*vo.CommentResponse, error) {
	comment, err := s.commentRepo.GetCommentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return vo.MapCommentToResponseVO(comment), nil
}

// ListComments 实现评论列表查询。
func (s *commentService) ListComments(ctx context.Context, storyID uint64) ([]*vo.CommentResponse, error) {
	comments, err := s.commentRepo.ListCommentsByStoryID(ctx, storyID)
	if err != nil {
		return nil, err
	}
	return vo.MapCommentsToResponseVOs(comments), nil
}

// DeleteComment 实现评论删除逻辑。
func (s *commentService) DeleteComment(ctx context.Context, id uint64) (bool, error) {
	deleted, err := s.commentRepo.DeleteComment(ctx, id)
	if err != nil {
		return false, err
	}
	if !deleted {
		s.logger.Info("尝试删除不存在的评论", zap.Uint64("commentID", id))
	}
	return deleted, nil
}
