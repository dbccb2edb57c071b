package service

import (
	"context"
	"errors"
	"testing"

	"github.com/Xushengqwer/go-common/commonerrors"

	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/vo"
)

// fakeCommentRepo 是 CommentRepository 的内存实现。
type fakeCommentRepo struct {
	created   []*entities.Comment
	createErr error
	comments  []*entities.Comment
	deleted   bool
}

func (f *fakeCommentRepo) CreateComment(ctx context.Context, comment *entities.Comment) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, comment)
	return nil
}

func (f *fakeCommentRepo) GetCommentByID(ctx context.Context, id uint64) (*entities.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			return c, nil
		}
	}
	return nil, commonerrors.ErrRepoNotFound
}

func (f *fakeCommentRepo) ListCommentsByStoryID(ctx context.Context, storyID uint64) ([]*entities.Comment, error) {
	return f.comments, nil
}

func (f *fakeCommentRepo) DeleteComment(ctx context.Context, id uint64) (bool, error) {
	return f.deleted, nil
}

func newCommentServiceForTest(t *testing.T, repo *fakeCommentRepo, gam *fakeGamification) *commentService {
	t.Helper()
	return &commentService{
		commentRepo:  repo,
		gamification: gam,
		logger:       newTestLogger(t),
	}
}

func TestAddCommentValidationFailure(t *testing.T) {
	repo := &fakeCommentRepo{}
	svc := newCommentServiceForTest(t, repo, &fakeGamification{})

	resp, fieldErrs, err := svc.AddComment(context.Background(), 1, "user-1", &dto.AddCommentRequest{
		AuthorName: "  ",
		Content:    "nice story",
	})
	if err != nil {
		t.Fatalf("校验失败不应作为 error 返回: %v", err)
	}
	if resp != nil {
		t.Error("校验失败不应返回响应")
	}
	if fieldErrs["author_name"] != "Name is required" {
		t.Errorf("字段错误 = %v, 期望 author_name: Name is required", fieldErrs)
	}
	if len(repo.created) != 0 {
		t.Error("校验失败不应创建评论")
	}
}

func TestAddCommentEvaluatesAuthor(t *testing.T) {
	repo := &fakeCommentRepo{}
	gam := &fakeGamification{badges: []*vo.BadgeVO{{ID: 21, Title: "Conversationalist"}}}
	svc := newCommentServiceForTest(t, repo, gam)

	resp, fieldErrs, err := svc.AddComment(context.Background(), 1, "user-1", &dto.AddCommentRequest{
		AuthorName: "alice",
		Content:    "This reminded me of my own grandmother.",
	})
	if err != nil {
		t.Fatalf("发表评论失败: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("不应有校验错误, 得到 %v", fieldErrs)
	}
	if len(repo.created) != 1 {
		t.Fatalf("应创建一条评论, 实际 %d 条", len(repo.created))
	}
	if repo.created[0].StoryID != 1 {
		t.Errorf("评论的故事ID = %d, 期望 1", repo.created[0].StoryID)
	}
	if repo.created[0].AuthorID == nil || *repo.created[0].AuthorID != "user-1" {
		t.Errorf("评论者ID = %v, 期望 user-1", repo.created[0].AuthorID)
	}

	if len(gam.recordedUsers) != 1 || gam.recordedUsers[0] != "user-1" {
		t.Errorf("应记录评论者活跃日期, 得到 %v", gam.recordedUsers)
	}
	if len(gam.evaluatedUsers) != 1 || gam.evaluatedUsers[0] != "user-1" {
		t.Errorf("应对评论者执行成就评估, 得到 %v", gam.evaluatedUsers)
	}
	if len(resp.EarnedBadges) != 1 || resp.EarnedBadges[0].ID != 21 {
		t.Errorf("新获得的勋章应随响应返回, 得到 %+v", resp.EarnedBadges)
	}
}

func TestAddCommentAnonymousSkipsEvaluation(t *testing.T) {
	repo := &fakeCommentRepo{}
	gam := &fakeGamification{badges: []*vo.BadgeVO{{ID: 21}}}
	svc := newCommentServiceForTest(t, repo, gam)

	resp, fieldErrs, err := svc.AddComment(context.Background(), 1, "", &dto.AddCommentRequest{
		AuthorName: "anonymous reader",
		Content:    "Thank you for sharing this.",
	})
	if err != nil {
		t.Fatalf("匿名评论失败: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("不应有校验错误, 得到 %v", fieldErrs)
	}
	if len(repo.created) != 1 {
		t.Fatal("匿名评论也应创建成功")
	}
	if repo.created[0].AuthorID != nil {
		t.Error("匿名评论不应携带评论者ID")
	}
	if len(gam.evaluatedUsers) != 0 || len(gam.recordedUsers) != 0 {
		t.Error("匿名评论不应触发成就评估")
	}
	if resp.EarnedBadges == nil || len(resp.EarnedBadges) != 0 {
		t.Errorf("匿名评论的勋章列表应为空切片, 得到 %+v", resp.EarnedBadges)
	}
}

func TestAddCommentParentMissing(t *testing.T) {
	repo := &fakeCommentRepo{createErr: commonerrors.ErrRepoNotFound}
	gam := &fakeGamification{}
	svc := newCommentServiceForTest(t, repo, gam)

	_, _, err := svc.AddComment(context.Background(), 99, "user-1", &dto.AddCommentRequest{
		AuthorName: "alice",
		Content:    "Is anyone still reading this thread?",
	})
	if !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Errorf("父故事不存在应透传 ErrRepoNotFound, 得到 %v", err)
	}
	if len(gam.evaluatedUsers) != 0 {
		t.Error("评论未创建不应触发成就评估")
	}
}

func TestAddCommentEvaluationFailureDoesNotFail(t *testing.T) {
	repo := &fakeCommentRepo{}
	gam := &fakeGamification{evalErr: errors.New("db gone away")}
	svc := newCommentServiceForTest(t, repo, gam)

	resp, fieldErrs, err := svc.AddComment(context.Background(), 1, "user-1", &dto.AddCommentRequest{
		AuthorName: "alice",
		Content:    "The evaluation backend is having a bad day.",
	})
	if err != nil {
		t.Fatalf("成就评估失败不应使评论失败: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("不应有校验错误, 得到 %v", fieldErrs)
	}
	if len(resp.EarnedBadges) != 0 {
		t.Errorf("评估失败应按无新勋章处理, 得到 %+v", resp.EarnedBadges)
	}
}

func TestDeleteCommentMissingIsNotError(t *testing.T) {
	repo := &fakeCommentRepo{deleted: false}
	svc := newCommentServiceForTest(t, repo, &fakeGamification{})

	deleted, err := svc.DeleteComment(context.Background(), 42)
	if err != nil {
		t.Fatalf("删除不存在的评论不应出错: %v", err)
	}
	if deleted {
		t.Error("不存在的评论应返回 deleted=false")
	}
}

func TestDeleteComment(t *testing.T) {
	repo := &fakeCommentRepo{deleted: true}
	svc := newCommentServiceForTest(t, repo, &fakeGamification{})

	deleted, err := svc.DeleteComment(context.Background(), 1)
	if err != nil {
		t.Fatalf("删除评论失败: %v", err)
	}
	if !deleted {
		t.Error("应返回 deleted=true")
	}
}
