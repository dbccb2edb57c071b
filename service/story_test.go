package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"gorm.io/gorm"

	"github.com/Xushengqwer/story_service/constant"
	"github.com/Xushengqwer/story_service/models/dto"
	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/models/vo"
	"github.com/Xushengqwer/story_service/myErrors"
	"github.com/Xushengqwer/story_service/repo/mysql"
)

// fakeStoryRepo 是 StoryRepository 的内存实现，只覆盖服务层测试用到的方法。
type fakeStoryRepo struct {
	mysql.StoryRepository
	stories map[uint64]*entities.Story

	updateCalls    []map[string]interface{}
	restoreCalled  bool
	deletedCutoff  time.Time
	purgeCutoff    time.Time
	purgeResult    int64
}

func (f *fakeStoryRepo) FindDeletedStories(ctx context.Context, cutoff time.Time) ([]*entities.Story, error) {
	f.deletedCutoff = cutoff
	var deleted []*entities.Story
	for _, story := range f.stories {
		if story.DeletedAt.Valid && !story.DeletedAt.Time.Before(cutoff) {
			deleted = append(deleted, story)
		}
	}
	return deleted, nil
}

func (f *fakeStoryRepo) GetStoryByID(ctx context.Context, id uint64, includeDeleted bool) (*entities.Story, error) {
	story, ok := f.stories[id]
	if !ok {
		return nil, commonerrors.ErrRepoNotFound
	}
	if !includeDeleted && story.DeletedAt.Valid {
		return nil, commonerrors.ErrRepoNotFound
	}
	return story, nil
}

func (f *fakeStoryRepo) UpdateStory(ctx context.Context, storyID uint64, updateMap map[string]interface{}) error {
	f.updateCalls = append(f.updateCalls, updateMap)
	return nil
}

func (f *fakeStoryRepo) RestoreStory(ctx context.Context, id uint64) error {
	story, ok := f.stories[id]
	if !ok {
		return commonerrors.ErrRepoNotFound
	}
	story.DeletedAt = gorm.DeletedAt{}
	f.restoreCalled = true
	return nil
}

func (f *fakeStoryRepo) IncrementLikes(ctx context.Context, id uint64) (int64, error) {
	story, ok := f.stories[id]
	if !ok {
		return 0, commonerrors.ErrRepoNotFound
	}
	story.LikesCount++
	return story.LikesCount, nil
}

func (f *fakeStoryRepo) DecrementLikes(ctx context.Context, id uint64) (int64, error) {
	story, ok := f.stories[id]
	if !ok {
		return 0, commonerrors.ErrRepoNotFound
	}
	if story.LikesCount > 0 {
		story.LikesCount--
	}
	return story.LikesCount, nil
}

func (f *fakeStoryRepo) IncrementShares(ctx context.Context, id uint64) (int64, error) {
	story, ok := f.stories[id]
	if !ok {
		return 0, commonerrors.ErrRepoNotFound
	}
	story.SharesCount++
	return story.SharesCount, nil
}

func (f *fakeStoryRepo) PurgeExpiredStories(ctx context.Context, cutoff time.Time) (int64, error) {
	f.purgeCutoff = cutoff
	return f.purgeResult, nil
}

// fakeGamification 记录评估调用, 返回预设的勋章列表。
type fakeGamification struct {
	GamificationService
	recordedUsers  []string
	evaluatedUsers []string
	badges         []*vo.BadgeVO
	evalErr        error
}

func (f *fakeGamification) RecordActivity(ctx context.Context, userID string) error {
	f.recordedUsers = append(f.recordedUsers, userID)
	return nil
}

func (f *fakeGamification) EvaluateAndAward(ctx context.Context, userID string) ([]*vo.BadgeVO, error) {
	f.evaluatedUsers = append(f.evaluatedUsers, userID)
	if f.evalErr != nil {
		return nil, f.evalErr
	}
	return f.badges, nil
}

// newTestStory 构造一个合法的故事实体。
func newTestStory(id uint64, createdAt time.Time) *entities.Story {
	story := &entities.Story{
		Caption:     "A quiet afternoon by the river",
		Description: "The summer I learned to fish with my grandfather on the old wooden pier.",
		Category:    enums.CategoryLifeLessons,
		Privacy:     enums.PrivacyPublic,
	}
	story.ID = id
	story.CreatedAt = createdAt
	return story
}

func newStoryServiceForTest(t *testing.T, repo *fakeStoryRepo, gam *fakeGamification) *storyService {
	t.Helper()
	return &storyService{
		storyRepo:    repo,
		gamification: gam,
		logger:       newTestLogger(t),
		now:          func() time.Time { return fixedNow },
	}
}

func TestGetStoryByIDScheduledGate(t *testing.T) {
	future := fixedNow.Add(time.Hour)
	scheduled := newTestStory(1, fixedNow.Add(-time.Hour))
	scheduled.ScheduledAt = &future

	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: scheduled}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	if _, err := svc.GetStoryByID(context.Background(), 1); !errors.Is(err, commonerrors.ErrRepoNotFound) {
		t.Errorf("定时发布时间未到应按未找到处理, 得到 %v", err)
	}

	past := fixedNow.Add(-time.Minute)
	scheduled.ScheduledAt = &past
	resp, err := svc.GetStoryByID(context.Background(), 1)
	if err != nil {
		t.Fatalf("定时发布时间已过应可见: %v", err)
	}
	if resp.ID != 1 {
		t.Errorf("返回的故事ID = %d, 期望 1", resp.ID)
	}
}

func TestUpdateStoryWithinEditWindow(t *testing.T) {
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{
		1: newTestStory(1, fixedNow.Add(-time.Hour)),
	}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	newCaption := "An even quieter afternoon"
	newDescription := "Looking back, those mornings on the pier taught me more than patience."
	category := string(enums.CategoryFamilyTraditions)
	resp, fieldErrs, err := svc.UpdateStory(context.Background(), 1, &dto.UpdateStoryRequest{
		Caption:     &newCaption,
		Description: &newDescription,
		Category:    &category,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("不应有校验错误, 得到 %v", fieldErrs)
	}
	if len(resp.LockedFields) != 0 {
		t.Errorf("24小时内不应有锁定字段, 得到 %v", resp.LockedFields)
	}
	if resp.Story.Caption != newCaption {
		t.Errorf("标题未更新, 得到 %q", resp.Story.Caption)
	}
	if len(repo.updateCalls) != 1 {
		t.Fatalf("应执行一次数据库更新, 实际 %d 次", len(repo.updateCalls))
	}
	updateMap := repo.updateCalls[0]
	for _, column := range []string{"caption", "description", "category"} {
		if _, ok := updateMap[column]; !ok {
			t.Errorf("更新列缺少 %q: %v", column, updateMap)
		}
	}
}

func TestUpdateStoryAfterEditWindowLocksContent(t *testing.T) {
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{
		1: newTestStory(1, fixedNow.Add(-25*time.Hour)),
	}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	originalCaption := repo.stories[1].Caption
	newCaption := "Rewritten caption"
	newDescription := "A completely different description that is long enough to pass."
	privacy := string(enums.PrivacyFriendsOnly)
	resp, fieldErrs, err := svc.UpdateStory(context.Background(), 1, &dto.UpdateStoryRequest{
		Caption:     &newCaption,
		Description: &newDescription,
		Privacy:     &privacy,
	})
	if err != nil {
		t.Fatalf("更新失败: %v", err)
	}
	if len(fieldErrs) != 0 {
		t.Fatalf("不应有校验错误, 得到 %v", fieldErrs)
	}

	// 锁定字段的修改被忽略并显式报告, 其余字段仍然生效
	if len(resp.LockedFields) != 2 {
		t.Fatalf("锁定字段 = %v, 期望 [caption description]", resp.LockedFields)
	}
	if resp.LockedFields[0] != "caption" || resp.LockedFields[1] != "description" {
		t.Errorf("锁定字段 = %v, 期望 [caption description]", resp.LockedFields)
	}
	if resp.Story.Caption != originalCaption {
		t.Errorf("锁定后标题不应变化, 得到 %q", resp.Story.Caption)
	}
	if resp.Story.Privacy != enums.PrivacyFriendsOnly {
		t.Errorf("可见性应更新为 Friends Only, 得到 %q", resp.Story.Privacy)
	}

	if len(repo.updateCalls) != 1 {
		t.Fatalf("应执行一次数据库更新, 实际 %d 次", len(repo.updateCalls))
	}
	updateMap := repo.updateCalls[0]
	if _, ok := updateMap["caption"]; ok {
		t.Error("锁定的 caption 不应进入更新列")
	}
	if _, ok := updateMap["description"]; ok {
		t.Error("锁定的 description 不应进入更新列")
	}
	if _, ok := updateMap["privacy"]; !ok {
		t.Error("privacy 应进入更新列")
	}
}

func TestUpdateStoryValidationFailure(t *testing.T) {
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{
		1: newTestStory(1, fixedNow.Add(-time.Hour)),
	}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	empty := "   "
	resp, fieldErrs, err := svc.UpdateStory(context.Background(), 1, &dto.UpdateStoryRequest{
		Caption: &empty,
	})
	if err != nil {
		t.Fatalf("校验失败不应作为 error 返回: %v", err)
	}
	if resp != nil {
		t.Error("校验失败不应返回响应")
	}
	if fieldErrs["caption"] != "Caption is required" {
		t.Errorf("字段错误 = %v, 期望 caption: Caption is required", fieldErrs)
	}
	if len(repo.updateCalls) != 0 {
		t.Error("校验失败不应触发数据库更新")
	}
}

func TestRestoreStoryNotDeleted(t *testing.T) {
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{
		1: newTestStory(1, fixedNow.Add(-48*time.Hour)),
	}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	if _, err := svc.RestoreStory(context.Background(), 1); !errors.Is(err, myErrors.ErrStoryNotDeleted) {
		t.Errorf("恢复未删除的故事应返回 ErrStoryNotDeleted, 得到 %v", err)
	}
}

func TestRestoreStoryWindowExpired(t *testing.T) {
	story := newTestStory(1, fixedNow.Add(-30*24*time.Hour))
	story.DeletedAt = gorm.DeletedAt{Time: fixedNow.Add(-8 * 24 * time.Hour), Valid: true}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: story}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	if _, err := svc.RestoreStory(context.Background(), 1); !errors.Is(err, myErrors.ErrRestoreWindowExpired) {
		t.Errorf("超过恢复窗口应返回 ErrRestoreWindowExpired, 得到 %v", err)
	}
	if repo.restoreCalled {
		t.Error("窗口已过不应执行恢复")
	}
}

func TestRestoreStoryWithinWindow(t *testing.T) {
	story := newTestStory(1, fixedNow.Add(-10*24*time.Hour))
	story.DeletedAt = gorm.DeletedAt{Time: fixedNow.Add(-2 * 24 * time.Hour), Valid: true}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: story}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	resp, err := svc.RestoreStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("窗口内恢复失败: %v", err)
	}
	if !repo.restoreCalled {
		t.Error("应执行恢复操作")
	}
	if resp.IsDeleted {
		t.Error("恢复后的故事不应处于删除状态")
	}
}

func TestListDeletedStoriesExcludesExpired(t *testing.T) {
	recoverable := newTestStory(1, fixedNow.Add(-10*24*time.Hour))
	recoverable.DeletedAt = gorm.DeletedAt{Time: fixedNow.Add(-6 * 24 * time.Hour), Valid: true}
	expired := newTestStory(2, fixedNow.Add(-20*24*time.Hour))
	expired.DeletedAt = gorm.DeletedAt{Time: fixedNow.Add(-8 * 24 * time.Hour), Valid: true}

	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: recoverable, 2: expired}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	stories, err := svc.ListDeletedStories(context.Background())
	if err != nil {
		t.Fatalf("查询回收站失败: %v", err)
	}
	if len(stories) != 1 || stories[0].ID != 1 {
		t.Errorf("回收站应只包含仍可恢复的故事, 得到 %+v", stories)
	}

	wantCutoff := fixedNow.Add(-constant.RecoveryWindow)
	if !repo.deletedCutoff.Equal(wantCutoff) {
		t.Errorf("回收站查询截止时间 = %v, 期望 %v", repo.deletedCutoff, wantCutoff)
	}
}

func TestLikeStoryEvaluatesOwner(t *testing.T) {
	owner := "owner-1"
	story := newTestStory(1, fixedNow.Add(-time.Hour))
	story.AuthorID = &owner

	gam := &fakeGamification{badges: []*vo.BadgeVO{{ID: 11, Title: "Crowd Favorite"}}}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: story}}
	svc := newStoryServiceForTest(t, repo, gam)

	count, badges, err := svc.LikeStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("点赞失败: %v", err)
	}
	if count != 1 {
		t.Errorf("点赞数 = %d, 期望 1", count)
	}
	if len(badges) != 1 || badges[0].ID != 11 {
		t.Errorf("应返回作者新获得的勋章, 得到 %+v", badges)
	}
	if len(gam.evaluatedUsers) != 1 || gam.evaluatedUsers[0] != owner {
		t.Errorf("应对作者执行成就评估, 得到 %v", gam.evaluatedUsers)
	}
	// 点赞是他人的操作, 不应记为作者的活跃日
	if len(gam.recordedUsers) != 0 {
		t.Errorf("点赞不应记录作者活跃日期, 得到 %v", gam.recordedUsers)
	}
}

func TestLikeStoryAnonymousOwner(t *testing.T) {
	gam := &fakeGamification{badges: []*vo.BadgeVO{{ID: 11}}}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{
		1: newTestStory(1, fixedNow.Add(-time.Hour)),
	}}
	svc := newStoryServiceForTest(t, repo, gam)

	count, badges, err := svc.LikeStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("点赞失败: %v", err)
	}
	if count != 1 {
		t.Errorf("点赞数 = %d, 期望 1", count)
	}
	if len(badges) != 0 {
		t.Errorf("匿名作者不应获得勋章, 得到 %+v", badges)
	}
	if len(gam.evaluatedUsers) != 0 {
		t.Errorf("匿名作者不应触发评估, 得到 %v", gam.evaluatedUsers)
	}
}

func TestLikeStoryEvaluationFailureDoesNotFail(t *testing.T) {
	owner := "owner-1"
	story := newTestStory(1, fixedNow.Add(-time.Hour))
	story.AuthorID = &owner

	gam := &fakeGamification{evalErr: errors.New("db gone away")}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: story}}
	svc := newStoryServiceForTest(t, repo, gam)

	count, badges, err := svc.LikeStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("成就评估失败不应使点赞失败: %v", err)
	}
	if count != 1 {
		t.Errorf("点赞数 = %d, 期望 1", count)
	}
	if len(badges) != 0 {
		t.Errorf("评估失败应按无新勋章处理, 得到 %+v", badges)
	}
}

func TestUnlikeStoryFloorsAtZero(t *testing.T) {
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{
		1: newTestStory(1, fixedNow.Add(-time.Hour)),
	}}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	count, _, err := svc.UnlikeStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("取消点赞失败: %v", err)
	}
	if count != 0 {
		t.Errorf("点赞数下限应为 0, 得到 %d", count)
	}
}

func TestUnlikeStoryEvaluatesOwner(t *testing.T) {
	owner := "owner-1"
	story := newTestStory(1, fixedNow.Add(-time.Hour))
	story.AuthorID = &owner
	story.LikesCount = 5

	gam := &fakeGamification{badges: []*vo.BadgeVO{{ID: 11, Title: "Crowd Favorite"}}}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: story}}
	svc := newStoryServiceForTest(t, repo, gam)

	count, badges, err := svc.UnlikeStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("取消点赞失败: %v", err)
	}
	if count != 4 {
		t.Errorf("点赞数 = %d, 期望 4", count)
	}
	// 取消点赞同样是计数变化, 对作者重新评估并返回新勋章
	if len(badges) != 1 || badges[0].ID != 11 {
		t.Errorf("应返回作者新获得的勋章, 得到 %+v", badges)
	}
	if len(gam.evaluatedUsers) != 1 || gam.evaluatedUsers[0] != owner {
		t.Errorf("应对作者执行成就评估, 得到 %v", gam.evaluatedUsers)
	}
}

func TestShareStoryEvaluatesOwner(t *testing.T) {
	owner := "owner-1"
	story := newTestStory(1, fixedNow.Add(-time.Hour))
	story.AuthorID = &owner

	gam := &fakeGamification{}
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{1: story}}
	svc := newStoryServiceForTest(t, repo, gam)

	count, _, err := svc.ShareStory(context.Background(), 1)
	if err != nil {
		t.Fatalf("分享失败: %v", err)
	}
	if count != 1 {
		t.Errorf("分享数 = %d, 期望 1", count)
	}
	if len(gam.evaluatedUsers) != 1 || gam.evaluatedUsers[0] != owner {
		t.Errorf("应对作者执行成就评估, 得到 %v", gam.evaluatedUsers)
	}
}

func TestPurgeExpiredUsesRecoveryWindowCutoff(t *testing.T) {
	repo := &fakeStoryRepo{stories: map[uint64]*entities.Story{}, purgeResult: 3}
	svc := newStoryServiceForTest(t, repo, &fakeGamification{})

	purged, err := svc.PurgeExpired(context.Background())
	if err != nil {
		t.Fatalf("清理失败: %v", err)
	}
	if purged != 3 {
		t.Errorf("清理数量 = %d, 期望 3", purged)
	}
	wantCutoff := fixedNow.Add(-constant.RecoveryWindow)
	if !repo.purgeCutoff.Equal(wantCutoff) {
		t.Errorf("清理截止时间 = %v, 期望 %v", repo.purgeCutoff, wantCutoff)
	}
}
