package service

import (
	"context"
	"errors"
	"testing"
	"time"

	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"

	"github.com/Xushengqwer/story_service/models/entities"
	"github.com/Xushengqwer/story_service/models/enums"
	"github.com/Xushengqwer/story_service/models/vo"
	"github.com/Xushengqwer/story_service/myErrors"
	"github.com/Xushengqwer/story_service/repo/mysql"
)

// newTestLogger 构造测试用的日志记录器。
func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("初始化测试日志记录器失败: %v", err)
	}
	return logger
}

// fixedNow 测试用的固定时钟。
var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

// fakeProgressRepo 是 UserProgressRepository 的内存实现，记录所有写入供断言。
type fakeProgressRepo struct {
	stats    *vo.UserStats
	statsErr error

	held        map[uint64]bool // 已达成的成就
	existingAch map[uint64]bool // 表中已有达成记录, insert-or-ignore 返回 false
	existingBdg map[uint64]bool // 表中已有授予记录, insert-or-ignore 返回 false

	statsCalls    int
	awardedAch    []uint64
	awardedBadges []uint64
	activityDates []string

	userBadges       []*entities.UserBadge
	userAchievements []*entities.UserAchievement
}

func (f *fakeProgressRepo) GetUserStats(ctx context.Context, userID string, now time.Time) (*vo.UserStats, error) {
	f.statsCalls++
	if f.statsErr != nil {
		return nil, f.statsErr
	}
	if f.stats == nil {
		return &vo.UserStats{}, nil
	}
	return f.stats, nil
}

func (f *fakeProgressRepo) HasAchievement(ctx context.Context, userID string, achievementID uint64) (bool, error) {
	return f.held[achievementID], nil
}

func (f *fakeProgressRepo) AwardAchievement(ctx context.Context, userID string, achievementID uint64, earnedAt time.Time) (bool, error) {
	if f.existingAch[achievementID] {
		return false, nil
	}
	f.awardedAch = append(f.awardedAch, achievementID)
	return true, nil
}

func (f *fakeProgressRepo) AwardBadge(ctx context.Context, userID string, badgeID uint64, earnedAt time.Time) (bool, error) {
	if f.existingBdg[badgeID] {
		return false, nil
	}
	f.awardedBadges = append(f.awardedBadges, badgeID)
	return true, nil
}

func (f *fakeProgressRepo) GetUserBadges(ctx context.Context, userID string, sort enums.BadgeSort) ([]*entities.UserBadge, error) {
	return f.userBadges, nil
}

func (f *fakeProgressRepo) GetUserAchievements(ctx context.Context, userID string) ([]*entities.UserAchievement, error) {
	return f.userAchievements, nil
}

func (f *fakeProgressRepo) RecordActivityDate(ctx context.Context, userID string, date string) error {
	f.activityDates = append(f.activityDates, date)
	return nil
}

// fakeAchievementRepo 只实现评估引擎用到的目录查询。
type fakeAchievementRepo struct {
	mysql.AchievementRepository
	active []*entities.Achievement
	calls  int
}

func (f *fakeAchievementRepo) ListActiveAchievements(ctx context.Context) ([]*entities.Achievement, error) {
	f.calls++
	return f.active, nil
}

// fakeAchievementCache 是 AchievementCache 的内存实现。
type fakeAchievementCache struct {
	cached      []*entities.Achievement
	getErr      error
	setCalls    int
	invalidated int
}

func (f *fakeAchievementCache) GetActive(ctx context.Context) ([]*entities.Achievement, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.cached == nil {
		return nil, myErrors.ErrCacheMiss
	}
	return f.cached, nil
}

func (f *fakeAchievementCache) SetActive(ctx context.Context, achievements []*entities.Achievement) error {
	f.setCalls++
	f.cached = achievements
	return nil
}

func (f *fakeAchievementCache) Invalidate(ctx context.Context) error {
	f.invalidated++
	f.cached = nil
	return nil
}

// testAchievement 构造一个带关联勋章的成就目录项。
func testAchievement(id uint64, ruleType enums.RuleType, ruleValue int64, badgeIDs ...uint64) *entities.Achievement {
	a := &entities.Achievement{
		Title:     "Test Achievement",
		RuleType:  ruleType,
		RuleValue: ruleValue,
		Active:    true,
	}
	a.ID = id
	for _, bid := range badgeIDs {
		b := &entities.Badge{Title: "Test Badge"}
		b.ID = bid
		a.Badges = append(a.Badges, b)
	}
	return a
}

func newGamificationForTest(t *testing.T, achRepo *fakeAchievementRepo, progress *fakeProgressRepo, cache *fakeAchievementCache) *gamificationService {
	t.Helper()
	svc := &gamificationService{
		achievementRepo: achRepo,
		progressRepo:    progress,
		logger:          newTestLogger(t),
		now:             func() time.Time { return fixedNow },
	}
	if cache != nil {
		svc.achievementCache = cache
	}
	return svc
}

func TestEvaluateAndAwardAnonymousUser(t *testing.T) {
	progress := &fakeProgressRepo{}
	svc := newGamificationForTest(t, &fakeAchievementRepo{}, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "")
	if err != nil {
		t.Fatalf("匿名用户评估不应出错: %v", err)
	}
	if len(badges) != 0 {
		t.Errorf("匿名用户不应获得勋章, 得到 %d 个", len(badges))
	}
	if progress.statsCalls != 0 {
		t.Error("匿名用户不应触发统计查询")
	}
}

func TestEvaluateAndAwardGrantsNewBadges(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{
			testAchievement(1, enums.RuleStoriesCreatedTotal, 1, 11),
		},
	}
	progress := &fakeProgressRepo{
		stats: &vo.UserStats{StoriesCreated: 1},
		held:  map[uint64]bool{},
	}
	svc := newGamificationForTest(t, achRepo, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(progress.awardedAch) != 1 || progress.awardedAch[0] != 1 {
		t.Errorf("应写入成就 1 的达成记录, 得到 %v", progress.awardedAch)
	}
	if len(badges) != 1 || badges[0].ID != 11 {
		t.Fatalf("应返回新获得的勋章 11, 得到 %+v", badges)
	}
}

func TestEvaluateAndAwardSkipsHeldAchievement(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{
			testAchievement(1, enums.RuleStoriesCreatedTotal, 1, 11),
		},
	}
	progress := &fakeProgressRepo{
		stats: &vo.UserStats{StoriesCreated: 5},
		held:  map[uint64]bool{1: true},
	}
	svc := newGamificationForTest(t, achRepo, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(badges) != 0 || len(progress.awardedAch) != 0 {
		t.Errorf("已达成的成就不应重复授予, badges=%v awards=%v", badges, progress.awardedAch)
	}
}

func TestEvaluateAndAwardBelowThreshold(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{
			testAchievement(1, enums.RuleLikesReceivedTotal, 50, 11),
		},
	}
	progress := &fakeProgressRepo{
		stats: &vo.UserStats{LikesReceived: 49},
		held:  map[uint64]bool{},
	}
	svc := newGamificationForTest(t, achRepo, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(badges) != 0 || len(progress.awardedAch) != 0 {
		t.Errorf("统计值未达阈值不应授予, badges=%v awards=%v", badges, progress.awardedAch)
	}
}

func TestEvaluateAndAwardUnknownRuleType(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{
			testAchievement(1, "total_logins", 1, 11),
		},
	}
	progress := &fakeProgressRepo{
		stats: &vo.UserStats{StoriesCreated: 100},
		held:  map[uint64]bool{},
	}
	svc := newGamificationForTest(t, achRepo, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("未知规则类型不应导致评估失败: %v", err)
	}
	if len(badges) != 0 || len(progress.awardedAch) != 0 {
		t.Errorf("未知规则类型应视为不满足, badges=%v awards=%v", badges, progress.awardedAch)
	}
}

func TestEvaluateAndAwardLostInsertRace(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{
			testAchievement(1, enums.RuleStoriesCreatedTotal, 1, 11),
		},
	}
	// HasAchievement 返回 false 但插入被唯一索引忽略, 模拟并发评估竞争
	progress := &fakeProgressRepo{
		stats:       &vo.UserStats{StoriesCreated: 1},
		held:        map[uint64]bool{},
		existingAch: map[uint64]bool{1: true},
	}
	svc := newGamificationForTest(t, achRepo, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(badges) != 0 {
		t.Errorf("竞争失败方不应返回勋章, 得到 %v", badges)
	}
	if len(progress.awardedBadges) != 0 {
		t.Errorf("竞争失败方不应尝试授予勋章, 得到 %v", progress.awardedBadges)
	}
}

func TestEvaluateAndAwardOnlyNewBadgesReturned(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{
			testAchievement(1, enums.RuleStoriesCreatedTotal, 1, 11, 12),
		},
	}
	// 勋章 12 已通过其他成就持有, 本次只应返回 11
	progress := &fakeProgressRepo{
		stats:       &vo.UserStats{StoriesCreated: 1},
		held:        map[uint64]bool{},
		existingBdg: map[uint64]bool{12: true},
	}
	svc := newGamificationForTest(t, achRepo, progress, nil)

	badges, err := svc.EvaluateAndAward(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("评估失败: %v", err)
	}
	if len(badges) != 1 || badges[0].ID != 11 {
		t.Fatalf("应只返回新插入的勋章 11, 得到 %+v", badges)
	}
}

func TestActiveAchievementsCacheHit(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{testAchievement(1, enums.RuleStoriesCreatedTotal, 1)},
	}
	cache := &fakeAchievementCache{
		cached: []*entities.Achievement{testAchievement(2, enums.RuleCommentsWrittenTotal, 3)},
	}
	svc := newGamificationForTest(t, achRepo, &fakeProgressRepo{}, cache)

	vos, err := svc.ListActiveAchievements(context.Background())
	if err != nil {
		t.Fatalf("查询启用成就失败: %v", err)
	}
	if achRepo.calls != 0 {
		t.Error("缓存命中时不应回源数据库")
	}
	if len(vos) != 1 || vos[0].ID != 2 {
		t.Errorf("应返回缓存中的目录, 得到 %+v", vos)
	}
}

func TestActiveAchievementsCacheMissBackfills(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{testAchievement(1, enums.RuleStoriesCreatedTotal, 1)},
	}
	cache := &fakeAchievementCache{}
	svc := newGamificationForTest(t, achRepo, &fakeProgressRepo{}, cache)

	vos, err := svc.ListActiveAchievements(context.Background())
	if err != nil {
		t.Fatalf("查询启用成就失败: %v", err)
	}
	if achRepo.calls != 1 {
		t.Errorf("缓存未命中应回源数据库一次, 实际 %d 次", achRepo.calls)
	}
	if cache.setCalls != 1 {
		t.Errorf("回源后应回填缓存一次, 实际 %d 次", cache.setCalls)
	}
	if len(vos) != 1 || vos[0].ID != 1 {
		t.Errorf("应返回数据库中的目录, 得到 %+v", vos)
	}
}

func TestActiveAchievementsCacheFailureDegrades(t *testing.T) {
	achRepo := &fakeAchievementRepo{
		active: []*entities.Achievement{testAchievement(1, enums.RuleStoriesCreatedTotal, 1)},
	}
	cache := &fakeAchievementCache{getErr: errors.New("redis: connection refused")}
	svc := newGamificationForTest(t, achRepo, &fakeProgressRepo{}, cache)

	vos, err := svc.ListActiveAchievements(context.Background())
	if err != nil {
		t.Fatalf("缓存故障应降级回源而不是失败: %v", err)
	}
	if achRepo.calls != 1 {
		t.Errorf("缓存故障应回源数据库, 实际调用 %d 次", achRepo.calls)
	}
	if len(vos) != 1 {
		t.Errorf("应返回数据库中的目录, 得到 %+v", vos)
	}
}

func TestRecordActivity(t *testing.T) {
	progress := &fakeProgressRepo{}
	svc := newGamificationForTest(t, &fakeAchievementRepo{}, progress, nil)

	if err := svc.RecordActivity(context.Background(), "user-1"); err != nil {
		t.Fatalf("记录活跃日期失败: %v", err)
	}
	if len(progress.activityDates) != 1 || progress.activityDates[0] != "2026-03-10" {
		t.Errorf("活跃日期 = %v, 期望 [2026-03-10]", progress.activityDates)
	}

	if err := svc.RecordActivity(context.Background(), ""); err != nil {
		t.Fatalf("匿名用户记录活跃日期不应出错: %v", err)
	}
	if len(progress.activityDates) != 1 {
		t.Error("匿名用户不应写入活跃日期")
	}
}
