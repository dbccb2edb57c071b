package tasks

import (
	"context"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/config"
	"github.com/Xushengqwer/story_service/service"
)

// PurgeExpiredTask 负责定时物理删除超过恢复窗口的软删除故事。
// 软删除后的故事保留 7 天供用户恢复，超过窗口后由本任务清理。
type PurgeExpiredTask struct {
	storyService service.StoryService // 故事服务，提供清理逻辑
	cron         *cron.Cron           // cron V3 实例
	cfg          config.PurgeConfig   // 调度表达式与单次执行超时
	logger       *core.ZapLogger      // 日志记录器
}

// NewPurgeExpiredTask 初始化并启动过期故事清理的定时任务。
func NewPurgeExpiredTask(
	storyService service.StoryService,
	cfg config.PurgeConfig,
	logger *core.ZapLogger,
) *PurgeExpiredTask {
	cronV3 := cron.New() // 默认分钟级精度
	task := &PurgeExpiredTask{
		storyService: storyService,
		cron:         cronV3,
		cfg:          cfg,
		logger:       logger,
	}
	task.startCronJob() // 在构造函数中启动定时作业
	return task
}

// startCronJob 配置并启动 cron 作业。
func (t *PurgeExpiredTask) startCronJob() {
	schedule := t.cfg.CronSpec
	t.logger.Info("准备启动过期故事清理定时任务", zap.String("schedule", schedule))

	timeout := time.Duration(t.cfg.BatchTimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}

	entryID, err := t.cron.AddFunc(schedule, func() {
		t.logger.Info("过期故事清理任务开始执行...")
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		t.purgeExpiredStories(ctx)

		duration := time.Since(startTime)
		t.logger.Info("过期故事清理任务执行完毕", zap.Duration("duration", duration))
	})

	if err != nil {
		// 添加 cron 作业失败（通常是 schedule 表达式错误）时记录致命错误
		t.logger.Fatal("添加过期故事清理 cron 作业失败", zap.Error(err), zap.String("schedule", schedule))
	}

	t.cron.Start() // 启动 cron 调度器 (在后台 goroutine 中运行)
	t.logger.Info("过期故事清理定时任务已启动", zap.Uint("cronEntryID", uint(entryID)))
}

// purgeExpiredStories 是定时任务执行的实际清理逻辑。
func (t *PurgeExpiredTask) purgeExpiredStories(ctx context.Context) {
	purged, err := t.storyService.PurgeExpired(ctx)
	if err != nil {
		// 清理失败不影响下一次调度，过期数据留到下个周期再试
		t.logger.Error("清理过期软删除故事失败，本次执行中止。", zap.Error(err))
		return
	}

	if purged == 0 {
		t.logger.Info("没有超过恢复窗口的软删除故事，无需清理。")
		return
	}
	t.logger.Info("本轮过期故事清理完成。", zap.Int64("清理数量", purged))
}

// Stop 优雅地停止 cron 调度器。
// 返回一个 context，调用者可以使用它来等待正在运行的任务完成。
func (t *PurgeExpiredTask) Stop() context.Context {
	t.logger.Info("正在停止过期故事清理定时任务...")
	stopCtx := t.cron.Stop()
	t.logger.Info("过期故事清理定时任务已停止调度。等待正在执行的任务完成...")
	return stopCtx
}
