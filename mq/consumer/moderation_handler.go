package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Xushengqwer/go-common/commonerrors"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/models/events"
	"github.com/Xushengqwer/story_service/repo/mysql"
)

// todo  未配置死信队列

// MessageHandler 定义了处理 Kafka 消息的接口
type MessageHandler interface {
	Handle(ctx context.Context, msg kafka.Message) error
}

// 审核结论由外部审核服务产生，本服务只消费结果并落库标记。
// flag_reason 数据库字段长度为 255，超长原因截断。
const maxFlagReasonLength = 250

// truncateFlagReason 将超长原因截断到 maxFlagReasonLength 个字符并追加省略号。
// 按字符而不是字节截断，避免把多字节字符切成非法 UTF-8。
func truncateFlagReason(reason string) string {
	runes := []rune(reason)
	if len(runes) <= maxFlagReasonLength {
		return reason
	}
	return string(runes[:maxFlagReasonLength]) + "..."
}

// --- StoryFlaggedHandler ---

type StoryFlaggedHandler struct {
	logger    *core.ZapLogger
	storyRepo mysql.StoryRepository
}

func NewStoryFlaggedHandler(logger *core.ZapLogger, storyRepo mysql.StoryRepository) *StoryFlaggedHandler {
	return &StoryFlaggedHandler{
		logger:    logger,
		storyRepo: storyRepo,
	}
}

func (h *StoryFlaggedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("StoryFlaggedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.StoryFlaggedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("StoryFlaggedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	storyID := event.StoryID
	reason := truncateFlagReason(event.Reason)

	h.logger.Info("StoryFlaggedHandler: 成功解析审核标记消息",
		zap.String("event_id", event.EventID),
		zap.Uint64("story_id", storyID),
		zap.String("reason", reason))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	flaggedAt := event.Timestamp
	if flaggedAt.IsZero() {
		flaggedAt = time.Now()
	}

	err := h.storyRepo.UpdateFlag(updateCtx, storyID, true, reason, &flaggedAt)
	if err != nil {
		h.logger.Error("StoryFlaggedHandler: 写入审核标记失败", zap.Error(err), zap.Uint64("story_id", storyID))
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("StoryFlaggedHandler: 尝试标记不存在或已删除的故事", zap.Uint64("story_id", storyID))
			return nil // 不再重试
		}
		return fmt.Errorf("StoryFlaggedHandler: 调用 UpdateFlag 失败: %w", err)
	}

	h.logger.Info("StoryFlaggedHandler: 成功写入审核标记", zap.Uint64("story_id", storyID))
	return nil
}

// --- StoryUnflaggedHandler ---

type StoryUnflaggedHandler struct {
	logger    *core.ZapLogger
	storyRepo mysql.StoryRepository
}

func NewStoryUnflaggedHandler(logger *core.ZapLogger, storyRepo mysql.StoryRepository) *StoryUnflaggedHandler {
	return &StoryUnflaggedHandler{
		logger:    logger,
		storyRepo: storyRepo,
	}
}

func (h *StoryUnflaggedHandler) Handle(ctx context.Context, msg kafka.Message) error {
	h.logger.Debug("StoryUnflaggedHandler: 开始处理 Kafka 消息", zap.String("topic", msg.Topic))

	var event events.StoryUnflaggedEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("StoryUnflaggedHandler: 反序列化 Kafka 消息失败", zap.Error(err), zap.ByteString("value", msg.Value))
		return nil // 不重试无法解析的消息
	}

	storyID := event.StoryID
	h.logger.Info("StoryUnflaggedHandler: 成功解析取消标记消息",
		zap.String("event_id", event.EventID),
		zap.Uint64("story_id", storyID))

	updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err := h.storyRepo.UpdateFlag(updateCtx, storyID, false, "", nil)
	if err != nil {
		h.logger.Error("StoryUnflaggedHandler: 清除审核标记失败", zap.Error(err), zap.Uint64("story_id", storyID))
		if errors.Is(err, commonerrors.ErrRepoNotFound) {
			h.logger.Warn("StoryUnflaggedHandler: 尝试取消标记不存在或已删除的故事", zap.Uint64("story_id", storyID))
			return nil // 不再重试
		}
		return fmt.Errorf("StoryUnflaggedHandler: 调用 UpdateFlag 失败: %w", err)
	}

	h.logger.Info("StoryUnflaggedHandler: 成功清除审核标记", zap.Uint64("story_id", storyID))
	return nil
}
