package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/Xushengqwer/go-common/commonerrors"
	commonConfig "github.com/Xushengqwer/go-common/config"
	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"

	"github.com/Xushengqwer/story_service/models/events"
	"github.com/Xushengqwer/story_service/repo/mysql"
)

func newTestLogger(t *testing.T) *core.ZapLogger {
	t.Helper()
	logger, err := core.NewZapLogger(commonConfig.ZapConfig{})
	if err != nil {
		t.Fatalf("初始化测试日志记录器失败: %v", err)
	}
	return logger
}

// flagRecordingRepo 只记录 UpdateFlag 的调用参数。
type flagRecordingRepo struct {
	mysql.StoryRepository
	err error

	called    bool
	storyID   uint64
	flagged   bool
	reason    string
	flaggedAt *time.Time
}

func (f *flagRecordingRepo) UpdateFlag(ctx context.Context, id uint64, flagged bool, reason string, flaggedAt *time.Time) error {
	f.called = true
	f.storyID = id
	f.flagged = flagged
	f.reason = reason
	f.flaggedAt = flaggedAt
	return f.err
}

func flaggedMessage(t *testing.T, event events.StoryFlaggedEvent) kafka.Message {
	t.Helper()
	value, err := json.Marshal(event)
	if err != nil {
		t.Fatalf("序列化测试事件失败: %v", err)
	}
	return kafka.Message{Topic: "story.flagged", Value: value}
}

func TestStoryFlaggedHandlerSetsFlag(t *testing.T) {
	repo := &flagRecordingRepo{}
	handler := NewStoryFlaggedHandler(newTestLogger(t), repo)

	ts := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	msg := flaggedMessage(t, events.StoryFlaggedEvent{
		EventID:   "evt-1",
		Timestamp: ts,
		StoryID:   7,
		Reason:    "inappropriate content",
	})

	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("处理标记消息失败: %v", err)
	}
	if !repo.called {
		t.Fatal("应调用 UpdateFlag")
	}
	if repo.storyID != 7 || !repo.flagged {
		t.Errorf("UpdateFlag 参数 id=%d flagged=%v, 期望 id=7 flagged=true", repo.storyID, repo.flagged)
	}
	if repo.reason != "inappropriate content" {
		t.Errorf("标记原因 = %q", repo.reason)
	}
	if repo.flaggedAt == nil || !repo.flaggedAt.Equal(ts) {
		t.Errorf("标记时间 = %v, 期望事件时间 %v", repo.flaggedAt, ts)
	}
}

func TestStoryFlaggedHandlerTruncatesLongReason(t *testing.T) {
	repo := &flagRecordingRepo{}
	handler := NewStoryFlaggedHandler(newTestLogger(t), repo)

	longReason := strings.Repeat("r", maxFlagReasonLength+100)
	msg := flaggedMessage(t, events.StoryFlaggedEvent{StoryID: 7, Reason: longReason})

	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("处理标记消息失败: %v", err)
	}
	want := strings.Repeat("r", maxFlagReasonLength) + "..."
	if repo.reason != want {
		t.Errorf("超长原因应截断为 %d 字符加省略号, 得到长度 %d", maxFlagReasonLength, len(repo.reason))
	}
}

func TestStoryFlaggedHandlerTruncatesMultiByteReason(t *testing.T) {
	repo := &flagRecordingRepo{}
	handler := NewStoryFlaggedHandler(newTestLogger(t), repo)

	// 中文原因每个字符占多个字节, 截断必须落在字符边界上
	longReason := strings.Repeat("违规", maxFlagReasonLength)
	msg := flaggedMessage(t, events.StoryFlaggedEvent{StoryID: 7, Reason: longReason})

	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("处理标记消息失败: %v", err)
	}
	if !utf8.ValidString(repo.reason) {
		t.Errorf("截断结果不是合法的 UTF-8: %q", repo.reason)
	}
	want := string([]rune(longReason)[:maxFlagReasonLength]) + "..."
	if repo.reason != want {
		t.Errorf("截断结果字符数 = %d, 期望 %d 字符加省略号",
			utf8.RuneCountInString(repo.reason), maxFlagReasonLength)
	}
}

func TestStoryFlaggedHandlerSkipsMalformedMessage(t *testing.T) {
	repo := &flagRecordingRepo{}
	handler := NewStoryFlaggedHandler(newTestLogger(t), repo)

	msg := kafka.Message{Topic: "story.flagged", Value: []byte("not json")}
	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("无法解析的消息不应触发重试: %v", err)
	}
	if repo.called {
		t.Error("无法解析的消息不应调用 UpdateFlag")
	}
}

func TestStoryFlaggedHandlerMissingStoryNotRetried(t *testing.T) {
	repo := &flagRecordingRepo{err: commonerrors.ErrRepoNotFound}
	handler := NewStoryFlaggedHandler(newTestLogger(t), repo)

	msg := flaggedMessage(t, events.StoryFlaggedEvent{StoryID: 404, Reason: "x"})
	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Errorf("故事不存在不应触发重试, 得到 %v", err)
	}
}

func TestStoryFlaggedHandlerRetriesOnRepoError(t *testing.T) {
	repo := &flagRecordingRepo{err: errors.New("db gone away")}
	handler := NewStoryFlaggedHandler(newTestLogger(t), repo)

	msg := flaggedMessage(t, events.StoryFlaggedEvent{StoryID: 7, Reason: "x"})
	if err := handler.Handle(context.Background(), msg); err == nil {
		t.Error("数据库故障应返回错误以触发重试")
	}
}

func TestStoryUnflaggedHandlerClearsFlag(t *testing.T) {
	repo := &flagRecordingRepo{}
	handler := NewStoryUnflaggedHandler(newTestLogger(t), repo)

	value, err := json.Marshal(events.StoryUnflaggedEvent{EventID: "evt-2", StoryID: 7})
	if err != nil {
		t.Fatalf("序列化测试事件失败: %v", err)
	}
	msg := kafka.Message{Topic: "story.unflagged", Value: value}

	if err := handler.Handle(context.Background(), msg); err != nil {
		t.Fatalf("处理取消标记消息失败: %v", err)
	}
	if !repo.called {
		t.Fatal("应调用 UpdateFlag")
	}
	if repo.storyID != 7 || repo.flagged {
		t.Errorf("UpdateFlag 参数 id=%d flagged=%v, 期望 id=7 flagged=false", repo.storyID, repo.flagged)
	}
	if repo.reason != "" || repo.flaggedAt != nil {
		t.Errorf("清除标记应同时清空原因与时间, reason=%q flaggedAt=%v", repo.reason, repo.flaggedAt)
	}
}
