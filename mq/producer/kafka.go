package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/story_service/config"
	"github.com/Xushengqwer/story_service/models/events"
)

// KafkaProducer Kafka 消息生产者
type KafkaProducer struct {
	writer *kafka.Writer
	logger *core.ZapLogger
	topics config.Topics
}

// NewKafkaProducer 创建一个新的 Kafka 生产者实例
func NewKafkaProducer(config config.KafkaConfig, logger *core.ZapLogger) *KafkaProducer {
	writer := &kafka.Writer{
		Addr:     kafka.TCP(config.Brokers...),
		Balancer: &kafka.LeastBytes{},
	}
	return &KafkaProducer{
		writer: writer,
		logger: logger,
		topics: config.Topics,
	}
}

// SendEvent 发送事件到指定 Kafka 主题
func (p *KafkaProducer) SendEvent(ctx context.Context, topic string, event interface{}) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal event", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("Sending Kafka message",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("Failed to write Kafka message", zap.Error(err), zap.String("topic", topic))
	} else {
		p.logger.Info("Successfully sent Kafka message", zap.String("topic", topic))
	}
	return err
}

// SendStoryCreatedEvent 发送故事创建事件到 Kafka
// - 意图: 将新创建的故事广播给下游服务（搜索、推荐、审核等）
// - 输入: ctx context.Context 上下文, storyData events.StoryData 故事核心数据
// - 输出: error 错误信息
func (p *KafkaProducer) SendStoryCreatedEvent(ctx context.Context, storyData events.StoryData) error {
	event := events.StoryCreatedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Story:     storyData,
	}
	return p.SendEvent(ctx, p.topics.StoryCreated, event)
}

// SendStoryDeletedEvent 发送故事删除事件到 Kafka
// - 意图: 软删除发生时通知下游服务将故事下线
// - 输入: ctx context.Context 上下文, storyID uint64 故事ID
// - 输出: error 错误信息
func (p *KafkaProducer) SendStoryDeletedEvent(ctx context.Context, storyID uint64) error {
	event := events.StoryDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		StoryID:   storyID,
	}
	return p.SendEvent(ctx, p.topics.StoryDeleted, event)
}

// Close 关闭底层 writer，释放连接。
func (p *KafkaProducer) Close() error {
	return p.writer.Close()
}
