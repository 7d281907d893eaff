package producer

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Xushengqwer/go-common/core"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/config"
	"github.com/Xushengqwer/anon_forum_service/models/events"
)

// KafkaProducer Kafka 消息生产者
// - 事件只携带内容元数据（ID、计数），绝不携带明文正文或原始来源地址
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
	if p == nil {
		// 未配置 brokers 时生产者为 nil，事件静默丢弃。
		return nil
	}
	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("序列化 Kafka 事件失败", zap.Error(err), zap.String("topic", topic))
		return err
	}

	p.logger.Debug("发送 Kafka 消息",
		zap.String("topic", topic),
		zap.ByteString("payload", eventBytes))

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Topic: topic,
		Value: eventBytes,
	})

	if err != nil {
		p.logger.Error("写入 Kafka 消息失败", zap.Error(err), zap.String("topic", topic))
	}
	return err
}

// SendContentFlaggedEvent 在内容达到举报阈值被自动隐藏的那一次举报时发送。
// - 每条内容最多只会触发一次（置位不可逆，后续举报不再翻转状态）
func (p *KafkaProducer) SendContentFlaggedEvent(ctx context.Context, kind events.ContentKind, contentID uint64, flagCount uint64) error {
	if p == nil {
		return nil
	}
	event := events.ContentFlaggedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		Kind:      kind,
		ContentID: contentID,
		FlagCount: flagCount,
	}
	return p.SendEvent(ctx, p.topics.ContentFlagged, event)
}

// SendPostDeletedEvent 在帖子被软删除时发送，供下游（如搜索索引）同步移除。
func (p *KafkaProducer) SendPostDeletedEvent(ctx context.Context, postID uint64) error {
	if p == nil {
		return nil
	}
	event := events.PostDeletedEvent{
		EventID:   uuid.New().String(),
		Timestamp: time.Now(),
		PostID:    postID,
	}
	return p.SendEvent(ctx, p.topics.PostDeleted, event)
}

// SendContentPurgedEvent 在清理任务完成一轮物理删除后发送。
func (p *KafkaProducer) SendContentPurgedEvent(ctx context.Context, postsPurged, commentsPurged, sweepDurationMS int64) error {
	if p == nil {
		return nil
	}
	event := events.ContentPurgedEvent{
		EventID:         uuid.New().String(),
		Timestamp:       time.Now(),
		PostsPurged:     postsPurged,
		CommentsPurged:  commentsPurged,
		SweepDurationMS: sweepDurationMS,
	}
	return p.SendEvent(ctx, p.topics.ContentPurged, event)
}

// Close 关闭底层的 kafka writer，释放连接。
func (p *KafkaProducer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
