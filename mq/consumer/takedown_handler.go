package consumer

import (
	"context"
	"encoding/json"

	"github.com/Xushengqwer/go-common/core"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/Xushengqwer/anon_forum_service/models/events"
	"github.com/Xushengqwer/anon_forum_service/service"
)

// TakedownHandler 消费外部复审服务下达的下架指令。
// 内容达到举报阈值被自动隐藏后会发出 ContentFlagged 事件；复审服务人工
// 确认违规时回发 ModerationTakedown，本 handler 对目标内容执行软删除。
type TakedownHandler struct {
	logger            *core.ZapLogger
	moderationService service.ModerationService
}

// NewTakedownHandler 创建 TakedownHandler 实例。
func NewTakedownHandler(logger *core.ZapLogger, moderationService service.ModerationService) *TakedownHandler {
	return &TakedownHandler{
		logger:            logger,
		moderationService: moderationService,
	}
}

// Handle 实现 MessageHandler 接口。
func (h *TakedownHandler) Handle(ctx context.Context, msg kafka.Message) error {
	var event events.ModerationTakedownEvent
	if err := json.Unmarshal(msg.Value, &event); err != nil {
		h.logger.Error("TakedownHandler: 反序列化下架指令失败",
			zap.Error(err),
			zap.ByteString("value", msg.Value))
		return nil // 无法解析的消息不重试
	}

	h.logger.Info("TakedownHandler: 收到下架指令",
		zap.String("event_id", event.EventID),
		zap.String("kind", string(event.Kind)),
		zap.Uint64("content_id", event.ContentID))

	if err := h.moderationService.Takedown(ctx, event.Kind, event.ContentID, event.Reason); err != nil {
		h.logger.Error("TakedownHandler: 执行下架失败",
			zap.Error(err),
			zap.String("event_id", event.EventID),
			zap.Uint64("content_id", event.ContentID))
		return err // 返回错误以便记录，消息按 reader 语义继续前进
	}

	return nil
}
