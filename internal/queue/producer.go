package queue

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MindTrack/internal/model"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/pkg/snowflake"
	"MindTrack/storage/mq"
)

// Producer 向业务交换机发布事件
type Producer struct {
	exchange string
	publish  func(ctx context.Context, exchange, routingKey string, body interface{}) error
}

func NewProducer(exchange string) *Producer {
	return &Producer{exchange: exchange, publish: mq.PublishMessage}
}

// PublishEntryCreated 发布打卡写入事件，MessageID 为空时自动生成
func (p *Producer) PublishEntryCreated(ctx context.Context, msg model.EntryCreatedMessage) error {
	if msg.MessageID == "" {
		id, err := snowflake.NextID()
		if err != nil {
			return fmt.Errorf("failed to generate message ID: %w", err)
		}
		msg.MessageID = fmt.Sprintf("entry_created_%d", id)
	}
	if msg.OccurredAt == "" {
		msg.OccurredAt = time.Now().UTC().Format(time.RFC3339)
	}

	err := p.publish(ctx, p.exchange, RoutingKeyEntryCreated, msg)
	metrics.RecordEventPublished(ctx, RoutingKeyEntryCreated, err == nil)
	if err != nil {
		logger.Ctx(ctx).Error("Failed to publish entry created message",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.Error(err),
		)
		return err
	}

	logger.Ctx(ctx).Debug("Published entry created message",
		zap.String("message_id", msg.MessageID),
		zap.Int64("user_id", msg.UserID),
		zap.Int64("entry_id", msg.EntryID),
	)
	return nil
}
