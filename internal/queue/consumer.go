package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"MindTrack/internal/cache"
	"MindTrack/internal/model"
	"MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/storage/mq"
)

// Invalidator 使用户的统计缓存失效
type Invalidator interface {
	Invalidate(ctx context.Context, userID int64) error
}

// MessageMarker 消息去重标记
type MessageMarker interface {
	TryMark(ctx context.Context, messageID string) (bool, error)
	Unmark(ctx context.Context, messageID string) error
	MarkDone(ctx context.Context, messageID string) error
}

type redisMarker struct{}

func (redisMarker) TryMark(ctx context.Context, messageID string) (bool, error) {
	return cache.TryMarkMessageProcessing(ctx, messageID, 24*time.Hour)
}

func (redisMarker) Unmark(ctx context.Context, messageID string) error {
	return cache.UnmarkMessageProcessing(ctx, messageID)
}

func (redisMarker) MarkDone(ctx context.Context, messageID string) error {
	return cache.MarkMessageProcessed(ctx, messageID, 0)
}

// RedisMarker 基于 redis SETNX 的去重标记
func RedisMarker() MessageMarker {
	return redisMarker{}
}

// EntryCreatedHandler 处理打卡写入事件：使该用户的统计缓存失效
func EntryCreatedHandler(inv Invalidator, marker MessageMarker) mq.MessageHandler {
	return func(ctx context.Context, body []byte) error {
		var msg model.EntryCreatedMessage
		if err := json.Unmarshal(body, &msg); err != nil {
			return &errors.SkipMessageError{Reason: fmt.Sprintf("malformed entry created message: %v", err)}
		}
		if msg.MessageID == "" || msg.UserID == 0 {
			return &errors.SkipMessageError{Reason: "entry created message missing message_id or user_id"}
		}

		processing, err := marker.TryMark(ctx, msg.MessageID)
		if err != nil {
			// 去重检查失败时继续处理，失效操作本身是幂等的
			logger.Logger.Warn("Failed to check message processed status",
				zap.String("message_id", msg.MessageID),
				zap.Error(err),
			)
		} else if !processing {
			return &errors.SkipMessageError{Reason: fmt.Sprintf("message %s already processed", msg.MessageID)}
		}

		if err := inv.Invalidate(ctx, msg.UserID); err != nil {
			if uerr := marker.Unmark(ctx, msg.MessageID); uerr != nil {
				logger.Logger.Warn("Failed to unmark message", zap.String("message_id", msg.MessageID), zap.Error(uerr))
			}
			return fmt.Errorf("failed to invalidate analytics cache: %w", err)
		}

		if err := marker.MarkDone(ctx, msg.MessageID); err != nil {
			logger.Logger.Warn("Failed to mark message processed", zap.String("message_id", msg.MessageID), zap.Error(err))
		}

		logger.Logger.Info("Invalidated analytics cache",
			zap.String("message_id", msg.MessageID),
			zap.Int64("user_id", msg.UserID),
			zap.String("predicted_mood", msg.PredictedMood),
		)
		return nil
	}
}

// StartAnalyticsInvalidationConsumer 声明队列并阻塞消费，直到 ctx 取消
func StartAnalyticsInvalidationConsumer(ctx context.Context, exchange string, prefetch int) error {
	if err := mq.DeclareQueue(QueueAnalyticsInvalidation, exchange, RoutingKeyEntryCreated); err != nil {
		return err
	}

	handler := EntryCreatedHandler(cache.Analytics(), RedisMarker())
	return mq.Consume(ctx, mq.ConsumeOptions{
		Queue:         QueueAnalyticsInvalidation,
		ConsumerTag:   "analytics-invalidator",
		PrefetchCount: prefetch,
		Handler: func(ctx context.Context, body []byte) error {
			err := handler(ctx, body)
			metrics.RecordEventConsumed(ctx, QueueAnalyticsInvalidation, err == nil)
			return err
		},
	})
}
