package mq

import (
	"context"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	pkgerrors "MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
)

type MessageHandler func(ctx context.Context, body []byte) error

type ConsumeOptions struct {
	Queue         string
	ConsumerTag   string
	PrefetchCount int
	Handler       MessageHandler
}

// Consume 阻塞消费直到 ctx 取消或 channel 关闭。
// 处理成功 ack；SkipMessageError 直接 ack 丢弃；其余错误 nack 并重新入队。
func Consume(ctx context.Context, opts ConsumeOptions) error {
	if conn == nil {
		return fmt.Errorf("RabbitMQ connection is nil")
	}

	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to open channel: %w", err)
	}
	defer ch.Close()

	if opts.PrefetchCount > 0 {
		if err := ch.Qos(opts.PrefetchCount, 0, false); err != nil {
			return fmt.Errorf("failed to set QoS: %w", err)
		}
	}

	msgs, err := ch.Consume(
		opts.Queue,
		opts.ConsumerTag,
		false, // auto-ack = false
		false, // exclusive
		false, // no-local
		false, // no-wait
		nil,
	)
	if err != nil {
		return fmt.Errorf("failed to register consumer: %w", err)
	}

	logger.Logger.Info("Started consuming messages",
		zap.String("queue", opts.Queue),
		zap.String("consumer_tag", opts.ConsumerTag),
		zap.Int("prefetch_count", opts.PrefetchCount),
	)

	tracer := otel.Tracer("mindtrack.mq")
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-msgs:
			if !ok {
				return fmt.Errorf("consumer channel closed for queue %s", opts.Queue)
			}
			handleDelivery(ctx, tracer, opts, msg)
		}
	}
}

func handleDelivery(ctx context.Context, tracer trace.Tracer, opts ConsumeOptions, msg amqp.Delivery) {
	msgCtx := otel.GetTextMapPropagator().Extract(ctx, HeaderCarrier(msg.Headers))
	msgCtx, span := tracer.Start(msgCtx, "mq.consume "+opts.Queue,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "rabbitmq"),
			attribute.String("messaging.destination.name", opts.Queue),
			attribute.String("messaging.rabbitmq.routing_key", msg.RoutingKey),
		),
	)
	defer span.End()

	switch outcome := Decide(opts.Handler(msgCtx, msg.Body)); outcome.Disposition {
	case Ack:
		_ = msg.Ack(false)
	case Skip:
		logger.Logger.Warn("Skipping message",
			zap.String("queue", opts.Queue),
			zap.Error(outcome.Err),
		)
		_ = msg.Ack(false)
	default:
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, outcome.Err.Error())
		logger.Logger.Error("Failed to process message",
			zap.String("queue", opts.Queue),
			zap.String("consumer_tag", opts.ConsumerTag),
			zap.Error(outcome.Err),
		)
		_ = msg.Nack(false, true)
	}
}

// Disposition 处理结果对应的确认方式
type Disposition int

const (
	Ack Disposition = iota
	Skip
	Requeue
)

// Outcome 是一次处理的确认方式及原因
type Outcome struct {
	Disposition Disposition
	Err         error
}

// Decide 把处理结果映射为确认方式
func Decide(err error) Outcome {
	if err == nil {
		return Outcome{Disposition: Ack}
	}
	var skip *pkgerrors.SkipMessageError
	if errors.As(err, &skip) {
		return Outcome{Disposition: Skip, Err: err}
	}
	return Outcome{Disposition: Requeue, Err: err}
}
