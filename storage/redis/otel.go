package redis

import (
	"context"
	"net"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"
	"go.opentelemetry.io/otel/trace"
)

// tracingHook 为每条命令创建 client span
type tracingHook struct {
	tracer trace.Tracer
}

func newTracingHook() *tracingHook {
	return &tracingHook{tracer: otel.Tracer("mindtrack.redis")}
}

func (h *tracingHook) DialHook(next redis.DialHook) redis.DialHook {
	return func(ctx context.Context, network, addr string) (net.Conn, error) {
		return next(ctx, network, addr)
	}
}

func (h *tracingHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook {
	return func(ctx context.Context, cmd redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis."+cmd.Name(),
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemRedis,
				attribute.String("db.operation", cmd.Name()),
			),
		)
		defer span.End()

		err := next(ctx, cmd)
		setStatus(span, err)
		return err
	}
}

func (h *tracingHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		ctx, span := h.tracer.Start(ctx, "redis.pipeline",
			trace.WithSpanKind(trace.SpanKindClient),
			trace.WithAttributes(
				semconv.DBSystemRedis,
				attribute.Int("db.redis.num_cmd", len(cmds)),
			),
		)
		defer span.End()

		err := next(ctx, cmds)
		setStatus(span, err)
		return err
	}
}

func setStatus(span trace.Span, err error) {
	// 缓存未命中不算错误
	if err != nil && err != redis.Nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}
