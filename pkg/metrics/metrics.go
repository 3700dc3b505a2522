package metrics

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics 业务与 HTTP 指标集合
type OTelMetrics struct {
	// 打卡相关指标
	EntriesCreatedTotal     metric.Int64Counter
	PredictionsTotal        metric.Int64Counter
	PredictionFallbackTotal metric.Int64Counter
	StreakUpdateFailures    metric.Int64Counter
	AnalyticsCacheTotal     metric.Int64Counter

	// 对话相关指标
	ChatRepliesTotal  metric.Int64Counter
	ChatReplyDuration metric.Float64Histogram

	// 消息队列相关指标
	EventsPublishedTotal metric.Int64Counter
	EventsConsumedTotal  metric.Int64Counter

	// HTTP 相关指标
	HTTPServerRequestTotal   metric.Int64Counter
	HTTPServerDuration       metric.Float64Histogram
	HTTPServerActiveRequests metric.Int64UpDownCounter
}

var (
	// 全局指标实例，未初始化时所有记录函数为空操作
	metrics *OTelMetrics
)

// InitMetrics 从全局 MeterProvider 创建指标，需在 otel 初始化之后调用
func InitMetrics() error {
	m, err := newMetrics(otel.Meter("mindtrack"))
	if err != nil {
		return err
	}
	metrics = m
	return nil
}

func newMetrics(meter metric.Meter) (*OTelMetrics, error) {
	var err error
	m := &OTelMetrics{}

	if m.EntriesCreatedTotal, err = meter.Int64Counter(
		"wellness_entries_created_total",
		metric.WithDescription("Total number of wellness entries persisted"),
		metric.WithUnit("{entry}"),
	); err != nil {
		return nil, err
	}

	if m.PredictionsTotal, err = meter.Int64Counter(
		"wellness_predictions_total",
		metric.WithDescription("Total number of mood predictions by label"),
		metric.WithUnit("{prediction}"),
	); err != nil {
		return nil, err
	}

	if m.PredictionFallbackTotal, err = meter.Int64Counter(
		"wellness_prediction_fallback_total",
		metric.WithDescription("Predictions that fell back to neutral"),
		metric.WithUnit("{prediction}"),
	); err != nil {
		return nil, err
	}

	if m.StreakUpdateFailures, err = meter.Int64Counter(
		"wellness_streak_update_failures_total",
		metric.WithDescription("Streak updates that failed after the entry was stored"),
		metric.WithUnit("{error}"),
	); err != nil {
		return nil, err
	}

	if m.AnalyticsCacheTotal, err = meter.Int64Counter(
		"analytics_cache_lookups_total",
		metric.WithDescription("Analytics cache lookups by result"),
		metric.WithUnit("{lookup}"),
	); err != nil {
		return nil, err
	}

	if m.ChatRepliesTotal, err = meter.Int64Counter(
		"chat_replies_total",
		metric.WithDescription("Total number of chat replies by source"),
		metric.WithUnit("{reply}"),
	); err != nil {
		return nil, err
	}

	if m.ChatReplyDuration, err = meter.Float64Histogram(
		"chat_reply_duration_seconds",
		metric.WithDescription("Time spent generating a chat reply"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.EventsPublishedTotal, err = meter.Int64Counter(
		"mq_events_published_total",
		metric.WithDescription("Domain events published by status"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, err
	}

	if m.EventsConsumedTotal, err = meter.Int64Counter(
		"mq_events_consumed_total",
		metric.WithDescription("Domain events consumed by status"),
		metric.WithUnit("{message}"),
	); err != nil {
		return nil, err
	}

	if m.HTTPServerRequestTotal, err = meter.Int64Counter(
		"http_server_requests_total",
		metric.WithDescription("Total number of HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	if m.HTTPServerDuration, err = meter.Float64Histogram(
		"http_server_duration_seconds",
		metric.WithDescription("HTTP request duration"),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if m.HTTPServerActiveRequests, err = meter.Int64UpDownCounter(
		"http_server_active_requests",
		metric.WithDescription("Number of in-flight HTTP requests"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}

	return m, nil
}

// GetMetrics 获取全局指标实例
func GetMetrics() *OTelMetrics {
	return metrics
}

// RecordEntryCreated 记录打卡写入及预测结果
func RecordEntryCreated(ctx context.Context, label string, fallback bool) {
	m := GetMetrics()
	if m == nil {
		return
	}
	m.EntriesCreatedTotal.Add(ctx, 1)
	m.PredictionsTotal.Add(ctx, 1, metric.WithAttributes(attribute.String("label", label)))
	if fallback {
		m.PredictionFallbackTotal.Add(ctx, 1)
	}
}

// RecordStreakUpdateFailure 记录连续天数更新失败
func RecordStreakUpdateFailure(ctx context.Context) {
	if m := GetMetrics(); m != nil {
		m.StreakUpdateFailures.Add(ctx, 1)
	}
}

// RecordAnalyticsCache 记录统计缓存命中情况，result 取 hit/miss/error
func RecordAnalyticsCache(ctx context.Context, kind, result string) {
	if m := GetMetrics(); m != nil {
		m.AnalyticsCacheTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("kind", kind),
			attribute.String("result", result),
		))
	}
}

// RecordChatReply 记录一次对话回复，source 取 llm/local/fallback
func RecordChatReply(ctx context.Context, source string, seconds float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("source", source))
	m.ChatRepliesTotal.Add(ctx, 1, attrs)
	m.ChatReplyDuration.Record(ctx, seconds, attrs)
}

// RecordEventPublished 记录事件发布
func RecordEventPublished(ctx context.Context, routingKey string, ok bool) {
	if m := GetMetrics(); m != nil {
		m.EventsPublishedTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("routing_key", routingKey),
			attribute.String("status", status(ok)),
		))
	}
}

// RecordEventConsumed 记录事件消费
func RecordEventConsumed(ctx context.Context, queue string, ok bool) {
	if m := GetMetrics(); m != nil {
		m.EventsConsumedTotal.Add(ctx, 1, metric.WithAttributes(
			attribute.String("queue", queue),
			attribute.String("status", status(ok)),
		))
	}
}

func status(ok bool) string {
	if ok {
		return "success"
	}
	return "failed"
}

// HTTPRequestStarted 活跃请求数加一，返回的函数在请求结束时调用
func HTTPRequestStarted(ctx context.Context) func() {
	m := GetMetrics()
	if m == nil {
		return func() {}
	}
	m.HTTPServerActiveRequests.Add(ctx, 1)
	return func() { m.HTTPServerActiveRequests.Add(ctx, -1) }
}

// RecordHTTPRequest 记录一次 HTTP 请求，route 使用注册时的路由而不是实际路径
func RecordHTTPRequest(ctx context.Context, method, route string, statusCode int, seconds float64) {
	m := GetMetrics()
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(
		attribute.String("http.method", method),
		attribute.String("http.route", route),
		attribute.Int("http.status_code", statusCode),
	)
	m.HTTPServerRequestTotal.Add(ctx, 1, attrs)
	m.HTTPServerDuration.Record(ctx, seconds, attrs)
}
