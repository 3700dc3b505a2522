package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/config"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"MindTrack/pkg/metrics"
)

// toValidUTF8 统一清洗用户可控字符串，防止非法 UTF-8 触发指标/trace 序列化失败
func toValidUTF8(val string) string {
	return strings.ToValidUTF8(val, "")
}

// MetricsMiddleware 记录 HTTP 请求数、耗时与活跃请求，span 由 hertz tracing 中间件创建
func MetricsMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		start := time.Now()
		done := metrics.HTTPRequestStarted(ctx)
		defer done()

		c.Next(ctx)

		// 使用注册路由，避免路径参数导致指标基数膨胀
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		method := toValidUTF8(string(c.Method()))
		status := c.Response.StatusCode()

		span := trace.SpanFromContext(ctx)
		if span.IsRecording() {
			if userID, ok := GetUserID(ctx, c); ok {
				span.SetAttributes(attribute.Int64("enduser.id", userID))
			}
			if requestID := c.Response.Header.Get(RequestIDHeader); requestID != "" {
				span.SetAttributes(attribute.String("http.request_id", toValidUTF8(requestID)))
			}
		}

		metrics.RecordHTTPRequest(ctx, method, route, status, time.Since(start).Seconds())
	}
}

// NewServerTracerConfig 创建 Hertz Server 的追踪配置
// 返回用于初始化 Hertz server 的配置选项和追踪中间件
func NewServerTracerConfig(opts ...hertztracing.Option) (config.Option, app.HandlerFunc) {
	tracer, cfg := hertztracing.NewServerTracer(opts...)
	return tracer, hertztracing.ServerMiddleware(cfg)
}
