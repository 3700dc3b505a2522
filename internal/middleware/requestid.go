package middleware

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/google/uuid"

	"MindTrack/pkg/logger"
)

const RequestIDHeader = "X-Request-Id"

// RequestIDMiddleware 透传或生成请求 ID，并写入日志上下文
func RequestIDMiddleware() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		requestID := string(c.GetHeader(RequestIDHeader))
		if requestID == "" || len(requestID) > 64 {
			requestID = uuid.NewString()
		}

		c.Header(RequestIDHeader, requestID)
		c.Next(logger.WithRequestID(ctx, requestID))
	}
}
