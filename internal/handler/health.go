package handler

import (
	"context"
	"net/http"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"go.uber.org/zap"

	"MindTrack/pkg/logger"
)

// Health 存活检查，不依赖外部组件
// GET /health
func Health(ctx context.Context, c *app.RequestContext) {
	c.JSON(http.StatusOK, utils.H{"status": "ok"})
}

// Probe 单个依赖的就绪检查
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// Ready 就绪检查，任一依赖不可用时返回 503
// GET /ready
func Ready(probes ...Probe) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		status := http.StatusOK
		checks := make(utils.H, len(probes))
		for _, p := range probes {
			if err := p.Check(ctx); err != nil {
				logger.Ctx(ctx).Warn("Readiness probe failed", zap.String("probe", p.Name), zap.Error(err))
				checks[p.Name] = "unavailable"
				status = http.StatusServiceUnavailable
				continue
			}
			checks[p.Name] = "ok"
		}

		result := "ok"
		if status != http.StatusOK {
			result = "degraded"
		}
		c.JSON(status, utils.H{"status": result, "checks": checks})
	}
}
