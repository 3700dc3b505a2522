package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"MindTrack/internal/middleware"
	"MindTrack/internal/model"
	"MindTrack/pkg/response"
)

// AnalyticsHistory 按天分组的均值
// GET /analytics/history?start&end|days
func (h *Handler) AnalyticsHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	var q model.AnalyticsRangeQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := h.analytics.History(ctx, userID, q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{
		"range":   data.Range,
		"history": data.History,
	})
}

// AnalyticsSummary 区间统计与最好/最差的一天
// GET /analytics/summary?start&end|days
func (h *Handler) AnalyticsSummary(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	var q model.AnalyticsRangeQuery
	if err := c.BindQuery(&q); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	data, err := h.analytics.Summary(ctx, userID, q)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{
		"range":   data.Range,
		"summary": data.Summary,
	})
}
