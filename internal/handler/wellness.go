package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"MindTrack/internal/middleware"
	"MindTrack/internal/model"
	"MindTrack/pkg/errors"
	"MindTrack/pkg/response"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	maxIdempotencyKeyLen = 128
)

// CreateEntry 提交一次打卡
// POST /wellness
func (h *Handler) CreateEntry(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	var req model.CreateEntryRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	key := string(c.GetHeader(IdempotencyKeyHeader))
	if len(key) > maxIdempotencyKeyLen {
		response.Error(ctx, c, errors.InvalidRequest.WithMessage("Idempotency-Key is too long"))
		return
	}

	result, err := h.wellness.CreateEntry(ctx, userID, key, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Created(ctx, c, utils.H{
		"entry":           result.Entry,
		"prediction":      result.Prediction,
		"streak":          result.Streak,
		"streakAvailable": result.StreakAvailable,
	})
}

// ListHistory 近 N 天的打卡记录
// GET /wellness/history?days=N
func (h *Handler) ListHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	data, err := h.wellness.ListHistory(ctx, userID, c.Query("days"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{
		"count":   data.Count,
		"entries": data.Entries,
	})
}

// Summary 近 N 天概览
// GET /wellness/summary?days=N
func (h *Handler) Summary(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	data, err := h.wellness.Summary(ctx, userID, c.Query("days"))
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{"summary": data})
}
