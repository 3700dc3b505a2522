package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"MindTrack/internal/middleware"
	"MindTrack/internal/model"
	"MindTrack/pkg/response"
)

// GetProfile 获取用户资料
// GET /users/me
func (h *Handler) GetProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	profile, err := h.user.GetProfile(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{"user": profile})
}

// UpdateProfile 建档或更新资料
// PUT /users/me
func (h *Handler) UpdateProfile(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	var req model.UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	profile, err := h.user.UpdateProfile(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{"user": profile})
}
