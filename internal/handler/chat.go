package handler

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"

	"MindTrack/internal/middleware"
	"MindTrack/internal/model"
	"MindTrack/pkg/response"
)

// SendChat 发送一条消息并获取助手回复
// POST /chat
func (h *Handler) SendChat(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	var req model.ChatRequest
	if err := c.Bind(&req); err != nil {
		response.BindError(ctx, c, err)
		return
	}

	reply, err := h.chat.Send(ctx, userID, &req)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	payload := utils.H{
		"message": reply.Message,
		"source":  reply.Source,
	}
	if reply.Note != "" {
		payload["note"] = reply.Note
	}
	response.Success(ctx, c, payload)
}

// ChatHistory 对话记录
// GET /chat/history
func (h *Handler) ChatHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	msgs, err := h.chat.History(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{"messages": msgs})
}

// ClearChatHistory 清空对话记录
// DELETE /chat/history
func (h *Handler) ClearChatHistory(ctx context.Context, c *app.RequestContext) {
	userID, ok := middleware.RequireUserID(ctx, c)
	if !ok {
		return
	}

	n, err := h.chat.Clear(ctx, userID)
	if err != nil {
		response.Error(ctx, c, err)
		return
	}

	response.Success(ctx, c, utils.H{"deleted": n})
}
