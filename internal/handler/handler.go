package handler

import (
	"context"

	"MindTrack/internal/model"
)

// WellnessService 打卡相关用例
type WellnessService interface {
	CreateEntry(ctx context.Context, userID int64, idempotencyKey string, req *model.CreateEntryRequest) (*model.CreateEntryResult, error)
	ListHistory(ctx context.Context, userID int64, rawDays string) (*model.EntryListData, error)
	Summary(ctx context.Context, userID int64, rawDays string) (*model.WellnessSummaryData, error)
}

// AnalyticsService 统计相关用例
type AnalyticsService interface {
	History(ctx context.Context, userID int64, q model.AnalyticsRangeQuery) (*model.AnalyticsHistoryData, error)
	Summary(ctx context.Context, userID int64, q model.AnalyticsRangeQuery) (*model.AnalyticsSummaryData, error)
}

// ChatService 对话相关用例
type ChatService interface {
	Send(ctx context.Context, userID int64, req *model.ChatRequest) (*model.ChatReplyData, error)
	History(ctx context.Context, userID int64) ([]model.ChatMessageData, error)
	Clear(ctx context.Context, userID int64) (int64, error)
}

// UserService 用户资料用例
type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*model.UserProfileData, error)
	UpdateProfile(ctx context.Context, userID int64, req *model.UpdateProfileRequest) (*model.UserProfileData, error)
}

// Handler 持有各模块的服务，路由注册时创建
type Handler struct {
	wellness  WellnessService
	analytics AnalyticsService
	chat      ChatService
	user      UserService
}

func New(wellness WellnessService, analytics AnalyticsService, chat ChatService, user UserService) *Handler {
	return &Handler{wellness: wellness, analytics: analytics, chat: chat, user: user}
}
