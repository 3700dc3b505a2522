package router

import (
	"context"
	"errors"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/route"

	"MindTrack/config"
	"MindTrack/internal/handler"
	"MindTrack/internal/middleware"
	"MindTrack/internal/service"
	"MindTrack/storage/database"
	"MindTrack/storage/mq"
	"MindTrack/storage/redis"
)

// Register 注册全部路由，服务依赖需已初始化
func Register(h *server.Hertz) {
	hd := handler.New(service.Wellness(), service.Analytics(), service.Chat(), service.User())
	register(h.Engine, hd, readinessProbes()...)
}

func register(engine *route.Engine, hd *handler.Handler, probes ...handler.Probe) {
	engine.Use(middleware.RecoverMiddleware())
	engine.Use(middleware.RequestIDMiddleware())
	engine.Use(middleware.CORSMiddleware())
	engine.Use(middleware.MetricsMiddleware())

	engine.GET("/health", handler.Health)
	engine.GET("/ready", handler.Ready(probes...))

	authed := []app.HandlerFunc{middleware.AuthMiddleware()}
	if config.Cfg.RateLimitEnabled {
		authed = append(authed, middleware.RateLimitMiddleware(middleware.DefaultRateLimitConfig()))
	}

	// 打卡
	wellness := engine.Group("/wellness", authed...)
	{
		wellness.POST("", hd.CreateEntry)
		wellness.GET("/history", hd.ListHistory)
		wellness.GET("/summary", hd.Summary)
	}

	// 统计
	analytics := engine.Group("/analytics", authed...)
	{
		analytics.GET("/history", hd.AnalyticsHistory)
		analytics.GET("/summary", hd.AnalyticsSummary)
	}

	// 对话助手，发送消息额外限流
	chat := engine.Group("/chat", authed...)
	{
		if config.Cfg.RateLimitEnabled {
			chat.POST("", middleware.RateLimitMiddleware(middleware.ChatRateLimitConfig()), hd.SendChat)
		} else {
			chat.POST("", hd.SendChat)
		}
		chat.GET("/history", hd.ChatHistory)
		chat.DELETE("/history", hd.ClearChatHistory)
	}

	// 用户资料
	users := engine.Group("/users", authed...)
	{
		users.GET("/me", hd.GetProfile)
		users.PUT("/me", hd.UpdateProfile)
	}
}

func readinessProbes() []handler.Probe {
	return []handler.Probe{
		{Name: "database", Check: database.Ping},
		{Name: "redis", Check: func(ctx context.Context) error {
			if !redis.Ready() {
				return errors.New("redis not initialized")
			}
			return redis.Client().Ping(ctx).Err()
		}},
		{Name: "rabbitmq", Check: func(context.Context) error {
			if !mq.Ready() {
				return errors.New("rabbitmq connection closed")
			}
			return nil
		}},
	}
}
