package main

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/config"
	"go.uber.org/zap"

	appconfig "MindTrack/config"
	"MindTrack/internal/middleware"
	"MindTrack/internal/router"
	"MindTrack/pkg/llm"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/pkg/otel"
	"MindTrack/pkg/snowflake"
	"MindTrack/pkg/token"
	"MindTrack/storage"
)

func main() {
	// 日志部分
	logger.Init()
	defer logger.Sync()

	cfg := &appconfig.Cfg
	if err := cfg.Validate(); err != nil {
		logger.Logger.Fatal("Invalid configuration", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Logger.Info("Received shutdown signal",
			zap.String("signal", sig.String()),
		)
		cancel()
	}()

	// 链路追踪需要在存储层之前初始化，gorm/redis 的 hook 会取全局 provider
	var serverOpts []config.Option
	var tracingMiddleware []func(h *server.Hertz)
	if cfg.OTelEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:  cfg.ServiceName,
			Environment:  cfg.Environment,
			OTLPEndpoint: cfg.OTelEndpoint,
			SampleRatio:  cfg.OTelSampleRatio,
		})
		if err != nil {
			logger.Logger.Fatal("Failed to initialize OpenTelemetry", zap.Error(err))
		}
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdown(shutdownCtx); err != nil {
				logger.Logger.Error("Failed to shutdown OpenTelemetry", zap.Error(err))
			}
		}()

		tracer, mw := middleware.NewServerTracerConfig()
		serverOpts = append(serverOpts, tracer)
		tracingMiddleware = append(tracingMiddleware, func(h *server.Hertz) { h.Use(mw) })
	}

	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// 初始化存储层，记得关闭外部连接
	if err := storage.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer storage.Close()

	if err := snowflake.Init(cfg.SnowflakeMachineID, cfg.SnowflakeDataCenter); err != nil {
		logger.Logger.Fatal("Failed to initialize snowflake", zap.Error(err))
	}

	if err := token.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize token package", zap.Error(err))
	} // token 在中间件前初始化，middleware 依赖 token

	if err := middleware.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize middlewares", zap.Error(err))
	}

	llm.Init()

	logger.Logger.Info("Server starting",
		zap.String("service", cfg.ServiceName),
		zap.String("port", cfg.ServerPort),
		zap.String("environment", cfg.Environment),
		zap.String("timezone", cfg.WellnessTimezone),
	)

	addr := net.JoinHostPort(cfg.ServerHost, cfg.ServerPort)
	serverOpts = append(serverOpts, server.WithHostPorts(addr))
	h := server.Default(serverOpts...)

	for _, use := range tracingMiddleware {
		use(h)
	}
	router.Register(h)

	// 优雅关闭：在单独的 goroutine 中监听关闭信号并调用 Shutdown
	go func() {
		<-ctx.Done()
		logger.Logger.Info("Initiating graceful shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.Shutdown(shutdownCtx); err != nil {
			logger.Logger.Error("Failed to shutdown HTTP server", zap.Error(err))
		}
	}()

	logger.Logger.Info("HTTP server listening", zap.String("addr", addr))

	h.Spin()

	logger.Logger.Info("Server shutting down gracefully")
}
