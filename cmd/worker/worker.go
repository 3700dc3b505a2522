package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"MindTrack/config"
	"MindTrack/internal/queue"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/pkg/otel"
	"MindTrack/storage/mq"
	"MindTrack/storage/redis"
)

const prefetchCount = 16

func main() {
	logger.Init()
	defer logger.Sync()

	cfg := &config.Cfg
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

	if cfg.OTelEnabled {
		shutdown, err := otel.InitOpenTelemetry(ctx, otel.Config{
			ServiceName:  cfg.ServiceName + "-worker",
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
	}
	if err := metrics.InitMetrics(); err != nil {
		logger.Logger.Fatal("Failed to initialize metrics", zap.Error(err))
	}

	// worker 只处理缓存失效，不需要数据库
	if err := redis.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize redis", zap.Error(err))
	}
	if err := mq.Init(); err != nil {
		logger.Logger.Fatal("Failed to initialize rabbitmq", zap.Error(err))
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := mq.Close(closeCtx); err != nil {
			logger.Logger.Error("Failed to close message queue", zap.Error(err))
		}
		if err := redis.Close(closeCtx); err != nil {
			logger.Logger.Error("Failed to close Redis connection", zap.Error(err))
		}
	}()

	logger.Logger.Info("Worker service starting",
		zap.String("service", cfg.ServiceName+"-worker"),
		zap.String("environment", cfg.Environment),
		zap.String("queue", queue.QueueAnalyticsInvalidation),
	)

	if err := queue.StartAnalyticsInvalidationConsumer(ctx, cfg.RabbitMQExchange, prefetchCount); err != nil && ctx.Err() == nil {
		logger.Logger.Error("Consumer stopped unexpectedly", zap.Error(err))
	}

	logger.Logger.Info("Worker service shutting down gracefully")
}
