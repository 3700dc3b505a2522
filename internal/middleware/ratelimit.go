package middleware

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"MindTrack/config"
	"MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/response"
	"MindTrack/storage/redis"
)

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	// 时间窗口
	Window time.Duration
	// 时间窗口内最大请求数
	MaxRequests int
	// 限流键前缀
	KeyPrefix string
	// 是否按用户ID限流（需要认证）
	ByUserID bool
	// 是否按IP限流
	ByIP bool
	// 超过限制后禁止访问的时间，0 表示不额外封禁
	BlockDuration time.Duration
}

// DefaultRateLimitConfig 认证路由的通用限流
func DefaultRateLimitConfig() RateLimitConfig {
	rpm := config.Cfg.RateLimitRPM
	if rpm <= 0 {
		rpm = 120
	}
	return RateLimitConfig{
		Window:      time.Minute,
		MaxRequests: rpm,
		KeyPrefix:   "rate:limit",
		ByUserID:    true,
		ByIP:        true,
	}
}

// ChatRateLimitConfig 对话会调用外部模型，限制更严
func ChatRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Window:        time.Minute,
		MaxRequests:   20,
		KeyPrefix:     "rate:chat",
		ByUserID:      true,
		ByIP:          false,
		BlockDuration: 2 * time.Minute,
	}
}

// RateLimiter 滑动窗口限流器
type RateLimiter struct {
	config RateLimitConfig
	now    func() time.Time
}

func NewRateLimiter(config RateLimitConfig) *RateLimiter {
	return &RateLimiter{config: config, now: time.Now}
}

// getKey 生成限流键
func (rl *RateLimiter) getKey(ctx context.Context, c *app.RequestContext) string {
	var identifier string

	if rl.config.ByUserID {
		if userID, exists := GetUserID(ctx, c); exists {
			identifier = "user:" + strconv.FormatInt(userID, 10)
		}
	}

	if identifier == "" && rl.config.ByIP {
		identifier = "ip:" + c.ClientIP()
	}

	return redis.Key(rl.config.KeyPrefix, identifier)
}

// Allow 检查是否允许请求，使用 zset 实现滑动窗口
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	now := rl.now()
	windowStart := now.Add(-rl.config.Window)

	pipe := redis.Client().Pipeline()

	// 先移除窗口之外的请求记录
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart.UnixNano(), 10))

	// 同一纳秒内的并发请求需要不同的 member
	pipe.ZAdd(ctx, key, redislib.Z{
		Score:  float64(now.UnixNano()),
		Member: fmt.Sprintf("%d-%d", now.UnixNano(), rand.Int63()),
	})

	zcardCmd := pipe.ZCard(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window+10*time.Second)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, fmt.Errorf("failed to execute pipeline: %w", err)
	}

	count := int(zcardCmd.Val())
	return count <= rl.config.MaxRequests, count, nil
}

func (rl *RateLimiter) blockKey(key string) string {
	return key + ":block"
}

func (rl *RateLimiter) Block(ctx context.Context, key string) error {
	if rl.config.BlockDuration <= 0 {
		return nil
	}
	return redis.Client().Set(ctx, rl.blockKey(key), "1", rl.config.BlockDuration).Err()
}

func (rl *RateLimiter) IsBlocked(ctx context.Context, key string) (bool, error) {
	if rl.config.BlockDuration <= 0 {
		return false, nil
	}
	result, err := redis.Client().Exists(ctx, rl.blockKey(key)).Result()
	return result > 0, err
}

// RateLimitMiddleware 创建限流中间件，redis 不可用时放行
func RateLimitMiddleware(config RateLimitConfig) app.HandlerFunc {
	limiter := NewRateLimiter(config)
	return limiter.Handler()
}

func (rl *RateLimiter) Handler() app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		key := rl.getKey(ctx, c)

		blocked, err := rl.IsBlocked(ctx, key)
		if err != nil {
			logger.Ctx(ctx).Warn("Failed to check block status, allowing request", zap.Error(err))
			c.Next(ctx)
			return
		}
		if blocked {
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		allowed, count, err := rl.Allow(ctx, key)
		if err != nil {
			logger.Ctx(ctx).Warn("Failed to check rate limit, allowing request", zap.Error(err))
			c.Next(ctx)
			return
		}

		remaining := rl.config.MaxRequests - count
		if remaining < 0 {
			remaining = 0
		}
		c.Response.Header.Set("X-RateLimit-Limit", strconv.Itoa(rl.config.MaxRequests))
		c.Response.Header.Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Response.Header.Set("X-RateLimit-Reset", strconv.FormatInt(rl.now().Add(rl.config.Window).Unix(), 10))

		if !allowed {
			if err := rl.Block(ctx, key); err != nil {
				logger.Ctx(ctx).Warn("Failed to block client", zap.String("key", key), zap.Error(err))
			}
			logger.Ctx(ctx).Info("Rate limit exceeded", zap.String("key", key), zap.Int("count", count))
			response.Error(ctx, c, errors.TooManyRequests)
			c.Abort()
			return
		}

		c.Next(ctx)
	}
}
