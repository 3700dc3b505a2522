package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	ri "github.com/redis/go-redis/v9"

	"MindTrack/storage/redis"
)

const (
	analyticsPrefix        = "analytics"
	analyticsVersionPrefix = "analytics:ver"
	analyticsTTL           = 10 * time.Minute
)

// AnalyticsCache 按用户缓存统计结果。
// 失效通过递增用户的版本号完成，旧版本的 key 随 TTL 自然过期。
type AnalyticsCache struct {
	store *JSONCache
}

var analyticsCache = &AnalyticsCache{store: NewJSONCache(analyticsPrefix, analyticsTTL)}

// Analytics 返回全局统计缓存
func Analytics() *AnalyticsCache {
	return analyticsCache
}

func (a *AnalyticsCache) version(ctx context.Context, userID int64) (int64, error) {
	key := redis.Key(analyticsVersionPrefix, strconv.FormatInt(userID, 10))
	v, err := redis.Client().Get(ctx, key).Int64()
	if errors.Is(err, ri.Nil) {
		return 0, nil
	}
	return v, err
}

func (a *AnalyticsCache) key(ctx context.Context, userID int64, kind, rangeKey string) (string, error) {
	v, err := a.version(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("failed to read analytics version: %w", err)
	}
	return fmt.Sprintf("%d:v%d:%s:%s", userID, v, kind, rangeKey), nil
}

// Get 读取缓存，未命中返回 false
func (a *AnalyticsCache) Get(ctx context.Context, userID int64, kind, rangeKey string, dest interface{}) (bool, error) {
	key, err := a.key(ctx, userID, kind, rangeKey)
	if err != nil {
		return false, err
	}
	return a.store.Get(ctx, key, dest)
}

// Set 写入缓存
func (a *AnalyticsCache) Set(ctx context.Context, userID int64, kind, rangeKey string, value interface{}) error {
	key, err := a.key(ctx, userID, kind, rangeKey)
	if err != nil {
		return err
	}
	return a.store.Set(ctx, key, value)
}

// Invalidate 使该用户所有统计缓存失效
func (a *AnalyticsCache) Invalidate(ctx context.Context, userID int64) error {
	key := redis.Key(analyticsVersionPrefix, strconv.FormatInt(userID, 10))
	return redis.Client().Incr(ctx, key).Err()
}
