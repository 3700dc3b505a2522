package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	ri "github.com/redis/go-redis/v9"

	"MindTrack/storage/redis"
)

// JSONCache 以 JSON 存储的定长 TTL 缓存
type JSONCache struct {
	keyPrefix string
	ttl       time.Duration
}

func NewJSONCache(keyPrefix string, ttl time.Duration) *JSONCache {
	return &JSONCache{keyPrefix: keyPrefix, ttl: ttl}
}

// Set 写入缓存
func (jc *JSONCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return redis.Client().Set(ctx, redis.Key(jc.keyPrefix, key), data, jc.ttl).Err()
}

// Get 读取缓存，未命中返回 false
func (jc *JSONCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := redis.Client().Get(ctx, redis.Key(jc.keyPrefix, key)).Bytes()
	if err != nil {
		if errors.Is(err, ri.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

// Delete 删除缓存
func (jc *JSONCache) Delete(ctx context.Context, key string) error {
	return redis.Client().Del(ctx, redis.Key(jc.keyPrefix, key)).Err()
}
