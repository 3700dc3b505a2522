package cache

import (
	"context"
	"time"

	"MindTrack/storage/redis"
)

// 通过 SETNX 实现的简单分布式锁
const (
	lockPrefix = "lock"
)

func TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().SetNX(ctx, fullkey, 1, ttl).Result()
}

func Unlock(ctx context.Context, key string) error {
	fullkey := redis.Key(lockPrefix, key)

	return redis.Client().Del(ctx, fullkey).Err()
}
