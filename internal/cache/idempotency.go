package cache

import (
	"context"
	"strconv"
	"time"

	"MindTrack/utils"
)

const (
	idempotencyPrefix = "idem"
	idempotencyTTL    = 24 * time.Hour
)

// IdempotencyGuard 基于 SETNX 的提交去重
type IdempotencyGuard struct {
	ttl time.Duration
}

var idempotencyGuard = &IdempotencyGuard{ttl: idempotencyTTL}

// Idempotency 返回全局去重器
func Idempotency() *IdempotencyGuard {
	return idempotencyGuard
}

// 客户端 key 取哈希后再拼接，长度固定且不含分隔符
func idempotencyKey(userID int64, key string) string {
	return idempotencyPrefix + ":" + strconv.FormatInt(userID, 10) + ":" + utils.HashKey(key)
}

// Claim 首次出现的 key 返回 true，重复提交返回 false
func (g *IdempotencyGuard) Claim(ctx context.Context, userID int64, key string) (bool, error) {
	return TryLock(ctx, idempotencyKey(userID, key), g.ttl)
}

// Release 写入失败时释放 key，允许客户端重试
func (g *IdempotencyGuard) Release(ctx context.Context, userID int64, key string) error {
	return Unlock(ctx, idempotencyKey(userID, key))
}
