package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/hertz/pkg/common/test/assert"
	goredis "github.com/redis/go-redis/v9"

	"MindTrack/storage/redis"
	"MindTrack/utils"
)

func setupRedis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	redis.SetClient(client)
	t.Cleanup(func() {
		_ = client.Close()
		redis.SetClient(nil)
	})
	return mr
}

type summary struct {
	AvgMood float64 `json:"avgMood"`
	Count   int     `json:"count"`
}

func TestJSONCacheRoundTrip(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	jc := NewJSONCache("test", time.Minute)

	var got summary
	hit, err := jc.Get(ctx, "k", &got)
	assert.Nil(t, err)
	assert.Assert(t, !hit)

	assert.Nil(t, jc.Set(ctx, "k", summary{AvgMood: 6.5, Count: 2}))
	assert.DeepEqual(t, time.Minute, mr.TTL(redis.Key("test", "k")))
	hit, err = jc.Get(ctx, "k", &got)
	assert.Nil(t, err)
	assert.Assert(t, hit)
	assert.DeepEqual(t, summary{AvgMood: 6.5, Count: 2}, got)

	mr.FastForward(2 * time.Minute)
	hit, err = jc.Get(ctx, "k", &got)
	assert.Nil(t, err)
	assert.Assert(t, !hit)
}

func TestJSONCacheCorruptValue(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	jc := NewJSONCache("test", time.Minute)

	assert.Nil(t, mr.Set(redis.Key("test", "bad"), "{not json"))
	var got summary
	hit, err := jc.Get(ctx, "bad", &got)
	assert.NotNil(t, err)
	assert.Assert(t, !hit)

	assert.Nil(t, jc.Delete(ctx, "bad"))
	assert.Assert(t, !mr.Exists(redis.Key("test", "bad")))
}

func TestAnalyticsInvalidate(t *testing.T) {
	setupRedis(t)
	ctx := context.Background()
	a := &AnalyticsCache{store: NewJSONCache(analyticsPrefix, analyticsTTL)}

	assert.Nil(t, a.Set(ctx, 42, "summary", "2024-01-01_2024-01-31", summary{AvgMood: 5}))

	var got summary
	hit, err := a.Get(ctx, 42, "summary", "2024-01-01_2024-01-31", &got)
	assert.Nil(t, err)
	assert.Assert(t, hit)

	// 其他用户不受影响
	assert.Nil(t, a.Set(ctx, 7, "summary", "2024-01-01_2024-01-31", summary{AvgMood: 3}))
	assert.Nil(t, a.Invalidate(ctx, 42))

	hit, err = a.Get(ctx, 42, "summary", "2024-01-01_2024-01-31", &got)
	assert.Nil(t, err)
	assert.Assert(t, !hit)

	hit, err = a.Get(ctx, 7, "summary", "2024-01-01_2024-01-31", &got)
	assert.Nil(t, err)
	assert.Assert(t, hit)
	assert.DeepEqual(t, 3.0, got.AvgMood)
}

func TestIdempotencyGuard(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()
	g := Idempotency()

	ok, err := g.Claim(ctx, 1, "abc")
	assert.Nil(t, err)
	assert.Assert(t, ok)

	// 落到 redis 的是哈希后的 key，原始 header 不出现在 key 中
	hashed := redis.Key(lockPrefix, "idem:1:"+utils.HashKey("abc"))
	assert.Assert(t, mr.Exists(hashed))
	assert.Assert(t, !mr.Exists(redis.Key(lockPrefix, "idem:1:abc")))
	assert.DeepEqual(t, idempotencyTTL, mr.TTL(hashed))
	assert.DeepEqual(t, 64, len(utils.HashKey(strings.Repeat("k", 128))))

	ok, err = g.Claim(ctx, 1, "abc")
	assert.Nil(t, err)
	assert.Assert(t, !ok)

	ok, err = g.Claim(ctx, 2, "abc")
	assert.Nil(t, err)
	assert.Assert(t, ok)

	assert.Nil(t, g.Release(ctx, 1, "abc"))
	ok, err = g.Claim(ctx, 1, "abc")
	assert.Nil(t, err)
	assert.Assert(t, ok)
}

func TestMessageProcessingMarker(t *testing.T) {
	mr := setupRedis(t)
	ctx := context.Background()

	ok, err := TryMarkMessageProcessing(ctx, "m1", 0)
	assert.Nil(t, err)
	assert.Assert(t, ok)

	ok, err = TryMarkMessageProcessing(ctx, "m1", 0)
	assert.Nil(t, err)
	assert.Assert(t, !ok)

	assert.Nil(t, MarkMessageProcessed(ctx, "m1", 0))
	v, err := mr.Get(redis.Key(messageProcessedPrefix, "m1"))
	assert.Nil(t, err)
	assert.DeepEqual(t, "completed", v)

	assert.Nil(t, UnmarkMessageProcessing(ctx, "m1"))
	ok, err = TryMarkMessageProcessing(ctx, "m1", time.Minute)
	assert.Nil(t, err)
	assert.Assert(t, ok)
}
