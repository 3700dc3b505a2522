package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/hertz/pkg/app"
	hconfig "github.com/cloudwego/hertz/pkg/common/config"
	"github.com/cloudwego/hertz/pkg/common/test/assert"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/route"
	goredis "github.com/redis/go-redis/v9"

	"MindTrack/config"
	"MindTrack/pkg/token"
	"MindTrack/storage/redis"
)

func newEngine() *route.Engine {
	return route.NewEngine(hconfig.NewOptions([]hconfig.Option{}))
}

func decode(t *testing.T, body []byte) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	if err := json.Unmarshal(body, &out); err != nil {
		t.Fatalf("invalid json body %q: %v", body, err)
	}
	return out
}

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

func asUser(uid string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		c.Set(IdentityKey, uid)
		c.Next(ctx)
	}
}

func TestAuthMiddleware(t *testing.T) {
	config.Cfg.JWTSecret = "middleware-test-secret"
	assert.Nil(t, token.Init())
	assert.Nil(t, Init())

	engine := newEngine()
	engine.GET("/me", AuthMiddleware(), func(ctx context.Context, c *app.RequestContext) {
		id, ok := RequireUserID(ctx, c)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, utils.H{"id": id})
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/me", nil)
	assert.DeepEqual(t, http.StatusUnauthorized, w.Result().StatusCode())
	assert.DeepEqual(t, "UNAUTHORIZED", decode(t, w.Result().Body())["code"])

	signed, err := token.GenerateAccessToken("42", time.Hour)
	assert.Nil(t, err)
	w = ut.PerformRequest(engine, http.MethodGet, "/me", nil, ut.Header{Key: "Authorization", Value: "Bearer " + signed})
	assert.DeepEqual(t, http.StatusOK, w.Result().StatusCode())
	assert.DeepEqual(t, float64(42), decode(t, w.Result().Body())["id"])

	signed, err = token.GenerateAccessToken("not-a-number", time.Hour)
	assert.Nil(t, err)
	w = ut.PerformRequest(engine, http.MethodGet, "/me", nil, ut.Header{Key: "Authorization", Value: "Bearer " + signed})
	assert.DeepEqual(t, http.StatusBadRequest, w.Result().StatusCode())
	assert.DeepEqual(t, "INVALID_USER_ID", decode(t, w.Result().Body())["code"])

	w = ut.PerformRequest(engine, http.MethodGet, "/me", nil, ut.Header{Key: "Authorization", Value: "Bearer garbage"})
	assert.DeepEqual(t, http.StatusUnauthorized, w.Result().StatusCode())
}

func TestGetUserID(t *testing.T) {
	c := app.NewContext(0)
	_, ok := GetUserID(context.Background(), c)
	assert.Assert(t, !ok)

	c.Set(IdentityKey, "1001")
	id, ok := GetUserID(context.Background(), c)
	assert.Assert(t, ok)
	assert.DeepEqual(t, int64(1001), id)

	c.Set(IdentityKey, "-3")
	_, ok = GetUserID(context.Background(), c)
	assert.Assert(t, !ok)
}

func TestRequestIDMiddleware(t *testing.T) {
	engine := newEngine()
	engine.Use(RequestIDMiddleware())
	engine.GET("/ping", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "pong")
	})

	w := ut.PerformRequest(engine, http.MethodGet, "/ping", nil, ut.Header{Key: RequestIDHeader, Value: "req-123"})
	assert.DeepEqual(t, "req-123", w.Result().Header.Get(RequestIDHeader))

	w = ut.PerformRequest(engine, http.MethodGet, "/ping", nil)
	assert.DeepEqual(t, 36, len(w.Result().Header.Get(RequestIDHeader)))
}

func TestRecoverMiddleware(t *testing.T) {
	for _, production := range []bool{true, false} {
		engine := newEngine()
		engine.Use(RecoverMiddlewareWithConfig(RecoverConfig{EnableStackTrace: true, IsProduction: production}))
		engine.GET("/boom", func(ctx context.Context, c *app.RequestContext) {
			panic("boom")
		})

		w := ut.PerformRequest(engine, http.MethodGet, "/boom", nil)
		assert.DeepEqual(t, http.StatusInternalServerError, w.Result().StatusCode())
		body := decode(t, w.Result().Body())
		assert.DeepEqual(t, "INTERNAL_ERROR", body["code"])
		_, hasDetails := body["details"]
		assert.DeepEqual(t, !production, hasDetails)
	}
}

func TestCORSPreflight(t *testing.T) {
	engine := newEngine()
	engine.Use(CORSMiddleware())
	engine.GET("/wellness", func(ctx context.Context, c *app.RequestContext) {
		c.String(http.StatusOK, "ok")
	})

	w := ut.PerformRequest(engine, http.MethodOptions, "/wellness", nil, ut.Header{Key: "Origin", Value: "http://localhost:3000"})
	assert.DeepEqual(t, http.StatusNoContent, w.Result().StatusCode())
	assert.DeepEqual(t, "http://localhost:3000", w.Result().Header.Get("Access-Control-Allow-Origin"))
}

func TestRateLimitPerUser(t *testing.T) {
	setupRedis(t)

	cfg := RateLimitConfig{Window: time.Minute, MaxRequests: 2, KeyPrefix: "rate:test", ByUserID: true, BlockDuration: time.Minute}
	limiter := RateLimitMiddleware(cfg)
	ok := func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "ok") }

	engine := newEngine()
	engine.GET("/a", asUser("7"), limiter, ok)
	engine.GET("/b", asUser("8"), limiter, ok)

	for i := 0; i < 2; i++ {
		w := ut.PerformRequest(engine, http.MethodGet, "/a", nil)
		assert.DeepEqual(t, http.StatusOK, w.Result().StatusCode())
		assert.DeepEqual(t, strconv.Itoa(1-i), w.Result().Header.Get("X-RateLimit-Remaining"))
	}

	w := ut.PerformRequest(engine, http.MethodGet, "/a", nil)
	assert.DeepEqual(t, http.StatusTooManyRequests, w.Result().StatusCode())
	assert.DeepEqual(t, "TOO_MANY_REQUESTS", decode(t, w.Result().Body())["code"])

	w = ut.PerformRequest(engine, http.MethodGet, "/b", nil)
	assert.DeepEqual(t, http.StatusOK, w.Result().StatusCode())
}

func TestRateLimitWindowSlides(t *testing.T) {
	setupRedis(t)

	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(RateLimitConfig{Window: time.Minute, MaxRequests: 1, KeyPrefix: "rate:slide", ByUserID: true})
	rl.now = func() time.Time { return now }
	ctx := context.Background()

	allowed, _, err := rl.Allow(ctx, "k")
	assert.Nil(t, err)
	assert.Assert(t, allowed)

	allowed, _, err = rl.Allow(ctx, "k")
	assert.Nil(t, err)
	assert.Assert(t, !allowed)

	now = now.Add(2 * time.Minute)
	allowed, count, err := rl.Allow(ctx, "k")
	assert.Nil(t, err)
	assert.Assert(t, allowed)
	assert.DeepEqual(t, 1, count)
}

func TestRateLimitFailsOpen(t *testing.T) {
	mr := setupRedis(t)
	mr.Close()

	engine := newEngine()
	engine.GET("/a", asUser("7"), RateLimitMiddleware(RateLimitConfig{Window: time.Minute, MaxRequests: 1, KeyPrefix: "rate:test", ByUserID: true}),
		func(ctx context.Context, c *app.RequestContext) { c.String(http.StatusOK, "ok") })

	for i := 0; i < 3; i++ {
		w := ut.PerformRequest(engine, http.MethodGet, "/a", nil)
		assert.DeepEqual(t, http.StatusOK, w.Result().StatusCode())
	}
}
