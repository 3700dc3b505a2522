package middleware

import (
	"context"
	"fmt"
	"strconv"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/hertz-contrib/jwt"

	"MindTrack/pkg/errors"
	"MindTrack/pkg/response"
	"MindTrack/pkg/token"
)

const (
	IdentityKey = token.IdentityKey
)

var (
	authMiddleware *jwt.HertzJWTMiddleware
)

func initAuthMiddleware() error {
	// 使用 token 包中共享的生成器
	sharedGenerator := token.GetGenerator()
	if sharedGenerator == nil {
		return fmt.Errorf("token generator not initialized, call token.Init() first")
	}

	// token 由外部认证服务签发，这里只做校验与身份提取
	authMiddleware = &jwt.HertzJWTMiddleware{
		Realm:       "MindTrack API",
		Key:         sharedGenerator.Key,
		Timeout:     sharedGenerator.Timeout,
		MaxRefresh:  sharedGenerator.MaxRefresh,
		IdentityKey: sharedGenerator.IdentityKey,
		TimeFunc:    sharedGenerator.TimeFunc,

		IdentityHandler: func(ctx context.Context, c *app.RequestContext) interface{} {
			claims := jwt.ExtractClaims(ctx, c)
			uid, err := token.ClaimUserID(claims[IdentityKey])
			if err != nil {
				return nil
			}
			return uid
		},

		Authorizator: func(data interface{}, ctx context.Context, c *app.RequestContext) bool {
			uid, ok := data.(string)
			return ok && uid != ""
		},

		Unauthorized: func(ctx context.Context, c *app.RequestContext, code int, message string) {
			response.Error(ctx, c, errors.Unauthorized.WithMessage(message))
		},

		TokenLookup:   "header: Authorization, query: token",
		TokenHeadName: "Bearer",
	}

	return authMiddleware.MiddlewareInit()
}

func AuthMiddleware() app.HandlerFunc {
	if authMiddleware == nil {
		panic("AuthMiddleware not initialized, call Init() first")
	}
	return authMiddleware.MiddlewareFunc()
}

// GetUserID 从请求上下文中获取用户 ID（public_id）
func GetUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	raw, exists := c.Get(IdentityKey)
	if !exists {
		return 0, false
	}

	uid, ok := raw.(string)
	if !ok {
		return 0, false
	}

	id, err := strconv.ParseInt(uid, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// RequireUserID 取不到合法用户 ID 时直接写出错误响应
func RequireUserID(ctx context.Context, c *app.RequestContext) (int64, bool) {
	id, ok := GetUserID(ctx, c)
	if !ok {
		response.Error(ctx, c, errors.InvalidUserID)
		c.Abort()
	}
	return id, ok
}
