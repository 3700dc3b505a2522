package token

import (
	"errors"
	"fmt"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/hertz-contrib/jwt"

	"MindTrack/config"
)

const (
	IdentityKey = "uid"
)

var (
	// 这个实例会被 middleware 和 token 包共同使用
	sharedGenerator *jwt.HertzJWTMiddleware

	ErrTokenGeneratorNotInitialized = errors.New("token generator not initialized")
	ErrInvalidToken                 = errors.New("invalid token")
	ErrUserIDNotFound               = errors.New("user id not found in token claims")
)

func Init() error {
	var err error
	sharedGenerator, err = jwt.New(&jwt.HertzJWTMiddleware{
		Key:         []byte(config.Cfg.JWTSecret),
		Timeout:     time.Duration(config.Cfg.JWTExpireMinutes) * time.Minute,
		IdentityKey: IdentityKey,
		TimeFunc:    time.Now,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize token generator: %w", err)
	}

	return nil
}

// GetGenerator 获取共享的 token 生成器（供 middleware 使用）
func GetGenerator() *jwt.HertzJWTMiddleware {
	return sharedGenerator
}

// GenerateAccessToken 按外部认证服务的格式签发 access token，
// 服务本身不对外签发，仅用于联调与测试
func GenerateAccessToken(userID string, ttl time.Duration) (string, error) {
	if config.Cfg.JWTSecret == "" {
		return "", ErrTokenGeneratorNotInitialized
	}

	now := time.Now()
	claims := jwtv5.MapClaims{
		IdentityKey: userID,
		"iat":       now.Unix(),
		"exp":       now.Add(ttl).Unix(),
		"orig_iat":  now.Unix(),
	}

	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, claims).SignedString([]byte(config.Cfg.JWTSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return signed, nil
}

// ParseUserID 校验 token 并取出用户 ID
func ParseUserID(tokenString string) (string, error) {
	parsed, err := jwtv5.Parse(tokenString, func(t *jwtv5.Token) (interface{}, error) {
		if t.Method != jwtv5.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(config.Cfg.JWTSecret), nil
	})
	if err != nil {
		return "", fmt.Errorf("failed to parse token: %w", err)
	}
	if !parsed.Valid {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(jwtv5.MapClaims)
	if !ok {
		return "", ErrInvalidToken
	}
	return ClaimUserID(claims[IdentityKey])
}

// ClaimUserID 兼容字符串与数字两种 uid 写法
func ClaimUserID(raw interface{}) (string, error) {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return "", ErrUserIDNotFound
		}
		return v, nil
	case float64:
		return fmt.Sprintf("%.0f", v), nil
	default:
		return "", ErrUserIDNotFound
	}
}
