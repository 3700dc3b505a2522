package service

import (
	"context"
	"errors"

	"MindTrack/internal/model"
	"MindTrack/internal/repository"
	"MindTrack/internal/wellness"
	pkgerrors "MindTrack/pkg/errors"
)

// EventPublisher 发布打卡事件
type EventPublisher interface {
	PublishEntryCreated(ctx context.Context, msg model.EntryCreatedMessage) error
}

// AnalyticsStore 统计结果缓存
type AnalyticsStore interface {
	Get(ctx context.Context, userID int64, kind, rangeKey string, dest interface{}) (bool, error)
	Set(ctx context.Context, userID int64, kind, rangeKey string, value interface{}) error
	Invalidate(ctx context.Context, userID int64) error
}

// IdempotencyStore 提交去重
type IdempotencyStore interface {
	Claim(ctx context.Context, userID int64, key string) (bool, error)
	Release(ctx context.Context, userID int64, key string) error
}

// invalidInput 把字段级校验错误转换为带提示信息的业务错误
func invalidInput(def pkgerrors.Definition, err error) error {
	var ve *wellness.ValidationError
	if errors.As(err, &ve) {
		return def.WithMessage(ve.Error())
	}
	return def
}

func userLookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return pkgerrors.UserNotFound
	}
	return pkgerrors.QueryFailed
}
