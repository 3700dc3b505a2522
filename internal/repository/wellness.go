package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"

	"MindTrack/internal/model"
	"MindTrack/internal/wellness"
)

// WellnessRepository 打卡记录数据访问，记录只增不改
type WellnessRepository interface {
	Create(ctx context.Context, e *model.WellnessEntry) error
	MoodsSince(ctx context.Context, userID int64, since time.Time) ([]float64, error)
	ListSince(ctx context.Context, userID int64, since time.Time) ([]model.WellnessEntry, error)
	ListRange(ctx context.Context, userID int64, r wellness.DateRange) ([]model.WellnessEntry, error)
	Latest(ctx context.Context, userID int64) (*model.WellnessEntry, error)
}

type wellnessRepository struct {
	db *gorm.DB
}

func NewWellnessRepository(db *gorm.DB) WellnessRepository {
	return &wellnessRepository{db: db}
}

func (r *wellnessRepository) Create(ctx context.Context, e *model.WellnessEntry) error {
	return translate(r.db.WithContext(ctx).Create(e).Error)
}

// MoodsSince 滚动均值使用，走主库保证能读到刚写入的记录
func (r *wellnessRepository) MoodsSince(ctx context.Context, userID int64, since time.Time) ([]float64, error) {
	var moods []float64
	err := r.db.WithContext(ctx).
		Clauses(dbresolver.Write).
		Model(&model.WellnessEntry{}).
		Where("user_id = ? AND recorded_at >= ?", userID, since.UTC()).
		Order("recorded_at ASC").
		Pluck("mood_today", &moods).Error
	if err != nil {
		return nil, err
	}
	return moods, nil
}

// ListSince 按时间倒序返回
func (r *wellnessRepository) ListSince(ctx context.Context, userID int64, since time.Time) ([]model.WellnessEntry, error) {
	var entries []model.WellnessEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ?", userID, since.UTC()).
		Order("recorded_at DESC").
		Order("id DESC").
		Find(&entries).Error
	return entries, err
}

// ListRange 按时间正序返回闭区间内的记录
func (r *wellnessRepository) ListRange(ctx context.Context, userID int64, dr wellness.DateRange) ([]model.WellnessEntry, error) {
	var entries []model.WellnessEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND recorded_at >= ? AND recorded_at <= ?", userID, dr.Start.UTC(), dr.End.UTC()).
		Order("recorded_at ASC").
		Order("id ASC").
		Find(&entries).Error
	return entries, err
}

// Latest 没有记录时返回 nil, nil
func (r *wellnessRepository) Latest(ctx context.Context, userID int64) (*model.WellnessEntry, error) {
	var e model.WellnessEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("recorded_at DESC").
		Order("id DESC").
		First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}
