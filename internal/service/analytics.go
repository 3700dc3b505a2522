package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"MindTrack/config"
	"MindTrack/internal/cache"
	"MindTrack/internal/model"
	"MindTrack/internal/repository"
	"MindTrack/internal/wellness"
	pkgerrors "MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/storage/database"
)

const (
	analyticsKindHistory = "history"
	analyticsKindSummary = "summary"
)

var (
	analyticsService *AnalyticsService
	analyticsOnce    sync.Once
)

// Analytics 返回全局统计服务
func Analytics() *AnalyticsService {
	analyticsOnce.Do(func() {
		cfg := config.Cfg
		analyticsService = NewAnalyticsService(AnalyticsDeps{
			Entries:  repository.NewWellnessRepository(database.DB()),
			Cache:    cache.Analytics(),
			Location: cfg.Location(),
			Limits: wellness.RangeLimits{
				DefaultDays: cfg.AnalyticsDefaultDays,
				MaxDays:     cfg.WellnessMaxRangeDays,
			},
		})
	})
	return analyticsService
}

// AnalyticsDeps 统计服务依赖，Cache 为空时不缓存
type AnalyticsDeps struct {
	Entries  repository.WellnessRepository
	Cache    AnalyticsStore
	Location *time.Location
	Limits   wellness.RangeLimits
	Now      func() time.Time
}

type AnalyticsService struct {
	AnalyticsDeps
}

func NewAnalyticsService(deps AnalyticsDeps) *AnalyticsService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	return &AnalyticsService{AnalyticsDeps: deps}
}

// History 按天分组的均值，日期升序，没有记录的日期不补零
func (s *AnalyticsService) History(ctx context.Context, userID int64, q model.AnalyticsRangeQuery) (*model.AnalyticsHistoryData, error) {
	dr, err := s.parseRange(q)
	if err != nil {
		return nil, err
	}

	var data model.AnalyticsHistoryData
	if s.cached(ctx, userID, analyticsKindHistory, dr, &data) {
		return &data, nil
	}

	samples, err := s.load(ctx, userID, dr)
	if err != nil {
		return nil, err
	}

	data = model.AnalyticsHistoryData{
		Range:   model.RangeData{Start: dr.Start, End: dr.End},
		History: wellness.GroupByDay(samples, s.Location),
	}
	if data.History == nil {
		data.History = []wellness.DayBucket{}
	}
	s.store(ctx, userID, analyticsKindHistory, dr, &data)
	return &data, nil
}

// Summary 区间整体均值与最好/最差的一天
func (s *AnalyticsService) Summary(ctx context.Context, userID int64, q model.AnalyticsRangeQuery) (*model.AnalyticsSummaryData, error) {
	dr, err := s.parseRange(q)
	if err != nil {
		return nil, err
	}

	var data model.AnalyticsSummaryData
	if s.cached(ctx, userID, analyticsKindSummary, dr, &data) {
		return &data, nil
	}

	samples, err := s.load(ctx, userID, dr)
	if err != nil {
		return nil, err
	}

	data = model.AnalyticsSummaryData{
		Range:   model.RangeData{Start: dr.Start, End: dr.End},
		Summary: wellness.Summarize(samples, s.Location),
	}
	s.store(ctx, userID, analyticsKindSummary, dr, &data)
	return &data, nil
}

func (s *AnalyticsService) parseRange(q model.AnalyticsRangeQuery) (wellness.DateRange, error) {
	dr, err := wellness.ParseRange(wellness.RangeQuery{
		Start: q.Start,
		End:   q.End,
		Days:  q.Days,
	}, s.Limits, s.Now(), s.Location)
	if err != nil {
		return wellness.DateRange{}, invalidInput(pkgerrors.DateRangeInvalid, err)
	}
	return dr, nil
}

func (s *AnalyticsService) load(ctx context.Context, userID int64, dr wellness.DateRange) ([]wellness.Sample, error) {
	entries, err := s.Entries.ListRange(ctx, userID, dr)
	if err != nil {
		logger.Ctx(ctx).Error("Failed to load analytics range",
			zap.Int64("user_id", userID),
			zap.Time("start", dr.Start),
			zap.Time("end", dr.End),
			zap.Error(err),
		)
		return nil, pkgerrors.QueryFailed
	}

	samples := make([]wellness.Sample, 0, len(entries))
	for i := range entries {
		samples = append(samples, entries[i].Sample())
	}
	return samples, nil
}

func rangeKey(dr wellness.DateRange) string {
	return fmt.Sprintf("%d_%d", dr.Start.UnixMilli(), dr.End.UnixMilli())
}

// cached 缓存不可用时按未命中处理
func (s *AnalyticsService) cached(ctx context.Context, userID int64, kind string, dr wellness.DateRange, dest interface{}) bool {
	if s.Cache == nil {
		return false
	}
	hit, err := s.Cache.Get(ctx, userID, kind, rangeKey(dr), dest)
	if err != nil {
		metrics.RecordAnalyticsCache(ctx, kind, "error")
		logger.Ctx(ctx).Warn("Analytics cache read failed", zap.Int64("user_id", userID), zap.String("kind", kind), zap.Error(err))
		return false
	}
	if hit {
		metrics.RecordAnalyticsCache(ctx, kind, "hit")
		return true
	}
	metrics.RecordAnalyticsCache(ctx, kind, "miss")
	return false
}

func (s *AnalyticsService) store(ctx context.Context, userID int64, kind string, dr wellness.DateRange, value interface{}) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Set(ctx, userID, kind, rangeKey(dr), value); err != nil {
		logger.Ctx(ctx).Warn("Analytics cache write failed", zap.Int64("user_id", userID), zap.String("kind", kind), zap.Error(err))
	}
}
