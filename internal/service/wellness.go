package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"

	"MindTrack/config"
	"MindTrack/internal/cache"
	"MindTrack/internal/model"
	"MindTrack/internal/queue"
	"MindTrack/internal/repository"
	"MindTrack/internal/wellness"
	pkgerrors "MindTrack/pkg/errors"
	"MindTrack/pkg/logger"
	"MindTrack/pkg/metrics"
	"MindTrack/pkg/snowflake"
	"MindTrack/storage/database"
)

const streakAttempts = 3

var errStreakConflict = errors.New("streak changed concurrently")

var (
	wellnessService *WellnessService
	wellnessOnce    sync.Once
)

// Wellness 返回全局打卡服务
func Wellness() *WellnessService {
	wellnessOnce.Do(func() {
		db := database.DB()
		cfg := config.Cfg
		wellnessService = NewWellnessService(WellnessDeps{
			Users:       repository.NewUserRepository(db),
			Entries:     repository.NewWellnessRepository(db),
			Predictor:   wellness.ThresholdPredictor{},
			Idempotency: cache.Idempotency(),
			Analytics:   cache.Analytics(),
			Events:      queue.NewProducer(cfg.RabbitMQExchange),
			Location:    cfg.Location(),
			RollingDays: cfg.WellnessRollingDays,
			HistoryDays: cfg.WellnessHistoryDefaultDays,
			SummaryDays: cfg.WellnessSummaryDefaultDays,
			MaxDays:     cfg.WellnessMaxRangeDays,
		})
	})
	return wellnessService
}

// WellnessDeps 打卡服务依赖，Now/NextID 为空时使用默认实现
type WellnessDeps struct {
	Users       repository.UserRepository
	Entries     repository.WellnessRepository
	Predictor   wellness.Predictor
	Idempotency IdempotencyStore
	Analytics   AnalyticsStore
	Events      EventPublisher
	Location    *time.Location
	RollingDays int
	HistoryDays int
	SummaryDays int
	MaxDays     int
	Now         func() time.Time
	NextID      func() (int64, error)
}

type WellnessService struct {
	WellnessDeps
}

func NewWellnessService(deps WellnessDeps) *WellnessService {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.NextID == nil {
		deps.NextID = snowflake.NextID
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Predictor == nil {
		deps.Predictor = wellness.ThresholdPredictor{}
	}
	return &WellnessService{WellnessDeps: deps}
}

// CreateEntry 写入一次打卡：
// 校验 -> 去重 -> 滚动均值 -> 预测 -> 落库 -> 推进连续天数 -> 失效缓存并发布事件。
// 记录落库之后的步骤失败都不会让请求失败。
func (s *WellnessService) CreateEntry(
	ctx context.Context,
	userID int64,
	idempotencyKey string,
	req *model.CreateEntryRequest,
) (*model.CreateEntryResult, error) {
	values, err := req.Metrics.Validate()
	if err != nil {
		return nil, invalidInput(pkgerrors.WellnessEntryInvalid, err)
	}

	user, err := s.Users.FindByPublicID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logger.Ctx(ctx).Error("Failed to load user for entry", zap.Int64("user_id", userID), zap.Error(err))
		}
		return nil, userLookupError(err)
	}

	claimed := false
	if idempotencyKey != "" && s.Idempotency != nil {
		ok, err := s.Idempotency.Claim(ctx, userID, idempotencyKey)
		switch {
		case err != nil:
			logger.Ctx(ctx).Warn("Idempotency check unavailable, continuing", zap.Int64("user_id", userID), zap.Error(err))
		case !ok:
			return nil, pkgerrors.DuplicateSubmission
		default:
			claimed = true
		}
	}
	release := func() {
		if !claimed {
			return
		}
		if err := s.Idempotency.Release(ctx, userID, idempotencyKey); err != nil {
			logger.Ctx(ctx).Warn("Failed to release idempotency key", zap.Int64("user_id", userID), zap.Error(err))
		}
	}

	now := s.Now()
	prior, err := s.Entries.MoodsSince(ctx, userID, wellness.RollingWindowStart(now, s.RollingDays))
	if err != nil {
		release()
		logger.Ctx(ctx).Error("Failed to load rolling window", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.PersistenceFailed
	}
	avg := wellness.RollingAverage(prior, values.MoodToday)

	label, perr := wellness.PredictOrNeutral(s.Predictor, wellness.Features{Metrics: req.Metrics, AvgMoodLastDays: avg})
	if perr != nil {
		logger.Ctx(ctx).Warn("Mood prediction failed, falling back to neutral", zap.Int64("user_id", userID), zap.Error(perr))
	}

	publicID, err := s.NextID()
	if err != nil {
		release()
		logger.Ctx(ctx).Error("Failed to generate entry ID", zap.Error(err))
		return nil, pkgerrors.PersistenceFailed
	}

	entry := &model.WellnessEntry{
		PublicID:                 publicID,
		UserID:                   userID,
		RecordedAt:               now.UTC(),
		MoodToday:                values.MoodToday,
		SleepHours:               values.SleepHours,
		SleepQuality:             values.SleepQuality,
		ExerciseMinutes:          values.ExerciseMinutes,
		StressLevel:              values.StressLevel,
		ScreenTime:               values.ScreenTime,
		SocialInteractionMinutes: values.SocialInteractionMinutes,
		WaterIntakeLiters:        values.WaterIntakeLiters,
		ProductivityLevel:        values.ProductivityLevel,
		AnxietyLevel:             values.AnxietyLevel,
		AvgMoodLast3Days:         avg,
		PredictedMood:            string(label),
		Notes:                    req.Notes,
	}
	if err := s.Entries.Create(ctx, entry); err != nil {
		release()
		logger.Ctx(ctx).Error("Failed to create wellness entry", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.PersistenceFailed
	}
	metrics.RecordEntryCreated(ctx, string(label), perr != nil)

	result := &model.CreateEntryResult{
		Entry:      model.NewEntryData(entry),
		Prediction: string(label),
	}

	streak, err := s.advanceStreak(ctx, user, now)
	if err != nil {
		metrics.RecordStreakUpdateFailure(ctx)
		logger.Ctx(ctx).Error("Failed to update streak", zap.Int64("user_id", userID), zap.Error(err))
	} else {
		result.Streak = &streak
		result.StreakAvailable = true
	}

	s.afterEntryCreated(ctx, entry)
	return result, nil
}

// advanceStreak 以 last_checkin_date 做条件更新，冲突时重新读取后重试
func (s *WellnessService) advanceStreak(ctx context.Context, user *model.User, now time.Time) (int, error) {
	current := user
	for attempt := 0; attempt < streakAttempts; attempt++ {
		state := wellness.StreakState{Streak: current.Streak}
		if current.LastCheckinDate != nil {
			state.LastCheckinDay = *current.LastCheckinDate
		}

		next, transition := wellness.NextStreak(state, now, s.Location)
		if !transition.Changed() {
			return next.Streak, nil
		}

		ok, err := s.Users.CompareAndSetStreak(ctx, user.PublicID, current.LastCheckinDate, next)
		if err != nil {
			return 0, &wellness.StreakUpdateError{UserID: user.PublicID, Err: err}
		}
		if ok {
			logger.Ctx(ctx).Debug("Streak updated",
				zap.Int64("user_id", user.PublicID),
				zap.String("transition", transition.String()),
				zap.Int("streak", next.Streak),
			)
			return next.Streak, nil
		}

		current, err = s.Users.FindByPublicID(ctx, user.PublicID)
		if err != nil {
			return 0, &wellness.StreakUpdateError{UserID: user.PublicID, Err: err}
		}
	}
	return 0, &wellness.StreakUpdateError{UserID: user.PublicID, Err: errStreakConflict}
}

func (s *WellnessService) afterEntryCreated(ctx context.Context, entry *model.WellnessEntry) {
	if s.Analytics != nil {
		if err := s.Analytics.Invalidate(ctx, entry.UserID); err != nil {
			logger.Ctx(ctx).Warn("Failed to invalidate analytics cache", zap.Int64("user_id", entry.UserID), zap.Error(err))
		}
	}
	if s.Events != nil {
		msg := model.EntryCreatedMessage{
			UserID:        entry.UserID,
			EntryID:       entry.PublicID,
			PredictedMood: entry.PredictedMood,
			OccurredAt:    entry.RecordedAt.Format(time.RFC3339),
		}
		if err := s.Events.PublishEntryCreated(ctx, msg); err != nil {
			logger.Ctx(ctx).Warn("Failed to publish entry created event", zap.Int64("entry_id", entry.PublicID), zap.Error(err))
		}
	}
}

// ListHistory 返回近 N 天的记录，最新的在前
func (s *WellnessService) ListHistory(ctx context.Context, userID int64, rawDays string) (*model.EntryListData, error) {
	days, err := wellness.ParseDays(rawDays, s.HistoryDays, s.MaxDays)
	if err != nil {
		return nil, invalidInput(pkgerrors.DateRangeInvalid, err)
	}

	entries, err := s.Entries.ListSince(ctx, userID, wellness.RollingWindowStart(s.Now(), days))
	if err != nil {
		logger.Ctx(ctx).Error("Failed to list wellness history", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.QueryFailed
	}

	data := &model.EntryListData{Count: len(entries), Entries: make([]model.EntryData, 0, len(entries))}
	for i := range entries {
		data.Entries = append(data.Entries, model.NewEntryData(&entries[i]))
	}
	return data, nil
}

// Summary 近 N 天概览，附带最好与最差的一天
func (s *WellnessService) Summary(ctx context.Context, userID int64, rawDays string) (*model.WellnessSummaryData, error) {
	days, err := wellness.ParseDays(rawDays, s.SummaryDays, s.MaxDays)
	if err != nil {
		return nil, invalidInput(pkgerrors.DateRangeInvalid, err)
	}

	entries, err := s.Entries.ListSince(ctx, userID, wellness.RollingWindowStart(s.Now(), days))
	if err != nil {
		logger.Ctx(ctx).Error("Failed to load wellness summary", zap.Int64("user_id", userID), zap.Error(err))
		return nil, pkgerrors.QueryFailed
	}

	// ListSince 按时间倒序，趋势需要升序
	samples := make([]wellness.Sample, 0, len(entries))
	for i := len(entries) - 1; i >= 0; i-- {
		samples = append(samples, entries[i].Sample())
	}

	ranked := wellness.Summarize(samples, s.Location)
	return &model.WellnessSummaryData{
		WellnessSummary: wellness.SummarizeWellness(samples, days),
		BestDay:         ranked.BestDay,
		WorstDay:        ranked.WorstDay,
	}, nil
}
