package model

import (
	"strconv"
	"time"

	"MindTrack/internal/wellness"
)

// ========== Wellness 相关 DTO ==========

// CreateEntryRequest 打卡请求
type CreateEntryRequest struct {
	wellness.Metrics
	Notes string `json:"notes"`
}

// EntryData 打卡记录
type EntryData struct {
	ID                       string    `json:"id"`
	RecordedAt               time.Time `json:"recorded_at"`
	MoodToday                float64   `json:"mood_today"`
	SleepHours               float64   `json:"sleep_hours"`
	SleepQuality             float64   `json:"sleep_quality"`
	ExerciseMinutes          float64   `json:"exercise_minutes"`
	StressLevel              float64   `json:"stress_level"`
	ScreenTime               float64   `json:"screen_time"`
	SocialInteractionMinutes float64   `json:"social_interaction_minutes"`
	WaterIntakeLiters        float64   `json:"water_intake_liters"`
	ProductivityLevel        float64   `json:"productivity_level"`
	AnxietyLevel             float64   `json:"anxiety_level"`
	AvgMoodLast3Days         float64   `json:"avg_mood_last_3_days"`
	PredictedMood            string    `json:"predicted_mood"`
	Notes                    string    `json:"notes"`
}

// NewEntryData 从存储模型转换
func NewEntryData(e *WellnessEntry) EntryData {
	return EntryData{
		ID:                       strconv.FormatInt(e.PublicID, 10),
		RecordedAt:               e.RecordedAt,
		MoodToday:                e.MoodToday,
		SleepHours:               e.SleepHours,
		SleepQuality:             e.SleepQuality,
		ExerciseMinutes:          e.ExerciseMinutes,
		StressLevel:              e.StressLevel,
		ScreenTime:               e.ScreenTime,
		SocialInteractionMinutes: e.SocialInteractionMinutes,
		WaterIntakeLiters:        e.WaterIntakeLiters,
		ProductivityLevel:        e.ProductivityLevel,
		AnxietyLevel:             e.AnxietyLevel,
		AvgMoodLast3Days:         e.AvgMoodLast3Days,
		PredictedMood:            e.PredictedMood,
		Notes:                    e.Notes,
	}
}

// CreateEntryResult 打卡结果，Streak 为空表示连续天数暂不可用
type CreateEntryResult struct {
	Entry           EntryData `json:"entry"`
	Prediction      string    `json:"prediction"`
	Streak          *int      `json:"streak"`
	StreakAvailable bool      `json:"streakAvailable"`
}

// EntryListData 历史记录列表
type EntryListData struct {
	Count   int         `json:"count"`
	Entries []EntryData `json:"entries"`
}

// WellnessSummaryData 近 N 天概览
type WellnessSummaryData struct {
	wellness.WellnessSummary
	BestDay  *wellness.DayMood `json:"bestDay"`
	WorstDay *wellness.DayMood `json:"worstDay"`
}

// Sample 转换为聚合输入
func (e *WellnessEntry) Sample() wellness.Sample {
	return wellness.Sample{
		At:        e.RecordedAt,
		Mood:      e.MoodToday,
		Sleep:     e.SleepHours,
		Stress:    e.StressLevel,
		Anxiety:   e.AnxietyLevel,
		Exercise:  e.ExerciseMinutes,
		Predicted: wellness.Label(e.PredictedMood),
	}
}

// ========== Analytics 相关 DTO ==========

// AnalyticsRangeQuery 统计区间查询参数
type AnalyticsRangeQuery struct {
	Start string `query:"start"`
	End   string `query:"end"`
	Days  string `query:"days"`
}

// RangeData 实际使用的区间
type RangeData struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// AnalyticsHistoryData 按天分组的均值
type AnalyticsHistoryData struct {
	Range   RangeData            `json:"range"`
	History []wellness.DayBucket `json:"history"`
}

// AnalyticsSummaryData 区间统计
type AnalyticsSummaryData struct {
	Range   RangeData        `json:"range"`
	Summary wellness.Summary `json:"summary"`
}
