// Package wellness 包含打卡写入链路与统计的纯业务逻辑：指标校验、滚动均值、
// 心情预测、连续打卡状态转移以及按天聚合。这里不依赖存储，便于单独测试。
package wellness

import (
	"fmt"
	"math"
)

// Metrics 是一次打卡提交的原始指标，指针用于区分“未提供”和 0
type Metrics struct {
	MoodToday                *float64 `json:"mood_today"`
	SleepHours               *float64 `json:"sleep_hours"`
	SleepQuality             *float64 `json:"sleep_quality"`
	ExerciseMinutes          *float64 `json:"exercise_minutes"`
	StressLevel              *float64 `json:"stress_level"`
	ScreenTime               *float64 `json:"screen_time"`
	SocialInteractionMinutes *float64 `json:"social_interaction_minutes"`
	WaterIntakeLiters        *float64 `json:"water_intake_liters"`
	ProductivityLevel        *float64 `json:"productivity_level"`
	AnxietyLevel             *float64 `json:"anxiety_level"`
}

// Values 是校验通过后的指标
type Values struct {
	MoodToday                float64
	SleepHours               float64
	SleepQuality             float64
	ExerciseMinutes          float64
	StressLevel              float64
	ScreenTime               float64
	SocialInteractionMinutes float64
	WaterIntakeLiters        float64
	ProductivityLevel        float64
	AnxietyLevel             float64
}

// FieldRange 声明单个指标的闭区间
type FieldRange struct {
	Field string
	Min   float64
	Max   float64
}

func (r FieldRange) bounded() bool {
	return !math.IsInf(r.Max, 1)
}

var unbounded = math.Inf(1)

// Ranges 与存储层的字段约束保持一致，顺序即校验顺序
var Ranges = []FieldRange{
	{Field: "mood_today", Min: 1, Max: 10},
	{Field: "sleep_hours", Min: 0, Max: 24},
	{Field: "sleep_quality", Min: 1, Max: 5},
	{Field: "exercise_minutes", Min: 0, Max: unbounded},
	{Field: "stress_level", Min: 1, Max: 10},
	{Field: "screen_time", Min: 0, Max: unbounded},
	{Field: "social_interaction_minutes", Min: 0, Max: unbounded},
	{Field: "water_intake_liters", Min: 0, Max: unbounded},
	{Field: "productivity_level", Min: 1, Max: 10},
	{Field: "anxiety_level", Min: 1, Max: 10},
}

// ValidationError 指出第一个不合法的字段
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

func (m Metrics) fields() []*float64 {
	return []*float64{
		m.MoodToday,
		m.SleepHours,
		m.SleepQuality,
		m.ExerciseMinutes,
		m.StressLevel,
		m.ScreenTime,
		m.SocialInteractionMinutes,
		m.WaterIntakeLiters,
		m.ProductivityLevel,
		m.AnxietyLevel,
	}
}

// Validate 按 Ranges 顺序逐个检查，失败时不产生任何部分结果
func (m Metrics) Validate() (Values, error) {
	fields := m.fields()
	for i, r := range Ranges {
		if err := checkField(r, fields[i]); err != nil {
			return Values{}, err
		}
	}

	return Values{
		MoodToday:                *m.MoodToday,
		SleepHours:               *m.SleepHours,
		SleepQuality:             *m.SleepQuality,
		ExerciseMinutes:          *m.ExerciseMinutes,
		StressLevel:              *m.StressLevel,
		ScreenTime:               *m.ScreenTime,
		SocialInteractionMinutes: *m.SocialInteractionMinutes,
		WaterIntakeLiters:        *m.WaterIntakeLiters,
		ProductivityLevel:        *m.ProductivityLevel,
		AnxietyLevel:             *m.AnxietyLevel,
	}, nil
}

func checkField(r FieldRange, v *float64) error {
	if v == nil {
		return &ValidationError{Field: r.Field, Reason: "is required"}
	}
	if math.IsNaN(*v) || math.IsInf(*v, 0) {
		return &ValidationError{Field: r.Field, Reason: "must be a finite number"}
	}
	if r.bounded() {
		if *v < r.Min || *v > r.Max {
			return &ValidationError{Field: r.Field, Reason: fmt.Sprintf("must be between %g and %g", r.Min, r.Max)}
		}
		return nil
	}
	if *v < r.Min {
		return &ValidationError{Field: r.Field, Reason: fmt.Sprintf("must be at least %g", r.Min)}
	}
	return nil
}

// Metrics 还原为指针形式，预测器按同一结构读取
func (v Values) Metrics() Metrics {
	return Metrics{
		MoodToday:                ptr(v.MoodToday),
		SleepHours:               ptr(v.SleepHours),
		SleepQuality:             ptr(v.SleepQuality),
		ExerciseMinutes:          ptr(v.ExerciseMinutes),
		StressLevel:              ptr(v.StressLevel),
		ScreenTime:               ptr(v.ScreenTime),
		SocialInteractionMinutes: ptr(v.SocialInteractionMinutes),
		WaterIntakeLiters:        ptr(v.WaterIntakeLiters),
		ProductivityLevel:        ptr(v.ProductivityLevel),
		AnxietyLevel:             ptr(v.AnxietyLevel),
	}
}

func ptr(f float64) *float64 {
	return &f
}
