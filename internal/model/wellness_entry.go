package model

import "time"

// WellnessEntry 一次打卡记录，创建后不可修改
type WellnessEntry struct {
	BaseModel
	PublicID   int64     `gorm:"uniqueIndex;not null" json:"public_id"`
	UserID     int64     `gorm:"not null;index:idx_wellness_user_recorded,priority:1" json:"user_id"`
	RecordedAt time.Time `gorm:"not null;index:idx_wellness_user_recorded,priority:2" json:"recorded_at"`

	MoodToday                float64 `gorm:"not null;check:chk_wellness_mood,mood_today >= 1 AND mood_today <= 10" json:"mood_today"`
	SleepHours               float64 `gorm:"not null;check:chk_wellness_sleep_hours,sleep_hours >= 0 AND sleep_hours <= 24" json:"sleep_hours"`
	SleepQuality             float64 `gorm:"not null;check:chk_wellness_sleep_quality,sleep_quality >= 1 AND sleep_quality <= 5" json:"sleep_quality"`
	ExerciseMinutes          float64 `gorm:"not null;check:chk_wellness_exercise,exercise_minutes >= 0" json:"exercise_minutes"`
	StressLevel              float64 `gorm:"not null;check:chk_wellness_stress,stress_level >= 1 AND stress_level <= 10" json:"stress_level"`
	ScreenTime               float64 `gorm:"not null;check:chk_wellness_screen,screen_time >= 0" json:"screen_time"`
	SocialInteractionMinutes float64 `gorm:"not null;check:chk_wellness_social,social_interaction_minutes >= 0" json:"social_interaction_minutes"`
	WaterIntakeLiters        float64 `gorm:"not null;check:chk_wellness_water,water_intake_liters >= 0" json:"water_intake_liters"`
	ProductivityLevel        float64 `gorm:"not null;check:chk_wellness_productivity,productivity_level >= 1 AND productivity_level <= 10" json:"productivity_level"`
	AnxietyLevel             float64 `gorm:"not null;check:chk_wellness_anxiety,anxiety_level >= 1 AND anxiety_level <= 10" json:"anxiety_level"`

	// 派生字段
	AvgMoodLast3Days float64 `gorm:"column:avg_mood_last_3_days;not null" json:"avg_mood_last_3_days"`
	PredictedMood    string  `gorm:"type:varchar(16);not null;default:'neutral'" json:"predicted_mood"`

	Notes string `gorm:"type:text;not null;default:''" json:"notes"`
}

// TableName 指定表名
func (WellnessEntry) TableName() string {
	return "wellness_entries"
}
