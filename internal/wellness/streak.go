package wellness

import "time"

// DayLayout 是日期 key 的格式，同时用于 last_checkin_date 的存储
const DayLayout = "2006-01-02"

// StreakState 是用户的连续打卡状态，LastCheckinDay 为空表示从未打卡
type StreakState struct {
	Streak         int
	LastCheckinDay string
}

// Transition 描述一次打卡对连续天数的影响
type Transition int

const (
	TransitionFirst Transition = iota
	TransitionSameDay
	TransitionConsecutive
	TransitionReset
)

func (t Transition) String() string {
	switch t {
	case TransitionFirst:
		return "first"
	case TransitionSameDay:
		return "same_day"
	case TransitionConsecutive:
		return "consecutive"
	case TransitionReset:
		return "reset"
	}
	return "unknown"
}

// Changed 同日重复打卡不需要写库
func (t Transition) Changed() bool {
	return t != TransitionSameDay
}

// DayKey 返回 t 在 loc 时区下的日历日
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayLayout)
}

// PreviousDayKey 按日历日而不是 24 小时回退，跨夏令时也不会出错
func PreviousDayKey(t time.Time, loc *time.Location) string {
	local := t.In(loc)
	y, m, d := local.Date()
	return time.Date(y, m, d-1, 12, 0, 0, 0, loc).Format(DayLayout)
}

// NextStreak 计算打卡后的状态：
// 首次打卡为 1；同一天保持不变；昨天打过卡则加 1；否则重置为 1。
func NextStreak(s StreakState, now time.Time, loc *time.Location) (StreakState, Transition) {
	today := DayKey(now, loc)

	switch s.LastCheckinDay {
	case "":
		return StreakState{Streak: 1, LastCheckinDay: today}, TransitionFirst
	case today:
		return s, TransitionSameDay
	case PreviousDayKey(now, loc):
		return StreakState{Streak: s.Streak + 1, LastCheckinDay: today}, TransitionConsecutive
	default:
		return StreakState{Streak: 1, LastCheckinDay: today}, TransitionReset
	}
}

// StreakUpdateError 表示连续天数在重试后仍未能落库，打卡记录本身已保存
type StreakUpdateError struct {
	UserID int64
	Err    error
}

func (e *StreakUpdateError) Error() string {
	if e.Err == nil {
		return "streak update failed"
	}
	return "streak update failed: " + e.Err.Error()
}

func (e *StreakUpdateError) Unwrap() error {
	return e.Err
}
