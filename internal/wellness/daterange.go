package wellness

import (
	"strconv"
	"strings"
	"time"
)

// DateRange 是闭区间 [Start, End]
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Contains 判断 t 是否落在区间内
func (r DateRange) Contains(t time.Time) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// RangeQuery 是统计接口的原始查询参数
type RangeQuery struct {
	Start string
	End   string
	Days  string
}

// RangeLimits 控制默认天数与上限
type RangeLimits struct {
	DefaultDays int
	MaxDays     int
}

// ParseDays 解析 days 参数，为空时使用默认值
func ParseDays(raw string, def, max int) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, &ValidationError{Field: "days", Reason: "must be a positive integer"}
	}
	if max > 0 && n > max {
		return 0, &ValidationError{Field: "days", Reason: "must not exceed " + strconv.Itoa(max)}
	}
	return n, nil
}

// ParseRange 解析统计区间：
// 同时给出 start 和 end 时使用显式区间；否则按 days（缺省为 DefaultDays）从今天往前推。
// 起点归一到当天 00:00:00，终点归一到当天 23:59:59.999。
func ParseRange(q RangeQuery, limits RangeLimits, now time.Time, loc *time.Location) (DateRange, error) {
	start := strings.TrimSpace(q.Start)
	end := strings.TrimSpace(q.End)

	if start != "" || end != "" {
		if start == "" {
			return DateRange{}, &ValidationError{Field: "start", Reason: "is required when end is set"}
		}
		if end == "" {
			return DateRange{}, &ValidationError{Field: "end", Reason: "is required when start is set"}
		}
		s, err := parseDate("start", start, loc)
		if err != nil {
			return DateRange{}, err
		}
		e, err := parseDate("end", end, loc)
		if err != nil {
			return DateRange{}, err
		}
		r := DateRange{Start: StartOfDay(s, loc), End: EndOfDay(e, loc)}
		if r.Start.After(r.End) {
			return DateRange{}, &ValidationError{Field: "start", Reason: "must not be after end"}
		}
		if limits.MaxDays > 0 && r.End.Sub(r.Start) > time.Duration(limits.MaxDays+1)*24*time.Hour {
			return DateRange{}, &ValidationError{Field: "end", Reason: "range must not exceed " + strconv.Itoa(limits.MaxDays) + " days"}
		}
		return r, nil
	}

	days, err := ParseDays(q.Days, limits.DefaultDays, limits.MaxDays)
	if err != nil {
		return DateRange{}, err
	}
	local := now.In(loc)
	y, m, d := local.Date()
	from := time.Date(y, m, d-days, 0, 0, 0, 0, loc)
	return DateRange{Start: from, End: EndOfDay(now, loc)}, nil
}

func parseDate(field, raw string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(DayLayout, raw, loc); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, &ValidationError{Field: field, Reason: "must be YYYY-MM-DD or RFC3339"}
}

// StartOfDay 返回 t 在 loc 时区当天的零点
func StartOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// EndOfDay 返回 t 在 loc 时区当天的最后一毫秒
func EndOfDay(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), loc)
}
