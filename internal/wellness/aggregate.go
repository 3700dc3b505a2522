package wellness

import (
	"sort"
	"time"
)

// Sample 是参与聚合的一条打卡记录
type Sample struct {
	At        time.Time
	Mood      float64
	Sleep     float64
	Stress    float64
	Anxiety   float64
	Exercise  float64
	Predicted Label
}

// DayBucket 是某一天的均值
type DayBucket struct {
	Date       string  `json:"date"`
	AvgMood    float64 `json:"avgMood"`
	AvgSleep   float64 `json:"avgSleep"`
	AvgStress  float64 `json:"avgStress"`
	AvgAnxiety float64 `json:"avgAnxiety"`
	Count      int     `json:"count"`
}

// DayMood 用于最好/最差的一天
type DayMood struct {
	Date    string  `json:"date"`
	AvgMood float64 `json:"avgMood"`
	Count   int     `json:"count"`
}

// Summary 是区间内的整体统计
type Summary struct {
	AvgMood      float64  `json:"avgMood"`
	AvgSleep     float64  `json:"avgSleep"`
	AvgStress    float64  `json:"avgStress"`
	AvgAnxiety   float64  `json:"avgAnxiety"`
	TotalEntries int      `json:"totalEntries"`
	BestDay      *DayMood `json:"bestDay"`
	WorstDay     *DayMood `json:"worstDay"`
}

type dayAcc struct {
	mood, sleep, stress, anxiety float64
	count                        int
}

// GroupByDay 按 loc 时区的日历日分组，结果按日期升序
func GroupByDay(samples []Sample, loc *time.Location) []DayBucket {
	acc := make(map[string]*dayAcc)
	for _, s := range samples {
		key := DayKey(s.At, loc)
		a, ok := acc[key]
		if !ok {
			a = &dayAcc{}
			acc[key] = a
		}
		a.mood += s.Mood
		a.sleep += s.Sleep
		a.stress += s.Stress
		a.anxiety += s.Anxiety
		a.count++
	}

	buckets := make([]DayBucket, 0, len(acc))
	for key, a := range acc {
		n := float64(a.count)
		buckets = append(buckets, DayBucket{
			Date:       key,
			AvgMood:    a.mood / n,
			AvgSleep:   a.sleep / n,
			AvgStress:  a.stress / n,
			AvgAnxiety: a.anxiety / n,
			Count:      a.count,
		})
	}
	sort.Slice(buckets, func(i, j int) bool {
		return buckets[i].Date < buckets[j].Date
	})
	return buckets
}

// RankDays 按日均心情降序排列，均值相同的按日期升序
func RankDays(buckets []DayBucket) []DayMood {
	ranked := make([]DayMood, 0, len(buckets))
	for _, b := range buckets {
		ranked = append(ranked, DayMood{Date: b.Date, AvgMood: b.AvgMood, Count: b.Count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].AvgMood != ranked[j].AvgMood {
			return ranked[i].AvgMood > ranked[j].AvgMood
		}
		return ranked[i].Date < ranked[j].Date
	})
	return ranked
}

// Summarize 计算区间统计；没有记录时均值为 0，最好/最差的一天为空
func Summarize(samples []Sample, loc *time.Location) Summary {
	if len(samples) == 0 {
		return Summary{}
	}

	var sum dayAcc
	for _, s := range samples {
		sum.mood += s.Mood
		sum.sleep += s.Sleep
		sum.stress += s.Stress
		sum.anxiety += s.Anxiety
		sum.count++
	}
	n := float64(sum.count)

	summary := Summary{
		AvgMood:      sum.mood / n,
		AvgSleep:     sum.sleep / n,
		AvgStress:    sum.stress / n,
		AvgAnxiety:   sum.anxiety / n,
		TotalEntries: sum.count,
	}

	ranked := RankDays(GroupByDay(samples, loc))
	best := ranked[0]
	worst := ranked[len(ranked)-1]
	summary.BestDay = &best
	summary.WorstDay = &worst
	return summary
}

// WellnessSummary 是近 N 天的概览
type WellnessSummary struct {
	Days           int     `json:"days"`
	TotalEntries   int     `json:"totalEntries"`
	AverageMood    float64 `json:"averageMood"`
	AverageSleep   float64 `json:"averageSleep"`
	TotalExercise  float64 `json:"totalExercise"`
	AverageStress  float64 `json:"averageStress"`
	AverageAnxiety float64 `json:"averageAnxiety"`
	MoodTrend      []Trend `json:"moodTrend"`
}

// Trend 是趋势图上的一个点
type Trend struct {
	Date      time.Time `json:"date"`
	Mood      float64   `json:"mood"`
	Predicted Label     `json:"predicted"`
}

// SummarizeWellness 汇总近 N 天，samples 需按时间升序传入
func SummarizeWellness(samples []Sample, days int) WellnessSummary {
	out := WellnessSummary{Days: days, MoodTrend: make([]Trend, 0, len(samples))}
	if len(samples) == 0 {
		return out
	}

	var mood, sleep, stress, anxiety float64
	for _, s := range samples {
		mood += s.Mood
		sleep += s.Sleep
		stress += s.Stress
		anxiety += s.Anxiety
		out.TotalExercise += s.Exercise
		out.MoodTrend = append(out.MoodTrend, Trend{Date: s.At, Mood: s.Mood, Predicted: s.Predicted})
	}
	n := float64(len(samples))
	out.TotalEntries = len(samples)
	out.AverageMood = mood / n
	out.AverageSleep = sleep / n
	out.AverageStress = stress / n
	out.AverageAnxiety = anxiety / n
	return out
}
