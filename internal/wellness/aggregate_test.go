package wellness

import (
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func sample(day, hour int, mood float64) Sample {
	return Sample{
		At:       time.Date(2024, 3, day, hour, 0, 0, 0, time.UTC),
		Mood:     mood,
		Sleep:    7,
		Stress:   4,
		Anxiety:  2,
		Exercise: 20,
	}
}

func TestGroupByDay(t *testing.T) {
	buckets := GroupByDay([]Sample{
		sample(2, 9, 4),
		sample(1, 8, 6),
		sample(2, 21, 8),
	}, time.UTC)

	assert.DeepEqual(t, 2, len(buckets))
	assert.DeepEqual(t, "2024-03-01", buckets[0].Date)
	assert.DeepEqual(t, 1, buckets[0].Count)
	assert.DeepEqual(t, "2024-03-02", buckets[1].Date)
	assert.DeepEqual(t, 6.0, buckets[1].AvgMood)
	assert.DeepEqual(t, 2, buckets[1].Count)
}

func TestGroupByDayRespectsZone(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*3600)
	buckets := GroupByDay([]Sample{sample(2, 2, 5)}, loc)
	assert.DeepEqual(t, "2024-03-01", buckets[0].Date)
}

func TestSummarize(t *testing.T) {
	s := Summarize([]Sample{
		sample(1, 8, 6),
		sample(2, 9, 9),
		sample(3, 9, 3),
	}, time.UTC)

	assert.DeepEqual(t, 3, s.TotalEntries)
	assert.DeepEqual(t, 6.0, s.AvgMood)
	assert.DeepEqual(t, 7.0, s.AvgSleep)
	assert.DeepEqual(t, "2024-03-02", s.BestDay.Date)
	assert.DeepEqual(t, "2024-03-03", s.WorstDay.Date)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil, time.UTC)
	assert.DeepEqual(t, 0, s.TotalEntries)
	assert.DeepEqual(t, 0.0, s.AvgMood)
	assert.Assert(t, s.BestDay == nil)
	assert.Assert(t, s.WorstDay == nil)
}

func TestSummarizeSingleDay(t *testing.T) {
	s := Summarize([]Sample{sample(5, 8, 5)}, time.UTC)
	assert.DeepEqual(t, s.BestDay.Date, s.WorstDay.Date)
}

func TestRankDaysTieBreak(t *testing.T) {
	ranked := RankDays([]DayBucket{
		{Date: "2024-03-03", AvgMood: 5},
		{Date: "2024-03-01", AvgMood: 5},
		{Date: "2024-03-02", AvgMood: 7},
	})
	assert.DeepEqual(t, "2024-03-02", ranked[0].Date)
	assert.DeepEqual(t, "2024-03-01", ranked[1].Date)
	assert.DeepEqual(t, "2024-03-03", ranked[2].Date)
}

func TestSummarizeWellness(t *testing.T) {
	w := SummarizeWellness([]Sample{sample(1, 8, 4), sample(2, 8, 8)}, 7)
	assert.DeepEqual(t, 7, w.Days)
	assert.DeepEqual(t, 2, w.TotalEntries)
	assert.DeepEqual(t, 6.0, w.AverageMood)
	assert.DeepEqual(t, 40.0, w.TotalExercise)
	assert.DeepEqual(t, 2, len(w.MoodTrend))

	empty := SummarizeWellness(nil, 7)
	assert.DeepEqual(t, 0, len(empty.MoodTrend))
	assert.Assert(t, empty.MoodTrend != nil)
}
