package wellness

import (
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func TestNextStreak(t *testing.T) {
	now := time.Date(2024, 3, 10, 9, 30, 0, 0, time.UTC)

	cases := []struct {
		name  string
		state StreakState
		want  StreakState
		tr    Transition
	}{
		{"first check-in", StreakState{}, StreakState{Streak: 1, LastCheckinDay: "2024-03-10"}, TransitionFirst},
		{"same day", StreakState{Streak: 4, LastCheckinDay: "2024-03-10"}, StreakState{Streak: 4, LastCheckinDay: "2024-03-10"}, TransitionSameDay},
		{"consecutive", StreakState{Streak: 4, LastCheckinDay: "2024-03-09"}, StreakState{Streak: 5, LastCheckinDay: "2024-03-10"}, TransitionConsecutive},
		{"gap", StreakState{Streak: 4, LastCheckinDay: "2024-03-07"}, StreakState{Streak: 1, LastCheckinDay: "2024-03-10"}, TransitionReset},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, tr := NextStreak(tc.state, now, time.UTC)
			assert.DeepEqual(t, tc.want, got)
			assert.DeepEqual(t, tc.tr, tr)
		})
	}
}

func TestNextStreakMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 5, 0, 0, time.UTC)
	got, tr := NextStreak(StreakState{Streak: 2, LastCheckinDay: "2024-02-29"}, now, time.UTC)
	assert.DeepEqual(t, TransitionConsecutive, tr)
	assert.DeepEqual(t, 3, got.Streak)
}

func TestNextStreakUsesConfiguredZone(t *testing.T) {
	loc := time.FixedZone("UTC+8", 8*3600)
	// 2024-03-09 20:00 UTC 在东八区已经是 3 月 10 日
	now := time.Date(2024, 3, 9, 20, 0, 0, 0, time.UTC)
	got, tr := NextStreak(StreakState{Streak: 1, LastCheckinDay: "2024-03-09"}, now, loc)
	assert.DeepEqual(t, TransitionConsecutive, tr)
	assert.DeepEqual(t, "2024-03-10", got.LastCheckinDay)

	_, tr = NextStreak(StreakState{Streak: 1, LastCheckinDay: "2024-03-09"}, now, time.UTC)
	assert.DeepEqual(t, TransitionSameDay, tr)
}

func TestTransitionChanged(t *testing.T) {
	assert.Assert(t, TransitionFirst.Changed())
	assert.Assert(t, !TransitionSameDay.Changed())
	assert.DeepEqual(t, "reset", TransitionReset.String())
}
