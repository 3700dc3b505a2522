package wellness

import (
	"errors"
	"testing"
	"time"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

var limits = RangeLimits{DefaultDays: 30, MaxDays: 365}

func TestParseRangeDefault(t *testing.T) {
	now := time.Date(2024, 3, 31, 15, 4, 5, 0, time.UTC)
	r, err := ParseRange(RangeQuery{}, limits, now, time.UTC)
	assert.Nil(t, err)
	assert.DeepEqual(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.DeepEqual(t, 2024, r.End.Year())
	assert.DeepEqual(t, 23, r.End.Hour())
	assert.DeepEqual(t, 31, r.End.Day())
}

func TestParseRangeDays(t *testing.T) {
	now := time.Date(2024, 3, 10, 8, 0, 0, 0, time.UTC)
	r, err := ParseRange(RangeQuery{Days: "7"}, limits, now, time.UTC)
	assert.Nil(t, err)
	assert.DeepEqual(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), r.Start)
	assert.Assert(t, r.Contains(now))
}

func TestParseRangeExplicit(t *testing.T) {
	r, err := ParseRange(RangeQuery{Start: "2024-01-01", End: "2024-01-31"}, limits, time.Now(), time.UTC)
	assert.Nil(t, err)
	assert.DeepEqual(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
	assert.DeepEqual(t, time.Date(2024, 1, 31, 23, 59, 59, int(999*time.Millisecond), time.UTC), r.End)

	r, err = ParseRange(RangeQuery{Start: "2024-01-01T10:00:00Z", End: "2024-01-02T10:00:00Z"}, limits, time.Now(), time.UTC)
	assert.Nil(t, err)
	assert.DeepEqual(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), r.Start)
}

func TestParseRangeRejects(t *testing.T) {
	cases := []struct {
		name  string
		q     RangeQuery
		field string
	}{
		{"negative days", RangeQuery{Days: "-3"}, "days"},
		{"zero days", RangeQuery{Days: "0"}, "days"},
		{"non numeric days", RangeQuery{Days: "week"}, "days"},
		{"too many days", RangeQuery{Days: "366"}, "days"},
		{"start after end", RangeQuery{Start: "2024-02-01", End: "2024-01-01"}, "start"},
		{"bad start", RangeQuery{Start: "01/02/2024", End: "2024-01-03"}, "start"},
		{"missing end", RangeQuery{Start: "2024-01-01"}, "end"},
		{"range too wide", RangeQuery{Start: "2020-01-01", End: "2024-01-01"}, "end"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseRange(tc.q, limits, time.Now(), time.UTC)
			var ve *ValidationError
			assert.Assert(t, errors.As(err, &ve))
			assert.DeepEqual(t, tc.field, ve.Field)
		})
	}
}

func TestParseDays(t *testing.T) {
	n, err := ParseDays("", 7, 365)
	assert.Nil(t, err)
	assert.DeepEqual(t, 7, n)

	n, err = ParseDays(" 14 ", 7, 365)
	assert.Nil(t, err)
	assert.DeepEqual(t, 14, n)
}
