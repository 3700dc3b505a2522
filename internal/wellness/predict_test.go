package wellness

import (
	"errors"
	"math"
	"testing"

	"github.com/cloudwego/hertz/pkg/common/test/assert"
)

func features(mood, stress, anxiety float64) Features {
	m := validMetrics()
	m.MoodToday = f(mood)
	m.StressLevel = f(stress)
	m.AnxietyLevel = f(anxiety)
	return Features{Metrics: m, AvgMoodLastDays: mood}
}

func TestThresholdPredictor(t *testing.T) {
	cases := []struct {
		name                  string
		mood, stress, anxiety float64
		want                  Label
	}{
		{"high stress wins over happy mood", 9, 7, 1, LabelStressed},
		{"high anxiety wins over sad mood", 2, 1, 8, LabelStressed},
		{"happy", 7, 6, 6, LabelHappy},
		{"sad", 3, 2, 2, LabelSad},
		{"neutral upper", 6.9, 6.9, 6.9, LabelNeutral},
		{"neutral lower", 3.1, 1, 1, LabelNeutral},
	}

	p := ThresholdPredictor{}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := p.Predict(features(tc.mood, tc.stress, tc.anxiety))
			assert.Nil(t, err)
			assert.DeepEqual(t, tc.want, got)
		})
	}
}

func TestPredictMissingInput(t *testing.T) {
	fs := features(5, 5, 5)
	fs.StressLevel = nil
	_, err := ThresholdPredictor{}.Predict(fs)
	var pe *PredictionError
	assert.Assert(t, errors.As(err, &pe))
	assert.DeepEqual(t, "stress_level", pe.Field)

	fs = features(5, 5, 5)
	fs.MoodToday = f(math.NaN())
	_, err = ThresholdPredictor{}.Predict(fs)
	assert.Assert(t, errors.As(err, &pe))
	assert.DeepEqual(t, "mood_today", pe.Field)
}

type brokenPredictor struct{ label Label }

func (b brokenPredictor) Predict(Features) (Label, error) {
	if b.label == "" {
		return "", errors.New("model unavailable")
	}
	return b.label, nil
}

func TestPredictOrNeutral(t *testing.T) {
	label, err := PredictOrNeutral(brokenPredictor{}, features(9, 1, 1))
	assert.NotNil(t, err)
	assert.DeepEqual(t, LabelNeutral, label)

	label, err = PredictOrNeutral(brokenPredictor{label: "ecstatic"}, features(9, 1, 1))
	assert.Nil(t, err)
	assert.DeepEqual(t, LabelNeutral, label)

	label, err = PredictOrNeutral(ThresholdPredictor{}, features(9, 1, 1))
	assert.Nil(t, err)
	assert.DeepEqual(t, LabelHappy, label)
}
