package wellness

import "math"

// Label 是离散的心情分类
type Label string

const (
	LabelHappy    Label = "happy"
	LabelSad      Label = "sad"
	LabelStressed Label = "stressed"
	LabelNeutral  Label = "neutral"
)

// Valid 判断是否为已知分类
func (l Label) Valid() bool {
	switch l {
	case LabelHappy, LabelSad, LabelStressed, LabelNeutral:
		return true
	}
	return false
}

const (
	stressedThreshold = 7
	happyThreshold    = 7
	sadThreshold      = 3
)

// Features 是预测输入。除 mood/stress/anxiety 外的字段当前不参与判断，
// 保留它们是为了与模型训练时的特征列对齐。
type Features struct {
	Metrics
	AvgMoodLastDays float64
}

// PredictionError 表示输入缺失或不是有限数值
type PredictionError struct {
	Field string
}

func (e *PredictionError) Error() string {
	return "cannot predict mood: " + e.Field + " is missing or not numeric"
}

// Predictor 允许替换为模型推理实现
type Predictor interface {
	Predict(f Features) (Label, error)
}

// ThresholdPredictor 是按阈值规则判断的默认实现，无副作用
type ThresholdPredictor struct{}

// Predict 规则按顺序匹配，先命中者生效：
// stress/anxiety >= 7 为 stressed，其次 mood >= 7 为 happy，mood <= 3 为 sad，否则 neutral。
func (ThresholdPredictor) Predict(f Features) (Label, error) {
	mood, err := required("mood_today", f.MoodToday)
	if err != nil {
		return "", err
	}
	stress, err := required("stress_level", f.StressLevel)
	if err != nil {
		return "", err
	}
	anxiety, err := required("anxiety_level", f.AnxietyLevel)
	if err != nil {
		return "", err
	}

	switch {
	case stress >= stressedThreshold || anxiety >= stressedThreshold:
		return LabelStressed, nil
	case mood >= happyThreshold:
		return LabelHappy, nil
	case mood <= sadThreshold:
		return LabelSad, nil
	default:
		return LabelNeutral, nil
	}
}

func required(field string, v *float64) (float64, error) {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return 0, &PredictionError{Field: field}
	}
	return *v, nil
}

// PredictOrNeutral 预测失败时回退为 neutral，同时返回原始错误供调用方记录
func PredictOrNeutral(p Predictor, f Features) (Label, error) {
	label, err := p.Predict(f)
	if err != nil || !label.Valid() {
		return LabelNeutral, err
	}
	return label, nil
}
