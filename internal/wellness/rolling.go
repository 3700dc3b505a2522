package wellness

import "time"

// RollingWindowStart 返回滚动均值窗口的起点（now 往前 days 个 24 小时）
func RollingWindowStart(now time.Time, days int) time.Time {
	return now.Add(-time.Duration(days) * 24 * time.Hour)
}

// RollingAverage 计算窗口内历史记录的心情均值。
// 新记录在计算时尚未落库，所以 prior 不含本次提交；窗口为空时退化为本次提交的值。
func RollingAverage(prior []float64, current float64) float64 {
	if len(prior) == 0 {
		return current
	}

	var sum float64
	for _, m := range prior {
		sum += m
	}
	return sum / float64(len(prior))
}
