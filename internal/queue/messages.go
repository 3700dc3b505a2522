package queue

const (
	// RoutingKeyEntryCreated 打卡写入成功事件
	RoutingKeyEntryCreated = "wellness.entry.created"
	// QueueAnalyticsInvalidation 统计缓存失效队列
	QueueAnalyticsInvalidation = "mindtrack.analytics.invalidate"
)
