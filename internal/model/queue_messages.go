package model

// EntryCreatedMessage 打卡写入成功后发布的事件
type EntryCreatedMessage struct {
	MessageID     string `json:"message_id"` // 消息唯一ID，用于幂等性检查
	UserID        int64  `json:"user_id"`
	EntryID       int64  `json:"entry_id"`
	PredictedMood string `json:"predicted_mood"`
	OccurredAt    string `json:"occurred_at"`
}
