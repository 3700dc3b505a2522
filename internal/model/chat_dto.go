package model

import "time"

// ========== Chat 相关 DTO ==========

// ChatRequest 对话请求
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatReplyData 对话回复
type ChatReplyData struct {
	Message string `json:"message"`
	Source  string `json:"source"`
	Note    string `json:"note,omitempty"`
}

// ChatMessageData 历史消息
type ChatMessageData struct {
	Role        string    `json:"role"`
	Content     string    `json:"content"`
	MoodContext *string   `json:"moodContext"`
	Timestamp   time.Time `json:"timestamp"`
}

// NewChatMessageData 从存储模型转换
func NewChatMessageData(m *ChatMessage) ChatMessageData {
	return ChatMessageData{
		Role:        string(m.Role),
		Content:     m.Content,
		MoodContext: m.MoodContext,
		Timestamp:   m.CreatedAt,
	}
}
