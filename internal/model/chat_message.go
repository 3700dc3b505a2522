package model

// ChatRole 对话角色
type ChatRole string

const (
	ChatRoleUser      ChatRole = "user"
	ChatRoleAssistant ChatRole = "assistant"
)

// ChatMessage 对话历史中的一条消息，只追加
type ChatMessage struct {
	BaseModel
	UserID      int64    `gorm:"not null;index:idx_chat_messages_user" json:"user_id"`
	Role        ChatRole `gorm:"type:varchar(16);not null" json:"role"`
	Content     string   `gorm:"type:text;not null" json:"content"`
	MoodContext *string  `gorm:"type:varchar(16)" json:"mood_context"`
}

// TableName 指定表名
func (ChatMessage) TableName() string {
	return "chat_messages"
}
