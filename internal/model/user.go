package model

// User 用户模型，PublicID 与 token 中的 uid 一致
type User struct {
	BaseModel
	PublicID int64  `gorm:"uniqueIndex;not null" json:"public_id"`
	Username string `gorm:"uniqueIndex;type:varchar(32);not null" json:"username"`
	Email    string `gorm:"uniqueIndex;type:varchar(255);not null" json:"email"`
	FullName string `gorm:"type:varchar(128);not null;default:''" json:"full_name"`

	// 连续打卡状态，只由打卡写入链路修改
	Streak          int     `gorm:"not null;default:0;check:chk_users_streak,streak >= 0" json:"streak"`
	LastCheckinDate *string `gorm:"type:varchar(10)" json:"last_checkin_date"` // YYYY-MM-DD，按配置时区
}

// TableName 指定表名
func (User) TableName() string {
	return "users"
}
