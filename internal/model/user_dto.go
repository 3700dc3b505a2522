package model

import (
	"strconv"
	"time"
)

// ========== User 相关 DTO ==========

// UserProfileData 用户资料
type UserProfileData struct {
	ID              string    `json:"id"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	FullName        string    `json:"fullName"`
	Streak          int       `json:"streak"`
	LastCheckinDate *string   `json:"lastCheckinDate"`
	CreatedAt       time.Time `json:"createdAt"`
}

// NewUserProfileData 从存储模型转换
func NewUserProfileData(u *User) UserProfileData {
	return UserProfileData{
		ID:              strconv.FormatInt(u.PublicID, 10),
		Username:        u.Username,
		Email:           u.Email,
		FullName:        u.FullName,
		Streak:          u.Streak,
		LastCheckinDate: u.LastCheckinDate,
		CreatedAt:       u.CreatedAt,
	}
}

// UpdateProfileRequest 创建或更新资料
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"fullName"`
}
