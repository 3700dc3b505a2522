package model

import (
	"time"
)

type BaseModel struct {
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
}
