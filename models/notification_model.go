package models

import (
	"time"
)

type Notification struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	UserID  uint   `gorm:"not null;index" json:"user_id"`
	Title   string `gorm:"size:255" json:"title"`
	Body    string `gorm:"type:text" json:"body"`
	Payload string `gorm:"type:text" json:"payload"` // opaque JSON string
	IsRead  bool   `gorm:"default:false" json:"is_read"`

	CreatedAt time.Time `json:"created_at"`
}
