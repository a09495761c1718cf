package models

import (
	"time"
)

type AuditLog struct {
	ID           uint    `gorm:"primaryKey" json:"id"`
	UserID       *uint   `gorm:"index" json:"user_id"`
	Action       string  `gorm:"size:100;not null;index" json:"action"`
	ResourceType string  `gorm:"size:50;not null;index" json:"resource_type"`
	ResourceID   *uint   `json:"resource_id"`
	Status       string  `gorm:"size:20;not null" json:"status"` // success | failure
	StatusCode   *int    `json:"status_code"`
	ErrorMessage *string `gorm:"size:255" json:"error_message"`

	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}
