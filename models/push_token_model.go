package models

import (
	"time"
)

type UserPushToken struct {
	ID                  uint    `gorm:"primaryKey" json:"id"`
	UserID              uint    `gorm:"not null;unique" json:"user_id"`
	ExpoToken           *string `gorm:"size:255" json:"expo_token"`              // ExponentPushToken[...] (mobile)
	WebPushSubscription *string `gorm:"type:text" json:"web_push_subscription"` // JSON string of the browser subscription

	UpdatedAt time.Time `json:"updated_at"`
}
