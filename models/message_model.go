package models

import (
	"time"
)

type Message struct {
	ID             uint   `gorm:"primaryKey" json:"id"`
	ConversationID uint   `gorm:"not null;index" json:"conversation_id"`
	SenderID       uint   `gorm:"not null" json:"sender_id"`
	Content        string `gorm:"type:text;not null" json:"content"`
	IsRead         bool   `gorm:"default:false" json:"is_read"`

	Sender       User         `gorm:"foreignKey:SenderID" json:"-"`
	Conversation Conversation `gorm:"foreignKey:ConversationID" json:"-"`

	CreatedAt time.Time `json:"created_at"`
}
