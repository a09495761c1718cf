package models

import (
	"time"
)

const (
	ConversationKindPeer    = "peer"
	ConversationKindSupport = "support"
)

// Conversation has three fixed participant slots: the owner who opened it, an
// optional counterpart (typically the listing's seller) and an optional
// mediator (an admin pulled into support threads).
type Conversation struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	OwnerID       uint   `gorm:"not null;index" json:"owner_id"`
	CounterpartID *uint  `gorm:"index" json:"counterpart_id"`
	MediatorID    *uint  `gorm:"index" json:"mediator_id"`
	PropertyID    *uint  `json:"property_id"`
	Kind          string `gorm:"size:20;default:'peer'" json:"kind"` // peer | support

	Messages []Message `json:"messages,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

func (c *Conversation) HasParticipant(userID uint) bool {
	if userID == c.OwnerID {
		return true
	}
	if c.CounterpartID != nil && *c.CounterpartID == userID {
		return true
	}
	if c.MediatorID != nil && *c.MediatorID == userID {
		return true
	}
	return false
}

// RecipientFor resolves the single intended recipient of a message sent by
// senderID: the owner hears back from the counterpart (or the mediator when no
// counterpart is set), everyone else addresses the owner. The second return is
// false when the conversation has nobody on the other side yet.
func (c *Conversation) RecipientFor(senderID uint) (uint, bool) {
	if senderID == c.OwnerID {
		if c.CounterpartID != nil {
			return *c.CounterpartID, true
		}
		if c.MediatorID != nil {
			return *c.MediatorID, true
		}
		return 0, false
	}
	return c.OwnerID, true
}
