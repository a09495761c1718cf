package websocket

import (
	"encoding/json"
	"log"

	"github.com/anjiri1684/estate_market/models"
)

// Preview cap for fallback notification bodies.
const previewLimit = 200

// Notifier accepts fallback notification work without blocking. Errors stay
// on the notifier's side; the chat loop never observes them.
type Notifier interface {
	Enqueue(userID uint, title, body string, payload map[string]interface{})
}

// Fanout delivers events to the live connections of a conversation or user
// and decides between a delivered ack and an offline fallback dispatch.
type Fanout struct {
	registry *Registry
	notifier Notifier
}

func NewFanout(registry *Registry, notifier Notifier) *Fanout {
	return &Fanout{registry: registry, notifier: notifier}
}

func (f *Fanout) BroadcastToConversation(conversationID uint, event interface{}) {
	f.send(f.registry.ConversationConnections(conversationID), nil, event)
}

// BroadcastToConversationExcept skips one connection, used so a sender's own
// socket does not echo its new_message back.
func (f *Fanout) BroadcastToConversationExcept(conversationID uint, skip *Connection, event interface{}) {
	f.send(f.registry.ConversationConnections(conversationID), skip, event)
}

func (f *Fanout) SendToUser(userID uint, event interface{}) {
	f.send(f.registry.UserConnections(userID), nil, event)
}

// send serializes the event once and writes it to every connection. A failed
// write counts as an implicit disconnect: that connection is unregistered and
// closed while delivery to the rest continues.
func (f *Fanout) send(conns []*Connection, skip *Connection, event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		log.Printf("Failed to encode event: %v", err)
		return
	}
	for _, conn := range conns {
		if conn == skip {
			continue
		}
		if err := conn.WriteText(data); err != nil {
			log.Printf("Dropping connection %s of user %d after failed send: %v", conn.ID, conn.UserID, err)
			f.registry.Unregister(conn)
			_ = conn.Close()
		}
	}
}

// DeliverOrFallback acknowledges delivery to the message's intended recipient
// when they are online in this process, otherwise hands the notifier a
// truncated preview plus identifiers the client can deep-link with. The
// dispatch is fire-and-forget; the sender's reply never waits on it.
func (f *Fanout) DeliverOrFallback(conversation *models.Conversation, message *models.Message) {
	recipientID, ok := conversation.RecipientFor(message.SenderID)
	if !ok {
		return
	}

	if f.registry.IsUserOnline(recipientID) {
		f.SendToUser(recipientID, DeliveredEvent{
			Type:           "delivered",
			ConversationID: conversation.ID,
			MessageID:      message.ID,
			To:             recipientID,
		})
		return
	}

	f.notifier.Enqueue(recipientID, "New message", preview(message.Content), map[string]interface{}{
		"conversation_id": conversation.ID,
		"message_id":      message.ID,
	})
}

func preview(content string) string {
	runes := []rune(content)
	if len(runes) < previewLimit {
		return content
	}
	return string(runes[:previewLimit-3]) + "..."
}
