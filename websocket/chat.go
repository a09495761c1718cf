package websocket

import (
	"log"
	"strings"
	"time"

	"github.com/anjiri1684/estate_market/models"
	"github.com/anjiri1684/estate_market/services"
	websocketcontrib "github.com/gofiber/contrib/websocket"
)

// Close codes of the chat wire contract.
const (
	CloseUnauthorized = 4401 // token missing or invalid
	CloseForbidden    = 4403 // conversation access denied at connect time
	CloseNotFound     = 4404 // target not found at connect time
)

// Store is the persistence collaborator the protocol loop depends on.
type Store interface {
	Conversation(id uint) (*models.Conversation, error)
	UserConversationIDs(userID uint) ([]uint, error)
	SaveMessage(conversationID, senderID uint, content string) (*models.Message, error)
	MarkMessagesRead(ids []uint) error
}

// TokenVerifier resolves a bearer token to an authenticated identity.
type TokenVerifier interface {
	VerifyToken(token string) (*services.TokenClaims, error)
}

// EventRecorder is the fire-and-forget audit collaborator.
type EventRecorder interface {
	RecordEvent(action, resourceType string, resourceID, userID *uint, status string, statusCode int, errMessage string)
}

// ChatHandler runs the per-connection protocol: authenticate once, register,
// auto-subscribe, then handle frames strictly in receipt order until the
// socket goes away.
type ChatHandler struct {
	registry *Registry
	fanout   *Fanout
	store    Store
	verifier TokenVerifier
	audit    EventRecorder
}

func NewChatHandler(registry *Registry, fanout *Fanout, store Store, verifier TokenVerifier, audit EventRecorder) *ChatHandler {
	return &ChatHandler{
		registry: registry,
		fanout:   fanout,
		store:    store,
		verifier: verifier,
		audit:    audit,
	}
}

// ServeWs is the upgraded-connection entry point. The token travels as a
// query parameter because browsers cannot set handshake headers.
func (h *ChatHandler) ServeWs(c *websocketcontrib.Conn) {
	token := c.Query("token")
	if token == "" {
		h.audit.RecordEvent("chat.ws_connect", "chat", nil, nil, "failure", CloseUnauthorized, "missing_token")
		closeWith(c, CloseUnauthorized, "missing token")
		return
	}

	claims, err := h.verifier.VerifyToken(token)
	if err != nil {
		h.audit.RecordEvent("chat.ws_connect", "chat", nil, nil, "failure", CloseUnauthorized, "invalid_token")
		closeWith(c, CloseUnauthorized, "invalid token")
		return
	}

	conn := NewConnection(claims.UserID, c)
	h.registry.Register(conn)
	h.audit.RecordEvent("chat.ws_connect", "chat", nil, &conn.UserID, "success", 101, "")

	// Cleanup is unconditional: whatever ends the loop, the registry is
	// reconciled and the disconnect recorded before the socket closes.
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered chat loop panic for user %d: %v", conn.UserID, r)
		}
		h.registry.Unregister(conn)
		h.audit.RecordEvent("chat.ws_disconnect", "chat", nil, &conn.UserID, "success", websocketcontrib.CloseNormalClosure, "")
		_ = c.Close()
	}()

	h.bootstrap(conn)

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocketcontrib.IsCloseError(err, websocketcontrib.CloseGoingAway, websocketcontrib.CloseNormalClosure, websocketcontrib.CloseAbnormalClosure) {
				log.Printf("WebSocket closed for user %d: %v", conn.UserID, err)
			} else {
				log.Printf("WebSocket read error for user %d: %v", conn.UserID, err)
			}
			return
		}
		h.handleFrame(conn, data)
	}
}

// bootstrap subscribes the connection to every conversation its user
// participates in and confirms the subscription list to the client.
func (h *ChatHandler) bootstrap(conn *Connection) {
	ids, err := h.store.UserConversationIDs(conn.UserID)
	if err != nil {
		log.Printf("Failed to load conversations for user %d: %v", conn.UserID, err)
	}
	if ids == nil {
		ids = []uint{}
	}
	for _, id := range ids {
		h.registry.Subscribe(conn, id)
	}
	_ = conn.WriteJSON(ConnectedEvent{Type: "connected", ConversationIDs: ids, Count: len(ids)})
}

// handleFrame processes one inbound frame. Malformed payloads are swallowed;
// a single bad frame never terminates the connection.
func (h *ChatHandler) handleFrame(conn *Connection, data []byte) {
	frame, err := ParseFrame(data)
	if err != nil {
		log.Printf("Dropping malformed frame from user %d: %v", conn.UserID, err)
		return
	}

	switch f := frame.(type) {
	case InvalidFrame:
		h.sendError(conn, 0, f.Reason)
	case SubscribeFrame:
		h.handleSubscribe(conn, f)
	case UnsubscribeFrame:
		h.handleUnsubscribe(conn, f)
	case MessageFrame:
		h.handleMessage(conn, f)
	case ReadFrame:
		h.handleRead(conn, f)
	case IgnoredFrame:
		// forward-compatible no-op
	}
}

func (h *ChatHandler) handleSubscribe(conn *Connection, f SubscribeFrame) {
	conversation, err := h.store.Conversation(f.ConversationID)
	if err != nil {
		h.sendError(conn, f.ConversationID, "conversation_not_found")
		return
	}
	if !conversation.HasParticipant(conn.UserID) {
		h.sendError(conn, f.ConversationID, "forbidden")
		return
	}
	h.registry.Subscribe(conn, f.ConversationID)
	_ = conn.WriteJSON(SubscribedEvent{Type: "subscribed", ConversationID: f.ConversationID})
}

func (h *ChatHandler) handleUnsubscribe(conn *Connection, f UnsubscribeFrame) {
	h.registry.Unsubscribe(conn, f.ConversationID)
	_ = conn.WriteJSON(UnsubscribedEvent{Type: "unsubscribed", ConversationID: f.ConversationID})
}

func (h *ChatHandler) handleMessage(conn *Connection, f MessageFrame) {
	content := strings.TrimSpace(f.Content)
	if content == "" {
		// blank messages are dropped without a reply
		return
	}
	if !h.registry.IsSubscribed(conn, f.ConversationID) {
		h.sendError(conn, f.ConversationID, "not_subscribed")
		return
	}

	conversation, err := h.store.Conversation(f.ConversationID)
	if err != nil {
		h.sendError(conn, f.ConversationID, "conversation_not_found")
		return
	}
	if !conversation.HasParticipant(conn.UserID) {
		h.sendError(conn, f.ConversationID, "forbidden")
		return
	}

	message, err := h.store.SaveMessage(f.ConversationID, conn.UserID, content)
	if err != nil {
		log.Printf("Failed to save message from user %d in conversation %d: %v", conn.UserID, f.ConversationID, err)
		h.sendError(conn, f.ConversationID, "message_not_saved")
		return
	}

	h.audit.RecordEvent("chat.message_sent", "chat", &f.ConversationID, &conn.UserID, "success", 200, "")

	h.fanout.BroadcastToConversationExcept(f.ConversationID, conn, NewMessageEvent{
		Type:           "new_message",
		ConversationID: f.ConversationID,
		Message: MessageBody{
			ID:             message.ID,
			ConversationID: f.ConversationID,
			SenderID:       conn.UserID,
			Content:        content,
			Timestamp:      message.CreatedAt.UTC().Format(time.RFC3339),
		},
	})

	h.fanout.DeliverOrFallback(conversation, message)
}

func (h *ChatHandler) handleRead(conn *Connection, f ReadFrame) {
	if !h.registry.IsSubscribed(conn, f.ConversationID) {
		h.sendError(conn, f.ConversationID, "not_subscribed")
		return
	}
	if len(f.MessageIDs) == 0 {
		return
	}

	if err := h.store.MarkMessagesRead(f.MessageIDs); err != nil {
		log.Printf("Failed to mark messages read for user %d: %v", conn.UserID, err)
		h.sendError(conn, f.ConversationID, "read_not_saved")
		return
	}

	h.audit.RecordEvent("chat.read_receipt", "chat", &f.ConversationID, &conn.UserID, "success", 200, "")

	// read receipts go to every subscribed connection, the reader's included
	h.fanout.BroadcastToConversation(f.ConversationID, ReadReceiptEvent{
		Type:           "read_receipt",
		ConversationID: f.ConversationID,
		MessageIDs:     f.MessageIDs,
		By:             conn.UserID,
	})
}

func (h *ChatHandler) sendError(conn *Connection, conversationID uint, reason string) {
	_ = conn.WriteJSON(ErrorEvent{Type: "error", ConversationID: conversationID, Reason: reason})
}

func closeWith(c *websocketcontrib.Conn, code int, reason string) {
	_ = c.WriteMessage(websocketcontrib.CloseMessage, websocketcontrib.FormatCloseMessage(code, reason))
	_ = c.Close()
}
