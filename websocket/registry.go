package websocket

import (
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/google/uuid"
)

// Socket is the slice of a websocket connection the registry and fan-out
// need. *websocket.Conn satisfies it; tests substitute fakes.
type Socket interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Connection pairs one open socket with one authenticated user. Writes are
// serialized through a mutex because broadcasts originate from other users'
// handler goroutines.
type Connection struct {
	ID     uuid.UUID
	UserID uint

	sock    Socket
	writeMu sync.Mutex
}

func NewConnection(userID uint, sock Socket) *Connection {
	return &Connection{ID: uuid.New(), UserID: userID, sock: sock}
}

func (c *Connection) WriteJSON(v interface{}) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.sock.WriteJSON(v)
}

func (c *Connection) WriteText(data []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.sock.WriteMessage(websocket.TextMessage, data)
}

func (c *Connection) Close() error {
	return c.sock.Close()
}

// Registry tracks which live connections belong to which user and which
// conversations each connection is subscribed to. It is the only state shared
// across handler goroutines; all operations are synchronous and guarded by
// one lock. Presence derived from it is only valid inside this process —
// a horizontally scaled deployment has one independent registry per process.
type Registry struct {
	mu             sync.RWMutex
	byUser         map[uint]map[*Connection]struct{}
	byConversation map[uint]map[*Connection]struct{}
	subscriptions  map[*Connection]map[uint]struct{}
}

func NewRegistry() *Registry {
	return &Registry{
		byUser:         make(map[uint]map[*Connection]struct{}),
		byConversation: make(map[uint]map[*Connection]struct{}),
		subscriptions:  make(map[*Connection]map[uint]struct{}),
	}
}

// Register adds the connection to its user's set with an empty subscription
// set. Registering the same connection twice is a no-op.
func (r *Registry) Register(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.subscriptions[c]; ok {
		return
	}
	if r.byUser[c.UserID] == nil {
		r.byUser[c.UserID] = make(map[*Connection]struct{})
	}
	r.byUser[c.UserID][c] = struct{}{}
	r.subscriptions[c] = make(map[uint]struct{})
}

// Subscribe adds the connection to the conversation's fan-out set. It does not
// authorize; callers must check conversation membership first. Subscribing an
// unregistered connection or subscribing twice is a no-op.
func (r *Registry) Subscribe(c *Connection, conversationID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.subscriptions[c]
	if !ok {
		return
	}
	if _, ok := subs[conversationID]; ok {
		return
	}
	subs[conversationID] = struct{}{}
	if r.byConversation[conversationID] == nil {
		r.byConversation[conversationID] = make(map[*Connection]struct{})
	}
	r.byConversation[conversationID][c] = struct{}{}
}

func (r *Registry) Unsubscribe(c *Connection, conversationID uint) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unsubscribeLocked(c, conversationID)
}

func (r *Registry) unsubscribeLocked(c *Connection, conversationID uint) {
	if subs, ok := r.subscriptions[c]; ok {
		delete(subs, conversationID)
	}
	if conns, ok := r.byConversation[conversationID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(r.byConversation, conversationID)
		}
	}
}

// Unregister removes the connection from every set it participates in.
// Idempotent: a second call, or a call for a connection that was never
// registered, does nothing.
func (r *Registry) Unregister(c *Connection) {
	r.mu.Lock()
	defer r.mu.Unlock()

	subs, ok := r.subscriptions[c]
	if !ok {
		return
	}
	for conversationID := range subs {
		if conns, ok := r.byConversation[conversationID]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(r.byConversation, conversationID)
			}
		}
	}
	delete(r.subscriptions, c)

	if conns, ok := r.byUser[c.UserID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(r.byUser, c.UserID)
		}
	}
}

func (r *Registry) IsSubscribed(c *Connection, conversationID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	subs, ok := r.subscriptions[c]
	if !ok {
		return false
	}
	_, ok = subs[conversationID]
	return ok
}

// IsUserOnline reports whether the user has at least one live connection in
// this process.
func (r *Registry) IsUserOnline(userID uint) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID]) > 0
}

// ConversationConnections returns a snapshot of the conversation's fan-out
// set, safe to iterate while other handlers mutate the registry.
func (r *Registry) ConversationConnections(conversationID uint) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*Connection, 0, len(r.byConversation[conversationID]))
	for c := range r.byConversation[conversationID] {
		conns = append(conns, c)
	}
	return conns
}

func (r *Registry) UserConnections(userID uint) []*Connection {
	r.mu.RLock()
	defer r.mu.RUnlock()
	conns := make([]*Connection, 0, len(r.byUser[userID]))
	for c := range r.byUser[userID] {
		conns = append(conns, c)
	}
	return conns
}

// Clear drops all state at process shutdown, closing every socket.
func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for c := range r.subscriptions {
		_ = c.Close()
	}
	r.byUser = make(map[uint]map[*Connection]struct{})
	r.byConversation = make(map[uint]map[*Connection]struct{})
	r.subscriptions = make(map[*Connection]map[uint]struct{})
}
