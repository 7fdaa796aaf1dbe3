package hub

import (
	"sync"

	"github.com/google/uuid"

	"newschat/internal/domain"
)

// subscriberBuffer is sized for a few in-flight turns; a subscriber that
// stops draining loses messages instead of blocking the publisher.
const subscriberBuffer = 16

// Subscriber receives every message published to one session.
type Subscriber struct {
	ID        uuid.UUID
	SessionID string
	C         chan domain.ChatMessage
}

// Hub fans chat messages out to per-session subscribers. Publishing to a
// session with no subscribers is a no-op.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]map[uuid.UUID]*Subscriber
}

func New() *Hub {
	return &Hub{sessions: make(map[string]map[uuid.UUID]*Subscriber)}
}

func (h *Hub) Subscribe(sessionID string) *Subscriber {
	sub := &Subscriber{
		ID:        uuid.New(),
		SessionID: sessionID,
		C:         make(chan domain.ChatMessage, subscriberBuffer),
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.sessions[sessionID] == nil {
		h.sessions[sessionID] = make(map[uuid.UUID]*Subscriber)
	}
	h.sessions[sessionID][sub.ID] = sub
	return sub
}

func (h *Hub) Unsubscribe(sub *Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs := h.sessions[sub.SessionID]
	if subs == nil {
		return
	}
	if _, ok := subs[sub.ID]; !ok {
		return
	}
	delete(subs, sub.ID)
	if len(subs) == 0 {
		delete(h.sessions, sub.SessionID)
	}
	close(sub.C)
}

// Publish delivers msg to every subscriber of the session without
// blocking; full subscriber buffers drop the message.
func (h *Hub) Publish(sessionID string, msg domain.ChatMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.sessions[sessionID] {
		select {
		case sub.C <- msg:
		default:
		}
	}
}
