package api

import (
	"context"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
)

// inboundFrame is what the frontend sends for each chat turn.
type inboundFrame struct {
	Message string `json:"message"`
}

// HandleWebSocket upgrades the connection, subscribes it to the session
// and runs every inbound message through a chat turn. Outbound frames
// are the session's ChatMessages as delivered by the hub.
func (h *Handler) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if sessionID == "" {
		http.Error(w, "sessionId is required", http.StatusBadRequest)
		return
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			_, ok := h.allowOrigins[origin]
			return ok
		},
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("websocket upgrade failed: %v", err)
		return
	}

	sub := h.hub.Subscribe(sessionID)
	log.Printf("client %s joined session %s", sub.ID, sessionID)

	// Writer: hub deliveries -> socket frames.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range sub.C {
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		}
	}()

	// Reader: socket frames -> chat turns. Each turn runs in its own
	// goroutine; turns on the same session are not ordered relative to
	// each other.
	for {
		var frame inboundFrame
		if err := conn.ReadJSON(&frame); err != nil {
			break
		}
		text := strings.TrimSpace(frame.Message)
		if text == "" {
			continue
		}
		go h.service.HandleTurn(context.Background(), sessionID, text)
	}

	h.hub.Unsubscribe(sub)
	<-done
	_ = conn.Close()
	log.Printf("client %s left session %s", sub.ID, sessionID)
}
