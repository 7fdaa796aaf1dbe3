package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"newschat/internal/chat"
	"newschat/internal/domain"
	"newschat/internal/hub"
)

// Handler serves the chat REST and WebSocket endpoints.
type Handler struct {
	service      *chat.Service
	hub          *hub.Hub
	redisActive  bool
	allowOrigins map[string]struct{}
}

func NewHandler(service *chat.Service, h *hub.Hub, redisActive bool, allowedOrigins []string) *Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = struct{}{}
	}
	return &Handler{service: service, hub: h, redisActive: redisActive, allowOrigins: origins}
}

// HandleHealth reports liveness and whether the durable session backend
// is active.
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	redisStatus := "disconnected"
	if h.redisActive {
		redisStatus = "connected"
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "OK",
		"message": "Server is running",
		"redis":   redisStatus,
	})
}

// HandleQuery answers a one-shot query outside any session.
func (h *Handler) HandleQuery(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Query string `json:"query"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Query) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query is required"})
		return
	}
	answer := h.service.Answer(r.Context(), req.Query)
	writeJSON(w, http.StatusOK, map[string]any{
		"success":  true,
		"query":    req.Query,
		"response": answer.Response,
		"sources":  answer.Sources,
	})
}

// HandleHistory returns the session transcript, oldest first. Retrieval
// problems degrade to an empty history rather than an error status.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	history, err := h.service.History(r.Context(), sessionID)
	if err != nil {
		log.Printf("error retrieving chat history: %v", err)
		history = nil
	}
	if history == nil {
		history = []domain.ChatMessage{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": history})
}

// HandleClearHistory deletes the session transcript.
func (h *Handler) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	if err := h.service.ClearHistory(r.Context(), sessionID); err != nil {
		log.Printf("error clearing chat history: %v", err)
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Chat history cleared"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("error encoding response: %v", err)
	}
}
