// Package api provides the HTTP and WebSocket surface of the chat server.
package api

import (
	"log"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// loggingMiddleware logs request details and latency.
func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		log.Printf("%s %s - %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// corsMiddleware adds CORS headers for the configured frontend origins.
func corsMiddleware(allowed []string) mux.MiddlewareFunc {
	origins := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		origins[o] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if origin := r.Header.Get("Origin"); origin != "" {
				if _, ok := origins[origin]; ok {
					w.Header().Set("Access-Control-Allow-Origin", origin)
					w.Header().Set("Access-Control-Allow-Credentials", "true")
				}
			}
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusOK)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// NewRouter creates and configures the HTTP router.
func NewRouter(handler *Handler, allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()

	r.Use(loggingMiddleware)
	r.Use(corsMiddleware(allowedOrigins))

	r.HandleFunc("/api/health", handler.HandleHealth).Methods("GET")
	r.HandleFunc("/api/chat/query", handler.HandleQuery).Methods("POST", "OPTIONS")
	r.HandleFunc("/api/chat/history/{sessionId}", handler.HandleHistory).Methods("GET")
	r.HandleFunc("/api/chat/history/{sessionId}", handler.HandleClearHistory).Methods("DELETE", "OPTIONS")
	r.HandleFunc("/ws/chat/{sessionId}", handler.HandleWebSocket).Methods("GET")

	return r
}
