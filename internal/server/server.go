package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/downvot/downvot/internal/config"
	"github.com/downvot/downvot/internal/dlservice"
	"github.com/downvot/downvot/internal/middleware"
	"github.com/downvot/downvot/internal/session"
)

var startedAt = time.Now()

// New builds the status/health HTTP server. It exposes read-only
// observability for the bot; no bot logic depends on it.
func New(store *session.Store, dl *dlservice.Client) *http.Server {
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(securityHeaders)
	r.Use(middleware.LoadCORS())
	r.Use(middleware.RateLimit)

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	r.Get("/api/status", func(w http.ResponseWriter, _ *http.Request) {
		respondJSON(w, http.StatusOK, map[string]interface{}{
			"version":       config.Version,
			"uptimeSeconds": int(time.Since(startedAt).Seconds()),
			"activePrompts": store.PromptCount(),
			"knownChats":    store.ChatCount(),
			"serviceUp":     dl.Ping(),
		})
	})

	return &http.Server{
		Addr:              ":" + config.StatusPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
		next.ServeHTTP(w, r)
	})
}

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
