// Package server exposes the dashboard HTTP API consumed by the browser
// frontend: listings, global stats, price history, analysis and the chat
// panel.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/analyst"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/chat"
	"github.com/NikolayViktorovich/crypto-dashboard/internal/market"
)

// Server holds the API handlers' dependencies.
type Server struct {
	svc     *market.Service
	analyst *analyst.Analyst
	chats   *chat.Store
	logger  *slog.Logger
}

// New creates the API server.
func New(svc *market.Service, an *analyst.Analyst, chats *chat.Store, logger *slog.Logger) *Server {
	return &Server{svc: svc, analyst: an, chats: chats, logger: logger}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/coins", s.handleCoins)
		r.Get("/global", s.handleGlobal)
		r.Get("/history", s.handleHistory)
		r.Post("/analysis", s.handleAnalysis)
		r.Post("/insight", s.handleInsight)
		r.Get("/chat/{session}", s.handleChatHistory)
		r.Post("/chat", s.handleChatMessage)
		r.Delete("/chat/{session}", s.handleChatClear)
	})

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
