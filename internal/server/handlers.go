package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/NikolayViktorovich/crypto-dashboard/internal/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"provider": s.svc.ProviderName(),
	})
}

func (s *Server) handleCoins(w http.ResponseWriter, r *http.Request) {
	coins, _, err := s.svc.Overview(r.Context())
	if err != nil {
		s.logger.Error("coins fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch coins")
		return
	}
	writeJSON(w, http.StatusOK, coins)
}

func (s *Server) handleGlobal(w http.ResponseWriter, r *http.Request) {
	_, global, err := s.svc.Overview(r.Context())
	if err != nil {
		s.logger.Error("global fetch failed", "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch global stats")
		return
	}
	if global == nil {
		writeError(w, http.StatusBadGateway, "global stats unavailable")
		return
	}
	writeJSON(w, http.StatusOK, global)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	coinID := r.URL.Query().Get("id")
	if coinID == "" {
		writeError(w, http.StatusBadRequest, "coin id is required")
		return
	}
	days := 0
	if v := r.URL.Query().Get("days"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			days = n
		}
	}
	series, err := s.svc.HistoryWindow(r.Context(), coinID, days)
	if err != nil {
		s.logger.Error("history fetch failed", "coin", coinID, "error", err)
		writeError(w, http.StatusBadGateway, "failed to fetch price history")
		return
	}
	writeJSON(w, http.StatusOK, series)
}

type analysisRequest struct {
	CoinID string `json:"coin_id"`
}

func (s *Server) handleAnalysis(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CoinID == "" {
		writeError(w, http.StatusBadRequest, "coin_id is required")
		return
	}

	coin, err := s.svc.Coin(r.Context(), req.CoinID)
	if err != nil {
		writeError(w, http.StatusNotFound, "coin not found: "+req.CoinID)
		return
	}

	// A failed history fetch degrades to an empty series: the indicator math
	// has defined defaults and the analysis must still complete.
	history, err := s.svc.History(r.Context(), req.CoinID)
	if err != nil {
		s.logger.Warn("history unavailable for analysis", "coin", req.CoinID, "error", err)
		history = nil
	}

	prediction := s.analyst.Analyze(r.Context(), coin, history, s.svc.MarketSummary())
	writeJSON(w, http.StatusOK, prediction)
}

func (s *Server) handleInsight(w http.ResponseWriter, r *http.Request) {
	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CoinID == "" {
		writeError(w, http.StatusBadRequest, "coin_id is required")
		return
	}

	coin, err := s.svc.Coin(r.Context(), req.CoinID)
	if err != nil {
		writeError(w, http.StatusNotFound, "coin not found: "+req.CoinID)
		return
	}

	text, fromFallback := s.analyst.QuickInsight(r.Context(), coin)
	writeJSON(w, http.StatusOK, map[string]any{
		"analysis": text,
		"fallback": fromFallback,
	})
}

type chatRequest struct {
	SessionID string `json:"session_id"`
	CoinID    string `json:"coin_id"`
	Message   string `json:"message"`
}

func (s *Server) handleChatMessage(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" || req.CoinID == "" || req.Message == "" {
		writeError(w, http.StatusBadRequest, "session_id, coin_id and message are required")
		return
	}

	coin, err := s.svc.Coin(r.Context(), req.CoinID)
	if err != nil {
		writeError(w, http.StatusNotFound, "coin not found: "+req.CoinID)
		return
	}

	s.chats.Append(req.SessionID, model.RoleUser, req.Message)
	text, fromFallback := s.analyst.QuickInsight(r.Context(), coin)
	reply := s.chats.Append(req.SessionID, model.RoleAssistant, text)

	writeJSON(w, http.StatusOK, map[string]any{
		"message":  reply,
		"fallback": fromFallback,
	})
}

func (s *Server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	session := chi.URLParam(r, "session")
	messages := s.chats.Messages(session)

	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	if limit > 0 && len(messages) > limit {
		messages = messages[len(messages)-limit:]
	}
	writeJSON(w, http.StatusOK, messages)
}

func (s *Server) handleChatClear(w http.ResponseWriter, r *http.Request) {
	s.chats.Clear(chi.URLParam(r, "session"))
	w.WriteHeader(http.StatusNoContent)
}
