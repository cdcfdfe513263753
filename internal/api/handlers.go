package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
)

const (
	defaultUserTweetsLimit = 5
	defaultSearchLimit     = 10
	maxLimit               = 100
)

var searchProducts = map[string]bool{
	"Top":    true,
	"Latest": true,
	"Media":  true,
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message":   "Ticker Tweets API is running",
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// handleHealth reports degraded when no account in the pool is active.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	hasActive := s.pool.HasActive()

	status := "healthy"
	if !hasActive {
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":          status,
		"active_accounts": hasActive,
		"timestamp":       time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleUserTweets(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	limit, err := parseLimit(r, defaultUserTweetsLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid_limit", err.Error()))
		return
	}

	result, err := s.svc.UserTweets(r.Context(), username, limit)
	if err != nil {
		logrus.Errorf("user_tweets request for %s failed: %v", username, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := mux.Vars(r)["query"]

	limit, err := parseLimit(r, defaultSearchLimit)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid_limit", err.Error()))
		return
	}

	product := r.URL.Query().Get("product")
	if product == "" {
		product = "Top"
	}
	if !searchProducts[product] {
		writeJSON(w, http.StatusBadRequest, errorResponse("invalid_product",
			fmt.Sprintf("product must be Top, Latest or Media, got %q", product)))
		return
	}

	result, err := s.svc.Search(r.Context(), query, limit, product)
	if err != nil {
		logrus.Errorf("search request for %q failed: %v", query, err)
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"accounts":  s.accountInfos(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleAccounts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"accounts": s.accountInfos(),
	})
}

// accountInfos never includes credential material; Snapshot strips it.
func (s *Server) accountInfos() []accounts.Info {
	infos := s.pool.Snapshot()
	if infos == nil {
		infos = []accounts.Info{}
	}
	return infos
}

func parseLimit(r *http.Request, fallback int) (int, error) {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return fallback, nil
	}

	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer, got %q", raw)
	}
	if limit < 1 || limit > maxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d, got %d", maxLimit, limit)
	}
	return limit, nil
}
