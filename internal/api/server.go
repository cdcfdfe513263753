package api

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/tickerpulse/ticker-tweets-api/internal/accounts"
	"github.com/tickerpulse/ticker-tweets-api/internal/service"
)

// Server exposes the tweet-fetching pipeline over HTTP.
type Server struct {
	svc  *service.Service
	pool *accounts.Pool
}

// NewServer creates the API surface over the orchestration service and the
// account pool (for health and status reporting).
func NewServer(svc *service.Service, pool *accounts.Pool) *Server {
	return &Server{svc: svc, pool: pool}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	router := mux.NewRouter()

	router.HandleFunc("/", s.handleRoot).Methods("GET")
	router.HandleFunc("/health", s.handleHealth).Methods("GET")
	router.HandleFunc("/api/user_tweets/{username}", s.handleUserTweets).Methods("GET")
	router.HandleFunc("/api/search/{query}", s.handleSearch).Methods("GET")
	router.HandleFunc("/api/status", s.handleStatus).Methods("GET")
	router.HandleFunc("/api/accounts", s.handleAccounts).Methods("GET")

	return router
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}
