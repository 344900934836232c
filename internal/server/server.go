package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ayusman/handhop/internal/capture"
	"github.com/ayusman/handhop/internal/game"
	"github.com/ayusman/handhop/internal/server/api"
	"github.com/ayusman/handhop/internal/store"
)

// Game is the round-control surface the server exposes over HTTP.
// *app.App satisfies it.
type Game interface {
	StateSource
	StartRound() error
	ResetRound()
	GameSnapshot() game.Snapshot
}

// Config holds the server configuration.
type Config struct {
	StaticDir string
	Store     *store.Store
	Camera    capture.Camera
	Game      Game
}

// Server represents the HTTP server for the HandHop application.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register session history API if Store is configured
	if s.config.Store != nil {
		sessionsHandler := api.NewSessionsHandler(s.config.Store)
		s.mux.Handle("/api/sessions", sessionsHandler)
		s.mux.Handle("/api/sessions/", sessionsHandler)
	}

	// Register camera stream endpoint if Camera is configured
	if s.config.Camera != nil {
		streamHandler := NewStreamHandler(s.config.Camera)
		s.mux.Handle("/api/stream", streamHandler)
	}

	// Register game state and round control endpoints if Game is configured
	if s.config.Game != nil {
		s.mux.Handle("/api/state", NewStateHandler(s.config.Game))
		s.mux.HandleFunc("/api/game", s.handleGame)
		s.mux.HandleFunc("/api/game/start", s.handleGameStart)
		s.mux.HandleFunc("/api/game/reset", s.handleGameReset)
	}

	// Serve static files if StaticDir is configured
	if s.config.StaticDir != "" {
		fs := http.FileServer(http.Dir(s.config.StaticDir))
		s.mux.Handle("/", fs)
	}
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	response := map[string]interface{}{
		"status": "ok",
		"uptime": uptime.String(),
	}

	writeJSON(w, http.StatusOK, response)
}

// handleGame handles GET requests to /api/game and returns the current
// game snapshot.
func (s *Server) handleGame(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, s.config.Game.GameSnapshot())
}

// handleGameStart handles POST requests to /api/game/start and begins a
// new round.
func (s *Server) handleGameStart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	if err := s.config.Game.StartRound(); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error": "Failed to start round",
		})
		return
	}

	writeJSON(w, http.StatusOK, s.config.Game.GameSnapshot())
}

// handleGameReset handles POST requests to /api/game/reset and abandons
// any running round.
func (s *Server) handleGameReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	s.config.Game.ResetRound()
	writeJSON(w, http.StatusOK, s.config.Game.GameSnapshot())
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
