// Package api exposes a debug HTTP server for inspecting a running
// picker session. It is off by default and only bound when a debug
// address is configured; the picker's real output stays on stdout.
package api

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/bryanchriswhite/snaploupe/internal/config"
	"github.com/bryanchriswhite/snaploupe/internal/geometry"
	"github.com/bryanchriswhite/snaploupe/internal/logger"
)

// StateView is the JSON-safe projection of session state published to
// the debug API. The event loop builds one per tick; the server never
// touches session internals directly.
type StateView struct {
	Mode       string         `json:"mode"`
	Generation uint64         `json:"generation"`
	Cursor     geometry.Point `json:"cursor"`
	MonitorID  uint32         `json:"monitor_id"`
	Color      string         `json:"color,omitempty"`
	HasFrozen  bool           `json:"has_frozen"`
	AltActive  bool           `json:"alt_active"`
	Selection  *geometry.Rect `json:"selection,omitempty"`
	Windows    int            `json:"windows"`
	HUD        []string       `json:"hud"`
	Error      string         `json:"error,omitempty"`
}

// Server represents the debug HTTP server
type Server struct {
	router    *mux.Router
	configMgr *config.Manager
	monitors  []geometry.Monitor
	upgrader  websocket.Upgrader

	mu    sync.RWMutex
	state StateView
	subs  map[chan StateView]struct{}
}

// NewServer creates a new debug server
func NewServer(configMgr *config.Manager, monitors []geometry.Monitor) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		configMgr: configMgr,
		monitors:  monitors,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // debug server, local use only
			},
		},
		subs: make(map[chan StateView]struct{}),
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/state", s.handleGetState).Methods("GET")
	api.HandleFunc("/state/stream", s.handleStateStream)
	api.HandleFunc("/monitors", s.handleGetMonitors).Methods("GET")
	api.HandleFunc("/config", s.handleGetConfig).Methods("GET")
	api.HandleFunc("/config", s.handleUpdateConfig).Methods("PUT")
	api.HandleFunc("/health", s.handleHealth).Methods("GET")
}

// Start starts the HTTP server on the given address. It blocks, so the
// host runs it on its own goroutine.
func (s *Server) Start(addr string) error {
	logger.WithComponent("api").Info().
		Str("addr", addr).
		Msg("Starting debug server")
	return http.ListenAndServe(addr, s.router)
}

// Publish records the latest session state and fans it out to stream
// subscribers. Slow subscribers miss intermediate states rather than
// back-pressuring the event loop.
func (s *Server) Publish(view StateView) {
	s.mu.Lock()
	s.state = view
	for ch := range s.subs {
		select {
		case ch <- view:
		default:
		}
	}
	s.mu.Unlock()
}

func (s *Server) subscribe() chan StateView {
	ch := make(chan StateView, 8)
	s.mu.Lock()
	s.subs[ch] = struct{}{}
	s.mu.Unlock()
	return ch
}

func (s *Server) unsubscribe(ch chan StateView) {
	s.mu.Lock()
	delete(s.subs, ch)
	s.mu.Unlock()
}

// HTTP Handlers

func (s *Server) handleGetState(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	view := s.state
	s.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(view)
}

func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.WithComponent("api").Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	updates := s.subscribe()
	defer s.unsubscribe(updates)

	s.mu.RLock()
	current := s.state
	s.mu.RUnlock()
	if err := conn.WriteJSON(current); err != nil {
		return
	}

	for view := range updates {
		if err := conn.WriteJSON(view); err != nil {
			return
		}
	}
}

func (s *Server) handleGetMonitors(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.monitors)
}

func (s *Server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.configMgr.Get())
}

func (s *Server) handleUpdateConfig(w http.ResponseWriter, r *http.Request) {
	var cfg config.Config
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := s.configMgr.Update(&cfg); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "success"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "healthy"})
}
