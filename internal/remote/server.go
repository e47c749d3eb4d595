// ABOUTME: WebSocket status/control endpoint for the projector
// ABOUTME: Pushes state transitions to subscribers and accepts trigger commands
package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/Bwooce/soundprojector/internal/engine"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Config holds remote endpoint configuration.
type Config struct {
	// Listen is the HTTP listen address, e.g. ":8927". Empty disables the
	// endpoint entirely.
	Listen string
	// Name is the advertised service name.
	Name string
	// Advertise enables mDNS advertisement.
	Advertise bool
}

// Command is a client-to-server control message.
type Command struct {
	Type string `json:"type"`
}

// Server exposes engine status over WebSocket and routes trigger commands
// into the engine's main loop. Triggers follow the same start-if-inactive
// rule as the hardware line; a command during playback is swallowed.
type Server struct {
	config Config
	engine *engine.Engine

	upgrader   websocket.Upgrader
	httpServer *http.Server

	subscribers map[string]chan engine.Status
	mu          sync.Mutex
}

// New creates a remote server for the given engine.
func New(config Config, eng *engine.Engine) *Server {
	return &Server{
		config: config,
		engine: eng,
		upgrader: websocket.Upgrader{
			// Trusted local networks only; no origin allowlist.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		subscribers: make(map[string]chan engine.Status),
	}
}

// Start begins serving. Returns immediately; the listener runs until Stop.
func (s *Server) Start() error {
	if s.config.Listen == "" {
		return nil
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/projector", s.handleWS)

	s.httpServer = &http.Server{
		Addr:    s.config.Listen,
		Handler: mux,
	}

	go func() {
		log.Printf("Remote endpoint listening on %s", s.config.Listen)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("Remote endpoint error: %v", err)
		}
	}()

	if s.config.Advertise {
		if err := s.advertise(); err != nil {
			// Advertisement is best-effort; the endpoint still works by
			// address.
			log.Printf("mDNS advertisement failed: %v", err)
		}
	}

	return nil
}

// Broadcast pushes a status snapshot to every subscriber. Called from the
// engine's OnStateChange in the main loop; sends never block.
func (s *Server) Broadcast(st engine.Status) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subscribers {
		select {
		case ch <- st:
		default:
		}
	}
}

// handleWS upgrades a connection and serves it.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}

	id := uuid.New().String()
	updates := make(chan engine.Status, 8)

	s.mu.Lock()
	s.subscribers[id] = updates
	s.mu.Unlock()

	log.Printf("Remote subscriber connected: %s (%s)", id, r.RemoteAddr)

	defer func() {
		s.mu.Lock()
		if ch, ok := s.subscribers[id]; ok {
			delete(s.subscribers, id)
			close(ch)
		}
		s.mu.Unlock()
		conn.Close()
		log.Printf("Remote subscriber disconnected: %s", id)
	}()

	// All writes go through the updates channel; the websocket does not
	// allow concurrent writers.
	updates <- s.engine.Status()

	go func() {
		for st := range updates {
			if err := conn.WriteJSON(st); err != nil {
				return
			}
		}
	}()

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			log.Printf("Bad remote command from %s: %v", id, err)
			continue
		}

		switch cmd.Type {
		case "trigger":
			s.engine.RequestPlayback("remote " + id)
		case "status":
			select {
			case updates <- s.engine.Status():
			default:
			}
		default:
			log.Printf("Unknown remote command %q from %s", cmd.Type, id)
		}
	}
}

// Stop shuts the listener down.
func (s *Server) Stop() {
	if s.httpServer == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		log.Printf("Remote endpoint shutdown: %v", err)
	}

	s.mu.Lock()
	for id, ch := range s.subscribers {
		close(ch)
		delete(s.subscribers, id)
	}
	s.mu.Unlock()
}

// port extracts the numeric port from the listen address.
func (s *Server) port() (int, error) {
	var port int
	if _, err := fmt.Sscanf(s.config.Listen, ":%d", &port); err != nil {
		return 0, fmt.Errorf("cannot advertise listen address %q: %w", s.config.Listen, err)
	}
	return port, nil
}
