// Package introspect implements the optional HTTP graph/metrics surface
// (spec section 1: out-of-core but implemented, not stubbed): a health/
// status JSON API, a Prometheus /metrics endpoint, and a live event-flow
// WebSocket feed, gated behind a bearer JWT. Grounded on the teacher's
// service.BaseService route wiring (Router() *mux.Router, promhttp.Handler
// mounted at /metrics).
package introspect

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wishbone-run/wishbone/internal/router"
)

// StatusSource is the subset of *router.Router the introspection page
// needs; declared as an interface so tests can supply a fake.
type StatusSource interface {
	Status() []router.ActorStatus
	Healthy() bool
}

// Server wraps a *mux.Router exposing /healthz, /status, /metrics, and a
// /ws live-status feed.
type Server struct {
	mux      *mux.Router
	source   StatusSource
	upgrader websocket.Upgrader
}

// New builds a Server bound to source. If auth is non-nil, every route
// except /healthz is gated behind it.
func New(source StatusSource, auth *Authenticator) *Server {
	s := &Server{
		mux:    mux.NewRouter(),
		source: source,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The introspection feed is same-origin-agnostic by design
			// (an operator dashboard served from anywhere); the bearer
			// JWT, not origin, is the access control.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	s.mux.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)

	protected := s.mux.NewRoute().Subrouter()
	if auth != nil {
		protected.Use(auth.Middleware)
	}
	protected.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	protected.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	protected.HandleFunc("/ws", s.handleWebSocket).Methods(http.MethodGet)

	return s
}

// Router exposes the underlying *mux.Router, the way the teacher's
// BaseService interface exposes Router() *mux.Router for the http.Server to
// bind to.
func (s *Server) Router() *mux.Router { return s.mux }

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if !s.source.Healthy() {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	_ = json.NewEncoder(w).Encode(map[string]bool{"healthy": s.source.Healthy()})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(s.source.Status())
}

// pushInterval is how often the /ws feed pushes a fresh status snapshot.
var pushInterval = time.Second

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for range ticker.C {
		if err := conn.WriteJSON(s.source.Status()); err != nil {
			return
		}
	}
}
