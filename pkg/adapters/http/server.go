// Package http serves a devtools API over a store: state inspection, the
// action list, dispatch, a server-sent event stream of changes and
// optionally Prometheus metrics.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/aretw0/oodux"
	"github.com/aretw0/oodux/internal/logging"
	"github.com/aretw0/oodux/pkg/domain"
	"github.com/aretw0/oodux/pkg/persistence"
	"github.com/aretw0/oodux/pkg/schema"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

//go:generate go tool oapi-codegen -package http -generate types,chi-server,spec -o api.gen.go openapi.yaml

// Server implements the generated ServerInterface over a Store.
type Server struct {
	Store   Store
	Streams *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
}

var _ ServerInterface = (*Server)(nil)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithMetrics serves the metrics of g on GET /metrics. Without it the route
// answers 404.
func WithMetrics(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewServer creates a server and starts forwarding store changes to the
// event stream. Close stops the forwarding.
func NewServer(store Store, opts ...Option) *Server {
	s := &Server{
		Store:   store,
		Streams: NewStreamManager(),
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams.logger = s.logger
	s.Streams.stop = store.Watch(s.broadcast)
	return s
}

// NewHandler creates a server for store and returns its routes.
func NewHandler(store Store, opts ...Option) http.Handler {
	return NewServer(store, opts...).Routes()
}

// Close detaches the server from the store.
func (s *Server) Close() {
	s.Streams.stop()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	return enableCORS(s.router())
}

func (s *Server) router() *chi.Mux {
	r := chi.NewRouter()
	HandlerFromMux(s, r)
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "oodux-devtools",
		"version": strings.TrimSpace(oodux.Version),
	})
}

// GetState handles GET /state.
func (s *Server) GetState(w http.ResponseWriter, r *http.Request) {
	s.writeState(w)
}

// GetActions handles GET /actions.
func (s *Server) GetActions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Store.Descriptors())
}

// PostAction handles POST /actions/{name}. An empty body dispatches
// without payload.
func (s *Server) PostAction(w http.ResponseWriter, r *http.Request, name string) {
	var body PostActionJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if err := s.Store.Dispatch(name, deref(body.Data)); err != nil {
		s.logger.Warn("dispatch rejected", "action", name, "error", err)
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeState(w)
}

// PostDispatch handles POST /dispatch with a raw action.
func (s *Server) PostDispatch(w http.ResponseWriter, r *http.Request) {
	var body PostDispatchJSONRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}
	if body.Type == "" {
		s.writeError(w, http.StatusBadRequest, errors.New("action type is required"))
		return
	}
	action := domain.Action{Type: body.Type, Data: deref(body.Data), Target: deref(body.Target)}

	if err := s.Store.DispatchAction(action); err != nil {
		s.logger.Warn("dispatch rejected", "action", action.Type, "error", err)
		s.writeError(w, statusOf(err), err)
		return
	}
	s.writeState(w)
}

// SubscribeEvents handles GET /events (SSE). The optional watch parameter
// is a comma separated list of keys; events touching none of them are
// skipped.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request, params SubscribeEventsParams) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming not supported", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var watch map[string]bool
	if params.Watch != nil && *params.Watch != "" {
		watch = make(map[string]bool)
		for _, key := range strings.Split(*params.Watch, ",") {
			watch[strings.TrimSpace(key)] = true
		}
	}

	ch, cancel := s.Streams.Subscribe()
	defer cancel()

	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE client disconnected")
			return
		case ev, ok := <-ch:
			if !ok {
				return
			}
			if watch != nil && !touches(ev, watch) {
				continue
			}
			data, err := json.Marshal(ev)
			if err != nil {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			flusher.Flush()
		}
	}
}

// GetMetrics handles GET /metrics.
func (s *Server) GetMetrics(w http.ResponseWriter, r *http.Request) {
	if s.gatherer == nil {
		http.NotFound(w, r)
		return
	}
	promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}).ServeHTTP(w, r)
}

func deref[T any](p *T) T {
	var zero T
	if p == nil {
		return zero
	}
	return *p
}

func touches(ev ChangeEvent, watch map[string]bool) bool {
	for _, key := range ev.Changed {
		if watch[key] {
			return true
		}
	}
	return false
}

func (s *Server) broadcast(prev, next any) {
	changed := schema.Diff(prev, next)
	if len(changed) == 0 {
		return
	}
	s.Streams.Broadcast(ChangeEvent{Revision: int64(s.Store.Revision()), Changed: changed})
}

func (s *Server) writeState(w http.ResponseWriter) {
	state, err := persistence.Encode(s.Store.State())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, StateResponse{Revision: int64(s.Store.Revision()), State: state})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "error", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.writeJSON(w, status, Error{Error: err.Error()})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrUnknownAction):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, domain.ErrInvalidPayload), errors.Is(err, domain.ErrArityExceeded):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotInitialized):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

// StreamManager fans change events out to SSE connections.
type StreamManager struct {
	mu          sync.RWMutex
	subscribers map[chan ChangeEvent]struct{}
	logger      *slog.Logger
	stop        func()
}

// NewStreamManager creates an empty manager.
func NewStreamManager() *StreamManager {
	return &StreamManager{
		subscribers: make(map[chan ChangeEvent]struct{}),
		logger:      logging.NewNop(),
		stop:        func() {},
	}
}

// Subscribe registers a buffered channel and returns it with its cancel
// function.
func (sm *StreamManager) Subscribe() (<-chan ChangeEvent, func()) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	ch := make(chan ChangeEvent, 10)
	sm.subscribers[ch] = struct{}{}

	return ch, func() {
		sm.mu.Lock()
		defer sm.mu.Unlock()
		if _, ok := sm.subscribers[ch]; ok {
			delete(sm.subscribers, ch)
			close(ch)
		}
	}
}

// Broadcast sends ev to every subscriber. Slow clients lose events.
func (sm *StreamManager) Broadcast(ev ChangeEvent) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	for ch := range sm.subscribers {
		select {
		case ch <- ev:
		default:
			sm.logger.Warn("SSE: client buffer full, dropping event", "revision", ev.Revision)
		}
	}
}

// Len returns the number of subscribers.
func (sm *StreamManager) Len() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.subscribers)
}
