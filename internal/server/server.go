// Package server exposes tables over HTTP and websockets. HTTP manages
// tables; a websocket joins one table as a seat or spectator, sends game
// requests and receives a fresh per-viewer snapshot after every change.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/lox/quantumholdem/internal/config"
	"github.com/lox/quantumholdem/internal/game"
	"github.com/lox/quantumholdem/internal/randutil"
	"github.com/lox/quantumholdem/internal/store"
)

// Server serves tables held in a store.
type Server struct {
	store    *store.Store
	cfg      *config.Config
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu    sync.RWMutex
	conns map[*Connection]struct{}
}

// New returns a server for st using the presets in cfg.
func New(st *store.Store, cfg *config.Config, logger *log.Logger) *Server {
	return &Server{
		store:  st,
		cfg:    cfg,
		logger: logger.WithPrefix("server"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
		conns: make(map[*Connection]struct{}),
	}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	r.Get("/ws", s.handleWebSocket)
	r.Route("/tables", func(r chi.Router) {
		r.Get("/", s.handleListTables)
		r.Post("/", s.handleCreateTable)
		r.Get("/{id}", s.handleGetTable)
		r.Delete("/{id}", s.handleDeleteTable)
	})
	return r
}

// Run serves on the configured address and reaps idle tables until ctx is
// cancelled.
func (s *Server) Run(ctx context.Context) error {
	idle, err := s.cfg.IdleTimeout()
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              s.cfg.ListenAddress(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.logger.Info("listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return s.store.RunReaper(ctx, idle, min(idle, time.Minute))
	})
	g.Go(func() error {
		<-ctx.Done()
		s.closeConnections()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, "OK")
}

// CreateTableRequest is the body of POST /tables.
type CreateTableRequest struct {
	Preset  string            `json:"preset,omitempty"`
	Players []game.PlayerInfo `json:"players"`
	Button  int               `json:"button,omitempty"`
	Seed    *int64            `json:"seed,omitempty"` // Deterministic shuffles; for testing only
}

// CreateTableResponse is returned by POST /tables.
type CreateTableResponse struct {
	ID     string `json:"id"`
	Preset string `json:"preset"`
}

func (s *Server) handleCreateTable(w http.ResponseWriter, r *http.Request) {
	var req CreateTableRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeInvalidMessage, err.Error())
		return
	}
	preset, ok := s.cfg.Preset(req.Preset)
	if !ok {
		writeError(w, http.StatusBadRequest, CodeNotFound, fmt.Sprintf("unknown preset %q", req.Preset))
		return
	}
	if len(req.Players) > preset.MaxSeats {
		writeError(w, http.StatusBadRequest, game.CategoryIllegalAction.String(),
			fmt.Sprintf("preset %s seats at most %d players", preset.Name, preset.MaxSeats))
		return
	}

	opts := append(preset.Options(), game.WithButton(req.Button), game.WithLogger(s.logger))
	if req.Seed != nil {
		opts = append(opts, game.WithRNG(randutil.New(*req.Seed)))
	}
	id, err := s.store.Create(preset.Name, req.Players, opts...)
	if err != nil {
		writeError(w, http.StatusBadRequest, game.Classify(err).String(), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, CreateTableResponse{ID: id, Preset: preset.Name})
}

func (s *Server) handleListTables(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.List())
}

func (s *Server) handleGetTable(w http.ResponseWriter, r *http.Request) {
	snap, err := s.store.Snapshot(chi.URLParam(r, "id"), game.Spectator)
	if err != nil {
		writeError(w, http.StatusNotFound, CodeNotFound, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleDeleteTable(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !s.store.Delete(id) {
		writeError(w, http.StatusNotFound, CodeNotFound, "table not found: "+id)
		return
	}
	s.forTable(id, func(c *Connection) { _ = c.Close() })
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	ws, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	c := newConnection(ws, s)
	s.mu.Lock()
	s.conns[c] = struct{}{}
	total := len(s.conns)
	s.mu.Unlock()
	s.logger.Info("client connected", "total", total)

	c.Start()
	go func() {
		<-c.Done()
		s.mu.Lock()
		delete(s.conns, c)
		total := len(s.conns)
		s.mu.Unlock()
		s.logger.Info("client disconnected", "player", c.PlayerID(), "total", total)
	}()
}

// forTable calls fn for every connection joined to tableID.
func (s *Server) forTable(tableID string, fn func(*Connection)) {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.conns))
	for c := range s.conns {
		if c.TableID() == tableID {
			conns = append(conns, c)
		}
	}
	s.mu.RUnlock()
	for _, c := range conns {
		fn(c)
	}
}

func (s *Server) closeConnections() {
	s.mu.RLock()
	conns := make([]*Connection, 0, len(s.conns))
	for c := range s.conns {
		conns = append(conns, c)
	}
	s.mu.RUnlock()
	for _, c := range conns {
		_ = c.Close()
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorData{Code: code, Message: message})
}
