// Package admin serves run history and a live feed over HTTP.
package admin

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"aimtrain/internal/logging"
	"aimtrain/internal/record"
	"aimtrain/internal/scoring"
	"aimtrain/internal/store"
)

// RunSource lists stored runs. *store.Store satisfies it.
type RunSource interface {
	Recent(limit int) ([]record.Record, error)
	Get(id string) (record.Record, error)
}

// HistorySource adapts an in-memory history to RunSource.
type HistorySource struct {
	History *record.History
}

// Recent returns up to limit runs, newest first.
func (h HistorySource) Recent(limit int) ([]record.Record, error) {
	runs := h.History.List()
	if limit > 0 && len(runs) > limit {
		runs = runs[:limit]
	}
	return runs, nil
}

// Get returns one run or store.ErrNotFound.
func (h HistorySource) Get(id string) (record.Record, error) {
	r, ok := h.History.Get(id)
	if !ok {
		return record.Record{}, store.ErrNotFound
	}
	return r, nil
}

// Server is the admin HTTP surface.
type Server struct {
	runs   RunSource
	hub    *Hub
	log    *slog.Logger
	router chi.Router
}

// NewServer builds the router. hub may be nil to disable the live feed.
func NewServer(runs RunSource, hub *Hub, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	s := &Server{runs: runs, hub: hub, log: log}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.handleHealth)
	r.Post("/score", s.handleScore)
	r.Route("/runs", func(r chi.Router) {
		r.Get("/", s.handleRuns)
		r.Get("/{id}", s.handleRun)
		r.Get("/{id}/heatmap", s.handleHeatmap)
	})
	if s.hub != nil {
		r.Get("/ws", s.handleWS)
	}
	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(_ net.Listener) context.Context { return logging.NewContext(context.Background(), s.log) },
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("admin server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("admin server shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	limit := record.DefaultCapacity
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = n
	}
	runs, err := s.runs.Recent(limit)
	if err != nil {
		s.log.Error("list runs failed", "err", err)
		writeError(w, http.StatusInternalServerError, "cannot list runs")
		return
	}
	if runs == nil {
		runs = []record.Record{}
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) lookup(w http.ResponseWriter, r *http.Request) (record.Record, bool) {
	id := chi.URLParam(r, "id")
	run, err := s.runs.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "run not found")
		return record.Record{}, false
	}
	if err != nil {
		s.log.Error("get run failed", "id", id, "err", err)
		writeError(w, http.StatusInternalServerError, "cannot load run")
		return record.Record{}, false
	}
	return run, true
}

func (s *Server) handleRun(w http.ResponseWriter, r *http.Request) {
	if run, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, run)
	}
}

func (s *Server) handleHeatmap(w http.ResponseWriter, r *http.Request) {
	if run, ok := s.lookup(w, r); ok {
		writeJSON(w, http.StatusOK, run.Heatmap)
	}
}

// ScoreResponse is the body returned by POST /score.
type ScoreResponse struct {
	scoring.Breakdown
	Rank  string `json:"rank"`
	Coins int    `json:"coins"`
}

func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	var in scoring.Input
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<16))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	mode, err := scoring.ParseMode(string(in.Mode))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	in.Mode = mode
	b := scoring.Compute(in)
	writeJSON(w, http.StatusOK, ScoreResponse{
		Breakdown: b,
		Rank:      scoring.Rank(b.FinalScore, b.BaseMax),
		Coins:     scoring.Coins(b.FinalScore),
	})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		s.log.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	c := s.hub.subscribe()
	defer s.hub.unsubscribe(c)

	ctx := conn.CloseRead(r.Context())
	c.writePump(ctx, conn)
	conn.Close(websocket.StatusNormalClosure, "")
}
