// Package server provides the HTTP JSON API for catalog lookups and cost
// comparisons.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/theirongolddev/payg/internal/calc"
	"github.com/theirongolddev/payg/internal/catalog"
	"github.com/theirongolddev/payg/internal/model"
	"github.com/theirongolddev/payg/internal/scenario"
	"github.com/theirongolddev/payg/internal/selection"
)

// Config controls the server runtime behavior.
type Config struct {
	Addr           string
	DefaultPrompts int
	// Mode applies to compare requests that do not set one.
	Mode         model.BucketMode
	MaxBodyBytes int64
}

// Status is served at /v1/status.
type Status struct {
	StartedAt     time.Time `json:"started_at"`
	Addr          string    `json:"addr"`
	DefaultMode   string    `json:"default_mode"`
	Requests      int64     `json:"requests"`
	Compares      int64     `json:"compares"`
	Failures      int64     `json:"failures"`
	LastCompareAt time.Time `json:"last_compare_at,omitzero"`
	LastError     string    `json:"last_error,omitempty"`
	Areas         int       `json:"areas"`
	Models        int       `json:"models"`
	Subscriptions int       `json:"subscriptions"`
}

// ErrorResponse is the body of every non-2xx JSON response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Service holds the catalog and request counters behind the HTTP API. Each
// compare request builds its own selection; only the counters are shared.
type Service struct {
	cfg Config
	cat catalog.Catalog
	log *slog.Logger

	mu            sync.RWMutex
	startedAt     time.Time
	requests      int64
	compares      int64
	failures      int64
	lastCompareAt time.Time
	lastError     string
}

// New returns a new service with the provided config.
func New(cfg Config, cat catalog.Catalog, logger *slog.Logger) *Service {
	if cfg.Addr == "" {
		cfg.Addr = "127.0.0.1:8787"
	}
	if cfg.DefaultPrompts <= 0 {
		cfg.DefaultPrompts = selection.DefaultPromptsPerDay
	}
	if cfg.Mode == "" {
		cfg.Mode = model.BucketOverwrite
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		cfg:       cfg,
		cat:       cat,
		log:       logger,
		startedAt: time.Now(),
	}
}

// Handler returns the API routes wrapped in logging and panic recovery.
func (s *Service) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /v1/catalog", s.handleCatalog)
	mux.HandleFunc("POST /v1/compare", s.handleCompare)
	mux.HandleFunc("GET /v1/status", s.handleStatus)

	return s.recoverer(s.logging(mux))
}

// Run serves HTTP until ctx is canceled, then shuts down gracefully.
func (s *Service) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	s.log.Info("payg api listening", "addr", s.cfg.Addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.log.Info("payg api shutting down")
		return server.Shutdown(shutdownCtx)
	case err := <-errCh:
		return fmt.Errorf("payg http server: %w", err)
	}
}

// Compare resolves a scenario against the catalog and runs the calculation.
func (s *Service) Compare(f scenario.File) (model.Result, error) {
	mode, err := f.BucketMode(s.cfg.Mode)
	if err != nil {
		return model.Result{}, err
	}
	sel, err := f.Resolve(s.cat, s.cfg.DefaultPrompts)
	if err != nil {
		return model.Result{}, err
	}
	return sel.Compute(calc.Options{Mode: mode})
}

func (s *Service) recordCompare(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.compares++
	s.lastCompareAt = time.Now()
	if err != nil {
		s.failures++
		s.lastError = err.Error()
	}
}

func (s *Service) countRequest() {
	s.mu.Lock()
	s.requests++
	s.mu.Unlock()
}

func (s *Service) snapshotStatus() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return Status{
		StartedAt:     s.startedAt,
		Addr:          s.cfg.Addr,
		DefaultMode:   string(s.cfg.Mode),
		Requests:      s.requests,
		Compares:      s.compares,
		Failures:      s.failures,
		LastCompareAt: s.lastCompareAt,
		LastError:     s.lastError,
		Areas:         len(s.cat.Areas),
		Models:        len(s.cat.Models),
		Subscriptions: len(s.cat.Subscriptions),
	}
}

func (s *Service) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Service) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.snapshotStatus())
}

func (s *Service) handleCatalog(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.cat)
}

func (s *Service) handleCompare(w http.ResponseWriter, r *http.Request) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		s.recordCompare(err)
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		writeJSON(w, status, ErrorResponse{Error: err.Error()})
		return
	}

	f, err := scenario.Decode(data, scenario.FormatJSON)
	if err != nil {
		s.recordCompare(err)
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	res, err := s.Compare(f)
	s.recordCompare(err)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
