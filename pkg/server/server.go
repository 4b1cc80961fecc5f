// Package server exposes the q-entities parser over HTTP.
//
// Routes:
//
//	POST /v1/parse?profile=&format=&key=&value=   body: q-entities text
//	GET  /healthz
//	GET  /metrics
//
// A successful parse answers 200 with the encoded document. A parse error answers
// 422 with a JSON body naming the error kind and its location.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/dzjyyds666/qent/parse/qent"
	"github.com/dzjyyds666/qent/pkg/config"
	"github.com/dzjyyds666/qent/pkg/export"
	"github.com/dzjyyds666/qent/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	cfg     config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
}

// New builds a server from cfg. A nil collector gets a private registry.
func New(cfg *config.Config, logger *slog.Logger, collector *metrics.Collector) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if collector == nil {
		collector = metrics.NewCollector("qent", nil)
	}
	return &Server{cfg: *cfg, logger: logger, metrics: collector}
}

// Handler returns the routed handler wrapped in the request middleware.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/parse", s.handleParse)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", s.metrics.Handler())

	var h http.Handler = mux
	h = s.logRequests(h)
	h = requestID(h)
	return h
}

// Run serves on the configured address until ctx is cancelled, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Serve.Addr)
	if err != nil {
		return fmt.Errorf("server: listen %s: %w", s.cfg.Serve.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("serving", "addr", ln.Addr().String(), "profile", s.cfg.Profile)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("shutting down", "timeout", shutdownTimeout.String())
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}

// =========================
// Handlers
// =========================

type errorBody struct {
	Error    string         `json:"error"`
	Kind     string         `json:"kind,omitempty"`
	Location *qent.Location `json:"location,omitempty"`
	Limit    int            `json:"limit,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(`{"status":"ok"}` + "\n"))
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	logger := loggerFrom(r.Context())
	q := r.URL.Query()

	format, err := export.ParseFormat(q.Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	cfg := s.cfg
	if p := q.Get("profile"); p != "" {
		cfg.Profile = p
	}
	opts, err := cfg.ParseOptions()
	if err != nil {
		writeError(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.Serve.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, errorBody{
				Error: fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit),
			})
			return
		}
		logger.Warn("read body", "error", err)
		writeError(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}

	start := time.Now()
	ents, err := qent.Parse(data, opts)
	s.metrics.Observe(len(data), time.Since(start), ents, err)
	if err != nil {
		var pe *qent.ParseError
		if !errors.As(err, &pe) {
			writeError(w, http.StatusInternalServerError, errorBody{Error: err.Error()})
			return
		}
		logger.Info("parse failed", "kind", pe.Kind.String(), "location", pe.Location.String())
		loc := pe.Location
		writeError(w, http.StatusUnprocessableEntity, errorBody{
			Error:    pe.Error(),
			Kind:     pe.Kind.String(),
			Location: &loc,
			Limit:    pe.Limit,
		})
		return
	}

	doc := export.NewDocument(ents)
	if key := q.Get("key"); key != "" {
		doc = doc.Filter(key, q.Get("value"))
	}

	var buf bytes.Buffer
	if err := export.Encode(&buf, format, doc); err != nil {
		logger.Error("encode document", "format", string(format), "error", err)
		writeError(w, http.StatusInternalServerError, errorBody{Error: "encode failed"})
		return
	}
	logger.Debug("parsed", "entities", ents.Len(), "key_values", ents.KeyValueCount(), "profile", cfg.Profile)

	w.Header().Set("Content-Type", format.ContentType())
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func writeError(w http.ResponseWriter, status int, body errorBody) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
