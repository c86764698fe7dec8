// Package devtools serves a recorder's events over HTTP and WebSocket.
//
// Routes:
//   - GET  /stats    recorder counters as JSON
//   - GET  /events   buffered records as JSON; ?limit=N keeps the newest N
//   - GET  /ws       live record stream, one JSON text message per record
//   - GET  /metrics  Prometheus metrics
//   - POST /reset    start a new recording
//   - POST /archive  upload the current recording through the Archiver
package devtools

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/observe"
)

// Config configures a devtools Server.
type Config struct {
	// Recorder supplies events. Required.
	Recorder *observe.Recorder

	// Metrics serves /metrics. Default: promhttp.Handler().
	Metrics http.Handler

	// Archiver stores traces for POST /archive. When nil the route
	// responds 503.
	Archiver Archiver

	// Logger receives server logs. Default: slog.Default().
	Logger *slog.Logger

	// WriteTimeout bounds each WebSocket write. Default: 10s.
	WriteTimeout time.Duration

	// PingInterval is how often idle WebSocket clients are pinged.
	// Default: 30s.
	PingInterval time.Duration

	// StreamBuffer is the per-client record buffer. Records are dropped
	// for clients that fall this far behind. Default: 256.
	StreamBuffer int

	// CheckOrigin validates WebSocket origins. Default: same origin only.
	CheckOrigin func(r *http.Request) bool

	// ShutdownTimeout bounds graceful shutdown. Default: 5s.
	ShutdownTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Metrics == nil {
		c.Metrics = promhttp.Handler()
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PingInterval <= 0 {
		c.PingInterval = 30 * time.Second
	}
	if c.StreamBuffer <= 0 {
		c.StreamBuffer = 256
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 5 * time.Second
	}
}

// Server is the devtools HTTP server.
type Server struct {
	config   Config
	router   chi.Router
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// New creates a Server. It panics if config.Recorder is nil.
func New(config Config) *Server {
	if config.Recorder == nil {
		panic("devtools: Config.Recorder is required")
	}
	config.applyDefaults()

	s := &Server{
		config: config,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		logger: config.Logger.With("component", "devtools"),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/stats", s.handleStats)
	r.Get("/events", s.handleEvents)
	r.Get("/ws", s.handleStream)
	r.Handle("/metrics", config.Metrics)
	r.Post("/reset", s.handleReset)
	r.Post("/archive", s.handleArchive)
	s.router = r

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is done, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return rerrors.New("D003").Wrap(err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	httpServer := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("devtools listening", "address", ln.Addr().String())
		errCh <- httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return rerrors.New("D003").Wrap(err)

	case <-ctx.Done():
		s.logger.Info("devtools shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.config.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("shutdown error", "error", err)
			return err
		}
		return nil
	}
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.config.Recorder.Stats())
}

func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	records := s.config.Recorder.Records()
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		if limit < len(records) {
			records = records[len(records)-limit:]
		}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	s.config.Recorder.Reset()
	writeJSON(w, http.StatusOK, map[string]string{"recording_id": s.config.Recorder.ID()})
}

func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	if s.config.Archiver == nil {
		writeError(w, http.StatusServiceUnavailable, rerrors.New("D001").Error())
		return
	}

	trace := s.config.Recorder.Snapshot()
	key, err := s.config.Archiver.Archive(r.Context(), trace)
	if err != nil {
		s.logger.Error("archive failed", "recording_id", trace.ID, "error", err)
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}

	s.logger.Info("trace archived", "recording_id", trace.ID, "key", key, "records", len(trace.Records))
	writeJSON(w, http.StatusOK, map[string]any{
		"key":          key,
		"recording_id": trace.ID,
		"records":      len(trace.Records),
	})
}

// handleStream upgrades to a WebSocket and writes each new record as a
// JSON text message until the client disconnects.
func (s *Server) handleStream(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	records, cancel := s.config.Recorder.Subscribe(s.config.StreamBuffer)
	defer cancel()

	// The read loop only notices the client going away.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ping := time.NewTicker(s.config.PingInterval)
	defer ping.Stop()

	for {
		select {
		case rec, ok := <-records:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(s.config.WriteTimeout))
			if err := conn.WriteJSON(rec); err != nil {
				s.logger.Debug("websocket write failed", "error", err)
				return
			}
		case <-ping.C:
			deadline := time.Now().Add(s.config.WriteTimeout)
			if err := conn.WriteControl(websocket.PingMessage, nil, deadline); err != nil {
				return
			}
		case <-closed:
			return
		case <-r.Context().Done():
			return
		}
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
