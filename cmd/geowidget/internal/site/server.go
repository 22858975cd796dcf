// Package site serves the geowidget demo page together with the relay
// socket and a small JSON API for driving connected widgets.
package site

import (
	"encoding/json"
	"errors"
	"log/slog"
	"maps"
	"net/http"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/recera/geowidget/cmd/geowidget/internal/config"
	"github.com/recera/geowidget/internal/relay"
	"github.com/recera/geowidget/pkg/geowidget"
	"github.com/recera/geowidget/pkg/renderer/html"
)

const (
	// RelayPath is where pages open the relay socket
	RelayPath = "/relay"

	maxCommandBody = 64 << 10
)

// Server is the demo HTTP server
type Server struct {
	cfg      atomic.Pointer[config.Config]
	hub      *relay.Hub
	reg      *prometheus.Registry
	log      *slog.Logger
	debug    bool
	mux      *http.ServeMux
	requests *prometheus.CounterVec
	probe    geowidget.Handle
	limiter  *ipLimiter
}

// Option configures a Server
type Option func(*Server)

// WithLogger sets the server logger
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// WithDebug makes served pages enable client logging
func WithDebug(on bool) Option {
	return func(s *Server) { s.debug = on }
}

// WithCommandRate limits POST /api/commands per client address
func WithCommandRate(r rate.Limit, burst int) Option {
	return func(s *Server) { s.limiter = newIPLimiter(r, burst) }
}

// New creates a server for cfg
func New(cfg *config.Config, opts ...Option) *Server {
	s := &Server{
		reg: prometheus.NewRegistry(),
		log: slog.Default(),
		mux: http.NewServeMux(),

		limiter: newIPLimiter(10, 20),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.cfg.Store(cfg)

	s.reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	s.requests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "geowidget_http_requests_total",
			Help: "HTTP requests by route and status code",
		},
		[]string{"route", "code"},
	)
	s.reg.MustRegister(s.requests)

	history := 0
	if cfg.Server != nil {
		history = cfg.Server.History
	}
	s.hub = relay.NewHub(
		relay.WithLogger(s.log),
		relay.WithMetrics(relay.NewMetrics(s.reg)),
		relay.WithHistory(history),
	)

	// An unmounted widget never becomes ready, so its handle validates
	// commands without side effects.
	s.probe = geowidget.New(cfg.Props()).Handle()

	s.routes()
	return s
}

func (s *Server) routes() {
	s.mux.Handle("GET /{$}", s.instrument("page", http.HandlerFunc(s.handlePage)))
	s.mux.Handle("GET "+RelayPath, s.hub)
	s.mux.Handle("POST /api/commands", s.instrument("commands", s.limiter.wrap(http.HandlerFunc(s.handleCommand))))
	s.mux.Handle("GET /api/selections", s.instrument("selections", http.HandlerFunc(s.handleSelections)))
	s.mux.Handle("GET /metrics", promhttp.HandlerFor(s.reg, promhttp.HandlerOpts{}))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.HandlerFunc(s.handleStatic)))
}

// Handler returns the root handler
func (s *Server) Handler() http.Handler {
	return s.mux
}

// Hub returns the relay hub
func (s *Server) Hub() *relay.Hub {
	return s.hub
}

// Config returns the active configuration
func (s *Server) Config() *config.Config {
	return s.cfg.Load()
}

// SetConfig swaps the configuration and pushes the new widget props to every
// connected page. Connected pages only receive token, language and config;
// other widget fields take effect when a page is reloaded.
func (s *Server) SetConfig(cfg *config.Config) {
	prev := s.cfg.Swap(cfg)
	boot := BootFor(cfg, RelayPath, s.debug)
	n, err := s.hub.Broadcast(relay.Message{Type: relay.TypeProps, Props: &boot.Widget})
	if err != nil {
		s.log.Warn("site: props broadcast failed", "err", err)
		return
	}
	s.log.Info("site: configuration updated", "clients", n, "language", cfg.Language, "config", cfg.Config)
	if fields := reloadFields(prev, cfg); len(fields) > 0 && n > 0 {
		s.log.Warn("site: changes apply to connected pages on reload", "fields", fields, "clients", n)
	}
}

// reloadFields lists the changed settings PropsUpdate does not carry
func reloadFields(prev, next *config.Config) []string {
	if prev == nil {
		return nil
	}
	var fields []string
	if prev.Environment != next.Environment {
		fields = append(fields, "environment")
	}
	if !sameContainer(prev.Container, next.Container) {
		fields = append(fields, "container")
	}
	if !maps.Equal(prev.Attrs, next.Attrs) {
		fields = append(fields, "attrs")
	}
	return fields
}

func sameContainer(a, b *config.ContainerConfig) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Class == b.Class && maps.Equal(a.Attrs, b.Attrs)
}

// Close disconnects relay clients
func (s *Server) Close() {
	s.hub.Close()
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Load()
	page, err := Page(cfg, BootFor(cfg, RelayPath, s.debug))
	if err != nil {
		s.log.Error("site: build page", "err", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := html.RenderDocument(w, page); err != nil {
		s.log.Warn("site: render page", "err", err)
	}
}

type commandResponse struct {
	Delivered int    `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var cmd geowidget.Command
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBody))
	if err := dec.Decode(&cmd); err != nil {
		writeJSON(w, http.StatusBadRequest, commandResponse{Error: "invalid command body"})
		return
	}

	if err := geowidget.Dispatch(s.probe, cmd); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, geowidget.ErrUnknownMethod) {
			status = http.StatusNotFound
		}
		writeJSON(w, status, commandResponse{Error: err.Error()})
		return
	}

	n, err := s.hub.Broadcast(relay.Message{Type: relay.TypeCommand, Command: &cmd})
	if err != nil {
		writeJSON(w, http.StatusServiceUnavailable, commandResponse{Error: err.Error()})
		return
	}
	s.log.Debug("site: command relayed", "method", cmd.Method, "clients", n)
	writeJSON(w, http.StatusAccepted, commandResponse{Delivered: n})
}

func (s *Server) handleSelections(w http.ResponseWriter, r *http.Request) {
	recent := s.hub.Recent()
	if recent == nil {
		recent = []relay.Selection{}
	}
	writeJSON(w, http.StatusOK, recent)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"clients": s.hub.Clients(),
		"ready":   s.hub.ReadyClients(),
	})
}

func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	dir := "public"
	if cfg := s.cfg.Load(); cfg.Server != nil && cfg.Server.Public != "" {
		dir = cfg.Server.Public
	}
	if strings.HasSuffix(r.URL.Path, ".wasm") {
		w.Header().Set("Content-Type", "application/wasm")
	}
	w.Header().Set("Cache-Control", "no-cache")
	http.FileServer(http.Dir(dir)).ServeHTTP(w, r)
}

func (s *Server) instrument(route string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()
		next.ServeHTTP(rec, r)
		s.requests.WithLabelValues(route, strconv.Itoa(rec.status)).Inc()
		s.log.Debug("site: request", "route", route, "status", rec.status, "took", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
