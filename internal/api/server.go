// Package api serves the event log over HTTP.
// Package api 通过 HTTP 提供事件日志服务。
package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cyberguard/cyberguard/internal/config"
	"github.com/cyberguard/cyberguard/internal/eventlog"
	"github.com/cyberguard/cyberguard/internal/rules"
	"github.com/cyberguard/cyberguard/internal/source"
	"github.com/cyberguard/cyberguard/internal/utils/logger"
	"github.com/cyberguard/cyberguard/pkg/storage"
)

const (
	defaultLimit    = 100
	maxBodySize     = 4 << 20
	collectInterval = 5 * time.Second
)

// Server holds the shared state behind every handler. Per-request view state
// (criteria, sort, paging) lives only in the request.
// Server 持有所有处理器共享的状态。
type Server struct {
	store   *eventlog.Store
	rules   *rules.Engine
	prefs   storage.Store
	web     config.WebConfig
	metrics config.MetricsConfig
	limiter *RateLimiter
	decoder source.Decoder
	server  *http.Server
}

// NewServer creates a server over store. prefs may be nil, which disables
// the preferences endpoints.
func NewServer(store *eventlog.Store, engine *rules.Engine, prefs storage.Store, cfg *config.GlobalConfig) *Server {
	s := &Server{
		store:   store,
		rules:   engine,
		prefs:   prefs,
		web:     cfg.Web,
		metrics: cfg.Metrics,
	}
	if s.rules == nil {
		s.rules = rules.NewEngine()
	}
	if s.web.MaxLimit <= 0 {
		s.web.MaxLimit = config.DefaultConfig().Web.MaxLimit
	}
	if s.web.RateLimit > 0 {
		s.limiter = NewRateLimiter(s.web.RateLimit, s.web.Burst)
	}
	return s
}

// Handler builds the full handler chain.
func (s *Server) Handler() http.Handler {
	api := http.NewServeMux()
	api.HandleFunc("/api/logs", s.handleLogs)
	api.HandleFunc("/api/summary", s.handleSummary)
	api.HandleFunc("/api/alerts", s.handleAlerts)
	api.HandleFunc("/api/export", s.handleExport)
	api.HandleFunc("/api/preferences", s.handlePreferences)
	if s.metrics.Enabled {
		path := s.metrics.Path
		if path == "" {
			path = "/metrics"
		}
		api.Handle(path, promhttp.Handler())
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/version", s.handleVersion)
	mux.HandleFunc("/api/login", s.handleLogin)
	mux.Handle("/", s.withAuth(api))

	return s.withRateLimit(mux)
}

// Addr returns host:port from the web config.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.web.Listen, strconv.Itoa(s.web.Port))
}

// Start serves until ctx is cancelled, then shuts down gracefully.
// Start 启动服务直到 ctx 被取消，然后优雅关闭。
func (s *Server) Start(ctx context.Context) error {
	log := logger.Get(ctx)
	s.server = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go s.collectStats(ctx, collectInterval)
	if s.limiter != nil {
		go s.limiter.StartCleanupWorker(ctx, time.Minute)
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("🚀 API server starting on http://%s", s.Addr())
		errCh <- s.server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Infof("🛑 API server shutting down")
		return s.server.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
