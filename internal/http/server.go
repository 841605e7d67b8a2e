package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"spottheai/internal/core"
	"spottheai/internal/flood"
	"spottheai/internal/i18n"
)

const (
	serviceName = "spottheai"
	// maxRequestBodySize bounds API request bodies
	maxRequestBodySize = 64 * 1024
	shutdownTimeout    = 10 * time.Second
)

type Server struct {
	config   *core.ServerConfig
	logger   *zap.Logger
	server   *http.Server
	registry *prometheus.Registry
	metrics  *Metrics
	skips    *flood.Floodgate

	mutex     sync.RWMutex
	pages     *core.Pages
	oracle    core.BlacklistOracle
	localizer *i18n.Localizer
}

func NewServer(config *core.ServerConfig, logger *zap.Logger) *Server {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	s := &Server{
		config:    config,
		logger:    logger,
		registry:  registry,
		metrics:   newMetrics(registry),
		skips:     flood.New(config.SkipLimitPerMinute),
		localizer: i18n.NewLocalizer(i18n.DefaultLanguage),
	}
	s.server = createHTTPServer(config, s.setupRoutes())
	return s
}

func createHTTPServer(config *core.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      handler,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}
}

// Attach makes the monitored pages and the oracle available to the API.
// The server reports ready once pages are attached.
func (s *Server) Attach(pages *core.Pages, oracle core.BlacklistOracle) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.pages = pages
	s.oracle = oracle
}

// SetLocalizer sets the language of the status page and API error messages.
func (s *Server) SetLocalizer(localizer *i18n.Localizer) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.localizer = localizer
}

func (s *Server) GetMetrics() *Metrics {
	return s.metrics
}

func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server",
		zap.String("addr", s.server.Addr))

	go func() {
		<-ctx.Done()
		s.logger.Info("Shutting down HTTP server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.skips.Stop()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			s.logger.Error("Failed to shutdown HTTP server gracefully", zap.Error(err))
		}
	}()

	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("HTTP server failed: %w", err)
	}

	return nil
}

func (s *Server) setupRoutes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.healthzHandler)
	r.Get("/readyz", s.readyzHandler)
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	r.Get("/", s.homeHandler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/pages", s.listPagesHandler)
		r.Get("/pages/{page}/current", s.currentTrackHandler)
		r.Post("/pages/{page}/skip", s.skipHandler)
		r.Post("/check", s.checkArtistHandler)
	})

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		s.writeError(w, http.StatusMethodNotAllowed, s.t("error.method_not_allowed"))
	})

	return r
}

func (s *Server) healthzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ok","service":"` + serviceName + `"}`)); err != nil {
		s.logger.Debug("Failed to write health response", zap.Error(err))
	}
}

func (s *Server) readyzHandler(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if s.attachedPages() == nil {
		w.WriteHeader(http.StatusServiceUnavailable)
		if _, err := w.Write([]byte(`{"status":"starting","service":"` + serviceName + `"}`)); err != nil {
			s.logger.Debug("Failed to write readiness response", zap.Error(err))
		}
		return
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(`{"status":"ready","service":"` + serviceName + `"}`)); err != nil {
		s.logger.Debug("Failed to write readiness response", zap.Error(err))
	}
}

type pagesResponse struct {
	Pages     []core.PageStatus `json:"pages"`
	SkipLimit flood.Stats       `json:"skip_limit"`
}

func (s *Server) listPagesHandler(w http.ResponseWriter, _ *http.Request) {
	pages := s.attachedPages()
	statuses := []core.PageStatus{}
	if pages != nil {
		statuses = pages.Statuses()
	}
	s.writeJSON(w, http.StatusOK, pagesResponse{Pages: statuses, SkipLimit: s.skips.GetStats()})
}

// currentResponse carries null fields when nothing could be extracted.
type currentResponse struct {
	Artist *string `json:"artist"`
	Track  *string `json:"track"`
}

func (s *Server) currentTrackHandler(w http.ResponseWriter, r *http.Request) {
	monitor, ok := s.lookupPage(w, r)
	if !ok {
		return
	}

	var resp currentResponse
	if snapshot, found := monitor.CurrentTrack(r.Context()); found {
		resp.Artist = &snapshot.Artist
		resp.Track = &snapshot.Track
	}
	s.writeJSON(w, http.StatusOK, resp)
}

type skipResponse struct {
	Success bool `json:"success"`
}

func (s *Server) skipHandler(w http.ResponseWriter, r *http.Request) {
	monitor, ok := s.lookupPage(w, r)
	if !ok {
		return
	}
	if !s.skips.Allow(monitor.Name(), clientKey(r)) {
		s.logger.Warn("Manual skip rate limited",
			zap.String("page", monitor.Name()),
			zap.String("client", clientKey(r)))
		s.writeError(w, http.StatusTooManyRequests, s.t("error.rate_limited"))
		return
	}
	s.writeJSON(w, http.StatusOK, skipResponse{Success: monitor.SkipNow(r.Context())})
}

type checkRequest struct {
	Artist string `json:"artist"`
}

func (s *Server) checkArtistHandler(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxRequestBodySize)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, s.t("error.invalid_request"))
		return
	}

	artist := strings.TrimSpace(req.Artist)
	if artist == "" {
		s.writeError(w, http.StatusBadRequest, s.t("error.artist_required"))
		return
	}

	s.mutex.RLock()
	oracle := s.oracle
	s.mutex.RUnlock()
	if oracle == nil {
		s.writeError(w, http.StatusServiceUnavailable, s.t("error.oracle_unavailable"))
		return
	}

	verdict, err := oracle.CheckArtist(r.Context(), artist)
	if err != nil {
		s.logger.Warn("Blacklist check request failed", zap.String("artist", artist), zap.Error(err))
		s.writeError(w, http.StatusServiceUnavailable, s.t("error.oracle_unavailable"))
		return
	}
	s.writeJSON(w, http.StatusOK, verdict)
}

func (s *Server) lookupPage(w http.ResponseWriter, r *http.Request) (*core.Monitor, bool) {
	name := chi.URLParam(r, "page")
	pages := s.attachedPages()
	if pages == nil {
		s.writeError(w, http.StatusNotFound, s.t("error.unknown_page", name))
		return nil, false
	}
	monitor, err := pages.Lookup(name)
	if err != nil {
		s.writeError(w, http.StatusNotFound, s.t("error.unknown_page", name))
		return nil, false
	}
	return monitor, true
}

// clientKey identifies the requesting client by remote IP.
func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func (s *Server) attachedPages() *core.Pages {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return s.pages
}

func (s *Server) t(key string, args ...interface{}) string {
	s.mutex.RLock()
	localizer := s.localizer
	s.mutex.RUnlock()
	return localizer.T(key, args...)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Debug("Failed to write JSON response", zap.Error(err))
	}
}
