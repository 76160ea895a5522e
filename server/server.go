package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/studiopulse/pulse/pkg/auth"
	"github.com/studiopulse/pulse/pkg/cache"
	"github.com/studiopulse/pulse/pkg/domain"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/notifications.go -pkg mocks -skip-ensure -fmt goimports . Notifications
//go:generate moq -out mocks/engagement.go -pkg mocks -skip-ensure -fmt goimports . Engagement

// Server represents HTTP server instance
type Server struct {
	config      ConfigProvider
	store       Notifications
	engagement  Engagement
	auth        *auth.Service
	unreadCache *cache.Cache[int]
	version     string
	debug       bool
	pageSize    int

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Notifications interface for notification store operations
type Notifications interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	ListUnread(ctx context.Context, userID string, limit int) ([]domain.Notification, error)
	MarkRead(ctx context.Context, id int64, userID string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	CountUnread(ctx context.Context, userID string) (int, error)
	LatestByCategory(ctx context.Context, userID string, category domain.Category) (*domain.Notification, error)
}

// Engagement interface for recording events and timing estimates
type Engagement interface {
	Record(ctx context.Context, notificationID int64, userID string, kind domain.EventKind, occurredAt time.Time) (*domain.EngagementEvent, error)
	Estimate(ctx context.Context, userID string, category domain.Category) (*domain.TimingEstimate, error)
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Config bundles server dependencies
type Config struct {
	Config      ConfigProvider
	Store       Notifications
	Engagement  Engagement
	Auth        *auth.Service
	UnreadCache *cache.Cache[int]
	Version     string
	Debug       bool
	PageSize    int
}

// New initializes a new server instance
func New(cfg Config) *Server {
	if cfg.PageSize == 0 {
		cfg.PageSize = 100
	}

	s := &Server{
		config:      cfg.Config,
		store:       cfg.Store,
		engagement:  cfg.Engagement,
		auth:        cfg.Auth,
		unreadCache: cfg.UnreadCache,
		version:     cfg.Version,
		debug:       cfg.Debug,
		pageSize:    cfg.PageSize,
		router:      routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:         listen,
		Handler:      s.router,
		ReadTimeout:  timeout,
		WriteTimeout: timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("pulse", "studiopulse", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(1024 * 1024)) // 1MB
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	api := s.router.Mount("/api/v1")
	api.HandleFunc("GET /status", s.statusHandler)

	protected := api.Group()
	protected.Use(s.auth.Middleware)
	protected.HandleFunc("GET /notifications", s.listHandler)
	protected.HandleFunc("GET /notifications/unread", s.unreadHandler)
	protected.HandleFunc("POST /notifications/{id}/read", s.markReadHandler)
	protected.HandleFunc("POST /notifications/read-all", s.markAllReadHandler)
	protected.HandleFunc("POST /engagement", s.recordEngagementHandler)
	protected.HandleFunc("GET /engagement/estimate", s.estimateHandler)
	protected.HandleFunc("GET /insight", s.insightHandler)
	protected.HandleFunc("POST /internal/notifications", s.produceHandler)
}

// statusHandler returns server status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	status := map[string]interface{}{
		"status":  "ok",
		"version": s.version,
		"time":    time.Now().UTC(),
	}
	renderJSON(w, r, http.StatusOK, status)
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}

// renderError sends error response as JSON
func renderError(w http.ResponseWriter, r *http.Request, err error, code int) {
	errMsg := "unknown error"
	if err != nil {
		errMsg = err.Error()
	}
	renderJSON(w, r, code, map[string]string{"error": errMsg})
}

// errorCode maps domain errors to HTTP status codes
func errorCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}
