// Package api provides the HTTP REST API server for songbook
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/memtensor/songbook/pkg/config"
	"github.com/memtensor/songbook/pkg/interfaces"
	"github.com/memtensor/songbook/pkg/logger"
	"github.com/memtensor/songbook/pkg/metrics"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// Server represents the API server instance
type Server struct {
	config    *config.Config
	importer  interfaces.Importer
	searcher  interfaces.Searcher
	logger    interfaces.Logger
	metrics   *metrics.MemoryMetrics
	router    *gin.Engine
	server    *http.Server
	startTime time.Time
}

// NewServer creates a new API server instance. A nil searcher leaves the
// search endpoint answering SEARCH_DISABLED.
func NewServer(cfg *config.Config, importer interfaces.Importer, searcher interfaces.Searcher, log interfaces.Logger, m *metrics.MemoryMetrics) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if m == nil {
		m = metrics.NewMemoryMetrics()
	}

	// Set Gin mode based on log level
	if cfg.Log.Level == "error" || cfg.Log.Level == "warn" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	s := &Server{
		config:    cfg,
		importer:  importer,
		searcher:  searcher,
		logger:    log,
		metrics:   m,
		router:    gin.New(),
		startTime: time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Handler returns the router, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(s.requestIDMiddleware())
	s.router.Use(s.loggingMiddleware())
	s.router.Use(s.metricsMiddleware())
	s.router.Use(cors.New(s.corsConfig()))
}

func (s *Server) corsConfig() cors.Config {
	corsConfig := cors.DefaultConfig()
	origins := s.config.API.CORSOrigins
	allowAll := len(origins) == 0
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
	}
	if allowAll {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	return corsConfig
}

// setupRoutes configures all API routes
func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)
	s.router.GET("/metrics", s.getMetrics)

	v1 := s.router.Group("/v1")
	{
		v1.POST("/notation/parse", s.parseNotation)
		v1.POST("/notation/normalize", s.normalizeLines)
		v1.POST("/lines/parse", s.parseLines)
		v1.POST("/render", s.render)
		v1.GET("/chords/transpose", s.transposeChord)
		v1.POST("/import", s.importURL)
		v1.GET("/search", s.search)
	}
}

// Start starts the API server and blocks until ctx is cancelled
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.API.Host, s.config.API.Port)
	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.config.API.ReadTimeout,
		WriteTimeout: s.config.API.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting API server", map[string]interface{}{
		"addr": addr,
		"mode": gin.Mode(),
	})

	errCh := make(chan error, 1)
	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("Failed to start server", err)
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(shutdownCtx)
}

// Stop gracefully stops the API server
func (s *Server) Stop() error {
	if s.server == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
