package ui

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"bankinfer/adapters/stats/describe"
	"bankinfer/app"
	"bankinfer/domain/stats"
	"bankinfer/internal"
	"bankinfer/internal/metrics"
)

// Inference runs analyses and lists selection candidates
type Inference interface {
	Run(ctx context.Context, sel stats.Selection) (*stats.Bundle, error)
	Catalog(ctx context.Context) (*stats.Catalog, error)
}

// Descriptives serves the schema overview and descriptive statistics
type Descriptives interface {
	Overview(ctx context.Context) (*app.Overview, error)
	Describe(ctx context.Context, req app.DescribeRequest) (*describe.Report, error)
}

// Deps are the services both HTTP surfaces present
type Deps struct {
	Inference    Inference
	Descriptives Descriptives
	Metrics      *metrics.Metrics
	Logger       *internal.Logger
}

// Server is the JSON API
type Server struct {
	router *gin.Engine
	deps   Deps
	logger *internal.Logger
}

// NewServer creates the API server. gin's mode is set by the caller.
func NewServer(deps Deps) *Server {
	if deps.Logger == nil {
		deps.Logger = internal.NewNopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	s := &Server{
		router: gin.New(),
		deps:   deps,
		logger: deps.Logger.With("surface", "api"),
	}
	s.setupMiddleware()
	s.setupRoutes()
	return s
}

// setupMiddleware configures Gin middleware
func (s *Server) setupMiddleware() {
	s.router.Use(gin.Recovery())
	s.router.Use(requestLogger(s.logger, s.deps.Metrics))
}

// setupRoutes configures the application routes
func (s *Server) setupRoutes() {
	api := s.router.Group("/api")
	api.GET("/health", s.handleHealth)
	api.GET("/dataset", s.handleDataset)
	api.GET("/catalog", s.handleCatalog)
	api.GET("/describe", s.handleDescribe)
	api.GET("/inference", s.handleInference)
	api.POST("/inference", s.handleInference)

	s.router.GET("/metrics", gin.WrapH(s.deps.Metrics.Handler()))
}

// Handler exposes the router
func (s *Server) Handler() http.Handler { return s.router }

// Start starts the web server
func (s *Server) Start(addr string) error {
	s.logger.Info("starting API on http://%s", addr)
	return s.router.Run(addr)
}
