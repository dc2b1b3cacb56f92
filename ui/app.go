package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"bankinfer/internal"
	"bankinfer/internal/metrics"
)

//go:embed templates/*.html notes/*.md
var embeddedFiles embed.FS

// App is the HTML dashboard
type App struct {
	router    *chi.Mux
	deps      Deps
	logger    *internal.Logger
	templates *template.Template
	notes     template.HTML
}

// NewApp creates the dashboard and parses its templates
func NewApp(deps Deps) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = internal.NewNopLogger()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	templates, err := parseTemplates(embeddedFiles)
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	notes, err := renderNotes(embeddedFiles, "notes/methodology.md")
	if err != nil {
		return nil, fmt.Errorf("failed to render notes: %w", err)
	}

	app := &App{
		router:    chi.NewRouter(),
		deps:      deps,
		logger:    deps.Logger.With("surface", "dashboard"),
		templates: templates,
		notes:     notes,
	}

	app.setupMiddleware()
	app.setupRoutes()

	return app, nil
}

// setupMiddleware configures HTTP middleware
func (a *App) setupMiddleware() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)
	a.router.Use(middleware.Compress(5))
}

// setupRoutes configures the application routes
func (a *App) setupRoutes() {
	a.router.Get("/", a.route("/", a.handleIndex))
	a.router.Get("/inference", a.route("/inference", a.handleInference))
	a.router.Get("/describe", a.route("/describe", a.handleDescribe))
	a.router.Get("/notes", a.route("/notes", a.handleNotes))
	a.router.Handle("/metrics", a.deps.Metrics.Handler())
}

func (a *App) route(pattern string, h http.HandlerFunc) http.HandlerFunc {
	return instrument(a.logger, a.deps.Metrics, pattern, h)
}

// Handler exposes the router
func (a *App) Handler() http.Handler { return a.router }

// Start starts the HTTP server
func (a *App) Start(addr string) error {
	a.logger.Info("starting dashboard on http://%s", addr)
	return http.ListenAndServe(addr, a.router)
}
