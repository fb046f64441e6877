// Package http serves the food tracker pages, the protein JSON endpoint,
// the report downloads and the health probes.
package http

import (
	"context"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"foodtracker/internal/core"
	"foodtracker/internal/log"
	"foodtracker/internal/middleware/ratelimit"
	"foodtracker/internal/middleware/security"
	"foodtracker/internal/middleware/trace"
	appweb "foodtracker/web"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/yuin/goldmark"
)

// EntryService is the slice of services.EntryService the handlers use.
type EntryService interface {
	ListEntries(ctx context.Context) ([]core.FoodEntry, error)
	GetEntry(ctx context.Context, id int64) (core.FoodEntry, error)
	CreateEntry(ctx context.Context, e core.FoodEntry) (core.FoodEntry, error)
	UpdateEntry(ctx context.Context, id int64, e core.FoodEntry) (bool, error)
	DeleteEntry(ctx context.Context, id int64) error
	ClearAll(ctx context.Context) error
}

// Pinger reports whether a dependency is reachable. Used by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Config holds the HTTP server settings.
type Config struct {
	Addr               string
	ProteinGoal        int
	RateLimitPerMinute int
}

type Server struct {
	http.Server
	router    chi.Router
	templates *template.Template
	entries   EntryService
	store     Pinger
	markdown  goldmark.Markdown
	logger    *log.Logger

	proteinGoal int
	now         func() time.Time

	rateLimiter      *ratelimit.Limiter
	securityDetector *security.Detector
	traceMiddleware  *trace.Middleware
	appMetrics       *appMetrics

	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run
// server. store may be nil, in which case /readyz only checks templates.
func NewServer(cfg Config, entries EntryService, store Pinger, logger *log.Logger) (*Server, error) {
	if logger == nil {
		logger = log.FromContext(context.Background())
	}
	if cfg.ProteinGoal <= 0 {
		cfg.ProteinGoal = DefaultProteinGoal
	}

	t, err := parseTemplates()
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	detector := security.NewDetector()
	router := chi.NewRouter()

	s := &Server{
		Server: http.Server{
			Addr:              cfg.Addr,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
		router:      router,
		templates:   t,
		entries:     entries,
		store:       store,
		markdown:    goldmark.New(),
		logger:      logger.WithComponent(log.ComponentHTTP),
		proteinGoal: cfg.ProteinGoal,
		now:         time.Now,
		rateLimiter: ratelimit.NewLimiter(ratelimit.Config{
			RequestsPerMinute: cfg.RateLimitPerMinute,
		}),
		securityDetector: detector,
		traceMiddleware:  trace.NewMiddleware(logger, detector.ExtractClientIP),
		appMetrics:       newAppMetrics(),
	}

	s.routes()
	return s, nil
}

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
}

func (s *Server) routes() {
	r := s.router

	r.Use(chimiddleware.Recoverer)
	r.Use(s.traceMiddleware.Middleware)
	r.Use(s.securityDetector.Middleware)
	r.Use(security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware)
	r.Use(s.rateLimiter.Middleware(s.securityDetector.ExtractClientIP, s.onRateLimited))

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		r.With(security.StaticAssetMiddleware(3600)).Handle("/static/*", static)
	} else {
		s.logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", s.handleMetrics)

	r.Get("/", s.handleDashboard)

	r.Route("/entries", func(r chi.Router) {
		r.Get("/", s.handleListEntries)
		r.Post("/", s.handleCreateEntry)
		r.Get("/new", s.handleNewEntryForm)
		r.Post("/clear", s.handleClearEntries)
		r.Get("/{id}/edit", s.handleEditEntryForm)
		r.Post("/{id}", s.handleUpdateEntry)
		r.Post("/{id}/delete", s.handleDeleteEntry)
	})

	r.Get("/analytics", s.handleAnalytics)
	r.Get("/api/protein", s.handleProteinAPI)

	r.Route("/export", func(r chi.Router) {
		r.Get("/csv", s.handleExportCSV)
		r.Get("/pdf", s.handleExportPDF)
		r.Get("/xlsx", s.handleExportXLSX)
	})
}

func (s *Server) onRateLimited(w http.ResponseWriter, r *http.Request) {
	s.logger.WarnContext(r.Context(), "Rate limit exceeded",
		log.FieldClientIP, s.securityDetector.ExtractClientIP(r),
		log.FieldMethod, r.Method,
		log.FieldPath, r.URL.Path)
	ErrorResponse(http.StatusTooManyRequests, "Too many changes, please try again in a minute.").Write(w)
}

// Shutdown stops accepting requests, waits for in-flight ones and stops the
// rate limiter's cleanup goroutine.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) today() core.Date {
	return core.DateOf(s.now())
}
