package httpserver

import (
	"embed"
	"errors"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	appanalysis "github.com/sbateeni/legal-analysis-nextjs/internal/application/analysis"
	appcases "github.com/sbateeni/legal-analysis-nextjs/internal/application/cases"
	appcreds "github.com/sbateeni/legal-analysis-nextjs/internal/application/credentials"
	domainai "github.com/sbateeni/legal-analysis-nextjs/internal/domain/ai"
	domaincases "github.com/sbateeni/legal-analysis-nextjs/internal/domain/cases"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/credentials"
	"github.com/sbateeni/legal-analysis-nextjs/internal/domain/stages"
	"github.com/sbateeni/legal-analysis-nextjs/internal/infra/session"
	"github.com/sbateeni/legal-analysis-nextjs/internal/middleware"
)

//go:embed templates/index.html
var templatesFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Deps are the collaborators the HTTP surface is built from.
// Cases, Metrics, Limiter and Health are optional.
type Deps struct {
	Runner         *appanalysis.Runner
	Validator      *appcreds.Validator
	Cases          *appcases.Service
	Sessions       *session.Store
	SessionOptions middleware.SessionOptions
	Metrics        *middleware.Metrics
	Limiter        *middleware.RateLimiter
	Health         map[string]middleware.HealthChecker
	Provider       string
	CORSOrigins    []string
	Log            *zap.Logger
}

type Router struct {
	runner    *appanalysis.Runner
	validator *appcreds.Validator
	cases     *appcases.Service
	log       *zap.Logger
}

func NewRouter(d Deps) http.Handler {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	if d.Sessions == nil {
		d.Sessions = session.NewStore(d.SessionOptions.TTL, 0)
	}
	r := &Router{runner: d.Runner, validator: d.Validator, cases: d.Cases, log: log}
	mux := chi.NewRouter()

	origins := d.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", appcreds.HeaderName},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	mux.Use(chimw.Recoverer)
	if d.Metrics != nil {
		mux.Use(d.Metrics.Middleware)
	}
	mux.Use(middleware.LoggingMiddleware(log))
	mux.Use(middleware.Sessions(d.Sessions, d.SessionOptions))
	if d.Limiter != nil {
		mux.Use(d.Limiter.Middleware)
	}

	health := middleware.HealthOptions{Checkers: d.Health, Provider: d.Provider, Sessions: d.Sessions.Len}
	mux.Get("/health", middleware.HealthHandler(health))
	mux.Get("/readyz", middleware.ReadinessHandler(health))
	mux.Get("/livez", middleware.LivenessHandler)
	if d.Metrics != nil {
		mux.Method(http.MethodGet, "/metrics", d.Metrics.Handler())
	}

	mux.Get("/", r.wrap(r.handleIndex))
	mux.Get("/api", r.wrap(r.handleAPIDoc))
	mux.Post("/analyze", r.wrap(r.handleAnalyze))
	mux.Post("/analyze_stage", r.wrap(r.handleAnalyzeStage))
	mux.Post("/set_api_key", r.wrap(r.handleSetAPIKey))
	mux.Post("/clear_api_key", r.wrap(r.handleClearAPIKey))
	mux.Post("/test_api", r.wrap(r.handleTestAPI))

	mux.Route("/cases", func(rt chi.Router) {
		rt.Post("/", r.wrap(r.handleCreateCase))
		rt.Get("/", r.wrap(r.handleListCases))
		rt.Get("/{id}", r.wrap(r.handleGetCase))
		rt.Delete("/{id}", r.wrap(r.handleDeleteCase))
		rt.Post("/{id}/export", r.wrap(r.handleExportCase))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		err := h(w, req)
		if err == nil {
			return
		}
		var ae *apiError
		switch {
		case errors.As(err, &ae):
			_ = writeJSON(w, ae.status, ae.body)
		case errors.Is(err, domaincases.ErrNotFound):
			_ = writeJSON(w, http.StatusNotFound, errorBody("not found", err.Error(), ""))
		case errors.Is(err, appcases.ErrInvalidName):
			_ = writeJSON(w, http.StatusBadRequest, errorBody("Invalid request", err.Error(), ""))
		case errors.Is(err, appcases.ErrExportDisabled):
			_ = writeJSON(w, http.StatusServiceUnavailable, errorBody("export unavailable", err.Error(), ""))
		case errors.Is(err, domainai.ErrQuotaExceeded):
			_ = writeJSON(w, http.StatusTooManyRequests, errorBody("ai quota exceeded", err.Error(), ""))
		default:
			r.log.Error("request failed", zap.String("path", req.URL.Path), zap.Error(err))
			_ = writeJSON(w, http.StatusInternalServerError,
				errorBody(err.Error(), "An unexpected error occurred while processing your request", ""))
		}
	}
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, req *http.Request) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return indexTemplate.Execute(w, map[string]any{"Stages": stages.All()})
}

// GET /api
func (r *Router) handleAPIDoc(w http.ResponseWriter, req *http.Request) error {
	return writeJSON(w, http.StatusOK, apiDoc())
}

// sessionOf returns the request session as a credentials.Session, or nil.
func sessionOf(req *http.Request) credentials.Session {
	if s := middleware.SessionFrom(req.Context()); s != nil {
		return s
	}
	return nil
}
