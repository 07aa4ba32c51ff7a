package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/Harshitk-cp/currency/internal/api/handlers"
	mw "github.com/Harshitk-cp/currency/internal/api/middleware"
	"github.com/Harshitk-cp/currency/internal/buildconfig"
	"github.com/Harshitk-cp/currency/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Options configures the HTTP surface.
type Options struct {
	APIKey         string
	RateLimitRPS   float64
	RateLimitBurst int
	// Registerer receives the HTTP collectors; Gatherer serves /metrics.
	// Both default to the Prometheus default registry.
	Registerer prometheus.Registerer
	Gatherer   prometheus.Gatherer
}

// Pinger reports database health. A nil Pinger means no database.
type Pinger interface {
	Ping(ctx context.Context) error
}

// App holds the router and background services for lifecycle management.
type App struct {
	Router    *chi.Mux
	Estimates *service.EstimateService
	startTime time.Time
}

func NewApp(svc *service.EstimateService, db Pinger, opts Options, logger *zap.Logger) *App {
	if opts.Registerer == nil {
		opts.Registerer = prometheus.DefaultRegisterer
	}
	if opts.Gatherer == nil {
		opts.Gatherer = prometheus.DefaultGatherer
	}
	if opts.RateLimitRPS <= 0 {
		opts.RateLimitRPS = 100
	}
	if opts.RateLimitBurst <= 0 {
		opts.RateLimitBurst = 20
	}

	estimateHandler := handlers.NewEstimateHandler(svc, logger)
	networkHandler := handlers.NewNetworkHandler(svc, logger)

	r := chi.NewRouter()
	app := &App{
		Router:    r,
		Estimates: svc,
		startTime: time.Now(),
	}

	metrics := mw.NewMetrics(opts.Registerer)

	// Global middleware (order matters)
	r.Use(mw.RequestID)                                         // Generate/extract request ID first
	r.Use(middleware.RealIP)                                    // Extract real IP
	r.Use(metrics.Middleware)                                   // Collect metrics
	r.Use(mw.Logging(logger))                                   // Log all requests
	r.Use(middleware.Recoverer)                                 // Recover from panics
	r.Use(mw.RateLimit(opts.RateLimitRPS, opts.RateLimitBurst)) // Rate limiting

	// Health and metrics (no auth)
	r.Get("/health", app.healthHandler(db))
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKeyAuth(opts.APIKey))

		r.Route("/networks", func(r chi.Router) {
			r.Get("/", networkHandler.List)
			r.Post("/describe", networkHandler.Describe)
		})

		r.Route("/estimates", func(r chi.Router) {
			r.Post("/", estimateHandler.Create)
			r.Get("/{id}", estimateHandler.GetByID)
		})
	})

	return app
}

func (app *App) healthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := map[string]any{
			"status":         "ok",
			"build":          buildconfig.VersionInfo(),
			"uptime_seconds": time.Since(app.startTime).Seconds(),
			"database":       "disabled",
		}

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				resp["status"] = "error"
				resp["database"] = "unreachable"
				resp["error"] = err.Error()
				writeJSON(w, http.StatusServiceUnavailable, resp)
				return
			}
			resp["database"] = "ok"
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
