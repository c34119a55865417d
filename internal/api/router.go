package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/clinicdesk/clinic-scheduling/internal/metrics"
)

type RouterConfig struct {
	Appointments *AppointmentHandler
	PgPool       *pgxpool.Pool
	Redis        *redis.Client
	Logger       *zap.Logger
	Metrics      *metrics.Collector
	Env          string
	Version      string
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(MetricsMiddleware(cfg.Metrics))

	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/appointments", func(r chi.Router) {
		r.Post("/", cfg.Appointments.Create)
		r.Get("/stats", cfg.Appointments.Stats)
		r.Get("/{id}", cfg.Appointments.Get)
		r.Patch("/{id}", cfg.Appointments.Update)
		r.Delete("/{id}", cfg.Appointments.Delete)
		r.Post("/{id}/cancel", cfg.Appointments.Cancel)
		r.Post("/{id}/complete", cfg.Appointments.Complete)
		r.Post("/{id}/reschedule", cfg.Appointments.Reschedule)
	})

	return r
}
