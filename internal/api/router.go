package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type RouterConfig struct {
	Appointments Scheduler
	Directory    Directory
	Chat         ChatResponder
	Voice        VoiceFlow

	PgPool              *pgxpool.Pool
	Redis               *redis.Client
	Gatherer            prometheus.Gatherer
	Logger              zerolog.Logger
	Env                 string
	Version             string
	AllowedOrigins      []string
	TelephonyConfigured bool
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Apply middleware
	r.Use(RequestIDMiddleware)
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	// Health and probe endpoints
	health := NewHealthHandler(cfg.PgPool, cfg.Redis, cfg.Env, cfg.Version, cfg.TelephonyConfigured)
	r.Get("/", health.Root)
	r.Get("/test", health.Probe)
	r.Get("/health/live", health.Liveness)
	r.Get("/health/ready", health.Readiness)

	if cfg.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{}))
	}

	// Appointment endpoints
	r.Post("/appointments", createAppointmentHandler(cfg.Appointments))
	r.Get("/appointments", listAppointmentsHandler(cfg.Appointments))
	r.Patch("/appointments/{id}", updateAppointmentHandler(cfg.Appointments))
	r.Delete("/appointments/{id}", cancelAppointmentHandler(cfg.Appointments))

	// Patient and feedback endpoints
	r.Post("/patients", createPatientHandler(cfg.Directory))
	r.Get("/patients", searchPatientsHandler(cfg.Directory))
	r.Post("/feedback", createFeedbackHandler(cfg.Directory))
	r.Get("/feedback", listFeedbackHandler(cfg.Directory))

	// Decision table endpoints
	r.Post("/chat", chatHandler(cfg.Chat))
	r.Post("/estimate", estimateHandler())
	r.Post("/insurance/check", insuranceCheckHandler())

	// Voice call flow
	r.Post("/voice/call", startCallHandler(cfg.Voice))
	r.Get("/voice/answer", answerWebhookHandler(cfg.Voice))
	r.Post("/voice/answer", answerWebhookHandler(cfg.Voice))
	r.Post("/voice/menu", menuWebhookHandler(cfg.Voice))
	r.Post("/voice/status", statusWebhookHandler(cfg.Voice))

	return r
}
