package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/smileworks/dental-receptionist/internal/api"
	"github.com/smileworks/dental-receptionist/internal/appointment"
	"github.com/smileworks/dental-receptionist/internal/chat"
	"github.com/smileworks/dental-receptionist/internal/config"
	"github.com/smileworks/dental-receptionist/internal/db"
	"github.com/smileworks/dental-receptionist/internal/directory"
	"github.com/smileworks/dental-receptionist/internal/messagelog"
	"github.com/smileworks/dental-receptionist/internal/observability/metrics"
	redisclient "github.com/smileworks/dental-receptionist/internal/redis"
	"github.com/smileworks/dental-receptionist/internal/voice"
)

const version = "1.0.0"

func main() {
	logger := zerolog.New(os.Stdout).With().
		Timestamp().
		Str("service", "dental-receptionist-api").
		Logger()

	logger.Info().Msg("api-server starting up")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("config load error")
	}

	logger.Info().Str("env", cfg.Env).Str("http_port", cfg.HTTPPort).Msg("configuration loaded")

	rootCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Connect Postgres. Store unavailability at startup is a hard failure.
	pgCtx, cancelPg := context.WithTimeout(rootCtx, 10*time.Second)
	pgPool, err := db.ConnectPostgres(pgCtx, cfg.PostgresDSN)
	cancelPg()
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connection error")
	}
	defer pgPool.Close()
	logger.Info().Msg("connected to Postgres")

	// Connect Redis
	rdb, err := redisclient.NewRedisClient(cfg.RedisAddr, cfg.RedisUsername, cfg.RedisPassword)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis connection error")
	}
	defer func() {
		if err := rdb.Close(); err != nil {
			logger.Warn().Err(err).Msg("error closing redis")
		}
	}()
	logger.Info().Msg("connected to Redis")

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	messageLog := messagelog.NewPgRepository(pgPool)

	apptRepo := appointment.NewPgRepository(pgPool)
	locker := redisclient.NewRedisProviderLocker(rdb, cfg.LockTTL)
	apptSvc := appointment.NewService(apptRepo, locker, m, logger)

	dirSvc := directory.NewService(directory.NewPgRepository(pgPool), logger)

	responder := chat.NewResponder(chat.DefaultRules(), messageLog, m, logger)

	var placer voice.Placer
	if cfg.Twilio.Configured() {
		placer = voice.NewTwilioPlacer(cfg.Twilio)
	} else {
		logger.Warn().Msg("telephony credentials not configured, /voice/call will reject requests")
	}
	voiceSvc := voice.NewService(cfg.Twilio, cfg.PublicBaseURL, placer, messageLog, m, logger)

	router := api.NewRouter(api.RouterConfig{
		Appointments:        apptSvc,
		Directory:           dirSvc,
		Chat:                responder,
		Voice:               voiceSvc,
		PgPool:              pgPool,
		Redis:               rdb,
		Gatherer:            registry,
		Logger:              logger,
		Env:                 cfg.Env,
		Version:             version,
		AllowedOrigins:      cfg.AllowedOrigins,
		TelephonyConfigured: cfg.Twilio.Configured(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("http server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-rootCtx.Done():
		logger.Info().Msg("shutdown signal received")
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server error")
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown error")
	}

	logger.Info().Msg("api-server stopped")
}
