package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/kelseyhightower/envconfig"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/medops/clinic-api/internal/repository/postgres"
	"github.com/medops/clinic-api/pkg/logger"
	"github.com/medops/clinic-api/pkg/messaging/redis"
	"github.com/medops/clinic-api/pkg/metrics"
	"github.com/medops/clinic-api/pkg/worker"
)

// WorkerConfig is read from the environment: the worker ships as a separate
// container and takes no config file.
type WorkerConfig struct {
	DatabaseURL   string        `envconfig:"DATABASE_URL" required:"true"`
	RedisURL      string        `envconfig:"REDIS_URL" required:"true"`
	HealthPort    int           `envconfig:"HEALTH_PORT" default:"8081"`
	BatchSize     int           `envconfig:"OUTBOX_BATCH_SIZE" default:"100"`
	PollInterval  time.Duration `envconfig:"OUTBOX_POLL_INTERVAL" default:"5s"`
	RetryAttempts int           `envconfig:"OUTBOX_RETRY_ATTEMPTS" default:"3"`
	RetryDelay    time.Duration `envconfig:"OUTBOX_RETRY_DELAY" default:"1s"`
	MaxRetries    int           `envconfig:"OUTBOX_MAX_RETRIES" default:"5"`
	RetentionDays int           `envconfig:"OUTBOX_RETENTION_DAYS" default:"7"`
	CleanupEvery  time.Duration `envconfig:"OUTBOX_CLEANUP_INTERVAL" default:"1h"`
}

func setupHealthCheck(port int, lg *logger.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health/live", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	go func() {
		if err := http.ListenAndServe(fmt.Sprintf(":%d", port), mux); err != nil {
			lg.Fatal(err, "Health check server failed")
		}
	}()
}

func main() {
	var cfg WorkerConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatal().Err(err).Msg("Failed to load worker config")
	}

	lg := logger.NewLogger(nil)

	db, err := sqlx.Connect("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.RedisURL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create Redis broker")
	}
	defer broker.Close()

	outboxRepo := postgres.NewOutboxRepository(db)

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.BatchSize,
		PollInterval:  cfg.PollInterval,
		RetryAttempts: cfg.RetryAttempts,
		RetryDelay:    cfg.RetryDelay,
		MaxRetries:    cfg.MaxRetries,
	}, lg, metrics.NewMetrics("clinic", "worker"))

	cleanup := worker.NewOutboxCleanupWorker(outboxRepo, cfg.RetentionDays, cfg.CleanupEvery, lg)

	setupHealthCheck(cfg.HealthPort, lg)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		lg.Info("Shutting down...")
		cancel()
	}()

	go cleanup.Start(ctx)
	processor.Start(ctx)
}
