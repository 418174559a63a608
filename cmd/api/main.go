package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/medops/clinic-api/internal/config"
	"github.com/medops/clinic-api/internal/handler"
	doctorHandler "github.com/medops/clinic-api/internal/handler/doctor"
	hospitalHandler "github.com/medops/clinic-api/internal/handler/hospital"
	productHandler "github.com/medops/clinic-api/internal/handler/product"
	reservationHandler "github.com/medops/clinic-api/internal/handler/reservation"
	"github.com/medops/clinic-api/internal/middleware"
	"github.com/medops/clinic-api/internal/repository/postgres"
	"github.com/medops/clinic-api/internal/router"
	availabilityService "github.com/medops/clinic-api/internal/service/availability"
	calendarService "github.com/medops/clinic-api/internal/service/calendar"
	doctorService "github.com/medops/clinic-api/internal/service/doctor"
	eventService "github.com/medops/clinic-api/internal/service/event"
	hospitalService "github.com/medops/clinic-api/internal/service/hospital"
	productService "github.com/medops/clinic-api/internal/service/product"
	reservationService "github.com/medops/clinic-api/internal/service/reservation"
	timetableService "github.com/medops/clinic-api/internal/service/timetable"
	"github.com/medops/clinic-api/pkg/auth"
	"github.com/medops/clinic-api/pkg/logger"
	"github.com/medops/clinic-api/pkg/messaging/redis"
	"github.com/medops/clinic-api/pkg/metrics"
	"github.com/medops/clinic-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	hospitalRepo := postgres.NewHospitalRepository(db)
	hourRepo := postgres.NewBusinessHourRepository(db)
	productRepo := postgres.NewTreatmentProductRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	reservationRepo := postgres.NewReservationRepository(db)
	eventRepo := postgres.NewReservationEventRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	m := metrics.NewMetrics("clinic", "api")

	// Services
	eventSvc := eventService.NewService(outboxRepo)
	calendarSvc := calendarService.NewService(hourRepo)
	availabilitySvc := availabilityService.NewService(calendarSvc, productRepo, reservationRepo)
	timetableSvc := timetableService.NewService(calendarSvc, productRepo, reservationRepo)
	eventLog := reservationService.NewEventLog(eventRepo)
	reservationSvc := reservationService.NewService(
		reservationRepo, productRepo, doctorRepo, calendarSvc, availabilitySvc, eventLog, m)
	hospitalSvc := hospitalService.NewService(hospitalRepo, hourRepo, productRepo, eventSvc)
	productSvc := productService.NewService(productRepo)
	doctorSvc := doctorService.NewService(doctorRepo)

	tokens := auth.NewTokenService(cfg.JWT.Secret, cfg.JWT.ExpiryHours)

	// Handlers
	handler.RegisterValidations()
	h := handler.NewHandler()
	hospitalH := hospitalHandler.NewHandler(hospitalSvc)
	productH := productHandler.NewHandler(productSvc)
	doctorH := doctorHandler.NewHandler(doctorSvc)
	reservationH := reservationHandler.NewHandler(reservationSvc, availabilitySvc, timetableSvc)

	r := router.NewRouter(
		tokens,
		hospitalH,
		productH,
		doctorH,
		reservationH,
		h,
		router.RouterConfig{
			RateLimit:     rate.Limit(100),
			RateBurst:     200,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "clinic_api",
			ReadCacheTTL:  10 * time.Second,
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: r.Engine(),
	}

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		RetryBackoff: cfg.Redis.RetryBackoff,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, &log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	workerLogger := logger.NewLogger(nil)
	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.RetryAttempts,
		RetryDelay:    cfg.Outbox.RetryDelay,
		MaxRetries:    cfg.Outbox.MaxRetries,
	}, workerLogger, m)
	go outboxProcessor.Start(ctx)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
