package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/medoffice/agenda-api/internal/config"
	"github.com/medoffice/agenda-api/internal/email"
	"github.com/medoffice/agenda-api/internal/form"
	appointmentHandler "github.com/medoffice/agenda-api/internal/handler/appointment"
	formHandler "github.com/medoffice/agenda-api/internal/handler/form"
	healthHandler "github.com/medoffice/agenda-api/internal/handler/health"
	patientHandler "github.com/medoffice/agenda-api/internal/handler/patient"
	slotHandler "github.com/medoffice/agenda-api/internal/handler/slot"
	sourceHandler "github.com/medoffice/agenda-api/internal/handler/source"
	userHandler "github.com/medoffice/agenda-api/internal/handler/user"
	"github.com/medoffice/agenda-api/internal/middleware"
	"github.com/medoffice/agenda-api/internal/repository/postgres"
	"github.com/medoffice/agenda-api/internal/router"
	appointmentService "github.com/medoffice/agenda-api/internal/service/appointment"
	"github.com/medoffice/agenda-api/internal/service/authz"
	patientService "github.com/medoffice/agenda-api/internal/service/patient"
	slotService "github.com/medoffice/agenda-api/internal/service/slot"
	sourceService "github.com/medoffice/agenda-api/internal/service/source"
	userService "github.com/medoffice/agenda-api/internal/service/user"
	"github.com/medoffice/agenda-api/pkg/auth"
	"github.com/medoffice/agenda-api/pkg/logger"
	redisBroker "github.com/medoffice/agenda-api/pkg/messaging/redis"
	"github.com/medoffice/agenda-api/pkg/metrics"
	"github.com/medoffice/agenda-api/pkg/security"
	"github.com/medoffice/agenda-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	log := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Output:     os.Stdout,
		Console:    cfg.Logging.Console,
	})

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal(err, "failed to connect to database")
	}
	defer db.Close()

	m := metrics.New("agenda", "api")

	patientRepo := postgres.NewPatientRepository(db)
	appointmentRepo := postgres.NewAppointmentRepository(db)
	userRepo := postgres.NewUserRepository(db)
	sourceRepo := postgres.NewSourceRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	hasher := security.NewBcryptHasher(0)
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.Expiry())

	var emailSvc email.Service
	if cfg.Email.Enabled {
		emailSvc = email.NewService(email.Config{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
		})
	}

	patientSvc := patientService.NewService(patientRepo, log)
	slotSvc := slotService.NewService(slotService.Config{
		OpenHour:    cfg.Slots.OpenHour,
		OpenMinute:  cfg.Slots.OpenMinute,
		CloseHour:   cfg.Slots.CloseHour,
		CloseMinute: cfg.Slots.CloseMinute,
		StepMinutes: cfg.Slots.StepMinutes,
	})
	sourceSvc := sourceService.NewService(sourceRepo)
	appointmentSvc := appointmentService.NewService(appointmentRepo, patientRepo, outboxRepo, emailSvc, log)
	gateSvc := authz.NewService(userRepo, hasher, m)
	userSvc := userService.NewService(userRepo, outboxRepo, gateSvc, hasher, jwtSvc, cfg.JWT.Expiry(), log)
	formSvc := form.NewService(patientSvc, slotSvc, log, m)

	authMiddleware := middleware.NewAuthMiddleware(jwtSvc)

	r := router.NewRouter(
		authMiddleware,
		healthHandler.NewHandler(db),
		userHandler.NewHandler(userSvc),
		formHandler.NewHandler(formSvc, patientSvc, appointmentSvc, sourceSvc),
		appointmentHandler.NewHandler(appointmentSvc),
		patientHandler.NewHandler(patientSvc),
		slotHandler.NewHandler(slotSvc),
		sourceHandler.NewHandler(sourceSvc),
		router.RouterConfig{
			RateLimit:     rate.Limit(cfg.Server.RateLimitRPS),
			RateBurst:     cfg.Server.RateLimitBurst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "agenda_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The API also drains the outbox so a single-process deployment works
	// without the standalone worker.
	broker, err := redisBroker.NewRedisBroker(redisBroker.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   cfg.Redis.MaxRetries,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
	}, log.Zerolog())
	if err != nil {
		log.Warn("redis unavailable, outbox draining disabled", "error", err.Error())
	} else {
		defer broker.Close()
		processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
			BatchSize:      cfg.Outbox.BatchSize,
			PollInterval:   cfg.Outbox.PollInterval(),
			RetryAttempts:  cfg.Outbox.RetryAttempts,
			RetryDelay:     cfg.Outbox.RetryDelay(),
			RetentionHours: cfg.Outbox.RetentionHours,
		}, log, m)
		go processor.Start(ctx)
	}

	go func() {
		log.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal(err, "failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal(err, "server forced to shutdown")
	}

	log.Info("server exited properly")
}
