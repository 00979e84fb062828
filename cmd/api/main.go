package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/BruksfildServices01/agenda-api/internal/audit"
	"github.com/BruksfildServices01/agenda-api/internal/config"
	dbpkg "github.com/BruksfildServices01/agenda-api/internal/db"
	infraRepo "github.com/BruksfildServices01/agenda-api/internal/infra/repository"
	"github.com/BruksfildServices01/agenda-api/internal/logging"
	"github.com/BruksfildServices01/agenda-api/internal/middleware"
	"github.com/BruksfildServices01/agenda-api/internal/observability/metrics"
	"github.com/BruksfildServices01/agenda-api/internal/reminder"
	"github.com/BruksfildServices01/agenda-api/internal/routes"
	"github.com/BruksfildServices01/agenda-api/internal/whatsapp"
)

func main() {
	// .env is optional outside local development
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	db, err := dbpkg.NewDB(cfg)
	if err != nil {
		logger.Error("database unavailable", "error", err)
		os.Exit(1)
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	// ======================================================
	// 🔧 INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)
	clientRepo := infraRepo.NewClientGormRepository(db)

	auditLogger := audit.New(db)
	auditDispatcher := audit.NewDispatcher(auditLogger, logger)

	agendaMetrics := metrics.NewAgendaMetrics(prometheus.DefaultRegisterer)

	gateway, err := whatsapp.NewClient(whatsapp.Config{
		BaseURL: cfg.EvolutionAPIURL,
		Timeout: cfg.EvolutionTimeout,
	})
	if err != nil {
		logger.Error("invalid messaging gateway config", "error", err)
		os.Exit(1)
	}
	messages := whatsapp.NewDispatcher(gateway, logger, agendaMetrics, whatsapp.DispatcherConfig{
		Workers:   cfg.MessageWorkers,
		QueueSize: cfg.MessageQueueSize,
	})

	limiter := newLimiter(ctx, cfg, logger)

	reminders := reminder.NewService(appointmentRepo, messages, logger)
	if cfg.RemindersEnabled {
		if err := reminders.Start(cfg.ReminderCron); err != nil {
			logger.Error("reminder scheduler not started", "error", err)
			os.Exit(1)
		}
	}

	// ======================================================
	// 🌐 HTTP
	// ======================================================
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	routes.RegisterRoutes(r, routes.Deps{
		Config:       cfg,
		Logger:       logger,
		Appointments: appointmentRepo,
		Clients:      clientRepo,
		AuditLogs:    auditLogger,
		Notifier:     messages,
		Auditor:      auditDispatcher,
		Limiter:      limiter,
		Metrics:      agendaMetrics,
		Gatherer:     prometheus.DefaultGatherer,
	})

	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	// drain background work after the last request
	if cfg.RemindersEnabled {
		reminders.Stop()
	}
	messages.Close()
	auditDispatcher.Close()
	stop()

	logger.Info("server stopped")
}

// newLimiter prefers redis so limits hold across replicas.
func newLimiter(ctx context.Context, cfg *config.Config, logger *logging.Logger) middleware.Limiter {
	if cfg.RedisAddr == "" {
		mem := middleware.NewMemoryLimiter(cfg.RateLimitPerMinute)
		go mem.RunSweeper(ctx)
		return mem
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-memory rate limiter", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		mem := middleware.NewMemoryLimiter(cfg.RateLimitPerMinute)
		go mem.RunSweeper(ctx)
		return mem
	}

	logger.Info("rate limiter backed by redis", "addr", cfg.RedisAddr)
	return middleware.NewRedisLimiter(client, cfg.RateLimitPerMinute)
}
