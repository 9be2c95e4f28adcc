package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/database"
	"github.com/lelani/transport-backend/internal/handler"
	"github.com/lelani/transport-backend/internal/logger"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/lelani/transport-backend/internal/router"
	"github.com/lelani/transport-backend/internal/service"
	"github.com/lelani/transport-backend/internal/validator"
	"github.com/lelani/transport-backend/internal/worker"
	"github.com/rs/zerolog"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat, cfg.LogFile)
	log.Info().
		Str("port", cfg.ServerPort).
		Str("mode", cfg.GinMode).
		Str("log_level", cfg.LogLevel).
		Msg("Starting Transport Backend")

	// ─── Initialize Validator ──────────────────────────────────────────
	validator.Setup(cfg.PhoneCountryCode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		log.Fatal().Err(err).Str("dir", cfg.UploadDir).Msg("Failed to create upload directory")
	}

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Connect to Redis ──────────────────────────────────────────────
	rdb, err := database.NewRedisClient(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()

	// ─── Initialize Repositories ───────────────────────────────────────
	learnerRepo := repository.NewLearnerRepository(pool)
	routeRepo := repository.NewRouteRepository(pool)
	driverRepo := repository.NewDriverRepository(pool)
	minderRepo := repository.NewMinderRepository(pool)
	vehicleRepo := repository.NewVehicleRepository(pool)
	areaRepo := repository.NewAreaRepository(pool)
	gradeRepo := repository.NewGradeRepository(pool)
	settingRepo := repository.NewSettingRepository(pool)
	auditRepo := repository.NewAuditRepository(pool)
	dashboardRepo := repository.NewDashboardRepository(pool)

	// ─── Initialize Services ──────────────────────────────────────────
	authService := service.NewAuthService(cfg, rdb, driverRepo, log)
	auditService := service.NewAuditService(auditRepo, rdb, log)
	learnerService := service.NewLearnerService(learnerRepo, auditService, log)
	routeService := service.NewRouteService(routeRepo, log)
	driverService := service.NewDriverService(driverRepo, authService, log)
	fleetService := service.NewFleetService(minderRepo, vehicleRepo, areaRepo, log)
	settingService := service.NewSettingService(settingRepo, gradeRepo, cfg.DefaultSchoolName, log)
	mediaService := service.NewMediaService(cfg)
	dashboardService := service.NewDashboardService(dashboardRepo, auditRepo, rdb, log)
	importService := service.NewImportService(learnerRepo, areaRepo, routeRepo, auditService, cfg.PhoneCountryCode, log)
	rolloverService := service.NewRolloverService(routeRepo, learnerRepo, auditService, log)
	reportService := service.NewReportService(
		learnerRepo,
		routeRepo,
		driverRepo,
		minderRepo,
		settingService,
		service.NewRedisLock(rdb),
		cfg,
		log,
	)

	// ─── Initialize Handlers ──────────────────────────────────────────
	handlers := &router.Handlers{
		Auth:      handler.NewAuthHandler(authService),
		Learner:   handler.NewLearnerHandler(learnerService, auditService),
		Route:     handler.NewRouteHandler(routeService),
		Driver:    handler.NewDriverHandler(driverService),
		Fleet:     handler.NewFleetHandler(fleetService),
		Setting:   handler.NewSettingHandler(settingService),
		Media:     handler.NewMediaHandler(mediaService, settingService),
		Dashboard: handler.NewDashboardHandler(dashboardService),
		Audit:     handler.NewAuditHandler(auditService),
		Import:    handler.NewImportHandler(importService, cfg.MaxUploadBytes),
		Rollover:  handler.NewRolloverHandler(rolloverService),
		Report:    handler.NewReportHandler(reportService),
	}

	// ─── Start Background Workers ─────────────────────────────────────
	workerCtx, workerCancel := context.WithCancel(context.Background())
	workerDone := make(chan struct{})

	auditWorker := worker.NewAuditWorker(auditRepo, rdb, log)
	go func() {
		defer close(workerDone)
		auditWorker.Start(workerCtx)
	}()

	// ─── Setup Router ──────────────────────────────────────────────────
	r := router.SetupRouter(ctx, authService, handlers, cfg)

	// ─── Create HTTP Server ────────────────────────────────────────────
	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// ─── Start Server in Goroutine ─────────────────────────────────────
	go func() {
		log.Info().Str("addr", ":"+cfg.ServerPort).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// ─── Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("Shutting down gracefully...")

	// 1. Stop accepting new HTTP requests. Report rendering can take a few seconds.
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}

	// 2. Stop the audit worker and wait for its queue to drain.
	workerCancel()
	select {
	case <-workerDone:
	case <-time.After(10 * time.Second):
		log.Warn().Msg("Audit worker did not stop in time")
	}

	log.Info().Msg("Shutdown complete")
}

// init sets zerolog global defaults before main runs.
func init() {
	zerolog.TimeFieldFormat = time.RFC3339
}
