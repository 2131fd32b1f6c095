package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	httphandler "github.com/ogurasousui/attendance-analytics/internal/adapters/http/handler"
	"github.com/ogurasousui/attendance-analytics/internal/adapters/repository/postgres"
	"github.com/ogurasousui/attendance-analytics/internal/core/analytics"
	"github.com/ogurasousui/attendance-analytics/internal/core/attendance"
	"github.com/ogurasousui/attendance-analytics/internal/core/reporting"
	"github.com/ogurasousui/attendance-analytics/internal/core/worker"
	"github.com/ogurasousui/attendance-analytics/internal/platform/config"
	pg "github.com/ogurasousui/attendance-analytics/internal/platform/db/postgres"
	"github.com/ogurasousui/attendance-analytics/internal/platform/logging"
	"github.com/ogurasousui/attendance-analytics/internal/platform/observability"
	"github.com/ogurasousui/attendance-analytics/internal/platform/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "assets/local.yaml"
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger := logging.New(cfg.Logging)

	dbPool, err := pg.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to initialize database pool", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	extractor, err := attendance.NewExtractor(attendance.ExtractorConfig{
		PunctualityThreshold: cfg.Analytics.PunctualityThreshold,
		TargetDailyHours:     cfg.Analytics.TargetDailyHours,
		NeutralScore:         cfg.Analytics.NeutralScore,
		FallbackWorkingDays:  cfg.Analytics.FallbackWorkingDays,
	})
	if err != nil {
		logger.Error("failed to build metric extractor", "error", err)
		os.Exit(1)
	}

	metrics := observability.NewMetrics()

	attendanceRepo := postgres.NewAttendanceRepository(dbPool)
	workerRepo := postgres.NewWorkerRepository(dbPool)
	snapshotRepo := postgres.NewSnapshotRepository(dbPool)

	attendanceSvc := attendance.NewService(attendanceRepo, extractor)
	workerSvc := worker.NewService(workerRepo)
	analyticsSvc := analytics.NewService(workerRepo, attendanceSvc, nil, snapshotRepo, metrics, logger, analytics.Config{
		DefaultClusters: cfg.Analytics.NClusters,
		MetricWorkers:   cfg.Analytics.MetricWorkers,
		RequireActivity: cfg.Analytics.RequireActivity,
	})
	reportingSvc := reporting.NewService(workerRepo, attendanceRepo, attendanceSvc, logger)

	if err := analyticsSvc.RestoreFromStore(ctx); err != nil {
		logger.Warn("failed to restore model snapshot, starting untrained", "error", err)
	}

	router := server.NewRouter(cfg.Server, server.RouterDeps{
		Analytics:  httphandler.NewAnalyticsHandler(analyticsSvc, logger),
		Attendance: httphandler.NewAttendanceHandler(attendanceSvc, logger),
		Worker:     httphandler.NewWorkerHandler(workerSvc, logger),
		Reporting:  httphandler.NewReportingHandler(reportingSvc, logger),
		Metrics:    metrics,
		DB:         dbPool,
		Logger:     logger,
	})

	srv := server.New(logger, cfg.Server, router)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server stopped with error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
			os.Exit(1)
		}
	}
}
