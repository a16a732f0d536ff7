package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/aquafarm/internal/config"
	"github.com/mamadbah2/aquafarm/internal/repository/mongodb"
	pgsource "github.com/mamadbah2/aquafarm/internal/repository/postgrest"
	"github.com/mamadbah2/aquafarm/internal/repository/sheets"
	"github.com/mamadbah2/aquafarm/internal/scheduler"
	"github.com/mamadbah2/aquafarm/internal/server/handlers"
	"github.com/mamadbah2/aquafarm/internal/server/router"
	"github.com/mamadbah2/aquafarm/internal/service/analytics"
	benchmarkingsvc "github.com/mamadbah2/aquafarm/internal/service/benchmarking"
	optimizersvc "github.com/mamadbah2/aquafarm/internal/service/optimizer"
	reportingsvc "github.com/mamadbah2/aquafarm/internal/service/reporting"
	"github.com/mamadbah2/aquafarm/pkg/clients/postgrest"
	"github.com/mamadbah2/aquafarm/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	mongoRepo, err := mongodb.NewRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName, logger.Named(baseLogger, "repo.mongodb"))
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := mongoRepo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		baseLogger.Fatal("failed to load timezone", zap.Error(err))
	}

	// reports are always archived in MongoDB; the sheets log is added when sheets is the source
	var source analytics.Source = mongoRepo
	stores := reportingsvc.MultiStore{mongoRepo}

	switch cfg.Data.Source {
	case config.SourceSheets:
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, logger.Named(baseLogger, "repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		source = sheets.NewSource(sheetsRepo, loc, logger.Named(baseLogger, "repo.sheets"))
		stores = append(stores, sheets.NewReportLog(sheetsRepo))
	case config.SourcePostgREST:
		source = pgsource.NewSource(postgrest.NewClient(cfg.PostgREST), loc, logger.Named(baseLogger, "repo.postgrest"))
	}
	baseLogger.Info("data source selected", zap.String("source", cfg.Data.Source))

	engine := analytics.NewEngine(cfg.Analytics, loc, cfg.Data.Workers)

	renderer, err := reportingsvc.NewRenderer(cfg.Reporting.Locale)
	if err != nil {
		baseLogger.Fatal("failed to init report renderer", zap.Error(err))
	}
	composer := reportingsvc.NewComposer(engine, cfg.Reporting.Locale)

	reportingSvc := reportingsvc.NewService(source, composer, renderer, stores, cfg.Data.ReadTimeout, logger.Named(baseLogger, "svc.reporting"))
	optimizerSvc := optimizersvc.NewService(source, engine, cfg.Data.ReadTimeout, logger.Named(baseLogger, "svc.optimizer"))
	benchmarkingSvc := benchmarkingsvc.NewService(source, engine, mongoRepo, cfg.Data.ReadTimeout, logger.Named(baseLogger, "svc.benchmarking"))

	analyticsHandler := handlers.NewAnalyticsHandler(optimizerSvc, reportingSvc, benchmarkingSvc, logger.Named(baseLogger, "handlers.analytics"))
	r := router.New(analyticsHandler, logger.Named(baseLogger, "router"))

	sched, err := scheduler.NewScheduler(cfg.Reporting, reportingSvc, logger.Named(baseLogger, "scheduler"))
	if err != nil {
		baseLogger.Fatal("failed to init scheduler", zap.Error(err))
	}
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Data.ReadTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			baseLogger.Fatal("http server crashed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	baseLogger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		baseLogger.Error("graceful shutdown failed", zap.Error(err))
	}
}
