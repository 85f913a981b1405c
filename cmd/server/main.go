package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-console/internal/config"
	"github.com/mamadbah2/inventory-console/internal/repository/mongodb"
	"github.com/mamadbah2/inventory-console/internal/repository/sheets"
	"github.com/mamadbah2/inventory-console/internal/scheduler"
	"github.com/mamadbah2/inventory-console/internal/server/handlers"
	"github.com/mamadbah2/inventory-console/internal/server/router"
	consolesvc "github.com/mamadbah2/inventory-console/internal/service/console"
	healthsvc "github.com/mamadbah2/inventory-console/internal/service/health"
	inventoryclient "github.com/mamadbah2/inventory-console/pkg/clients/inventory"
	"github.com/mamadbah2/inventory-console/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New(cfg.Log.Level))
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	apiClient := inventoryclient.NewClient(inventoryclient.Options{
		BaseURL:     cfg.Inventory.BaseURL,
		Timeout:     cfg.Inventory.Timeout,
		EscapeQuery: cfg.Inventory.EscapeQuery,
	}, baseLogger.Named("client.inventory"))

	opts := consolesvc.Options{EscapeQuery: cfg.Inventory.EscapeQuery}

	if cfg.MongoDB.Enabled() {
		mongoRepo, err := mongodb.NewMongoDBRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
		if err != nil {
			baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
		}
		defer func() {
			if err := mongoRepo.Close(context.Background()); err != nil {
				baseLogger.Error("failed to close mongodb connection", zap.Error(err))
			}
		}()
		opts.Journal = mongoRepo
		baseLogger.Info("operation journal enabled", zap.String("db", cfg.MongoDB.DBName))
	} else {
		baseLogger.Warn("mongodb uri missing, operation journal disabled")
	}

	if cfg.Sheets.Enabled() {
		sheetsRepo, err := sheets.NewGoogleSheetRepository(context.Background(), cfg.Sheets, baseLogger.Named("repo.sheets"))
		if err != nil {
			baseLogger.Fatal("failed to init sheets repository", zap.Error(err))
		}
		opts.Exporter = sheetsRepo
		baseLogger.Info("results export enabled", zap.String("range", cfg.Sheets.Range))
	}

	consoleSvc := consolesvc.NewService(apiClient, opts, baseLogger.Named("svc.console"))
	defer consoleSvc.Close()

	monitor := healthsvc.NewMonitor(apiClient, baseLogger.Named("svc.health"))

	sched := scheduler.NewScheduler(cfg.Health, monitor, baseLogger.Named("scheduler"))
	if err := sched.Start(); err != nil {
		baseLogger.Fatal("failed to start scheduler", zap.Error(err))
	}
	defer sched.Stop()

	consoleHandler := handlers.NewConsoleHandler(consoleSvc, monitor, baseLogger.Named("handlers.console"))
	engine := router.New(consoleHandler, baseLogger.Named("router"))

	srv := &http.Server{
		Addr:        ":" + cfg.Server.Port,
		Handler:     engine,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	go func() {
		baseLogger.Info("server starting",
			zap.String("port", cfg.Server.Port),
			zap.String("backend", cfg.Inventory.BaseURL))
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
