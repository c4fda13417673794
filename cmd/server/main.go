package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"time"

	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/config"
	gmailrepo "github.com/venturalabs/ventura/internal/repository/gmail"
	"github.com/venturalabs/ventura/internal/repository/mongodb"
	"github.com/venturalabs/ventura/internal/scheduler"
	"github.com/venturalabs/ventura/internal/server/handlers"
	"github.com/venturalabs/ventura/internal/server/router"
	"github.com/venturalabs/ventura/internal/service/actions"
	alertssvc "github.com/venturalabs/ventura/internal/service/alerts"
	discountsvc "github.com/venturalabs/ventura/internal/service/discount"
	"github.com/venturalabs/ventura/internal/service/scanqueue"
	"github.com/venturalabs/ventura/pkg/clients/reasoning"
	"github.com/venturalabs/ventura/pkg/clients/vision"
	"github.com/venturalabs/ventura/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	baseLogger := logger.Must(logger.New())
	defer func() { _ = baseLogger.Sync() }()

	zap.ReplaceGlobals(baseLogger)

	repo, err := mongodb.NewMongoProductRepository(context.Background(), cfg.MongoDB.URI, cfg.MongoDB.DBName)
	if err != nil {
		baseLogger.Fatal("failed to init mongodb repository", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			baseLogger.Error("failed to close mongodb connection", zap.Error(err))
		}
	}()

	reasoningClient := reasoning.NewClient(cfg.Reasoning)

	var visionClient vision.Client
	if cfg.Vision.APIKey != "" {
		visionClient = vision.NewClient(cfg.Vision)
		baseLogger.Info("vision extraction client enabled")
	} else {
		baseLogger.Warn("vision api key missing, photo ingestion disabled")
	}

	queue := scanqueue.New()
	proposer := actions.NewProposer(repo, reasoningClient, baseLogger.Named("svc.proposer"))
	executor := actions.NewExecutor(repo, baseLogger.Named("svc.executor"))
	discountSvc := discountsvc.NewService(repo, reasoningClient, baseLogger.Named("svc.discount"))

	var alertsSvc *alertssvc.Service
	if cfg.Alerts.To != "" {
		sender, err := gmailrepo.NewSender(context.Background(), cfg.Alerts, baseLogger.Named("repo.gmail"))
		if err != nil {
			baseLogger.Fatal("failed to init gmail sender", zap.Error(err))
		}
		alertsSvc = alertssvc.NewService(repo, sender, cfg.Alerts.MinQuantity, baseLogger.Named("svc.alerts"))
		baseLogger.Info("inventory email alerts enabled")
	} else {
		baseLogger.Warn("alert recipient missing, email alerts disabled")
	}

	productHandler := handlers.NewProductHandler(repo, baseLogger.Named("handlers.products"))
	actionHandler := handlers.NewActionHandler(proposer, executor, baseLogger.Named("handlers.actions"))
	scanHandler := handlers.NewScanHandler(queue, visionClient, baseLogger.Named("handlers.scans"))
	engine := router.New(productHandler, actionHandler, scanHandler, baseLogger.Named("router"))

	sched := scheduler.NewScheduler(cfg.Alerts, alertsSvc, discountSvc, baseLogger.Named("scheduler"))
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Reasoning.Timeout + 15*time.Second,
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
