package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/venturalabs/ventura/internal/config"
	"github.com/venturalabs/ventura/internal/service/alerts"
	"github.com/venturalabs/ventura/internal/service/discount"
)

// Scheduler manages the recurring inventory jobs.
type Scheduler struct {
	cron        *cron.Cron
	alertsSvc   *alerts.Service
	discountSvc *discount.Service
	cfg         config.AlertsConfig
	logger      *zap.Logger
}

// NewScheduler creates a new scheduler instance. Either service may be
// nil; the corresponding job is simply not registered.
func NewScheduler(cfg config.AlertsConfig, alertsSvc *alerts.Service, discountSvc *discount.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Scheduler{
		cron:        cron.New(),
		alertsSvc:   alertsSvc,
		discountSvc: discountSvc,
		cfg:         cfg,
		logger:      logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler")

	if s.alertsSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.runAlerts); err != nil {
			s.logger.Error("failed to schedule inventory alerts", zap.Error(err))
		}
	}
	if s.discountSvc != nil {
		if _, err := s.cron.AddFunc(s.cfg.DiscountCronSchedule, s.runDiscount); err != nil {
			s.logger.Error("failed to schedule discount pass", zap.Error(err))
		}
	}

	s.cron.Start()
}

// Stop stops the scheduler.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) runAlerts() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.alertsSvc.Run(ctx); err != nil {
		s.logger.Error("inventory alert pass failed", zap.Error(err))
	}
}

func (s *Scheduler) runDiscount() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if err := s.discountSvc.Run(ctx); err != nil {
		s.logger.Error("discount pass failed", zap.Error(err))
	}
}
