package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/mamadbah2/inventory-console/internal/config"
	"github.com/mamadbah2/inventory-console/internal/domain/models"
)

const probeTimeout = 10 * time.Second

// HealthProber is the part of the health monitor the scheduler drives.
type HealthProber interface {
	Probe(ctx context.Context) models.BackendStatus
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron    *cron.Cron
	monitor HealthProber
	cfg     config.HealthConfig
	logger  *zap.Logger
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(cfg config.HealthConfig, monitor HealthProber, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	// robfig/cron/v3 default parser is standard cron (5 fields) plus descriptors like "@every 30s".
	return &Scheduler{
		cron:    cron.New(),
		monitor: monitor,
		cfg:     cfg,
		logger:  logger,
	}
}

// Start registers the backend probe, runs it once and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.cfg.CronSchedule))

	if _, err := s.cron.AddFunc(s.cfg.CronSchedule, s.probeBackend); err != nil {
		return fmt.Errorf("schedule backend probe %q: %w", s.cfg.CronSchedule, err)
	}

	go s.probeBackend()
	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

func (s *Scheduler) probeBackend() {
	ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
	defer cancel()

	status := s.monitor.Probe(ctx)
	s.logger.Debug("backend probed", zap.Bool("healthy", status.Healthy), zap.String("message", status.Message))
}
