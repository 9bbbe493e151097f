package cronjob

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

const defaultTimeout = 30 * time.Second

// Refresher re-fills the project cache
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler keeps the project cache warm so visitors rarely wait on GitHub
type Scheduler struct {
	cron      *cron.Cron
	schedule  string
	refresher Refresher
	timeout   time.Duration
	logger    *zap.Logger
}

func NewScheduler(schedule string, refresher Refresher, timeout time.Duration, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Scheduler{
		cron:      cron.New(cron.WithSeconds()),
		schedule:  schedule,
		refresher: refresher,
		timeout:   timeout,
		logger:    logger,
	}
}

// Start registers the refresh job, runs it once immediately and starts the cron loop
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.refresh); err != nil {
		return fmt.Errorf("schedule project refresh %q: %w", s.schedule, err)
	}

	go s.refresh()
	s.cron.Start()
	s.logger.Info("project cache refresher started", zap.String("schedule", s.schedule))
	return nil
}

// Stop stops the cron loop and waits for a running refresh to finish
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	if err := s.refresher.Refresh(ctx); err != nil {
		s.logger.Warn("project cache refresh failed", zap.Error(err))
		return
	}
	s.logger.Debug("project cache refreshed", zap.Duration("took", time.Since(start)))
}
