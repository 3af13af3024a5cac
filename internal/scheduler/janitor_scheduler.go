package scheduler

import (
	"context"
	"time"

	"github.com/coupleswish/wishes-backend/pkg/logger"
	"github.com/coupleswish/wishes-backend/pkg/metrics"
	"github.com/robfig/cron/v3"
)

const JanitorJobName = "dissolve-empty-couples"

// CoupleSweeper removes couples that no user references.
type CoupleSweeper interface {
	DissolveEmptyCouples(ctx context.Context) (int, error)
}

// JanitorScheduler periodically dissolves empty couples.
type JanitorScheduler struct {
	cron     *cron.Cron
	sweeper  CoupleSweeper
	metrics  *metrics.JobMetrics
	schedule string
	timeout  time.Duration
}

func NewJanitorScheduler(sweeper CoupleSweeper, schedule string, jobMetrics *metrics.JobMetrics) *JanitorScheduler {
	return &JanitorScheduler{
		cron:     cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper:  sweeper,
		metrics:  jobMetrics,
		schedule: schedule,
		timeout:  time.Minute,
	}
}

// Start registers the sweep and starts the cron loop.
func (s *JanitorScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.schedule, s.RunOnce); err != nil {
		logger.Error("Failed to add cron job for empty couple sweep", err, map[string]interface{}{
			"schedule": s.schedule,
		})
		return err
	}

	s.cron.Start()
	logger.Info("Janitor scheduler started", map[string]interface{}{
		"schedule": s.schedule,
	})
	return nil
}

// RunOnce performs a single sweep.
func (s *JanitorScheduler) RunOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	start := time.Now()
	dissolved, err := s.sweeper.DissolveEmptyCouples(ctx)
	s.metrics.ObserveDuration(JanitorJobName, time.Since(start))
	s.metrics.AddDissolved(dissolved)

	if err != nil {
		s.metrics.IncFailure(JanitorJobName)
		logger.Error("Empty couple sweep failed", err, map[string]interface{}{
			"dissolved": dissolved,
		})
		return
	}

	s.metrics.IncSuccess(JanitorJobName)
	if dissolved > 0 {
		logger.Info("Empty couple sweep finished", map[string]interface{}{
			"dissolved": dissolved,
		})
	}
}

// Stop stops the cron loop and waits for a running sweep to finish.
func (s *JanitorScheduler) Stop() {
	logger.Info("Stopping janitor scheduler...")
	<-s.cron.Stop().Done()
	logger.Info("Janitor scheduler stopped")
}
