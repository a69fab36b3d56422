package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper is the maintenance job the worker runs.
type Sweeper interface {
	SweepStale(ctx context.Context) (int, error)
}

// SweepWorker runs Sweeper on a cron schedule.
type SweepWorker struct {
	cron    *cron.Cron
	sweeper Sweeper
	logger  *zap.Logger
	timeout time.Duration
}

// NewSweepWorker parses schedule (standard five-field spec or a descriptor such
// as "@daily") and registers the sweep job. Call Start to begin running it.
func NewSweepWorker(schedule string, sweeper Sweeper, logger *zap.Logger) (*SweepWorker, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &SweepWorker{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		sweeper: sweeper,
		logger:  logger,
		timeout: 5 * time.Minute,
	}
	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule %q: %w", schedule, err)
	}
	return w, nil
}

func (w *SweepWorker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()

	start := time.Now()
	n, err := w.sweeper.SweepStale(ctx)
	if err != nil {
		w.logger.Error("Stale appointment sweep failed", zap.Int("cancelled", n), zap.Error(err))
		return
	}
	w.logger.Info("Stale appointment sweep completed", zap.Int("cancelled", n), zap.Duration("took", time.Since(start)))
}

// Start runs the scheduler in its own goroutine.
func (w *SweepWorker) Start() {
	w.cron.Start()
	for _, e := range w.cron.Entries() {
		w.logger.Info("Sweep worker scheduled", zap.Time("next", e.Next))
	}
}

// Stop halts scheduling and waits for a running sweep to finish or ctx to expire.
func (w *SweepWorker) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
		w.logger.Warn("Sweep worker did not stop in time")
	}
}
