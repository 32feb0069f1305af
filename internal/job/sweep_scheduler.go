// Package job provides background job schedulers.
package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// DefaultSweepInterval is how often expired cache entries are evicted.
const DefaultSweepInterval = time.Minute

// CacheCleaner evicts expired cache entries.
type CacheCleaner interface {
	CleanupCache(ctx context.Context) (int, error)
}

// SweepScheduler periodically evicts expired cache entries so that keys
// written once and never read again do not accumulate. It only deletes and
// never blocks readers for longer than a single map sweep.
type SweepScheduler struct {
	cleaner  CacheCleaner
	interval time.Duration
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewSweepScheduler creates a new SweepScheduler.
func NewSweepScheduler(cleaner CacheCleaner, interval time.Duration, logger *zap.Logger) *SweepScheduler {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}

	return &SweepScheduler{
		cleaner:  cleaner,
		interval: interval,
		logger:   logger,
	}
}

// Start begins the background sweep.
func (s *SweepScheduler) Start() {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting cache sweep scheduler",
		zap.Duration("interval", s.interval),
	)

	s.wg.Add(1)
	go s.run()
}

// Stop cancels the sweep and waits for a running pass to finish.
func (s *SweepScheduler) Stop() {
	s.logger.Info("stopping cache sweep scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("cache sweep scheduler stopped")
}

func (s *SweepScheduler) run() {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.sweep()
		}
	}
}

func (s *SweepScheduler) sweep() {
	removed, err := s.cleaner.CleanupCache(s.ctx)
	if err != nil {
		s.logger.Warn("cache sweep failed", zap.Error(err))
		return
	}

	if removed > 0 {
		s.logger.Debug("expired cache entries evicted",
			zap.Int("removed", removed),
		)
	}
}
