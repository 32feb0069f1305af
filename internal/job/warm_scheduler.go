package job

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"catalog-query-service/pkg/locker"
)

const warmLockKey = "warm:scheduler"

// Warmer pre-populates the cache with the most requested queries.
type Warmer interface {
	Warm(ctx context.Context) error
}

// WarmConfig holds warm scheduler configuration.
type WarmConfig struct {
	Interval  time.Duration
	Timeout   time.Duration
	OnStartup bool
}

// WarmScheduler runs periodic cache warming. With a shared cache the
// distributed lock makes sure only one replica warms per interval.
type WarmScheduler struct {
	warmer   Warmer
	interval time.Duration
	timeout  time.Duration
	locker   locker.DistributedLocker
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWarmScheduler creates a new WarmScheduler.
func NewWarmScheduler(
	warmer Warmer,
	cfg WarmConfig,
	locker locker.DistributedLocker,
	logger *zap.Logger,
) *WarmScheduler {
	return &WarmScheduler{
		warmer:   warmer,
		interval: cfg.Interval,
		timeout:  cfg.Timeout,
		locker:   locker,
		logger:   logger,
	}
}

// Start begins the background warm job.
func (s *WarmScheduler) Start(runOnStartup bool) {
	s.ctx, s.cancel = context.WithCancel(context.Background())

	s.logger.Info("starting cache warm scheduler",
		zap.Duration("interval", s.interval),
		zap.Bool("run_on_startup", runOnStartup),
	)

	s.wg.Add(1)
	go s.run(runOnStartup)
}

// Stop gracefully stops the scheduler.
func (s *WarmScheduler) Stop() {
	s.logger.Info("stopping cache warm scheduler")
	s.cancel()
	s.wg.Wait()
	s.logger.Info("cache warm scheduler stopped")
}

func (s *WarmScheduler) run(runOnStartup bool) {
	defer s.wg.Done()

	if runOnStartup {
		s.executeWarm()
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.executeWarm()
		}
	}
}

// executeWarm warms the cache under a lock whose ttl is the interval.
// On success the lock is kept as a cooldown; on failure it is released so
// another replica can retry on its next tick.
func (s *WarmScheduler) executeWarm() {
	acquired, err := s.locker.Acquire(s.ctx, warmLockKey, s.interval)
	if err != nil {
		s.logger.Error("failed to acquire warm lock", zap.Error(err))
		return
	}
	if !acquired {
		s.logger.Debug("another instance is warming the cache, skipping")
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, s.timeout)
	defer cancel()

	if err := s.warmer.Warm(ctx); err != nil {
		if releaseErr := s.locker.Release(s.ctx, warmLockKey); releaseErr != nil {
			s.logger.Error("failed to release warm lock", zap.Error(releaseErr))
		}
		s.logger.Warn("cache warm failed, lock released for retry", zap.Error(err))
		return
	}

	s.logger.Debug("cache warm succeeded, lock held for cooldown",
		zap.Duration("cooldown", s.interval),
	)
}
