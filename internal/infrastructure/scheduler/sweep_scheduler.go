package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// defaultSweepJobTimeout bounds a single sweep run
const defaultSweepJobTimeout = 5 * time.Minute

// LocalSubscriptionSweeper is the slice of the subscription service the
// sweeper drives: expire locally-managed ACTIVE subscriptions whose end
// date has passed
type LocalSubscriptionSweeper interface {
	CleanupLocalStatuses(ctx context.Context) (int, error)
}

// LocalSubscriptionSweepScheduler periodically expires locally-managed
// subscriptions. Provider-managed ones transition via webhooks instead.
type LocalSubscriptionSweepScheduler struct {
	service    LocalSubscriptionSweeper
	interval   time.Duration
	jobTimeout time.Duration
	logger     *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewLocalSubscriptionSweepScheduler creates a new sweep scheduler
func NewLocalSubscriptionSweepScheduler(service LocalSubscriptionSweeper, interval time.Duration, logger *zap.Logger) *LocalSubscriptionSweepScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalSubscriptionSweepScheduler{
		service:    service,
		interval:   interval,
		jobTimeout: defaultSweepJobTimeout,
		logger:     logger.Named("subscription-sweep"),
	}
}

// Start launches the sweep loop. An immediate sweep runs before the
// first tick.
func (s *LocalSubscriptionSweepScheduler) Start(ctx context.Context) {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = true
	ctx, s.cancel = context.WithCancel(ctx)
	s.mu.Unlock()

	s.wg.Add(1)
	go s.run(ctx)
	s.logger.Info("subscription sweep scheduler started", zap.Duration("interval", s.interval))
}

// Stop stops the sweep loop and waits for an in-flight sweep to finish
func (s *LocalSubscriptionSweepScheduler) Stop() {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return
	}
	s.isRunning = false
	cancel := s.cancel
	s.mu.Unlock()

	cancel()
	s.wg.Wait()
	s.logger.Info("subscription sweep scheduler stopped")
}

func (s *LocalSubscriptionSweepScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.sweep(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *LocalSubscriptionSweepScheduler) sweep(ctx context.Context) {
	jobCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	expired, err := s.service.CleanupLocalStatuses(jobCtx)
	if err != nil {
		s.logger.Error("subscription sweep failed", zap.Error(err))
		return
	}
	if expired > 0 {
		s.logger.Info("expired local subscriptions", zap.Int("count", expired))
	}
}
