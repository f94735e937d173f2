package scheduler

import (
	"context"
	"sync"
	"time"

	appmetrics "github.com/billingkit/backend/internal/application/metrics"
	"github.com/billingkit/backend/internal/domain/metrics"
	"github.com/billingkit/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// defaultBeatJobTimeout bounds a single beat run
const defaultBeatJobTimeout = 10 * time.Minute

// BeatRunner is the slice of the metrics service the scheduler drives
type BeatRunner interface {
	Beat(ctx context.Context) appmetrics.BeatResult
}

// MetricsBeatScheduler runs the daily metrics beat. It ticks on a short
// check interval and fires the beat once per calendar day, so a late
// process start still produces yesterday's numbers.
type MetricsBeatScheduler struct {
	service       BeatRunner
	checkInterval time.Duration
	jobTimeout    time.Duration
	clock         shared.Clock
	logger        *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	// day the beat last ran for, midnight UTC
	lastRunDay time.Time
}

// NewMetricsBeatScheduler creates a new MetricsBeatScheduler
func NewMetricsBeatScheduler(service BeatRunner, checkInterval time.Duration, clock shared.Clock, logger *zap.Logger) *MetricsBeatScheduler {
	if clock == nil {
		clock = shared.SystemClock{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetricsBeatScheduler{
		service:       service,
		checkInterval: checkInterval,
		jobTimeout:    defaultBeatJobTimeout,
		clock:         clock,
		logger:        logger.Named("metrics-beat"),
	}
}

// Start launches the check loop. An immediate check runs before the
// first tick.
func (s *MetricsBeatScheduler) Start(ctx context.Context) {
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
	s.logger.Info("metrics beat scheduler started", zap.Duration("check_interval", s.checkInterval))
}

// Stop stops the check loop and waits for an in-flight beat to finish
func (s *MetricsBeatScheduler) Stop() {
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
	s.logger.Info("metrics beat scheduler stopped")
}

func (s *MetricsBeatScheduler) run(ctx context.Context) {
	defer s.wg.Done()

	s.checkAndRun(ctx)

	ticker := time.NewTicker(s.checkInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.checkAndRun(ctx)
		}
	}
}

// checkAndRun fires the beat when it has not yet run for the current day
func (s *MetricsBeatScheduler) checkAndRun(ctx context.Context) {
	today := metrics.DayOf(s.clock.Now())

	s.mu.Lock()
	due := !s.lastRunDay.Equal(today)
	s.mu.Unlock()
	if !due {
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, s.jobTimeout)
	defer cancel()

	result := s.service.Beat(jobCtx)

	s.mu.Lock()
	s.lastRunDay = today
	s.mu.Unlock()

	if len(result.Errors) > 0 {
		s.logger.Warn("metrics beat finished with errors",
			zap.Time("date", result.Date),
			zap.Int("computed", result.Computed),
			zap.Errors("errors", result.Errors))
		return
	}
	s.logger.Info("metrics beat finished",
		zap.Time("date", result.Date),
		zap.Int("computed", result.Computed))
}
