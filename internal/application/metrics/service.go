package metrics

import (
	"context"
	"fmt"
	"time"

	"github.com/billingkit/backend/internal/domain/identity"
	"github.com/billingkit/backend/internal/domain/metrics"
	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// intervalDivisor normalizes a billing interval to the 30-day-month
// convention. The year entry is 360 (12 x 30) on purpose so every
// interval reduces through the same month length.
var intervalDivisor = map[string]int64{
	"DAY":   1,
	"WEEK":  7,
	"MONTH": 30,
	"YEAR":  360,
}

// Service computes the daily business KPIs and writes them as
// day-bucketed metric points. Each metric is computed independently:
// one failure never blocks the remaining six.
type Service struct {
	metricRepo      metrics.Repository
	subRepo         subscription.Repository
	transactionRepo payment.Repository
	userRepo        identity.Repository
	clock           shared.Clock
	logger          *zap.Logger
}

// NewService creates a new metrics Service
func NewService(metricRepo metrics.Repository, subRepo subscription.Repository, transactionRepo payment.Repository, userRepo identity.Repository, clock shared.Clock, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &Service{
		metricRepo:      metricRepo,
		subRepo:         subRepo,
		transactionRepo: transactionRepo,
		userRepo:        userRepo,
		clock:           clock,
		logger:          logger,
	}
}

// BeatResult reports how a beat run went
type BeatResult struct {
	Date     time.Time
	Computed int
	Errors   []error
}

// Beat computes and upserts the daily metrics for yesterday, the last
// fully observed day. Safe to re-run: every write is an upsert on the
// (metric, day) pair.
func (s *Service) Beat(ctx context.Context) BeatResult {
	// midnight today is the end-of-day instant of yesterday
	reference := metrics.DayOf(s.clock.Now())
	date := reference.AddDate(0, 0, -1)

	result := BeatResult{Date: date}

	steps := []struct {
		name string
		fn   func(context.Context, time.Time, time.Time) error
	}{
		{metrics.MetricTotalUsers, s.storeTotalUsers},
		{metrics.MetricMRR, s.storeMRR},
		{metrics.MetricDailyRevenue, s.storeDailyRevenue},
		{metrics.MetricARPU, s.storeARPU},
		{metrics.MetricActiveSubscriptions, s.storeActiveSubscriptions},
		{metrics.MetricConversionRate, s.storeConversionRate},
		{metrics.MetricChurnRate, s.storeChurnRate},
	}

	for _, step := range steps {
		if err := step.fn(ctx, date, reference); err != nil {
			s.logger.Error("metric computation failed",
				zap.String("metric", step.name),
				zap.Error(err))
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", step.name, err))
			continue
		}
		result.Computed++
	}
	return result
}

// Series returns the named metric rolled up to the given granularity
func (s *Service) Series(ctx context.Context, name string, from, to time.Time, granularity metrics.Granularity, aggregate metrics.Aggregate) ([]metrics.SeriesPoint, error) {
	points, err := s.metricRepo.FindDataPoints(ctx, name, from, to)
	if err != nil {
		return nil, err
	}
	return metrics.AdjustToPeriod(points, granularity, aggregate)
}

func (s *Service) storeTotalUsers(ctx context.Context, date, reference time.Time) error {
	count, err := s.userRepo.CountCreatedBefore(ctx, reference)
	if err != nil {
		return err
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricTotalUsers, date, decimal.NewFromInt(count))
}

// storeMRR sums the monthly-equivalent price of every subscription
// that is ACTIVE at the reference instant, excluding subscriptions
// past their end and subscriptions still inside a trial
func (s *Service) storeMRR(ctx context.Context, date, reference time.Time) error {
	active, err := s.subRepo.FindAllByStatus(ctx, subscription.StatusActive)
	if err != nil {
		return err
	}

	total := decimal.Zero
	for i := range active {
		sub := &active[i]
		if sub.EndsAt != nil && !sub.EndsAt.After(reference) {
			continue
		}
		if sub.TrialEndsAt != nil && sub.TrialEndsAt.After(reference) {
			continue
		}
		divisor, ok := intervalDivisor[sub.IntervalUnit.String()]
		if !ok {
			continue
		}
		// multiply before dividing so monthly amounts stay exact
		contribution := decimal.NewFromInt(sub.Price).
			Mul(decimal.NewFromInt(int64(sub.IntervalCount))).
			Mul(decimal.NewFromInt(30)).
			Div(decimal.NewFromInt(divisor))
		total = total.Add(contribution)
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricMRR, date, total)
}

func (s *Service) storeDailyRevenue(ctx context.Context, date, reference time.Time) error {
	earned, err := s.transactionRepo.SumAmountByStatus(ctx, payment.TransactionStatusSuccess, date, reference)
	if err != nil {
		return err
	}
	refunded, err := s.transactionRepo.SumAmountByStatus(ctx, payment.TransactionStatusRefunded, date, reference)
	if err != nil {
		return err
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricDailyRevenue, date, decimal.NewFromInt(earned-refunded))
}

// storeARPU divides cumulative successful revenue by the user count
// and records the cumulative figure as total_revenue along the way
func (s *Service) storeARPU(ctx context.Context, date, reference time.Time) error {
	revenue, err := s.transactionRepo.SumAmountByStatus(ctx, payment.TransactionStatusSuccess, time.Time{}, reference)
	if err != nil {
		return err
	}
	if err := s.metricRepo.UpsertDataPoint(ctx, metrics.MetricTotalRevenue, date, decimal.NewFromInt(revenue)); err != nil {
		return err
	}

	users, err := s.userRepo.CountCreatedBefore(ctx, reference)
	if err != nil {
		return err
	}
	arpu := decimal.Zero
	if users > 0 {
		arpu = decimal.NewFromInt(revenue).Div(decimal.NewFromInt(users))
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricARPU, date, arpu)
}

func (s *Service) storeActiveSubscriptions(ctx context.Context, date, reference time.Time) error {
	count, err := s.subRepo.CountByStatus(ctx, subscription.StatusActive)
	if err != nil {
		return err
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricActiveSubscriptions, date, decimal.NewFromInt(count))
}

func (s *Service) storeConversionRate(ctx context.Context, date, reference time.Time) error {
	users, err := s.userRepo.CountCreatedBefore(ctx, reference)
	if err != nil {
		return err
	}
	subscribed, err := s.subRepo.CountDistinctSubscribedUsers(ctx, reference)
	if err != nil {
		return err
	}

	rate := decimal.Zero
	if users > 0 {
		rate = decimal.NewFromInt(subscribed).
			Div(decimal.NewFromInt(users)).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricConversionRate, date, rate)
}

// storeChurnRate divides the subscriptions lost over the trailing
// month by the active-subscription snapshot a prior beat stored before
// that window. No snapshot means no base: the rate is reported as 0
// rather than recomputed from live data.
func (s *Service) storeChurnRate(ctx context.Context, date, reference time.Time) error {
	windowStart := reference.AddDate(0, -1, 0)

	lost, err := s.subRepo.CountLostBetween(ctx, windowStart, reference)
	if err != nil {
		return err
	}

	base, err := s.metricRepo.LatestPointBefore(ctx, metrics.MetricActiveSubscriptions, windowStart)
	if err != nil {
		return err
	}

	churn := decimal.Zero
	if base != nil && base.Value.IsPositive() {
		churn = decimal.NewFromInt(lost).
			Div(base.Value).
			Mul(decimal.NewFromInt(100))
	}
	return s.metricRepo.UpsertDataPoint(ctx, metrics.MetricChurnRate, date, churn)
}
