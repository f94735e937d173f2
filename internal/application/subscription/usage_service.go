package subscription

import (
	"context"
	"time"

	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// UsageService records metered consumption against usage-based
// subscriptions. For provider-managed subscriptions the report goes
// to the provider first and is only persisted locally once accepted,
// so the local ledger never claims more than the provider billed.
type UsageService struct {
	subRepo   subscription.Repository
	usageRepo subscription.UsageRecordRepository
	providers payment.ProviderRegistry
	clock     shared.Clock
	logger    *zap.Logger
}

// NewUsageService creates a new UsageService
func NewUsageService(subRepo subscription.Repository, usageRepo subscription.UsageRecordRepository, providers payment.ProviderRegistry, clock shared.Clock, logger *zap.Logger) *UsageService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = shared.SystemClock{}
	}
	return &UsageService{
		subRepo:   subRepo,
		usageRepo: usageRepo,
		providers: providers,
		clock:     clock,
		logger:    logger,
	}
}

// ReportUsage reports unitCount consumed units for the user's active
// usage-based subscription
func (s *UsageService) ReportUsage(ctx context.Context, userID uuid.UUID, unitCount int64) error {
	sub, err := s.subRepo.FindActiveUsageBasedByUser(ctx, userID)
	if err != nil {
		return err
	}

	record, err := subscription.NewUsageRecord(sub.ID, unitCount, s.clock.Now())
	if err != nil {
		return err
	}

	if sub.IsProviderManaged() {
		provider, err := s.providers.Get(sub.ProviderSlug)
		if err != nil {
			return err
		}
		accepted, err := provider.ReportUsage(ctx, sub, unitCount)
		if err != nil {
			return err
		}
		if !accepted {
			s.logger.Warn("provider rejected usage report",
				zap.String("subscription_id", sub.ID.String()),
				zap.Int64("unit_count", unitCount))
			return shared.NewDomainError("USAGE_REJECTED", "Payment provider rejected the usage report")
		}
	}

	return s.usageRepo.Save(ctx, record)
}

// UsageTotal sums recorded units for a subscription in [from, to)
func (s *UsageService) UsageTotal(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) (int64, error) {
	return s.usageRepo.SumForSubscription(ctx, subscriptionID, from, to)
}
