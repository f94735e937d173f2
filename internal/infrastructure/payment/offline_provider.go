package payment

import (
	"context"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/subscription"
	"go.uber.org/zap"
)

// OfflineProvider is the provider for locally-managed subscriptions.
// There is no remote side, so every lifecycle operation is accepted
// and the state change lives entirely in the local database.
type OfflineProvider struct {
	logger *zap.Logger
}

// NewOfflineProvider creates a new OfflineProvider
func NewOfflineProvider(logger *zap.Logger) *OfflineProvider {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OfflineProvider{logger: logger.Named("offline-provider")}
}

// Slug identifies the provider
func (p *OfflineProvider) Slug() string {
	return subscription.ProviderSlugOffline
}

// SupportsSubscriptionDiscounts reports whether running subscriptions
// can receive discounts
func (p *OfflineProvider) SupportsSubscriptionDiscounts() bool {
	return true
}

// ChangePlan accepts the plan change; pricing is rewritten locally
func (p *OfflineProvider) ChangePlan(_ context.Context, sub *subscription.Subscription, plan *catalog.Plan, withProration bool) (bool, error) {
	p.logger.Info("plan change accepted",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("plan_id", plan.ID.String()),
		zap.Bool("proration", withProration))
	return true, nil
}

// CancelSubscription accepts the scheduled cancellation
func (p *OfflineProvider) CancelSubscription(_ context.Context, sub *subscription.Subscription) (bool, error) {
	p.logger.Info("cancellation accepted", zap.String("subscription_id", sub.ID.String()))
	return true, nil
}

// DiscardSubscriptionCancellation accepts the revert
func (p *OfflineProvider) DiscardSubscriptionCancellation(_ context.Context, sub *subscription.Subscription) (bool, error) {
	p.logger.Info("cancellation discarded", zap.String("subscription_id", sub.ID.String()))
	return true, nil
}

// AddDiscountToSubscription accepts the grant; the snapshot written by
// the caller is the source of truth for local price calculation
func (p *OfflineProvider) AddDiscountToSubscription(_ context.Context, sub *subscription.Subscription, disc *discount.Discount, code *discount.DiscountCode) (bool, error) {
	p.logger.Info("discount attached",
		zap.String("subscription_id", sub.ID.String()),
		zap.String("discount_id", disc.ID.String()),
		zap.String("code", code.Code))
	return true, nil
}

// ReportUsage accepts the report; units are persisted locally
func (p *OfflineProvider) ReportUsage(_ context.Context, sub *subscription.Subscription, unitCount int64) (bool, error) {
	p.logger.Debug("usage reported",
		zap.String("subscription_id", sub.ID.String()),
		zap.Int64("units", unitCount))
	return true, nil
}
