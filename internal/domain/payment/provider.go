package payment

import (
	"context"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/subscription"
)

// Provider abstracts a payment provider's subscription lifecycle
// operations. Implementations talk to the remote provider and report
// whether the remote side accepted the change; local state transitions
// happen afterwards in the application layer.
type Provider interface {
	// Slug identifies the provider ("offline", "stripe", ...)
	Slug() string

	// SupportsSubscriptionDiscounts reports whether discounts can be
	// attached to an already-running subscription on this provider
	SupportsSubscriptionDiscounts() bool

	// ChangePlan moves the subscription onto the given plan at the provider
	ChangePlan(ctx context.Context, sub *subscription.Subscription, plan *catalog.Plan, withProration bool) (bool, error)

	// CancelSubscription schedules cancellation at the end of the cycle
	CancelSubscription(ctx context.Context, sub *subscription.Subscription) (bool, error)

	// DiscardSubscriptionCancellation reverts a pending cancellation
	DiscardSubscriptionCancellation(ctx context.Context, sub *subscription.Subscription) (bool, error)

	// AddDiscountToSubscription applies the discount to future invoices
	AddDiscountToSubscription(ctx context.Context, sub *subscription.Subscription, disc *discount.Discount, code *discount.DiscountCode) (bool, error)

	// ReportUsage pushes metered units to the provider. A false return
	// without error means the provider rejected the report.
	ReportUsage(ctx context.Context, sub *subscription.Subscription, unitCount int64) (bool, error)
}

// ProviderRegistry resolves providers by slug
type ProviderRegistry interface {
	Get(slug string) (Provider, error)
}
