package subscription

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository provides access to subscriptions
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)

	// FindByProviderSubscriptionID locates a subscription by the
	// provider-side identifier used in webhook payloads
	FindByProviderSubscriptionID(ctx context.Context, providerSlug, providerSubscriptionID string) (*Subscription, error)

	// CountNotDeadByUser counts the user's subscriptions still holding
	// the one-per-user slot
	CountNotDeadByUser(ctx context.Context, userID uuid.UUID) (int64, error)

	// FindActiveUsageBasedByUser resolves the user's single active
	// metered subscription, if any
	FindActiveUsageBasedByUser(ctx context.Context, userID uuid.UUID) (*Subscription, error)

	// FindByUserAndStatus returns the user's subscriptions in a status
	FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status Status) ([]Subscription, error)

	// CreateReplacingNew atomically deletes the user's existing NEW
	// rows (any plan) and inserts the fresh checkout attempt
	CreateReplacingNew(ctx context.Context, sub *Subscription) error

	Save(ctx context.Context, sub *Subscription) error

	// MarkPendingIfNew performs the single conditional update
	// NEW+provider-managed -> PENDING; returns false when a concurrent
	// webhook already advanced the status
	MarkPendingIfNew(ctx context.Context, id uuid.UUID) (bool, error)

	// FindExpiredLocalActive returns locally-managed ACTIVE
	// subscriptions whose ends_at is in the past
	FindExpiredLocalActive(ctx context.Context, now time.Time) ([]Subscription, error)

	// SaveTrial records the trial snapshot with first-write-wins
	// semantics; repeats are no-ops
	SaveTrial(ctx context.Context, trial *UserSubscriptionTrial) error

	// CountByStatus counts subscriptions currently in the status
	CountByStatus(ctx context.Context, status Status) (int64, error)

	// FindAllByStatus returns every subscription in the status
	FindAllByStatus(ctx context.Context, status Status) ([]Subscription, error)

	// CountLostBetween counts CANCELED or INACTIVE subscriptions
	// created before from whose ends_at falls in [from, to)
	CountLostBetween(ctx context.Context, from, to time.Time) (int64, error)

	// CountDistinctSubscribedUsers counts distinct users holding at
	// least one subscription created on or before cutoff
	CountDistinctSubscribedUsers(ctx context.Context, cutoff time.Time) (int64, error)
}

// UsageRecordRepository provides access to usage records
type UsageRecordRepository interface {
	Save(ctx context.Context, record *UsageRecord) error
	FindBySubscription(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) ([]UsageRecord, error)
	SumForSubscription(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) (int64, error)
}
