package subscription

import (
	"time"

	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
)

// CreateSubscriptionRequest starts a provider-managed checkout
type CreateSubscriptionRequest struct {
	UserID       uuid.UUID
	PlanSlug     string
	ProviderSlug string
	DiscountCode string
}

// CreateLocalSubscriptionRequest creates a subscription managed
// entirely inside this system
type CreateLocalSubscriptionRequest struct {
	UserID               uuid.UUID
	PlanSlug             string
	RequiresVerification bool
}

// UpdateFromProviderRequest carries a provider webhook payload already
// mapped to domain terms
type UpdateFromProviderRequest struct {
	ProviderSlug           string
	ProviderSubscriptionID string
	Status                 *subscription.Status
	EndsAt                 *time.Time
	TrialEndsAt            *time.Time
	IsCanceledAtEndOfCycle *bool
	CancellationReason     *string
}

// ChangePlanRequest moves a subscription onto another plan
type ChangePlanRequest struct {
	UserID         uuid.UUID
	SubscriptionID uuid.UUID
	NewPlanSlug    string
	WithProration  bool
}

// SubscriptionResponse is the outward view of a subscription
type SubscriptionResponse struct {
	ID                     uuid.UUID  `json:"id"`
	UserID                 uuid.UUID  `json:"user_id"`
	PlanID                 uuid.UUID  `json:"plan_id"`
	Status                 string     `json:"status"`
	Type                   string     `json:"type"`
	Price                  int64      `json:"price"`
	Currency               string     `json:"currency"`
	IntervalUnit           string     `json:"interval_unit"`
	IntervalCount          int        `json:"interval_count"`
	ProviderSlug           string     `json:"provider_slug"`
	EndsAt                 *time.Time `json:"ends_at,omitempty"`
	TrialEndsAt            *time.Time `json:"trial_ends_at,omitempty"`
	IsCanceledAtEndOfCycle bool       `json:"is_canceled_at_end_of_cycle"`
	CreatedAt              time.Time  `json:"created_at"`
}

// ToSubscriptionResponse maps a subscription aggregate to its response
func ToSubscriptionResponse(sub *subscription.Subscription) SubscriptionResponse {
	return SubscriptionResponse{
		ID:                     sub.ID,
		UserID:                 sub.UserID,
		PlanID:                 sub.PlanID,
		Status:                 sub.Status.String(),
		Type:                   string(sub.Type),
		Price:                  sub.Price,
		Currency:               sub.Currency.String(),
		IntervalUnit:           sub.IntervalUnit.String(),
		IntervalCount:          sub.IntervalCount,
		ProviderSlug:           sub.ProviderSlug,
		EndsAt:                 sub.EndsAt,
		TrialEndsAt:            sub.TrialEndsAt,
		IsCanceledAtEndOfCycle: sub.IsCanceledAtEndOfCycle,
		CreatedAt:              sub.CreatedAt,
	}
}
