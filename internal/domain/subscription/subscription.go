package subscription

import (
	"time"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// Provider slugs the lifecycle engine has to know about. The offline
// provider marks manually settled subscriptions; the restricted one
// does not support adding a discount to a running subscription.
const (
	ProviderSlugOffline              = "offline"
	ProviderSlugDisallowingDiscounts = "lemon-squeezy"
)

// Status represents the lifecycle state of a subscription
type Status string

const (
	StatusNew                     Status = "NEW"
	StatusPending                 Status = "PENDING"
	StatusPendingUserVerification Status = "PENDING_USER_VERIFICATION"
	StatusActive                  Status = "ACTIVE"
	StatusPastDue                 Status = "PAST_DUE"
	StatusPaused                  Status = "PAUSED"
	StatusCanceled                Status = "CANCELED"
	StatusInactive                Status = "INACTIVE"
)

// IsValid checks if the status is a valid Status
func (s Status) IsValid() bool {
	switch s {
	case StatusNew, StatusPending, StatusPendingUserVerification, StatusActive,
		StatusPastDue, StatusPaused, StatusCanceled, StatusInactive:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// IsDead returns true for terminal statuses that free the
// one-subscription-per-user slot
func (s Status) IsDead() bool {
	return s == StatusCanceled || s == StatusInactive
}

// NotDeadStatuses returns every status that still occupies the
// one-subscription-per-user slot
func NotDeadStatuses() []Status {
	return []Status{StatusActive, StatusPending, StatusPaused, StatusPastDue}
}

// Type distinguishes provider-billed subscriptions from ones this
// system owns entirely
type Type string

const (
	TypeProviderManaged Type = "PAYMENT_PROVIDER_MANAGED"
	TypeLocallyManaged  Type = "LOCALLY_MANAGED"
)

// IsValid checks if the type is a valid Type
func (t Type) IsValid() bool {
	return t == TypeProviderManaged || t == TypeLocallyManaged
}

// Subscription is the aggregate root of the billing lifecycle. Price
// and interval are snapshots captured at creation; the live plan is
// never consulted for amounts owed.
type Subscription struct {
	shared.BaseAggregateRoot
	UserID                 uuid.UUID            `gorm:"type:uuid;not null;index"`
	PlanID                 uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type                   Type                 `gorm:"size:30;not null"`
	Status                 Status               `gorm:"size:30;not null;index"`
	Price                  int64                `gorm:"not null"`
	Currency               valueobject.Currency `gorm:"size:3;not null"`
	IntervalUnit           catalog.IntervalUnit `gorm:"size:10;not null"`
	IntervalCount          int                  `gorm:"not null;default:1"`
	PriceType              catalog.PriceType    `gorm:"size:20;not null;default:'FLAT'"`
	PricePerUnit           int64
	PriceTiers             catalog.PriceTiers `gorm:"type:jsonb"`
	ProviderSlug           string             `gorm:"size:50"`
	ProviderSubscriptionID string             `gorm:"size:255;index"`
	EndsAt                 *time.Time
	TrialEndsAt            *time.Time
	IsCanceledAtEndOfCycle bool `gorm:"not null;default:false"`
	CancellationReason     string
	Discounts              []discount.SubscriptionDiscount `gorm:"foreignKey:SubscriptionID"`
}

// TableName returns the table name for the subscription model
func (Subscription) TableName() string {
	return "subscriptions"
}

// NewSubscription creates a provider-managed subscription in NEW
// status, snapshotting the plan price for the given currency
func NewSubscription(userID uuid.UUID, plan *catalog.Plan, price *catalog.PlanPrice, providerSlug, providerSubscriptionID string) (*Subscription, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if plan == nil || price == nil {
		return nil, shared.ErrPlanNotFound
	}

	return &Subscription{
		BaseAggregateRoot:      shared.NewBaseAggregateRoot(),
		UserID:                 userID,
		PlanID:                 plan.ID,
		Type:                   TypeProviderManaged,
		Status:                 StatusNew,
		Price:                  price.Price,
		Currency:               price.Currency,
		IntervalUnit:           plan.IntervalUnit,
		IntervalCount:          plan.IntervalCount,
		PriceType:              price.PriceType,
		PricePerUnit:           price.PricePerUnit,
		PriceTiers:             price.Tiers,
		ProviderSlug:           providerSlug,
		ProviderSubscriptionID: providerSubscriptionID,
	}, nil
}

// NewLocalSubscription creates a locally-managed subscription that is
// live immediately, either ACTIVE or awaiting user verification
func NewLocalSubscription(userID uuid.UUID, plan *catalog.Plan, price *catalog.PlanPrice, status Status, endsAt, trialEndsAt *time.Time) (*Subscription, error) {
	if status != StatusActive && status != StatusPendingUserVerification {
		return nil, shared.NewDomainError("INVALID_STATUS", "Local subscriptions start ACTIVE or PENDING_USER_VERIFICATION")
	}

	sub, err := NewSubscription(userID, plan, price, ProviderSlugOffline, "")
	if err != nil {
		return nil, err
	}
	sub.Type = TypeLocallyManaged
	sub.Status = status
	sub.EndsAt = endsAt
	sub.TrialEndsAt = trialEndsAt

	if status == StatusActive {
		sub.AddDomainEvent(NewSubscribedEvent(sub))
	}
	return sub, nil
}

// Patch is a partial update applied through Update. Nil fields are
// left untouched.
type Patch struct {
	Status                 *Status
	EndsAt                 *time.Time
	TrialEndsAt            *time.Time
	IsCanceledAtEndOfCycle *bool
	CancellationReason     *string
	ProviderSubscriptionID *string
}

// Update is the sole event-dispatching mutator. It applies the patch
// and evaluates three independent rules against the prior state:
//
//  1. status moved to ACTIVE -> Subscribed; to CANCELED -> SubscriptionCancelled
//  2. ends_at strictly extended -> SubscriptionRenewed(old,new), with or
//     without a status change
//  3. status now PENDING on a locally-managed offline subscription ->
//     SubscribedOffline
//
// More than one event may fire from a single update.
func (s *Subscription) Update(patch Patch) {
	oldStatus := s.Status
	oldEndsAt := s.EndsAt

	if patch.Status != nil {
		s.Status = *patch.Status
	}
	if patch.EndsAt != nil {
		s.EndsAt = patch.EndsAt
	}
	if patch.TrialEndsAt != nil {
		s.TrialEndsAt = patch.TrialEndsAt
	}
	if patch.IsCanceledAtEndOfCycle != nil {
		s.IsCanceledAtEndOfCycle = *patch.IsCanceledAtEndOfCycle
	}
	if patch.CancellationReason != nil {
		s.CancellationReason = *patch.CancellationReason
	}
	if patch.ProviderSubscriptionID != nil {
		s.ProviderSubscriptionID = *patch.ProviderSubscriptionID
	}
	s.UpdatedAt = time.Now()

	if oldStatus != s.Status {
		switch s.Status {
		case StatusActive:
			s.AddDomainEvent(NewSubscribedEvent(s))
		case StatusCanceled:
			s.AddDomainEvent(NewSubscriptionCancelledEvent(s))
		}
	}

	if coerce(s.EndsAt).After(coerce(oldEndsAt)) {
		s.AddDomainEvent(NewSubscriptionRenewedEvent(s, coerce(oldEndsAt), coerce(s.EndsAt)))
	}

	if s.Status == StatusPending && s.Type == TypeLocallyManaged && s.ProviderSlug == ProviderSlugOffline {
		s.AddDomainEvent(NewSubscribedOfflineEvent(s))
	}
}

// coerce maps a nullable timestamp to a comparable instant
func coerce(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}

// IsNotDead returns true while the subscription occupies the
// one-per-user slot
func (s *Subscription) IsNotDead() bool {
	return !s.Status.IsDead()
}

// IsProviderManaged returns true for provider-billed subscriptions
func (s *Subscription) IsProviderManaged() bool {
	return s.Type == TypeProviderManaged
}

// IsLocallyManaged returns true for subscriptions this system owns
func (s *Subscription) IsLocallyManaged() bool {
	return s.Type == TypeLocallyManaged
}

// IsUsageBased returns true when the snapshotted price is metered
func (s *Subscription) IsUsageBased() bool {
	return s.PriceType == catalog.PriceTypeTiered || s.PriceType == catalog.PriceTypePerUnit
}

// Money returns the snapshotted recurring price
func (s *Subscription) Money() valueobject.Money {
	return valueobject.MustNewMoney(s.Price, s.Currency)
}

// CanAddDiscount gates adding a discount to a running subscription
func (s *Subscription) CanAddDiscount() bool {
	return s.IsProviderManaged() &&
		(s.Status == StatusActive || s.Status == StatusPastDue) &&
		s.Price > 0 &&
		len(s.Discounts) == 0 &&
		s.ProviderSlug != ProviderSlugDisallowingDiscounts
}

// CanEditPaymentDetails gates payment-method editing
func (s *Subscription) CanEditPaymentDetails() bool {
	return s.IsProviderManaged() && (s.Status == StatusActive || s.Status == StatusPastDue)
}

// CanCancel gates end-of-cycle cancellation
func (s *Subscription) CanCancel() bool {
	return s.IsProviderManaged() && !s.IsCanceledAtEndOfCycle && s.Status == StatusActive
}

// CanDiscardCancellation gates undoing an end-of-cycle cancellation
func (s *Subscription) CanDiscardCancellation() bool {
	return s.IsProviderManaged() && s.IsCanceledAtEndOfCycle && s.Status == StatusActive
}

// CanChangePlan gates switching this subscription to another plan
func (s *Subscription) CanChangePlan(currentPlan *catalog.Plan) bool {
	return s.IsProviderManaged() && currentPlan != nil && currentPlan.IsChangeable() && s.Status == StatusActive
}

// CanEnd gates immediate termination, which only applies to
// locally-managed subscriptions
func (s *Subscription) CanEnd() bool {
	return s.IsLocallyManaged() && s.Status == StatusActive
}

// CanUpdate gates free-form edits, which only apply to locally-managed
// subscriptions
func (s *Subscription) CanUpdate() bool {
	return s.IsLocallyManaged()
}

// IsTrialing returns true while a trial window is still open
func (s *Subscription) IsTrialing(now time.Time) bool {
	return s.TrialEndsAt != nil && s.TrialEndsAt.After(now)
}
