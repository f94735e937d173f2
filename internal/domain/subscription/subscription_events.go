package subscription

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeSubscription = "Subscription"

// Event type constants
const (
	EventTypeSubscribed            = "Subscribed"
	EventTypeSubscriptionCancelled = "SubscriptionCancelled"
	EventTypeSubscriptionRenewed   = "SubscriptionRenewed"
	EventTypeSubscribedOffline     = "SubscribedOffline"
)

// SubscribedEvent is raised when a subscription becomes active
type SubscribedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	PlanID         uuid.UUID `json:"plan_id"`
	Price          int64     `json:"price"`
	Currency       string    `json:"currency"`
}

// NewSubscribedEvent creates a new SubscribedEvent
func NewSubscribedEvent(sub *Subscription) *SubscribedEvent {
	return &SubscribedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscribed, AggregateTypeSubscription, sub.ID),
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		PlanID:          sub.PlanID,
		Price:           sub.Price,
		Currency:        string(sub.Currency),
	}
}

// EventType returns the event type name
func (e *SubscribedEvent) EventType() string {
	return EventTypeSubscribed
}

// SubscriptionCancelledEvent is raised when a subscription reaches
// CANCELED status
type SubscriptionCancelledEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	PlanID         uuid.UUID `json:"plan_id"`
	Reason         string    `json:"reason,omitempty"`
}

// NewSubscriptionCancelledEvent creates a new SubscriptionCancelledEvent
func NewSubscriptionCancelledEvent(sub *Subscription) *SubscriptionCancelledEvent {
	return &SubscriptionCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionCancelled, AggregateTypeSubscription, sub.ID),
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		PlanID:          sub.PlanID,
		Reason:          sub.CancellationReason,
	}
}

// EventType returns the event type name
func (e *SubscriptionCancelledEvent) EventType() string {
	return EventTypeSubscriptionCancelled
}

// SubscriptionRenewedEvent is raised whenever ends_at moves forward,
// whether or not the status changed in the same update
type SubscriptionRenewedEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	OldEndsAt      time.Time `json:"old_ends_at"`
	NewEndsAt      time.Time `json:"new_ends_at"`
}

// NewSubscriptionRenewedEvent creates a new SubscriptionRenewedEvent
func NewSubscriptionRenewedEvent(sub *Subscription, oldEndsAt, newEndsAt time.Time) *SubscriptionRenewedEvent {
	return &SubscriptionRenewedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscriptionRenewed, AggregateTypeSubscription, sub.ID),
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		OldEndsAt:       oldEndsAt,
		NewEndsAt:       newEndsAt,
	}
}

// EventType returns the event type name
func (e *SubscriptionRenewedEvent) EventType() string {
	return EventTypeSubscriptionRenewed
}

// SubscribedOfflineEvent is raised when an offline, locally-managed
// subscription lands in PENDING and awaits manual settlement
type SubscribedOfflineEvent struct {
	shared.BaseDomainEvent
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	PlanID         uuid.UUID `json:"plan_id"`
}

// NewSubscribedOfflineEvent creates a new SubscribedOfflineEvent
func NewSubscribedOfflineEvent(sub *Subscription) *SubscribedOfflineEvent {
	return &SubscribedOfflineEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSubscribedOffline, AggregateTypeSubscription, sub.ID),
		SubscriptionID:  sub.ID,
		UserID:          sub.UserID,
		PlanID:          sub.PlanID,
	}
}

// EventType returns the event type name
func (e *SubscribedOfflineEvent) EventType() string {
	return EventTypeSubscribedOffline
}
