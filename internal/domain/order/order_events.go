package order

import (
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrdered        = "Ordered"
	EventTypeOrderedOffline = "OrderedOffline"
	EventTypeOrderRefunded  = "OrderRefunded"
)

// OrderedEvent is raised when a provider-paid order settles
type OrderedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	AmountDue int64     `json:"amount_due"`
	Currency  string    `json:"currency"`
}

// NewOrderedEvent creates a new OrderedEvent
func NewOrderedEvent(o *Order) *OrderedEvent {
	return &OrderedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrdered, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		AmountDue:       o.AmountDue,
		Currency:        string(o.Currency),
	}
}

// EventType returns the event type name
func (e *OrderedEvent) EventType() string {
	return EventTypeOrdered
}

// OrderedOfflineEvent is raised when a locally settled order completes
type OrderedOfflineEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	UserID    uuid.UUID `json:"user_id"`
	AmountDue int64     `json:"amount_due"`
}

// NewOrderedOfflineEvent creates a new OrderedOfflineEvent
func NewOrderedOfflineEvent(o *Order) *OrderedOfflineEvent {
	return &OrderedOfflineEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderedOffline, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		AmountDue:       o.AmountDue,
	}
}

// EventType returns the event type name
func (e *OrderedOfflineEvent) EventType() string {
	return EventTypeOrderedOffline
}

// OrderRefundedEvent is raised when a settled order is refunded
type OrderRefundedEvent struct {
	shared.BaseDomainEvent
	OrderID  uuid.UUID `json:"order_id"`
	UserID   uuid.UUID `json:"user_id"`
	Amount   int64     `json:"amount"`
	Currency string    `json:"currency"`
}

// NewOrderRefundedEvent creates a new OrderRefundedEvent
func NewOrderRefundedEvent(o *Order) *OrderRefundedEvent {
	return &OrderRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderRefunded, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		UserID:          o.UserID,
		Amount:          o.AmountDue,
		Currency:        string(o.Currency),
	}
}

// EventType returns the event type name
func (e *OrderRefundedEvent) EventType() string {
	return EventTypeOrderRefunded
}
