package payment

import (
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	// AggregateTypeTransaction is the aggregate type for transaction events
	AggregateTypeTransaction = "Transaction"

	EventTypeInvoicePaymentFailed = "InvoicePaymentFailed"
)

// InvoicePaymentFailedEvent fires when a subscription invoice payment fails
type InvoicePaymentFailedEvent struct {
	shared.BaseDomainEvent
	TransactionID  uuid.UUID `json:"transaction_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	UserID         uuid.UUID `json:"user_id"`
	Amount         int64     `json:"amount"`
	Currency       string    `json:"currency"`
	ErrorReason    string    `json:"error_reason,omitempty"`
}

// NewInvoicePaymentFailedEvent creates a new invoice payment failed event
func NewInvoicePaymentFailedEvent(t *Transaction) *InvoicePaymentFailedEvent {
	e := &InvoicePaymentFailedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeInvoicePaymentFailed, AggregateTypeTransaction, t.ID),
		TransactionID:   t.ID,
		UserID:          t.UserID,
		Amount:          t.Amount,
		Currency:        t.Currency.String(),
		ErrorReason:     t.ErrorReason,
	}
	if t.SubscriptionID != nil {
		e.SubscriptionID = *t.SubscriptionID
	}
	return e
}
