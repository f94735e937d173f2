package payment

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// TransactionStatus represents the provider-reported outcome of a payment
type TransactionStatus string

const (
	TransactionStatusNotStarted TransactionStatus = "NOT_STARTED"
	TransactionStatusPending    TransactionStatus = "PENDING"
	TransactionStatusSuccess    TransactionStatus = "SUCCESS"
	TransactionStatusFailed     TransactionStatus = "FAILED"
	TransactionStatusRefunded   TransactionStatus = "REFUNDED"
	TransactionStatusDisputed   TransactionStatus = "DISPUTED"
)

// IsValid checks if the status is a valid TransactionStatus
func (s TransactionStatus) IsValid() bool {
	switch s {
	case TransactionStatusNotStarted, TransactionStatusPending, TransactionStatusSuccess,
		TransactionStatusFailed, TransactionStatusRefunded, TransactionStatusDisputed:
		return true
	}
	return false
}

// String returns the string representation of TransactionStatus
func (s TransactionStatus) String() string {
	return string(s)
}

// Transaction is one payment-provider outcome linked to exactly one
// subscription or one order. The provider transaction id carries a
// unique constraint so webhook retries cannot double-insert.
type Transaction struct {
	shared.BaseAggregateRoot
	UserID                uuid.UUID            `gorm:"type:uuid;not null;index"`
	SubscriptionID        *uuid.UUID           `gorm:"type:uuid;index"`
	OrderID               *uuid.UUID           `gorm:"type:uuid;index"`
	Amount                int64                `gorm:"not null"`
	Tax                   int64                `gorm:"not null;default:0"`
	Discount              int64                `gorm:"not null;default:0"`
	Fees                  int64                `gorm:"not null;default:0"`
	Currency              valueobject.Currency `gorm:"size:3;not null"`
	Status                TransactionStatus    `gorm:"size:20;not null;index"`
	ProviderSlug          string               `gorm:"size:50;not null"`
	ProviderTransactionID string               `gorm:"size:255;uniqueIndex"`
	ProviderStatus        string               `gorm:"size:100"`
	ErrorReason           string
}

// TableName returns the table name for the transaction model
func (Transaction) TableName() string {
	return "transactions"
}

// NewSubscriptionTransaction creates a transaction linked to a subscription
func NewSubscriptionTransaction(userID, subscriptionID uuid.UUID, amount int64, currency valueobject.Currency, providerSlug, providerTransactionID string) (*Transaction, error) {
	t, err := newTransaction(userID, amount, currency, providerSlug, providerTransactionID)
	if err != nil {
		return nil, err
	}
	t.SubscriptionID = &subscriptionID
	return t, nil
}

// NewOrderTransaction creates a transaction linked to an order
func NewOrderTransaction(userID, orderID uuid.UUID, amount int64, currency valueobject.Currency, providerSlug, providerTransactionID string) (*Transaction, error) {
	t, err := newTransaction(userID, amount, currency, providerSlug, providerTransactionID)
	if err != nil {
		return nil, err
	}
	t.OrderID = &orderID
	return t, nil
}

func newTransaction(userID uuid.UUID, amount int64, currency valueobject.Currency, providerSlug, providerTransactionID string) (*Transaction, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if amount < 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Transaction amount cannot be negative")
	}
	if providerSlug == "" {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider slug cannot be empty")
	}
	return &Transaction{
		BaseAggregateRoot:     shared.NewBaseAggregateRoot(),
		UserID:                userID,
		Amount:                amount,
		Currency:              currency,
		Status:                TransactionStatusNotStarted,
		ProviderSlug:          providerSlug,
		ProviderTransactionID: providerTransactionID,
	}, nil
}

// Patch is a partial transaction update from a provider callback.
// Nil fields are left untouched, so repeated or out-of-order
// deliveries never clobber state they did not carry.
type Patch struct {
	Status         *TransactionStatus
	ProviderStatus *string
	Amount         *int64
	Fees           *int64
	ErrorReason    *string
}

// Apply applies the patch and raises InvoicePaymentFailed when a
// subscription-linked transaction lands in FAILED
func (t *Transaction) Apply(patch Patch) {
	oldStatus := t.Status

	if patch.Status != nil {
		t.Status = *patch.Status
	}
	if patch.ProviderStatus != nil {
		t.ProviderStatus = *patch.ProviderStatus
	}
	if patch.Amount != nil {
		t.Amount = *patch.Amount
	}
	if patch.Fees != nil {
		t.Fees = *patch.Fees
	}
	if patch.ErrorReason != nil {
		t.ErrorReason = *patch.ErrorReason
	}
	t.UpdatedAt = time.Now()

	if oldStatus != TransactionStatusFailed && t.Status == TransactionStatusFailed && t.SubscriptionID != nil {
		t.AddDomainEvent(NewInvoicePaymentFailedEvent(t))
	}
}

// Money returns the transaction amount as a Money value
func (t *Transaction) Money() valueobject.Money {
	return valueobject.MustNewMoney(t.Amount, t.Currency)
}
