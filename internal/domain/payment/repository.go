package payment

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the transaction repository interface
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Transaction, error)
	FindByProviderTransactionID(ctx context.Context, providerTransactionID string) (*Transaction, error)
	FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*Transaction, error)
	Save(ctx context.Context, transaction *Transaction) error

	// SumAmountByStatus totals transaction amounts in the given status
	// over [from, to). A zero from/to means unbounded on that side.
	SumAmountByStatus(ctx context.Context, status TransactionStatus, from, to time.Time) (int64, error)
}
