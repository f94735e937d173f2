package order

import (
	"context"

	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// TransactionService keeps the transaction ledger in sync with
// provider callbacks
type TransactionService struct {
	transactionRepo payment.Repository
	eventPublisher  shared.EventPublisher
	logger          *zap.Logger
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(transactionRepo payment.Repository, eventPublisher shared.EventPublisher, logger *zap.Logger) *TransactionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TransactionService{
		transactionRepo: transactionRepo,
		eventPublisher:  eventPublisher,
		logger:          logger,
	}
}

// Record persists a freshly built transaction
func (s *TransactionService) Record(ctx context.Context, transaction *payment.Transaction) error {
	return s.transactionRepo.Save(ctx, transaction)
}

// UpdateByProviderTransactionID applies a provider callback patch to
// the transaction it references. A FAILED landing on a subscription
// transaction publishes InvoicePaymentFailed after save.
func (s *TransactionService) UpdateByProviderTransactionID(ctx context.Context, providerTransactionID string, patch payment.Patch) (*payment.Transaction, error) {
	transaction, err := s.transactionRepo.FindByProviderTransactionID(ctx, providerTransactionID)
	if err != nil {
		return nil, err
	}

	transaction.Apply(patch)

	if err := s.transactionRepo.Save(ctx, transaction); err != nil {
		return nil, err
	}

	events := transaction.GetDomainEvents()
	if len(events) > 0 {
		transaction.ClearDomainEvents()
		if s.eventPublisher != nil {
			if err := s.eventPublisher.Publish(ctx, events...); err != nil {
				s.logger.Error("failed to publish transaction events", zap.Error(err))
			}
		}
	}
	return transaction, nil
}
