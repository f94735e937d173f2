package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billingkit/backend/internal/domain/payment"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTransactionRepository implements payment.Repository using GORM
type GormTransactionRepository struct {
	db *gorm.DB
}

// NewGormTransactionRepository creates a new GormTransactionRepository
func NewGormTransactionRepository(db *gorm.DB) *GormTransactionRepository {
	return &GormTransactionRepository{db: db}
}

// FindByID finds a transaction by its ID
func (r *GormTransactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Transaction, error) {
	var tx payment.Transaction
	if err := r.db.WithContext(ctx).First(&tx, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindByProviderTransactionID finds a transaction by its provider-side identifier
func (r *GormTransactionRepository) FindByProviderTransactionID(ctx context.Context, providerTransactionID string) (*payment.Transaction, error) {
	var tx payment.Transaction
	if err := r.db.WithContext(ctx).
		Where("provider_transaction_id = ?", providerTransactionID).
		First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &tx, nil
}

// FindBySubscription returns the subscription's transactions, newest first
func (r *GormTransactionRepository) FindBySubscription(ctx context.Context, subscriptionID uuid.UUID) ([]*payment.Transaction, error) {
	var txs []*payment.Transaction
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").
		Find(&txs).Error
	return txs, err
}

// Save persists the transaction
func (r *GormTransactionRepository) Save(ctx context.Context, transaction *payment.Transaction) error {
	return r.db.WithContext(ctx).Save(transaction).Error
}

// SumAmountByStatus totals transaction amounts in the given status over
// [from, to). A zero from/to leaves that side unbounded.
func (r *GormTransactionRepository) SumAmountByStatus(ctx context.Context, status payment.TransactionStatus, from, to time.Time) (int64, error) {
	q := r.db.WithContext(ctx).Model(&payment.Transaction{}).Where("status = ?", status)
	if !from.IsZero() {
		q = q.Where("created_at >= ?", from)
	}
	if !to.IsZero() {
		q = q.Where("created_at < ?", to)
	}
	var total int64
	err := q.Select("COALESCE(SUM(amount), 0)").Scan(&total).Error
	return total, err
}

var _ payment.Repository = (*GormTransactionRepository)(nil)
