package persistence

import (
	"context"
	"time"

	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUsageRecordRepository implements subscription.UsageRecordRepository using GORM
type GormUsageRecordRepository struct {
	db *gorm.DB
}

// NewGormUsageRecordRepository creates a new GormUsageRecordRepository
func NewGormUsageRecordRepository(db *gorm.DB) *GormUsageRecordRepository {
	return &GormUsageRecordRepository{db: db}
}

// Save persists the usage record
func (r *GormUsageRecordRepository) Save(ctx context.Context, record *subscription.UsageRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindBySubscription returns the subscription's usage in [from, to),
// ordered oldest first
func (r *GormUsageRecordRepository) FindBySubscription(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) ([]subscription.UsageRecord, error) {
	var records []subscription.UsageRecord
	err := r.db.WithContext(ctx).
		Where("subscription_id = ? AND recorded_at >= ? AND recorded_at < ?", subscriptionID, from, to).
		Order("recorded_at ASC").
		Find(&records).Error
	return records, err
}

// SumForSubscription totals the unit counts recorded in [from, to)
func (r *GormUsageRecordRepository) SumForSubscription(ctx context.Context, subscriptionID uuid.UUID, from, to time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&subscription.UsageRecord{}).
		Where("subscription_id = ? AND recorded_at >= ? AND recorded_at < ?", subscriptionID, from, to).
		Select("COALESCE(SUM(unit_count), 0)").
		Scan(&total).Error
	return total, err
}

var _ subscription.UsageRecordRepository = (*GormUsageRecordRepository)(nil)
