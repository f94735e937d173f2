package subscription

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UsageRecord is an append-only fact of metered consumption. It is
// written only after the provider accepted the report, or immediately
// for locally-managed subscriptions.
type UsageRecord struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null;index"`
	UnitCount      int64     `gorm:"not null"`
	RecordedAt     time.Time `gorm:"not null;index"`
	CreatedAt      time.Time
}

// TableName returns the table name for the usage record model
func (UsageRecord) TableName() string {
	return "usage_records"
}

// NewUsageRecord creates a new usage record
func NewUsageRecord(subscriptionID uuid.UUID, unitCount int64, recordedAt time.Time) (*UsageRecord, error) {
	if subscriptionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Subscription ID cannot be empty")
	}
	if unitCount <= 0 {
		return nil, shared.NewDomainError("INVALID_UNITS", "Unit count must be positive")
	}
	return &UsageRecord{
		ID:             uuid.New(),
		SubscriptionID: subscriptionID,
		UnitCount:      unitCount,
		RecordedAt:     recordedAt,
		CreatedAt:      time.Now(),
	}, nil
}
