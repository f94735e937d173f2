package subscription

import (
	"math"
	"time"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/google/uuid"
)

// UserSubscriptionTrial records that a user consumed a trial on a
// plan. First write wins; repeated activations never overwrite it.
type UserSubscriptionTrial struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID         uuid.UUID `gorm:"type:uuid;not null;index:idx_user_sub_trial,unique"`
	SubscriptionID uuid.UUID `gorm:"type:uuid;not null;index:idx_user_sub_trial,unique"`
	PlanID         uuid.UUID `gorm:"type:uuid;not null"`
	TrialEndsAt    time.Time `gorm:"not null"`
	CreatedAt      time.Time
}

// TableName returns the table name for the trial snapshot model
func (UserSubscriptionTrial) TableName() string {
	return "user_subscription_trials"
}

// CalculateTrialDays returns the trial length in whole days by adding
// the plan's trial interval to now and measuring the distance back.
// The interval-aware addition means a one-month trial started in a
// 31-day month yields 31.
func CalculateTrialDays(plan *catalog.Plan, now time.Time) int {
	if plan == nil || !plan.HasTrial {
		return 0
	}
	end := plan.TrialIntervalUnit.AddTo(now, plan.TrialIntervalCount)
	days := end.Sub(now).Hours() / 24
	return int(math.Round(math.Abs(days)))
}
