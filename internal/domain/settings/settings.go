package settings

import (
	"context"
	"time"

	"github.com/billingkit/backend/internal/domain/shared/valueobject"
)

// Well-known setting keys.
const (
	KeyDefaultCurrency           = "default_currency"
	KeyMultipleSubscriptions     = "multiple_subscriptions_enabled"
	KeyProrateOnPlanChange       = "prorate_on_plan_change"
	KeyLocalSubscriptionsAllowed = "local_subscriptions_allowed"
)

// Setting is one persisted key/value pair of runtime configuration
type Setting struct {
	Key       string `gorm:"size:100;primaryKey"`
	Value     string `gorm:"size:255;not null"`
	UpdatedAt time.Time
}

// TableName returns the table name for the setting model
func (Setting) TableName() string {
	return "settings"
}

// Store reads and writes runtime settings. Implementations may cache;
// reads fall back to a default when the key was never written.
type Store interface {
	Get(ctx context.Context, key, fallback string) (string, error)
	GetBool(ctx context.Context, key string, fallback bool) (bool, error)
	Set(ctx context.Context, key, value string) error

	// DefaultCurrency resolves the tenant-wide default currency
	DefaultCurrency(ctx context.Context) (valueobject.Currency, error)

	// MultipleSubscriptionsEnabled reports whether a user may hold
	// more than one not-dead subscription at a time
	MultipleSubscriptionsEnabled(ctx context.Context) (bool, error)
}
