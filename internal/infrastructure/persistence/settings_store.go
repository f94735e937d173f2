package persistence

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSettingsStore implements settings.Store on the settings table
type GormSettingsStore struct {
	db *gorm.DB
}

// NewGormSettingsStore creates a new GormSettingsStore
func NewGormSettingsStore(db *gorm.DB) *GormSettingsStore {
	return &GormSettingsStore{db: db}
}

// Get returns the stored value for key, or fallback when never written
func (s *GormSettingsStore) Get(ctx context.Context, key, fallback string) (string, error) {
	var setting settings.Setting
	if err := s.db.WithContext(ctx).First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fallback, nil
		}
		return "", err
	}
	return setting.Value, nil
}

// GetBool returns the stored value for key parsed as a bool. Fallback
// applies both for a missing key and an unparseable value.
func (s *GormSettingsStore) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
	raw, err := s.Get(ctx, key, strconv.FormatBool(fallback))
	if err != nil {
		return false, err
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback, nil
	}
	return parsed, nil
}

// Set upserts the key/value pair
func (s *GormSettingsStore) Set(ctx context.Context, key, value string) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "key"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&settings.Setting{Key: key, Value: value, UpdatedAt: time.Now()}).Error
}

// DefaultCurrency resolves the tenant-wide default currency. An invalid
// stored code falls back to the package default.
func (s *GormSettingsStore) DefaultCurrency(ctx context.Context) (valueobject.Currency, error) {
	raw, err := s.Get(ctx, settings.KeyDefaultCurrency, string(valueobject.DefaultCurrency))
	if err != nil {
		return "", err
	}
	currency := valueobject.Currency(raw)
	if !currency.IsValid() {
		return valueobject.DefaultCurrency, nil
	}
	return currency, nil
}

// MultipleSubscriptionsEnabled reports whether a user may hold more
// than one not-dead subscription at a time
func (s *GormSettingsStore) MultipleSubscriptionsEnabled(ctx context.Context) (bool, error) {
	return s.GetBool(ctx, settings.KeyMultipleSubscriptions, false)
}

var _ settings.Store = (*GormSettingsStore)(nil)
