package cache

import (
	"context"
	"strconv"
	"time"

	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"go.uber.org/zap"
)

// CachedSettingsStore decorates a settings.Store with a read-through
// cache. Writes go to the inner store first, then refresh the cache, so
// this instance observes its own writes immediately; other instances
// converge within one TTL.
type CachedSettingsStore struct {
	inner  settings.Store
	cache  SettingsCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedSettingsStore creates a new CachedSettingsStore
func NewCachedSettingsStore(inner settings.Store, cache SettingsCache, ttl time.Duration, logger *zap.Logger) *CachedSettingsStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedSettingsStore{
		inner:  inner,
		cache:  cache,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the setting value, serving from cache when possible.
// Cache failures fall back to the inner store instead of failing reads.
func (s *CachedSettingsStore) Get(ctx context.Context, key, fallback string) (string, error) {
	cached, found, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.Warn("settings cache read failed", zap.String("key", key), zap.Error(err))
	} else if found {
		return cached, nil
	}

	value, err := s.inner.Get(ctx, key, fallback)
	if err != nil {
		return "", err
	}

	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("settings cache write failed", zap.String("key", key), zap.Error(err))
	}
	return value, nil
}

// GetBool returns the setting value parsed as a bool. Fallback applies
// both for a missing key and an unparseable value.
func (s *CachedSettingsStore) GetBool(ctx context.Context, key string, fallback bool) (bool, error) {
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

// Set writes through to the inner store and refreshes the cache
func (s *CachedSettingsStore) Set(ctx context.Context, key, value string) error {
	if err := s.inner.Set(ctx, key, value); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("settings cache refresh failed", zap.String("key", key), zap.Error(err))
	}
	return nil
}

// DefaultCurrency resolves the tenant-wide default currency
func (s *CachedSettingsStore) DefaultCurrency(ctx context.Context) (valueobject.Currency, error) {
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
func (s *CachedSettingsStore) MultipleSubscriptionsEnabled(ctx context.Context) (bool, error) {
	return s.GetBool(ctx, settings.KeyMultipleSubscriptions, false)
}

var _ settings.Store = (*CachedSettingsStore)(nil)
