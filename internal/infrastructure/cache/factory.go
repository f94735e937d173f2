package cache

import (
	"fmt"

	"github.com/billingkit/backend/internal/domain/settings"
	"github.com/billingkit/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// SettingsCacheFactory creates settings caches based on configuration
type SettingsCacheFactory struct {
	billingConfig config.BillingConfig
	redisConfig   config.RedisConfig
	logger        *zap.Logger
}

// NewSettingsCacheFactory creates a new factory
func NewSettingsCacheFactory(billingCfg config.BillingConfig, redisCfg config.RedisConfig, logger *zap.Logger) *SettingsCacheFactory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SettingsCacheFactory{
		billingConfig: billingCfg,
		redisConfig:   redisCfg,
		logger:        logger,
	}
}

// CreateCache creates the configured cache backend
func (f *SettingsCacheFactory) CreateCache() (SettingsCache, error) {
	switch f.billingConfig.SettingsCache {
	case "redis":
		cache, err := NewRedisSettingsCache(f.redisConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create Redis settings cache: %w", err)
		}
		f.logger.Info("using Redis settings cache",
			zap.String("addr", f.redisConfig.Addr()),
			zap.Duration("ttl", f.billingConfig.SettingsTTL))
		return cache, nil
	case "memory":
		f.logger.Info("using in-memory settings cache",
			zap.Duration("ttl", f.billingConfig.SettingsTTL))
		return NewInMemorySettingsCache(), nil
	default:
		return nil, fmt.Errorf("unknown settings cache backend %q", f.billingConfig.SettingsCache)
	}
}

// WrapStore decorates the store with the configured cache backend
func (f *SettingsCacheFactory) WrapStore(inner settings.Store) (settings.Store, error) {
	cache, err := f.CreateCache()
	if err != nil {
		return nil, err
	}
	return NewCachedSettingsStore(inner, cache, f.billingConfig.SettingsTTL, f.logger), nil
}
