package cache

import (
	"context"
	"time"
)

// SettingsCache is a TTL-bounded cache for runtime setting values.
// A miss returns found=false; staleness is bounded by the TTL.
type SettingsCache interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, key string) error
}
