package cache

import (
	"context"
	"sync"
	"time"
)

// InMemorySettingsCache implements SettingsCache using process-local
// storage. Suitable for single-instance deployments; in a multi-instance
// deployment each process sees writes from the others only after TTL.
type InMemorySettingsCache struct {
	mu      sync.RWMutex
	entries map[string]settingsEntry
}

type settingsEntry struct {
	value     string
	expiresAt time.Time
}

// NewInMemorySettingsCache creates a new in-memory settings cache
func NewInMemorySettingsCache() *InMemorySettingsCache {
	return &InMemorySettingsCache{
		entries: make(map[string]settingsEntry),
	}
}

// Get returns the cached value for key if present and not expired
func (c *InMemorySettingsCache) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.RLock()
	entry, ok := c.entries[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(entry.expiresAt) {
		return "", false, nil
	}
	return entry.value, true, nil
}

// Set stores the value for key with the given TTL
func (c *InMemorySettingsCache) Set(_ context.Context, key, value string, ttl time.Duration) error {
	c.mu.Lock()
	c.entries[key] = settingsEntry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
	return nil
}

// Invalidate removes the cached value for key
func (c *InMemorySettingsCache) Invalidate(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
	return nil
}

var _ SettingsCache = (*InMemorySettingsCache)(nil)
