package payment

import (
	"fmt"
	"sync"

	"github.com/billingkit/backend/internal/domain/payment"
)

// Registry is a slug-keyed collection of payment providers
type Registry struct {
	mu        sync.RWMutex
	providers map[string]payment.Provider
}

// NewRegistry creates a registry holding the given providers
func NewRegistry(providers ...payment.Provider) *Registry {
	r := &Registry{providers: make(map[string]payment.Provider, len(providers))}
	for _, p := range providers {
		r.providers[p.Slug()] = p
	}
	return r
}

// Register adds or replaces a provider
func (r *Registry) Register(p payment.Provider) {
	r.mu.Lock()
	r.providers[p.Slug()] = p
	r.mu.Unlock()
}

// Get resolves a provider by slug
func (r *Registry) Get(slug string) (payment.Provider, error) {
	r.mu.RLock()
	p, ok := r.providers[slug]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown payment provider %q", slug)
	}
	return p, nil
}

var _ payment.ProviderRegistry = (*Registry)(nil)
