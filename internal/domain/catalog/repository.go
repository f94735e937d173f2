package catalog

import (
	"context"

	"github.com/google/uuid"
)

// PlanRepository provides access to plans and their prices
type PlanRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Plan, error)
	// FindActiveBySlug resolves an active plan by slug with prices and
	// provider mappings loaded; returns shared.ErrPlanNotFound when the
	// slug is unknown or the plan is inactive
	FindActiveBySlug(ctx context.Context, slug string) (*Plan, error)
	FindAllActive(ctx context.Context) ([]Plan, error)
	Save(ctx context.Context, plan *Plan) error
}

// OneTimeProductRepository provides access to one-time products
type OneTimeProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*OneTimeProduct, error)
	FindActiveBySlug(ctx context.Context, slug string) (*OneTimeProduct, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]OneTimeProduct, error)
	Save(ctx context.Context, product *OneTimeProduct) error
}

// ProductRepository provides access to products
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindActiveBySlug(ctx context.Context, slug string) (*Product, error)
	Save(ctx context.Context, product *Product) error
}
