package order

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to orders and their items
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status Status) ([]Order, error)

	// Save persists the order header and reconciles its item rows
	// (delete missing, upsert present) inside one transaction
	Save(ctx context.Context, o *Order) error

	Delete(ctx context.Context, id uuid.UUID) error
}
