package identity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Repository defines the user repository interface
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	Save(ctx context.Context, user *User) error
	Count(ctx context.Context) (int64, error)

	// CountCreatedBefore counts users created on or before cutoff
	CountCreatedBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
