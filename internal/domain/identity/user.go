package identity

import (
	"strings"
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// User is the billing-side view of an account holder. Authentication
// lives elsewhere; this record exists so subscriptions, orders and
// the user-count metrics have something to hang off.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Email     string    `gorm:"size:255;not null;uniqueIndex"`
	Name      string    `gorm:"size:255"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the user model
func (User) TableName() string {
	return "users"
}

// NewUser creates a new user
func NewUser(email, name string) (*User, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email cannot be empty")
	}
	now := time.Now()
	return &User{
		ID:        uuid.New(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}
