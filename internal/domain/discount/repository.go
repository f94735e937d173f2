package discount

import (
	"context"

	"github.com/google/uuid"
)

// Repository provides access to discounts, codes and redemptions
type Repository interface {
	// FindByCode resolves a discount (with scoping pivots loaded) and
	// the matching code row; returns shared.ErrNotFound for unknown codes
	FindByCode(ctx context.Context, code string) (*Discount, *DiscountCode, error)

	// CountUserRedemptions counts how many times the user redeemed the
	// given code
	CountUserRedemptions(ctx context.Context, userID, discountCodeID uuid.UUID) (int, error)

	// Redeem records a redemption and atomically increments the
	// discount's redemption counter; when snapshot is non-nil (the
	// subscription path) it is inserted in the same transaction
	Redeem(ctx context.Context, redemption *Redemption, snapshot *SubscriptionDiscount) error

	// CountSubscriptionDiscounts counts snapshots granted to a subscription
	CountSubscriptionDiscounts(ctx context.Context, subscriptionID uuid.UUID) (int, error)

	// FindSubscriptionDiscounts returns snapshots granted to a subscription
	FindSubscriptionDiscounts(ctx context.Context, subscriptionID uuid.UUID) ([]SubscriptionDiscount, error)

	Save(ctx context.Context, discount *Discount) error
}
