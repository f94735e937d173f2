package discount

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// UnlimitedRedemptions marks a redemption cap as unbounded
const UnlimitedRedemptions = -1

// DiscountType represents how a discount reduces a price
type DiscountType string

const (
	DiscountTypeFixed      DiscountType = "FIXED"
	DiscountTypePercentage DiscountType = "PERCENTAGE"
)

// IsValid checks if the type is a valid DiscountType
func (t DiscountType) IsValid() bool {
	return t == DiscountTypeFixed || t == DiscountTypePercentage
}

// ActionType scopes a discount to one checkout flow. A nil action
// type on a discount means it applies to any flow.
type ActionType string

const (
	ActionTypeSubscribe       ActionType = "SUBSCRIBE"
	ActionTypeOneTimePurchase ActionType = "ONE_TIME_PURCHASE"
)

// DiscountPlan is a pivot row scoping a discount to one plan
type DiscountPlan struct {
	DiscountID uuid.UUID `gorm:"type:uuid;primaryKey"`
	PlanID     uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for the discount-plan pivot
func (DiscountPlan) TableName() string {
	return "discount_plans"
}

// DiscountOneTimeProduct is a pivot row scoping a discount to one product
type DiscountOneTimeProduct struct {
	DiscountID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	OneTimeProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
}

// TableName returns the table name for the discount-product pivot
func (DiscountOneTimeProduct) TableName() string {
	return "discount_one_time_products"
}

// DiscountCode is the redeemable string bound to one discount
type DiscountCode struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DiscountID uuid.UUID `gorm:"type:uuid;not null;index"`
	Code       string    `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// TableName returns the table name for the discount code model
func (DiscountCode) TableName() string {
	return "discount_codes"
}

// Redemption is an append-only fact that a user redeemed a code for a
// subscription or an order
type Redemption struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DiscountID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	DiscountCodeID uuid.UUID  `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	SubscriptionID *uuid.UUID `gorm:"type:uuid;index"`
	OrderID        *uuid.UUID `gorm:"type:uuid;index"`
	CreatedAt      time.Time
}

// TableName returns the table name for the redemption model
func (Redemption) TableName() string {
	return "discount_redemptions"
}

// SubscriptionDiscount is the immutable snapshot of discount terms
// taken at redemption time. Later edits to the Discount never alter a
// grant already applied.
type SubscriptionDiscount struct {
	ID             uuid.UUID    `gorm:"type:uuid;primaryKey"`
	SubscriptionID uuid.UUID    `gorm:"type:uuid;not null;index"`
	DiscountID     uuid.UUID    `gorm:"type:uuid;not null"`
	Type           DiscountType `gorm:"size:20;not null"`
	Amount         int64        `gorm:"not null"`
	ValidUntil     *time.Time
	IsRecurring    bool `gorm:"not null;default:false"`
	CreatedAt      time.Time
}

// TableName returns the table name for the subscription discount model
func (SubscriptionDiscount) TableName() string {
	return "subscription_discounts"
}

// Discount defines a price reduction and its eligibility rules
type Discount struct {
	shared.BaseEntity
	Name                  string       `gorm:"size:255;not null"`
	Type                  DiscountType `gorm:"size:20;not null"`
	Amount                int64        `gorm:"not null"`
	IsActive              bool         `gorm:"not null;default:true"`
	ValidUntil            *time.Time
	ActionType            *ActionType `gorm:"size:30"`
	MaxRedemptions        int         `gorm:"not null;default:-1"`
	MaxRedemptionsPerUser *int
	Redemptions           int  `gorm:"not null;default:0"`
	IsRecurring           bool `gorm:"not null;default:false"`
	EnabledForAllPlans    bool `gorm:"not null;default:false"`
	EnabledForAllProducts bool `gorm:"not null;default:false"`
	Plans                 []DiscountPlan           `gorm:"foreignKey:DiscountID"`
	OneTimeProducts       []DiscountOneTimeProduct `gorm:"foreignKey:DiscountID"`
	Codes                 []DiscountCode           `gorm:"foreignKey:DiscountID"`
}

// TableName returns the table name for the discount model
func (Discount) TableName() string {
	return "discounts"
}

// NewDiscount creates a new discount
func NewDiscount(name string, discountType DiscountType, amount int64) (*Discount, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Discount name cannot be empty")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT_TYPE", "Invalid discount type")
	}
	if amount < 0 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Discount amount cannot be negative")
	}
	if discountType == DiscountTypePercentage && amount > 100 {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Percentage discount cannot exceed 100")
	}

	return &Discount{
		BaseEntity:     shared.NewBaseEntity(),
		Name:           name,
		Type:           discountType,
		Amount:         amount,
		IsActive:       true,
		MaxRedemptions: UnlimitedRedemptions,
	}, nil
}

// IsRedeemableAt evaluates the code-independent eligibility rules at
// the given instant. userRedemptions is how many times this user has
// already redeemed a code of this discount.
func (d *Discount) IsRedeemableAt(now time.Time, userRedemptions int, action ActionType) bool {
	if !d.IsActive {
		return false
	}
	if d.ValidUntil != nil && d.ValidUntil.Before(now) {
		return false
	}
	if d.ActionType != nil && *d.ActionType != action {
		return false
	}
	if d.MaxRedemptions != UnlimitedRedemptions && d.Redemptions >= d.MaxRedemptions {
		return false
	}
	if d.MaxRedemptionsPerUser != nil && *d.MaxRedemptionsPerUser != UnlimitedRedemptions &&
		userRedemptions >= *d.MaxRedemptionsPerUser {
		return false
	}
	return true
}

// IsEnabledForPlan returns true if the discount applies to the plan,
// either globally or through an explicit membership row
func (d *Discount) IsEnabledForPlan(planID uuid.UUID) bool {
	if d.EnabledForAllPlans {
		return true
	}
	for _, p := range d.Plans {
		if p.PlanID == planID {
			return true
		}
	}
	return false
}

// IsEnabledForOneTimeProduct returns true if the discount applies to
// the one-time product
func (d *Discount) IsEnabledForOneTimeProduct(productID uuid.UUID) bool {
	if d.EnabledForAllProducts {
		return true
	}
	for _, p := range d.OneTimeProducts {
		if p.OneTimeProductID == productID {
			return true
		}
	}
	return false
}

// AmountFor returns the discount value for the given subtotal. FIXED
// caps at the subtotal; PERCENTAGE floors; an unknown type yields
// zero. The result is never negative and never exceeds the subtotal.
// Pure: same inputs always give the same result.
func (d *Discount) AmountFor(subtotal valueobject.Money) valueobject.Money {
	switch d.Type {
	case DiscountTypeFixed:
		amount := d.Amount
		if amount > subtotal.Amount() {
			amount = subtotal.Amount()
		}
		if amount < 0 {
			amount = 0
		}
		return valueobject.MustNewMoney(amount, subtotal.Currency())
	case DiscountTypePercentage:
		return subtotal.Percentage(d.Amount)
	}
	return valueobject.Zero(subtotal.Currency())
}

// SnapshotFor captures the discount terms for a subscription grant
func (d *Discount) SnapshotFor(subscriptionID uuid.UUID) *SubscriptionDiscount {
	return &SubscriptionDiscount{
		ID:             uuid.New(),
		SubscriptionID: subscriptionID,
		DiscountID:     d.ID,
		Type:           d.Type,
		Amount:         d.Amount,
		ValidUntil:     d.ValidUntil,
		IsRecurring:    d.IsRecurring,
		CreatedAt:      time.Now(),
	}
}
