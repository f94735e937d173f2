package persistence

import (
	"context"
	"errors"

	"github.com/billingkit/backend/internal/domain/discount"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDiscountRepository implements discount.Repository using GORM
type GormDiscountRepository struct {
	db *gorm.DB
}

// NewGormDiscountRepository creates a new GormDiscountRepository
func NewGormDiscountRepository(db *gorm.DB) *GormDiscountRepository {
	return &GormDiscountRepository{db: db}
}

// FindByCode resolves a discount and the matching code row
func (r *GormDiscountRepository) FindByCode(ctx context.Context, code string) (*discount.Discount, *discount.DiscountCode, error) {
	var codeRow discount.DiscountCode
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&codeRow).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, shared.ErrNotFound
		}
		return nil, nil, err
	}

	var d discount.Discount
	if err := r.db.WithContext(ctx).
		Preload("Plans").Preload("OneTimeProducts").
		First(&d, "id = ?", codeRow.DiscountID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, shared.ErrNotFound
		}
		return nil, nil, err
	}
	return &d, &codeRow, nil
}

// CountUserRedemptions counts how many times the user redeemed the code
func (r *GormDiscountRepository) CountUserRedemptions(ctx context.Context, userID, discountCodeID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&discount.Redemption{}).
		Where("user_id = ? AND discount_code_id = ?", userID, discountCodeID).
		Count(&count).Error
	return int(count), err
}

// Redeem records a redemption, bumps the discount counter and, for the
// subscription path, inserts the terms snapshot, all in one transaction
func (r *GormDiscountRepository) Redeem(ctx context.Context, redemption *discount.Redemption, snapshot *discount.SubscriptionDiscount) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(redemption).Error; err != nil {
			return err
		}
		if err := tx.Model(&discount.Discount{}).
			Where("id = ?", redemption.DiscountID).
			UpdateColumn("redemptions", gorm.Expr("redemptions + 1")).Error; err != nil {
			return err
		}
		if snapshot != nil {
			if err := tx.Create(snapshot).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// CountSubscriptionDiscounts counts snapshots granted to a subscription
func (r *GormDiscountRepository) CountSubscriptionDiscounts(ctx context.Context, subscriptionID uuid.UUID) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&discount.SubscriptionDiscount{}).
		Where("subscription_id = ?", subscriptionID).
		Count(&count).Error
	return int(count), err
}

// FindSubscriptionDiscounts returns snapshots granted to a subscription
func (r *GormDiscountRepository) FindSubscriptionDiscounts(ctx context.Context, subscriptionID uuid.UUID) ([]discount.SubscriptionDiscount, error) {
	var snapshots []discount.SubscriptionDiscount
	err := r.db.WithContext(ctx).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at ASC").
		Find(&snapshots).Error
	return snapshots, err
}

// Save persists the discount with its pivots and codes
func (r *GormDiscountRepository) Save(ctx context.Context, d *discount.Discount) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(d).Error
}

var _ discount.Repository = (*GormDiscountRepository)(nil)
