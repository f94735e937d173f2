package persistence

import (
	"context"
	"errors"

	"github.com/billingkit/backend/internal/domain/order"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderRepository implements order.Repository using GORM
type GormOrderRepository struct {
	db *gorm.DB
}

// NewGormOrderRepository creates a new GormOrderRepository
func NewGormOrderRepository(db *gorm.DB) *GormOrderRepository {
	return &GormOrderRepository{db: db}
}

// FindByID finds an order by its ID with items loaded
func (r *GormOrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	var o order.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

// FindByUserAndStatus returns the user's orders in a status
func (r *GormOrderRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status order.Status) ([]order.Order, error) {
	var orders []order.Order
	err := r.db.WithContext(ctx).Preload("Items").
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// Save persists the order header and reconciles its item rows in one
// transaction: rows absent from o.Items are deleted, present ones upserted
func (r *GormOrderRepository) Save(ctx context.Context, o *order.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(o).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(o.Items))
		for i := range o.Items {
			keep = append(keep, o.Items[i].ID)
		}

		del := tx.Where("order_id = ?", o.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&order.OrderItem{}).Error; err != nil {
			return err
		}

		if len(o.Items) > 0 {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&o.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes the order and its items
func (r *GormOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&order.OrderItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&order.Order{}, "id = ?", id).Error
	})
}

var _ order.Repository = (*GormOrderRepository)(nil)
