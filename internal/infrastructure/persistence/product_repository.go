package persistence

import (
	"context"
	"errors"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Preload("Plans").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindActiveBySlug resolves an active product by slug
func (r *GormProductRepository) FindActiveBySlug(ctx context.Context, slug string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).Preload("Plans").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// Save persists the product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)

// GormOneTimeProductRepository implements catalog.OneTimeProductRepository using GORM
type GormOneTimeProductRepository struct {
	db *gorm.DB
}

// NewGormOneTimeProductRepository creates a new GormOneTimeProductRepository
func NewGormOneTimeProductRepository(db *gorm.DB) *GormOneTimeProductRepository {
	return &GormOneTimeProductRepository{db: db}
}

// FindByID finds a one-time product by its ID with prices loaded
func (r *GormOneTimeProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.OneTimeProduct, error) {
	var product catalog.OneTimeProduct
	if err := r.db.WithContext(ctx).Preload("Prices").First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindActiveBySlug resolves an active one-time product by slug
func (r *GormOneTimeProductRepository) FindActiveBySlug(ctx context.Context, slug string) (*catalog.OneTimeProduct, error) {
	var product catalog.OneTimeProduct
	if err := r.db.WithContext(ctx).Preload("Prices").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDs returns the one-time products matching the given IDs
func (r *GormOneTimeProductRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]catalog.OneTimeProduct, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var products []catalog.OneTimeProduct
	err := r.db.WithContext(ctx).Preload("Prices").Where("id IN ?", ids).Find(&products).Error
	return products, err
}

// Save persists the one-time product and its prices
func (r *GormOneTimeProductRepository) Save(ctx context.Context, product *catalog.OneTimeProduct) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

var _ catalog.OneTimeProductRepository = (*GormOneTimeProductRepository)(nil)
