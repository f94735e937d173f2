package persistence

import (
	"context"
	"errors"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPlanRepository implements catalog.PlanRepository using GORM
type GormPlanRepository struct {
	db *gorm.DB
}

// NewGormPlanRepository creates a new GormPlanRepository
func NewGormPlanRepository(db *gorm.DB) *GormPlanRepository {
	return &GormPlanRepository{db: db}
}

// FindByID finds a plan by its ID
func (r *GormPlanRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Plan, error) {
	var plan catalog.Plan
	if err := r.db.WithContext(ctx).
		Preload("Prices").Preload("ProviderMappings").
		First(&plan, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindActiveBySlug resolves an active plan by slug
func (r *GormPlanRepository) FindActiveBySlug(ctx context.Context, slug string) (*catalog.Plan, error) {
	var plan catalog.Plan
	if err := r.db.WithContext(ctx).
		Preload("Prices").Preload("ProviderMappings").
		Where("slug = ? AND is_active = ?", slug, true).
		First(&plan).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrPlanNotFound
		}
		return nil, err
	}
	return &plan, nil
}

// FindAllActive returns every active plan
func (r *GormPlanRepository) FindAllActive(ctx context.Context) ([]catalog.Plan, error) {
	var plans []catalog.Plan
	err := r.db.WithContext(ctx).
		Preload("Prices").Preload("ProviderMappings").
		Where("is_active = ?", true).
		Order("created_at ASC").
		Find(&plans).Error
	return plans, err
}

// Save persists the plan and its prices
func (r *GormPlanRepository) Save(ctx context.Context, plan *catalog.Plan) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(plan).Error
}

var _ catalog.PlanRepository = (*GormPlanRepository)(nil)
