package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billingkit/backend/internal/domain/catalog"
	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/billingkit/backend/internal/domain/subscription"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSubscriptionRepository implements subscription.Repository using GORM
type GormSubscriptionRepository struct {
	db *gorm.DB
}

// NewGormSubscriptionRepository creates a new GormSubscriptionRepository
func NewGormSubscriptionRepository(db *gorm.DB) *GormSubscriptionRepository {
	return &GormSubscriptionRepository{db: db}
}

// FindByID finds a subscription by its ID with discounts loaded
func (r *GormSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.WithContext(ctx).Preload("Discounts").First(&sub, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByProviderSubscriptionID finds a subscription by its provider-side identifier
func (r *GormSubscriptionRepository) FindByProviderSubscriptionID(ctx context.Context, providerSlug, providerSubscriptionID string) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.WithContext(ctx).Preload("Discounts").
		Where("provider_slug = ? AND provider_subscription_id = ?", providerSlug, providerSubscriptionID).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// CountNotDeadByUser counts the user's subscriptions still holding the
// one-per-user slot
func (r *GormSubscriptionRepository) CountNotDeadByUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&subscription.Subscription{}).
		Where("user_id = ? AND status IN ?", userID, subscription.NotDeadStatuses()).
		Count(&count).Error
	return count, err
}

// FindActiveUsageBasedByUser resolves the user's active metered subscription
func (r *GormSubscriptionRepository) FindActiveUsageBasedByUser(ctx context.Context, userID uuid.UUID) (*subscription.Subscription, error) {
	var sub subscription.Subscription
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND price_type IN ?",
			userID, subscription.StatusActive,
			[]catalog.PriceType{catalog.PriceTypeTiered, catalog.PriceTypePerUnit}).
		First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// FindByUserAndStatus returns the user's subscriptions in a status
func (r *GormSubscriptionRepository) FindByUserAndStatus(ctx context.Context, userID uuid.UUID, status subscription.Status) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, status).
		Order("created_at DESC").
		Find(&subs).Error
	return subs, err
}

// CreateReplacingNew deletes the user's NEW checkout attempts and
// inserts the fresh one inside a single transaction
func (r *GormSubscriptionRepository) CreateReplacingNew(ctx context.Context, sub *subscription.Subscription) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ? AND status = ?", sub.UserID, subscription.StatusNew).
			Delete(&subscription.Subscription{}).Error; err != nil {
			return err
		}
		return tx.Create(sub).Error
	})
}

// Save persists the subscription
func (r *GormSubscriptionRepository) Save(ctx context.Context, sub *subscription.Subscription) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(sub).Error
}

// MarkPendingIfNew performs the conditional NEW -> PENDING transition.
// Returns false when a concurrent webhook already advanced the status.
func (r *GormSubscriptionRepository) MarkPendingIfNew(ctx context.Context, id uuid.UUID) (bool, error) {
	res := r.db.WithContext(ctx).Model(&subscription.Subscription{}).
		Where("id = ? AND status = ? AND type = ?", id, subscription.StatusNew, subscription.TypeProviderManaged).
		Updates(map[string]interface{}{"status": subscription.StatusPending, "updated_at": time.Now()})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// FindExpiredLocalActive returns locally-managed ACTIVE subscriptions
// whose ends_at is in the past
func (r *GormSubscriptionRepository) FindExpiredLocalActive(ctx context.Context, now time.Time) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	err := r.db.WithContext(ctx).
		Where("type = ? AND status = ? AND ends_at IS NOT NULL AND ends_at <= ?",
			subscription.TypeLocallyManaged, subscription.StatusActive, now).
		Find(&subs).Error
	return subs, err
}

// SaveTrial records the trial snapshot with first-write-wins semantics
func (r *GormSubscriptionRepository) SaveTrial(ctx context.Context, trial *subscription.UserSubscriptionTrial) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "subscription_id"}},
			DoNothing: true,
		}).
		Create(trial).Error
}

// CountByStatus counts subscriptions currently in the status
func (r *GormSubscriptionRepository) CountByStatus(ctx context.Context, status subscription.Status) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&subscription.Subscription{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

// FindAllByStatus returns every subscription in the status
func (r *GormSubscriptionRepository) FindAllByStatus(ctx context.Context, status subscription.Status) ([]subscription.Subscription, error) {
	var subs []subscription.Subscription
	err := r.db.WithContext(ctx).Where("status = ?", status).Find(&subs).Error
	return subs, err
}

// CountLostBetween counts CANCELED or INACTIVE subscriptions created
// before from whose ends_at falls in [from, to)
func (r *GormSubscriptionRepository) CountLostBetween(ctx context.Context, from, to time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&subscription.Subscription{}).
		Where("status IN ? AND created_at < ? AND ends_at >= ? AND ends_at < ?",
			[]subscription.Status{subscription.StatusCanceled, subscription.StatusInactive}, from, from, to).
		Count(&count).Error
	return count, err
}

// CountDistinctSubscribedUsers counts distinct users holding at least
// one subscription created on or before cutoff
func (r *GormSubscriptionRepository) CountDistinctSubscribedUsers(ctx context.Context, cutoff time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&subscription.Subscription{}).
		Where("created_at <= ?", cutoff).
		Distinct("user_id").
		Count(&count).Error
	return count, err
}

var _ subscription.Repository = (*GormSubscriptionRepository)(nil)
