package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/billingkit/backend/internal/domain/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormMetricRepository implements metrics.Repository using GORM
type GormMetricRepository struct {
	db *gorm.DB
}

// NewGormMetricRepository creates a new GormMetricRepository
func NewGormMetricRepository(db *gorm.DB) *GormMetricRepository {
	return &GormMetricRepository{db: db}
}

// FindOrCreateByName returns the named series, creating it on first use
func (r *GormMetricRepository) FindOrCreateByName(ctx context.Context, name string) (*metrics.Metric, error) {
	metric, err := metrics.NewMetric(name)
	if err != nil {
		return nil, err
	}
	var found metrics.Metric
	err = r.db.WithContext(ctx).
		Where(metrics.Metric{Name: name}).
		Attrs(metrics.Metric{ID: metric.ID, CreatedAt: metric.CreatedAt, UpdatedAt: metric.UpdatedAt}).
		FirstOrCreate(&found).Error
	if err != nil {
		return nil, err
	}
	return &found, nil
}

// UpsertDataPoint writes the value for the day of ts, overwriting any
// value already recorded for that day
func (r *GormMetricRepository) UpsertDataPoint(ctx context.Context, name string, ts time.Time, value decimal.Decimal) error {
	metric, err := r.FindOrCreateByName(ctx, name)
	if err != nil {
		return err
	}
	point, err := metrics.NewMetricDataPoint(metric.ID, ts, value)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "metric_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(point).Error
}

// FindDataPoints returns the daily points of the named series in
// [from, to], ordered by date ascending
func (r *GormMetricRepository) FindDataPoints(ctx context.Context, name string, from, to time.Time) ([]*metrics.MetricDataPoint, error) {
	metricID, err := r.lookupID(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var points []*metrics.MetricDataPoint
	err = r.db.WithContext(ctx).
		Where("metric_id = ? AND date >= ? AND date <= ?", metricID, metrics.DayOf(from), metrics.DayOf(to)).
		Order("date ASC").
		Find(&points).Error
	return points, err
}

// LatestPointBefore returns the most recent point strictly before the
// day of cutoff, or nil when the series has no earlier point
func (r *GormMetricRepository) LatestPointBefore(ctx context.Context, name string, cutoff time.Time) (*metrics.MetricDataPoint, error) {
	metricID, err := r.lookupID(ctx, name)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	var point metrics.MetricDataPoint
	err = r.db.WithContext(ctx).
		Where("metric_id = ? AND date < ?", metricID, metrics.DayOf(cutoff)).
		Order("date DESC").
		First(&point).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &point, nil
}

func (r *GormMetricRepository) lookupID(ctx context.Context, name string) (uuid.UUID, error) {
	var metric metrics.Metric
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&metric).Error; err != nil {
		return uuid.Nil, err
	}
	return metric.ID, nil
}

var _ metrics.Repository = (*GormMetricRepository)(nil)
