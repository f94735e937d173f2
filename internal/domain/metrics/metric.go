package metrics

import (
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Well-known metric series written by the daily aggregation beat.
const (
	MetricTotalUsers          = "total_users"
	MetricMRR                 = "mrr"
	MetricDailyRevenue        = "daily_revenue"
	MetricTotalRevenue        = "total_revenue"
	MetricARPU                = "arpu"
	MetricActiveSubscriptions = "active_subscriptions"
	MetricConversionRate      = "conversion_rate"
	MetricChurnRate           = "churn_rate"
)

// Metric is a named time series. Data points hang off it one per day.
type Metric struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the metric model
func (Metric) TableName() string {
	return "metrics"
}

// NewMetric creates a new metric series
func NewMetric(name string) (*Metric, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_METRIC", "Metric name cannot be empty")
	}
	now := time.Now()
	return &Metric{
		ID:        uuid.New(),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// MetricDataPoint is one observed value of a metric for one calendar
// day. The (metric_id, date) pair is unique; writing the same day
// twice overwrites the value instead of adding a row.
type MetricDataPoint struct {
	ID        uuid.UUID       `gorm:"type:uuid;primaryKey"`
	MetricID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_metric_date"`
	Date      time.Time       `gorm:"type:date;not null;uniqueIndex:idx_metric_date"`
	Value     decimal.Decimal `gorm:"type:numeric(20,4);not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName returns the table name for the metric data point model
func (MetricDataPoint) TableName() string {
	return "metric_data_points"
}

// NewMetricDataPoint creates a data point bucketed to the day of ts
func NewMetricDataPoint(metricID uuid.UUID, ts time.Time, value decimal.Decimal) (*MetricDataPoint, error) {
	if metricID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_METRIC", "Metric ID cannot be empty")
	}
	now := time.Now()
	return &MetricDataPoint{
		ID:        uuid.New(),
		MetricID:  metricID,
		Date:      DayOf(ts),
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// DayOf truncates ts to midnight UTC, the bucket key for data points
func DayOf(ts time.Time) time.Time {
	y, m, d := ts.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
