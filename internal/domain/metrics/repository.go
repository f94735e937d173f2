package metrics

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// Repository defines the metric repository interface
type Repository interface {
	// FindOrCreateByName returns the named series, creating it on first use
	FindOrCreateByName(ctx context.Context, name string) (*Metric, error)

	// UpsertDataPoint writes the value for the day of ts, overwriting
	// any value already recorded for that day
	UpsertDataPoint(ctx context.Context, name string, ts time.Time, value decimal.Decimal) error

	// FindDataPoints returns the daily points of the named series in
	// [from, to], ordered by date ascending
	FindDataPoints(ctx context.Context, name string, from, to time.Time) ([]*MetricDataPoint, error)

	// LatestPointBefore returns the most recent point of the named
	// series strictly before the day of cutoff, or nil when the series
	// has no earlier point
	LatestPointBefore(ctx context.Context, name string, cutoff time.Time) (*MetricDataPoint, error)
}
