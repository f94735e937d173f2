package metrics

import (
	"fmt"
	"sort"
	"time"

	"github.com/billingkit/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Granularity is the bucket width for a rolled-up series
type Granularity string

const (
	GranularityDay   Granularity = "day"
	GranularityWeek  Granularity = "week"
	GranularityMonth Granularity = "month"
	GranularityYear  Granularity = "year"
)

// IsValid checks if the granularity is a valid Granularity
func (g Granularity) IsValid() bool {
	switch g {
	case GranularityDay, GranularityWeek, GranularityMonth, GranularityYear:
		return true
	}
	return false
}

// Aggregate is how daily values collapse into one bucket value
type Aggregate string

const (
	AggregateAverage   Aggregate = "average"
	AggregateSum       Aggregate = "sum"
	AggregateLastValue Aggregate = "last_value"
	AggregateMax       Aggregate = "max"
)

// IsValid checks if the aggregate is a valid Aggregate
func (a Aggregate) IsValid() bool {
	switch a {
	case AggregateAverage, AggregateSum, AggregateLastValue, AggregateMax:
		return true
	}
	return false
}

// SeriesPoint is one bucket of a rolled-up series
type SeriesPoint struct {
	Label string          `json:"label"`
	Date  time.Time       `json:"date"`
	Value decimal.Decimal `json:"value"`
}

func bucketKey(g Granularity, date time.Time) (string, time.Time) {
	switch g {
	case GranularityWeek:
		year, week := date.ISOWeek()
		return fmt.Sprintf("%d-W%02d", year, week), date
	case GranularityMonth:
		return date.Format("January 2006"), time.Date(date.Year(), date.Month(), 1, 0, 0, 0, 0, time.UTC)
	case GranularityYear:
		return date.Format("2006"), time.Date(date.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	default:
		return date.Format("2006-01-02"), date
	}
}

// AdjustToPeriod rolls daily data points into buckets of the given
// granularity, collapsing each bucket with the given aggregate.
// Points must carry at most one value per day; output is ordered
// chronologically by bucket start.
func AdjustToPeriod(points []*MetricDataPoint, granularity Granularity, aggregate Aggregate) ([]SeriesPoint, error) {
	if !granularity.IsValid() {
		return nil, shared.NewDomainError("INVALID_GRANULARITY", "Unknown granularity: "+string(granularity))
	}
	if !aggregate.IsValid() {
		return nil, shared.NewDomainError("INVALID_AGGREGATE", "Unknown aggregate: "+string(aggregate))
	}

	sorted := make([]*MetricDataPoint, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	type bucket struct {
		start  time.Time
		values []decimal.Decimal
	}
	order := make([]string, 0)
	buckets := make(map[string]*bucket)

	for _, p := range sorted {
		key, start := bucketKey(granularity, DayOf(p.Date))
		b, ok := buckets[key]
		if !ok {
			b = &bucket{start: start}
			buckets[key] = b
			order = append(order, key)
		}
		if start.Before(b.start) {
			b.start = start
		}
		b.values = append(b.values, p.Value)
	}

	out := make([]SeriesPoint, 0, len(order))
	for _, key := range order {
		b := buckets[key]
		out = append(out, SeriesPoint{Label: key, Date: b.start, Value: collapse(aggregate, b.values)})
	}
	return out, nil
}

func collapse(aggregate Aggregate, values []decimal.Decimal) decimal.Decimal {
	if len(values) == 0 {
		return decimal.Zero
	}
	switch aggregate {
	case AggregateSum:
		return decimal.Sum(values[0], values[1:]...)
	case AggregateAverage:
		return decimal.Avg(values[0], values[1:]...)
	case AggregateMax:
		max := values[0]
		for _, v := range values[1:] {
			if v.GreaterThan(max) {
				max = v
			}
		}
		return max
	default: // last_value, values are in date order
		return values[len(values)-1]
	}
}
