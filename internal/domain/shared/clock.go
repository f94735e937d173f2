package shared

import "time"

// Clock supplies the current time to engine code. Business decisions
// (trial expiry, metric reference dates, cron sweeps) never call
// time.Now directly so tests can pin the instant.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now
type SystemClock struct{}

// Now returns the current wall-clock time
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock is a Clock pinned to a single instant, for tests
type FixedClock struct {
	Instant time.Time
}

// Now returns the pinned instant
func (c FixedClock) Now() time.Time {
	return c.Instant
}
