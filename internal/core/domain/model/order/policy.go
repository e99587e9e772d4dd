package order

import "time"

const (
	DefaultMaxQuantityKg    = 1000.0
	DefaultMaxScheduleAhead = 30 * 24 * time.Hour
)

// Policy holds the configurable limits applied when an order is created.
type Policy struct {
	MaxQuantityKg    float64
	MaxScheduleAhead time.Duration
}

// DefaultPolicy returns the 1000 kg / 30 day limits.
func DefaultPolicy() Policy {
	return Policy{
		MaxQuantityKg:    DefaultMaxQuantityKg,
		MaxScheduleAhead: DefaultMaxScheduleAhead,
	}
}
