package audit

import (
	"time"

	"dispatch/internal/pkg/errs"
)

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Filter narrows history reads. Zero values mean no restriction.
type Filter struct {
	EventTypes []string
	From       *time.Time
	To         *time.Time
}

// Validate rejects inverted date ranges.
func (f Filter) Validate() error {
	if f.From != nil && f.To != nil && f.To.Before(*f.From) {
		return errs.NewValueIsOutOfRangeError("date range", f.To.Format(time.RFC3339),
			f.From.Format(time.RFC3339), "open")
	}
	return nil
}

// PageRequest is an offset window over entries ordered newest first.
type PageRequest struct {
	Limit  int
	Offset int
}

// Normalize applies the default limit and clamps to MaxPageLimit.
func (p PageRequest) Normalize() PageRequest {
	switch {
	case p.Limit <= 0:
		p.Limit = DefaultPageLimit
	case p.Limit > MaxPageLimit:
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// Page is one window of results together with the unpaged total.
type Page[T any] struct {
	Items  []T
	Total  int64
	Limit  int
	Offset int
}
