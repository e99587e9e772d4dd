package order

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
// State transitions:
//
//	Pending ──> Assigned ──> OnRoute ──> Delivered
//	   │           │            │
//	   └───────────┴────────────┴──────> Cancelled
//
// Delivered and Cancelled are terminal. Every move is checked against
// the transition table, so no caller can set an arbitrary status.
type Status int

const (
	// Unknown catches uninitialised values.
	Unknown Status = iota

	// Pending is the initial status; the order waits for a driver and vehicle.
	Pending

	// Assigned means a Delivery exists with a reserved driver and vehicle.
	Assigned

	// OnRoute means the driver has picked up the goods.
	OnRoute

	// Delivered is terminal: the goods reached the customer.
	Delivered

	// Cancelled is terminal: the order was abandoned at any earlier stage.
	Cancelled
)

// getStatusStrings returns the wire names of all statuses.
func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:   "UNKNOWN",
		Pending:   "PENDING",
		Assigned:  "ASSIGNED",
		OnRoute:   "ON_ROUTE",
		Delivered: "DELIVERED",
		Cancelled: "CANCELLED",
	}
}

// getTransitions returns the directed edges of the order state machine.
func getTransitions() map[Status][]Status {
	//nolint:exhaustive // terminal and unknown statuses have no outgoing edges
	return map[Status][]Status{
		Pending:  {Assigned, Cancelled},
		Assigned: {OnRoute, Cancelled},
		OnRoute:  {Delivered, Cancelled},
	}
}

// ParseStatus converts a wire name such as "ON_ROUTE" into a Status.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// Validate rejects Unknown and out-of-range values, e.g. ones read from storage.
func (s Status) Validate() error {
	if s <= Unknown || s > Cancelled {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// String implements fmt.Stringer and is safe on invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

// IsTerminal reports whether no further transition is possible.
func (s Status) IsTerminal() bool {
	return s == Delivered || s == Cancelled
}

// CanTransitionTo reports whether next is a direct successor of s.
func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo validates the move and returns the new status.
//
// Returns:
//   - (next, nil) when the edge exists in the transition table
//   - (s, *errs.InvalidTransitionError) otherwise, including repeated terminal moves
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return s, err
	}
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidTransitionError("order", s.String(), next.String())
	}
	return next, nil
}
