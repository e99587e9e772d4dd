package cylinder

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the physical lifecycle state of a cylinder.
//
//	Active ──> Filled ──> InDelivery ──> Empty ──> Filled ...
//	  │  │       │  ^          │           │
//	  │  │       │  └──────────┘           │
//	  │  └──> Maintenance <────────────────┘
//	  └──> Stolen ──> Active
//
// Retired is terminal and is reachable from Active, Empty and Maintenance.
type Status int

const (
	Unknown Status = iota
	Active
	Filled
	InDelivery
	Empty
	Maintenance
	Retired
	Stolen
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:     "UNKNOWN",
		Active:      "ACTIVE",
		Filled:      "FILLED",
		InDelivery:  "IN_DELIVERY",
		Empty:       "EMPTY",
		Maintenance: "MAINTENANCE",
		Retired:     "RETIRED",
		Stolen:      "STOLEN",
	}
}

func getTransitions() map[Status][]Status {
	//nolint:exhaustive // retired and unknown have no outgoing edges
	return map[Status][]Status{
		Active:      {Filled, Maintenance, Retired, Stolen},
		Filled:      {InDelivery, Empty, Maintenance},
		InDelivery:  {Filled, Empty},
		Empty:       {Filled, Maintenance, Retired},
		Maintenance: {Active, Retired},
		Stolen:      {Active},
	}
}

// ParseStatus converts a wire name such as "IN_DELIVERY" into a Status.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("cylinder status", fmt.Errorf("%q is not a valid cylinder status", s))
}

func (s Status) Validate() error {
	if s <= Unknown || s > Stolen {
		return errs.NewValueIsInvalidErrorWithCause("cylinder status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, allowed := range getTransitions()[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// TransitionTo returns next when the edge exists and an InvalidTransitionError otherwise.
func (s Status) TransitionTo(next Status) (Status, error) {
	if err := next.Validate(); err != nil {
		return s, err
	}
	if !s.CanTransitionTo(next) {
		return s, errs.NewInvalidTransitionError("cylinder", s.String(), next.String())
	}
	return next, nil
}
