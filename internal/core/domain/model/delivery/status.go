package delivery

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// Status is the operational state of a Delivery. It never moves on its own:
// every change is cascaded from an order transition.
type Status int

const (
	Unknown Status = iota
	Assigned
	InProgress
	Completed
	Failed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "UNKNOWN",
		Assigned:   "ASSIGNED",
		InProgress: "IN_PROGRESS",
		Completed:  "COMPLETED",
		Failed:     "FAILED",
	}
}

func ParseStatus(s string) (Status, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getStatusStrings() {
		if status != Unknown && str == normalized {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%q is not a valid delivery status", s))
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s Status) Validate() error {
	if s <= Unknown || s > Failed {
		return errs.NewValueIsInvalidErrorWithCause("delivery status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// IsActive reports whether the delivery still holds its driver and vehicle.
func (s Status) IsActive() bool {
	return s == Assigned || s == InProgress
}
