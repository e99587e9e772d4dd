package fleet

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// DriverStatus is the shift state reported by or for a driver.
type DriverStatus int

const (
	DriverStatusUnknown DriverStatus = iota
	Online
	Offline
	OnDelivery
	OnBreak
)

func getDriverStatusStrings() map[DriverStatus]string {
	return map[DriverStatus]string{
		DriverStatusUnknown: "UNKNOWN",
		Online:              "ONLINE",
		Offline:             "OFFLINE",
		OnDelivery:          "ON_DELIVERY",
		OnBreak:             "BREAK",
	}
}

func ParseDriverStatus(s string) (DriverStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getDriverStatusStrings() {
		if status != DriverStatusUnknown && str == normalized {
			return status, nil
		}
	}
	return DriverStatusUnknown, errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%q is not a valid driver status", s))
}

func (s DriverStatus) String() string {
	if str, ok := getDriverStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s DriverStatus) Validate() error {
	if s <= DriverStatusUnknown || s > OnBreak {
		return errs.NewValueIsInvalidErrorWithCause("driver status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}
