package fleet

import (
	"fmt"
	"strings"

	"dispatch/internal/pkg/errs"
)

// VehicleStatus tracks whether a vehicle can take new work.
type VehicleStatus int

const (
	VehicleStatusUnknown VehicleStatus = iota
	Available
	Reserved
	Maintenance
	OutOfService
)

func getVehicleStatusStrings() map[VehicleStatus]string {
	return map[VehicleStatus]string{
		VehicleStatusUnknown: "UNKNOWN",
		Available:            "AVAILABLE",
		Reserved:             "ASSIGNED",
		Maintenance:          "MAINTENANCE",
		OutOfService:         "OUT_OF_SERVICE",
	}
}

func ParseVehicleStatus(s string) (VehicleStatus, error) {
	normalized := strings.ToUpper(strings.TrimSpace(s))
	for status, str := range getVehicleStatusStrings() {
		if status != VehicleStatusUnknown && str == normalized {
			return status, nil
		}
	}
	return VehicleStatusUnknown, errs.NewValueIsInvalidErrorWithCause("vehicle status", fmt.Errorf("%q is not a valid vehicle status", s))
}

func (s VehicleStatus) String() string {
	if str, ok := getVehicleStatusStrings()[s]; ok {
		return str
	}
	return "UNKNOWN"
}

func (s VehicleStatus) Validate() error {
	if s <= VehicleStatusUnknown || s > OutOfService {
		return errs.NewValueIsInvalidErrorWithCause("vehicle status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}
