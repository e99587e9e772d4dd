package fleet

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrVehicleIsNotConstructed = errors.New("Vehicle must be created via NewVehicle constructor")

// Vehicle carries cylinders for at most one driver at a time.
type Vehicle struct {
	id            kernel.UUID
	plateNumber   string
	model         string
	capacityKg    float64
	currentLoadKg float64
	status        VehicleStatus
	driverID      *kernel.UUID
	lastLocation  *kernel.GeoPoint
	version       int

	isConstructed bool
}

// NewVehicle registers an empty AVAILABLE vehicle.
func NewVehicle(id kernel.UUID, plateNumber, model string, capacityKg float64) (*Vehicle, error) {
	v := &Vehicle{
		status:        Available,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		v.setPlateNumber(plateNumber),
		v.setCapacity(capacityKg),
	); err != nil {
		return nil, err
	}
	v.id = id
	v.model = strings.TrimSpace(model)

	return v, nil
}

// VehicleState is the mutable part of a vehicle as stored.
type VehicleState struct {
	Status        VehicleStatus
	CurrentLoadKg float64
	DriverID      *kernel.UUID
	LastLocation  *kernel.GeoPoint
	Version       int
}

// RestoreVehicle rebuilds a vehicle from storage.
func RestoreVehicle(id kernel.UUID, plateNumber, model string, capacityKg float64, state VehicleState) (*Vehicle, error) {
	v, err := NewVehicle(id, plateNumber, model, capacityKg)
	if err != nil {
		return nil, err
	}
	if err = state.Status.Validate(); err != nil {
		return nil, err
	}
	v.status = state.Status
	v.currentLoadKg = state.CurrentLoadKg
	v.driverID = state.DriverID
	v.lastLocation = state.LastLocation
	v.version = state.Version
	return v, nil
}

func (v *Vehicle) Validate() error {
	if v == nil || !v.isConstructed {
		return ErrVehicleIsNotConstructed
	}
	return nil
}

func (v *Vehicle) ID() kernel.UUID                { return v.id }
func (v *Vehicle) PlateNumber() string            { return v.plateNumber }
func (v *Vehicle) Model() string                  { return v.model }
func (v *Vehicle) CapacityKg() float64            { return v.capacityKg }
func (v *Vehicle) CurrentLoadKg() float64         { return v.currentLoadKg }
func (v *Vehicle) Status() VehicleStatus          { return v.status }
func (v *Vehicle) DriverID() *kernel.UUID         { return v.driverID }
func (v *Vehicle) LastLocation() *kernel.GeoPoint { return v.lastLocation }
func (v *Vehicle) Version() int                   { return v.version }

// FreeCapacityKg is capacity minus current load.
func (v *Vehicle) FreeCapacityKg() float64 {
	return math.Max(0, v.capacityKg-v.currentLoadKg)
}

// CanCarry reports whether the vehicle is AVAILABLE with room for quantityKg.
func (v *Vehicle) CanCarry(quantityKg float64) bool {
	return v.status == Available && v.FreeCapacityKg() >= quantityKg
}

// IsPairedWith reports whether driverID is the vehicle's paired driver.
func (v *Vehicle) IsPairedWith(driverID kernel.UUID) bool {
	return v.driverID != nil && v.driverID.IsEqual(driverID)
}

// ChangeStatus applies a manual change between AVAILABLE, MAINTENANCE and OUT_OF_SERVICE.
func (v *Vehicle) ChangeStatus(next VehicleStatus) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next == Reserved || v.status == Reserved {
		return errs.NewInvalidTransitionError("vehicle", v.status.String(), next.String())
	}
	v.status = next
	return nil
}

// PairDriver links the vehicle to driverID.
func (v *Vehicle) PairDriver(driverID kernel.UUID) error {
	if err := driverID.Validate(); err != nil {
		return err
	}
	if v.status == Reserved {
		return errs.NewResourceUnavailableError("vehicle", "vehicle is on a delivery")
	}
	v.driverID = &driverID
	return nil
}

// UnpairDriver clears the driver link.
func (v *Vehicle) UnpairDriver() error {
	if v.status == Reserved {
		return errs.NewResourceUnavailableError("vehicle", "vehicle is on a delivery")
	}
	v.driverID = nil
	return nil
}

// Reserve loads quantityKg and marks the vehicle ASSIGNED.
func (v *Vehicle) Reserve(quantityKg float64) error {
	if !v.CanCarry(quantityKg) {
		return errs.NewResourceUnavailableError("vehicle",
			fmt.Sprintf("vehicle %s is %s with %.1fkg free", v.plateNumber, v.status, v.FreeCapacityKg()))
	}
	v.status = Reserved
	v.currentLoadKg += quantityKg
	return nil
}

// Release unloads quantityKg and returns a reserved vehicle to AVAILABLE.
func (v *Vehicle) Release(quantityKg float64) {
	v.currentLoadKg = math.Max(0, v.currentLoadKg-quantityKg)
	if v.status == Reserved {
		v.status = Available
	}
}

// UpdateLocation stores the last known position.
func (v *Vehicle) UpdateLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	v.lastLocation = &location
	return nil
}

func (v *Vehicle) setPlateNumber(plate string) error {
	plate = strings.ToUpper(strings.TrimSpace(plate))
	if plate == "" {
		return errs.NewValueIsRequiredError("plate number")
	}
	v.plateNumber = plate
	return nil
}

func (v *Vehicle) setCapacity(capacityKg float64) error {
	if capacityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("capacity", fmt.Errorf("%v is not greater than 0", capacityKg))
	}
	v.capacityKg = capacityKg
	return nil
}
