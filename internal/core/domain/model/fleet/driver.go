package fleet

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrDriverIsNotConstructed = errors.New("Driver must be created via NewDriver constructor")

// Driver is a person who can be dispatched with exactly one paired vehicle.
//
// Status changes made by people (ONLINE, OFFLINE, BREAK) go through
// ChangeStatus; ON_DELIVERY is only entered through Reserve and left through
// Release, both called by the lifecycle engine.
type Driver struct {
	id                kernel.UUID
	userID            kernel.UUID
	name              string
	licenseNumber     string
	status            DriverStatus
	available         bool
	vehicleID         *kernel.UUID
	location          *kernel.GeoPoint
	locationUpdatedAt *time.Time
	version           int

	isConstructed bool
}

// NewDriver registers an OFFLINE, available driver without a vehicle.
func NewDriver(id, userID kernel.UUID, name, licenseNumber string) (*Driver, error) {
	d := &Driver{
		status:        Offline,
		available:     true,
		isConstructed: true,
	}

	if err := errors.Join(
		id.Validate(),
		userID.Validate(),
		d.setName(name),
		d.setLicenseNumber(licenseNumber),
	); err != nil {
		return nil, err
	}
	d.id = id
	d.userID = userID

	return d, nil
}

// DriverState is the mutable part of a driver as stored.
type DriverState struct {
	Status            DriverStatus
	Available         bool
	VehicleID         *kernel.UUID
	Location          *kernel.GeoPoint
	LocationUpdatedAt *time.Time
	Version           int
}

// RestoreDriver rebuilds a driver from storage.
func RestoreDriver(id, userID kernel.UUID, name, licenseNumber string, state DriverState) (*Driver, error) {
	d, err := NewDriver(id, userID, name, licenseNumber)
	if err != nil {
		return nil, err
	}
	if err = state.Status.Validate(); err != nil {
		return nil, err
	}
	d.status = state.Status
	d.available = state.Available
	d.vehicleID = state.VehicleID
	d.location = state.Location
	d.locationUpdatedAt = state.LocationUpdatedAt
	d.version = state.Version
	return d, nil
}

func (d *Driver) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDriverIsNotConstructed
	}
	return nil
}

func (d *Driver) ID() kernel.UUID                { return d.id }
func (d *Driver) UserID() kernel.UUID            { return d.userID }
func (d *Driver) Name() string                   { return d.name }
func (d *Driver) LicenseNumber() string          { return d.licenseNumber }
func (d *Driver) Status() DriverStatus           { return d.status }
func (d *Driver) IsAvailable() bool              { return d.available }
func (d *Driver) VehicleID() *kernel.UUID        { return d.vehicleID }
func (d *Driver) Location() *kernel.GeoPoint     { return d.location }
func (d *Driver) LocationUpdatedAt() *time.Time  { return d.locationUpdatedAt }
func (d *Driver) Version() int                   { return d.version }
func (d *Driver) IsUser(userID kernel.UUID) bool { return d.userID.IsEqual(userID) }

// IsDispatchable reports whether the driver may be selected for a new order.
func (d *Driver) IsDispatchable() bool {
	return d.status == Online && d.available
}

// ChangeStatus applies a manual shift change.
func (d *Driver) ChangeStatus(next DriverStatus) error {
	if err := next.Validate(); err != nil {
		return err
	}
	if next == OnDelivery || d.status == OnDelivery {
		return errs.NewInvalidTransitionError("driver", d.status.String(), next.String())
	}
	d.status = next
	return nil
}

// SetAvailable toggles the dispatcher-controlled availability flag.
func (d *Driver) SetAvailable(available bool) {
	d.available = available
}

// ReportLocation stores the driver's last known position.
func (d *Driver) ReportLocation(location kernel.GeoPoint, at time.Time) error {
	if err := location.Validate(); err != nil {
		return err
	}
	d.location = &location
	d.locationUpdatedAt = &at
	return nil
}

// PairVehicle links the driver to a vehicle. The vehicle side is updated by
// the caller through Vehicle.PairDriver.
func (d *Driver) PairVehicle(vehicleID kernel.UUID) error {
	if err := vehicleID.Validate(); err != nil {
		return err
	}
	if d.status == OnDelivery {
		return errs.NewResourceUnavailableError("driver", "driver is on a delivery")
	}
	d.vehicleID = &vehicleID
	return nil
}

// UnpairVehicle clears the vehicle link.
func (d *Driver) UnpairVehicle() error {
	if d.status == OnDelivery {
		return errs.NewResourceUnavailableError("driver", "driver is on a delivery")
	}
	d.vehicleID = nil
	return nil
}

// Reserve puts a dispatchable driver on a delivery.
func (d *Driver) Reserve() error {
	if !d.IsDispatchable() {
		return errs.NewResourceUnavailableError("driver", "driver "+d.id.String()+" is "+d.status.String())
	}
	d.status = OnDelivery
	return nil
}

// Release returns a driver from a finished or cancelled delivery to ONLINE.
func (d *Driver) Release() {
	if d.status == OnDelivery {
		d.status = Online
	}
}

func (d *Driver) setName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errs.NewValueIsRequiredError("driver name")
	}
	d.name = strings.TrimSpace(name)
	return nil
}

func (d *Driver) setLicenseNumber(licenseNumber string) error {
	if strings.TrimSpace(licenseNumber) == "" {
		return errs.NewValueIsRequiredError("license number")
	}
	d.licenseNumber = strings.TrimSpace(licenseNumber)
	return nil
}
