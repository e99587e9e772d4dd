package services

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrNoDriversAvailable is returned by auto-assignment when no candidate is eligible.
	ErrNoDriversAvailable = errs.NewResourceUnavailableError("driver", "no drivers available")

	// ErrNoVehicleAssigned is returned when a driver is chosen without a paired vehicle.
	ErrNoVehicleAssigned = errs.NewResourceUnavailableError("vehicle", "driver has no vehicle assigned")

	// ErrNoDriverAssigned is returned when a vehicle is chosen without a paired driver.
	ErrNoDriverAssigned = errs.NewResourceUnavailableError("driver", "vehicle has no driver assigned")
)

// Candidate is a driver together with the vehicle it would drive.
type Candidate struct {
	Driver  *fleet.Driver
	Vehicle *fleet.Vehicle
}

// Assignment is the outcome of a successful dispatch. Driver and Vehicle are
// the reserved instances that must be persisted with the order and delivery.
type Assignment struct {
	Delivery *delivery.Delivery
	Driver   *fleet.Driver
	Vehicle  *fleet.Vehicle
}

// OrderDispatcher is the assignment engine. It selects a driver and vehicle
// for a pending order and reserves both.
//
// Business rules:
//   - only Pending orders can be dispatched; anything else is an invalid transition
//   - the driver must be ONLINE and available
//   - the vehicle must be AVAILABLE, have enough free capacity and be either
//     unpaired or paired with the chosen driver
//   - auto mode picks the eligible candidate closest to the pickup point by
//     great-circle distance, breaking ties by the lowest driver id
//
// OrderDispatcher only mutates the aggregates it is given. Persisting them
// atomically (and detecting that another request reserved the same driver)
// is the caller's job.
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher()
//	a, err := dispatcher.DispatchNearest(o, candidates, dispatcherID, now)
//	if errors.Is(err, errs.ErrResourceUnavailable) {
//	    // nobody can take the order right now
//	}
type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// DispatchTo reserves an explicitly chosen driver and vehicle for o.
func (d OrderDispatcher) DispatchTo(
	o *order.Order,
	driver *fleet.Driver,
	vehicle *fleet.Vehicle,
	assignedBy kernel.UUID,
	now time.Time,
) (Assignment, error) {
	if err := d.checkOrder(o); err != nil {
		return Assignment{}, err
	}
	if err := d.checkCandidate(o, Candidate{Driver: driver, Vehicle: vehicle}); err != nil {
		return Assignment{}, err
	}
	return d.reserve(o, Candidate{Driver: driver, Vehicle: vehicle}, assignedBy, now)
}

// DispatchNearest picks the nearest eligible candidate and reserves it.
func (d OrderDispatcher) DispatchNearest(
	o *order.Order,
	candidates []Candidate,
	assignedBy kernel.UUID,
	now time.Time,
) (Assignment, error) {
	if err := d.checkOrder(o); err != nil {
		return Assignment{}, err
	}
	best, err := d.FindNearest(o, candidates)
	if err != nil {
		return Assignment{}, err
	}
	return d.reserve(o, best, assignedBy, now)
}

// FindNearest returns the eligible candidate closest to the order's pickup
// location. Candidates without a reported location are skipped.
func (d OrderDispatcher) FindNearest(o *order.Order, candidates []Candidate) (Candidate, error) {
	var (
		best     Candidate
		bestDist float64
		found    bool
	)

	for _, c := range candidates {
		if d.checkCandidate(o, c) != nil || c.Driver.Location() == nil {
			continue
		}

		dist := c.Driver.Location().Distance(o.PickupLocation())
		if !found || dist < bestDist || (dist == bestDist && c.Driver.ID().Compare(best.Driver.ID()) < 0) {
			best, bestDist, found = c, dist, true
		}
	}

	if !found {
		return Candidate{}, ErrNoDriversAvailable
	}
	return best, nil
}

func (d OrderDispatcher) checkOrder(o *order.Order) error {
	if err := o.Validate(); err != nil {
		return err
	}
	if o.Status() != order.Pending {
		return errs.NewInvalidTransitionError("order", o.Status().String(), order.Assigned.String())
	}
	return nil
}

func (d OrderDispatcher) checkCandidate(o *order.Order, c Candidate) error {
	if c.Driver.Validate() != nil {
		return ErrNoDriversAvailable
	}
	if c.Vehicle.Validate() != nil {
		return ErrNoVehicleAssigned
	}
	if !c.Driver.IsDispatchable() {
		return errs.NewResourceUnavailableError("driver",
			"driver "+c.Driver.ID().String()+" is not online and available")
	}
	if c.Vehicle.DriverID() != nil && !c.Vehicle.IsPairedWith(c.Driver.ID()) {
		return errs.NewResourceUnavailableError("vehicle",
			"vehicle "+c.Vehicle.PlateNumber()+" is paired with another driver")
	}
	if !c.Vehicle.CanCarry(o.QuantityKg()) {
		return errs.NewResourceUnavailableError("vehicle",
			"vehicle "+c.Vehicle.PlateNumber()+" is not available for this load")
	}
	return nil
}

func (d OrderDispatcher) reserve(o *order.Order, c Candidate, assignedBy kernel.UUID, now time.Time) (Assignment, error) {
	dlv, err := delivery.NewDelivery(kernel.NewUUID(), o.ID(), c.Driver.ID(), c.Vehicle.ID(), assignedBy, now)
	if err != nil {
		return Assignment{}, err
	}
	if err = c.Driver.Reserve(); err != nil {
		return Assignment{}, err
	}
	if err = c.Vehicle.Reserve(o.QuantityKg()); err != nil {
		return Assignment{}, err
	}
	if err = o.MarkAssigned(now); err != nil {
		return Assignment{}, err
	}
	return Assignment{Delivery: dlv, Driver: c.Driver, Vehicle: c.Vehicle}, nil
}
