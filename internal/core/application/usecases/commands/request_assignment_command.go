package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRequestAssignmentCommandIsNotConstructed = errors.New(
	"RequestAssignmentCommand must be created via NewRequestAssignmentCommand constructor",
)

// RequestAssignmentCommand asks the assignment engine to reserve a driver and
// vehicle for a Pending order. With neither DriverID nor VehicleID set the
// engine picks the nearest eligible pair.
type RequestAssignmentCommand struct { //nolint:recvcheck //using for validation
	orderID   kernel.UUID
	actor     access.Actor
	driverID  *kernel.UUID
	vehicleID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewRequestAssignmentCommand(
	actor access.Actor,
	orderID kernel.UUID,
	driverID, vehicleID *kernel.UUID,
) (RequestAssignmentCommand, error) {
	err := errors.Join(actor.Validate(), orderID.Validate())
	if driverID != nil {
		err = errors.Join(err, driverID.Validate())
	}
	if vehicleID != nil {
		err = errors.Join(err, vehicleID.Validate())
	}
	if err != nil {
		return RequestAssignmentCommand{}, err
	}

	return RequestAssignmentCommand{
		orderID:   orderID,
		actor:     actor,
		driverID:  driverID,
		vehicleID: vehicleID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c RequestAssignmentCommand) Validate() error {
	return c.guard.Validate(ErrRequestAssignmentCommandIsNotConstructed)
}

func (c RequestAssignmentCommand) OrderID() kernel.UUID    { return c.orderID }
func (c RequestAssignmentCommand) Actor() access.Actor     { return c.actor }
func (c RequestAssignmentCommand) DriverID() *kernel.UUID  { return c.driverID }
func (c RequestAssignmentCommand) VehicleID() *kernel.UUID { return c.vehicleID }

// IsAuto reports whether the engine chooses the driver and vehicle.
func (c RequestAssignmentCommand) IsAuto() bool {
	return c.driverID == nil && c.vehicleID == nil
}
