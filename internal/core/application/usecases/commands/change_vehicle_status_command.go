package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeVehicleStatusCommandIsNotConstructed = errors.New(
	"ChangeVehicleStatusCommand must be created via NewChangeVehicleStatusCommand constructor",
)

// ChangeVehicleStatusCommand takes a vehicle in or out of service.
type ChangeVehicleStatusCommand struct { //nolint:recvcheck //using for validation
	actor     access.Actor
	vehicleID kernel.UUID
	status    fleet.VehicleStatus

	guard guard.ConstructorGuard
}

func NewChangeVehicleStatusCommand(actor access.Actor, vehicleID kernel.UUID, status fleet.VehicleStatus) (ChangeVehicleStatusCommand, error) {
	if err := errors.Join(actor.Validate(), vehicleID.Validate(), status.Validate()); err != nil {
		return ChangeVehicleStatusCommand{}, err
	}
	return ChangeVehicleStatusCommand{
		actor:     actor,
		vehicleID: vehicleID,
		status:    status,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeVehicleStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeVehicleStatusCommandIsNotConstructed)
}

func (c ChangeVehicleStatusCommand) Actor() access.Actor         { return c.actor }
func (c ChangeVehicleStatusCommand) VehicleID() kernel.UUID      { return c.vehicleID }
func (c ChangeVehicleStatusCommand) Status() fleet.VehicleStatus { return c.status }
