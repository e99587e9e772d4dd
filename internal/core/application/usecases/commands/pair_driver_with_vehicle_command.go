package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrPairDriverWithVehicleCommandIsNotConstructed = errors.New(
	"PairDriverWithVehicleCommand must be created via NewPairDriverWithVehicleCommand constructor",
)

// PairDriverWithVehicleCommand makes a driver and a vehicle exclusive partners.
type PairDriverWithVehicleCommand struct { //nolint:recvcheck //using for validation
	actor     access.Actor
	driverID  kernel.UUID
	vehicleID kernel.UUID

	guard guard.ConstructorGuard
}

func NewPairDriverWithVehicleCommand(actor access.Actor, driverID, vehicleID kernel.UUID) (PairDriverWithVehicleCommand, error) {
	if err := errors.Join(actor.Validate(), driverID.Validate(), vehicleID.Validate()); err != nil {
		return PairDriverWithVehicleCommand{}, err
	}
	return PairDriverWithVehicleCommand{
		actor:     actor,
		driverID:  driverID,
		vehicleID: vehicleID,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c PairDriverWithVehicleCommand) Validate() error {
	return c.guard.Validate(ErrPairDriverWithVehicleCommandIsNotConstructed)
}

func (c PairDriverWithVehicleCommand) Actor() access.Actor    { return c.actor }
func (c PairDriverWithVehicleCommand) DriverID() kernel.UUID  { return c.driverID }
func (c PairDriverWithVehicleCommand) VehicleID() kernel.UUID { return c.vehicleID }
