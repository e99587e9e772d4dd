package commands

import (
	"errors"
	"fmt"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterVehicleCommandIsNotConstructed = errors.New(
	"RegisterVehicleCommand must be created via NewRegisterVehicleCommand constructor",
)

// RegisterVehicleCommand adds an empty AVAILABLE vehicle to the fleet.
type RegisterVehicleCommand struct { //nolint:recvcheck //using for validation
	vehicleID   kernel.UUID
	actor       access.Actor
	plateNumber string
	model       string
	capacityKg  float64

	guard guard.ConstructorGuard
}

func NewRegisterVehicleCommand(actor access.Actor, plateNumber, model string, capacityKg float64) (RegisterVehicleCommand, error) {
	var err error
	if strings.TrimSpace(plateNumber) == "" {
		err = errs.NewValueIsRequiredError("plate number")
	}
	if capacityKg <= 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("capacity",
			fmt.Errorf("%v is not greater than 0", capacityKg)))
	}
	if err = errors.Join(err, actor.Validate()); err != nil {
		return RegisterVehicleCommand{}, err
	}

	return RegisterVehicleCommand{
		vehicleID:   kernel.NewUUID(),
		actor:       actor,
		plateNumber: plateNumber,
		model:       model,
		capacityKg:  capacityKg,
		guard:       guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterVehicleCommand) Validate() error {
	return c.guard.Validate(ErrRegisterVehicleCommandIsNotConstructed)
}

func (c RegisterVehicleCommand) VehicleID() kernel.UUID { return c.vehicleID }
func (c RegisterVehicleCommand) Actor() access.Actor    { return c.actor }
func (c RegisterVehicleCommand) PlateNumber() string    { return c.plateNumber }
func (c RegisterVehicleCommand) Model() string          { return c.model }
func (c RegisterVehicleCommand) CapacityKg() float64    { return c.capacityKg }
