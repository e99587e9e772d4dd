package commands

import (
	"context"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
)

type RegisterVehicleCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewRegisterVehicleCommandHandler(uowFactory FleetUoWFactory) RegisterVehicleCommandHandler {
	return RegisterVehicleCommandHandler{uowFactory: uowFactory}
}

// Handle returns the id of the new vehicle. A duplicate plate number is an
// errs.ConflictError from the repository.
func (h RegisterVehicleCommandHandler) Handle(ctx context.Context, cmd RegisterVehicleCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if _, err := cmd.Actor().Authorize(access.ManageFleet); err != nil {
		return kernel.UUID{}, err
	}

	vehicle, err := fleet.NewVehicle(cmd.VehicleID(), cmd.PlateNumber(), cmd.Model(), cmd.CapacityKg())
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.VehicleRepository().Add(ctx, vehicle); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return vehicle.ID(), nil
}
