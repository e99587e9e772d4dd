package commands

import (
	"context"

	"dispatch/internal/core/domain/model/access"
)

type ChangeVehicleStatusCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewChangeVehicleStatusCommandHandler(uowFactory FleetUoWFactory) ChangeVehicleStatusCommandHandler {
	return ChangeVehicleStatusCommandHandler{uowFactory: uowFactory}
}

func (h ChangeVehicleStatusCommandHandler) Handle(ctx context.Context, cmd ChangeVehicleStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if _, err := cmd.Actor().Authorize(access.ManageFleet); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	vehicles := uow.VehicleRepository()
	vehicle, err := vehicles.Get(ctx, cmd.VehicleID())
	if err != nil {
		return err
	}

	if err = vehicle.ChangeStatus(cmd.Status()); err != nil {
		return err
	}
	if err = vehicles.Update(ctx, vehicle); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
