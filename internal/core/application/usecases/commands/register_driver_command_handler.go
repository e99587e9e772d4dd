package commands

import (
	"context"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
)

// RegisterDriverCommandHandler creates OFFLINE drivers without a vehicle.
type RegisterDriverCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewRegisterDriverCommandHandler(uowFactory FleetUoWFactory) RegisterDriverCommandHandler {
	return RegisterDriverCommandHandler{uowFactory: uowFactory}
}

func (h RegisterDriverCommandHandler) Handle(ctx context.Context, cmd RegisterDriverCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}
	if _, err := cmd.Actor().Authorize(access.ManageFleet); err != nil {
		return kernel.UUID{}, err
	}

	driver, err := fleet.NewDriver(cmd.DriverID(), cmd.UserID(), cmd.Name(), cmd.LicenseNumber())
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

	if err = uow.DriverRepository().Add(ctx, driver); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}
	return driver.ID(), nil
}
