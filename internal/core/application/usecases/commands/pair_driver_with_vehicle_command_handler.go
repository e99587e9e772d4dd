package commands

import (
	"context"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/fleet"
)

// PairDriverWithVehicleCommandHandler keeps pairing exclusive on both sides:
// the driver's previous vehicle and the vehicle's previous driver are
// unpaired in the same transaction. Neither side may be on a delivery.
type PairDriverWithVehicleCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewPairDriverWithVehicleCommandHandler(uowFactory FleetUoWFactory) PairDriverWithVehicleCommandHandler {
	return PairDriverWithVehicleCommandHandler{uowFactory: uowFactory}
}

func (h PairDriverWithVehicleCommandHandler) Handle(ctx context.Context, cmd PairDriverWithVehicleCommand) error {
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

	drivers := uow.DriverRepository()
	vehicles := uow.VehicleRepository()

	driver, err := drivers.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}
	vehicle, err := vehicles.Get(ctx, cmd.VehicleID())
	if err != nil {
		return err
	}

	if vehicle.IsPairedWith(driver.ID()) && driver.VehicleID() != nil && driver.VehicleID().IsEqual(vehicle.ID()) {
		return uow.Commit(ctx)
	}

	var (
		previousVehicle *fleet.Vehicle
		previousDriver  *fleet.Driver
	)
	if id := driver.VehicleID(); id != nil && !id.IsEqual(vehicle.ID()) {
		if previousVehicle, err = vehicles.Get(ctx, *id); err != nil {
			return err
		}
		if err = previousVehicle.UnpairDriver(); err != nil {
			return err
		}
	}
	if id := vehicle.DriverID(); id != nil && !id.IsEqual(driver.ID()) {
		if previousDriver, err = drivers.Get(ctx, *id); err != nil {
			return err
		}
		if err = previousDriver.UnpairVehicle(); err != nil {
			return err
		}
	}

	if err = driver.PairVehicle(vehicle.ID()); err != nil {
		return err
	}
	if err = vehicle.PairDriver(driver.ID()); err != nil {
		return err
	}

	for _, d := range []*fleet.Driver{previousDriver, driver} {
		if d == nil {
			continue
		}
		if err = drivers.Update(ctx, d); err != nil {
			return err
		}
	}
	for _, v := range []*fleet.Vehicle{previousVehicle, vehicle} {
		if v == nil {
			continue
		}
		if err = vehicles.Update(ctx, v); err != nil {
			return err
		}
	}

	return uow.Commit(ctx)
}
