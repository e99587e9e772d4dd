package commands

import (
	"context"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/metrics"
)

// AssignmentResult identifies what the engine reserved.
type AssignmentResult struct {
	DeliveryID kernel.UUID
	DriverID   kernel.UUID
	VehicleID  kernel.UUID
}

// RequestAssignmentCommandHandler runs the assignment engine inside one
// transaction: the order row is locked, the driver and vehicle rows are
// written with a version check, and the delivery and ASSIGNED history entry
// are inserted. A lost race on the driver or vehicle is retried with a fresh
// selection up to maxAttempts times.
//
// Example:
//
//	handler := NewRequestAssignmentCommandHandler(uowFactory, dispatcher, 2)
//	cmd, _ := NewRequestAssignmentCommand(dispatcherActor, orderID, nil, nil)
//	res, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, errs.ErrResourceUnavailable):
//	    // no eligible driver right now
//	case errors.Is(err, errs.ErrInvalidTransition):
//	    // order is no longer pending
//	}
type RequestAssignmentCommandHandler struct {
	uowFactory  DispatchUoWFactory
	dispatcher  services.OrderDispatcher
	maxAttempts int
}

func NewRequestAssignmentCommandHandler(
	uowFactory DispatchUoWFactory,
	dispatcher services.OrderDispatcher,
	maxAttempts int,
) RequestAssignmentCommandHandler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return RequestAssignmentCommandHandler{
		uowFactory:  uowFactory,
		dispatcher:  dispatcher,
		maxAttempts: maxAttempts,
	}
}

func (h RequestAssignmentCommandHandler) Handle(ctx context.Context, cmd RequestAssignmentCommand) (AssignmentResult, error) {
	if err := cmd.Validate(); err != nil {
		return AssignmentResult{}, err
	}

	if _, err := cmd.Actor().Authorize(access.RequestAssignment); err != nil {
		return AssignmentResult{}, err
	}

	mode := "manual"
	if cmd.IsAuto() {
		mode = "auto"
	}

	res, err := retryOnConflict(ctx, h.maxAttempts, func(ctx context.Context) (AssignmentResult, error) {
		return h.attempt(ctx, cmd)
	})
	metrics.ObserveAssignment(mode, err)
	return res, err
}

func (h RequestAssignmentCommandHandler) attempt(ctx context.Context, cmd RequestAssignmentCommand) (AssignmentResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return AssignmentResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return AssignmentResult{}, err
	}

	now := time.Now().UTC()
	var assignment services.Assignment
	if cmd.IsAuto() {
		candidates, candErr := h.candidates(ctx, uow)
		if candErr != nil {
			return AssignmentResult{}, candErr
		}
		assignment, err = h.dispatcher.DispatchNearest(o, candidates, cmd.Actor().ID(), now)
	} else {
		driver, vehicle, pairErr := h.resolvePair(ctx, uow, cmd)
		if pairErr != nil {
			return AssignmentResult{}, pairErr
		}
		assignment, err = h.dispatcher.DispatchTo(o, driver, vehicle, cmd.Actor().ID(), now)
	}
	if err != nil {
		return AssignmentResult{}, err
	}

	if err = h.persist(ctx, uow, cmd.Actor(), o, assignment, now); err != nil {
		return AssignmentResult{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return AssignmentResult{}, err
	}

	return AssignmentResult{
		DeliveryID: assignment.Delivery.ID(),
		DriverID:   assignment.Driver.ID(),
		VehicleID:  assignment.Vehicle.ID(),
	}, nil
}

// resolvePair loads the manually chosen driver and vehicle, following the
// pairing when only one side is given.
func (h RequestAssignmentCommandHandler) resolvePair(
	ctx context.Context,
	uow DispatchUoW,
	cmd RequestAssignmentCommand,
) (*fleet.Driver, *fleet.Vehicle, error) {
	drivers := uow.DriverRepository()
	vehicles := uow.VehicleRepository()

	driverID, vehicleID := cmd.DriverID(), cmd.VehicleID()
	if driverID == nil {
		vehicle, err := vehicles.Get(ctx, *vehicleID)
		if err != nil {
			return nil, nil, err
		}
		if vehicle.DriverID() == nil {
			return nil, nil, services.ErrNoDriverAssigned
		}
		driver, err := drivers.Get(ctx, *vehicle.DriverID())
		if err != nil {
			return nil, nil, err
		}
		return driver, vehicle, nil
	}

	driver, err := drivers.Get(ctx, *driverID)
	if err != nil {
		return nil, nil, err
	}
	if vehicleID == nil {
		if driver.VehicleID() == nil {
			return nil, nil, services.ErrNoVehicleAssigned
		}
		vehicleID = driver.VehicleID()
	}
	vehicle, err := vehicles.Get(ctx, *vehicleID)
	if err != nil {
		return nil, nil, err
	}
	return driver, vehicle, nil
}

func (h RequestAssignmentCommandHandler) candidates(ctx context.Context, uow DispatchUoW) ([]services.Candidate, error) {
	drivers, err := uow.DriverRepository().ListDispatchable(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]kernel.UUID, 0, len(drivers))
	for _, d := range drivers {
		if d.VehicleID() != nil {
			ids = append(ids, *d.VehicleID())
		}
	}
	vehicles, err := uow.VehicleRepository().GetMany(ctx, ids)
	if err != nil {
		return nil, err
	}

	candidates := make([]services.Candidate, 0, len(drivers))
	for _, d := range drivers {
		if d.VehicleID() == nil {
			continue
		}
		if v, ok := vehicles[d.VehicleID().String()]; ok {
			candidates = append(candidates, services.Candidate{Driver: d, Vehicle: v})
		}
	}
	return candidates, nil
}

func (h RequestAssignmentCommandHandler) persist(
	ctx context.Context,
	uow DispatchUoW,
	actor access.Actor,
	o *order.Order,
	a services.Assignment,
	now time.Time,
) error {
	if err := uow.OrderRepository().Update(ctx, o); err != nil {
		return err
	}
	if err := uow.DriverRepository().Update(ctx, a.Driver); err != nil {
		return err
	}
	if err := uow.VehicleRepository().Update(ctx, a.Vehicle); err != nil {
		return err
	}
	if err := uow.DeliveryRepository().Add(ctx, a.Delivery); err != nil {
		return err
	}

	entry, err := audit.NewOrderHistoryEntry(o.ID(), actor.ID(), audit.OrderAssigned,
		order.Pending, o.Status(),
		fmt.Sprintf("Assigned to driver %s with vehicle %s", a.Driver.Name(), a.Vehicle.PlateNumber()),
		now)
	if err != nil {
		return err
	}
	return uow.AuditRecorder().AppendOrderHistory(ctx, entry)
}
