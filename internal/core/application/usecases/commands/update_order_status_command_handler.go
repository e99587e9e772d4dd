package commands

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/pkg/errs"
)

// UpdateOrderStatusCommandHandler applies an order transition together with
// its delivery cascade and resource releases in one transaction.
//
// Authorization:
//   - dispatchers and admins may move any order
//   - a driver may move only the order whose delivery they drive
//   - a customer may only cancel their own order while it is still pending
type UpdateOrderStatusCommandHandler struct {
	uowFactory  DispatchUoWFactory
	lifecycle   services.OrderLifecycle
	maxAttempts int
}

func NewUpdateOrderStatusCommandHandler(
	uowFactory DispatchUoWFactory,
	lifecycle services.OrderLifecycle,
	maxAttempts int,
) UpdateOrderStatusCommandHandler {
	if maxAttempts < 1 {
		maxAttempts = DefaultMaxAttempts
	}
	return UpdateOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		lifecycle:   lifecycle,
		maxAttempts: maxAttempts,
	}
}

func (h UpdateOrderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	_, err := retryOnConflict(ctx, h.maxAttempts, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, h.attempt(ctx, cmd)
	})
	return err
}

func (h UpdateOrderStatusCommandHandler) attempt(ctx context.Context, cmd UpdateOrderStatusCommand) error {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	o, err := uow.OrderRepository().GetForUpdate(ctx, cmd.OrderID())
	if err != nil {
		return err
	}

	cascade := services.Cascade{Order: o}
	if o.Status() != order.Pending {
		if cascade, err = h.loadCascade(ctx, uow, o); err != nil {
			return err
		}
	}

	if err = h.authorize(cmd, cascade); err != nil {
		return err
	}

	now := time.Now().UTC()
	previous, err := h.lifecycle.Transition(cascade, cmd.Status(), cmd.Reason(), now)
	if err != nil {
		return err
	}

	if err = h.persist(ctx, uow, cascade, cmd.Status()); err != nil {
		return err
	}

	notes := cmd.Reason()
	if notes == "" {
		notes = "Status changed to " + cmd.Status().String()
	}
	entry, err := audit.NewOrderHistoryEntry(o.ID(), cmd.Actor().ID(), audit.OrderStatusChange,
		previous, o.Status(), notes, now)
	if err != nil {
		return err
	}
	if err = uow.AuditRecorder().AppendOrderHistory(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}

func (h UpdateOrderStatusCommandHandler) loadCascade(
	ctx context.Context,
	uow DispatchUoW,
	o *order.Order,
) (services.Cascade, error) {
	cascade := services.Cascade{Order: o}

	dlv, err := uow.DeliveryRepository().GetByOrder(ctx, o.ID())
	if errors.Is(err, errs.ErrObjectNotFound) {
		return cascade, nil
	}
	if err != nil {
		return cascade, err
	}
	cascade.Delivery = dlv

	if cascade.Driver, err = uow.DriverRepository().Get(ctx, dlv.DriverID()); err != nil {
		return cascade, err
	}
	if cascade.Vehicle, err = uow.VehicleRepository().Get(ctx, dlv.VehicleID()); err != nil {
		return cascade, err
	}
	return cascade, nil
}

func (h UpdateOrderStatusCommandHandler) authorize(cmd UpdateOrderStatusCommand, c services.Cascade) error {
	actor := cmd.Actor()

	if actor.Is(access.Customer) {
		if cmd.Status() != order.Cancelled || c.Order.Status() != order.Pending {
			return errs.NewPermissionDeniedError(actor.ID().String(), actor.Role().String(),
				"move order to "+cmd.Status().String())
		}
		return actor.AuthorizeOwned(access.CancelOrder, c.Order.IsOwnedBy(actor.ID()))
	}

	capability := access.UpdateOrderStatus
	if cmd.Status() == order.Cancelled && !actor.Is(access.Driver) {
		capability = access.CancelOrder
	}
	owned := c.Driver != nil && c.Driver.IsUser(actor.ID())
	return actor.AuthorizeOwned(capability, owned)
}

// persist writes each touched aggregate once. Driver and vehicle only change
// when the order reaches a terminal status.
func (h UpdateOrderStatusCommandHandler) persist(
	ctx context.Context,
	uow DispatchUoW,
	c services.Cascade,
	next order.Status,
) error {
	if err := uow.OrderRepository().Update(ctx, c.Order); err != nil {
		return err
	}
	if c.Delivery == nil {
		return nil
	}
	if err := uow.DeliveryRepository().Update(ctx, c.Delivery); err != nil {
		return err
	}
	if !next.IsTerminal() {
		return nil
	}
	if err := uow.DriverRepository().Update(ctx, c.Driver); err != nil {
		return err
	}
	return uow.VehicleRepository().Update(ctx, c.Vehicle)
}
