package commands

import (
	"context"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/pkg/errs"
)

// ChangeDriverStatusCommandHandler applies manual shift changes. ON_DELIVERY
// is never accepted here; the assignment engine owns it.
type ChangeDriverStatusCommandHandler struct {
	uowFactory FleetUoWFactory
}

func NewChangeDriverStatusCommandHandler(uowFactory FleetUoWFactory) ChangeDriverStatusCommandHandler {
	return ChangeDriverStatusCommandHandler{uowFactory: uowFactory}
}

func (h ChangeDriverStatusCommandHandler) Handle(ctx context.Context, cmd ChangeDriverStatusCommand) error {
	if err := cmd.Validate(); err != nil {
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
	driver, err := drivers.Get(ctx, cmd.DriverID())
	if err != nil {
		return err
	}

	actor := cmd.Actor()
	scope, err := actor.Authorize(access.ChangeDriverStatus)
	if err != nil {
		return err
	}
	if scope == access.ScopeOwn && (!driver.IsUser(actor.ID()) || cmd.Available() != nil) {
		return errs.NewPermissionDeniedError(actor.ID().String(), actor.Role().String(),
			"change status of driver "+driver.ID().String())
	}

	if err = driver.ChangeStatus(cmd.Status()); err != nil {
		return err
	}
	if cmd.Available() != nil {
		driver.SetAvailable(*cmd.Available())
	}

	if err = drivers.Update(ctx, driver); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
