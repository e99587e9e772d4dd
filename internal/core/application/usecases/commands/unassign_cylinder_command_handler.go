package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
)

type UnassignCylinderCommandHandler struct {
	uowFactory CylinderUoWFactory
}

func NewUnassignCylinderCommandHandler(uowFactory CylinderUoWFactory) UnassignCylinderCommandHandler {
	return UnassignCylinderCommandHandler{uowFactory: uowFactory}
}

func (h UnassignCylinderCommandHandler) Handle(ctx context.Context, cmd UnassignCylinderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if _, err := actor.Authorize(access.AssignCylinder); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	cylinders := uow.CylinderRepository()
	c, err := cylinders.GetForUpdate(ctx, cmd.CylinderID())
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	previousOrder := c.CurrentOrderID()
	previousCustomer, err := c.Unassign(now)
	if err != nil {
		return err
	}
	if err = cylinders.Update(ctx, c); err != nil {
		return err
	}

	entry, err := audit.NewCylinderHistoryEntry(c.ID(), actor.ID(), audit.CylinderCustomerUnassigned, now)
	if err != nil {
		return err
	}
	entry.PreviousStatus = c.Status()
	entry.NewStatus = c.Status()
	entry.CustomerID = previousCustomer
	entry.OrderID = previousOrder
	entry.Notes = cmd.Notes()
	if err = uow.AuditRecorder().AppendCylinderHistory(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
