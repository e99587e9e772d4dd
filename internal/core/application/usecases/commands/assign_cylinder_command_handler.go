package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
)

// AssignCylinderCommandHandler links a cylinder to an order (moving it to
// IN_DELIVERY) or to a customer.
type AssignCylinderCommandHandler struct {
	uowFactory CylinderUoWFactory
}

func NewAssignCylinderCommandHandler(uowFactory CylinderUoWFactory) AssignCylinderCommandHandler {
	return AssignCylinderCommandHandler{uowFactory: uowFactory}
}

func (h AssignCylinderCommandHandler) Handle(ctx context.Context, cmd AssignCylinderCommand) error {
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
	previous := c.Status()
	notes := "Cylinder assigned to customer"
	if orderID := cmd.OrderID(); orderID != nil {
		o, getErr := uow.OrderRepository().Get(ctx, *orderID)
		if getErr != nil {
			return getErr
		}
		if err = c.AssignToOrder(o.ID(), o.CustomerID(), now); err != nil {
			return err
		}
		notes = "Cylinder assigned to order " + o.ID().String()
	} else if err = c.AssignToCustomer(*cmd.CustomerID(), now); err != nil {
		return err
	}

	if err = cylinders.Update(ctx, c); err != nil {
		return err
	}

	entry, err := audit.NewCylinderHistoryEntry(c.ID(), actor.ID(), audit.CylinderCustomerAssigned, now)
	if err != nil {
		return err
	}
	entry.PreviousStatus = previous
	entry.NewStatus = c.Status()
	entry.CustomerID = c.CurrentCustomerID()
	entry.OrderID = c.CurrentOrderID()
	entry.Notes = notes
	if err = uow.AuditRecorder().AppendCylinderHistory(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
