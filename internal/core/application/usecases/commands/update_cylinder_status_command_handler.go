package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
)

type UpdateCylinderStatusCommandHandler struct {
	uowFactory CylinderUoWFactory
}

func NewUpdateCylinderStatusCommandHandler(uowFactory CylinderUoWFactory) UpdateCylinderStatusCommandHandler {
	return UpdateCylinderStatusCommandHandler{uowFactory: uowFactory}
}

func (h UpdateCylinderStatusCommandHandler) Handle(ctx context.Context, cmd UpdateCylinderStatusCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if _, err := actor.Authorize(access.UpdateCylinderStatus); err != nil {
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
	previous, err := c.ChangeStatus(cmd.Status(), now)
	if err != nil {
		return err
	}
	if loc := cmd.Location(); loc != nil {
		if err = c.UpdateLocation(*loc, now); err != nil {
			return err
		}
	}
	if err = cylinders.Update(ctx, c); err != nil {
		return err
	}

	entry, err := audit.NewCylinderHistoryEntry(c.ID(), actor.ID(), audit.CylinderStatusChange, now)
	if err != nil {
		return err
	}
	entry.PreviousStatus = previous
	entry.NewStatus = c.Status()
	entry.Location = cmd.Location()
	entry.Notes = cmd.Notes()
	if err = uow.AuditRecorder().AppendCylinderHistory(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
