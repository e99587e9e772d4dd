package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
)

type FlagCylinderTamperCommandHandler struct {
	uowFactory CylinderUoWFactory
}

func NewFlagCylinderTamperCommandHandler(uowFactory CylinderUoWFactory) FlagCylinderTamperCommandHandler {
	return FlagCylinderTamperCommandHandler{uowFactory: uowFactory}
}

func (h FlagCylinderTamperCommandHandler) Handle(ctx context.Context, cmd FlagCylinderTamperCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	actor := cmd.Actor()
	if _, err := actor.Authorize(access.FlagCylinderTamper); err != nil {
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
	if err = c.FlagTamper(cmd.Notes(), now); err != nil {
		return err
	}
	if err = cylinders.Update(ctx, c); err != nil {
		return err
	}

	entry, err := audit.NewCylinderHistoryEntry(c.ID(), actor.ID(), audit.CylinderTamperDetected, now)
	if err != nil {
		return err
	}
	entry.PreviousStatus = c.Status()
	entry.NewStatus = c.Status()
	entry.Notes = cmd.Notes()
	if err = uow.AuditRecorder().AppendCylinderHistory(ctx, entry); err != nil {
		return err
	}

	return uow.Commit(ctx)
}
