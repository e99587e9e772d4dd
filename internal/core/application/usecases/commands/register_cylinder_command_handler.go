package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
)

// CodeGenerator issues fresh identity codes for a cylinder.
type CodeGenerator interface {
	Generate() (cylinder.Codes, error)
}

// RegisteredCylinder is returned once at registration. The auth token is not
// stored and cannot be recovered later.
type RegisteredCylinder struct {
	CylinderID   kernel.UUID
	SerialNumber string
	IdentityCode string
	TagCode      string
	AuthToken    string
}

type RegisterCylinderCommandHandler struct {
	uowFactory CylinderUoWFactory
	codes      CodeGenerator
}

func NewRegisterCylinderCommandHandler(uowFactory CylinderUoWFactory, codes CodeGenerator) RegisterCylinderCommandHandler {
	return RegisterCylinderCommandHandler{
		uowFactory: uowFactory,
		codes:      codes,
	}
}

func (h RegisterCylinderCommandHandler) Handle(ctx context.Context, cmd RegisterCylinderCommand) (RegisteredCylinder, error) {
	if err := cmd.Validate(); err != nil {
		return RegisteredCylinder{}, err
	}
	actor := cmd.Actor()
	if _, err := actor.Authorize(access.RegisterCylinder); err != nil {
		return RegisteredCylinder{}, err
	}

	codes, err := h.codes.Generate()
	if err != nil {
		return RegisteredCylinder{}, err
	}

	now := time.Now().UTC()
	c, err := cylinder.RegisterCylinder(cmd.CylinderID(), cmd.Registration(), codes, now)
	if err != nil {
		return RegisteredCylinder{}, err
	}

	entry, err := audit.NewCylinderHistoryEntry(c.ID(), actor.ID(), audit.CylinderRegistered, now)
	if err != nil {
		return RegisteredCylinder{}, err
	}
	entry.NewStatus = c.Status()
	entry.Notes = "Cylinder registered"

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return RegisteredCylinder{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CylinderRepository().Add(ctx, c); err != nil {
		return RegisteredCylinder{}, err
	}
	if err = uow.AuditRecorder().AppendCylinderHistory(ctx, entry); err != nil {
		return RegisteredCylinder{}, err
	}
	if err = uow.Commit(ctx); err != nil {
		return RegisteredCylinder{}, err
	}

	return RegisteredCylinder{
		CylinderID:   c.ID(),
		SerialNumber: c.SerialNumber(),
		IdentityCode: c.IdentityCode(),
		TagCode:      c.TagCode(),
		AuthToken:    cylinder.AuthToken(c.Digest(), now),
	}, nil
}
