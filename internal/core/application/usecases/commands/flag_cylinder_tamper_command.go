package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrFlagCylinderTamperCommandIsNotConstructed = errors.New(
	"FlagCylinderTamperCommand must be created via NewFlagCylinderTamperCommand constructor",
)

// FlagCylinderTamperCommand records physical tampering found on inspection.
// A flagged cylinder fails every later scan.
type FlagCylinderTamperCommand struct { //nolint:recvcheck //using for validation
	actor      access.Actor
	cylinderID kernel.UUID
	notes      string

	guard guard.ConstructorGuard
}

func NewFlagCylinderTamperCommand(actor access.Actor, cylinderID kernel.UUID, notes string) (FlagCylinderTamperCommand, error) {
	notes = strings.TrimSpace(notes)
	var notesErr error
	if notes == "" {
		notesErr = errs.NewValueIsRequiredError("notes")
	}
	if err := errors.Join(actor.Validate(), cylinderID.Validate(), notesErr); err != nil {
		return FlagCylinderTamperCommand{}, err
	}
	return FlagCylinderTamperCommand{
		actor:      actor,
		cylinderID: cylinderID,
		notes:      notes,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c FlagCylinderTamperCommand) Validate() error {
	return c.guard.Validate(ErrFlagCylinderTamperCommandIsNotConstructed)
}

func (c FlagCylinderTamperCommand) Actor() access.Actor     { return c.actor }
func (c FlagCylinderTamperCommand) CylinderID() kernel.UUID { return c.cylinderID }
func (c FlagCylinderTamperCommand) Notes() string           { return c.notes }
