package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUnassignCylinderCommandIsNotConstructed = errors.New(
	"UnassignCylinderCommand must be created via NewUnassignCylinderCommand constructor",
)

// UnassignCylinderCommand takes a cylinder back from its customer.
type UnassignCylinderCommand struct { //nolint:recvcheck //using for validation
	actor      access.Actor
	cylinderID kernel.UUID
	notes      string

	guard guard.ConstructorGuard
}

func NewUnassignCylinderCommand(actor access.Actor, cylinderID kernel.UUID, notes string) (UnassignCylinderCommand, error) {
	if err := errors.Join(actor.Validate(), cylinderID.Validate()); err != nil {
		return UnassignCylinderCommand{}, err
	}
	return UnassignCylinderCommand{
		actor:      actor,
		cylinderID: cylinderID,
		notes:      strings.TrimSpace(notes),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UnassignCylinderCommand) Validate() error {
	return c.guard.Validate(ErrUnassignCylinderCommandIsNotConstructed)
}

func (c UnassignCylinderCommand) Actor() access.Actor     { return c.actor }
func (c UnassignCylinderCommand) CylinderID() kernel.UUID { return c.cylinderID }
func (c UnassignCylinderCommand) Notes() string           { return c.notes }
