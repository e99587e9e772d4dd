package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrRegisterCylinderCommandIsNotConstructed = errors.New(
	"RegisterCylinderCommand must be created via NewRegisterCylinderCommand constructor",
)

// RegisterCylinderCommand brings a new cylinder into circulation. Serial,
// kind, capacity and lifetime rules are enforced by the cylinder aggregate.
type RegisterCylinderCommand struct { //nolint:recvcheck //using for validation
	cylinderID   kernel.UUID
	actor        access.Actor
	registration cylinder.Registration

	guard guard.ConstructorGuard
}

func NewRegisterCylinderCommand(actor access.Actor, registration cylinder.Registration) (RegisterCylinderCommand, error) {
	if err := errors.Join(actor.Validate(), registration.Kind.Validate()); err != nil {
		return RegisterCylinderCommand{}, err
	}
	return RegisterCylinderCommand{
		cylinderID:   kernel.NewUUID(),
		actor:        actor,
		registration: registration,
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c RegisterCylinderCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCylinderCommandIsNotConstructed)
}

func (c RegisterCylinderCommand) CylinderID() kernel.UUID             { return c.cylinderID }
func (c RegisterCylinderCommand) Actor() access.Actor                 { return c.actor }
func (c RegisterCylinderCommand) Registration() cylinder.Registration { return c.registration }
