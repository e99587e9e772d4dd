package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrChangeDriverStatusCommandIsNotConstructed = errors.New(
	"ChangeDriverStatusCommand must be created via NewChangeDriverStatusCommand constructor",
)

// ChangeDriverStatusCommand changes a driver's shift status and, for
// dispatchers and admins, the availability flag.
type ChangeDriverStatusCommand struct { //nolint:recvcheck //using for validation
	driverID  kernel.UUID
	actor     access.Actor
	status    fleet.DriverStatus
	available *bool

	guard guard.ConstructorGuard
}

func NewChangeDriverStatusCommand(
	actor access.Actor,
	driverID kernel.UUID,
	status fleet.DriverStatus,
	available *bool,
) (ChangeDriverStatusCommand, error) {
	if err := errors.Join(actor.Validate(), driverID.Validate(), status.Validate()); err != nil {
		return ChangeDriverStatusCommand{}, err
	}
	return ChangeDriverStatusCommand{
		driverID:  driverID,
		actor:     actor,
		status:    status,
		available: available,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c ChangeDriverStatusCommand) Validate() error {
	return c.guard.Validate(ErrChangeDriverStatusCommandIsNotConstructed)
}

func (c ChangeDriverStatusCommand) DriverID() kernel.UUID      { return c.driverID }
func (c ChangeDriverStatusCommand) Actor() access.Actor        { return c.actor }
func (c ChangeDriverStatusCommand) Status() fleet.DriverStatus { return c.status }
func (c ChangeDriverStatusCommand) Available() *bool           { return c.available }
