package commands

import (
	"errors"
	"strings"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrUpdateCylinderStatusCommandIsNotConstructed = errors.New(
	"UpdateCylinderStatusCommand must be created via NewUpdateCylinderStatusCommand constructor",
)

// UpdateCylinderStatusCommand moves a cylinder along its lifecycle. Location
// and notes are optional and end up in the history entry.
type UpdateCylinderStatusCommand struct { //nolint:recvcheck //using for validation
	actor      access.Actor
	cylinderID kernel.UUID
	status     cylinder.Status
	location   *kernel.GeoPoint
	notes      string

	guard guard.ConstructorGuard
}

func NewUpdateCylinderStatusCommand(
	actor access.Actor,
	cylinderID kernel.UUID,
	status cylinder.Status,
	location *kernel.GeoPoint,
	notes string,
) (UpdateCylinderStatusCommand, error) {
	errList := []error{actor.Validate(), cylinderID.Validate(), status.Validate()}
	if location != nil {
		errList = append(errList, location.Validate())
	}
	if err := errors.Join(errList...); err != nil {
		return UpdateCylinderStatusCommand{}, err
	}

	return UpdateCylinderStatusCommand{
		actor:      actor,
		cylinderID: cylinderID,
		status:     status,
		location:   location,
		notes:      strings.TrimSpace(notes),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateCylinderStatusCommand) Validate() error {
	return c.guard.Validate(ErrUpdateCylinderStatusCommandIsNotConstructed)
}

func (c UpdateCylinderStatusCommand) Actor() access.Actor        { return c.actor }
func (c UpdateCylinderStatusCommand) CylinderID() kernel.UUID    { return c.cylinderID }
func (c UpdateCylinderStatusCommand) Status() cylinder.Status    { return c.status }
func (c UpdateCylinderStatusCommand) Location() *kernel.GeoPoint { return c.location }
func (c UpdateCylinderStatusCommand) Notes() string              { return c.notes }
