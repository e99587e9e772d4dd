package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrReportDriverLocationCommandIsNotConstructed = errors.New(
	"ReportDriverLocationCommand must be created via NewReportDriverLocationCommand constructor",
)

// ReportDriverLocationCommand records where a driver currently is. The
// position feeds nearest-driver selection.
type ReportDriverLocationCommand struct { //nolint:recvcheck //using for validation
	driverID kernel.UUID
	actor    access.Actor
	location kernel.GeoPoint

	guard guard.ConstructorGuard
}

func NewReportDriverLocationCommand(actor access.Actor, driverID kernel.UUID, location kernel.GeoPoint) (ReportDriverLocationCommand, error) {
	if err := errors.Join(actor.Validate(), driverID.Validate(), location.Validate()); err != nil {
		return ReportDriverLocationCommand{}, err
	}
	return ReportDriverLocationCommand{
		driverID: driverID,
		actor:    actor,
		location: location,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c ReportDriverLocationCommand) Validate() error {
	return c.guard.Validate(ErrReportDriverLocationCommandIsNotConstructed)
}

func (c ReportDriverLocationCommand) DriverID() kernel.UUID     { return c.driverID }
func (c ReportDriverLocationCommand) Actor() access.Actor       { return c.actor }
func (c ReportDriverLocationCommand) Location() kernel.GeoPoint { return c.location }
