package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrAddTrackingLogCommandIsNotConstructed = errors.New(
	"AddTrackingLogCommand must be created via NewAddTrackingLogCommand constructor",
)

// AddTrackingLogCommand appends a position report to an order's delivery.
type AddTrackingLogCommand struct { //nolint:recvcheck //using for validation
	actor     access.Actor
	orderID   kernel.UUID
	location  kernel.GeoPoint
	telemetry delivery.Telemetry

	guard guard.ConstructorGuard
}

func NewAddTrackingLogCommand(
	actor access.Actor,
	orderID kernel.UUID,
	location kernel.GeoPoint,
	telemetry delivery.Telemetry,
) (AddTrackingLogCommand, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), location.Validate()); err != nil {
		return AddTrackingLogCommand{}, err
	}
	return AddTrackingLogCommand{
		actor:     actor,
		orderID:   orderID,
		location:  location,
		telemetry: telemetry,
		guard:     guard.NewConstructorGuard(),
	}, nil
}

func (c AddTrackingLogCommand) Validate() error {
	return c.guard.Validate(ErrAddTrackingLogCommandIsNotConstructed)
}

func (c AddTrackingLogCommand) Actor() access.Actor           { return c.actor }
func (c AddTrackingLogCommand) OrderID() kernel.UUID          { return c.orderID }
func (c AddTrackingLogCommand) Location() kernel.GeoPoint     { return c.location }
func (c AddTrackingLogCommand) Telemetry() delivery.Telemetry { return c.telemetry }
