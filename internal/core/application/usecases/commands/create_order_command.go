package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/guard"
)

var ErrCreateOrderCommandIsNotConstructed = errors.New(
	"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
)

// CreateOrderCommand represents a customer's request for a delivery.
// Customers order for themselves; admins may place an order on behalf of a customer.
//
// Example:
//
//	pickup, _ := kernel.NewGeoPoint(-1.2921, 36.8219)
//	cmd, err := NewCreateOrderCommand(actor, actor.ID(), order.Details{
//	    DeliveryAddress: "Kilimani, Argwings Kodhek Rd",
//	    PickupAddress:   "Industrial Area depot",
//	    PickupLocation:  pickup,
//	    QuantityKg:      25,
//	    ScheduledAt:     time.Now().Add(48 * time.Hour),
//	})
//	orderID, err := handler.Handle(ctx, cmd)
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	actor      access.Actor
	customerID kernel.UUID
	details    order.Details

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates identities and the pickup point. Quantity
// and schedule are checked against the order policy by the handler.
func NewCreateOrderCommand(actor access.Actor, customerID kernel.UUID, details order.Details) (CreateOrderCommand, error) {
	if err := errors.Join(
		actor.Validate(),
		customerID.Validate(),
		details.PickupLocation.Validate(),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return CreateOrderCommand{
		orderID:    kernel.NewUUID(),
		actor:      actor,
		customerID: customerID,
		details:    details,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID    { return c.orderID }
func (c CreateOrderCommand) Actor() access.Actor     { return c.actor }
func (c CreateOrderCommand) CustomerID() kernel.UUID { return c.customerID }
func (c CreateOrderCommand) Details() order.Details  { return c.details }
