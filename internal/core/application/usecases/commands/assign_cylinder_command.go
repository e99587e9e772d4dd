package commands

import (
	"errors"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var ErrAssignCylinderCommandIsNotConstructed = errors.New(
	"AssignCylinderCommand must be created via NewAssignCylinderCommand constructor",
)

// AssignCylinderCommand hands a cylinder to an order or directly to a
// customer. When an order is given its customer wins over customerID.
type AssignCylinderCommand struct { //nolint:recvcheck //using for validation
	actor      access.Actor
	cylinderID kernel.UUID
	orderID    *kernel.UUID
	customerID *kernel.UUID

	guard guard.ConstructorGuard
}

func NewAssignCylinderCommand(
	actor access.Actor,
	cylinderID kernel.UUID,
	orderID, customerID *kernel.UUID,
) (AssignCylinderCommand, error) {
	errList := []error{actor.Validate(), cylinderID.Validate()}
	switch {
	case orderID != nil:
		errList = append(errList, orderID.Validate())
	case customerID != nil:
		errList = append(errList, customerID.Validate())
	default:
		errList = append(errList, errs.NewValueIsRequiredError("order id or customer id"))
	}
	if err := errors.Join(errList...); err != nil {
		return AssignCylinderCommand{}, err
	}

	return AssignCylinderCommand{
		actor:      actor,
		cylinderID: cylinderID,
		orderID:    orderID,
		customerID: customerID,
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (c AssignCylinderCommand) Validate() error {
	return c.guard.Validate(ErrAssignCylinderCommandIsNotConstructed)
}

func (c AssignCylinderCommand) Actor() access.Actor      { return c.actor }
func (c AssignCylinderCommand) CylinderID() kernel.UUID  { return c.cylinderID }
func (c AssignCylinderCommand) OrderID() *kernel.UUID    { return c.orderID }
func (c AssignCylinderCommand) CustomerID() *kernel.UUID { return c.customerID }
