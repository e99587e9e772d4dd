package services

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/order"
)

// Cascade groups the aggregates touched by an order status change. Delivery,
// Driver and Vehicle are nil for orders that were never assigned.
type Cascade struct {
	Order    *order.Order
	Delivery *delivery.Delivery
	Driver   *fleet.Driver
	Vehicle  *fleet.Vehicle
}

// OrderLifecycle applies a post-assignment order transition and derives the
// delivery status and resource releases from it:
//
//	ON_ROUTE  -> delivery IN_PROGRESS
//	DELIVERED -> delivery COMPLETED, driver ONLINE, vehicle AVAILABLE
//	CANCELLED -> delivery FAILED (when assigned), driver ONLINE, vehicle AVAILABLE
type OrderLifecycle struct{}

func NewOrderLifecycle() OrderLifecycle {
	return OrderLifecycle{}
}

// Transition returns the previous order status.
func (l OrderLifecycle) Transition(c Cascade, next order.Status, reason string, now time.Time) (order.Status, error) {
	if err := c.Order.Validate(); err != nil {
		return order.Unknown, err
	}
	previous := c.Order.Status()
	if err := c.Order.ChangeStatus(next, now); err != nil {
		return previous, err
	}
	if c.Delivery == nil {
		return previous, nil
	}

	//nolint:exhaustive // other statuses have no delivery side effects
	switch next {
	case order.OnRoute:
		if err := c.Delivery.Start(now); err != nil {
			return previous, err
		}
	case order.Delivered:
		if err := c.Delivery.Complete(now); err != nil {
			return previous, err
		}
		l.release(c)
	case order.Cancelled:
		if err := c.Delivery.Fail(reason, now); err != nil {
			return previous, err
		}
		l.release(c)
	}
	return previous, nil
}

func (l OrderLifecycle) release(c Cascade) {
	if c.Driver != nil {
		c.Driver.Release()
	}
	if c.Vehicle != nil {
		c.Vehicle.Release(c.Order.QuantityKg())
	}
}
