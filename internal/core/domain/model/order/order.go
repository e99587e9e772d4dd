package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")
)

// Details carries the customer-supplied part of an order.
type Details struct {
	DeliveryAddress string
	PickupAddress   string
	// PickupLocation is resolved by the geocoding collaborator before the
	// order reaches the engine; auto-assignment measures distance to it.
	PickupLocation kernel.GeoPoint
	QuantityKg     float64
	ScheduledAt    time.Time
	Notes          string
}

// Order is the aggregate root for a customer's delivery request.
//
// Order follows these invariants:
//   - identifier and customer reference are valid UUIDs
//   - both addresses are non-blank and the pickup location is a valid point
//   - quantity is positive and does not exceed the policy maximum
//   - on creation the scheduled time lies in the future, within the policy horizon
//   - status only moves along the edges of the transition table
type Order struct {
	kernel.EventRecorder

	id              kernel.UUID
	customerID      kernel.UUID
	deliveryAddress string
	pickupAddress   string
	pickupLocation  kernel.GeoPoint
	quantityKg      float64
	scheduledAt     time.Time
	notes           string
	status          Status
	createdAt       time.Time
	updatedAt       time.Time

	// version is the optimistic-lock counter read from storage.
	version int

	isConstructed bool
}

// NewOrder creates a Pending order after validating details against policy.
//
// Example:
//
//	pickup, _ := kernel.NewGeoPoint(-1.2921, 36.8219)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, order.Details{
//	    DeliveryAddress: "Kilimani, Argwings Kodhek Rd",
//	    PickupAddress:   "Industrial Area depot",
//	    PickupLocation:  pickup,
//	    QuantityKg:      25,
//	    ScheduledAt:     now.Add(48 * time.Hour),
//	}, now, order.DefaultPolicy())
func NewOrder(id kernel.UUID, customerID kernel.UUID, details Details, now time.Time, policy Policy) (*Order, error) {
	o := &Order{
		status:        Pending,
		createdAt:     now,
		updatedAt:     now,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setAddresses(details.DeliveryAddress, details.PickupAddress),
		o.setPickupLocation(details.PickupLocation),
		o.setQuantity(details.QuantityKg, policy.MaxQuantityKg),
		o.setScheduledAt(details.ScheduledAt, now, policy.MaxScheduleAhead),
	); err != nil {
		return nil, err
	}
	o.notes = strings.TrimSpace(details.Notes)

	return o, nil
}

// RestoreOrder rebuilds an order from storage. The scheduling horizon is not
// re-checked because persisted orders may legitimately be in the past.
func RestoreOrder(
	id kernel.UUID,
	customerID kernel.UUID,
	details Details,
	status Status,
	createdAt time.Time,
	updatedAt time.Time,
	version int,
) (*Order, error) {
	o := &Order{
		scheduledAt:   details.ScheduledAt,
		notes:         details.Notes,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		isConstructed: true,
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setAddresses(details.DeliveryAddress, details.PickupAddress),
		o.setPickupLocation(details.PickupLocation),
		o.setQuantity(details.QuantityKg, 0),
		status.Validate(),
	); err != nil {
		return nil, err
	}
	o.status = status

	return o, nil
}

// Validate ensures the Order was built by a constructor.
func (o *Order) Validate() error {
	if o == nil || !o.isConstructed {
		return ErrOrderIsNotConstructed
	}
	return nil
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) PickupAddress() string {
	return o.pickupAddress
}

func (o *Order) PickupLocation() kernel.GeoPoint {
	return o.pickupLocation
}

func (o *Order) QuantityKg() float64 {
	return o.quantityKg
}

func (o *Order) ScheduledAt() time.Time {
	return o.scheduledAt
}

func (o *Order) Notes() string {
	return o.notes
}

func (o *Order) Status() Status {
	return o.status
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) Version() int {
	return o.version
}

// Details returns the customer-supplied fields as one value.
func (o *Order) Details() Details {
	return Details{
		DeliveryAddress: o.deliveryAddress,
		PickupAddress:   o.pickupAddress,
		PickupLocation:  o.pickupLocation,
		QuantityKg:      o.quantityKg,
		ScheduledAt:     o.scheduledAt,
		Notes:           o.notes,
	}
}

// IsOwnedBy reports whether customerID placed the order.
func (o *Order) IsOwnedBy(customerID kernel.UUID) bool {
	return o.customerID.IsEqual(customerID)
}

// MarkAssigned moves a Pending order to Assigned. It is called by the
// assignment engine once a driver and vehicle have been reserved.
func (o *Order) MarkAssigned(now time.Time) error {
	if o.status != Pending {
		return errs.NewInvalidTransitionError("order", o.status.String(), Assigned.String())
	}
	return o.transition(Assigned, now)
}

// ChangeStatus performs a post-assignment transition (OnRoute, Delivered,
// Cancelled). Assigned is reachable only through MarkAssigned.
func (o *Order) ChangeStatus(next Status, now time.Time) error {
	if next == Assigned {
		return errs.NewInvalidTransitionError("order", o.status.String(), fmt.Sprintf("%s without assignment", next))
	}
	return o.transition(next, now)
}

func (o *Order) transition(next Status, now time.Time) error {
	from := o.status
	to, err := from.TransitionTo(next)
	if err != nil {
		return err
	}

	o.status = to
	o.updatedAt = now
	o.Record(StatusChangedEvent{
		OrderID:    o.id,
		CustomerID: o.customerID,
		From:       from,
		To:         to,
		At:         now,
	})
	return nil
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(customerID kernel.UUID) error {
	if err := customerID.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customer", err)
	}
	o.customerID = customerID
	return nil
}

func (o *Order) setAddresses(delivery, pickup string) error {
	var err error
	if strings.TrimSpace(delivery) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("delivery address"))
	}
	if strings.TrimSpace(pickup) == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("pickup address"))
	}
	if err != nil {
		return err
	}
	o.deliveryAddress = strings.TrimSpace(delivery)
	o.pickupAddress = strings.TrimSpace(pickup)
	return nil
}

func (o *Order) setPickupLocation(location kernel.GeoPoint) error {
	if err := location.Validate(); err != nil {
		return err
	}
	o.pickupLocation = location
	return nil
}

// setQuantity skips the upper bound when maxKg is not positive.
func (o *Order) setQuantity(quantityKg, maxKg float64) error {
	if quantityKg <= 0 {
		return errs.NewValueIsInvalidErrorWithCause("quantity", fmt.Errorf("%v is not greater than 0", quantityKg))
	}
	if maxKg > 0 && quantityKg > maxKg {
		return errs.NewValueIsOutOfRangeError("quantity", quantityKg, 0, maxKg)
	}
	o.quantityKg = quantityKg
	return nil
}

func (o *Order) setScheduledAt(scheduledAt, now time.Time, horizon time.Duration) error {
	if !scheduledAt.After(now) {
		return errs.NewValueIsInvalidErrorWithCause("scheduled time", errors.New("must be in the future"))
	}
	if horizon > 0 && scheduledAt.After(now.Add(horizon)) {
		return errs.NewValueIsOutOfRangeError("scheduled time", scheduledAt.Format(time.RFC3339), now.Format(time.RFC3339),
			now.Add(horizon).Format(time.RFC3339))
	}
	o.scheduledAt = scheduledAt
	return nil
}
