package delivery

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

var ErrDeliveryIsNotConstructed = errors.New("Delivery must be created via NewDelivery constructor")

// Delivery links an order to the driver and vehicle reserved for it.
type Delivery struct {
	id            kernel.UUID
	orderID       kernel.UUID
	driverID      kernel.UUID
	vehicleID     kernel.UUID
	assignedBy    kernel.UUID
	assignedAt    time.Time
	status        Status
	startedAt     *time.Time
	completedAt   *time.Time
	failureReason string

	isConstructed bool
}

// NewDelivery creates a delivery in Assigned status.
func NewDelivery(id, orderID, driverID, vehicleID, assignedBy kernel.UUID, now time.Time) (*Delivery, error) {
	if err := errors.Join(
		id.Validate(),
		orderID.Validate(),
		driverID.Validate(),
		vehicleID.Validate(),
		assignedBy.Validate(),
	); err != nil {
		return nil, err
	}

	return &Delivery{
		id:            id,
		orderID:       orderID,
		driverID:      driverID,
		vehicleID:     vehicleID,
		assignedBy:    assignedBy,
		assignedAt:    now,
		status:        Assigned,
		isConstructed: true,
	}, nil
}

// RestoreDelivery rebuilds a delivery from storage.
func RestoreDelivery(
	id, orderID, driverID, vehicleID, assignedBy kernel.UUID,
	assignedAt time.Time,
	status Status,
	startedAt, completedAt *time.Time,
	failureReason string,
) (*Delivery, error) {
	d, err := NewDelivery(id, orderID, driverID, vehicleID, assignedBy, assignedAt)
	if err != nil {
		return nil, err
	}
	if err = status.Validate(); err != nil {
		return nil, err
	}
	d.status = status
	d.startedAt = startedAt
	d.completedAt = completedAt
	d.failureReason = failureReason
	return d, nil
}

func (d *Delivery) Validate() error {
	if d == nil || !d.isConstructed {
		return ErrDeliveryIsNotConstructed
	}
	return nil
}

func (d *Delivery) ID() kernel.UUID         { return d.id }
func (d *Delivery) OrderID() kernel.UUID    { return d.orderID }
func (d *Delivery) DriverID() kernel.UUID   { return d.driverID }
func (d *Delivery) VehicleID() kernel.UUID  { return d.vehicleID }
func (d *Delivery) AssignedBy() kernel.UUID { return d.assignedBy }
func (d *Delivery) AssignedAt() time.Time   { return d.assignedAt }
func (d *Delivery) Status() Status          { return d.status }
func (d *Delivery) StartedAt() *time.Time   { return d.startedAt }
func (d *Delivery) CompletedAt() *time.Time { return d.completedAt }
func (d *Delivery) FailureReason() string   { return d.failureReason }

// Start moves Assigned -> InProgress and stamps startedAt.
func (d *Delivery) Start(now time.Time) error {
	if d.status != Assigned {
		return errs.NewInvalidTransitionError("delivery", d.status.String(), InProgress.String())
	}
	d.status = InProgress
	d.startedAt = &now
	return nil
}

// Complete moves InProgress -> Completed and stamps completedAt.
func (d *Delivery) Complete(now time.Time) error {
	if d.status != InProgress {
		return errs.NewInvalidTransitionError("delivery", d.status.String(), Completed.String())
	}
	d.status = Completed
	d.completedAt = &now
	return nil
}

// Fail moves an active delivery to Failed, keeping the reason.
func (d *Delivery) Fail(reason string, now time.Time) error {
	if !d.status.IsActive() {
		return errs.NewInvalidTransitionError("delivery", d.status.String(), Failed.String())
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		reason = "order cancelled"
	}
	d.status = Failed
	d.failureReason = reason
	d.completedAt = &now
	return nil
}
