package order_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func validDetails(t *testing.T) order.Details {
	t.Helper()
	pickup, err := kernel.NewGeoPoint(-1.2921, 36.8219)
	require.NoError(t, err)
	return order.Details{
		DeliveryAddress: "Kilimani, Argwings Kodhek Rd",
		PickupAddress:   "Industrial Area depot",
		PickupLocation:  pickup,
		QuantityKg:      25,
		ScheduledAt:     now.Add(48 * time.Hour),
		Notes:           "  gate B  ",
	}
}

func newPendingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), validDetails(t), now, order.DefaultPolicy())
	require.NoError(t, err)
	return o
}

func TestNewOrder(t *testing.T) {
	t.Run("valid order starts pending", func(t *testing.T) {
		id := kernel.NewUUID()
		customer := kernel.NewUUID()

		o, err := order.NewOrder(id, customer, validDetails(t), now, order.DefaultPolicy())

		require.NoError(t, err)
		require.NoError(t, o.Validate())
		assert.Equal(t, id, o.ID())
		assert.True(t, o.IsOwnedBy(customer))
		assert.Equal(t, order.Pending, o.Status())
		assert.InDelta(t, 25.0, o.QuantityKg(), 1e-9)
		assert.Equal(t, "gate B", o.Notes())
		assert.Equal(t, now, o.CreatedAt())
		assert.Empty(t, o.DomainEvents())
	})

	tests := []struct {
		name   string
		mutate func(d *order.Details)
		target error
	}{
		{"zero quantity", func(d *order.Details) { d.QuantityKg = 0 }, errs.ErrValueIsInvalid},
		{"negative quantity", func(d *order.Details) { d.QuantityKg = -3 }, errs.ErrValueIsInvalid},
		{"quantity above 1000kg", func(d *order.Details) { d.QuantityKg = 1000.5 }, errs.ErrValueIsOutOfRange},
		{"scheduled in the past", func(d *order.Details) { d.ScheduledAt = now.Add(-time.Minute) }, errs.ErrValueIsInvalid},
		{"scheduled now", func(d *order.Details) { d.ScheduledAt = now }, errs.ErrValueIsInvalid},
		{"scheduled beyond 30 days", func(d *order.Details) { d.ScheduledAt = now.Add(31 * 24 * time.Hour) }, errs.ErrValueIsOutOfRange},
		{"blank delivery address", func(d *order.Details) { d.DeliveryAddress = "  " }, errs.ErrValueIsRequired},
		{"blank pickup address", func(d *order.Details) { d.PickupAddress = "" }, errs.ErrValueIsRequired},
		{"missing pickup location", func(d *order.Details) { d.PickupLocation = kernel.GeoPoint{} }, kernel.ErrGeoPointIsNotConstructed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := validDetails(t)
			tt.mutate(&d)

			_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), d, now, order.DefaultPolicy())

			require.ErrorIs(t, err, tt.target)
		})
	}

	t.Run("exactly 1000kg and 30 days is accepted", func(t *testing.T) {
		d := validDetails(t)
		d.QuantityKg = 1000
		d.ScheduledAt = now.Add(30 * 24 * time.Hour)

		_, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), d, now, order.DefaultPolicy())

		require.NoError(t, err)
	})

	t.Run("missing ids are reported together", func(t *testing.T) {
		_, err := order.NewOrder(kernel.UUID{}, kernel.UUID{}, validDetails(t), now, order.DefaultPolicy())

		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})
}

func TestOrder_Validate(t *testing.T) {
	var o *order.Order
	require.ErrorIs(t, o.Validate(), order.ErrOrderIsNotConstructed)
	require.ErrorIs(t, (&order.Order{}).Validate(), order.ErrOrderIsNotConstructed)
}

func TestOrder_Lifecycle(t *testing.T) {
	o := newPendingOrder(t)

	require.NoError(t, o.MarkAssigned(now.Add(time.Minute)))
	require.NoError(t, o.ChangeStatus(order.OnRoute, now.Add(2*time.Minute)))
	require.NoError(t, o.ChangeStatus(order.Delivered, now.Add(3*time.Minute)))

	assert.Equal(t, order.Delivered, o.Status())
	assert.Equal(t, now.Add(3*time.Minute), o.UpdatedAt())

	events := o.DomainEvents()
	require.Len(t, events, 3)
	last, ok := events[2].(order.StatusChangedEvent)
	require.True(t, ok)
	assert.Equal(t, order.OnRoute, last.From)
	assert.Equal(t, order.Delivered, last.To)
	assert.Equal(t, order.StatusChangedEventName, last.EventName())
	assert.Equal(t, o.ID(), last.AggregateID())

	o.ClearDomainEvents()
	assert.Empty(t, o.DomainEvents())
}

func TestOrder_DeliveredCannotGoBackOnRoute(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.MarkAssigned(now))
	require.NoError(t, o.ChangeStatus(order.OnRoute, now))
	require.NoError(t, o.ChangeStatus(order.Delivered, now))

	err := o.ChangeStatus(order.OnRoute, now)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Equal(t, order.Delivered, o.Status())
}

func TestOrder_RepeatedTerminalTransitionIsRejected(t *testing.T) {
	o := newPendingOrder(t)
	require.NoError(t, o.ChangeStatus(order.Cancelled, now))

	err := o.ChangeStatus(order.Cancelled, now)

	require.ErrorIs(t, err, errs.ErrInvalidTransition)
}

func TestOrder_AssignedOnlyThroughMarkAssigned(t *testing.T) {
	o := newPendingOrder(t)

	require.ErrorIs(t, o.ChangeStatus(order.Assigned, now), errs.ErrInvalidTransition)
	require.NoError(t, o.MarkAssigned(now))
	require.ErrorIs(t, o.MarkAssigned(now), errs.ErrInvalidTransition)
}

func TestOrder_PendingCannotSkipToOnRoute(t *testing.T) {
	o := newPendingOrder(t)

	require.ErrorIs(t, o.ChangeStatus(order.OnRoute, now), errs.ErrInvalidTransition)
	require.ErrorIs(t, o.ChangeStatus(order.Delivered, now), errs.ErrInvalidTransition)
	assert.Equal(t, order.Pending, o.Status())
}

func TestRestoreOrder(t *testing.T) {
	d := validDetails(t)
	d.ScheduledAt = now.Add(-72 * time.Hour)

	o, err := order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), d, order.OnRoute, now, now, 4)

	require.NoError(t, err)
	assert.Equal(t, order.OnRoute, o.Status())
	assert.Equal(t, 4, o.Version())
	assert.Equal(t, d.ScheduledAt, o.ScheduledAt())

	_, err = order.RestoreOrder(kernel.NewUUID(), kernel.NewUUID(), d, order.Unknown, now, now, 1)
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
