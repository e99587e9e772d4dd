package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func pendingOrder(t *testing.T, quantityKg float64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), kernel.NewUUID(), order.Details{
		DeliveryAddress: "Westlands, Waiyaki Way",
		PickupAddress:   "Industrial Area depot",
		PickupLocation:  point(t, -1.2921, 36.8219),
		QuantityKg:      quantityKg,
		ScheduledAt:     now.Add(48 * time.Hour),
	}, now, order.DefaultPolicy())
	require.NoError(t, err)
	return o
}

// pairedCandidate builds a driver with the given status at location, paired
// with an empty vehicle of capacityKg.
func pairedCandidate(t *testing.T, status fleet.DriverStatus, location *kernel.GeoPoint, capacityKg float64) (*fleet.Driver, *fleet.Vehicle) {
	t.Helper()
	d, err := fleet.NewDriver(kernel.NewUUID(), kernel.NewUUID(), "Driver", "DL-1")
	require.NoError(t, err)
	require.NoError(t, d.ChangeStatus(status))
	if location != nil {
		require.NoError(t, d.ReportLocation(*location, now))
	}
	v, err := fleet.NewVehicle(kernel.NewUUID(), "KDA 001A", "Isuzu", capacityKg)
	require.NoError(t, err)
	require.NoError(t, d.PairVehicle(v.ID()))
	require.NoError(t, v.PairDriver(d.ID()))
	return d, v
}
