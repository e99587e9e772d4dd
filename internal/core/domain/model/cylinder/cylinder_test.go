package cylinder_test

import (
	"bytes"
	"testing"
	"time"

	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func validRegistration() cylinder.Registration {
	return cylinder.Registration{
		SerialNumber:   "CYL-001",
		Kind:           cylinder.Kind13Kg,
		CapacityKg:     13,
		Manufacturer:   "Total Gas",
		ManufacturedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresOn:      time.Date(2039, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func registerCylinder(t *testing.T) *cylinder.Cylinder {
	t.Helper()
	codes, err := cylinder.NewCodeGenerator(nil).Generate()
	require.NoError(t, err)
	c, err := cylinder.RegisterCylinder(kernel.NewUUID(), validRegistration(), codes, now)
	require.NoError(t, err)
	return c
}

func TestRegisterCylinder(t *testing.T) {
	t.Run("registers active cylinder with matching digest", func(t *testing.T) {
		c := registerCylinder(t)

		require.NoError(t, c.Validate())
		assert.Equal(t, cylinder.Active, c.Status())
		assert.InDelta(t, 13.0, c.CapacityKg(), 1e-9)
		assert.Regexp(t, `^CYL-[0-9A-F]{16}$`, c.IdentityCode())
		assert.Regexp(t, `^TAG-[0-9A-F]{16}$`, c.TagCode())
		assert.Len(t, c.SecretKey(), 64)
		assert.True(t, c.VerifyDigest())
	})

	tests := []struct {
		name   string
		mutate func(r *cylinder.Registration)
		target error
	}{
		{"short serial", func(r *cylinder.Registration) { r.SerialNumber = "C-01" }, errs.ErrValueIsInvalid},
		{"unknown kind", func(r *cylinder.Registration) { r.Kind = cylinder.KindUnknown }, errs.ErrValueIsInvalid},
		{"capacity does not match kind", func(r *cylinder.Registration) { r.CapacityKg = 12.5 }, errs.ErrValueIsOutOfRange},
		{"missing manufacturer", func(r *cylinder.Registration) { r.Manufacturer = " " }, errs.ErrValueIsRequired},
		{"expiry before manufacture", func(r *cylinder.Registration) { r.ExpiresOn = r.ManufacturedOn.Add(-time.Hour) }, errs.ErrValueIsInvalid},
		{"expiry beyond service life", func(r *cylinder.Registration) { r.ExpiresOn = r.ManufacturedOn.AddDate(31, 0, 0) }, errs.ErrValueIsOutOfRange},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := validRegistration()
			tt.mutate(&reg)
			codes, err := cylinder.NewCodeGenerator(nil).Generate()
			require.NoError(t, err)

			_, err = cylinder.RegisterCylinder(kernel.NewUUID(), reg, codes, now)

			require.ErrorIs(t, err, tt.target)
		})
	}
}

func TestRestoreCylinder_DetectsAlteredDigest(t *testing.T) {
	c := registerCylinder(t)
	altered := c.Codes()
	altered.TagCode = "TAG-0000000000000000"

	restored, err := cylinder.RestoreCylinder(c.ID(), c.Registration(), altered, c.Digest(), c.State())

	require.NoError(t, err)
	assert.False(t, restored.VerifyDigest())
}

func TestCylinder_ChangeStatus(t *testing.T) {
	t.Run("filling counts fills", func(t *testing.T) {
		c := registerCylinder(t)

		prev, err := c.ChangeStatus(cylinder.Filled, now)

		require.NoError(t, err)
		assert.Equal(t, cylinder.Active, prev)
		assert.Equal(t, 1, c.TotalFills())
		require.Len(t, c.DomainEvents(), 1)
		assert.Equal(t, cylinder.StatusChangedEventName, c.DomainEvents()[0].EventName())
	})

	t.Run("maintenance back to active stamps inspection", func(t *testing.T) {
		c := registerCylinder(t)
		_, err := c.ChangeStatus(cylinder.Maintenance, now)
		require.NoError(t, err)

		later := now.Add(24 * time.Hour)
		_, err = c.ChangeStatus(cylinder.Active, later)

		require.NoError(t, err)
		require.NotNil(t, c.LastInspectedOn())
		assert.Equal(t, later, *c.LastInspectedOn())
	})

	t.Run("retired is terminal", func(t *testing.T) {
		c := registerCylinder(t)
		_, err := c.ChangeStatus(cylinder.Retired, now)
		require.NoError(t, err)

		_, err = c.ChangeStatus(cylinder.Active, now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, cylinder.Retired, c.Status())
	})
}

func TestStatus_TransitionTable(t *testing.T) {
	allowed := map[cylinder.Status][]cylinder.Status{
		cylinder.Active:      {cylinder.Filled, cylinder.Maintenance, cylinder.Retired, cylinder.Stolen},
		cylinder.Filled:      {cylinder.InDelivery, cylinder.Empty, cylinder.Maintenance},
		cylinder.InDelivery:  {cylinder.Filled, cylinder.Empty},
		cylinder.Empty:       {cylinder.Filled, cylinder.Maintenance, cylinder.Retired},
		cylinder.Maintenance: {cylinder.Active, cylinder.Retired},
		cylinder.Retired:     {},
		cylinder.Stolen:      {cylinder.Active},
	}
	all := []cylinder.Status{
		cylinder.Active, cylinder.Filled, cylinder.InDelivery, cylinder.Empty,
		cylinder.Maintenance, cylinder.Retired, cylinder.Stolen,
	}

	for _, from := range all {
		for _, to := range all {
			expected := false
			for _, a := range allowed[from] {
				if a == to {
					expected = true
				}
			}
			_, err := from.TransitionTo(to)
			if expected {
				assert.NoError(t, err, "%s -> %s", from, to)
			} else {
				assert.ErrorIs(t, err, errs.ErrInvalidTransition, "%s -> %s", from, to)
			}
		}
	}
}

func TestCylinder_Assignment(t *testing.T) {
	t.Run("assign to order requires a filled cylinder", func(t *testing.T) {
		c := registerCylinder(t)

		err := c.AssignToOrder(kernel.NewUUID(), kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Nil(t, c.CurrentOrderID())
	})

	t.Run("assign filled cylinder to order", func(t *testing.T) {
		c := registerCylinder(t)
		_, err := c.ChangeStatus(cylinder.Filled, now)
		require.NoError(t, err)
		orderID, customerID := kernel.NewUUID(), kernel.NewUUID()

		require.NoError(t, c.AssignToOrder(orderID, customerID, now))

		assert.Equal(t, cylinder.InDelivery, c.Status())
		assert.True(t, c.CurrentOrderID().IsEqual(orderID))
		assert.True(t, c.IsHeldBy(customerID))
	})

	t.Run("assign to customer clears order", func(t *testing.T) {
		c := registerCylinder(t)
		customerID := kernel.NewUUID()

		require.NoError(t, c.AssignToCustomer(customerID, now))

		assert.True(t, c.IsHeldBy(customerID))
		assert.Nil(t, c.CurrentOrderID())
		assert.Equal(t, cylinder.Active, c.Status())

		previous, err := c.Unassign(now)
		require.NoError(t, err)
		assert.True(t, previous.IsEqual(customerID))
		assert.Nil(t, c.CurrentCustomerID())

		_, err = c.Unassign(now)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("tampered cylinder cannot be assigned", func(t *testing.T) {
		c := registerCylinder(t)
		require.NoError(t, c.FlagTamper("seal broken", now))

		err := c.AssignToCustomer(kernel.NewUUID(), now)

		require.ErrorIs(t, err, errs.ErrResourceUnavailable)
	})
}

func TestCylinder_RecordScan(t *testing.T) {
	c := registerCylinder(t)
	scanner := kernel.NewUUID()
	point, err := kernel.NewGeoPoint(-1.2921, 36.8219)
	require.NoError(t, err)

	require.NoError(t, c.RecordScan(scanner, point, now))
	require.NoError(t, c.RecordScan(scanner, point, now.Add(time.Minute)))

	assert.Equal(t, 2, c.TotalScans())
	assert.Equal(t, now.Add(time.Minute), *c.LastScannedAt())
	assert.True(t, c.LastScannedBy().IsEqual(scanner))
	assert.True(t, c.LastKnownLocation().IsEqual(point))
}

func TestCylinder_FlagTamper(t *testing.T) {
	c := registerCylinder(t)

	require.ErrorIs(t, c.FlagTamper("  ", now), errs.ErrValueIsRequired)
	require.NoError(t, c.FlagTamper("valve seal cut", now))

	assert.True(t, c.IsTampered())
	assert.Equal(t, "valve seal cut", c.TamperNotes())
}

func TestCylinder_IsExpired(t *testing.T) {
	c := registerCylinder(t)

	assert.False(t, c.IsExpired(now))
	assert.True(t, c.IsExpired(time.Date(2039, 1, 2, 0, 0, 0, 0, time.UTC)))
}

func TestCodeGenerator_DeterministicSource(t *testing.T) {
	source := bytes.NewReader(bytes.Repeat([]byte{0xab}, 64))

	codes, err := cylinder.NewCodeGenerator(source).Generate()

	require.NoError(t, err)
	assert.Equal(t, "CYL-ABABABABABABABAB", codes.IdentityCode)
	assert.Equal(t, "TAG-ABABABABABABABAB", codes.TagCode)

	_, err = cylinder.NewCodeGenerator(bytes.NewReader(nil)).Generate()
	require.Error(t, err)
}
