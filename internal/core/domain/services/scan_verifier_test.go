package services_test

import (
	"testing"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func registeredCylinder(t *testing.T) *cylinder.Cylinder {
	t.Helper()
	codes, err := cylinder.NewCodeGenerator(nil).Generate()
	require.NoError(t, err)
	c, err := cylinder.RegisterCylinder(kernel.NewUUID(), cylinder.Registration{
		SerialNumber:   "CYL-001",
		Kind:           cylinder.Kind13Kg,
		CapacityKg:     13,
		Manufacturer:   "Total Gas",
		ManufacturedOn: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		ExpiresOn:      time.Date(2039, 1, 1, 0, 0, 0, 0, time.UTC),
	}, codes, now)
	require.NoError(t, err)
	return c
}

func TestTamperDetector_Detect(t *testing.T) {
	detector := services.NewTamperDetector(services.DefaultTamperPolicy())
	nairobi := point(t, -1.2921, 36.8219)

	t.Run("five scans in the window are fine", func(t *testing.T) {
		s := detector.Detect(nairobi, now, services.ScanHistory{RecentScans: 4})

		assert.False(t, s.Suspicious)
	})

	t.Run("sixth scan in the window is rapid", func(t *testing.T) {
		s := detector.Detect(nairobi, now, services.ScanHistory{RecentScans: 5})

		assert.True(t, s.Suspicious)
		assert.Equal(t, []string{services.RapidScanReason}, s.Reasons)
	})

	t.Run("far previous scan inside the window", func(t *testing.T) {
		s := detector.Detect(point(t, 0, 0), now, services.ScanHistory{
			RecentScans: 1,
			Previous:    &services.PreviousScan{Location: nairobi, ScannedAt: now.Add(-30 * time.Second)},
		})

		assert.True(t, s.Suspicious)
		assert.Equal(t, []string{services.ImpossibleTravelReason}, s.Reasons)
	})

	t.Run("far previous scan outside the window", func(t *testing.T) {
		s := detector.Detect(point(t, 0, 0), now, services.ScanHistory{
			Previous: &services.PreviousScan{Location: nairobi, ScannedAt: now.Add(-6 * time.Minute)},
		})

		assert.False(t, s.Suspicious)
	})

	t.Run("nearby previous scan", func(t *testing.T) {
		s := detector.Detect(point(t, -1.30, 36.83), now, services.ScanHistory{
			RecentScans: 1,
			Previous:    &services.PreviousScan{Location: nairobi, ScannedAt: now.Add(-time.Minute)},
		})

		assert.False(t, s.Suspicious)
	})
}

func TestScanVerifier_Verify(t *testing.T) {
	verifier := services.NewScanVerifier(services.NewTamperDetector(services.DefaultTamperPolicy()))
	nairobi := point(t, -1.2921, 36.8219)

	t.Run("registered cylinder scanned twice far apart", func(t *testing.T) {
		// Given
		c := registeredCylinder(t)

		// When: first scan in Nairobi
		first := verifier.Verify(c, nairobi, now, services.ScanHistory{})

		// Then
		assert.Equal(t, audit.ScanSuccess, first.Result)
		assert.True(t, first.Verified)

		// When: second scan at (0,0) a few seconds later
		second := verifier.Verify(c, point(t, 0, 0), now.Add(10*time.Second), services.ScanHistory{
			RecentScans: 1,
			Previous:    &services.PreviousScan{Location: nairobi, ScannedAt: now},
		})

		// Then
		assert.Equal(t, audit.ScanSuspicious, second.Result)
		assert.True(t, second.Verified)
		assert.True(t, second.Suspicious)
		assert.Contains(t, second.Message, services.ImpossibleTravelReason)
	})

	t.Run("tampered wins over every other check", func(t *testing.T) {
		c := registeredCylinder(t)
		require.NoError(t, c.FlagTamper("seal cut", now))
		_, err := c.ChangeStatus(cylinder.Stolen, now)
		require.NoError(t, err)

		v := verifier.Verify(c, nairobi, time.Date(2040, 1, 1, 0, 0, 0, 0, time.UTC), services.ScanHistory{RecentScans: 10})

		assert.Equal(t, audit.ScanTampered, v.Result)
		assert.False(t, v.Verified)
	})

	t.Run("altered codes are tampered", func(t *testing.T) {
		c := registeredCylinder(t)
		codes := c.Codes()
		codes.IdentityCode = "CYL-0000000000000000"
		altered, err := cylinder.RestoreCylinder(c.ID(), c.Registration(), codes, c.Digest(), c.State())
		require.NoError(t, err)

		v := verifier.Verify(altered, nairobi, now, services.ScanHistory{})

		assert.Equal(t, audit.ScanTampered, v.Result)
		assert.Equal(t, services.MessageAltered, v.Message)
	})

	t.Run("expired is verified but flagged", func(t *testing.T) {
		c := registeredCylinder(t)

		v := verifier.Verify(c, nairobi, time.Date(2039, 6, 1, 0, 0, 0, 0, time.UTC), services.ScanHistory{})

		assert.Equal(t, audit.ScanExpired, v.Result)
		assert.True(t, v.Verified)
	})

	t.Run("stolen", func(t *testing.T) {
		c := registeredCylinder(t)
		_, err := c.ChangeStatus(cylinder.Stolen, now)
		require.NoError(t, err)

		v := verifier.Verify(c, nairobi, now, services.ScanHistory{})

		assert.Equal(t, audit.ScanStolen, v.Result)
		assert.False(t, v.Verified)
	})

	t.Run("not found", func(t *testing.T) {
		v := services.NotFoundVerdict()

		assert.Equal(t, audit.ScanFailed, v.Result)
		assert.False(t, v.Verified)
	})
}
