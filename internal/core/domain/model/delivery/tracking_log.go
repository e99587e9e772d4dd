package delivery

import (
	"errors"
	"fmt"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
)

// Telemetry holds the optional readings a driver's device attaches to a position.
type Telemetry struct {
	SpeedKmh   *float64
	HeadingDeg *float64
	AccuracyM  *float64
}

// TrackingLog is one append-only position report for a delivery.
type TrackingLog struct {
	id         kernel.UUID
	deliveryID kernel.UUID
	location   kernel.GeoPoint
	telemetry  Telemetry
	recordedAt time.Time
}

func NewTrackingLog(
	id, deliveryID kernel.UUID,
	location kernel.GeoPoint,
	telemetry Telemetry,
	recordedAt time.Time,
) (TrackingLog, error) {
	if err := errors.Join(
		id.Validate(),
		deliveryID.Validate(),
		location.Validate(),
		validateTelemetry(telemetry),
	); err != nil {
		return TrackingLog{}, err
	}

	return TrackingLog{
		id:         id,
		deliveryID: deliveryID,
		location:   location,
		telemetry:  telemetry,
		recordedAt: recordedAt,
	}, nil
}

func (l TrackingLog) ID() kernel.UUID           { return l.id }
func (l TrackingLog) DeliveryID() kernel.UUID   { return l.deliveryID }
func (l TrackingLog) Location() kernel.GeoPoint { return l.location }
func (l TrackingLog) Telemetry() Telemetry      { return l.telemetry }
func (l TrackingLog) RecordedAt() time.Time     { return l.recordedAt }

func validateTelemetry(t Telemetry) error {
	var err error
	if t.SpeedKmh != nil && *t.SpeedKmh < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("speed", fmt.Errorf("%v is negative", *t.SpeedKmh)))
	}
	if t.HeadingDeg != nil && (*t.HeadingDeg < 0 || *t.HeadingDeg >= 360) {
		err = errors.Join(err, errs.NewValueIsOutOfRangeError("heading", *t.HeadingDeg, 0, 360))
	}
	if t.AccuracyM != nil && *t.AccuracyM < 0 {
		err = errors.Join(err, errs.NewValueIsInvalidErrorWithCause("accuracy", fmt.Errorf("%v is negative", *t.AccuracyM)))
	}
	return err
}
