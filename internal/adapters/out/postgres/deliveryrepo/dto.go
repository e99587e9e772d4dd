// Package deliveryrepo persists deliveries and their append-only tracking logs.
package deliveryrepo

import (
	"time"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DeliveryDTO is the row layout of the deliveries table. OrderID is unique:
// an order has at most one delivery.
type DeliveryDTO struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID       uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DriverID      uuid.UUID `gorm:"type:uuid;not null;index"`
	VehicleID     uuid.UUID `gorm:"type:uuid;not null;index"`
	AssignedBy    uuid.UUID `gorm:"type:uuid;not null"`
	AssignedAt    time.Time `gorm:"not null"`
	Status        string    `gorm:"type:varchar(16);not null"`
	StartedAt     *time.Time
	CompletedAt   *time.Time
	FailureReason string
	Version       int `gorm:"not null;default:0"`
}

func (DeliveryDTO) TableName() string {
	return "deliveries"
}

// TrackingLogDTO is the row layout of the tracking_logs table.
type TrackingLogDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	DeliveryID uuid.UUID `gorm:"type:uuid;not null;index:idx_tracking_logs_delivery_recorded,priority:1"`
	Latitude   float64   `gorm:"type:double precision;not null"`
	Longitude  float64   `gorm:"type:double precision;not null"`
	SpeedKmh   *float64
	HeadingDeg *float64
	AccuracyM  *float64
	RecordedAt time.Time `gorm:"not null;index:idx_tracking_logs_delivery_recorded,priority:2"`
}

func (TrackingLogDTO) TableName() string {
	return "tracking_logs"
}

func fromDomain(d *delivery.Delivery, version int) DeliveryDTO {
	return DeliveryDTO{
		ID:            d.ID().Bytes(),
		OrderID:       d.OrderID().Bytes(),
		DriverID:      d.DriverID().Bytes(),
		VehicleID:     d.VehicleID().Bytes(),
		AssignedBy:    d.AssignedBy().Bytes(),
		AssignedAt:    d.AssignedAt(),
		Status:        d.Status().String(),
		StartedAt:     d.StartedAt(),
		CompletedAt:   d.CompletedAt(),
		FailureReason: d.FailureReason(),
		Version:       version,
	}
}

func toDomain(dto DeliveryDTO) (*delivery.Delivery, error) {
	ids := make([]kernel.UUID, 0, 5)
	for _, raw := range []uuid.UUID{dto.ID, dto.OrderID, dto.DriverID, dto.VehicleID, dto.AssignedBy} {
		id, err := kernel.UUIDFromBytes(raw[:])
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	status, err := delivery.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return delivery.RestoreDelivery(
		ids[0], ids[1], ids[2], ids[3], ids[4],
		dto.AssignedAt,
		status,
		dto.StartedAt, dto.CompletedAt,
		dto.FailureReason,
	)
}

func trackingLogFromDomain(l delivery.TrackingLog) TrackingLogDTO {
	t := l.Telemetry()
	return TrackingLogDTO{
		ID:         l.ID().Bytes(),
		DeliveryID: l.DeliveryID().Bytes(),
		Latitude:   l.Location().Latitude(),
		Longitude:  l.Location().Longitude(),
		SpeedKmh:   t.SpeedKmh,
		HeadingDeg: t.HeadingDeg,
		AccuracyM:  t.AccuracyM,
		RecordedAt: l.RecordedAt(),
	}
}
