// Package orderrepo provides data transfer objects and mapping functions for order persistence.
// Statuses are stored by wire name so the table stays readable from SQL.
package orderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the row layout of the orders table.
type OrderDTO struct {
	ID              uuid.UUID   `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID   `gorm:"type:uuid;not null;index"`
	DeliveryAddress string      `gorm:"not null"`
	PickupAddress   string      `gorm:"not null"`
	Pickup          LocationDTO `gorm:"embedded;embeddedPrefix:pickup_"`
	QuantityKg      float64     `gorm:"not null"`
	ScheduledAt     time.Time   `gorm:"not null"`
	Notes           string
	Status          string    `gorm:"type:varchar(16);not null;index:idx_orders_status_created,priority:1"`
	Version         int       `gorm:"not null;default:0"`
	CreatedAt       time.Time `gorm:"not null;index:idx_orders_status_created,priority:2"`
	UpdatedAt       time.Time `gorm:"not null"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LocationDTO is an embedded latitude/longitude pair.
type LocationDTO struct {
	Latitude  float64 `gorm:"type:double precision"`
	Longitude float64 `gorm:"type:double precision"`
}

func fromDomain(o *order.Order) OrderDTO {
	return OrderDTO{
		ID:              o.ID().Bytes(),
		CustomerID:      o.CustomerID().Bytes(),
		DeliveryAddress: o.DeliveryAddress(),
		PickupAddress:   o.PickupAddress(),
		Pickup: LocationDTO{
			Latitude:  o.PickupLocation().Latitude(),
			Longitude: o.PickupLocation().Longitude(),
		},
		QuantityKg:  o.QuantityKg(),
		ScheduledAt: o.ScheduledAt(),
		Notes:       o.Notes(),
		Status:      o.Status().String(),
		Version:     o.Version(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	pickup, err := kernel.NewGeoPoint(dto.Pickup.Latitude, dto.Pickup.Longitude)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return order.RestoreOrder(id, customerID, order.Details{
		DeliveryAddress: dto.DeliveryAddress,
		PickupAddress:   dto.PickupAddress,
		PickupLocation:  pickup,
		QuantityKg:      dto.QuantityKg,
		ScheduledAt:     dto.ScheduledAt,
		Notes:           dto.Notes,
	}, status, dto.CreatedAt, dto.UpdatedAt, dto.Version)
}
