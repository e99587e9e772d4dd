// Package fleetrepo persists drivers and vehicles.
package fleetrepo

import (
	"time"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// DriverDTO is the row layout of the drivers table. Latitude and Longitude
// are both set or both null.
type DriverDTO struct {
	ID                uuid.UUID  `gorm:"type:uuid;primaryKey"`
	UserID            uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex"`
	Name              string     `gorm:"not null"`
	LicenseNumber     string     `gorm:"not null;uniqueIndex"`
	Status            string     `gorm:"type:varchar(16);not null;index:idx_drivers_dispatchable,priority:1"`
	Available         bool       `gorm:"not null;index:idx_drivers_dispatchable,priority:2"`
	VehicleID         *uuid.UUID `gorm:"type:uuid;index"`
	Latitude          *float64   `gorm:"type:double precision"`
	Longitude         *float64   `gorm:"type:double precision"`
	LocationUpdatedAt *time.Time
	Version           int       `gorm:"not null;default:0"`
	CreatedAt         time.Time `gorm:"autoCreateTime"`
	UpdatedAt         time.Time `gorm:"autoUpdateTime"`
}

func (DriverDTO) TableName() string {
	return "drivers"
}

// VehicleDTO is the row layout of the vehicles table.
type VehicleDTO struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey"`
	PlateNumber   string     `gorm:"not null;uniqueIndex"`
	Model         string     `gorm:"not null"`
	CapacityKg    float64    `gorm:"not null"`
	CurrentLoadKg float64    `gorm:"not null;default:0"`
	Status        string     `gorm:"type:varchar(16);not null"`
	DriverID      *uuid.UUID `gorm:"type:uuid;index"`
	Latitude      *float64   `gorm:"type:double precision"`
	Longitude     *float64   `gorm:"type:double precision"`
	Version       int        `gorm:"not null;default:0"`
}

func (VehicleDTO) TableName() string {
	return "vehicles"
}

func splitPoint(p *kernel.GeoPoint) (*float64, *float64) {
	if p == nil {
		return nil, nil
	}
	lat, lon := p.Latitude(), p.Longitude()
	return &lat, &lon
}

func joinPoint(lat, lon *float64) (*kernel.GeoPoint, error) {
	if lat == nil || lon == nil {
		return nil, nil //nolint:nilnil // no position reported yet
	}
	p, err := kernel.NewGeoPoint(*lat, *lon)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func driverFromDomain(d *fleet.Driver) DriverDTO {
	lat, lon := splitPoint(d.Location())
	return DriverDTO{
		ID:                d.ID().Bytes(),
		UserID:            d.UserID().Bytes(),
		Name:              d.Name(),
		LicenseNumber:     d.LicenseNumber(),
		Status:            d.Status().String(),
		Available:         d.IsAvailable(),
		VehicleID:         kernel.OptionalBytes(d.VehicleID()),
		Latitude:          lat,
		Longitude:         lon,
		LocationUpdatedAt: d.LocationUpdatedAt(),
		Version:           d.Version(),
	}
}

func driverToDomain(dto DriverDTO) (*fleet.Driver, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	userID, err := kernel.UUIDFromBytes(dto.UserID[:])
	if err != nil {
		return nil, err
	}
	vehicleID, err := kernel.OptionalUUIDFromBytes(dto.VehicleID)
	if err != nil {
		return nil, err
	}
	location, err := joinPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	status, err := fleet.ParseDriverStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return fleet.RestoreDriver(id, userID, dto.Name, dto.LicenseNumber, fleet.DriverState{
		Status:            status,
		Available:         dto.Available,
		VehicleID:         vehicleID,
		Location:          location,
		LocationUpdatedAt: dto.LocationUpdatedAt,
		Version:           dto.Version,
	})
}

func vehicleFromDomain(v *fleet.Vehicle) VehicleDTO {
	lat, lon := splitPoint(v.LastLocation())
	return VehicleDTO{
		ID:            v.ID().Bytes(),
		PlateNumber:   v.PlateNumber(),
		Model:         v.Model(),
		CapacityKg:    v.CapacityKg(),
		CurrentLoadKg: v.CurrentLoadKg(),
		Status:        v.Status().String(),
		DriverID:      kernel.OptionalBytes(v.DriverID()),
		Latitude:      lat,
		Longitude:     lon,
		Version:       v.Version(),
	}
}

func vehicleToDomain(dto VehicleDTO) (*fleet.Vehicle, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	driverID, err := kernel.OptionalUUIDFromBytes(dto.DriverID)
	if err != nil {
		return nil, err
	}
	location, err := joinPoint(dto.Latitude, dto.Longitude)
	if err != nil {
		return nil, err
	}
	status, err := fleet.ParseVehicleStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return fleet.RestoreVehicle(id, dto.PlateNumber, dto.Model, dto.CapacityKg, fleet.VehicleState{
		Status:        status,
		CurrentLoadKg: dto.CurrentLoadKg,
		DriverID:      driverID,
		LastLocation:  location,
		Version:       dto.Version,
	})
}
