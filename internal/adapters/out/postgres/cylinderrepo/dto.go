// Package cylinderrepo persists cylinder aggregates together with their
// secret key and digest. Neither of those ever leaves this package through
// a query; only the aggregate sees them.
package cylinderrepo

import (
	"time"

	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CylinderDTO is the row layout of the cylinders table.
type CylinderDTO struct {
	ID                uuid.UUID `gorm:"type:uuid;primaryKey"`
	SerialNumber      string    `gorm:"type:varchar(64);not null;uniqueIndex"`
	IdentityCode      string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	TagCode           string    `gorm:"type:varchar(32);not null;uniqueIndex"`
	SecretKey         string    `gorm:"type:varchar(128);not null"`
	Digest            string    `gorm:"type:varchar(64);not null"`
	Kind              string    `gorm:"type:varchar(8);not null"`
	CapacityKg        float64   `gorm:"not null"`
	Manufacturer      string
	ManufacturedOn    time.Time  `gorm:"type:date;not null"`
	ExpiresOn         time.Time  `gorm:"type:date;not null"`
	NextInspectionOn  *time.Time `gorm:"type:date"`
	Status            string     `gorm:"type:varchar(16);not null;index"`
	LastInspectedOn   *time.Time `gorm:"type:date"`
	CurrentCustomerID *uuid.UUID `gorm:"type:uuid;index"`
	CurrentOrderID    *uuid.UUID `gorm:"type:uuid;index"`
	LastLatitude      *float64   `gorm:"type:double precision"`
	LastLongitude     *float64   `gorm:"type:double precision"`
	TotalFills        int        `gorm:"not null;default:0"`
	TotalScans        int        `gorm:"not null;default:0"`
	LastScannedAt     *time.Time
	LastScannedBy     *uuid.UUID `gorm:"type:uuid"`
	IsTampered        bool       `gorm:"not null;default:false"`
	TamperNotes       string
	CreatedAt         time.Time `gorm:"not null"`
	UpdatedAt         time.Time `gorm:"not null"`
	Version           int       `gorm:"not null;default:0"`
}

func (CylinderDTO) TableName() string {
	return "cylinders"
}

func fromDomain(c *cylinder.Cylinder) CylinderDTO {
	reg := c.Registration()
	state := c.State()

	dto := CylinderDTO{
		ID:                c.ID().Bytes(),
		SerialNumber:      reg.SerialNumber,
		IdentityCode:      c.IdentityCode(),
		TagCode:           c.TagCode(),
		SecretKey:         c.SecretKey(),
		Digest:            c.Digest(),
		Kind:              reg.Kind.String(),
		CapacityKg:        reg.CapacityKg,
		Manufacturer:      reg.Manufacturer,
		ManufacturedOn:    reg.ManufacturedOn,
		ExpiresOn:         reg.ExpiresOn,
		NextInspectionOn:  reg.NextInspectionOn,
		Status:            state.Status.String(),
		LastInspectedOn:   state.LastInspectedOn,
		CurrentCustomerID: kernel.OptionalBytes(state.CurrentCustomerID),
		CurrentOrderID:    kernel.OptionalBytes(state.CurrentOrderID),
		TotalFills:        state.TotalFills,
		TotalScans:        state.TotalScans,
		LastScannedAt:     state.LastScannedAt,
		LastScannedBy:     kernel.OptionalBytes(state.LastScannedBy),
		IsTampered:        state.IsTampered,
		TamperNotes:       state.TamperNotes,
		CreatedAt:         state.CreatedAt,
		UpdatedAt:         state.UpdatedAt,
		Version:           state.Version,
	}
	if loc := state.LastKnownLocation; loc != nil {
		lat, lon := loc.Latitude(), loc.Longitude()
		dto.LastLatitude = &lat
		dto.LastLongitude = &lon
	}
	return dto
}

func toDomain(dto CylinderDTO) (*cylinder.Cylinder, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	kind, err := cylinder.ParseKind(dto.Kind)
	if err != nil {
		return nil, err
	}

	status, err := cylinder.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	state := cylinder.State{
		Status:          status,
		LastInspectedOn: dto.LastInspectedOn,
		TotalFills:      dto.TotalFills,
		TotalScans:      dto.TotalScans,
		LastScannedAt:   dto.LastScannedAt,
		IsTampered:      dto.IsTampered,
		TamperNotes:     dto.TamperNotes,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
		Version:         dto.Version,
	}
	if state.CurrentCustomerID, err = kernel.OptionalUUIDFromBytes(dto.CurrentCustomerID); err != nil {
		return nil, err
	}
	if state.CurrentOrderID, err = kernel.OptionalUUIDFromBytes(dto.CurrentOrderID); err != nil {
		return nil, err
	}
	if state.LastScannedBy, err = kernel.OptionalUUIDFromBytes(dto.LastScannedBy); err != nil {
		return nil, err
	}
	if dto.LastLatitude != nil && dto.LastLongitude != nil {
		loc, locErr := kernel.NewGeoPoint(*dto.LastLatitude, *dto.LastLongitude)
		if locErr != nil {
			return nil, locErr
		}
		state.LastKnownLocation = &loc
	}

	return cylinder.RestoreCylinder(id, cylinder.Registration{
		SerialNumber:     dto.SerialNumber,
		Kind:             kind,
		CapacityKg:       dto.CapacityKg,
		Manufacturer:     dto.Manufacturer,
		ManufacturedOn:   dto.ManufacturedOn,
		ExpiresOn:        dto.ExpiresOn,
		NextInspectionOn: dto.NextInspectionOn,
	}, cylinder.Codes{
		IdentityCode: dto.IdentityCode,
		TagCode:      dto.TagCode,
		SecretKey:    dto.SecretKey,
	}, dto.Digest, state)
}
