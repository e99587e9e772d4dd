// Package auditrepo is the insert-only store behind ports.AuditRecorder.
// Rows are never updated; the structs below have no version column.
package auditrepo

import (
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// OrderHistoryDTO is the row layout of the order_history table.
type OrderHistoryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index:idx_order_history_order_recorded,priority:1"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null"`
	EventType      string    `gorm:"type:varchar(32);not null"`
	PreviousStatus *string   `gorm:"type:varchar(16)"`
	NewStatus      string    `gorm:"type:varchar(16);not null"`
	Notes          string
	RecordedAt     time.Time `gorm:"not null;index:idx_order_history_order_recorded,priority:2"`
}

func (OrderHistoryDTO) TableName() string {
	return "order_history"
}

// CylinderHistoryDTO is the row layout of the cylinder_history table.
type CylinderHistoryDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	CylinderID     uuid.UUID `gorm:"type:uuid;not null;index:idx_cylinder_history_cylinder_recorded,priority:1"`
	EventType      string    `gorm:"type:varchar(32);not null"`
	ActorID        uuid.UUID `gorm:"type:uuid;not null;index"`
	PreviousStatus *string   `gorm:"type:varchar(16)"`
	NewStatus      *string   `gorm:"type:varchar(16)"`
	Latitude       *float64  `gorm:"type:double precision"`
	Longitude      *float64  `gorm:"type:double precision"`
	Notes          string
	Verification   datatypes.JSON `gorm:"type:jsonb"`
	CustomerID     *uuid.UUID     `gorm:"type:uuid;index"`
	OrderID        *uuid.UUID     `gorm:"type:uuid"`
	RecordedAt     time.Time      `gorm:"not null;index:idx_cylinder_history_cylinder_recorded,priority:2"`
}

func (CylinderHistoryDTO) TableName() string {
	return "cylinder_history"
}

// ScanDTO is the row layout of the cylinder_scans table.
type ScanDTO struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey"`
	CylinderID      uuid.UUID `gorm:"type:uuid;not null;index:idx_cylinder_scans_cylinder_scanned,priority:1"`
	ScanType        string    `gorm:"type:varchar(16);not null"`
	Result          string    `gorm:"type:varchar(16);not null"`
	ActorID         uuid.UUID `gorm:"type:uuid;not null"`
	ActorRole       string    `gorm:"type:varchar(16);not null"`
	Latitude        float64   `gorm:"type:double precision;not null"`
	Longitude       float64   `gorm:"type:double precision;not null"`
	Address         string
	Message         string
	IsSuspicious    bool `gorm:"not null;default:false"`
	SuspicionReason string
	Origin          datatypes.JSON `gorm:"type:jsonb"`
	ScannedAt       time.Time      `gorm:"not null;index:idx_cylinder_scans_cylinder_scanned,priority:2"`
}

func (ScanDTO) TableName() string {
	return "cylinder_scans"
}

func optionalStatus(s string, known bool) *string {
	if !known {
		return nil
	}
	return &s
}

func orderHistoryFromDomain(e audit.OrderHistoryEntry) OrderHistoryDTO {
	return OrderHistoryDTO{
		ID:             e.ID.Bytes(),
		OrderID:        e.OrderID.Bytes(),
		ActorID:        e.ActorID.Bytes(),
		EventType:      string(e.Event),
		PreviousStatus: optionalStatus(e.PreviousStatus.String(), e.PreviousStatus.Validate() == nil),
		NewStatus:      e.NewStatus.String(),
		Notes:          e.Notes,
		RecordedAt:     e.RecordedAt,
	}
}

func cylinderHistoryFromDomain(e audit.CylinderHistoryEntry) (CylinderHistoryDTO, error) {
	dto := CylinderHistoryDTO{
		ID:             e.ID.Bytes(),
		CylinderID:     e.CylinderID.Bytes(),
		EventType:      string(e.Event),
		ActorID:        e.ActorID.Bytes(),
		PreviousStatus: optionalStatus(e.PreviousStatus.String(), e.PreviousStatus.Validate() == nil),
		NewStatus:      optionalStatus(e.NewStatus.String(), e.NewStatus.Validate() == nil),
		Notes:          e.Notes,
		CustomerID:     kernel.OptionalBytes(e.CustomerID),
		OrderID:        kernel.OptionalBytes(e.OrderID),
		RecordedAt:     e.RecordedAt,
	}
	if e.Location != nil {
		lat, lon := e.Location.Latitude(), e.Location.Longitude()
		dto.Latitude = &lat
		dto.Longitude = &lon
	}
	if e.Verification != nil {
		raw, err := json.Marshal(e.Verification)
		if err != nil {
			return CylinderHistoryDTO{}, err
		}
		dto.Verification = datatypes.JSON(raw)
	}
	return dto, nil
}

func scanFromDomain(r audit.ScanRecord) (ScanDTO, error) {
	origin, err := json.Marshal(r.Origin)
	if err != nil {
		return ScanDTO{}, err
	}
	return ScanDTO{
		ID:              r.ID.Bytes(),
		CylinderID:      r.CylinderID.Bytes(),
		ScanType:        string(r.ScanType),
		Result:          string(r.Result),
		ActorID:         r.ActorID.Bytes(),
		ActorRole:       r.ActorRole.String(),
		Latitude:        r.Location.Latitude(),
		Longitude:       r.Location.Longitude(),
		Address:         r.Address,
		Message:         r.Message,
		IsSuspicious:    r.Suspicious,
		SuspicionReason: r.SuspicionReason,
		Origin:          datatypes.JSON(origin),
		ScannedAt:       r.ScannedAt,
	}, nil
}

func scanToDomain(dto ScanDTO) (*audit.ScanRecord, error) {
	rec := &audit.ScanRecord{
		ScanType:        audit.ScanType(dto.ScanType),
		Result:          audit.ScanResult(dto.Result),
		Address:         dto.Address,
		Message:         dto.Message,
		Suspicious:      dto.IsSuspicious,
		SuspicionReason: dto.SuspicionReason,
		ScannedAt:       dto.ScannedAt,
	}

	var err error
	if rec.ID, err = kernel.UUIDFromBytes(dto.ID[:]); err != nil {
		return nil, err
	}
	if rec.CylinderID, err = kernel.UUIDFromBytes(dto.CylinderID[:]); err != nil {
		return nil, err
	}
	if rec.ActorID, err = kernel.UUIDFromBytes(dto.ActorID[:]); err != nil {
		return nil, err
	}
	if rec.ActorRole, err = access.ParseRole(dto.ActorRole); err != nil {
		return nil, err
	}
	if rec.Location, err = kernel.NewGeoPoint(dto.Latitude, dto.Longitude); err != nil {
		return nil, err
	}
	if len(dto.Origin) > 0 {
		if err = json.Unmarshal(dto.Origin, &rec.Origin); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
