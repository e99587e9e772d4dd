package audit

import (
	"errors"
	"strings"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"
)

// OrderHistoryEntry is an immutable record of something that happened to an order.
// PreviousStatus is order.Unknown for CREATED entries.
type OrderHistoryEntry struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	ActorID        kernel.UUID
	Event          OrderEvent
	PreviousStatus order.Status
	NewStatus      order.Status
	Notes          string
	RecordedAt     time.Time
}

func NewOrderHistoryEntry(
	orderID, actorID kernel.UUID,
	event OrderEvent,
	previous, next order.Status,
	notes string,
	at time.Time,
) (OrderHistoryEntry, error) {
	if err := errors.Join(orderID.Validate(), actorID.Validate(), next.Validate()); err != nil {
		return OrderHistoryEntry{}, err
	}
	if _, err := ParseOrderEvent(string(event)); err != nil {
		return OrderHistoryEntry{}, err
	}
	return OrderHistoryEntry{
		ID:             kernel.NewUUID(),
		OrderID:        orderID,
		ActorID:        actorID,
		Event:          event,
		PreviousStatus: previous,
		NewStatus:      next,
		Notes:          strings.TrimSpace(notes),
		RecordedAt:     at,
	}, nil
}

// Verification is the structured outcome attached to SCANNED entries.
type Verification struct {
	ScanResult   ScanResult `json:"scan_result"`
	IsSuspicious bool       `json:"is_suspicious"`
	Latitude     float64    `json:"latitude"`
	Longitude    float64    `json:"longitude"`
}

// CylinderHistoryEntry is an immutable record of something that happened to a cylinder.
// Statuses are cylinder.Unknown when the event did not involve a status.
type CylinderHistoryEntry struct {
	ID             kernel.UUID
	CylinderID     kernel.UUID
	Event          CylinderEvent
	ActorID        kernel.UUID
	PreviousStatus cylinder.Status
	NewStatus      cylinder.Status
	Location       *kernel.GeoPoint
	Notes          string
	Verification   *Verification
	CustomerID     *kernel.UUID
	OrderID        *kernel.UUID
	RecordedAt     time.Time
}

// NewCylinderHistoryEntry builds an entry with the common fields set; callers
// fill in the optional ones.
func NewCylinderHistoryEntry(cylinderID, actorID kernel.UUID, event CylinderEvent, at time.Time) (CylinderHistoryEntry, error) {
	if err := errors.Join(cylinderID.Validate(), actorID.Validate()); err != nil {
		return CylinderHistoryEntry{}, err
	}
	if _, err := ParseCylinderEvent(string(event)); err != nil {
		return CylinderHistoryEntry{}, err
	}
	return CylinderHistoryEntry{
		ID:         kernel.NewUUID(),
		CylinderID: cylinderID,
		Event:      event,
		ActorID:    actorID,
		RecordedAt: at,
	}, nil
}

// Origin describes the client a scan came from.
type Origin struct {
	NetworkAddress string `json:"network_address,omitempty"`
	Client         string `json:"client,omitempty"`
}

// ScanRecord is one field scan of a cylinder code.
type ScanRecord struct {
	ID              kernel.UUID
	CylinderID      kernel.UUID
	ScanType        ScanType
	Result          ScanResult
	ActorID         kernel.UUID
	ActorRole       access.Role
	Location        kernel.GeoPoint
	Address         string
	Message         string
	Suspicious      bool
	SuspicionReason string
	Origin          Origin
	ScannedAt       time.Time
}

func (r ScanRecord) Validate() error {
	var err error
	if r.ScanType == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("scan type"))
	}
	if r.Result == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("scan result"))
	}
	return errors.Join(err,
		r.ID.Validate(),
		r.CylinderID.Validate(),
		r.ActorID.Validate(),
		r.ActorRole.Validate(),
		r.Location.Validate(),
	)
}
