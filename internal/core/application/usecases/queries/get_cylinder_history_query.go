package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var (
	ErrGetCylinderHistoryQueryIsNotConstructed = errors.New(
		"GetCylinderHistoryQuery must be created via NewGetCylinderHistoryQuery constructor",
	)
	ErrGetCylinderScansQueryIsNotConstructed = errors.New(
		"GetCylinderScansQuery must be created via NewGetCylinderScansQuery constructor",
	)
)

// GetCylinderHistoryQuery reads the history entries of one cylinder. Filter
// event types are cylinder events such as SCANNED or STATUS_CHANGE.
type GetCylinderHistoryQuery struct {
	actor      access.Actor
	cylinderID kernel.UUID
	filter     audit.Filter
	page       audit.PageRequest

	guard guard.ConstructorGuard
}

func NewGetCylinderHistoryQuery(
	actor access.Actor,
	cylinderID kernel.UUID,
	filter audit.Filter,
	page audit.PageRequest,
) (GetCylinderHistoryQuery, error) {
	if err := errors.Join(actor.Validate(), cylinderID.Validate(), filter.Validate()); err != nil {
		return GetCylinderHistoryQuery{}, err
	}
	return GetCylinderHistoryQuery{
		actor:      actor,
		cylinderID: cylinderID,
		filter:     filter,
		page:       page.Normalize(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetCylinderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetCylinderHistoryQueryIsNotConstructed)
}

func (q GetCylinderHistoryQuery) Actor() access.Actor     { return q.actor }
func (q GetCylinderHistoryQuery) CylinderID() kernel.UUID { return q.cylinderID }
func (q GetCylinderHistoryQuery) Filter() audit.Filter    { return q.filter }
func (q GetCylinderHistoryQuery) Page() audit.PageRequest { return q.page }

// CylinderHistoryItem is one cylinder history entry as read back.
type CylinderHistoryItem struct {
	ID             kernel.UUID
	CylinderID     kernel.UUID
	ActorID        kernel.UUID
	Event          string
	PreviousStatus string
	NewStatus      string
	Location       *kernel.GeoPoint
	Notes          string
	Verification   *audit.Verification
	CustomerID     *kernel.UUID
	OrderID        *kernel.UUID
	RecordedAt     time.Time
}

// GetCylinderScansQuery reads the scan log of one cylinder. Filter event
// types are scan results such as SUSPICIOUS.
type GetCylinderScansQuery struct {
	actor      access.Actor
	cylinderID kernel.UUID
	filter     audit.Filter
	page       audit.PageRequest

	guard guard.ConstructorGuard
}

func NewGetCylinderScansQuery(
	actor access.Actor,
	cylinderID kernel.UUID,
	filter audit.Filter,
	page audit.PageRequest,
) (GetCylinderScansQuery, error) {
	if err := errors.Join(actor.Validate(), cylinderID.Validate(), filter.Validate()); err != nil {
		return GetCylinderScansQuery{}, err
	}
	return GetCylinderScansQuery{
		actor:      actor,
		cylinderID: cylinderID,
		filter:     filter,
		page:       page.Normalize(),
		guard:      guard.NewConstructorGuard(),
	}, nil
}

func (q GetCylinderScansQuery) Validate() error {
	return q.guard.Validate(ErrGetCylinderScansQueryIsNotConstructed)
}

func (q GetCylinderScansQuery) Actor() access.Actor     { return q.actor }
func (q GetCylinderScansQuery) CylinderID() kernel.UUID { return q.cylinderID }
func (q GetCylinderScansQuery) Filter() audit.Filter    { return q.filter }
func (q GetCylinderScansQuery) Page() audit.PageRequest { return q.page }

// ScanItem is one stored scan.
type ScanItem struct {
	ID              kernel.UUID
	CylinderID      kernel.UUID
	ScanType        string
	Result          string
	ActorID         kernel.UUID
	ActorRole       string
	Location        kernel.GeoPoint
	Address         string
	Message         string
	Suspicious      bool
	SuspicionReason string
	Origin          audit.Origin
	ScannedAt       time.Time
}
