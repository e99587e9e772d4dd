package cylinder

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const (
	StatusChangedEventName = "cylinder.status_changed"
	ScanFlaggedEventName   = "cylinder.scan_flagged"
)

type StatusChangedEvent struct {
	CylinderID kernel.UUID
	From       Status
	To         Status
	At         time.Time
}

func (e StatusChangedEvent) EventName() string        { return StatusChangedEventName }
func (e StatusChangedEvent) AggregateID() kernel.UUID { return e.CylinderID }
func (e StatusChangedEvent) OccurredAt() time.Time    { return e.At }

// ScanFlaggedEvent is raised when a scan ends with any result other than success.
type ScanFlaggedEvent struct {
	CylinderID kernel.UUID
	ScannedBy  kernel.UUID
	Result     string
	Message    string
	Location   kernel.GeoPoint
	At         time.Time
}

func (e ScanFlaggedEvent) EventName() string        { return ScanFlaggedEventName }
func (e ScanFlaggedEvent) AggregateID() kernel.UUID { return e.CylinderID }
func (e ScanFlaggedEvent) OccurredAt() time.Time    { return e.At }
