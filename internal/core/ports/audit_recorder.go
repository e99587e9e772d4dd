package ports

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
)

// AuditRecorder is the insert-only audit log. Nothing it writes is ever
// updated or deleted.
type AuditRecorder interface {
	AppendOrderHistory(ctx context.Context, entry audit.OrderHistoryEntry) error
	AppendCylinderHistory(ctx context.Context, entry audit.CylinderHistoryEntry) error
	AppendScan(ctx context.Context, record audit.ScanRecord) error

	// CountScansSince counts stored scans of the cylinder at or after since.
	CountScansSince(ctx context.Context, cylinderID kernel.UUID, since time.Time) (int, error)

	// LastScan returns the most recent stored scan, or nil when there is none.
	LastScan(ctx context.Context, cylinderID kernel.UUID) (*audit.ScanRecord, error)
}
