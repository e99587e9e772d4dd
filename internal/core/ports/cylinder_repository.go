package ports

import (
	"context"

	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
)

// CodeLookup selects a cylinder by its printed codes. Empty fields are
// ignored; when both are set both must match.
type CodeLookup struct {
	IdentityCode string
	TagCode      string
}

// CylinderRepository persists cylinders. Add maps unique violations on
// serial number, identity code or tag code to errs.ConflictError.
type CylinderRepository interface {
	Add(ctx context.Context, aggregate *cylinder.Cylinder) error
	Update(ctx context.Context, aggregate *cylinder.Cylinder) error
	Get(ctx context.Context, id kernel.UUID) (*cylinder.Cylinder, error)

	// GetForUpdate locks the cylinder row for the rest of the transaction.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*cylinder.Cylinder, error)

	// FindByCodesForUpdate locks and returns the matching cylinder, or an
	// errs.ObjectNotFoundError.
	FindByCodesForUpdate(ctx context.Context, lookup CodeLookup) (*cylinder.Cylinder, error)
}
