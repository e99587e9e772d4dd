package ports

import (
	"context"

	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
)

// DriverRepository persists drivers. Update is a version check-and-set: a
// driver reserved by a concurrent assignment makes it fail with errs.ConflictError.
type DriverRepository interface {
	Add(ctx context.Context, aggregate *fleet.Driver) error
	Update(ctx context.Context, aggregate *fleet.Driver) error
	Get(ctx context.Context, id kernel.UUID) (*fleet.Driver, error)
	GetByUserID(ctx context.Context, userID kernel.UUID) (*fleet.Driver, error)

	// ListDispatchable returns ONLINE, available drivers that have a location
	// and a paired vehicle.
	ListDispatchable(ctx context.Context) ([]*fleet.Driver, error)
}

// VehicleRepository persists vehicles with the same check-and-set Update as DriverRepository.
type VehicleRepository interface {
	Add(ctx context.Context, aggregate *fleet.Vehicle) error
	Update(ctx context.Context, aggregate *fleet.Vehicle) error
	Get(ctx context.Context, id kernel.UUID) (*fleet.Vehicle, error)

	// GetMany returns the vehicles that exist among ids, keyed by id string.
	GetMany(ctx context.Context, ids []kernel.UUID) (map[string]*fleet.Vehicle, error)
}
