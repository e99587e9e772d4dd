package fleetrepo

import (
	"context"

	"dispatch/internal/adapters/out/postgres/dberr"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDriverRepository implements ports.DriverRepository using GORM.
type GormDriverRepository struct {
	db *gorm.DB
}

func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

func (r *GormDriverRepository) Add(ctx context.Context, aggregate *fleet.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := driverFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Duplicate(err, "driver", aggregate.LicenseNumber())
	}
	return nil
}

// Update is a version check-and-set. Two assignments racing for the same
// driver both load version N; only the first write matches.
func (r *GormDriverRepository) Update(ctx context.Context, aggregate *fleet.Driver) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := driverFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&DriverDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":              dto.Status,
			"available":           dto.Available,
			"vehicle_id":          dto.VehicleID,
			"latitude":            dto.Latitude,
			"longitude":           dto.Longitude,
			"location_updated_at": dto.LocationUpdatedAt,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(ctx, r.db, &DriverDTO{}, "driver", aggregate.ID())
	}
	return nil
}

func (r *GormDriverRepository) Get(ctx context.Context, id kernel.UUID) (*fleet.Driver, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberr.NotFound(err, "driver", id.String())
	}
	return driverToDomain(dto)
}

func (r *GormDriverRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*fleet.Driver, error) {
	if err := userID.Validate(); err != nil {
		return nil, err
	}

	var dto DriverDTO
	if err := r.db.WithContext(ctx).First(&dto, "user_id = ?", userID.Bytes()).Error; err != nil {
		return nil, dberr.NotFound(err, "driver for user", userID.String())
	}
	return driverToDomain(dto)
}

// ListDispatchable returns drivers ordered by id so that ties in distance
// resolve the same way on every call.
func (r *GormDriverRepository) ListDispatchable(ctx context.Context) ([]*fleet.Driver, error) {
	var dtos []DriverDTO
	if err := r.db.WithContext(ctx).
		Where("status = ? AND available = ?", fleet.Online.String(), true).
		Where("vehicle_id IS NOT NULL AND latitude IS NOT NULL AND longitude IS NOT NULL").
		Order("id ASC").
		Find(&dtos).Error; err != nil {
		return nil, err
	}

	drivers := make([]*fleet.Driver, 0, len(dtos))
	for _, dto := range dtos {
		d, err := driverToDomain(dto)
		if err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, nil
}

func staleOrMissing(ctx context.Context, db *gorm.DB, model any, entity string, id kernel.UUID) error {
	var count int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id.Bytes()).Count(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return errs.NewObjectNotFoundError(entity, id.String())
	}
	return errs.NewConflictError(entity, id.String())
}
