package fleetrepo

import (
	"context"

	"dispatch/internal/adapters/out/postgres/dberr"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormVehicleRepository implements ports.VehicleRepository using GORM.
type GormVehicleRepository struct {
	db *gorm.DB
}

func NewGormVehicleRepository(db *gorm.DB) *GormVehicleRepository {
	return &GormVehicleRepository{db: db}
}

func (r *GormVehicleRepository) Add(ctx context.Context, aggregate *fleet.Vehicle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := vehicleFromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Duplicate(err, "vehicle", aggregate.PlateNumber())
	}
	return nil
}

func (r *GormVehicleRepository) Update(ctx context.Context, aggregate *fleet.Vehicle) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := vehicleFromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&VehicleDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"model":           dto.Model,
			"current_load_kg": dto.CurrentLoadKg,
			"status":          dto.Status,
			"driver_id":       dto.DriverID,
			"latitude":        dto.Latitude,
			"longitude":       dto.Longitude,
			"version":         gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return staleOrMissing(ctx, r.db, &VehicleDTO{}, "vehicle", aggregate.ID())
	}
	return nil
}

func (r *GormVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*fleet.Vehicle, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto VehicleDTO
	if err := r.db.WithContext(ctx).First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberr.NotFound(err, "vehicle", id.String())
	}
	return vehicleToDomain(dto)
}

func (r *GormVehicleRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[string]*fleet.Vehicle, error) {
	out := make(map[string]*fleet.Vehicle, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	raw := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		raw = append(raw, id.Bytes())
	}

	var dtos []VehicleDTO
	if err := r.db.WithContext(ctx).Where("id IN ?", raw).Find(&dtos).Error; err != nil {
		return nil, err
	}

	for _, dto := range dtos {
		v, err := vehicleToDomain(dto)
		if err != nil {
			return nil, err
		}
		out[v.ID().String()] = v
	}
	return out, nil
}
