package cylinderrepo

import (
	"context"

	"dispatch/internal/adapters/out/postgres/dberr"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

// GormCylinderRepository implements ports.CylinderRepository using GORM.
type GormCylinderRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

func NewGormCylinderRepository(db *gorm.DB, tracker aggregateTracker) *GormCylinderRepository {
	return &GormCylinderRepository{db: db, tracker: tracker}
}

func (r *GormCylinderRepository) Add(ctx context.Context, aggregate *cylinder.Cylinder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Duplicate(err, "cylinder", aggregate.SerialNumber())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

// Update writes every mutable column guarded by the loaded version.
// Registration fields, codes and digest are never rewritten.
func (r *GormCylinderRepository) Update(ctx context.Context, aggregate *cylinder.Cylinder) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&CylinderDTO{}).
		Where("id = ? AND version = ?", dto.ID, dto.Version).
		Updates(map[string]any{
			"status":              dto.Status,
			"last_inspected_on":   dto.LastInspectedOn,
			"current_customer_id": dto.CurrentCustomerID,
			"current_order_id":    dto.CurrentOrderID,
			"last_latitude":       dto.LastLatitude,
			"last_longitude":      dto.LastLongitude,
			"total_fills":         dto.TotalFills,
			"total_scans":         dto.TotalScans,
			"last_scanned_at":     dto.LastScannedAt,
			"last_scanned_by":     dto.LastScannedBy,
			"is_tampered":         dto.IsTampered,
			"tamper_notes":        dto.TamperNotes,
			"updated_at":          dto.UpdatedAt,
			"version":             gorm.Expr("version + 1"),
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&CylinderDTO{}).Where("id = ?", dto.ID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("cylinder", aggregate.ID().String())
		}
		return errs.NewConflictError("cylinder", aggregate.ID().String())
	}

	r.tracker.TrackAggregate(aggregate.ID(), aggregate)
	return nil
}

func (r *GormCylinderRepository) Get(ctx context.Context, id kernel.UUID) (*cylinder.Cylinder, error) {
	return r.byID(r.db.WithContext(ctx), id)
}

func (r *GormCylinderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*cylinder.Cylinder, error) {
	return r.byID(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

// FindByCodesForUpdate matches on every non-empty code. A lookup with no
// codes matches nothing.
func (r *GormCylinderRepository) FindByCodesForUpdate(
	ctx context.Context,
	lookup ports.CodeLookup,
) (*cylinder.Cylinder, error) {
	if lookup.IdentityCode == "" && lookup.TagCode == "" {
		return nil, errs.NewObjectNotFoundError("cylinder", "empty code")
	}

	q := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"})
	if lookup.IdentityCode != "" {
		q = q.Where("identity_code = ?", lookup.IdentityCode)
	}
	if lookup.TagCode != "" {
		q = q.Where("tag_code = ?", lookup.TagCode)
	}

	var dto CylinderDTO
	if err := q.First(&dto).Error; err != nil {
		return nil, dberr.NotFound(err, "cylinder", lookup.IdentityCode+lookup.TagCode)
	}
	return toDomain(dto)
}

func (r *GormCylinderRepository) byID(q *gorm.DB, id kernel.UUID) (*cylinder.Cylinder, error) {
	if err := id.Validate(); err != nil {
		return nil, err
	}

	var dto CylinderDTO
	if err := q.First(&dto, "id = ?", id.Bytes()).Error; err != nil {
		return nil, dberr.NotFound(err, "cylinder", id.String())
	}
	return toDomain(dto)
}
