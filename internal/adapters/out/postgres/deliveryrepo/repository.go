package deliveryrepo

import (
	"context"
	"sync"

	"dispatch/internal/adapters/out/postgres/dberr"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormDeliveryRepository implements ports.DeliveryRepository. Deliveries carry
// no version in the domain, so the repository remembers the stored version of
// every delivery it loaded and checks it on Update.
type GormDeliveryRepository struct {
	db       *gorm.DB
	mu       sync.Mutex
	versions map[string]int
}

func NewGormDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{
		db:       db,
		versions: make(map[string]int),
	}
}

func (r *GormDeliveryRepository) Add(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate, 0)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		return dberr.Duplicate(err, "delivery for order", aggregate.OrderID().String())
	}
	r.remember(aggregate.ID(), 0)
	return nil
}

func (r *GormDeliveryRepository) Update(ctx context.Context, aggregate *delivery.Delivery) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	version, known := r.version(aggregate.ID())
	dto := fromDomain(aggregate, version)

	q := r.db.WithContext(ctx).Model(&DeliveryDTO{}).Where("id = ?", dto.ID)
	if known {
		q = q.Where("version = ?", version)
	}
	result := q.Updates(map[string]any{
		"status":         dto.Status,
		"started_at":     dto.StartedAt,
		"completed_at":   dto.CompletedAt,
		"failure_reason": dto.FailureReason,
		"version":        gorm.Expr("version + 1"),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		if known {
			return errs.NewConflictError("delivery", aggregate.ID().String())
		}
		return errs.NewObjectNotFoundError("delivery", aggregate.ID().String())
	}

	r.remember(aggregate.ID(), version+1)
	return nil
}

func (r *GormDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto DeliveryDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		return nil, dberr.NotFound(err, "delivery for order", orderID.String())
	}

	d, err := toDomain(dto)
	if err != nil {
		return nil, err
	}
	r.remember(d.ID(), dto.Version)
	return d, nil
}

func (r *GormDeliveryRepository) remember(id kernel.UUID, version int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.versions[id.String()] = version
}

func (r *GormDeliveryRepository) version(id kernel.UUID) (int, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	v, ok := r.versions[id.String()]
	return v, ok
}

// GormTrackingLogRepository implements ports.TrackingLogRepository.
type GormTrackingLogRepository struct {
	db *gorm.DB
}

func NewGormTrackingLogRepository(db *gorm.DB) *GormTrackingLogRepository {
	return &GormTrackingLogRepository{db: db}
}

func (r *GormTrackingLogRepository) Add(ctx context.Context, log delivery.TrackingLog) error {
	dto := trackingLogFromDomain(log)
	return r.db.WithContext(ctx).Create(&dto).Error
}
