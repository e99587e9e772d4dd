package auditrepo

import (
	"context"
	"errors"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"

	"gorm.io/gorm"
)

// GormAuditRecorder implements ports.AuditRecorder using GORM.
type GormAuditRecorder struct {
	db *gorm.DB
}

func NewGormAuditRecorder(db *gorm.DB) *GormAuditRecorder {
	return &GormAuditRecorder{db: db}
}

func (r *GormAuditRecorder) AppendOrderHistory(ctx context.Context, entry audit.OrderHistoryEntry) error {
	dto := orderHistoryFromDomain(entry)
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAuditRecorder) AppendCylinderHistory(ctx context.Context, entry audit.CylinderHistoryEntry) error {
	dto, err := cylinderHistoryFromDomain(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAuditRecorder) AppendScan(ctx context.Context, record audit.ScanRecord) error {
	if err := record.Validate(); err != nil {
		return err
	}
	dto, err := scanFromDomain(record)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(&dto).Error
}

func (r *GormAuditRecorder) CountScansSince(ctx context.Context, cylinderID kernel.UUID, since time.Time) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&ScanDTO{}).
		Where("cylinder_id = ? AND scanned_at >= ?", cylinderID.Bytes(), since).
		Count(&count).Error
	return int(count), err
}

func (r *GormAuditRecorder) LastScan(ctx context.Context, cylinderID kernel.UUID) (*audit.ScanRecord, error) {
	var dto ScanDTO
	err := r.db.WithContext(ctx).
		Where("cylinder_id = ?", cylinderID.Bytes()).
		Order("scanned_at DESC, id DESC").
		Take(&dto).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil //nolint:nilnil // first scan of the cylinder
	}
	if err != nil {
		return nil, err
	}
	return scanToDomain(dto)
}
