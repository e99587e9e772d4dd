package queries

import (
	"context"
	"encoding/json"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GetCylinderScansQueryHandler struct {
	db *gorm.DB
}

func NewGetCylinderScansQueryHandler(db *gorm.DB) GetCylinderScansQueryHandler {
	return GetCylinderScansQueryHandler{db: db}
}

func (h GetCylinderScansQueryHandler) Handle(
	ctx context.Context,
	query GetCylinderScansQuery,
) (audit.Page[ScanItem], error) {
	if err := query.Validate(); err != nil {
		return audit.Page[ScanItem]{}, err
	}
	if err := ensureCylinderVisible(ctx, h.db, query.Actor(), query.CylinderID()); err != nil {
		return audit.Page[ScanItem]{}, err
	}

	results, err := normalizeTypes(query.Filter().EventTypes, func(s string) (string, error) {
		r, parseErr := audit.ParseScanResult(s)
		return string(r), parseErr
	})
	if err != nil {
		return audit.Page[ScanItem]{}, err
	}

	base := h.db.WithContext(ctx).Table("cylinder_scans").Where("cylinder_id = ?", query.CylinderID().Bytes())
	q, total, err := window(base, "result", "scanned_at", results, query.Filter(), query.Page())
	if err != nil {
		return audit.Page[ScanItem]{}, err
	}

	var rows []struct {
		ID              uuid.UUID
		CylinderID      uuid.UUID
		ScanType        string
		Result          string
		ActorID         uuid.UUID
		ActorRole       string
		Latitude        float64
		Longitude       float64
		Address         string
		Message         string
		IsSuspicious    bool
		SuspicionReason string
		Origin          datatypes.JSON
		ScannedAt       time.Time
	}
	if err = q.Select("id, cylinder_id, scan_type, result, actor_id, actor_role, latitude, longitude, " +
		"address, message, is_suspicious, suspicion_reason, origin, scanned_at").Scan(&rows).Error; err != nil {
		return audit.Page[ScanItem]{}, err
	}

	items := make([]ScanItem, 0, len(rows))
	for _, r := range rows {
		item := ScanItem{
			ScanType:        r.ScanType,
			Result:          r.Result,
			ActorRole:       r.ActorRole,
			Address:         r.Address,
			Message:         r.Message,
			Suspicious:      r.IsSuspicious,
			SuspicionReason: r.SuspicionReason,
			ScannedAt:       r.ScannedAt,
		}
		if item.ID, err = kernel.UUIDFromBytes(r.ID[:]); err != nil {
			return audit.Page[ScanItem]{}, err
		}
		if item.CylinderID, err = kernel.UUIDFromBytes(r.CylinderID[:]); err != nil {
			return audit.Page[ScanItem]{}, err
		}
		if item.ActorID, err = kernel.UUIDFromBytes(r.ActorID[:]); err != nil {
			return audit.Page[ScanItem]{}, err
		}
		if item.Location, err = kernel.NewGeoPoint(r.Latitude, r.Longitude); err != nil {
			return audit.Page[ScanItem]{}, err
		}
		if len(r.Origin) > 0 {
			if err = json.Unmarshal(r.Origin, &item.Origin); err != nil {
				return audit.Page[ScanItem]{}, err
			}
		}
		items = append(items, item)
	}

	page := query.Page()
	return audit.Page[ScanItem]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
