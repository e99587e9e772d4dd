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

type GetCylinderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetCylinderHistoryQueryHandler(db *gorm.DB) GetCylinderHistoryQueryHandler {
	return GetCylinderHistoryQueryHandler{db: db}
}

func (h GetCylinderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetCylinderHistoryQuery,
) (audit.Page[CylinderHistoryItem], error) {
	if err := query.Validate(); err != nil {
		return audit.Page[CylinderHistoryItem]{}, err
	}
	if err := ensureCylinderVisible(ctx, h.db, query.Actor(), query.CylinderID()); err != nil {
		return audit.Page[CylinderHistoryItem]{}, err
	}

	types, err := normalizeTypes(query.Filter().EventTypes, func(s string) (string, error) {
		e, parseErr := audit.ParseCylinderEvent(s)
		return string(e), parseErr
	})
	if err != nil {
		return audit.Page[CylinderHistoryItem]{}, err
	}

	base := h.db.WithContext(ctx).Table("cylinder_history").Where("cylinder_id = ?", query.CylinderID().Bytes())
	q, total, err := window(base, "event_type", "recorded_at", types, query.Filter(), query.Page())
	if err != nil {
		return audit.Page[CylinderHistoryItem]{}, err
	}

	var rows []struct {
		ID             uuid.UUID
		CylinderID     uuid.UUID
		ActorID        uuid.UUID
		EventType      string
		PreviousStatus *string
		NewStatus      *string
		Latitude       *float64
		Longitude      *float64
		Notes          string
		Verification   datatypes.JSON
		CustomerID     *uuid.UUID
		OrderID        *uuid.UUID
		RecordedAt     time.Time
	}
	if err = q.Select("id, cylinder_id, actor_id, event_type, previous_status, new_status, latitude, longitude, " +
		"notes, verification, customer_id, order_id, recorded_at").Scan(&rows).Error; err != nil {
		return audit.Page[CylinderHistoryItem]{}, err
	}

	items := make([]CylinderHistoryItem, 0, len(rows))
	for _, r := range rows {
		item := CylinderHistoryItem{
			Event:      r.EventType,
			Notes:      r.Notes,
			RecordedAt: r.RecordedAt,
		}
		if r.PreviousStatus != nil {
			item.PreviousStatus = *r.PreviousStatus
		}
		if r.NewStatus != nil {
			item.NewStatus = *r.NewStatus
		}
		if item.ID, err = kernel.UUIDFromBytes(r.ID[:]); err != nil {
			return audit.Page[CylinderHistoryItem]{}, err
		}
		if item.CylinderID, err = kernel.UUIDFromBytes(r.CylinderID[:]); err != nil {
			return audit.Page[CylinderHistoryItem]{}, err
		}
		if item.ActorID, err = kernel.UUIDFromBytes(r.ActorID[:]); err != nil {
			return audit.Page[CylinderHistoryItem]{}, err
		}
		if item.CustomerID, err = kernel.OptionalUUIDFromBytes(r.CustomerID); err != nil {
			return audit.Page[CylinderHistoryItem]{}, err
		}
		if item.OrderID, err = kernel.OptionalUUIDFromBytes(r.OrderID); err != nil {
			return audit.Page[CylinderHistoryItem]{}, err
		}
		if r.Latitude != nil && r.Longitude != nil {
			loc, locErr := kernel.NewGeoPoint(*r.Latitude, *r.Longitude)
			if locErr != nil {
				return audit.Page[CylinderHistoryItem]{}, locErr
			}
			item.Location = &loc
		}
		if len(r.Verification) > 0 && string(r.Verification) != "null" {
			var v audit.Verification
			if err = json.Unmarshal(r.Verification, &v); err != nil {
				return audit.Page[CylinderHistoryItem]{}, err
			}
			item.Verification = &v
		}
		items = append(items, item)
	}

	page := query.Page()
	return audit.Page[CylinderHistoryItem]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
