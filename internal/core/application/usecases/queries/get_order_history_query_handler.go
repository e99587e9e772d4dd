package queries

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderHistoryQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderHistoryQueryHandler(db *gorm.DB) GetOrderHistoryQueryHandler {
	return GetOrderHistoryQueryHandler{db: db}
}

func (h GetOrderHistoryQueryHandler) Handle(
	ctx context.Context,
	query GetOrderHistoryQuery,
) (audit.Page[OrderHistoryItem], error) {
	if err := query.Validate(); err != nil {
		return audit.Page[OrderHistoryItem]{}, err
	}
	if err := ensureOrderVisible(ctx, h.db, query.Actor(), query.OrderID()); err != nil {
		return audit.Page[OrderHistoryItem]{}, err
	}

	types, err := normalizeTypes(query.Filter().EventTypes, func(s string) (string, error) {
		e, parseErr := audit.ParseOrderEvent(s)
		return string(e), parseErr
	})
	if err != nil {
		return audit.Page[OrderHistoryItem]{}, err
	}

	base := h.db.WithContext(ctx).Table("order_history").Where("order_id = ?", query.OrderID().Bytes())
	q, total, err := window(base, "event_type", "recorded_at", types, query.Filter(), query.Page())
	if err != nil {
		return audit.Page[OrderHistoryItem]{}, err
	}

	var rows []struct {
		ID             uuid.UUID
		OrderID        uuid.UUID
		ActorID        uuid.UUID
		EventType      string
		PreviousStatus *string
		NewStatus      string
		Notes          string
		RecordedAt     time.Time
	}
	if err = q.Select("id, order_id, actor_id, event_type, previous_status, new_status, notes, recorded_at").
		Scan(&rows).Error; err != nil {
		return audit.Page[OrderHistoryItem]{}, err
	}

	items := make([]OrderHistoryItem, 0, len(rows))
	for _, r := range rows {
		item := OrderHistoryItem{
			Event:      r.EventType,
			NewStatus:  r.NewStatus,
			Notes:      r.Notes,
			RecordedAt: r.RecordedAt,
		}
		if r.PreviousStatus != nil {
			item.PreviousStatus = *r.PreviousStatus
		}
		if item.ID, err = kernel.UUIDFromBytes(r.ID[:]); err != nil {
			return audit.Page[OrderHistoryItem]{}, err
		}
		if item.OrderID, err = kernel.UUIDFromBytes(r.OrderID[:]); err != nil {
			return audit.Page[OrderHistoryItem]{}, err
		}
		if item.ActorID, err = kernel.UUIDFromBytes(r.ActorID[:]); err != nil {
			return audit.Page[OrderHistoryItem]{}, err
		}
		items = append(items, item)
	}

	page := query.Page()
	return audit.Page[OrderHistoryItem]{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, nil
}
