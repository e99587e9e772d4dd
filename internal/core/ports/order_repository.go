package ports

import (
	"context"

	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a changed order. The write only succeeds when the stored
	// version still equals aggregate.Version(); otherwise it returns an
	// errs.ConflictError. Each aggregate is updated at most once per unit of work.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order without locking it.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// GetForUpdate retrieves an order and holds its row lock until the
	// surrounding transaction ends. All status transitions start here.
	GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// ListPendingIDs returns up to limit Pending orders, oldest first.
	ListPendingIDs(ctx context.Context, limit int) ([]kernel.UUID, error)
}

// DeliveryRepository stores the single delivery of each assigned order.
type DeliveryRepository interface {
	Add(ctx context.Context, aggregate *delivery.Delivery) error
	Update(ctx context.Context, aggregate *delivery.Delivery) error

	// GetByOrder returns the order's delivery or an errs.ObjectNotFoundError.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error)
}

// TrackingLogRepository appends position reports. There is no update or delete.
type TrackingLogRepository interface {
	Add(ctx context.Context, log delivery.TrackingLog) error
}
