package order

import (
	"time"

	"dispatch/internal/core/domain/model/kernel"
)

const StatusChangedEventName = "order.status_changed"

// StatusChangedEvent is raised on every successful status transition.
type StatusChangedEvent struct {
	OrderID    kernel.UUID
	CustomerID kernel.UUID
	From       Status
	To         Status
	At         time.Time
}

func (e StatusChangedEvent) EventName() string {
	return StatusChangedEventName
}

func (e StatusChangedEvent) AggregateID() kernel.UUID {
	return e.OrderID
}

func (e StatusChangedEvent) OccurredAt() time.Time {
	return e.At
}
