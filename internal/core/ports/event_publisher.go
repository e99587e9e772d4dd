package ports

import (
	"context"

	"dispatch/internal/core/domain/model/kernel"
)

// EventPublisher delivers domain events to the message broker. It is called
// after the transaction that produced the events has committed.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}
