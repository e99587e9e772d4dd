package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// It provides transaction control and tracks aggregate changes so that their
// domain events can be published once the transaction commits.
// Client code must explicitly manage transaction lifecycle.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and then publishes the domain
	// events of every tracked aggregate.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and forgets tracked aggregates.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// The repositories below are bound to the transaction started by Begin().

	OrderRepository() OrderRepository
	DeliveryRepository() DeliveryRepository
	TrackingLogRepository() TrackingLogRepository
	DriverRepository() DriverRepository
	VehicleRepository() VehicleRepository
	CylinderRepository() CylinderRepository
	AuditRecorder() AuditRecorder
}
