// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, authorization,
// transaction management, and persistence.
package commands

import (
	"context"

	"dispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends on the narrowest combination it needs.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	DeliveryRepoFactory interface {
		DeliveryRepository() ports.DeliveryRepository
	}

	TrackingLogRepoFactory interface {
		TrackingLogRepository() ports.TrackingLogRepository
	}

	DriverRepoFactory interface {
		DriverRepository() ports.DriverRepository
	}

	VehicleRepoFactory interface {
		VehicleRepository() ports.VehicleRepository
	}

	CylinderRepoFactory interface {
		CylinderRepository() ports.CylinderRepository
	}

	AuditRecorderFactory interface {
		AuditRecorder() ports.AuditRecorder
	}

	// OrderUoW is used when a command only creates or reads orders.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
		AuditRecorderFactory
	}

	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// DispatchUoW spans an order, its delivery and the reserved driver and vehicle.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   o, err := uow.OrderRepository().GetForUpdate(ctx, orderID)
	//   // ... dispatch, then update order, delivery, driver and vehicle
	//
	//   err = uow.Commit(ctx)
	DispatchUoW interface {
		TxManager
		OrderRepoFactory
		DeliveryRepoFactory
		DriverRepoFactory
		VehicleRepoFactory
		AuditRecorderFactory
	}

	DispatchUoWFactory interface {
		Create() DispatchUoW
	}

	// FleetUoW manages drivers and vehicles.
	FleetUoW interface {
		TxManager
		DriverRepoFactory
		VehicleRepoFactory
	}

	FleetUoWFactory interface {
		Create() FleetUoW
	}

	// TrackingUoW appends position reports for a delivery.
	TrackingUoW interface {
		TxManager
		DeliveryRepoFactory
		DriverRepoFactory
		TrackingLogRepoFactory
	}

	TrackingUoWFactory interface {
		Create() TrackingUoW
	}

	// CylinderUoW manages cylinders, their audit trail and the orders they are assigned to.
	CylinderUoW interface {
		TxManager
		CylinderRepoFactory
		OrderRepoFactory
		AuditRecorderFactory
	}

	CylinderUoWFactory interface {
		Create() CylinderUoW
	}
)
