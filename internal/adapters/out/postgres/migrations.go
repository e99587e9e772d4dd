package postgres

import (
	"dispatch/internal/adapters/out/postgres/auditrepo"
	"dispatch/internal/adapters/out/postgres/cylinderrepo"
	"dispatch/internal/adapters/out/postgres/deliveryrepo"
	"dispatch/internal/adapters/out/postgres/fleetrepo"
	"dispatch/internal/adapters/out/postgres/orderrepo"

	"gorm.io/gorm"
)

// Models lists every table the service owns, in creation order.
func Models() []any {
	return []any{
		&orderrepo.OrderDTO{},
		&deliveryrepo.DeliveryDTO{},
		&deliveryrepo.TrackingLogDTO{},
		&fleetrepo.DriverDTO{},
		&fleetrepo.VehicleDTO{},
		&cylinderrepo.CylinderDTO{},
		&auditrepo.OrderHistoryDTO{},
		&auditrepo.CylinderHistoryDTO{},
		&auditrepo.ScanDTO{},
	}
}

// Migrate creates or extends the schema.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
