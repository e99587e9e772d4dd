package cmd

import (
	"log/slog"

	httpin "dispatch/internal/adapters/in/http"
	"dispatch/internal/adapters/out/kafka"
	"dispatch/internal/adapters/out/postgres"
	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/application/usecases/queries"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	logger     *slog.Logger
	publisher  *kafka.Publisher
	uowFactory *postgres.GormUnitOfWorkFactory
}

// NewCompositionRoot wires adapters for cfg. Without brokers, committed
// events are dropped.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{config: cfg, gormDB: gormDB, logger: logger}

	var publisher ports.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		p, err := kafka.NewPublisher(kafka.Config{
			Brokers:       cfg.KafkaBrokers,
			ClientID:      cfg.KafkaClientID,
			OrderTopic:    cfg.KafkaOrderTopic,
			CylinderTopic: cfg.KafkaCylinderTopic,
			MaxAttempts:   3,
		}, logger)
		if err != nil {
			return nil, err
		}
		root.publisher = p
		publisher = p
	} else {
		logger.Warn("KAFKA_BROKERS not set, domain events will not be published")
	}

	root.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, publisher, logger)
	return root, nil
}

// Close releases the broker connection.
func (c *CompositionRoot) Close() error {
	if c.publisher == nil {
		return nil
	}
	return c.publisher.Close()
}

func (c *CompositionRoot) orderPolicy() order.Policy {
	return order.Policy{
		MaxQuantityKg:    c.config.MaxOrderQuantityKg,
		MaxScheduleAhead: c.config.MaxScheduleAhead,
	}
}

func (c *CompositionRoot) tamperPolicy() services.TamperPolicy {
	return services.TamperPolicy{
		RapidScanThreshold: c.config.ScanRapidThreshold,
		Window:             c.config.ScanWindow,
		MaxTravelKm:        c.config.ScanMaxTravelKm,
	}
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) fleetUoWFactory() commands.FleetUoWFactory {
	return FuncFleetUoWFactory(func() commands.FleetUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) trackingUoWFactory() commands.TrackingUoWFactory {
	return FuncTrackingUoWFactory(func() commands.TrackingUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) cylinderUoWFactory() commands.CylinderUoWFactory {
	return FuncCylinderUoWFactory(func() commands.CylinderUoW { return c.uowFactory.Create() })
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.orderPolicy())
}

func (c *CompositionRoot) CreateRequestAssignmentCommandHandler() commands.RequestAssignmentCommandHandler {
	return commands.NewRequestAssignmentCommandHandler(c.dispatchUoWFactory(), services.NewOrderDispatcher(),
		c.config.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return commands.NewUpdateOrderStatusCommandHandler(c.dispatchUoWFactory(), services.NewOrderLifecycle(),
		c.config.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateAddTrackingLogCommandHandler() commands.AddTrackingLogCommandHandler {
	return commands.NewAddTrackingLogCommandHandler(c.trackingUoWFactory(), c.config.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateRegisterDriverCommandHandler() commands.RegisterDriverCommandHandler {
	return commands.NewRegisterDriverCommandHandler(c.fleetUoWFactory())
}

func (c *CompositionRoot) CreateChangeDriverStatusCommandHandler() commands.ChangeDriverStatusCommandHandler {
	return commands.NewChangeDriverStatusCommandHandler(c.fleetUoWFactory())
}

func (c *CompositionRoot) CreateReportDriverLocationCommandHandler() commands.ReportDriverLocationCommandHandler {
	return commands.NewReportDriverLocationCommandHandler(c.fleetUoWFactory(), c.config.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreatePairDriverWithVehicleCommandHandler() commands.PairDriverWithVehicleCommandHandler {
	return commands.NewPairDriverWithVehicleCommandHandler(c.fleetUoWFactory())
}

func (c *CompositionRoot) CreateRegisterVehicleCommandHandler() commands.RegisterVehicleCommandHandler {
	return commands.NewRegisterVehicleCommandHandler(c.fleetUoWFactory())
}

func (c *CompositionRoot) CreateChangeVehicleStatusCommandHandler() commands.ChangeVehicleStatusCommandHandler {
	return commands.NewChangeVehicleStatusCommandHandler(c.fleetUoWFactory())
}

func (c *CompositionRoot) CreateRegisterCylinderCommandHandler() commands.RegisterCylinderCommandHandler {
	return commands.NewRegisterCylinderCommandHandler(c.cylinderUoWFactory(), cylinder.NewCodeGenerator(nil))
}

func (c *CompositionRoot) CreateScanCylinderCommandHandler() commands.ScanCylinderCommandHandler {
	verifier := services.NewScanVerifier(services.NewTamperDetector(c.tamperPolicy()))
	return commands.NewScanCylinderCommandHandler(c.cylinderUoWFactory(), verifier, c.config.AssignmentMaxAttempts)
}

func (c *CompositionRoot) CreateUpdateCylinderStatusCommandHandler() commands.UpdateCylinderStatusCommandHandler {
	return commands.NewUpdateCylinderStatusCommandHandler(c.cylinderUoWFactory())
}

func (c *CompositionRoot) CreateAssignCylinderCommandHandler() commands.AssignCylinderCommandHandler {
	return commands.NewAssignCylinderCommandHandler(c.cylinderUoWFactory())
}

func (c *CompositionRoot) CreateUnassignCylinderCommandHandler() commands.UnassignCylinderCommandHandler {
	return commands.NewUnassignCylinderCommandHandler(c.cylinderUoWFactory())
}

func (c *CompositionRoot) CreateFlagCylinderTamperCommandHandler() commands.FlagCylinderTamperCommandHandler {
	return commands.NewFlagCylinderTamperCommandHandler(c.cylinderUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderHistoryQueryHandler() queries.GetOrderHistoryQueryHandler {
	return queries.NewGetOrderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCylinderHistoryQueryHandler() queries.GetCylinderHistoryQueryHandler {
	return queries.NewGetCylinderHistoryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCylinderScansQueryHandler() queries.GetCylinderScansQueryHandler {
	return queries.NewGetCylinderScansQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every use case into the HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() (*httpin.Server, error) {
	auth, err := httpin.NewAuthenticator(c.config.JWTSecret)
	if err != nil {
		return nil, err
	}
	handlers := httpin.Handlers{
		CreateOrder:           c.CreateCreateOrderCommandHandler(),
		RequestAssignment:     c.CreateRequestAssignmentCommandHandler(),
		UpdateOrderStatus:     c.CreateUpdateOrderStatusCommandHandler(),
		AddTrackingLog:        c.CreateAddTrackingLogCommandHandler(),
		RegisterDriver:        c.CreateRegisterDriverCommandHandler(),
		ChangeDriverStatus:    c.CreateChangeDriverStatusCommandHandler(),
		ReportDriverLocation:  c.CreateReportDriverLocationCommandHandler(),
		PairDriverWithVehicle: c.CreatePairDriverWithVehicleCommandHandler(),
		RegisterVehicle:       c.CreateRegisterVehicleCommandHandler(),
		ChangeVehicleStatus:   c.CreateChangeVehicleStatusCommandHandler(),
		RegisterCylinder:      c.CreateRegisterCylinderCommandHandler(),
		ScanCylinder:          c.CreateScanCylinderCommandHandler(),
		UpdateCylinderStatus:  c.CreateUpdateCylinderStatusCommandHandler(),
		AssignCylinder:        c.CreateAssignCylinderCommandHandler(),
		UnassignCylinder:      c.CreateUnassignCylinderCommandHandler(),
		FlagCylinderTamper:    c.CreateFlagCylinderTamperCommandHandler(),
		OrderHistory:          c.CreateGetOrderHistoryQueryHandler(),
		CylinderHistory:       c.CreateGetCylinderHistoryQueryHandler(),
		CylinderScans:         c.CreateGetCylinderScansQueryHandler(),
	}
	return httpin.NewServer(handlers, auth, c.logger), nil
}

// CreateJobManager builds the scheduled jobs. The dispatch job acts as a
// dispatcher identified by DISPATCH_ACTOR_ID.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	actorID, err := kernel.UUIDFromString(c.config.DispatchActorID)
	if err != nil {
		return nil, err
	}
	actor, err := access.NewActor(actorID, access.Dispatcher)
	if err != nil {
		return nil, err
	}

	dispatchJob := jobs.NewOrderDispatchJob(
		c.uowFactory.Create().OrderRepository(),
		c.CreateRequestAssignmentCommandHandler(),
		actor,
		c.config.DispatchCron,
		c.config.DispatchBatch,
		c.logger,
	)
	return jobs.NewJobManager(dispatchJob), nil
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncFleetUoWFactory func() commands.FleetUoW

func (f FuncFleetUoWFactory) Create() commands.FleetUoW {
	return f()
}

type FuncTrackingUoWFactory func() commands.TrackingUoW

func (f FuncTrackingUoWFactory) Create() commands.TrackingUoW {
	return f()
}

type FuncCylinderUoWFactory func() commands.CylinderUoW

func (f FuncCylinderUoWFactory) Create() commands.CylinderUoW {
	return f()
}
