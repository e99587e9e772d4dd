package commands_test

import (
	"context"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/delivery"
	"dispatch/internal/core/domain/model/fleet"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) ListPendingIDs(ctx context.Context, limit int) ([]kernel.UUID, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]kernel.UUID), args.Error(1)
}

type MockDeliveryRepository struct{ mock.Mock }

func (m *MockDeliveryRepository) Add(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) Update(ctx context.Context, d *delivery.Delivery) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDeliveryRepository) GetByOrder(ctx context.Context, orderID kernel.UUID) (*delivery.Delivery, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*delivery.Delivery), args.Error(1)
}

type MockTrackingLogRepository struct{ mock.Mock }

func (m *MockTrackingLogRepository) Add(ctx context.Context, log delivery.TrackingLog) error {
	return m.Called(ctx, log).Error(0)
}

type MockDriverRepository struct{ mock.Mock }

func (m *MockDriverRepository) Add(ctx context.Context, d *fleet.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Update(ctx context.Context, d *fleet.Driver) error {
	return m.Called(ctx, d).Error(0)
}

func (m *MockDriverRepository) Get(ctx context.Context, id kernel.UUID) (*fleet.Driver, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Driver), args.Error(1)
}

func (m *MockDriverRepository) GetByUserID(ctx context.Context, userID kernel.UUID) (*fleet.Driver, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Driver), args.Error(1)
}

func (m *MockDriverRepository) ListDispatchable(ctx context.Context) ([]*fleet.Driver, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*fleet.Driver), args.Error(1)
}

type MockVehicleRepository struct{ mock.Mock }

func (m *MockVehicleRepository) Add(ctx context.Context, v *fleet.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVehicleRepository) Update(ctx context.Context, v *fleet.Vehicle) error {
	return m.Called(ctx, v).Error(0)
}

func (m *MockVehicleRepository) Get(ctx context.Context, id kernel.UUID) (*fleet.Vehicle, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fleet.Vehicle), args.Error(1)
}

func (m *MockVehicleRepository) GetMany(ctx context.Context, ids []kernel.UUID) (map[string]*fleet.Vehicle, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*fleet.Vehicle), args.Error(1)
}

type MockCylinderRepository struct{ mock.Mock }

func (m *MockCylinderRepository) Add(ctx context.Context, c *cylinder.Cylinder) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCylinderRepository) Update(ctx context.Context, c *cylinder.Cylinder) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCylinderRepository) Get(ctx context.Context, id kernel.UUID) (*cylinder.Cylinder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cylinder.Cylinder), args.Error(1)
}

func (m *MockCylinderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*cylinder.Cylinder, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cylinder.Cylinder), args.Error(1)
}

func (m *MockCylinderRepository) FindByCodesForUpdate(ctx context.Context, lookup ports.CodeLookup) (*cylinder.Cylinder, error) {
	args := m.Called(ctx, lookup)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cylinder.Cylinder), args.Error(1)
}

type MockAuditRecorder struct{ mock.Mock }

func (m *MockAuditRecorder) AppendOrderHistory(ctx context.Context, entry audit.OrderHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRecorder) AppendCylinderHistory(ctx context.Context, entry audit.CylinderHistoryEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func (m *MockAuditRecorder) AppendScan(ctx context.Context, record audit.ScanRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockAuditRecorder) CountScansSince(ctx context.Context, cylinderID kernel.UUID, since time.Time) (int, error) {
	args := m.Called(ctx, cylinderID, since)
	return args.Int(0), args.Error(1)
}

func (m *MockAuditRecorder) LastScan(ctx context.Context, cylinderID kernel.UUID) (*audit.ScanRecord, error) {
	args := m.Called(ctx, cylinderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*audit.ScanRecord), args.Error(1)
}

// MockUoW satisfies every unit of work the handlers ask for.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *MockUoW) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *MockUoW) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	return m.Called().Get(0).(ports.OrderRepository)
}

func (m *MockUoW) DeliveryRepository() ports.DeliveryRepository {
	return m.Called().Get(0).(ports.DeliveryRepository)
}

func (m *MockUoW) TrackingLogRepository() ports.TrackingLogRepository {
	return m.Called().Get(0).(ports.TrackingLogRepository)
}

func (m *MockUoW) DriverRepository() ports.DriverRepository {
	return m.Called().Get(0).(ports.DriverRepository)
}

func (m *MockUoW) VehicleRepository() ports.VehicleRepository {
	return m.Called().Get(0).(ports.VehicleRepository)
}

func (m *MockUoW) CylinderRepository() ports.CylinderRepository {
	return m.Called().Get(0).(ports.CylinderRepository)
}

func (m *MockUoW) AuditRecorder() ports.AuditRecorder {
	return m.Called().Get(0).(ports.AuditRecorder)
}

type MockOrderUoWFactory struct{ mock.Mock }

func (m *MockOrderUoWFactory) Create() commands.OrderUoW {
	return m.Called().Get(0).(commands.OrderUoW)
}

type MockDispatchUoWFactory struct{ mock.Mock }

func (m *MockDispatchUoWFactory) Create() commands.DispatchUoW {
	return m.Called().Get(0).(commands.DispatchUoW)
}

type MockFleetUoWFactory struct{ mock.Mock }

func (m *MockFleetUoWFactory) Create() commands.FleetUoW {
	return m.Called().Get(0).(commands.FleetUoW)
}

type MockTrackingUoWFactory struct{ mock.Mock }

func (m *MockTrackingUoWFactory) Create() commands.TrackingUoW {
	return m.Called().Get(0).(commands.TrackingUoW)
}

type MockCylinderUoWFactory struct{ mock.Mock }

func (m *MockCylinderUoWFactory) Create() commands.CylinderUoW {
	return m.Called().Get(0).(commands.CylinderUoW)
}

// repos bundles one mock of every repository behind a MockUoW.
type repos struct {
	uow       *MockUoW
	orders    *MockOrderRepository
	delivery  *MockDeliveryRepository
	tracking  *MockTrackingLogRepository
	drivers   *MockDriverRepository
	vehicles  *MockVehicleRepository
	cylinders *MockCylinderRepository
	audit     *MockAuditRecorder
}

// newRepos wires a MockUoW whose repository accessors may be called any
// number of times. Begin and Rollback are always expected; Commit is left
// to each test.
func newRepos(ctx context.Context) *repos {
	r := &repos{
		uow:       new(MockUoW),
		orders:    new(MockOrderRepository),
		delivery:  new(MockDeliveryRepository),
		tracking:  new(MockTrackingLogRepository),
		drivers:   new(MockDriverRepository),
		vehicles:  new(MockVehicleRepository),
		cylinders: new(MockCylinderRepository),
		audit:     new(MockAuditRecorder),
	}
	r.uow.On("OrderRepository").Return(r.orders).Maybe()
	r.uow.On("DeliveryRepository").Return(r.delivery).Maybe()
	r.uow.On("TrackingLogRepository").Return(r.tracking).Maybe()
	r.uow.On("DriverRepository").Return(r.drivers).Maybe()
	r.uow.On("VehicleRepository").Return(r.vehicles).Maybe()
	r.uow.On("CylinderRepository").Return(r.cylinders).Maybe()
	r.uow.On("AuditRecorder").Return(r.audit).Maybe()
	r.uow.On("Begin", ctx).Return(nil)
	r.uow.On("Rollback", ctx).Return(nil)
	return r
}

func (r *repos) assertExpectations(t *testing.T) {
	t.Helper()
	r.uow.AssertExpectations(t)
	r.orders.AssertExpectations(t)
	r.delivery.AssertExpectations(t)
	r.tracking.AssertExpectations(t)
	r.drivers.AssertExpectations(t)
	r.vehicles.AssertExpectations(t)
	r.cylinders.AssertExpectations(t)
	r.audit.AssertExpectations(t)
}

func newActor(t *testing.T, role access.Role) access.Actor {
	t.Helper()
	a, err := access.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

func point(t *testing.T, lat, lon float64) kernel.GeoPoint {
	t.Helper()
	p, err := kernel.NewGeoPoint(lat, lon)
	require.NoError(t, err)
	return p
}

func orderDetails(t *testing.T, quantityKg float64) order.Details {
	t.Helper()
	return order.Details{
		DeliveryAddress: "Westlands, Waiyaki Way",
		PickupAddress:   "Industrial Area depot",
		PickupLocation:  point(t, -1.2921, 36.8219),
		QuantityKg:      quantityKg,
		ScheduledAt:     time.Now().Add(48 * time.Hour),
	}
}

func pendingOrder(t *testing.T, customerID kernel.UUID, quantityKg float64) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customerID, orderDetails(t, quantityKg), time.Now(), order.DefaultPolicy())
	require.NoError(t, err)
	return o
}

// onlineDriver builds an ONLINE driver at location paired with an empty vehicle.
func onlineDriver(t *testing.T, userID kernel.UUID, location kernel.GeoPoint, capacityKg float64) (*fleet.Driver, *fleet.Vehicle) {
	t.Helper()
	d, err := fleet.NewDriver(kernel.NewUUID(), userID, "Driver", "DL-1")
	require.NoError(t, err)
	require.NoError(t, d.ChangeStatus(fleet.Online))
	require.NoError(t, d.ReportLocation(location, time.Now()))
	v, err := fleet.NewVehicle(kernel.NewUUID(), "KDA 001A", "Isuzu", capacityKg)
	require.NoError(t, err)
	require.NoError(t, d.PairVehicle(v.ID()))
	require.NoError(t, v.PairDriver(d.ID()))
	return d, v
}

func registration(serial string) cylinder.Registration {
	made := time.Now().AddDate(-1, 0, 0)
	return cylinder.Registration{
		SerialNumber:   serial,
		Kind:           cylinder.Kind13Kg,
		CapacityKg:     13,
		Manufacturer:   "Total Gas",
		ManufacturedOn: made,
		ExpiresOn:      made.AddDate(10, 0, 0),
	}
}

func activeCylinder(t *testing.T) *cylinder.Cylinder {
	t.Helper()
	codes, err := cylinder.NewCodeGenerator(nil).Generate()
	require.NoError(t, err)
	c, err := cylinder.RegisterCylinder(kernel.NewUUID(), registration("SN-00001"), codes, time.Now())
	require.NoError(t, err)
	return c
}
