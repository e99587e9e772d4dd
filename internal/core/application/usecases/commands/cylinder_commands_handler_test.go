package commands_test

import (
	"errors"
	"testing"
	"time"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/cylinder"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fixedCodes struct {
	codes cylinder.Codes
	err   error
}

func (f fixedCodes) Generate() (cylinder.Codes, error) { return f.codes, f.err }

func testCodes() cylinder.Codes {
	return cylinder.Codes{
		IdentityCode: "CYL-00112233AABBCCDD",
		TagCode:      "TAG-44556677EEFF0011",
		SecretKey:    "5f1c0a9e3b7d4c2a8e6f1b0d9c7a5e3f2b1d0c9e8f7a6b5c4d3e2f1a0b9c8d7e",
	}
}

func TestRegisterCylinderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	dispatcher := newActor(t, access.Dispatcher)
	cmd, err := commands.NewRegisterCylinderCommand(dispatcher, registration("SN-77881"))
	require.NoError(t, err)

	r := newRepos(ctx)
	mock.InOrder(
		r.cylinders.On("Add", ctx, mock.MatchedBy(func(c *cylinder.Cylinder) bool {
			return c.Status() == cylinder.Active && c.VerifyDigest()
		})).Return(nil).Once(),
		r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
			return e.Event == audit.CylinderRegistered && e.NewStatus == cylinder.Active
		})).Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
	)
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	res, err := commands.NewRegisterCylinderCommandHandler(factory, fixedCodes{codes: testCodes()}).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, cmd.CylinderID(), res.CylinderID)
	assert.Equal(t, "CYL-00112233AABBCCDD", res.IdentityCode)
	assert.Equal(t, "TAG-44556677EEFF0011", res.TagCode)
	assert.Len(t, res.AuthToken, 64)
	r.assertExpectations(t)
}

func TestRegisterCylinderCommandHandler_Handle_DuplicateSerial(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewRegisterCylinderCommand(newActor(t, access.Admin), registration("SN-77881"))
	require.NoError(t, err)

	r := newRepos(ctx)
	r.cylinders.On("Add", ctx, mock.Anything).Return(errs.NewConflictError("cylinder", "SN-77881")).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	_, err = commands.NewRegisterCylinderCommandHandler(factory, fixedCodes{codes: testCodes()}).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrConflict)
	r.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestRegisterCylinderCommandHandler_Handle_Denied(t *testing.T) {
	cmd, err := commands.NewRegisterCylinderCommand(newActor(t, access.Customer), registration("SN-77881"))
	require.NoError(t, err)

	factory := new(MockCylinderUoWFactory)
	_, err = commands.NewRegisterCylinderCommandHandler(factory, fixedCodes{codes: testCodes()}).Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestRegisterCylinderCommandHandler_Handle_GeneratorFails(t *testing.T) {
	cmd, err := commands.NewRegisterCylinderCommand(newActor(t, access.Admin), registration("SN-77881"))
	require.NoError(t, err)

	factory := new(MockCylinderUoWFactory)
	_, err = commands.NewRegisterCylinderCommandHandler(factory, fixedCodes{err: errors.New("entropy")}).Handle(t.Context(), cmd)

	require.EqualError(t, err, "entropy")
}

func TestNewScanCylinderCommand_CodeRequiredForScanType(t *testing.T) {
	actor := newActor(t, access.Customer)
	loc := point(t, -1.29, 36.82)

	_, err := commands.NewScanCylinderCommand(actor, audit.ScanIdentityCode, "", "TAG-1", loc, "", audit.Origin{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	_, err = commands.NewScanCylinderCommand(actor, audit.ScanManual, " ", "", loc, "", audit.Origin{})
	require.ErrorIs(t, err, errs.ErrValueIsRequired)

	cmd, err := commands.NewScanCylinderCommand(actor, audit.ScanTagCode, "cyl-1", " tag-9 ", loc, "", audit.Origin{})
	require.NoError(t, err)
	assert.Equal(t, ports.CodeLookup{TagCode: "TAG-9"}, cmd.Lookup())
}

func scanHandler(factory commands.CylinderUoWFactory) commands.ScanCylinderCommandHandler {
	verifier := services.NewScanVerifier(services.NewTamperDetector(services.DefaultTamperPolicy()))
	return commands.NewScanCylinderCommandHandler(factory, verifier, 2)
}

func TestScanCylinderCommandHandler_Handle_NotFound(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewScanCylinderCommand(newActor(t, access.Customer), audit.ScanIdentityCode,
		"CYL-DOESNOTEXIST", "", point(t, -1.29, 36.82), "", audit.Origin{})
	require.NoError(t, err)

	r := newRepos(ctx)
	r.cylinders.On("FindByCodesForUpdate", ctx, cmd.Lookup()).
		Return(nil, errs.NewObjectNotFoundError("cylinder", "CYL-DOESNOTEXIST")).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	out, err := scanHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, audit.ScanFailed, out.Result)
	assert.False(t, out.Verified)
	assert.Equal(t, services.MessageNotFound, out.Message)
	assert.Nil(t, out.CylinderID)
	r.audit.AssertNotCalled(t, "AppendScan", mock.Anything, mock.Anything)
	r.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestScanCylinderCommandHandler_Handle_Verified(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)
	scanner := newActor(t, access.Driver)
	loc := point(t, -1.29, 36.82)
	cmd, err := commands.NewScanCylinderCommand(scanner, audit.ScanIdentityCode, c.IdentityCode(), "", loc,
		"Kilimani depot", audit.Origin{NetworkAddress: "10.0.0.8", Client: "scanner/1.2"})
	require.NoError(t, err)

	r := newRepos(ctx)
	mock.InOrder(
		r.cylinders.On("FindByCodesForUpdate", ctx, cmd.Lookup()).Return(c, nil).Once(),
		r.audit.On("CountScansSince", ctx, c.ID(), mock.AnythingOfType("time.Time")).Return(0, nil).Once(),
		r.audit.On("LastScan", ctx, c.ID()).Return(nil, nil).Once(),
		r.cylinders.On("Update", ctx, c).Return(nil).Once(),
		r.audit.On("AppendScan", ctx, mock.MatchedBy(func(s audit.ScanRecord) bool {
			return s.Result == audit.ScanSuccess && s.ActorRole == access.Driver &&
				s.Origin.Client == "scanner/1.2" && s.Address == "Kilimani depot" && s.Validate() == nil
		})).Return(nil).Once(),
		r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
			return e.Event == audit.CylinderScanned && e.Verification != nil &&
				e.Verification.ScanResult == audit.ScanSuccess && !e.Verification.IsSuspicious
		})).Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
	)
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	out, err := scanHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, audit.ScanSuccess, out.Result)
	assert.True(t, out.Verified)
	assert.Equal(t, c.ID(), *out.CylinderID)
	assert.Equal(t, 1, c.TotalScans())
	assert.Empty(t, c.DomainEvents())
	r.assertExpectations(t)
}

func TestScanCylinderCommandHandler_Handle_Suspicious(t *testing.T) {
	tests := []struct {
		name       string
		recent     int
		previous   *audit.ScanRecord
		wantReason string
	}{
		{
			name:       "sixth scan inside the window",
			recent:     5,
			wantReason: services.RapidScanReason,
		},
		{
			name:   "mombasa one minute ago",
			recent: 1,
			previous: &audit.ScanRecord{
				ScannedAt: time.Now().UTC().Add(-time.Minute),
			},
			wantReason: services.ImpossibleTravelReason,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			c := activeCylinder(t)
			if tt.previous != nil {
				tt.previous.Location = point(t, -4.0435, 39.6682)
			}
			cmd, err := commands.NewScanCylinderCommand(newActor(t, access.Customer), audit.ScanTagCode, "", c.TagCode(),
				point(t, -1.2921, 36.8219), "", audit.Origin{})
			require.NoError(t, err)

			r := newRepos(ctx)
			r.cylinders.On("FindByCodesForUpdate", ctx, cmd.Lookup()).Return(c, nil).Once()
			r.audit.On("CountScansSince", ctx, c.ID(), mock.Anything).Return(tt.recent, nil).Once()
			if tt.previous != nil {
				r.audit.On("LastScan", ctx, c.ID()).Return(tt.previous, nil).Once()
			} else {
				r.audit.On("LastScan", ctx, c.ID()).Return(nil, nil).Once()
			}
			r.cylinders.On("Update", ctx, c).Return(nil).Once()
			r.audit.On("AppendScan", ctx, mock.MatchedBy(func(s audit.ScanRecord) bool {
				return s.Suspicious && s.SuspicionReason == tt.wantReason
			})).Return(nil).Once()
			r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
				return e.Verification != nil && e.Verification.IsSuspicious
			})).Return(nil).Once()
			r.uow.On("Commit", ctx).Return(nil).Once()
			factory := new(MockCylinderUoWFactory)
			factory.On("Create").Return(r.uow).Once()

			out, err := scanHandler(factory).Handle(ctx, cmd)

			require.NoError(t, err)
			assert.Equal(t, audit.ScanSuspicious, out.Result)
			assert.True(t, out.Verified)
			assert.Equal(t, []string{tt.wantReason}, out.Reasons)
			assert.Contains(t, out.Message, tt.wantReason)
			require.Len(t, c.DomainEvents(), 1)
			assert.Equal(t, cylinder.ScanFlaggedEventName, c.DomainEvents()[0].EventName())
			r.assertExpectations(t)
		})
	}
}

func TestScanCylinderCommandHandler_Handle_Tampered(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)
	require.NoError(t, c.FlagTamper("Valve seal broken", time.Now()))
	cmd, err := commands.NewScanCylinderCommand(newActor(t, access.Dispatcher), audit.ScanManual, c.IdentityCode(), c.TagCode(),
		point(t, -1.29, 36.82), "", audit.Origin{})
	require.NoError(t, err)

	r := newRepos(ctx)
	r.cylinders.On("FindByCodesForUpdate", ctx, ports.CodeLookup{IdentityCode: c.IdentityCode(), TagCode: c.TagCode()}).Return(c, nil).Once()
	r.audit.On("CountScansSince", ctx, c.ID(), mock.Anything).Return(0, nil).Once()
	r.audit.On("LastScan", ctx, c.ID()).Return(nil, nil).Once()
	r.cylinders.On("Update", ctx, c).Return(nil).Once()
	r.audit.On("AppendScan", ctx, mock.MatchedBy(func(s audit.ScanRecord) bool {
		return s.Result == audit.ScanTampered
	})).Return(nil).Once()
	r.audit.On("AppendCylinderHistory", ctx, mock.Anything).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	out, err := scanHandler(factory).Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, audit.ScanTampered, out.Result)
	assert.False(t, out.Verified)
	assert.Equal(t, 1, c.TotalScans())
	r.assertExpectations(t)
}

func TestUpdateCylinderStatusCommandHandler_Handle(t *testing.T) {
	t.Run("fill increments counter", func(t *testing.T) {
		ctx := t.Context()
		c := activeCylinder(t)
		loc := point(t, -1.29, 36.82)

		r := newRepos(ctx)
		r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
		r.cylinders.On("Update", ctx, c).Return(nil).Once()
		r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
			return e.Event == audit.CylinderStatusChange &&
				e.PreviousStatus == cylinder.Active && e.NewStatus == cylinder.Filled &&
				e.Location != nil && e.Notes == "Filled at Kisumu plant"
		})).Return(nil).Once()
		r.uow.On("Commit", ctx).Return(nil).Once()
		factory := new(MockCylinderUoWFactory)
		factory.On("Create").Return(r.uow).Once()

		cmd, err := commands.NewUpdateCylinderStatusCommand(newActor(t, access.Dispatcher), c.ID(), cylinder.Filled, &loc, " Filled at Kisumu plant ")
		require.NoError(t, err)

		require.NoError(t, commands.NewUpdateCylinderStatusCommandHandler(factory).Handle(ctx, cmd))
		assert.Equal(t, 1, c.TotalFills())
		assert.True(t, c.LastKnownLocation().IsEqual(loc))
		r.assertExpectations(t)
	})

	t.Run("invalid transition", func(t *testing.T) {
		ctx := t.Context()
		c := activeCylinder(t)

		r := newRepos(ctx)
		r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
		factory := new(MockCylinderUoWFactory)
		factory.On("Create").Return(r.uow).Once()

		cmd, err := commands.NewUpdateCylinderStatusCommand(newActor(t, access.Admin), c.ID(), cylinder.Empty, nil, "")
		require.NoError(t, err)

		err = commands.NewUpdateCylinderStatusCommandHandler(factory).Handle(ctx, cmd)
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, cylinder.Active, c.Status())
		r.cylinders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	})

	t.Run("driver denied", func(t *testing.T) {
		cmd, err := commands.NewUpdateCylinderStatusCommand(newActor(t, access.Driver), kernel.NewUUID(), cylinder.Filled, nil, "")
		require.NoError(t, err)

		factory := new(MockCylinderUoWFactory)
		err = commands.NewUpdateCylinderStatusCommandHandler(factory).Handle(t.Context(), cmd)
		require.ErrorIs(t, err, errs.ErrPermissionDenied)
	})
}

func TestFlagCylinderTamperCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)

	r := newRepos(ctx)
	r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
	r.cylinders.On("Update", ctx, c).Return(nil).Once()
	r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
		return e.Event == audit.CylinderTamperDetected && e.Notes == "Tag peeled off"
	})).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewFlagCylinderTamperCommand(newActor(t, access.Dispatcher), c.ID(), "Tag peeled off")
	require.NoError(t, err)

	require.NoError(t, commands.NewFlagCylinderTamperCommandHandler(factory).Handle(ctx, cmd))
	assert.True(t, c.IsTampered())
	r.assertExpectations(t)
}

func TestAssignCylinderCommandHandler_Handle_OrderWinsOverCustomer(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)
	_, err := c.ChangeStatus(cylinder.Filled, time.Now())
	require.NoError(t, err)
	orderCustomer := kernel.NewUUID()
	o := pendingOrder(t, orderCustomer, 13)
	orderID, otherCustomer := o.ID(), kernel.NewUUID()

	r := newRepos(ctx)
	r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
	r.orders.On("Get", ctx, orderID).Return(o, nil).Once()
	r.cylinders.On("Update", ctx, c).Return(nil).Once()
	r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
		return e.Event == audit.CylinderCustomerAssigned &&
			e.PreviousStatus == cylinder.Filled && e.NewStatus == cylinder.InDelivery &&
			e.CustomerID != nil && e.CustomerID.IsEqual(orderCustomer) &&
			e.OrderID != nil && e.OrderID.IsEqual(orderID)
	})).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewAssignCylinderCommand(newActor(t, access.Dispatcher), c.ID(), &orderID, &otherCustomer)
	require.NoError(t, err)

	require.NoError(t, commands.NewAssignCylinderCommandHandler(factory).Handle(ctx, cmd))
	assert.Equal(t, cylinder.InDelivery, c.Status())
	assert.True(t, c.IsHeldBy(orderCustomer))
	r.assertExpectations(t)
}

func TestAssignCylinderCommandHandler_Handle_ActiveCannotGoOut(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)
	o := pendingOrder(t, kernel.NewUUID(), 13)
	orderID := o.ID()

	r := newRepos(ctx)
	r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
	r.orders.On("Get", ctx, orderID).Return(o, nil).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewAssignCylinderCommand(newActor(t, access.Admin), c.ID(), &orderID, nil)
	require.NoError(t, err)

	err = commands.NewAssignCylinderCommandHandler(factory).Handle(ctx, cmd)
	require.ErrorIs(t, err, errs.ErrInvalidTransition)
	assert.Nil(t, c.CurrentOrderID())
}

func TestAssignAndUnassignCylinder_CustomerOnly(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)
	customerID := kernel.NewUUID()
	dispatcher := newActor(t, access.Dispatcher)

	r := newRepos(ctx)
	r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Twice()
	r.cylinders.On("Update", ctx, c).Return(nil).Twice()
	r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
		return e.Event == audit.CylinderCustomerAssigned && e.OrderID == nil
	})).Return(nil).Once()
	r.audit.On("AppendCylinderHistory", ctx, mock.MatchedBy(func(e audit.CylinderHistoryEntry) bool {
		return e.Event == audit.CylinderCustomerUnassigned && e.CustomerID != nil && e.CustomerID.IsEqual(customerID)
	})).Return(nil).Once()
	r.uow.On("Commit", ctx).Return(nil).Twice()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Twice()

	assign, err := commands.NewAssignCylinderCommand(dispatcher, c.ID(), nil, &customerID)
	require.NoError(t, err)
	require.NoError(t, commands.NewAssignCylinderCommandHandler(factory).Handle(ctx, assign))
	assert.True(t, c.IsHeldBy(customerID))
	assert.Equal(t, cylinder.Active, c.Status())

	unassign, err := commands.NewUnassignCylinderCommand(dispatcher, c.ID(), "Returned to depot")
	require.NoError(t, err)
	require.NoError(t, commands.NewUnassignCylinderCommandHandler(factory).Handle(ctx, unassign))
	assert.Nil(t, c.CurrentCustomerID())
	r.assertExpectations(t)
}

func TestUnassignCylinderCommandHandler_Handle_NotAssigned(t *testing.T) {
	ctx := t.Context()
	c := activeCylinder(t)

	r := newRepos(ctx)
	r.cylinders.On("GetForUpdate", ctx, c.ID()).Return(c, nil).Once()
	factory := new(MockCylinderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	cmd, err := commands.NewUnassignCylinderCommand(newActor(t, access.Admin), c.ID(), "")
	require.NoError(t, err)

	err = commands.NewUnassignCylinderCommandHandler(factory).Handle(ctx, cmd)
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
}
