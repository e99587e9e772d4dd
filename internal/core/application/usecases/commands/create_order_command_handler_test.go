package commands_test

import (
	"errors"
	"testing"

	"dispatch/internal/core/application/usecases/commands"
	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	customer := newActor(t, access.Customer)
	cmd, err := commands.NewCreateOrderCommand(customer, customer.ID(), orderDetails(t, 25))
	require.NoError(t, err)

	r := newRepos(ctx)
	mock.InOrder(
		r.orders.On("Add", ctx, mock.MatchedBy(func(o *order.Order) bool {
			return o.ID().IsEqual(cmd.OrderID()) && o.Status() == order.Pending
		})).Return(nil).Once(),
		r.audit.On("AppendOrderHistory", ctx, mock.MatchedBy(func(e audit.OrderHistoryEntry) bool {
			return e.Event == audit.OrderCreated && e.NewStatus == order.Pending && e.ActorID.IsEqual(customer.ID())
		})).Return(nil).Once(),
		r.uow.On("Commit", ctx).Return(nil).Once(),
	)
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, order.DefaultPolicy())
	id, err := handler.Handle(ctx, cmd)

	require.NoError(t, err)
	assert.Equal(t, cmd.OrderID(), id)
	r.assertExpectations(t)
	factory.AssertExpectations(t)
}

func TestCreateOrderCommandHandler_Handle_NotConstructed(t *testing.T) {
	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, order.DefaultPolicy())

	_, err := handler.Handle(t.Context(), commands.CreateOrderCommand{})

	require.ErrorIs(t, err, commands.ErrCreateOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_CustomerForSomeoneElse(t *testing.T) {
	customer := newActor(t, access.Customer)
	other := newActor(t, access.Customer)
	cmd, err := commands.NewCreateOrderCommand(customer, other.ID(), orderDetails(t, 25))
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, order.DefaultPolicy())
	_, err = handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_DriverCannotOrder(t *testing.T) {
	driver := newActor(t, access.Driver)
	cmd, err := commands.NewCreateOrderCommand(driver, driver.ID(), orderDetails(t, 25))
	require.NoError(t, err)

	handler := commands.NewCreateOrderCommandHandler(new(MockOrderUoWFactory), order.DefaultPolicy())
	_, err = handler.Handle(t.Context(), cmd)

	require.ErrorIs(t, err, errs.ErrPermissionDenied)
}

func TestCreateOrderCommandHandler_Handle_QuantityOverPolicy(t *testing.T) {
	admin := newActor(t, access.Admin)
	customer := newActor(t, access.Customer)
	cmd, err := commands.NewCreateOrderCommand(admin, customer.ID(), orderDetails(t, 5000))
	require.NoError(t, err)

	factory := new(MockOrderUoWFactory)
	handler := commands.NewCreateOrderCommandHandler(factory, order.DefaultPolicy())
	_, err = handler.Handle(t.Context(), cmd)

	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	factory.AssertNotCalled(t, "Create")
}

func TestCreateOrderCommandHandler_Handle_AddError(t *testing.T) {
	ctx := t.Context()
	customer := newActor(t, access.Customer)
	cmd, err := commands.NewCreateOrderCommand(customer, customer.ID(), orderDetails(t, 25))
	require.NoError(t, err)

	r := newRepos(ctx)
	r.orders.On("Add", ctx, mock.Anything).Return(errors.New("insert failed")).Once()
	factory := new(MockOrderUoWFactory)
	factory.On("Create").Return(r.uow).Once()

	handler := commands.NewCreateOrderCommandHandler(factory, order.DefaultPolicy())
	_, err = handler.Handle(ctx, cmd)

	require.EqualError(t, err, "insert failed")
	r.uow.AssertNotCalled(t, "Commit", ctx)
	r.audit.AssertNotCalled(t, "AppendOrderHistory", mock.Anything, mock.Anything)
}
