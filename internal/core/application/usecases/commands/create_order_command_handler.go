package commands

import (
	"context"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/order"
)

// CreateOrderCommandHandler creates Pending orders and writes their CREATED
// history entry in the same transaction.
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	policy     order.Policy
}

func NewCreateOrderCommandHandler(uowFactory OrderUoWFactory, policy order.Policy) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		policy:     policy,
	}
}

// Handle returns the id of the new order.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) (kernel.UUID, error) {
	if err := cmd.Validate(); err != nil {
		return kernel.UUID{}, err
	}

	actor := cmd.Actor()
	if err := actor.AuthorizeOwned(access.CreateOrder, actor.ID().IsEqual(cmd.CustomerID())); err != nil {
		return kernel.UUID{}, err
	}

	now := time.Now().UTC()
	o, err := order.NewOrder(cmd.OrderID(), cmd.CustomerID(), cmd.Details(), now, h.policy)
	if err != nil {
		return kernel.UUID{}, err
	}

	entry, err := audit.NewOrderHistoryEntry(o.ID(), actor.ID(), audit.OrderCreated,
		order.Unknown, o.Status(), "Order created", now)
	if err != nil {
		return kernel.UUID{}, err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return kernel.UUID{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.AuditRecorder().AppendOrderHistory(ctx, entry); err != nil {
		return kernel.UUID{}, err
	}

	if err = uow.Commit(ctx); err != nil {
		return kernel.UUID{}, err
	}

	return o.ID(), nil
}
