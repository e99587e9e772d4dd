package queries

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/access"
	"dispatch/internal/core/domain/model/audit"
	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/guard"
)

var ErrGetOrderHistoryQueryIsNotConstructed = errors.New(
	"GetOrderHistoryQuery must be created via NewGetOrderHistoryQuery constructor",
)

// GetOrderHistoryQuery reads the audit trail of one order, newest first.
//
// Example:
//
//	query, err := NewGetOrderHistoryQuery(actor, orderID,
//	    audit.Filter{EventTypes: []string{"STATUS_CHANGE"}},
//	    audit.PageRequest{Limit: 50})
//	page, err := handler.Handle(ctx, query)
type GetOrderHistoryQuery struct {
	actor   access.Actor
	orderID kernel.UUID
	filter  audit.Filter
	page    audit.PageRequest

	guard guard.ConstructorGuard
}

func NewGetOrderHistoryQuery(
	actor access.Actor,
	orderID kernel.UUID,
	filter audit.Filter,
	page audit.PageRequest,
) (GetOrderHistoryQuery, error) {
	if err := errors.Join(actor.Validate(), orderID.Validate(), filter.Validate()); err != nil {
		return GetOrderHistoryQuery{}, err
	}
	return GetOrderHistoryQuery{
		actor:   actor,
		orderID: orderID,
		filter:  filter,
		page:    page.Normalize(),
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (q GetOrderHistoryQuery) Validate() error {
	return q.guard.Validate(ErrGetOrderHistoryQueryIsNotConstructed)
}

func (q GetOrderHistoryQuery) Actor() access.Actor     { return q.actor }
func (q GetOrderHistoryQuery) OrderID() kernel.UUID    { return q.orderID }
func (q GetOrderHistoryQuery) Filter() audit.Filter    { return q.filter }
func (q GetOrderHistoryQuery) Page() audit.PageRequest { return q.page }

// OrderHistoryItem is one order history entry as read back. PreviousStatus
// is empty for CREATED entries.
type OrderHistoryItem struct {
	ID             kernel.UUID
	OrderID        kernel.UUID
	ActorID        kernel.UUID
	Event          string
	PreviousStatus string
	NewStatus      string
	Notes          string
	RecordedAt     time.Time
}
