package fulfillment

import (
	"context"

	es "github.com/terraskye/commerce/eventsourcing"
)

// CommandHandler orchestrates fulfillment commands: rehydrate the order from
// its stream, run exactly one aggregate method, flush the new events with an
// expected-version check.
type CommandHandler struct {
	store es.EventStore
}

func NewCommandHandler(store es.EventStore) *CommandHandler {
	return &CommandHandler{store: store}
}

func (h *CommandHandler) AcceptOrder(ctx context.Context, cmd AcceptOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.Accept(cmd.OrderLines)
	})
}

func (h *CommandHandler) RejectOrder(ctx context.Context, cmd RejectOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.Reject(cmd.OrderLines)
	})
}

func (h *CommandHandler) execute(ctx context.Context, orderID string, command func(*Order)) (es.AppendResult, error) {
	return es.Execute(ctx, h.store, func() *Order {
		return NewOrder(orderID)
	}, command)
}
