package orders

import (
	"context"

	es "github.com/terraskye/commerce/eventsourcing"
)

// CommandHandler orchestrates order commands: rehydrate the order from its
// stream, run exactly one aggregate method, flush the new events with an
// expected-version check.
type CommandHandler struct {
	store es.EventStore
}

func NewCommandHandler(store es.EventStore) *CommandHandler {
	return &CommandHandler{store: store}
}

func (h *CommandHandler) PlaceOrder(ctx context.Context, cmd PlaceOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.Place(cmd.OrderLines)
	})
}

func (h *CommandHandler) ProvideShippingInfo(ctx context.Context, cmd ProvideShippingInfo) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.ProvideShippingInfo(ShippingInfo{
			ReceiverName:    cmd.ReceiverName,
			ShippingAddress: cmd.ShippingAddress,
		})
	})
}

func (h *CommandHandler) ProvideContactInfo(ctx context.Context, cmd ProvideContactInfo) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.ProvideContactInfo(ContactInfo{ContactPhoneNumber: cmd.ContactPhoneNumber})
	})
}

func (h *CommandHandler) SubmitOrder(ctx context.Context, cmd SubmitOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.Submit()
	})
}

func (h *CommandHandler) ShipOrder(ctx context.Context, cmd ShipOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.Ship()
	})
}

func (h *CommandHandler) CancelOrder(ctx context.Context, cmd CancelOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.OrderID, func(o *Order) {
		o.Cancel()
	})
}

func (h *CommandHandler) execute(ctx context.Context, orderID string, command func(*Order)) (es.AppendResult, error) {
	return es.Execute(ctx, h.store, func() *Order {
		return NewOrder(orderID)
	}, command)
}
