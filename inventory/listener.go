package inventory

import (
	"context"

	es "github.com/terraskye/commerce/eventsourcing"
	"github.com/terraskye/commerce/fulfillment"
)

// OnOrderAccepted translates fulfillment's OrderAccepted notification into
// internal stock commands: one DecreaseProductQuantity per accepted line.
// This is the integration boundary between the two contexts; stock and
// fulfillment never touch each other's aggregates directly.
func OnOrderAccepted(handler *ProductCommandHandler) es.EventHandler {
	return es.OnEvent(func(ctx context.Context, event fulfillment.OrderAccepted) error {
		for _, line := range event.OrderLines {
			_, err := handler.DecreaseProductQuantity(ctx, DecreaseProductQuantity{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
}

// SubscribeOnOrderAccepted registers the listener on the bus. The
// subscription lives until ctx is done.
func SubscribeOnOrderAccepted(ctx context.Context, bus es.EventBus, handler *ProductCommandHandler) error {
	group := es.NewEventGroupProcessor(OnOrderAccepted(handler))
	filter := func(event es.Event) bool {
		_, ok := event.(fulfillment.OrderAccepted)
		return ok
	}
	return bus.Subscribe(ctx, "inventory.on-order-accepted", filter, group)
}
