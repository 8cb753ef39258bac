package inventory

import (
	"context"

	es "github.com/terraskye/commerce/eventsourcing"
)

// ProductCommandHandler orchestrates inventory commands: rehydrate the
// product from its stream, run exactly one aggregate method, flush the new
// events with an expected-version check.
type ProductCommandHandler struct {
	store es.EventStore
}

func NewProductCommandHandler(store es.EventStore) *ProductCommandHandler {
	return &ProductCommandHandler{store: store}
}

func (h *ProductCommandHandler) RegisterProduct(ctx context.Context, cmd RegisterProduct) (es.AppendResult, error) {
	return h.execute(ctx, cmd.ProductID, func(p *Product) {
		p.Register(cmd.Name, cmd.SKU)
	})
}

func (h *ProductCommandHandler) SetProductQuantity(ctx context.Context, cmd SetProductQuantity) (es.AppendResult, error) {
	return h.execute(ctx, cmd.ProductID, func(p *Product) {
		p.SetQuantity(cmd.Quantity)
	})
}

func (h *ProductCommandHandler) IncreaseProductQuantity(ctx context.Context, cmd IncreaseProductQuantity) (es.AppendResult, error) {
	return h.execute(ctx, cmd.ProductID, func(p *Product) {
		p.IncreaseQuantity(cmd.Quantity)
	})
}

func (h *ProductCommandHandler) DecreaseProductQuantity(ctx context.Context, cmd DecreaseProductQuantity) (es.AppendResult, error) {
	return h.execute(ctx, cmd.ProductID, func(p *Product) {
		p.DecreaseQuantity(cmd.Quantity)
	})
}

func (h *ProductCommandHandler) execute(ctx context.Context, productID string, command func(*Product)) (es.AppendResult, error) {
	return es.Execute(ctx, h.store, func() *Product {
		return NewProduct(productID)
	}, command)
}
