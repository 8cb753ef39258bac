package inventory

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

// AggregateType is the stream type name; kept byte-compatible with the
// streams written by the system this replaces.
const AggregateType = "Inventory::Product"

type State string

const (
	Unregistered State = "unregistered"
	Registered   State = "registered"
)

// Product tracks on-hand stock for one catalogue entry. Registration creates
// it with zero quantity; every successful change records the post-operation
// quantity. A decrease can never drive the quantity negative: the guard
// rejects it and records the rejection instead.
type Product struct {
	es.Root

	state    State
	name     string
	sku      string
	quantity int64
}

// NewProduct creates a fresh, unhydrated product aggregate.
func NewProduct(productID string) *Product {
	p := &Product{state: Unregistered}
	p.Root = es.NewRoot(AggregateType, productID, p.transition)
	return p
}

func (p *Product) State() State    { return p.state }
func (p *Product) SKU() string     { return p.sku }
func (p *Product) Quantity() int64 { return p.quantity }

// Register creates the product with zero stock. Registering twice records a
// failure and changes nothing.
func (p *Product) Register(name, sku string) {
	if p.state != Unregistered {
		p.Apply(ProductRegistrationFailed{ProductID: p.EntityID()})
		return
	}
	p.Apply(ProductRegistered{
		ProductID: p.EntityID(),
		Name:      name,
		SKU:       sku,
		Quantity:  0,
	})
}

// SetQuantity replaces the on-hand quantity.
func (p *Product) SetQuantity(quantity int64) {
	if p.state != Registered || quantity < 0 {
		p.Apply(ProductQuantityChangeRejected{ProductID: p.EntityID(), Requested: quantity})
		return
	}
	p.Apply(ProductQuantitySet{ProductID: p.EntityID(), SKU: p.sku, Quantity: quantity})
}

// IncreaseQuantity adds stock.
func (p *Product) IncreaseQuantity(delta int64) {
	if p.state != Registered || delta <= 0 {
		p.Apply(ProductQuantityChangeRejected{ProductID: p.EntityID(), Requested: delta})
		return
	}
	p.Apply(ProductQuantitySet{ProductID: p.EntityID(), SKU: p.sku, Quantity: p.quantity + delta})
}

// DecreaseQuantity removes stock; never below zero.
func (p *Product) DecreaseQuantity(delta int64) {
	if p.state != Registered || delta <= 0 || p.quantity-delta < 0 {
		p.Apply(ProductQuantityChangeRejected{ProductID: p.EntityID(), Requested: delta})
		return
	}
	p.Apply(ProductQuantitySet{ProductID: p.EntityID(), SKU: p.sku, Quantity: p.quantity - delta})
}

func (p *Product) transition(event es.Event) {
	switch e := event.(type) {
	case ProductRegistered:
		p.state = Registered
		p.name = e.Name
		p.sku = e.SKU
		p.quantity = e.Quantity

	case ProductQuantitySet:
		p.quantity = e.Quantity

	case ProductRegistrationFailed, ProductQuantityChangeRejected:
		// Failed attempts are recorded without changing state.
	}
}
