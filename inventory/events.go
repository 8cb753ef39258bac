package inventory

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

func init() {
	es.RegisterEvent(func() es.Event { return &ProductRegistered{} })
	es.RegisterEvent(func() es.Event { return &ProductRegistrationFailed{} })
	es.RegisterEvent(func() es.Event { return &ProductQuantitySet{} })
	es.RegisterEvent(func() es.Event { return &ProductQuantityChangeRejected{} })
}

// ProductRegistered creates the product; stock always starts at zero.
type ProductRegistered struct {
	ProductID string `json:"product_id" validate:"required"`
	Name      string `json:"name" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"eq=0"`
}

func (e ProductRegistered) AggregateID() string { return e.ProductID }
func (e ProductRegistered) EventType() string   { return es.TypeName(e) }

type ProductRegistrationFailed struct {
	ProductID string `json:"product_id" validate:"required"`
}

func (e ProductRegistrationFailed) AggregateID() string { return e.ProductID }
func (e ProductRegistrationFailed) EventType() string   { return es.TypeName(e) }

// ProductQuantitySet records the post-operation quantity after any
// successful set, increase or decrease.
type ProductQuantitySet struct {
	ProductID string `json:"product_id" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gte=0"`
}

func (e ProductQuantitySet) AggregateID() string { return e.ProductID }
func (e ProductQuantitySet) EventType() string   { return es.TypeName(e) }

// ProductQuantityChangeRejected records a quantity change the guard refused:
// a change on an unregistered product, a non-positive delta, or a decrease
// below zero. Quantity stays where it was.
type ProductQuantityChangeRejected struct {
	ProductID string `json:"product_id" validate:"required"`
	Requested int64  `json:"requested"`
}

func (e ProductQuantityChangeRejected) AggregateID() string { return e.ProductID }
func (e ProductQuantityChangeRejected) EventType() string   { return es.TypeName(e) }
