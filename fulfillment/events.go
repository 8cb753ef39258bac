package fulfillment

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

func init() {
	es.RegisterEvent(func() es.Event { return &OrderAccepted{} })
	es.RegisterEvent(func() es.Event { return &OrderAcceptanceFailed{} })
	es.RegisterEvent(func() es.Event { return &OrderRejected{} })
	es.RegisterEvent(func() es.Event { return &OrderRejectionFailed{} })
}

// OrderLine is one product position to fulfill.
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
}

// OrderAccepted records fulfillment's commitment to the order's lines. The
// inventory listener reacts to this event by decreasing stock.
type OrderAccepted struct {
	OrderID    string      `json:"order_id" validate:"required"`
	OrderLines []OrderLine `json:"order_lines" validate:"required,min=1,dive"`
}

func (e OrderAccepted) AggregateID() string { return e.OrderID }
func (e OrderAccepted) EventType() string   { return es.TypeName(e) }

type OrderAcceptanceFailed struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderAcceptanceFailed) AggregateID() string { return e.OrderID }
func (e OrderAcceptanceFailed) EventType() string   { return es.TypeName(e) }

type OrderRejected struct {
	OrderID    string      `json:"order_id" validate:"required"`
	OrderLines []OrderLine `json:"order_lines" validate:"required,min=1,dive"`
}

func (e OrderRejected) AggregateID() string { return e.OrderID }
func (e OrderRejected) EventType() string   { return es.TypeName(e) }

type OrderRejectionFailed struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderRejectionFailed) AggregateID() string { return e.OrderID }
func (e OrderRejectionFailed) EventType() string   { return es.TypeName(e) }
