package orders

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

func init() {
	es.RegisterEvent(func() es.Event { return &OrderPlaced{} })
	es.RegisterEvent(func() es.Event { return &OrderPlacementFailed{} })
	es.RegisterEvent(func() es.Event { return &ShippingInfoProvided{} })
	es.RegisterEvent(func() es.Event { return &ShippingInfoRejected{} })
	es.RegisterEvent(func() es.Event { return &ContactInfoProvided{} })
	es.RegisterEvent(func() es.Event { return &ContactInfoRejected{} })
	es.RegisterEvent(func() es.Event { return &OrderSubmitted{} })
	es.RegisterEvent(func() es.Event { return &OrderSubmissionFailed{} })
	es.RegisterEvent(func() es.Event { return &OrderShipped{} })
	es.RegisterEvent(func() es.Event { return &OrderShipmentFailed{} })
	es.RegisterEvent(func() es.Event { return &OrderCancelled{} })
	es.RegisterEvent(func() es.Event { return &OrderCancellationFailed{} })
}

// OrderLine is one product position within an order.
type OrderLine struct {
	ProductID string `json:"product_id" validate:"required"`
	SKU       string `json:"sku" validate:"required"`
	Quantity  int64  `json:"quantity" validate:"gt=0"`
	Price     int64  `json:"price" validate:"gte=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
}

// ShippingInfo is where and to whom the order ships.
type ShippingInfo struct {
	ReceiverName    string `json:"receiver_name" validate:"required"`
	ShippingAddress string `json:"shipping_address" validate:"required"`
}

// ContactInfo is how the buyer can be reached about the order.
type ContactInfo struct {
	ContactPhoneNumber string `json:"contact_phone_number" validate:"required"`
}

// OrderPlaced opens the order with its lines.
type OrderPlaced struct {
	OrderID    string      `json:"order_id" validate:"required"`
	OrderLines []OrderLine `json:"order_lines" validate:"required,min=1,dive"`
}

func (e OrderPlaced) AggregateID() string { return e.OrderID }
func (e OrderPlaced) EventType() string   { return es.TypeName(e) }

type OrderPlacementFailed struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderPlacementFailed) AggregateID() string { return e.OrderID }
func (e OrderPlacementFailed) EventType() string   { return es.TypeName(e) }

type ShippingInfoProvided struct {
	OrderID      string       `json:"order_id" validate:"required"`
	ShippingInfo ShippingInfo `json:"shipping_info" validate:"required"`
}

func (e ShippingInfoProvided) AggregateID() string { return e.OrderID }
func (e ShippingInfoProvided) EventType() string   { return es.TypeName(e) }

type ShippingInfoRejected struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e ShippingInfoRejected) AggregateID() string { return e.OrderID }
func (e ShippingInfoRejected) EventType() string   { return es.TypeName(e) }

type ContactInfoProvided struct {
	OrderID     string      `json:"order_id" validate:"required"`
	ContactInfo ContactInfo `json:"contact_info" validate:"required"`
}

func (e ContactInfoProvided) AggregateID() string { return e.OrderID }
func (e ContactInfoProvided) EventType() string   { return es.TypeName(e) }

type ContactInfoRejected struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e ContactInfoRejected) AggregateID() string { return e.OrderID }
func (e ContactInfoRejected) EventType() string   { return es.TypeName(e) }

type OrderSubmitted struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderSubmitted) AggregateID() string { return e.OrderID }
func (e OrderSubmitted) EventType() string   { return es.TypeName(e) }

type OrderSubmissionFailed struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderSubmissionFailed) AggregateID() string { return e.OrderID }
func (e OrderSubmissionFailed) EventType() string   { return es.TypeName(e) }

type OrderShipped struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderShipped) AggregateID() string { return e.OrderID }
func (e OrderShipped) EventType() string   { return es.TypeName(e) }

type OrderShipmentFailed struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderShipmentFailed) AggregateID() string { return e.OrderID }
func (e OrderShipmentFailed) EventType() string   { return es.TypeName(e) }

type OrderCancelled struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderCancelled) AggregateID() string { return e.OrderID }
func (e OrderCancelled) EventType() string   { return es.TypeName(e) }

type OrderCancellationFailed struct {
	OrderID string `json:"order_id" validate:"required"`
}

func (e OrderCancellationFailed) AggregateID() string { return e.OrderID }
func (e OrderCancellationFailed) EventType() string   { return es.TypeName(e) }
