package orders

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

// AggregateType is the stream type name; kept byte-compatible with the
// streams written by the system this replaces.
const AggregateType = "Orders::Order"

type State string

const (
	Initialized State = "initialized"
	Placed      State = "placed"
	Submitted   State = "submitted"
	Shipped     State = "shipped"
	Cancelled   State = "cancelled"
)

// Order is the buyer-facing order lifecycle: place, enrich with shipping and
// contact info, submit, then ship or cancel. Guards are pure state checks;
// there is no external collaborator in this machine.
type Order struct {
	es.Root

	state        State
	orderLines   []OrderLine
	shippingInfo *ShippingInfo
	contactInfo  *ContactInfo
}

// NewOrder creates a fresh, unhydrated order aggregate.
func NewOrder(orderID string) *Order {
	o := &Order{state: Initialized}
	o.Root = es.NewRoot(AggregateType, orderID, o.transition)
	return o
}

func (o *Order) State() State { return o.state }

// OrderLines returns the placed lines.
func (o *Order) OrderLines() []OrderLine { return o.orderLines }

// Place opens the order with its lines. Allowed only once.
func (o *Order) Place(orderLines []OrderLine) {
	if o.state != Initialized {
		o.Apply(OrderPlacementFailed{OrderID: o.EntityID()})
		return
	}
	o.Apply(OrderPlaced{OrderID: o.EntityID(), OrderLines: orderLines})
}

// ProvideShippingInfo attaches shipping details; only before submission.
func (o *Order) ProvideShippingInfo(info ShippingInfo) {
	if o.state != Placed {
		o.Apply(ShippingInfoRejected{OrderID: o.EntityID()})
		return
	}
	o.Apply(ShippingInfoProvided{OrderID: o.EntityID(), ShippingInfo: info})
}

// ProvideContactInfo attaches contact details; only before submission.
func (o *Order) ProvideContactInfo(info ContactInfo) {
	if o.state != Placed {
		o.Apply(ContactInfoRejected{OrderID: o.EntityID()})
		return
	}
	o.Apply(ContactInfoProvided{OrderID: o.EntityID(), ContactInfo: info})
}

// Submit hands the order over for fulfillment.
func (o *Order) Submit() {
	if o.state != Placed {
		o.Apply(OrderSubmissionFailed{OrderID: o.EntityID()})
		return
	}
	o.Apply(OrderSubmitted{OrderID: o.EntityID()})
}

// Ship marks the submitted order as shipped; terminal.
func (o *Order) Ship() {
	if o.state != Submitted {
		o.Apply(OrderShipmentFailed{OrderID: o.EntityID()})
		return
	}
	o.Apply(OrderShipped{OrderID: o.EntityID()})
}

// Cancel aborts the order any time before shipment; terminal.
func (o *Order) Cancel() {
	if o.state != Placed && o.state != Submitted {
		o.Apply(OrderCancellationFailed{OrderID: o.EntityID()})
		return
	}
	o.Apply(OrderCancelled{OrderID: o.EntityID()})
}

func (o *Order) transition(event es.Event) {
	switch e := event.(type) {
	case OrderPlaced:
		o.state = Placed
		o.orderLines = e.OrderLines

	case ShippingInfoProvided:
		info := e.ShippingInfo
		o.shippingInfo = &info

	case ContactInfoProvided:
		info := e.ContactInfo
		o.contactInfo = &info

	case OrderSubmitted:
		o.state = Submitted

	case OrderShipped:
		o.state = Shipped

	case OrderCancelled:
		o.state = Cancelled

	case OrderPlacementFailed, ShippingInfoRejected, ContactInfoRejected,
		OrderSubmissionFailed, OrderShipmentFailed, OrderCancellationFailed:
		// Failed attempts are recorded without changing state.
	}
}
