package fulfillment

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

// AggregateType is the stream type name; kept byte-compatible with the
// streams written by the system this replaces.
const AggregateType = "Fulfillment::Order"

type State string

const (
	New      State = "new"
	Accepted State = "accepted"
	Rejected State = "rejected"
)

// Order is the fulfillment-side view of an order: a single accept-or-reject
// decision over its lines, terminal either way.
type Order struct {
	es.Root

	state      State
	orderLines []OrderLine
}

// NewOrder creates a fresh, unhydrated fulfillment order aggregate.
func NewOrder(orderID string) *Order {
	o := &Order{state: New}
	o.Root = es.NewRoot(AggregateType, orderID, o.transition)
	return o
}

func (o *Order) State() State { return o.state }

// Accept commits fulfillment to the given lines.
func (o *Order) Accept(orderLines []OrderLine) {
	if o.state != New {
		o.Apply(OrderAcceptanceFailed{OrderID: o.EntityID()})
		return
	}
	o.Apply(OrderAccepted{OrderID: o.EntityID(), OrderLines: orderLines})
}

// Reject declines fulfillment of the given lines.
func (o *Order) Reject(orderLines []OrderLine) {
	if o.state != New {
		o.Apply(OrderRejectionFailed{OrderID: o.EntityID()})
		return
	}
	o.Apply(OrderRejected{OrderID: o.EntityID(), OrderLines: orderLines})
}

func (o *Order) transition(event es.Event) {
	switch e := event.(type) {
	case OrderAccepted:
		o.state = Accepted
		o.orderLines = e.OrderLines

	case OrderRejected:
		o.state = Rejected
		o.orderLines = e.OrderLines

	case OrderAcceptanceFailed, OrderRejectionFailed:
		// Failed attempts are recorded without changing state.
	}
}
