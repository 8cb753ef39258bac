package fulfillment

// Commands are immutable value objects carrying caller intent.

type AcceptOrder struct {
	OrderID    string
	OrderLines []OrderLine
}

func (c AcceptOrder) AggregateID() string { return c.OrderID }

type RejectOrder struct {
	OrderID    string
	OrderLines []OrderLine
}

func (c RejectOrder) AggregateID() string { return c.OrderID }
