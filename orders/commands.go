package orders

// Commands are immutable value objects carrying caller intent. Each is the
// argument to exactly one aggregate method.

type PlaceOrder struct {
	OrderID    string
	OrderLines []OrderLine
}

func (c PlaceOrder) AggregateID() string { return c.OrderID }

type ProvideShippingInfo struct {
	OrderID         string
	ReceiverName    string
	ShippingAddress string
}

func (c ProvideShippingInfo) AggregateID() string { return c.OrderID }

type ProvideContactInfo struct {
	OrderID            string
	ContactPhoneNumber string
}

func (c ProvideContactInfo) AggregateID() string { return c.OrderID }

type SubmitOrder struct {
	OrderID string
}

func (c SubmitOrder) AggregateID() string { return c.OrderID }

type ShipOrder struct {
	OrderID string
}

func (c ShipOrder) AggregateID() string { return c.OrderID }

type CancelOrder struct {
	OrderID string
}

func (c CancelOrder) AggregateID() string { return c.OrderID }
