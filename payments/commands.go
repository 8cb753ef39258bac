package payments

// Commands are immutable value objects carrying caller intent. Each is the
// argument to exactly one aggregate method.

type AssignPaymentToOrder struct {
	PaymentID string
	OrderID   string
}

func (c AssignPaymentToOrder) AggregateID() string { return c.PaymentID }

type SelectPaymentGateway struct {
	PaymentID      string
	PaymentGateway string
}

func (c SelectPaymentGateway) AggregateID() string { return c.PaymentID }

type ChargeCreditCard struct {
	PaymentID       string
	CreditCardToken string
	Amount          int64
	Currency        string
}

func (c ChargeCreditCard) AggregateID() string { return c.PaymentID }

type AuthorizeCreditCard struct {
	PaymentID       string
	CreditCardToken string
	Amount          int64
	Currency        string
}

func (c AuthorizeCreditCard) AggregateID() string { return c.PaymentID }

type CaptureAuthorization struct {
	PaymentID string
}

func (c CaptureAuthorization) AggregateID() string { return c.PaymentID }

type ReleaseAuthorization struct {
	PaymentID string
}

func (c ReleaseAuthorization) AggregateID() string { return c.PaymentID }

type RefundPayment struct {
	PaymentID string
}

func (c RefundPayment) AggregateID() string { return c.PaymentID }
