package payments

import (
	es "github.com/terraskye/commerce/eventsourcing"
)

func init() {
	es.RegisterEvent(func() es.Event { return &PaymentAssignedToOrder{} })
	es.RegisterEvent(func() es.Event { return &PaymentAssignmentFailed{} })
	es.RegisterEvent(func() es.Event { return &PaymentGatewaySelected{} })
	es.RegisterEvent(func() es.Event { return &PaymentCharged{} })
	es.RegisterEvent(func() es.Event { return &PaymentChargeFailed{} })
	es.RegisterEvent(func() es.Event { return &PaymentAuthorized{} })
	es.RegisterEvent(func() es.Event { return &PaymentAuthorizationFailed{} })
	es.RegisterEvent(func() es.Event { return &AuthorizationCaptured{} })
	es.RegisterEvent(func() es.Event { return &AuthorizationCaptureFailed{} })
	es.RegisterEvent(func() es.Event { return &AuthorizationReleased{} })
	es.RegisterEvent(func() es.Event { return &AuthorizationReleaseFailed{} })
	es.RegisterEvent(func() es.Event { return &PaymentRefunded{} })
	es.RegisterEvent(func() es.Event { return &PaymentRefundFailed{} })
}

// PaymentAssignedToOrder records that the payment now belongs to an order.
type PaymentAssignedToOrder struct {
	PaymentID string `json:"payment_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

func (e PaymentAssignedToOrder) AggregateID() string { return e.PaymentID }
func (e PaymentAssignedToOrder) EventType() string   { return es.TypeName(e) }

// PaymentAssignmentFailed records a rejected assignment attempt. It is a
// permanent member of the stream, not a rolled-back error.
type PaymentAssignmentFailed struct {
	PaymentID string `json:"payment_id" validate:"required"`
	OrderID   string `json:"order_id" validate:"required"`
}

func (e PaymentAssignmentFailed) AggregateID() string { return e.PaymentID }
func (e PaymentAssignmentFailed) EventType() string   { return es.TypeName(e) }

// PaymentGatewaySelected records which gateway later charge/authorize calls
// will go through.
type PaymentGatewaySelected struct {
	PaymentID      string `json:"payment_id" validate:"required"`
	PaymentGateway string `json:"payment_gateway" validate:"required"`
}

func (e PaymentGatewaySelected) AggregateID() string { return e.PaymentID }
func (e PaymentGatewaySelected) EventType() string   { return es.TypeName(e) }

// PaymentCharged records a successful immediate charge of the full amount.
type PaymentCharged struct {
	PaymentID       string `json:"payment_id" validate:"required"`
	CreditCardToken string `json:"credit_card" validate:"required"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	Currency        string `json:"currency" validate:"required,len=3"`
	TransactionID   string `json:"transaction_id" validate:"required"`
}

func (e PaymentCharged) AggregateID() string { return e.PaymentID }
func (e PaymentCharged) EventType() string   { return es.TypeName(e) }

// PaymentChargeFailed records a charge attempt that was either rejected by
// the guard or declined by the gateway; the two are indistinguishable here.
type PaymentChargeFailed struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

func (e PaymentChargeFailed) AggregateID() string { return e.PaymentID }
func (e PaymentChargeFailed) EventType() string   { return es.TypeName(e) }

// PaymentAuthorized records a successful authorization hold for the full
// amount.
type PaymentAuthorized struct {
	PaymentID       string `json:"payment_id" validate:"required"`
	CreditCardToken string `json:"credit_card" validate:"required"`
	Amount          int64  `json:"amount" validate:"gt=0"`
	Currency        string `json:"currency" validate:"required,len=3"`
	TransactionID   string `json:"transaction_id" validate:"required"`
}

func (e PaymentAuthorized) AggregateID() string { return e.PaymentID }
func (e PaymentAuthorized) EventType() string   { return es.TypeName(e) }

type PaymentAuthorizationFailed struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

func (e PaymentAuthorizationFailed) AggregateID() string { return e.PaymentID }
func (e PaymentAuthorizationFailed) EventType() string   { return es.TypeName(e) }

// AuthorizationCaptured records the capture of the full authorized amount.
type AuthorizationCaptured struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Amount    int64  `json:"amount" validate:"gt=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
}

func (e AuthorizationCaptured) AggregateID() string { return e.PaymentID }
func (e AuthorizationCaptured) EventType() string   { return es.TypeName(e) }

type AuthorizationCaptureFailed struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

func (e AuthorizationCaptureFailed) AggregateID() string { return e.PaymentID }
func (e AuthorizationCaptureFailed) EventType() string   { return es.TypeName(e) }

// AuthorizationReleased records that the hold was given back in full; the
// payment is terminal afterwards.
type AuthorizationReleased struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

func (e AuthorizationReleased) AggregateID() string { return e.PaymentID }
func (e AuthorizationReleased) EventType() string   { return es.TypeName(e) }

type AuthorizationReleaseFailed struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

func (e AuthorizationReleaseFailed) AggregateID() string { return e.PaymentID }
func (e AuthorizationReleaseFailed) EventType() string   { return es.TypeName(e) }

// PaymentRefunded records a refund of the full captured or charged amount.
type PaymentRefunded struct {
	PaymentID string `json:"payment_id" validate:"required"`
	Amount    int64  `json:"amount" validate:"gt=0"`
	Currency  string `json:"currency" validate:"required,len=3"`
}

func (e PaymentRefunded) AggregateID() string { return e.PaymentID }
func (e PaymentRefunded) EventType() string   { return es.TypeName(e) }

type PaymentRefundFailed struct {
	PaymentID string `json:"payment_id" validate:"required"`
}

func (e PaymentRefundFailed) AggregateID() string { return e.PaymentID }
func (e PaymentRefundFailed) EventType() string   { return es.TypeName(e) }
