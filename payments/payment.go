package payments

import (
	"context"

	es "github.com/terraskye/commerce/eventsourcing"
)

// AggregateType is the stream type name; kept byte-compatible with the
// streams written by the system this replaces.
const AggregateType = "Payments::CreditCardPayment"

// State is the payment's position in its lifecycle. Failure states are
// ordinary states: the corresponding operation can be re-attempted from them.
type State string

const (
	Initialized         State = "initialized"
	AssignedToOrder     State = "assigned_to_order"
	Charged             State = "charged"
	Authorized          State = "authorized"
	Captured            State = "captured"
	Refunded            State = "refunded"
	Released            State = "released"
	FailedCharge        State = "failed_charge"
	FailedAuthorization State = "failed_authorization"
	FailedCapture       State = "failed_capture"
	FailedRelease       State = "failed_release"
	FailedRefund        State = "failed_refund"
)

// CreditCardPayment is a payment's full lifecycle from assignment through
// charge or authorize/capture to refund or release. Every command method is
// guarded: from a disallowed state it records the operation's failure event
// and changes nothing else. A gateway error is converted to the same failure
// event as a failed guard; the only difference is that a failed guard never
// reaches the gateway at all.
type CreditCardPayment struct {
	es.Root

	state         State
	orderID       string
	gateway       string
	transactionID string
	authorized    Amount
	captured      Amount
	charged       Amount
	refunded      Amount
}

// NewCreditCardPayment creates a fresh, unhydrated payment aggregate.
func NewCreditCardPayment(paymentID string) *CreditCardPayment {
	p := &CreditCardPayment{state: Initialized}
	p.Root = es.NewRoot(AggregateType, paymentID, p.transition)
	return p
}

// State returns the current lifecycle state.
func (p *CreditCardPayment) State() State { return p.state }

// SelectedGateway returns the identifier recorded by gateway selection, or
// "" when none has been selected yet.
func (p *CreditCardPayment) SelectedGateway() string { return p.gateway }

// AssignToOrder ties the payment to an order. Allowed only once, from
// initialized.
func (p *CreditCardPayment) AssignToOrder(orderID string) {
	if !p.canAssign() {
		p.Apply(PaymentAssignmentFailed{PaymentID: p.EntityID(), OrderID: orderID})
		return
	}
	p.Apply(PaymentAssignedToOrder{PaymentID: p.EntityID(), OrderID: orderID})
}

// SelectPaymentGateway records which gateway the payment will use. Outside
// its allowed states the selection is ignored rather than recorded as a
// failure; re-selection after a failed charge or authorization is permitted.
func (p *CreditCardPayment) SelectPaymentGateway(gateway string) {
	if !p.canSelectPaymentGateway() {
		return
	}
	p.Apply(PaymentGatewaySelected{PaymentID: p.EntityID(), PaymentGateway: gateway})
}

// ChargeCreditCard debits the full amount immediately through the selected
// gateway.
func (p *CreditCardPayment) ChargeCreditCard(ctx context.Context, gateway Gateway, card CreditCard, amount Amount) {
	if !p.canCharge() || gateway == nil {
		p.Apply(PaymentChargeFailed{PaymentID: p.EntityID()})
		return
	}

	transactionID, err := gateway.Charge(ctx, card.Token, amount)
	if err != nil {
		p.Apply(PaymentChargeFailed{PaymentID: p.EntityID()})
		return
	}

	p.Apply(PaymentCharged{
		PaymentID:       p.EntityID(),
		CreditCardToken: card.Token,
		Amount:          amount.Value,
		Currency:        amount.Currency,
		TransactionID:   transactionID,
	})
}

// AuthorizeCreditCard places a hold for the full amount through the selected
// gateway.
func (p *CreditCardPayment) AuthorizeCreditCard(ctx context.Context, gateway Gateway, card CreditCard, amount Amount) {
	if !p.canAuthorize() || gateway == nil {
		p.Apply(PaymentAuthorizationFailed{PaymentID: p.EntityID()})
		return
	}

	// The gateway contract has no separate authorize call; the hold is
	// placed through Charge and settled later by Capture.
	transactionID, err := gateway.Charge(ctx, card.Token, amount)
	if err != nil {
		p.Apply(PaymentAuthorizationFailed{PaymentID: p.EntityID()})
		return
	}

	p.Apply(PaymentAuthorized{
		PaymentID:       p.EntityID(),
		CreditCardToken: card.Token,
		Amount:          amount.Value,
		Currency:        amount.Currency,
		TransactionID:   transactionID,
	})
}

// CaptureAuthorization settles the full previously authorized amount.
// Partial captures are not supported.
func (p *CreditCardPayment) CaptureAuthorization(ctx context.Context, gateway Gateway) {
	if !p.canCapture() || gateway == nil {
		p.Apply(AuthorizationCaptureFailed{PaymentID: p.EntityID()})
		return
	}

	if err := gateway.Capture(ctx, p.transactionID, p.authorized); err != nil {
		p.Apply(AuthorizationCaptureFailed{PaymentID: p.EntityID()})
		return
	}

	p.Apply(AuthorizationCaptured{
		PaymentID: p.EntityID(),
		Amount:    p.authorized.Value,
		Currency:  p.authorized.Currency,
	})
}

// ReleaseAuthorization gives the hold back without settling; terminal on
// success.
func (p *CreditCardPayment) ReleaseAuthorization(ctx context.Context, gateway Gateway) {
	if !p.canRelease() || gateway == nil {
		p.Apply(AuthorizationReleaseFailed{PaymentID: p.EntityID()})
		return
	}

	if err := gateway.Release(ctx, p.transactionID); err != nil {
		p.Apply(AuthorizationReleaseFailed{PaymentID: p.EntityID()})
		return
	}

	p.Apply(AuthorizationReleased{PaymentID: p.EntityID()})
}

// Refund returns the full captured or charged amount. Partial refunds are
// not supported.
func (p *CreditCardPayment) Refund(ctx context.Context, gateway Gateway) {
	if !p.canRefund() || gateway == nil {
		p.Apply(PaymentRefundFailed{PaymentID: p.EntityID()})
		return
	}

	amount := p.charged
	if amount.Value == 0 {
		amount = p.captured
	}

	if err := gateway.Refund(ctx, p.transactionID, amount); err != nil {
		p.Apply(PaymentRefundFailed{PaymentID: p.EntityID()})
		return
	}

	p.Apply(PaymentRefunded{
		PaymentID: p.EntityID(),
		Amount:    amount.Value,
		Currency:  amount.Currency,
	})
}

func (p *CreditCardPayment) canAssign() bool {
	return p.state == Initialized
}

func (p *CreditCardPayment) canSelectPaymentGateway() bool {
	switch p.state {
	case Initialized, AssignedToOrder, FailedCharge, FailedAuthorization:
		return true
	}
	return false
}

func (p *CreditCardPayment) canCharge() bool {
	return (p.state == AssignedToOrder || p.state == FailedCharge) && p.gateway != ""
}

func (p *CreditCardPayment) canAuthorize() bool {
	return (p.state == AssignedToOrder || p.state == FailedAuthorization) && p.gateway != ""
}

func (p *CreditCardPayment) canCapture() bool {
	return p.state == Authorized || p.state == FailedCapture
}

func (p *CreditCardPayment) canRelease() bool {
	return p.state == Authorized || p.state == FailedRelease
}

func (p *CreditCardPayment) canRefund() bool {
	return p.state == Captured || p.state == FailedRefund
}

// transition is the payment's closed transition table; replay and live
// application both run through it.
func (p *CreditCardPayment) transition(event es.Event) {
	switch e := event.(type) {
	case PaymentAssignedToOrder:
		p.state = AssignedToOrder
		p.orderID = e.OrderID

	case PaymentAssignmentFailed:
		// State unchanged; the failed attempt is only recorded.

	case PaymentGatewaySelected:
		p.gateway = e.PaymentGateway

	case PaymentCharged:
		p.state = Charged
		p.charged = Amount{Value: e.Amount, Currency: e.Currency}
		p.transactionID = e.TransactionID

	case PaymentChargeFailed:
		p.state = FailedCharge

	case PaymentAuthorized:
		p.state = Authorized
		p.authorized = Amount{Value: e.Amount, Currency: e.Currency}
		p.transactionID = e.TransactionID

	case PaymentAuthorizationFailed:
		p.state = FailedAuthorization

	case AuthorizationCaptured:
		p.state = Captured
		p.captured = p.authorized

	case AuthorizationCaptureFailed:
		p.state = FailedCapture

	case AuthorizationReleased:
		p.state = Released

	case AuthorizationReleaseFailed:
		p.state = FailedRelease

	case PaymentRefunded:
		p.state = Refunded
		p.refunded = Amount{Value: e.Amount, Currency: e.Currency}

	case PaymentRefundFailed:
		p.state = FailedRefund
	}
}
