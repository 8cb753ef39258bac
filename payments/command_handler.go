package payments

import (
	"context"

	es "github.com/terraskye/commerce/eventsourcing"
)

// CommandHandler orchestrates payment commands: rehydrate the payment from
// its stream, run exactly one aggregate method, flush the new events with an
// expected-version check. It holds its collaborators by explicit injection
// and never branches on the aggregate's resulting state.
type CommandHandler struct {
	store    es.EventStore
	gateways map[string]Gateway
}

// NewCommandHandler wires the store and the available gateway adapters,
// keyed by the identifier recorded by SelectPaymentGateway.
func NewCommandHandler(store es.EventStore, gateways map[string]Gateway) *CommandHandler {
	return &CommandHandler{store: store, gateways: gateways}
}

func (h *CommandHandler) AssignPaymentToOrder(ctx context.Context, cmd AssignPaymentToOrder) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		p.AssignToOrder(cmd.OrderID)
	})
}

func (h *CommandHandler) SelectPaymentGateway(ctx context.Context, cmd SelectPaymentGateway) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		p.SelectPaymentGateway(cmd.PaymentGateway)
	})
}

func (h *CommandHandler) ChargeCreditCard(ctx context.Context, cmd ChargeCreditCard) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		card := CreditCard{Token: cmd.CreditCardToken}
		amount := Amount{Value: cmd.Amount, Currency: cmd.Currency}
		p.ChargeCreditCard(ctx, h.gateway(p), card, amount)
	})
}

func (h *CommandHandler) AuthorizeCreditCard(ctx context.Context, cmd AuthorizeCreditCard) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		card := CreditCard{Token: cmd.CreditCardToken}
		amount := Amount{Value: cmd.Amount, Currency: cmd.Currency}
		p.AuthorizeCreditCard(ctx, h.gateway(p), card, amount)
	})
}

func (h *CommandHandler) CaptureAuthorization(ctx context.Context, cmd CaptureAuthorization) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		p.CaptureAuthorization(ctx, h.gateway(p))
	})
}

func (h *CommandHandler) ReleaseAuthorization(ctx context.Context, cmd ReleaseAuthorization) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		p.ReleaseAuthorization(ctx, h.gateway(p))
	})
}

func (h *CommandHandler) RefundPayment(ctx context.Context, cmd RefundPayment) (es.AppendResult, error) {
	return h.execute(ctx, cmd.PaymentID, func(p *CreditCardPayment) {
		p.Refund(ctx, h.gateway(p))
	})
}

func (h *CommandHandler) execute(ctx context.Context, paymentID string, command func(*CreditCardPayment)) (es.AppendResult, error) {
	return es.Execute(ctx, h.store, func() *CreditCardPayment {
		return NewCreditCardPayment(paymentID)
	}, command)
}

// gateway resolves the adapter for the payment's recorded selection. A
// missing or unknown selection resolves to nil, which the aggregate converts
// to the operation's failure event without any network call.
func (h *CommandHandler) gateway(p *CreditCardPayment) Gateway {
	return h.gateways[p.SelectedGateway()]
}
