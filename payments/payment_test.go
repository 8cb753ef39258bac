package payments

import (
	"context"
	"errors"
	"testing"

	es "github.com/terraskye/commerce/eventsourcing"
)

// fakeGateway records calls and fails on demand.
type fakeGateway struct {
	chargeErr  error
	captureErr error
	releaseErr error
	refundErr  error

	chargedToken   string
	chargedAmount  Amount
	capturedTx     string
	capturedAmount Amount
	releasedTx     string
	refundedTx     string
	refundedAmount Amount
	calls          int
}

func (g *fakeGateway) Charge(ctx context.Context, token string, amount Amount) (string, error) {
	g.calls++
	if g.chargeErr != nil {
		return "", g.chargeErr
	}
	g.chargedToken = token
	g.chargedAmount = amount
	return "tx-123", nil
}

func (g *fakeGateway) Capture(ctx context.Context, transactionID string, amount Amount) error {
	g.calls++
	if g.captureErr != nil {
		return g.captureErr
	}
	g.capturedTx = transactionID
	g.capturedAmount = amount
	return nil
}

func (g *fakeGateway) Release(ctx context.Context, transactionID string) error {
	g.calls++
	if g.releaseErr != nil {
		return g.releaseErr
	}
	g.releasedTx = transactionID
	return nil
}

func (g *fakeGateway) Refund(ctx context.Context, transactionID string, amount Amount) error {
	g.calls++
	if g.refundErr != nil {
		return g.refundErr
	}
	g.refundedTx = transactionID
	g.refundedAmount = amount
	return nil
}

func pendingEvents(t *testing.T, p *CreditCardPayment) []es.Event {
	t.Helper()
	out := make([]es.Event, 0, len(p.UncommittedEvents()))
	for _, env := range p.UncommittedEvents() {
		out = append(out, env.Event)
	}
	return out
}

func lastEvent(t *testing.T, p *CreditCardPayment) es.Event {
	t.Helper()
	events := pendingEvents(t, p)
	if len(events) == 0 {
		t.Fatalf("expected at least one event")
	}
	return events[len(events)-1]
}

func assignedPayment(t *testing.T, gateway string) *CreditCardPayment {
	t.Helper()
	p := NewCreditCardPayment("PAY1")
	p.AssignToOrder("O1")
	p.SelectPaymentGateway(gateway)
	p.ClearUncommittedEvents()
	return p
}

func TestAssignToOrder(t *testing.T) {
	p := NewCreditCardPayment("PAY1")
	p.AssignToOrder("O1")

	ev, ok := lastEvent(t, p).(PaymentAssignedToOrder)
	if !ok {
		t.Fatalf("expected PaymentAssignedToOrder, got %T", lastEvent(t, p))
	}
	if ev.OrderID != "O1" {
		t.Fatalf("unexpected order %q", ev.OrderID)
	}
	if p.State() != AssignedToOrder {
		t.Fatalf("unexpected state %q", p.State())
	}
}

func TestAssignToOrder_SecondAttemptFails(t *testing.T) {
	p := NewCreditCardPayment("PAY1")
	p.AssignToOrder("O1")
	p.AssignToOrder("O2")

	events := pendingEvents(t, p)
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if _, ok := events[1].(PaymentAssignmentFailed); !ok {
		t.Fatalf("expected PaymentAssignmentFailed, got %T", events[1])
	}
	if p.State() != AssignedToOrder {
		t.Fatalf("failed assignment must not change state, got %q", p.State())
	}
	if p.orderID != "O1" {
		t.Fatalf("original assignment must survive, got %q", p.orderID)
	}
}

func TestSelectPaymentGateway_IgnoredOutsideAllowedStates(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}
	p.ChargeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})
	p.ClearUncommittedEvents()

	p.SelectPaymentGateway("other")
	if len(pendingEvents(t, p)) != 0 {
		t.Fatalf("selection after charge must be a silent no-op")
	}
	if p.SelectedGateway() != "fake" {
		t.Fatalf("selection must be unchanged, got %q", p.SelectedGateway())
	}
}

func TestSelectPaymentGateway_AllowedAfterFailedCharge(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{chargeErr: &GatewayError{Gateway: "fake", Op: "charge", Err: errors.New("declined")}}
	p.ChargeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})
	if p.State() != FailedCharge {
		t.Fatalf("expected failed_charge, got %q", p.State())
	}

	p.SelectPaymentGateway("backup")
	if p.SelectedGateway() != "backup" {
		t.Fatalf("re-selection after failed charge must be recorded")
	}
}

func TestChargeCreditCard(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}

	p.ChargeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 2500, Currency: "EUR"})

	ev, ok := lastEvent(t, p).(PaymentCharged)
	if !ok {
		t.Fatalf("expected PaymentCharged, got %T", lastEvent(t, p))
	}
	if ev.Amount != 2500 || ev.Currency != "EUR" || ev.TransactionID != "tx-123" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if gw.chargedToken != "card-1" {
		t.Fatalf("gateway received wrong token %q", gw.chargedToken)
	}
	if p.State() != Charged {
		t.Fatalf("unexpected state %q", p.State())
	}
}

func TestChargeCreditCard_GuardFailureSkipsGateway(t *testing.T) {
	p := NewCreditCardPayment("PAY1")
	gw := &fakeGateway{}

	p.ChargeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})

	if _, ok := lastEvent(t, p).(PaymentChargeFailed); !ok {
		t.Fatalf("expected PaymentChargeFailed, got %T", lastEvent(t, p))
	}
	if gw.calls != 0 {
		t.Fatalf("guard failure must not reach the gateway")
	}
	if p.State() != FailedCharge {
		t.Fatalf("unexpected state %q", p.State())
	}
}

func TestChargeCreditCard_GatewayDeclineSameFailureEvent(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{chargeErr: &GatewayError{Gateway: "fake", Op: "charge", Err: errors.New("declined")}}

	p.ChargeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})

	if _, ok := lastEvent(t, p).(PaymentChargeFailed); !ok {
		t.Fatalf("expected PaymentChargeFailed, got %T", lastEvent(t, p))
	}
	if p.State() != FailedCharge {
		t.Fatalf("unexpected state %q", p.State())
	}
}

func TestChargeCreditCard_RetryableFromFailedCharge(t *testing.T) {
	p := assignedPayment(t, "fake")
	p.ChargeCreditCard(context.Background(),
		&fakeGateway{chargeErr: &GatewayError{Gateway: "fake", Op: "charge", Err: errors.New("timeout")}},
		CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})

	p.ChargeCreditCard(context.Background(), &fakeGateway{},
		CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})

	if p.State() != Charged {
		t.Fatalf("retry after failed charge must succeed, got %q", p.State())
	}
}

func TestAuthorizeThenCaptureFullAmount(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}

	p.AuthorizeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})
	if p.State() != Authorized {
		t.Fatalf("unexpected state %q", p.State())
	}

	p.CaptureAuthorization(context.Background(), gw)

	ev, ok := lastEvent(t, p).(AuthorizationCaptured)
	if !ok {
		t.Fatalf("expected AuthorizationCaptured, got %T", lastEvent(t, p))
	}
	if ev.Amount != 100 || ev.Currency != "USD" {
		t.Fatalf("capture must settle the full authorized amount, got %+v", ev)
	}
	if gw.capturedTx != "tx-123" || gw.capturedAmount.Value != 100 {
		t.Fatalf("gateway capture got %q/%+v", gw.capturedTx, gw.capturedAmount)
	}
	if p.State() != Captured {
		t.Fatalf("unexpected state %q", p.State())
	}
}

func TestCaptureWithoutAuthorizationFails(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}

	p.CaptureAuthorization(context.Background(), gw)

	if _, ok := lastEvent(t, p).(AuthorizationCaptureFailed); !ok {
		t.Fatalf("expected AuthorizationCaptureFailed, got %T", lastEvent(t, p))
	}
	if gw.calls != 0 {
		t.Fatalf("guard failure must not reach the gateway")
	}
}

func TestReleaseAuthorization(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}
	p.AuthorizeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})

	p.ReleaseAuthorization(context.Background(), gw)

	if _, ok := lastEvent(t, p).(AuthorizationReleased); !ok {
		t.Fatalf("expected AuthorizationReleased, got %T", lastEvent(t, p))
	}
	if gw.releasedTx != "tx-123" {
		t.Fatalf("gateway released %q", gw.releasedTx)
	}
	if p.State() != Released {
		t.Fatalf("unexpected state %q", p.State())
	}

	// Released is terminal.
	p.ClearUncommittedEvents()
	p.CaptureAuthorization(context.Background(), gw)
	if _, ok := lastEvent(t, p).(AuthorizationCaptureFailed); !ok {
		t.Fatalf("capture after release must fail, got %T", lastEvent(t, p))
	}
}

func TestRefundAfterCapture(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}
	p.AuthorizeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 100, Currency: "USD"})
	p.CaptureAuthorization(context.Background(), gw)

	p.Refund(context.Background(), gw)

	ev, ok := lastEvent(t, p).(PaymentRefunded)
	if !ok {
		t.Fatalf("expected PaymentRefunded, got %T", lastEvent(t, p))
	}
	if ev.Amount != 100 || ev.Currency != "USD" {
		t.Fatalf("refund must return the full captured amount, got %+v", ev)
	}
	if gw.refundedAmount.Value != 100 {
		t.Fatalf("gateway refunded %+v", gw.refundedAmount)
	}
	if p.State() != Refunded {
		t.Fatalf("unexpected state %q", p.State())
	}
}

func TestRefundFromInitializedFails(t *testing.T) {
	p := NewCreditCardPayment("PAY1")
	gw := &fakeGateway{}

	p.Refund(context.Background(), gw)

	if _, ok := lastEvent(t, p).(PaymentRefundFailed); !ok {
		t.Fatalf("expected PaymentRefundFailed, got %T", lastEvent(t, p))
	}
	if gw.calls != 0 {
		t.Fatalf("guard failure must not reach the gateway")
	}
	if p.State() != Initialized {
		t.Fatalf("refund failure from initialized must leave state, got %q", p.State())
	}
}

func TestRefundFromChargedFails(t *testing.T) {
	p := assignedPayment(t, "fake")
	gw := &fakeGateway{}
	p.ChargeCreditCard(context.Background(), gw, CreditCard{Token: "card-1"}, Amount{Value: 4200, Currency: "USD"})

	if p.State() != Charged {
		t.Fatalf("unexpected state %q", p.State())
	}

	// Refund is only reachable from captured or failed_refund; a plain
	// charge cannot be refunded through this path.
	p.Refund(context.Background(), gw)
	if _, ok := lastEvent(t, p).(PaymentRefundFailed); !ok {
		t.Fatalf("expected PaymentRefundFailed, got %T", lastEvent(t, p))
	}
}

func TestReplayRebuildsState(t *testing.T) {
	stream := es.StreamName(AggregateType, "PAY1")
	store := &replayStore{envelopes: []*es.Envelope{
		envelopeAt(stream, PaymentAssignedToOrder{PaymentID: "PAY1", OrderID: "O1"}, 1),
		envelopeAt(stream, PaymentGatewaySelected{PaymentID: "PAY1", PaymentGateway: "fake"}, 2),
		envelopeAt(stream, PaymentAuthorized{
			PaymentID: "PAY1", CreditCardToken: "card-1",
			Amount: 100, Currency: "USD", TransactionID: "tx-123",
		}, 3),
		envelopeAt(stream, AuthorizationCaptured{PaymentID: "PAY1", Amount: 100, Currency: "USD"}, 4),
	}}

	p := NewCreditCardPayment("PAY1")
	if err := p.Load(context.Background(), store); err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if p.State() != Captured {
		t.Fatalf("unexpected state %q", p.State())
	}
	if p.AggregateVersion() != 4 {
		t.Fatalf("unexpected version %d", p.AggregateVersion())
	}
	if p.captured.Value != 100 || p.captured.Currency != "USD" {
		t.Fatalf("captured amount not rebuilt: %+v", p.captured)
	}
	if p.transactionID != "tx-123" {
		t.Fatalf("transaction id not rebuilt: %q", p.transactionID)
	}
}

// replayStore serves a fixed stream; used for pure replay tests.
type replayStore struct {
	envelopes []*es.Envelope
}

func (s *replayStore) Save(ctx context.Context, events []es.Envelope, revision es.StreamState) (es.AppendResult, error) {
	return es.AppendResult{Successful: true}, nil
}

func (s *replayStore) LoadStream(ctx context.Context, stream string) (*es.Iterator[*es.Envelope], error) {
	return es.NewSliceIterator(s.envelopes), nil
}

func (s *replayStore) LoadStreamFrom(ctx context.Context, stream string, version uint64) (*es.Iterator[*es.Envelope], error) {
	return s.LoadStream(ctx, stream)
}

func (s *replayStore) Close() error { return nil }

func envelopeAt(stream string, event es.Event, version uint64) *es.Envelope {
	env := es.NewEnvelope(stream, event, version)
	return &env
}
