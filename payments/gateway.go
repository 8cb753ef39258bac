package payments

import (
	"context"
	"fmt"
)

// Amount is a monetary value in the currency's minor unit.
type Amount struct {
	Value    int64
	Currency string
}

// CreditCard carries only the tokenized card reference; raw card data never
// enters this system.
type CreditCard struct {
	Token string
}

// Gateway is the call contract of an external payment provider. Adapters are
// network clients and therefore fallible: any failure, including a timeout,
// must be reported as a *GatewayError so the aggregate can record it as a
// failure event. Calls are synchronous and run inside the surrounding
// command's transaction window.
type Gateway interface {
	// Charge debits the card immediately and returns the provider's
	// transaction id.
	Charge(ctx context.Context, creditCardToken string, amount Amount) (string, error)

	// Capture settles a previously authorized transaction for the given
	// amount.
	Capture(ctx context.Context, transactionID string, amount Amount) error

	// Release gives an authorization hold back without settling.
	Release(ctx context.Context, transactionID string) error

	// Refund returns the given amount of a settled transaction.
	Refund(ctx context.Context, transactionID string, amount Amount) error
}

// GatewayError is any failure reported by a payment gateway adapter: a
// decline, a timeout, a transport error. The aggregate treats them all the
// same way it treats its own guard violations.
type GatewayError struct {
	Gateway string
	Op      string
	Err     error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway %s: %s failed: %v", e.Gateway, e.Op, e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}
