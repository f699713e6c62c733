package adapter

import "context"

// PaymentGateway is the seam for payment execution. The production
// implementation is a simulation that always succeeds; a real gateway slots
// in here with its own timeout/retry handling without changing the
// transactional contract of charge.
type PaymentGateway interface {
	Name() string
	// Charge executes a payment and returns the provider reference id.
	// A declined payment surfaces as domain.ErrPaymentDeclined.
	Charge(ctx context.Context, amount float64, currency, description string) (refID string, err error)
}
