package payment

import (
	"context"
	"crypto/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"virtualfit-backend/internal/domain/ports/adapter"
)

var _ adapter.PaymentGateway = (*SimulatedGateway)(nil)

// SimulatedGateway stands in for a real card processor. Every charge succeeds
// and gets a ULID reference id. Swapping in a real provider means implementing
// adapter.PaymentGateway with network calls, timeouts, and retries behind the
// same method.
type SimulatedGateway struct {
	log *zerolog.Logger
}

func NewSimulatedGateway(logger *zerolog.Logger) *SimulatedGateway {
	return &SimulatedGateway{log: logger}
}

func (g *SimulatedGateway) Name() string { return "simulated" }

func (g *SimulatedGateway) Charge(ctx context.Context, amount float64, currency, description string) (string, error) {
	ref := ulid.MustNew(ulid.Timestamp(time.Now()), rand.Reader).String()
	g.log.Info().
		Str("gateway", g.Name()).
		Float64("amount", amount).
		Str("currency", currency).
		Str("ref_id", ref).
		Msg("simulated payment approved")
	return ref, nil
}
