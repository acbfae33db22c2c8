// Package payment abstracts the external payment processor.
//
// Stallgate never stores card details; they pass through an Approver and
// are forgotten. The real processor sits outside this system, so the
// default implementation is a deterministic-enough stub for development
// and tests.
package payment

import (
	"context"
	"math/rand"
	"sync"

	"github.com/openstall/stallgate/internal/core/domain"
)

// MinCardDigits is the minimum number of digits a card number must carry
// before the stub even considers approval.
const MinCardDigits = 12

// DefaultApprovalRate matches the upstream stub: roughly nine in ten
// well-formed payments approve.
const DefaultApprovalRate = 0.9

// Approver decides whether a payment goes through.
type Approver interface {
	// Approve returns nil when the payment is accepted and
	// ErrPaymentDeclined otherwise.
	Approve(ctx context.Context, card domain.PaymentCard, amount float64) error
}

// StubApprover simulates a processor: card numbers with fewer than
// MinCardDigits digits always decline, anything else approves with the
// configured probability.
type StubApprover struct {
	rate float64

	mu  sync.Mutex
	rng *rand.Rand
}

// NewStubApprover creates a stub with the given approval rate. Rates
// outside [0, 1] fall back to the default.
func NewStubApprover(rate float64, seed int64) *StubApprover {
	if rate < 0 || rate > 1 {
		rate = DefaultApprovalRate
	}
	return &StubApprover{
		rate: rate,
		rng:  rand.New(rand.NewSource(seed)),
	}
}

// Approve implements Approver.
func (a *StubApprover) Approve(_ context.Context, card domain.PaymentCard, _ float64) error {
	if countDigits(card.Number) < MinCardDigits {
		return domain.ErrPaymentDeclined.WithDetails("card number too short")
	}

	a.mu.Lock()
	roll := a.rng.Float64()
	a.mu.Unlock()

	if roll >= a.rate {
		return domain.ErrPaymentDeclined
	}
	return nil
}

func countDigits(s string) int {
	n := 0
	for _, r := range s {
		if r >= '0' && r <= '9' {
			n++
		}
	}
	return n
}

// AlwaysApprove is an Approver that accepts every well-formed card.
// Useful in tests exercising the purchase flow deterministically.
type AlwaysApprove struct{}

// Approve implements Approver.
func (AlwaysApprove) Approve(_ context.Context, card domain.PaymentCard, _ float64) error {
	if countDigits(card.Number) < MinCardDigits {
		return domain.ErrPaymentDeclined.WithDetails("card number too short")
	}
	return nil
}
