package port

import (
	"context"

	"github.com/rl1809/commerce-core/internal/core/domain"
)

// PaymentGateway creates payment intents and verifies payment authenticity.
type PaymentGateway interface {
	// CreateIntent registers an intent for amount in minor currency units.
	CreateIntent(ctx context.Context, amount int64, currency string) (domain.PaymentIntent, error)

	// VerifySignature recomputes the keyed hash over intentID and paymentRef
	// and compares it to the client-supplied signature in constant time.
	VerifySignature(intentID, paymentRef, signature string) bool
}
