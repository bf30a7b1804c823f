package payments

import "context"

// Verifier confirms a payment notification with the gateway before the
// order is marked paid. A nil Verifier means notifications are trusted
// as-is, which is only acceptable with the demo provider.
type Verifier interface {
	VerifyPayment(ctx context.Context, orderTrackingID string) (string, error)
}
