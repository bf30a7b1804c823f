package pesapal

import (
	"context"
	"strings"
)

// VerifyPayment checks a transaction with the gateway and reports its
// normalized payment status in lowercase ("completed", "failed", "pending").
func (s *PesapalService) VerifyPayment(ctx context.Context, orderTrackingID string) (string, error) {
	status, err := s.GetTransactionStatus(ctx, orderTrackingID)
	if err != nil {
		return "", err
	}
	return strings.ToLower(status.PaymentStatus), nil
}
