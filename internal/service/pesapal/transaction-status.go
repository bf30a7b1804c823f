package pesapal

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// TransactionStatus is the gateway's view of a submitted order.
type TransactionStatus struct {
	OrderTrackingID  string  `json:"order_tracking_id"`
	PaymentStatus    string  `json:"payment_status_description"`
	Amount           float64 `json:"amount"`
	ConfirmationCode string  `json:"confirmation_code"`
	PaymentMethod    string  `json:"payment_method"`
	StatusCode       int     `json:"status_code"`
}

// GetTransactionStatus verifies a transaction with the gateway. Used by the
// IPN webhook before trusting a payment notification.
func (s *PesapalService) GetTransactionStatus(ctx context.Context, orderTrackingID string) (*TransactionStatus, error) {
	token, err := s.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	reqURL := fmt.Sprintf("%s/api/Transactions/GetTransactionStatus?orderTrackingId=%s",
		s.baseURL, url.QueryEscape(orderTrackingID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("pesapal status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	var status TransactionStatus
	if err := json.Unmarshal(bodyBytes, &status); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if status.OrderTrackingID == "" {
		status.OrderTrackingID = orderTrackingID
	}

	return &status, nil
}
