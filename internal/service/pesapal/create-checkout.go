package pesapal

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/jayrweg/afya-plus/entity"
)

// CreateCheckout submits an order request to Pesapal and returns the
// gateway's tracking id as the confirmation token plus its redirect URL.
// Any HTTP or authentication failure surfaces as an error; a response
// without a tracking id is treated the same way, never as a half-built
// checkout.
func (s *PesapalService) CreateCheckout(ctx context.Context, amountTZS int, description string) (*entity.CheckoutResult, error) {
	ipnID, err := s.ensureIPN(ctx)
	if err != nil {
		return nil, err
	}

	payload := map[string]any{
		"id":              fmt.Sprintf("AFYA-%d-%s", amountTZS, uuid.NewString()[:8]),
		"currency":        "TZS",
		"amount":          float64(amountTZS),
		"description":     description,
		"callback_url":    s.callbackURL,
		"notification_id": ipnID,
		"branch":          "Afya+",
		"redirect_mode":   "TOP_WINDOW",
		"billing_address": map[string]string{
			"country_code": "TZ",
		},
	}

	var result struct {
		OrderTrackingID string `json:"order_tracking_id"`
		RedirectURL     string `json:"redirect_url"`
		Status          string `json:"status"`
		Error           any    `json:"error"`
	}
	if err := s.post(ctx, pathSubmitOrder, payload, &result); err != nil {
		return nil, fmt.Errorf("submit order: %w", err)
	}

	if result.OrderTrackingID == "" {
		return nil, fmt.Errorf("submit order: no tracking id, status=%s error=%v", result.Status, result.Error)
	}

	s.log.Info("pesapal checkout created",
		slog.String("order_tracking_id", result.OrderTrackingID),
		slog.Int("amount_tzs", amountTZS),
	)

	return &entity.CheckoutResult{
		Token:        result.OrderTrackingID,
		Instructions: fmt.Sprintf("Please pay TZS %d via Pesapal. Order ID: %s", amountTZS, result.OrderTrackingID),
		CheckoutURL:  result.RedirectURL,
	}, nil
}
