// Package payment provides the demo payment provider used when no real
// gateway is configured.
package payment

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
)

const defaultCheckoutBase = "https://pay.afyabot.local/checkout"

// DemoProvider issues locally generated tokens with no external call.
type DemoProvider struct {
	checkoutBase string
	log          *slog.Logger
}

// NewDemoProvider creates a demo provider. checkoutBase may be empty.
func NewDemoProvider(checkoutBase string, log *slog.Logger) *DemoProvider {
	if checkoutBase == "" {
		checkoutBase = defaultCheckoutBase
	}
	return &DemoProvider{
		checkoutBase: strings.TrimRight(checkoutBase, "/"),
		log:          log.With(sl.Module("payment.demo")),
	}
}

// CreateCheckout generates a unique local token and manual payment
// instructions. It never fails.
func (p *DemoProvider) CreateCheckout(_ context.Context, amountTZS int, description string) (*entity.CheckoutResult, error) {
	token := uuid.NewString()
	checkoutURL := fmt.Sprintf("%s/%s", p.checkoutBase, token)

	instructions := fmt.Sprintf(
		"Amount: TZS %d\nService: %s\n\n"+
			"Payment is not integrated yet. For now:\n"+
			"1) Copy this token\n"+
			"2) Simulate payment by replying: paid <token>",
		amountTZS, description,
	)

	p.log.Debug("demo checkout created",
		slog.Int("amount_tzs", amountTZS),
		slog.String("description", description),
	)

	return &entity.CheckoutResult{
		Token:        token,
		Instructions: instructions,
		CheckoutURL:  checkoutURL,
	}, nil
}
