package dialog

import (
	"context"

	"github.com/jayrweg/afya-plus/entity"
)

// PaymentProvider creates checkouts for selected services. Implementations
// must produce tokens unique across all calls for the lifetime of the order
// store; the engine treats a collision as an invariant violation.
type PaymentProvider interface {
	CreateCheckout(ctx context.Context, amountTZS int, description string) (*entity.CheckoutResult, error)
}

// TurnListener is notified of every conversation turn. This lets the
// WebSocket monitor observe traffic without coupling the engine to any
// transport.
type TurnListener interface {
	ChatTurn(msg entity.ChatMessage)
}
