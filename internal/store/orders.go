// Package store keeps created orders by confirmation token.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/jayrweg/afya-plus/entity"
)

// ErrTokenCollision is returned when a new order reuses an existing
// confirmation token. Payment confirmation relies on exact token matching,
// so a collision is an invariant violation.
var ErrTokenCollision = errors.New("order token collision")

// Archive persists orders outside process memory. Optional; the Mongo
// repository satisfies it.
type Archive interface {
	SaveOrder(ctx context.Context, order *entity.Order) error
	UpdateOrderStatus(ctx context.Context, token string, status entity.OrderStatus) error
}

// Orders is the in-memory order store. Orders are never deleted; paid and
// pending records are retained for the lifetime of the process, with an
// optional archive copy.
type Orders struct {
	mu      sync.RWMutex
	byToken map[string]*entity.Order
	archive Archive
}

// NewOrders creates an empty order store.
func NewOrders() *Orders {
	return &Orders{
		byToken: make(map[string]*entity.Order),
	}
}

// SetArchive attaches an external archive. Archive failures are not fatal
// to the store; callers log them.
func (o *Orders) SetArchive(a Archive) {
	o.archive = a
}

// Add registers a new order by its token.
func (o *Orders) Add(ctx context.Context, order *entity.Order) error {
	o.mu.Lock()
	if _, exists := o.byToken[order.Token]; exists {
		o.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrTokenCollision, order.Token)
	}
	o.byToken[order.Token] = order
	o.mu.Unlock()

	if o.archive != nil {
		if err := o.archive.SaveOrder(ctx, order); err != nil {
			return fmt.Errorf("archive order: %w", err)
		}
	}
	return nil
}

// GetByToken returns the order with the given token, or nil.
func (o *Orders) GetByToken(token string) *entity.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.byToken[token]
}

// MarkPaid transitions an order from pending to paid. The transition is
// monotonic: a paid order stays paid and any other transition is rejected.
func (o *Orders) MarkPaid(ctx context.Context, token string) error {
	o.mu.Lock()
	order, ok := o.byToken[token]
	if !ok {
		o.mu.Unlock()
		return fmt.Errorf("order not found: %s", token)
	}
	if order.Status == entity.OrderStatusPaid {
		o.mu.Unlock()
		return nil
	}
	order.Status = entity.OrderStatusPaid
	o.mu.Unlock()

	if o.archive != nil {
		if err := o.archive.UpdateOrderStatus(ctx, token, entity.OrderStatusPaid); err != nil {
			return fmt.Errorf("archive order status: %w", err)
		}
	}
	return nil
}

// All returns a snapshot of every known order.
func (o *Orders) All() []*entity.Order {
	o.mu.RLock()
	defer o.mu.RUnlock()

	orders := make([]*entity.Order, 0, len(o.byToken))
	for _, order := range o.byToken {
		orders = append(orders, order)
	}
	return orders
}
