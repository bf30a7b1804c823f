package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/jayrweg/afya-plus/entity"
)

func newOrder(token string) *entity.Order {
	return &entity.Order{
		ServiceCode: "gp_chat",
		ServiceName: "GP Chat",
		AmountTZS:   100,
		Token:       token,
		Status:      entity.OrderStatusPending,
	}
}

func TestAddAndGet(t *testing.T) {
	o := NewOrders()

	if err := o.Add(context.Background(), newOrder("tok-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if got := o.GetByToken("tok-1"); got == nil || got.ServiceCode != "gp_chat" {
		t.Fatalf("get returned %+v", got)
	}
	if got := o.GetByToken("tok-2"); got != nil {
		t.Fatalf("unexpected order for unknown token: %+v", got)
	}
}

func TestAddRejectsDuplicateToken(t *testing.T) {
	o := NewOrders()

	if err := o.Add(context.Background(), newOrder("tok-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	err := o.Add(context.Background(), newOrder("tok-1"))
	if !errors.Is(err, ErrTokenCollision) {
		t.Fatalf("err = %v, want token collision", err)
	}
}

func TestMarkPaidIsMonotonic(t *testing.T) {
	o := NewOrders()
	if err := o.Add(context.Background(), newOrder("tok-1")); err != nil {
		t.Fatalf("add: %v", err)
	}

	if err := o.MarkPaid(context.Background(), "tok-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	if got := o.GetByToken("tok-1").Status; got != entity.OrderStatusPaid {
		t.Fatalf("status = %q, want paid", got)
	}

	// Repeating the transition is a no-op, not an error.
	if err := o.MarkPaid(context.Background(), "tok-1"); err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	if got := o.GetByToken("tok-1").Status; got != entity.OrderStatusPaid {
		t.Fatalf("status = %q after idempotent call", got)
	}
}

func TestMarkPaidUnknownToken(t *testing.T) {
	o := NewOrders()
	if err := o.MarkPaid(context.Background(), "tok-404"); err == nil {
		t.Fatal("expected error for unknown token")
	}
}

type recordingArchive struct {
	mu      sync.Mutex
	saved   []string
	updated []string
	fail    bool
}

func (a *recordingArchive) SaveOrder(_ context.Context, order *entity.Order) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("mongo down")
	}
	a.saved = append(a.saved, order.Token)
	return nil
}

func (a *recordingArchive) UpdateOrderStatus(_ context.Context, token string, _ entity.OrderStatus) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.fail {
		return errors.New("mongo down")
	}
	a.updated = append(a.updated, token)
	return nil
}

func TestArchiveReceivesWrites(t *testing.T) {
	o := NewOrders()
	arch := &recordingArchive{}
	o.SetArchive(arch)

	if err := o.Add(context.Background(), newOrder("tok-1")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := o.MarkPaid(context.Background(), "tok-1"); err != nil {
		t.Fatalf("mark paid: %v", err)
	}

	if len(arch.saved) != 1 || arch.saved[0] != "tok-1" {
		t.Fatalf("archive saves = %v", arch.saved)
	}
	if len(arch.updated) != 1 || arch.updated[0] != "tok-1" {
		t.Fatalf("archive updates = %v", arch.updated)
	}
}

func TestArchiveFailureKeepsStoreState(t *testing.T) {
	o := NewOrders()
	arch := &recordingArchive{fail: true}
	o.SetArchive(arch)

	if err := o.Add(context.Background(), newOrder("tok-1")); err == nil {
		t.Fatal("expected archive error surfaced")
	}
	// The in-memory record survives so payment confirmation can proceed.
	if got := o.GetByToken("tok-1"); got == nil {
		t.Fatal("order missing after archive failure")
	}
}

func TestConcurrentAdds(t *testing.T) {
	o := NewOrders()

	const n = 50
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = o.Add(context.Background(), newOrder(fmt.Sprintf("tok-%d", i)))
		}(i)
	}
	wg.Wait()

	if got := len(o.All()); got != n {
		t.Fatalf("order count = %d, want %d", got, n)
	}
}
