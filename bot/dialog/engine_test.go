package dialog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/session"
	"github.com/jayrweg/afya-plus/internal/store"
)

type fakeProvider struct {
	mu    sync.Mutex
	calls int
	fail  bool
	url   string
}

func (f *fakeProvider) CreateCheckout(_ context.Context, _ int, _ string) (*entity.CheckoutResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fail {
		return nil, errors.New("gateway unavailable")
	}
	f.calls++
	return &entity.CheckoutResult{
		Token:        fmt.Sprintf("tok-%04d", f.calls),
		Instructions: "pay manually",
		CheckoutURL:  f.url,
	}, nil
}

func newTestEngine(opts ...Option) (*Engine, *fakeProvider) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	fp := &fakeProvider{}
	e := New(session.NewStore(), store.NewOrders(), fp, nil, lg, opts...)
	return e, fp
}

// turn sends one message and fails the test on an empty session id.
func turn(t *testing.T, e *Engine, id, msg string) (string, entity.Reply) {
	t.Helper()
	id, reply := e.HandleMessage(context.Background(), id, msg)
	if id == "" {
		t.Fatal("empty session id")
	}
	return id, reply
}

func TestGreetingShowsLanguageChooser(t *testing.T) {
	e, _ := newTestEngine()

	_, reply := turn(t, e, "", "hi")
	if !strings.Contains(reply.Text, "Chagua lugha") {
		t.Fatalf("expected language chooser, got: %s", reply.Text)
	}
	if !strings.Contains(reply.Text, "Afyabot") {
		t.Fatalf("expected brand line in chooser, got: %s", reply.Text)
	}
}

func TestLanguageChoice(t *testing.T) {
	cases := []struct {
		name  string
		input string
		lang  entity.Language
		want  string
	}{
		{"number sw", "1", entity.LangSW, "Afyaplus inakuletea"},
		{"keyword sw", "kiswahili", entity.LangSW, "Afyaplus inakuletea"},
		{"number en", "2", entity.LangEN, "Afya+ services"},
		{"keyword en", "english", entity.LangEN, "Afya+ services"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e, _ := newTestEngine()
			id, _ := turn(t, e, "", "hi")
			id, reply := turn(t, e, id, tc.input)

			if !strings.Contains(reply.Text, tc.want) {
				t.Fatalf("expected main menu, got: %s", reply.Text)
			}
			sess := e.Sessions().Peek(id)
			if sess.Language != tc.lang {
				t.Fatalf("language = %q, want %q", sess.Language, tc.lang)
			}
			if sess.Stage != entity.StageMainMenu {
				t.Fatalf("stage = %q, want main menu", sess.Stage)
			}
		})
	}
}

func TestInvalidLanguageReprompts(t *testing.T) {
	e, _ := newTestEngine()
	id, _ := turn(t, e, "", "hi")
	id, reply := turn(t, e, id, "3")

	if !strings.Contains(reply.Text, "lugha sahihi") {
		t.Fatalf("expected invalid language prompt, got: %s", reply.Text)
	}
	if sess := e.Sessions().Peek(id); sess.Language != entity.LangNone {
		t.Fatalf("language set on invalid choice: %q", sess.Language)
	}
}

// startCheckout walks a fresh session to the point where a GP chat
// checkout has just been created.
func startCheckout(t *testing.T, e *Engine) string {
	t.Helper()
	id, _ := turn(t, e, "", "hi")
	id, _ = turn(t, e, id, "1") // Kiswahili
	id, _ = turn(t, e, id, "1") // GP
	id, reply := turn(t, e, id, "1") // chat channel

	if !strings.Contains(reply.Text, "Amount: TZS 100") {
		t.Fatalf("expected checkout reply, got: %s", reply.Text)
	}
	return id
}

func TestFullCheckoutRoundTrip(t *testing.T) {
	e, _ := newTestEngine()
	id := startCheckout(t, e)

	sess := e.Sessions().Peek(id)
	if sess.ActiveOrder == nil {
		t.Fatal("no active order after checkout")
	}
	if sess.Stage != entity.StageCollectName {
		t.Fatalf("stage = %q, want collect name", sess.Stage)
	}
	token := sess.ActiveOrder.Token

	id, reply := turn(t, e, id, "Jane Doe")
	if !strings.Contains(reply.Text, "namba yako ya simu") {
		t.Fatalf("expected phone prompt, got: %s", reply.Text)
	}

	id, reply = turn(t, e, id, "0712345678")
	if !strings.Contains(reply.Text, "paid "+token) {
		t.Fatalf("expected payment summary with token, got: %s", reply.Text)
	}
	if !strings.Contains(reply.Text, "Name: Jane Doe") {
		t.Fatalf("summary missing name: %s", reply.Text)
	}

	sess = e.Sessions().Peek(id)
	if sess.Stage != entity.StageAwaitPayment {
		t.Fatalf("stage = %q, want awaiting payment", sess.Stage)
	}

	id, reply = turn(t, e, id, "paid "+token)
	if !strings.Contains(reply.Text, "Asante") {
		t.Fatalf("expected confirmation, got: %s", reply.Text)
	}
	if !strings.Contains(reply.Text, "Afyaplus inakuletea") {
		t.Fatalf("expected main menu after confirmation, got: %s", reply.Text)
	}

	sess = e.Sessions().Peek(id)
	if sess.ActiveOrder != nil {
		t.Fatal("active order not cleared after payment")
	}
	if sess.Stage != entity.StageMainMenu {
		t.Fatalf("stage = %q, want main menu", sess.Stage)
	}

	order := e.Orders().GetByToken(token)
	if order == nil {
		t.Fatal("paid order missing from store")
	}
	if order.Status != entity.OrderStatusPaid {
		t.Fatalf("order status = %q, want paid", order.Status)
	}
	if order.UserName != "Jane Doe" || order.UserPhone != "0712345678" {
		t.Fatalf("order details not committed: %+v", order)
	}
}

// The active order exists exactly while the session is collecting
// checkout details or awaiting payment.
func TestActiveOrderMatchesStage(t *testing.T) {
	e, _ := newTestEngine()

	check := func(id string) {
		t.Helper()
		sess := e.Sessions().Peek(id)
		collecting := sess.Stage.CollectingOrder()
		if collecting != (sess.ActiveOrder != nil) {
			t.Fatalf("stage %q with active order %v", sess.Stage, sess.ActiveOrder != nil)
		}
	}

	id, _ := turn(t, e, "", "hi")
	check(id)
	id, _ = turn(t, e, id, "1")
	check(id)
	id, _ = turn(t, e, id, "1")
	check(id)
	id, _ = turn(t, e, id, "1")
	check(id)
	id, _ = turn(t, e, id, "Jane Doe")
	check(id)
	id, _ = turn(t, e, id, "0712345678")
	check(id)

	token := e.Sessions().Peek(id).ActiveOrder.Token
	id, _ = turn(t, e, id, "paid "+token)
	check(id)
}

func TestResetMidCheckout(t *testing.T) {
	e, _ := newTestEngine()
	id := startCheckout(t, e)

	id, reply := turn(t, e, id, "start")
	if !strings.Contains(reply.Text, "Chagua lugha") {
		t.Fatalf("expected language chooser after reset, got: %s", reply.Text)
	}

	sess := e.Sessions().Peek(id)
	if sess.Language != entity.LangNone {
		t.Fatalf("language survived reset: %q", sess.Language)
	}
	if sess.ActiveOrder != nil {
		t.Fatal("active order survived reset")
	}
}

func TestMenuJumpAbandonsCheckout(t *testing.T) {
	e, _ := newTestEngine()
	id := startCheckout(t, e)

	id, reply := turn(t, e, id, "menu")
	if !strings.Contains(reply.Text, "Afyaplus inakuletea") {
		t.Fatalf("expected main menu, got: %s", reply.Text)
	}

	sess := e.Sessions().Peek(id)
	if sess.Stage != entity.StageMainMenu {
		t.Fatalf("stage = %q, want main menu", sess.Stage)
	}
	if sess.ActiveOrder != nil {
		t.Fatal("active order kept after menu jump")
	}
	if sess.Language != entity.LangSW {
		t.Fatal("language lost on menu jump")
	}
}

func TestUnknownMainMenuInputRerendersMenu(t *testing.T) {
	e, _ := newTestEngine()
	id, _ := turn(t, e, "", "hi")
	id, first := turn(t, e, id, "1")
	id, again := turn(t, e, id, "weather please")

	if again.Text != first.Text {
		t.Fatalf("expected identical menu rendering, got:\n%s\nvs\n%s", again.Text, first.Text)
	}
	if sess := e.Sessions().Peek(id); sess.Stage != entity.StageMainMenu {
		t.Fatalf("stage changed on unknown input: %q", sess.Stage)
	}
}

func TestNameValidation(t *testing.T) {
	e, _ := newTestEngine()
	id := startCheckout(t, e)

	id, reply := turn(t, e, id, "J")
	if !strings.Contains(reply.Text, "fupi mno") {
		t.Fatalf("expected short name rejection, got: %s", reply.Text)
	}
	if sess := e.Sessions().Peek(id); sess.Stage != entity.StageCollectName {
		t.Fatalf("stage moved on invalid name: %q", sess.Stage)
	}

	id, reply = turn(t, e, id, "  Jo  ")
	if !strings.Contains(reply.Text, "namba yako ya simu") {
		t.Fatalf("expected phone prompt after valid name, got: %s", reply.Text)
	}
}

func TestPhoneValidation(t *testing.T) {
	valid := []string{"255712345678", "0712345678", "+255712345678"}
	invalid := []string{"712345678", "07abc45678", "06274", "mail@example.com"}

	for _, phone := range valid {
		t.Run("accept "+phone, func(t *testing.T) {
			e, _ := newTestEngine()
			id := startCheckout(t, e)
			id, _ = turn(t, e, id, "Jane Doe")
			id, reply := turn(t, e, id, phone)

			if !strings.Contains(reply.Text, "Phone: "+phone) {
				t.Fatalf("expected summary, got: %s", reply.Text)
			}
			if sess := e.Sessions().Peek(id); sess.Stage != entity.StageAwaitPayment {
				t.Fatalf("stage = %q, want awaiting payment", sess.Stage)
			}
		})
	}

	for _, phone := range invalid {
		t.Run("reject "+phone, func(t *testing.T) {
			e, _ := newTestEngine()
			id := startCheckout(t, e)
			id, _ = turn(t, e, id, "Jane Doe")
			id, reply := turn(t, e, id, phone)

			if !strings.Contains(reply.Text, "si sahihi") {
				t.Fatalf("expected phone rejection, got: %s", reply.Text)
			}
			if sess := e.Sessions().Peek(id); sess.Stage != entity.StageCollectPhone {
				t.Fatalf("stage moved on invalid phone: %q", sess.Stage)
			}
		})
	}
}

func TestPaidMismatchChangesNothing(t *testing.T) {
	e, _ := newTestEngine()
	id := startCheckout(t, e)
	id, _ = turn(t, e, id, "Jane Doe")
	id, _ = turn(t, e, id, "0712345678")

	token := e.Sessions().Peek(id).ActiveOrder.Token

	for i := 0; i < 3; i++ {
		id, reply := turn(t, e, id, "paid wrong-token")
		if !strings.Contains(reply.Text, "paid <token>") {
			t.Fatalf("expected invalid payment reply, got: %s", reply.Text)
		}
		sess := e.Sessions().Peek(id)
		if sess.Stage != entity.StageAwaitPayment || sess.ActiveOrder == nil {
			t.Fatal("mismatched paid mutated the session")
		}
	}

	if order := e.Orders().GetByToken(token); order.Status != entity.OrderStatusPending {
		t.Fatalf("order status = %q, want pending", order.Status)
	}
}

func TestPaidWithoutOrder(t *testing.T) {
	e, _ := newTestEngine()
	id, _ := turn(t, e, "", "hi")
	id, _ = turn(t, e, id, "1")
	id, reply := turn(t, e, id, "paid tok-0001")

	if !strings.Contains(reply.Text, "paid <token>") {
		t.Fatalf("expected invalid payment reply, got: %s", reply.Text)
	}
	if sess := e.Sessions().Peek(id); sess.Stage != entity.StageMainMenu {
		t.Fatalf("stage changed: %q", sess.Stage)
	}
}

func TestProviderFailureLeavesStage(t *testing.T) {
	e, fp := newTestEngine()
	id, _ := turn(t, e, "", "hi")
	id, _ = turn(t, e, id, "1")
	id, _ = turn(t, e, id, "1") // GP menu

	fp.fail = true
	id, reply := turn(t, e, id, "1")

	if !strings.Contains(reply.Text, "jaribu tena") {
		t.Fatalf("expected payment failure reply, got: %s", reply.Text)
	}
	sess := e.Sessions().Peek(id)
	if sess.Stage != entity.StageGP {
		t.Fatalf("stage = %q, want GP menu", sess.Stage)
	}
	if sess.ActiveOrder != nil {
		t.Fatal("order attached despite provider failure")
	}

	// Retry succeeds once the provider recovers.
	fp.fail = false
	id, reply = turn(t, e, id, "1")
	if !strings.Contains(reply.Text, "Amount: TZS 100") {
		t.Fatalf("expected checkout after retry, got: %s", reply.Text)
	}
}

func TestAwaitPaymentRerendersSummary(t *testing.T) {
	e, _ := newTestEngine()
	id := startCheckout(t, e)
	id, _ = turn(t, e, id, "Jane Doe")
	id, summary := turn(t, e, id, "0712345678")

	id, reply := turn(t, e, id, "what now?")
	if reply.Text != summary.Text {
		t.Fatalf("expected summary re-render, got: %s", reply.Text)
	}
}

func TestConfiguredPricesOverrideDefaults(t *testing.T) {
	lg := slog.New(slog.NewTextHandler(io.Discard, nil))
	fp := &fakeProvider{}
	prices := map[string]int{"gp_chat": 2500}
	e := New(session.NewStore(), store.NewOrders(), fp, prices, lg)

	id, _ := turn(t, e, "", "hi")
	id, _ = turn(t, e, id, "1")
	id, _ = turn(t, e, id, "1")
	_, reply := turn(t, e, id, "1")

	if !strings.Contains(reply.Text, "Amount: TZS 2500") {
		t.Fatalf("expected configured price, got: %s", reply.Text)
	}
}

func TestTokensUniqueAcrossSessions(t *testing.T) {
	e, _ := newTestEngine()

	const n = 20
	seen := make(map[string]bool, n)
	for i := 0; i < n; i++ {
		id := startCheckout(t, e)
		token := e.Sessions().Peek(id).ActiveOrder.Token
		if seen[token] {
			t.Fatalf("duplicate token %s", token)
		}
		seen[token] = true
	}
	if got := len(e.Orders().All()); got != n {
		t.Fatalf("order count = %d, want %d", got, n)
	}
}

func TestRichRepliesCarryActions(t *testing.T) {
	e, _ := newTestEngine(WithRichReplies())

	id, reply := turn(t, e, "", "hi")
	if reply.Action != entity.ActionLanguageChooser {
		t.Fatalf("action = %q, want language chooser", reply.Action)
	}
	id, reply = turn(t, e, id, "1")
	if reply.Action != entity.ActionMainMenu {
		t.Fatalf("action = %q, want main menu", reply.Action)
	}
	if reply.Text == "" {
		t.Fatal("rich reply lost its text fallback")
	}
	id, reply = turn(t, e, id, "3")
	if reply.Action != entity.ActionHomeDoctorMenu {
		t.Fatalf("action = %q, want home doctor menu", reply.Action)
	}

	// Payment confirmation keeps the menu action and prepends the
	// confirmation line to the fallback text.
	id, _ = turn(t, e, id, "1")
	token := e.Sessions().Peek(id).ActiveOrder.Token
	id, _ = turn(t, e, id, "Jane Doe")
	id, _ = turn(t, e, id, "0712345678")
	_, reply = turn(t, e, id, "paid "+token)
	if reply.Action != entity.ActionMainMenu {
		t.Fatalf("action = %q, want main menu", reply.Action)
	}
	if !strings.HasPrefix(reply.Text, "Asante") {
		t.Fatalf("confirmation not prepended: %s", reply.Text)
	}
}

func TestConcurrentSessionsIndependent(t *testing.T) {
	e, _ := newTestEngine()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			id, _ := e.HandleMessage(context.Background(), "", "hi")
			id, _ = e.HandleMessage(context.Background(), id, "1")
			id, _ = e.HandleMessage(context.Background(), id, "1")
			id, _ = e.HandleMessage(context.Background(), id, "1")

			sess := e.Sessions().Peek(id)
			if sess.ActiveOrder == nil {
				errs <- fmt.Errorf("session %s lost its order", id)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatal(err)
	}

	if got := e.Sessions().Len(); got != n {
		t.Fatalf("session count = %d, want %d", got, n)
	}
	if got := len(e.Orders().All()); got != n {
		t.Fatalf("order count = %d, want %d", got, n)
	}
}

func TestConcurrentTurnsSameSessionSerialized(t *testing.T) {
	e, _ := newTestEngine()
	id, _ := turn(t, e, "", "hi")
	id, _ = turn(t, e, id, "1")

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.HandleMessage(context.Background(), id, "menu")
		}()
	}
	wg.Wait()

	sess := e.Sessions().Peek(id)
	if sess.Stage != entity.StageMainMenu {
		t.Fatalf("stage = %q after concurrent menu turns", sess.Stage)
	}
}
