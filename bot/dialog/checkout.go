package dialog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/catalog"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
	"github.com/jayrweg/afya-plus/internal/store"
)

// Session context keys for in-progress checkout fields.
const (
	ctxKeyUserName     = "user_name"
	ctxKeyCheckoutURL  = "checkout_url"
	ctxKeyInstructions = "payment_instructions"
)

// createCheckout obtains a token from the payment provider and only then
// attaches a fresh order to the session. A slow or failing provider leaves
// the session in its pre-checkout stage so the user can retry.
func (e *Engine) createCheckout(ctx context.Context, sess *entity.Session, opt serviceOption) entity.Reply {
	amount := e.priceOf(opt)

	cctx, cancel := context.WithTimeout(ctx, e.checkoutTimeout)
	defer cancel()

	result, err := e.payments.CreateCheckout(cctx, amount, opt.name)
	if err != nil {
		e.log.Error("checkout failed",
			slog.String("session_id", sess.ID),
			slog.String("service_code", opt.code),
			sl.Err(err),
		)
		return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyPaymentFailed))
	}

	order := &entity.Order{
		ServiceCode: opt.code,
		ServiceName: opt.name,
		AmountTZS:   amount,
		Channel:     opt.channel,
		Token:       result.Token,
		CheckoutURL: result.CheckoutURL,
		Status:      entity.OrderStatusPending,
	}

	if err := e.orders.Add(ctx, order); err != nil {
		if errors.Is(err, store.ErrTokenCollision) {
			e.log.Error("checkout token collision",
				slog.String("session_id", sess.ID),
				slog.String("token", result.Token),
			)
			return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyPaymentFailed))
		}
		// Archive failures are logged but do not abort the checkout.
		e.log.Warn("order archive write failed", sl.Err(err))
	}

	sess.ActiveOrder = order
	sess.Set(ctxKeyCheckoutURL, result.CheckoutURL)
	sess.Set(ctxKeyInstructions, result.Instructions)
	sess.Stage = entity.StageCollectName

	lines := []string{
		catalog.T(sess.Language, catalog.KeyCheckoutCreated),
		fmt.Sprintf("Amount: TZS %d", amount),
		fmt.Sprintf("Service: %s", opt.name),
		"",
		catalog.T(sess.Language, catalog.KeyAskName),
	}
	return entity.TextReply(sess.Language, strings.Join(lines, "\n"))
}

// handleCollectName accepts any trimmed input of at least two characters,
// preserving the original casing for display.
func (e *Engine) handleCollectName(sess *entity.Session, raw string) entity.Reply {
	name := strings.TrimSpace(raw)
	if len([]rune(name)) < 2 {
		return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyNameTooShort))
	}

	sess.Set(ctxKeyUserName, name)
	sess.Stage = entity.StageCollectPhone
	return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyAskPhone))
}

// handleCollectPhone validates the phone, commits the collected fields onto
// the active order, and renders the payment summary.
func (e *Engine) handleCollectPhone(sess *entity.Session, raw string) entity.Reply {
	phone := strings.TrimSpace(raw)
	if !validPhone(phone) {
		return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyInvalidPhone))
	}

	sess.ActiveOrder.UserName = sess.GetString(ctxKeyUserName)
	sess.ActiveOrder.UserPhone = phone
	sess.Stage = entity.StageAwaitPayment

	return entity.TextReply(sess.Language, e.paymentSummary(sess))
}

// validPhone accepts Tanzanian numbers: digits only after an optional
// leading "+", starting with 255 or 0.
func validPhone(phone string) bool {
	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < 9 {
		return false
	}
	for _, ch := range digits {
		if ch < '0' || ch > '9' {
			return false
		}
	}
	return strings.HasPrefix(digits, "255") || strings.HasPrefix(digits, "0")
}

// paymentSummary renders the awaiting-payment screen: amount, service,
// collected details, the pay link when the provider returned one, and the
// manual confirmation instruction.
func (e *Engine) paymentSummary(sess *entity.Session) string {
	order := sess.ActiveOrder
	if order == nil {
		return catalog.T(sess.Language, catalog.KeyFallback)
	}

	lines := []string{
		catalog.T(sess.Language, catalog.KeyCheckoutCreated),
		fmt.Sprintf("Amount: TZS %d", order.AmountTZS),
		fmt.Sprintf("Service: %s", order.ServiceName),
		fmt.Sprintf("Name: %s", order.UserName),
		fmt.Sprintf("Phone: %s", order.UserPhone),
	}
	if url := sess.GetString(ctxKeyCheckoutURL); url != "" {
		lines = append(lines, fmt.Sprintf("Pay: %s", url))
	} else {
		lines = append(lines, "Payment is not integrated (demo).")
	}
	lines = append(lines, "", "After payment, type: paid "+order.Token)
	return strings.Join(lines, "\n")
}

// paidRe matches "paid", one or more spaces, then a token of non-whitespace
// characters to end of line.
var paidRe = regexp.MustCompile(`(?i)^paid\s+(\S+)\s*$`)

// handlePaid confirms a manual payment. Token comparison is exact string
// equality against the active order; a mismatch or a missing order reports
// an invalid payment and changes nothing, so the command is idempotent on
// failure.
func (e *Engine) handlePaid(ctx context.Context, sess *entity.Session, raw string) entity.Reply {
	if sess.ActiveOrder == nil {
		return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyPaidInvalid))
	}

	m := paidRe.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyPaidInvalid))
	}

	token := m[1]
	if token != sess.ActiveOrder.Token {
		return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyPaidInvalid))
	}

	if err := e.orders.MarkPaid(ctx, token); err != nil {
		// The order record is shared with the store; archive errors only.
		e.log.Warn("order archive status update failed", sl.Err(err))
	}
	sess.ActiveOrder.Status = entity.OrderStatusPaid

	e.log.Info("payment confirmed",
		slog.String("session_id", sess.ID),
		slog.String("token", token),
	)

	// The paid record stays in the order store; the session returns to the
	// main menu with no active order.
	sess.ActiveOrder = nil
	sess.Delete(ctxKeyUserName)
	sess.Delete(ctxKeyCheckoutURL)
	sess.Delete(ctxKeyInstructions)
	sess.Stage = entity.StageMainMenu

	confirmation := catalog.T(sess.Language, catalog.KeyPaidOK)
	menu := e.renderMainMenu(sess.Language)
	if menu.Action != entity.ActionNone {
		menu.Text = confirmation + "\n\n" + menu.Text
		return menu
	}
	return entity.TextReply(sess.Language, confirmation+"\n\n"+menu.Text)
}
