// Package dialog implements the menu-driven conversation state machine.
package dialog

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/jayrweg/afya-plus/entity"
	"github.com/jayrweg/afya-plus/internal/catalog"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
	"github.com/jayrweg/afya-plus/internal/session"
	"github.com/jayrweg/afya-plus/internal/store"
)

const defaultCheckoutTimeout = 15 * time.Second

// Engine consumes (session id, raw text) pairs and deterministically
// transitions session state. It never returns an error to its callers:
// every failure is recovered into a reply.
type Engine struct {
	sessions *session.Store
	orders   *store.Orders
	payments PaymentProvider
	listener TurnListener
	prices   map[string]int

	rich            bool
	checkoutTimeout time.Duration

	log *slog.Logger
}

// Option configures the engine at construction time.
type Option func(*Engine)

// WithRichReplies makes the engine return render intents for menu screens
// instead of plain text, for transports with interactive widgets.
func WithRichReplies() Option {
	return func(e *Engine) { e.rich = true }
}

// WithCheckoutTimeout bounds the payment provider call per checkout.
func WithCheckoutTimeout(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.checkoutTimeout = d
		}
	}
}

// New creates a dialogue engine. prices maps service codes to TZS amounts;
// missing codes fall back to the built-in table in the service definitions.
func New(sessions *session.Store, orders *store.Orders, payments PaymentProvider, prices map[string]int, log *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		sessions:        sessions,
		orders:          orders,
		payments:        payments,
		prices:          prices,
		checkoutTimeout: defaultCheckoutTimeout,
		log:             log.With(sl.Module("dialog")),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// SetTurnListener attaches a listener for conversation turns (may be nil).
func (e *Engine) SetTurnListener(l TurnListener) {
	e.listener = l
}

// Sessions exposes the session store to transports that need read access
// (payment webhooks).
func (e *Engine) Sessions() *session.Store {
	return e.sessions
}

// Orders exposes the order store.
func (e *Engine) Orders() *store.Orders {
	return e.orders
}

// Input vocabularies shared by every stage. All matching is done on the
// case-folded, whitespace-trimmed input.
var (
	greetWords = map[string]bool{"hi": true, "hello": true, "habari": true}
	resetWords = map[string]bool{"start": true, "restart": true, "upya": true}
	menuWords  = map[string]bool{"menu": true, "mwanzo": true, "home": true}
)

// HandleMessage processes one inbound turn. The per-session lock is held
// for the whole turn, so two concurrent turns on the same session are
// serialized while different sessions proceed independently. An empty
// sessionID creates a new session; the returned id must be reused by the
// caller on subsequent turns.
func (e *Engine) HandleMessage(ctx context.Context, sessionID, text string) (string, entity.Reply) {
	sess, release := e.sessions.Acquire(sessionID)
	defer release()

	raw := strings.TrimSpace(text)
	reply := e.handleTurn(ctx, sess, raw)

	e.notify(sess, "in", raw, entity.ActionNone)
	e.notify(sess, "out", reply.Text, reply.Action)

	return sess.ID, reply
}

// handleTurn runs the transition algorithm for one normalized input.
func (e *Engine) handleTurn(ctx context.Context, sess *entity.Session, raw string) entity.Reply {
	msg := strings.ToLower(raw)

	// Greeting before a language is chosen re-renders the chooser.
	if sess.Language == entity.LangNone && greetWords[msg] {
		return e.renderLanguageChooser()
	}

	if resetWords[msg] {
		sess.Reset()
		return e.renderLanguageChooser()
	}

	if menuWords[msg] && sess.Language != entity.LangNone {
		sess.Stage = entity.StageMainMenu
		sess.ActiveOrder = nil
		return e.renderMainMenu(sess.Language)
	}

	if sess.Language == entity.LangNone || sess.Stage == entity.StageLanguage {
		return e.handleLanguageChoice(sess, msg)
	}

	// "paid <token>" short-circuits normal stage processing.
	if strings.HasPrefix(msg, "paid") {
		return e.handlePaid(ctx, sess, raw)
	}

	switch sess.Stage {
	case entity.StageMainMenu:
		return e.handleMainMenu(sess, msg)
	case entity.StageGP:
		return e.handleServiceMenu(ctx, sess, msg, gpServices, e.renderGPMenu)
	case entity.StageSpecialist:
		return e.handleServiceMenu(ctx, sess, msg, specialistServices, e.renderSpecialistMenu)
	case entity.StageHomeDoctor:
		return e.handleServiceMenu(ctx, sess, msg, homeDoctorServices, e.renderHomeDoctorMenu)
	case entity.StageWorkplace:
		return e.handleServiceMenu(ctx, sess, msg, workplaceServices, e.renderWorkplaceMenu)
	case entity.StagePharmacy:
		return e.handleServiceMenu(ctx, sess, msg, pharmacyServices, e.renderPharmacyMenu)
	case entity.StageCollectName:
		return e.handleCollectName(sess, raw)
	case entity.StageCollectPhone:
		return e.handleCollectPhone(sess, raw)
	case entity.StageAwaitPayment:
		// Unrecognized input while awaiting payment re-renders the summary.
		return entity.TextReply(sess.Language, e.paymentSummary(sess))
	}

	return entity.TextReply(sess.Language, catalog.T(sess.Language, catalog.KeyFallback))
}

// handleLanguageChoice accepts exactly the two canonical choices, by number
// or by name. Anything else re-prompts the chooser without side effects.
func (e *Engine) handleLanguageChoice(sess *entity.Session, msg string) entity.Reply {
	switch msg {
	case "", "hi", "hello", "habari", "start", "anza", "menu":
		return e.renderLanguageChooser()
	case "1", "1)", "sw", "swahili", "kiswahili":
		sess.Language = entity.LangSW
	case "2", "2)", "en", "english":
		sess.Language = entity.LangEN
	default:
		return entity.TextReply(entity.LangSW, strings.Join([]string{
			catalog.T(entity.LangSW, catalog.KeyInvalidLanguage),
			catalog.T(entity.LangSW, catalog.KeyChooseLanguage),
		}, "\n\n"))
	}

	sess.Stage = entity.StageMainMenu
	return e.renderMainMenu(sess.Language)
}

// handleMainMenu dispatches the five service categories.
func (e *Engine) handleMainMenu(sess *entity.Session, msg string) entity.Reply {
	switch {
	case matchToken(msg, "1", "gp", "general", "daktari", "daktari jumla"):
		sess.Stage = entity.StageGP
		return e.renderGPMenu(sess.Language)
	case matchToken(msg, "2", "specialist", "bingwa", "daktari bingwa"):
		sess.Stage = entity.StageSpecialist
		return e.renderSpecialistMenu(sess.Language)
	case matchToken(msg, "3", "home", "home doctor", "daktari nyumbani", "nyumbani"):
		sess.Stage = entity.StageHomeDoctor
		return e.renderHomeDoctorMenu(sess.Language)
	case matchToken(msg, "4", "corporate", "workplace", "kazini", "mashirika"):
		sess.Stage = entity.StageWorkplace
		return e.renderWorkplaceMenu(sess.Language)
	case matchToken(msg, "5", "pharmacy", "dawa", "vifaa"):
		sess.Stage = entity.StagePharmacy
		return e.renderPharmacyMenu(sess.Language)
	}

	// No match: same menu rendering as the prior turn, stage unchanged.
	return e.renderMainMenu(sess.Language)
}

// matchToken reports whether msg equals the numeric index (with optional
// closing bracket) or any of the keyword synonyms.
func matchToken(msg, number string, synonyms ...string) bool {
	if msg == number || msg == number+")" {
		return true
	}
	for _, s := range synonyms {
		if msg == s {
			return true
		}
	}
	return false
}

// notify forwards a turn to the listener when one is attached.
func (e *Engine) notify(sess *entity.Session, direction, text string, action entity.Action) {
	if e.listener == nil {
		return
	}
	e.listener.ChatTurn(entity.ChatMessage{
		SessionID: sess.ID,
		Direction: direction,
		Text:      text,
		Action:    action,
		Stage:     sess.Stage,
		Timestamp: time.Now(),
	})
}
