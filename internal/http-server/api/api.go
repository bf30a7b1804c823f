package api

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"

	"github.com/jayrweg/afya-plus/bot/dialog"
	wabot "github.com/jayrweg/afya-plus/bot/whatsapp"
	"github.com/jayrweg/afya-plus/internal/config"
	"github.com/jayrweg/afya-plus/internal/http-server/handlers/chat"
	"github.com/jayrweg/afya-plus/internal/http-server/handlers/errors"
	"github.com/jayrweg/afya-plus/internal/http-server/handlers/orders"
	"github.com/jayrweg/afya-plus/internal/http-server/handlers/payments"
	"github.com/jayrweg/afya-plus/internal/http-server/handlers/whatsapp"
	"github.com/jayrweg/afya-plus/internal/http-server/middleware/authenticate"
	"github.com/jayrweg/afya-plus/internal/http-server/middleware/timeout"
	"github.com/jayrweg/afya-plus/internal/lib/api/response"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
	"github.com/jayrweg/afya-plus/internal/ws"
)

type Server struct {
	conf       *config.Config
	httpServer *http.Server
	log        *slog.Logger
}

// New builds the router and serves it. Blocks until the listener fails.
// waBot, verifier and hub may be nil; the matching routes are then left
// unmounted.
func New(conf *config.Config, log *slog.Logger, engine *dialog.Engine, waBot *wabot.WhatsAppBot, verifier payments.Verifier, hub *ws.Hub) error {

	server := Server{
		conf: conf,
		log:  log.With(sl.Module("api.server")),
	}

	router := chi.NewRouter()
	router.Use(timeout.Timeout(30))
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(render.SetContentType(render.ContentTypeJSON))

	router.NotFound(errors.NotFound(log))
	router.MethodNotAllowed(errors.NotAllowed(log))

	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, response.OK())
	})

	router.Route("/api/v1", func(v1 chi.Router) {
		v1.Post("/chat", chat.New(log, engine))
		v1.Route("/orders", func(r chi.Router) {
			r.Use(authenticate.New(log, conf.Listen.ApiKey))
			r.Get("/", orders.List(log, engine.Orders()))
		})
	})

	if waBot != nil {
		router.Route("/whatsapp/webhook", func(r chi.Router) {
			r.Get("/", whatsapp.WebhookVerify(log, waBot))
			r.Post("/", whatsapp.WebhookHandler(log, waBot))
		})
	}

	ipn := payments.IPN(log, engine.Orders(), verifier)
	router.Get("/payments/pesapal", ipn)
	router.Post("/payments/pesapal", ipn)

	if hub != nil {
		router.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
			ws.ServeWs(hub, log, w, r)
		})
	}

	httpLog := slog.NewLogLogger(log.Handler(), slog.LevelError)
	server.httpServer = &http.Server{
		Handler:  router,
		ErrorLog: httpLog,
	}

	serverAddress := fmt.Sprintf("%s:%s", conf.Listen.BindIP, conf.Listen.Port)
	listener, err := net.Listen("tcp", serverAddress)
	if err != nil {
		return err
	}

	server.log.Info("starting api server", slog.String("address", serverAddress))

	return server.httpServer.Serve(listener)
}
