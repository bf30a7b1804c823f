package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/jayrweg/afya-plus/bot/cli"
	"github.com/jayrweg/afya-plus/bot/dialog"
	wabot "github.com/jayrweg/afya-plus/bot/whatsapp"
	"github.com/jayrweg/afya-plus/internal/config"
	repository "github.com/jayrweg/afya-plus/internal/database"
	"github.com/jayrweg/afya-plus/internal/http-server/api"
	"github.com/jayrweg/afya-plus/internal/http-server/handlers/payments"
	"github.com/jayrweg/afya-plus/internal/lib/logger"
	"github.com/jayrweg/afya-plus/internal/lib/sl"
	"github.com/jayrweg/afya-plus/internal/service/payment"
	"github.com/jayrweg/afya-plus/internal/service/pesapal"
	"github.com/jayrweg/afya-plus/internal/session"
	"github.com/jayrweg/afya-plus/internal/store"
	"github.com/jayrweg/afya-plus/internal/ws"
)

func main() {

	configPath := flag.String("conf", "config.yml", "path to config file")
	logPath := flag.String("log", "/var/log/", "path to log file directory")
	cliMode := flag.Bool("cli", false, "run a terminal chat session instead of the server")
	flag.Parse()

	conf := config.MustLoad(*configPath)
	lg := logger.SetupLogger(conf.Env, *logPath)

	lg.Info("starting afya-plus", slog.String("config", *configPath), slog.String("env", conf.Env))
	lg.Debug("debug messages enabled")

	sessions := session.NewStore()
	orders := store.NewOrders()

	db, err := repository.NewMongoClient(conf, lg)
	if err != nil {
		lg.With(
			sl.Err(err),
		).Error("mongo client")
	}
	if db != nil {
		orders.SetArchive(db)
		lg.With(
			slog.String("host", conf.Mongo.Host),
			slog.String("port", conf.Mongo.Port),
			slog.String("user", conf.Mongo.User),
			slog.String("database", conf.Mongo.Database),
		).Info("mongo client initialized")
	}

	var provider dialog.PaymentProvider
	var verifier payments.Verifier

	ps := pesapal.NewPesapalService(conf, lg)
	if ps != nil {
		provider = ps
		verifier = ps
		lg.With(
			sl.Secret("consumer_key", conf.Pesapal.ConsumerKey),
			slog.String("url", conf.Pesapal.BaseURL),
		).Info("pesapal service initialized")
	} else {
		checkoutBase := fmt.Sprintf("http://%s:%s", conf.Listen.BindIP, conf.Listen.Port)
		provider = payment.NewDemoProvider(checkoutBase, lg)
		lg.Info("pesapal credentials not set, using demo payment provider")
	}

	opts := []dialog.Option{}
	if conf.WhatsApp.Enabled {
		opts = append(opts, dialog.WithRichReplies())
	}
	engine := dialog.New(sessions, orders, provider, conf.PriceTable(), lg, opts...)

	if *cliMode {
		bot := cli.New(engine, os.Stdin, os.Stdout, lg)
		if err := bot.Run(context.Background()); err != nil {
			lg.Error("terminal session", sl.Err(err))
		}
		return
	}

	hub := ws.NewHub(lg)
	go hub.Run()
	engine.SetTurnListener(hub)

	var waBot *wabot.WhatsAppBot
	if conf.WhatsApp.Enabled {
		waBot = wabot.NewWhatsAppBot(
			engine,
			conf.WhatsApp.AccessToken,
			conf.WhatsApp.VerifyToken,
			conf.WhatsApp.AppSecret,
			conf.WhatsApp.PhoneNumberID,
			lg,
		)
		lg.With(
			slog.String("phone_number_id", conf.WhatsApp.PhoneNumberID),
		).Info("whatsapp bot initialized")
	}

	// *** blocking start with http server ***
	err = api.New(conf, lg, engine, waBot, verifier, hub)
	if err != nil {
		lg.Error("server start", sl.Err(err))
		return
	}
	lg.Error("service stopped")
}
