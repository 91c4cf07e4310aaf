package tgbot

import (
	"log/slog"

	"github.com/KotFed0t/invest_dashboard/config"
	"github.com/KotFed0t/invest_dashboard/internal/model/tg"
	"github.com/KotFed0t/invest_dashboard/internal/transport/telegram"
	customMW "github.com/KotFed0t/invest_dashboard/internal/transport/telegram/middleware"
	tele "gopkg.in/telebot.v4"
	"gopkg.in/telebot.v4/middleware"
)

type TGBot struct {
	bot           *tele.Bot
	ctrl          *telegram.Controller
	allowedChatID int64
}

func New(cfg *config.Config, ctrl *telegram.Controller) *TGBot {
	settings := tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: &tele.LongPoller{Timeout: cfg.Telegram.UpdTimeout},
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		slog.Error("error while tele.NewBot", slog.String("err", err.Error()))
		panic(err)
	}

	return &TGBot{bot: b, ctrl: ctrl, allowedChatID: cfg.Telegram.AllowedChatID}
}

func (b *TGBot) Start() {
	b.bot.Use(middleware.Recover(), customMW.Logger(), customMW.AllowedChat(b.allowedChatID))

	b.setupRoutes()

	go b.bot.Start()
	slog.Info("tgbot started!")
}

func (b *TGBot) Stop() {
	slog.Info("start stopping tgbot")
	b.bot.Stop()
	slog.Info("tgbot stopped")
}

func (b *TGBot) setupRoutes() {
	b.bot.Handle("/start", b.ctrl.Start)
	b.bot.Handle("/holdings", b.ctrl.Holdings)
	b.bot.Handle("/references", b.ctrl.References)
	b.bot.Handle("/refresh", b.ctrl.Refresh)
	b.bot.Handle("/report", b.ctrl.Report)

	for _, action := range []string{
		tg.RefreshAll,
		tg.RefreshHoldings,
		tg.RefreshShares,
		tg.RefreshEtfs,
		tg.RefreshCurrencies,
		tg.RefreshCrypto,
	} {
		b.bot.Handle(&tele.Btn{Unique: action}, b.ctrl.RefreshCallback(action))
	}
}
