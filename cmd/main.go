package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/KotFed0t/invest_dashboard/config"
	"github.com/KotFed0t/invest_dashboard/data"
	"github.com/KotFed0t/invest_dashboard/data/cache"
	"github.com/KotFed0t/invest_dashboard/data/seed"
	"github.com/KotFed0t/invest_dashboard/internal/externalApi/binanceApi"
	"github.com/KotFed0t/invest_dashboard/internal/externalApi/tinvestApi"
	"github.com/KotFed0t/invest_dashboard/internal/reportGenerator/xslsxGenerator"
	"github.com/KotFed0t/invest_dashboard/internal/scheduler"
	"github.com/KotFed0t/invest_dashboard/internal/service/dashboardService"
	"github.com/KotFed0t/invest_dashboard/internal/store/portfolioStore"
	"github.com/KotFed0t/invest_dashboard/internal/tgbot"
	"github.com/KotFed0t/invest_dashboard/internal/transport/telegram"
)

func main() {
	cfg := config.MustLoad()

	setupLogger(cfg)

	seeds, err := seed.LoadFile(cfg.SeedFile)
	if err != nil {
		slog.Error("can't load seed data", slog.String("file", cfg.SeedFile), slog.String("err", err.Error()))
		os.Exit(1)
	}

	tinvestApiClient := tinvestApi.New(cfg)
	binanceApiClient := binanceApi.New(cfg)

	store := portfolioStore.New(cfg, tinvestApiClient, binanceApiClient, seeds)

	var snapshotCache dashboardService.SnapshotCache
	if cfg.Redis.Host != "" {
		redisCtx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
		redisClient, err := data.NewRedisClient(redisCtx, cfg)
		cancel()

		if err != nil {
			slog.Warn("redis unavailable, snapshot cache disabled", slog.String("err", err.Error()))
		} else {
			defer redisClient.Close()
			snapshotCache = cache.NewRedisCache(redisClient, cfg.Cache.SnapshotExpiration)
		}
	}

	dashboardSrv := dashboardService.New(store, snapshotCache)

	sched := scheduler.New()
	sched.NewIntervalJob("refresh all", dashboardSrv.RefreshAll, cfg.Jobs.RefreshAllInterval, true)
	sched.NewIntervalJob("refresh crypto prices", dashboardSrv.RefreshCryptoPrices, cfg.Jobs.RefreshCryptoInterval, false)
	sched.Start()
	defer sched.Stop()

	if cfg.Telegram.Token != "" {
		tgController := telegram.NewController(store, dashboardSrv, xslsxGenerator.New())

		tgBot := tgbot.New(cfg, tgController)
		tgBot.Start()
		defer tgBot.Stop()
	} else {
		slog.Warn("TELEGRAM_TOKEN is empty, bot disabled")
	}

	// Waiting interruption signal
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
}

func setupLogger(cfg *config.Config) {
	var logLevel slog.Level

	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warning":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
	slog.SetDefault(log)
}
