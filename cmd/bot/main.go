package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"LadderSentinel/internal/config"
	"LadderSentinel/internal/logging"
	"LadderSentinel/internal/notifier"
	"LadderSentinel/internal/scheduler"
	"LadderSentinel/internal/server"
)

func main() {
	logging.Setup("info")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("config validation")
	}
	logging.Setup(cfg.LogLevel)
	log.Info().Str("config", cfgPath).Msg("LadderSentinel starting")

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// HTTP API
	srv := server.New(cfg.Server.Addr, cfg.Params(), cfg.BaseContext(), cfg.Server.RateLimit, cfg.Server.RateBurst)
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Error().Err(err).Msg("http server")
			cancel()
		}
	}()

	// Telegram bot and reminder are optional
	if cfg.Telegram.BotToken != "" {
		tn, err := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		if err != nil {
			log.Fatal().Err(err).Msg("init telegram notifier")
		}

		sched := scheduler.NewScheduler(ctx, tn, cfg.Params(), cfg.BaseContext())
		if cfg.Reminder.Enabled {
			if err := sched.RegisterReminder(cfg.Reminder.Cron, cfg.Reminder.Context); err != nil {
				log.Fatal().Err(err).Msg("register reminder")
			}
		}
		sched.Start()
		defer sched.Stop()

		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Info().Msg("telegram polling started")

		if cfg.Reminder.Enabled && os.Getenv("RUN_ON_START") == "true" {
			log.Info().Msg("RUN_ON_START enabled, sending reminder now")
			go sched.RunReminderNow()
		}
	} else {
		log.Warn().Msg("telegram.bot_token not set, bot disabled")
	}

	log.Info().Msg("LadderSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigCh:
		log.Info().Msg("shutdown signal received, stopping...")
	case <-ctx.Done():
	}
	cancel()

	shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
	defer stop()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown")
	}
	log.Info().Msg("LadderSentinel stopped")
}
