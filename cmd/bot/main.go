package main

import (
	"context"
	"errors"
	"fmt"
	nethttp "net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"

	"contact-saver-bot/internal/adapters/bot"
	"contact-saver-bot/internal/adapters/referral"
	"contact-saver-bot/internal/adapters/repo"
	"contact-saver-bot/internal/domain"
	"contact-saver-bot/internal/infra/config"
	"contact-saver-bot/internal/infra/http"
	"contact-saver-bot/internal/infra/log"
	"contact-saver-bot/internal/infra/metrics"
	"contact-saver-bot/internal/usecase/contacts"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := log.NewLogger(cfg.AppEnv)

	loc, err := time.LoadLocation(cfg.TZ)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.TZ).Msg("failed to load timezone")
	}

	store, err := repo.NewCSVStore(cfg.Storage.ContactFile)
	if err != nil {
		logger.Fatal().Err(err).Str("file", cfg.Storage.ContactFile).Msg("failed to open contact book")
	}
	logger.Info().Int("contacts", store.Count()).Msg("contact book loaded")

	var referrals domain.ReferralStore
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		referrals = referral.NewRedisStore(client)
		logger.Info().Str("addr", cfg.RedisAddr).Msg("using Redis referral store")
	} else {
		referrals, err = referral.NewFileStore(cfg.Storage.ReferralFile)
		if err != nil {
			logger.Fatal().Err(err).Str("file", cfg.Storage.ReferralFile).Msg("failed to load referral map")
		}
	}

	botAPI, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create bot")
	}
	botName := botAPI.Self.UserName
	if botName == "" {
		botName = "YourBot"
	}

	contactsUC := contacts.NewService(store, referrals, loc)
	handler := bot.NewHandler(
		botAPI,
		logger,
		contactsUC,
		referrals,
		cfg.Telegram.AdminID,
		cfg.Telegram.AdminHandle,
		botName,
		cfg.Cleanup.LinkDeleteAfter,
		cfg.Cleanup.ContactDeleteAfter,
	)

	metrics.MustRegister(prometheus.DefaultRegisterer)
	srv := http.NewServer(logger)
	go func() {
		if err := srv.Start(fmt.Sprintf(":%d", cfg.Port)); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
			logger.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = cfg.Telegram.PollTimeout
	updates := botAPI.GetUpdatesChan(u)
	logger.Info().Str("username", botName).Msg("contact saver bot running")

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("stopping bot")
			botAPI.StopReceivingUpdates()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			_ = srv.Shutdown(shutdownCtx)
			cancel()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			// Updates are handled one at a time in arrival order; only the
			// courtesy message deletions run off this goroutine.
			handler.HandleUpdate(ctx, upd)
		}
	}
}

var (
	_ domain.ContactRepo   = (*repo.CSVStore)(nil)
	_ domain.ReferralStore = (*referral.Memory)(nil)
	_ domain.ReferralStore = (*referral.FileStore)(nil)
	_ domain.ReferralStore = (*referral.RedisStore)(nil)
	_ bot.API              = (*tgbotapi.BotAPI)(nil)
)
