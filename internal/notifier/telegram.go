package notifier

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// botAPI is the subset of *tgbotapi.BotAPI the notifier uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// TelegramNotifier sends messages via the Telegram Bot API.
type TelegramNotifier struct {
	bot           botAPI
	ChatID        int64
	MaxRetries    int
	RetryInterval time.Duration
	logger        zerolog.Logger
}

// NewTelegramNotifier connects to the Bot API with optional proxy support.
func NewTelegramNotifier(botToken string, chatID int64, proxyURL string) (*TelegramNotifier, error) {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	client := &http.Client{Timeout: 60 * time.Second, Transport: transport}

	bot, err := tgbotapi.NewBotAPIWithClient(botToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		return nil, fmt.Errorf("connect telegram: %w", err)
	}
	n := newNotifier(bot, chatID)
	n.logger.Info().Str("bot", bot.Self.UserName).Msg("telegram bot authorised")
	return n, nil
}

func newNotifier(bot botAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{
		bot:           bot,
		ChatID:        chatID,
		MaxRetries:    3,
		RetryInterval: time.Second,
		logger:        log.With().Str("component", "telegram").Logger(),
	}
}

// SendTo sends an HTML message to chatID.
func (t *TelegramNotifier) SendTo(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.DisableWebPagePreview = true
	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

// SendWithRetry sends a message with exponential backoff retry.
func (t *TelegramNotifier) SendWithRetry(ctx context.Context, chatID int64, text string) error {
	attempt := 0
	op := func() error {
		attempt++
		err := t.SendTo(chatID, text)
		if err != nil {
			t.logger.Warn().Err(err).Int("attempt", attempt).Msg("telegram send failed")
		}
		return err
	}
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = t.RetryInterval
	b := backoff.WithContext(backoff.WithMaxRetries(policy, uint64(t.MaxRetries)), ctx)
	if err := backoff.Retry(op, b); err != nil {
		return fmt.Errorf("after %d attempts: %w", attempt, err)
	}
	return nil
}

// Notify sends text to the configured chat.
func (t *TelegramNotifier) Notify(ctx context.Context, text string) error {
	return t.SendWithRetry(ctx, t.ChatID, text)
}
