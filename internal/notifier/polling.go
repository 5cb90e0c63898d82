package notifier

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// CommandHandler is called when a user command is received.
type CommandHandler func(chatID int64, command string) string

// StartPolling begins long-polling for Telegram commands. Blocks until ctx is cancelled.
func (t *TelegramNotifier) StartPolling(ctx context.Context, handler CommandHandler) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := t.bot.GetUpdatesChan(u)
	defer t.bot.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			t.logger.Info().Msg("telegram polling stopped")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.Text == "" {
				continue
			}
			chatID := update.Message.Chat.ID
			text := strings.TrimSpace(update.Message.Text)
			t.logger.Info().Int64("chat_id", chatID).Str("command", text).Msg("received command")

			reply := handler(chatID, text)
			if reply == "" {
				continue
			}
			if err := t.SendWithRetry(ctx, chatID, reply); err != nil {
				t.logger.Error().Err(err).Int64("chat_id", chatID).Msg("send reply")
			}
		}
	}
}
