package infrastructure

import (
	"context"
	"fmt"
	"strconv"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"project_ria/internal/entities"
)

// TelegramNotifier sends Markdown alerts to a tenant's configured chat.
// A nil Bot (missing or invalid token) disables the channel without
// failing startup, matching how the rest of the process degrades.
type TelegramNotifier struct {
	Bot *tgbotapi.BotAPI
}

func NewTelegramNotifier(token string) *TelegramNotifier {
	if token == "" {
		return &TelegramNotifier{}
	}
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		fmt.Printf("Warning: Telegram Bot Token issue: %v. Telegram alerts disabled.\n", err)
		return &TelegramNotifier{}
	}
	return &TelegramNotifier{Bot: bot}
}

func (t *TelegramNotifier) Name() string {
	return "telegram"
}

func (t *TelegramNotifier) SendAlert(ctx context.Context, tenant *entities.Tenant, text string) error {
	if t.Bot == nil {
		return fmt.Errorf("telegram not configured")
	}
	if tenant.TelegramChatID == "" {
		return fmt.Errorf("tenant %s has no telegram chat id", tenant.ID)
	}
	chatID, err := strconv.ParseInt(tenant.TelegramChatID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid telegram chat id %q: %w", tenant.TelegramChatID, err)
	}

	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = "Markdown"
	_, err = t.Bot.Send(msg)
	return err
}
