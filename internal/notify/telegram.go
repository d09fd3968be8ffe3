package notify

import (
	"context"
	"fmt"

	"fapbot/internal/domain"
	"fapbot/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// UserLookup resolves internal user ids to their Telegram chat ids.
type UserLookup interface {
	ByID(ctx context.Context, id int64) (*domain.User, error)
}

// Telegram delivers messages through the bot API: DMs to users and
// posts to the configured announce chat.
type Telegram struct {
	bot          *tgbotapi.BotAPI
	users        UserLookup
	announceChat int64
}

func NewTelegram(token string, users UserLookup, announceChat int64) (*Telegram, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	logger.Info("telegram notifier authorized", "username", bot.Self.UserName)

	return &Telegram{bot: bot, users: users, announceChat: announceChat}, nil
}

func (t *Telegram) NotifyUser(ctx context.Context, userID int64, text string) error {
	u, err := t.users.ByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve chat for user %d: %w", userID, err)
	}
	_, err = t.bot.Send(tgbotapi.NewMessage(u.TgID, text))
	return err
}

func (t *Telegram) Announce(ctx context.Context, text string) error {
	if t.announceChat == 0 {
		return nil
	}
	_, err := t.bot.Send(tgbotapi.NewMessage(t.announceChat, text))
	return err
}
