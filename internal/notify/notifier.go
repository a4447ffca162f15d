package notify

import (
	"context"
	"fmt"

	"alpha_bot/pkg/logger"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type Notifier interface {
	Send(ctx context.Context, msg string) error
	Sendf(ctx context.Context, format string, args ...any) error
}

// Telegram — пассивный нотифайер: один канал, только исходящие сообщения.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Telegram{
		bot:    b,
		chatID: chatID,
	}, nil
}

func (t *Telegram) Send(ctx context.Context, msg string) error {
	if t == nil || t.bot == nil || t.chatID == 0 {
		return fmt.Errorf("telegram notifier is not configured")
	}
	_, err := t.bot.Send(tgbot.NewMessage(t.chatID, msg))
	return err
}

func (t *Telegram) Sendf(ctx context.Context, format string, args ...any) error {
	return t.Send(ctx, fmt.Sprintf(format, args...))
}

// Stdout — заглушка для локального запуска без токена: всё в лог.
type Stdout struct{}

func NewStdout() *Stdout { return &Stdout{} }

func (s *Stdout) Send(ctx context.Context, msg string) error {
	logger.Info("%s", msg)
	return nil
}

func (s *Stdout) Sendf(ctx context.Context, format string, args ...any) error {
	logger.Info(format, args...)
	return nil
}
