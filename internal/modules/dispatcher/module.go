package dispatcher

import (
	"alpha_bot/internal/modules/config"
	"alpha_bot/internal/modules/dispatcher/service"
	signalsvc "alpha_bot/internal/modules/signals/service"
	"alpha_bot/internal/notify"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("dispatcher",
		fx.Provide(
			func(cfg *config.Config) (notify.Notifier, error) {
				if cfg.Telegram.Token == "" {
					return notify.NewStdout(), nil
				}
				return notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.ChatID)
			},
			func(n notify.Notifier, store *signalsvc.Store) *service.Dispatcher {
				return service.NewDispatcher(n, store)
			},
		),
	)
}
