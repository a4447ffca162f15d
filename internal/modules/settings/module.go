package settings

import (
	"context"

	"alpha_bot/internal/modules/settings/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("settings",
		fx.Provide(
			service.NewStore, // *service.Store
		),
		// настройки из базы поднимаем до старта пайплайна
		fx.Invoke(
			func(lc fx.Lifecycle, store *service.Store) {
				lc.Append(fx.Hook{
					OnStart: func(ctx context.Context) error {
						return store.Load(ctx)
					},
				})
			},
		),
	)
}
