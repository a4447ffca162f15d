package signals

import (
	"alpha_bot/internal/modules/signals/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("signals",
		fx.Provide(
			service.NewStore, // *service.Store
		),
	)
}
