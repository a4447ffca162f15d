package admission

import (
	"alpha_bot/internal/modules/admission/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("admission",
		fx.Provide(
			service.NewController, // *service.Controller
		),
	)
}
