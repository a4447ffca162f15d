package analyzer

import (
	"alpha_bot/internal/modules/analyzer/service"
	"alpha_bot/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("analyzer",
		fx.Provide(
			func(cfg *config.Config) service.Engine {
				return service.NewDeepSeekEngine(cfg.EngineAPIBase, cfg.EngineAPIKey, cfg.EngineModel, cfg.EngineTimeout)
			},
			func(cfg *config.Config, engine service.Engine) *service.Scorer {
				return service.NewScorer(engine, cfg.ScoreWorkers)
			},
		),
	)
}
