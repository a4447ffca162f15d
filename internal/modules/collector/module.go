package collector

import (
	"alpha_bot/internal/exchange"
	"alpha_bot/internal/modules/collector/service"
	"alpha_bot/internal/modules/config"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("collector",
		fx.Provide(
			func(cfg *config.Config) *exchange.DexScreenerClient {
				return exchange.NewDexScreener(cfg.DexBaseURL, cfg.DexTimeout)
			},
			func(cfg *config.Config, client *exchange.DexScreenerClient) *service.Collector {
				return service.NewCollector(client, cfg.DexChainID, cfg.DexLimit)
			},
		),
	)
}
