package trader

import (
	"context"

	"alpha_bot/internal/exchange"
	"alpha_bot/internal/modules/config"
	settingssvc "alpha_bot/internal/modules/settings/service"
	signalsvc "alpha_bot/internal/modules/signals/service"
	"alpha_bot/internal/modules/trader/service"
	"alpha_bot/pkg/db"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("trader",
		fx.Provide(
			func(cfg *config.Config) *exchange.MexcClient {
				return exchange.NewMexc(cfg.MexcBaseURL, cfg.MexcAPIKey, cfg.MexcAPISecret)
			},
			func(manager *db.PgTxManager) service.PositionStore {
				return service.NewPgPositions(manager)
			},
			func(store service.PositionStore, mexc *exchange.MexcClient, signals *signalsvc.Store) *service.Tracker {
				return service.NewTracker(store, mexc, signals)
			},
			func(tracker *service.Tracker, store service.PositionStore, settings *settingssvc.Store, mexc *exchange.MexcClient) *service.Monitor {
				return service.NewMonitor(tracker, store, settings, mexc)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, monitor *service.Monitor) {
			monitorCtx, cancel := context.WithCancel(context.Background())
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go monitor.Run(monitorCtx)
					return nil
				},
				OnStop: func(_ context.Context) error {
					cancel()
					return nil
				},
			})
		}),
	)
}
