package runner

import (
	"context"

	admissionsvc "alpha_bot/internal/modules/admission/service"
	analyzersvc "alpha_bot/internal/modules/analyzer/service"
	collectorsvc "alpha_bot/internal/modules/collector/service"
	dispatchersvc "alpha_bot/internal/modules/dispatcher/service"
	healthsvc "alpha_bot/internal/modules/health/service"
	settingssvc "alpha_bot/internal/modules/settings/service"
	signalsvc "alpha_bot/internal/modules/signals/service"
	tradersvc "alpha_bot/internal/modules/trader/service"

	"go.uber.org/fx"
)

func Module() fx.Option {
	return fx.Module("runner",
		fx.Provide(
			func(
				settings *settingssvc.Store,
				collector *collectorsvc.Collector,
				scorer *analyzersvc.Scorer,
				admission *admissionsvc.Controller,
				store *signalsvc.Store,
				dispatcher *dispatchersvc.Dispatcher,
				tracker *tradersvc.Tracker,
				health *healthsvc.State,
			) *Orchestrator {
				return NewOrchestrator(settings, collector, scorer, admission, store, dispatcher, tracker, health)
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, o *Orchestrator, ctx context.Context) {
			lc.Append(fx.Hook{
				OnStart: func(_ context.Context) error {
					go o.Run(ctx)
					return nil
				},
			})
		}),
	)
}
