package main

import (
	"context"
	"log"

	"alpha_bot/internal/modules/admission"
	"alpha_bot/internal/modules/analyzer"
	"alpha_bot/internal/modules/collector"
	"alpha_bot/internal/modules/config"
	"alpha_bot/internal/modules/dispatcher"
	"alpha_bot/internal/modules/health"
	"alpha_bot/internal/modules/postgres"
	"alpha_bot/internal/modules/settings"
	"alpha_bot/internal/modules/signals"
	"alpha_bot/internal/modules/trader"
	"alpha_bot/internal/modules/web"
	"alpha_bot/internal/runner"
	"alpha_bot/pkg/logger"
	"alpha_bot/pkg/tracing"

	"go.uber.org/fx"
)

const serviceName = "alpha_bot"

func main() {
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}
	logger.SetServiceName(serviceName)
	tracing.SetServiceName(serviceName)

	app := fx.New(
		fx.Provide(
			func() context.Context {
				return context.Background()
			},
		),
		fx.Invoke(func(lc fx.Lifecycle, cfg *config.Config) error {
			_, closeTracer, err := tracing.InitTracer(tracing.Config{
				Host: cfg.Jaeger.Host,
				Port: cfg.Jaeger.Port,
			})
			if err != nil {
				return err
			}
			lc.Append(fx.Hook{
				OnStop: func(_ context.Context) error {
					closeTracer()
					return nil
				},
			})
			return nil
		}),
		config.Module(),
		postgres.Module(),
		settings.Module(),
		signals.Module(),
		collector.Module(),
		analyzer.Module(),
		admission.Module(),
		dispatcher.Module(),
		trader.Module(),
		health.Module(),
		runner.Module(),
		web.Module(),
	)
	if err := app.Start(context.Background()); err != nil {
		log.Fatal(err)
	}
	<-app.Done()
	if err := app.Stop(context.Background()); err != nil {
		log.Fatal(err)
	}
}
