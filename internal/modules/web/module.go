package web

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"alpha_bot/internal/modules/config"

	"go.uber.org/fx"
)

func RunHTTP(lc fx.Lifecycle, cfg *config.Config, srv *Server) {
	addr := fmt.Sprintf("%s:%d", cfg.Service.Host, cfg.Service.PublicPort)
	httpSrv := &http.Server{
		Addr:              addr,
		Handler:           srv.Mux(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", addr)
			if err != nil {
				return err
			}
			go func() { _ = httpSrv.Serve(ln) }()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return httpSrv.Shutdown(ctx)
		},
	})
}

func Module() fx.Option {
	return fx.Module("web",
		fx.Provide(
			NewServer,
		),
		fx.Invoke(RunHTTP),
	)
}
