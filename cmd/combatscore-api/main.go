// Command combatscore-api serves persisted result tables over HTTP
//
// @title Combatscore API
// @version 0.1.0
// @description Read only access to persisted per-combat heuristic tables
// @BasePath /api/v1
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"combatscore/internal/platform/config"
	"combatscore/internal/platform/logger"
	phttp "combatscore/internal/platform/net/http"
	"combatscore/internal/platform/net/middleware"
	"combatscore/internal/platform/store"

	"combatscore/internal/services/api"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx)
	stop()
	if err != nil {
		logger.Get().Error().Err(err).Msg("combatscore-api stopped")
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	// service-scoped config for HTTP (CORE_API_*), scoring layout under COMBATSCORE_*
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")

	lo := logger.FromEnv()
	if lo.Service == "" {
		lo.Service = api.ServiceName
	}
	logger.Init(lo)
	l := logger.Get()

	// sinks are optional; readiness reports them when configured
	st, err := store.Open(ctx, store.FromConfig(root, "combatscore", "api"), store.WithLogger(*l))
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(context.Background()); err != nil {
			l.Error().Err(err).Msg("failed to close store")
		}
	}()

	// http server (reads CORE_API_PORT / CORE_API_SHUTDOWN_TIMEOUT)
	srv := phttp.NewServer(apiCfg)

	api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Store:          st,
		Logger:         l,
		ResultsDir:     root.Prefix("COMBATSCORE_").MayString("RESULTS_DIR", "heuristic_results"),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
		EnableSwagger:  apiCfg.MayBool("SWAGGER", true),
		CORS: middleware.CORSOptions{
			AllowedOrigins: apiCfg.MayCSV("CORS_ORIGINS", nil),
		},
	})

	return srv.Run(ctx)
}
