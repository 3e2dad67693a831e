// Package api provides the read only results HTTP API
package api

//go:generate swag init --v3.1 --instanceName api --parseInternal -d ../../.. -g cmd/combatscore-api/main.go -o ./docs --outputTypes go

import (
	"net/http"

	"combatscore/internal/modkit"
	"combatscore/internal/modkit/swaggerkit"
	"combatscore/internal/platform/config"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/metrics"
	phttp "combatscore/internal/platform/net/http"
	"combatscore/internal/platform/net/middleware"
	"combatscore/internal/platform/store"

	metamod "combatscore/internal/services/api/meta/module"
	resultsmod "combatscore/internal/services/api/results/module"
)

// ServiceName identifies the API in logs and meta endpoints
const ServiceName = "combatscore-api"

// Options are the API options
type Options struct {
	Config         config.Conf
	Store          *store.Store
	Logger         *logger.Logger
	ResultsDir     string
	EnableProfiler bool
	EnableSwagger  bool
	CORS           middleware.CORSOptions
}

// Mount mounts the API onto a fresh router
// Root level /health and /metrics stay outside the versioned middleware stack
func Mount(r phttp.Router, opt Options) []modkit.Module {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.FromStore(opt.Config, *log, opt.Store)

	mods := []modkit.Module{
		metamod.New(deps, ServiceName),
		resultsmod.New(deps, opt.ResultsDir),
	}

	r.Use(middleware.Heartbeat("/health"))
	r.Handle("/metrics", metrics.Handler())
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)
	swaggerkit.Mount(r, opt.EnableSwagger)

	phttp.MountAPIV1(r, middleware.CommonStack(opt.CORS), func(api phttp.Router) {
		phttp.GetJSON(api, "/health", func(*http.Request) (any, error) {
			return map[string]bool{"ok": true}, nil
		})
		api.Handle("/metrics", metrics.Handler())

		for _, m := range mods {
			m.MountRoutes(api)
			log.Debug().Str("module", m.Name()).Msg("module mounted")
		}
	})
	return mods
}
