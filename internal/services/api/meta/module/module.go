// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"combatscore/internal/modkit"
	phttp "combatscore/internal/platform/net/http"
	str "combatscore/internal/platform/strings"

	metahttp "combatscore/internal/services/api/meta/http"
)

// Module implements the modkit.Module interface
type Module struct {
	deps      modkit.Deps
	service   string
	prefix    string
	startedAt time.Time
}

// New constructs a meta module reporting as service
func New(deps modkit.Deps, service string) *Module {
	return &Module{
		deps:      deps,
		service:   str.MustString(service, "meta service name"),
		prefix:    str.MustPrefix("meta"),
		startedAt: time.Now(),
	}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r phttp.Router) {
	d := metahttp.Deps{ServiceName: m.service, StartedAt: m.startedAt}
	// keep untyped nils so disabled sinks report as skipped
	if m.deps.PG != nil {
		d.PG = m.deps.PG
	}
	if m.deps.CH != nil {
		d.CH = m.deps.CH
	}
	r.Route(m.prefix, func(rr phttp.Router) { metahttp.Register(rr, d) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return "meta" }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
