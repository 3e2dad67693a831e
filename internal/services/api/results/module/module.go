// Package module wires persisted results into the API
package module

import (
	"combatscore/internal/modkit"
	phttp "combatscore/internal/platform/net/http"
	str "combatscore/internal/platform/strings"
	resultshttp "combatscore/internal/services/api/results/http"
	resultssvc "combatscore/internal/services/api/results/service"
)

// Module implements the modkit.Module interface
type Module struct {
	deps  modkit.Deps
	svc   resultssvc.Service
	ports any
}

// New constructs the results module reading tables from dir
func New(deps modkit.Deps, dir string) *Module {
	svc := resultssvc.New(resultssvc.Dir(str.MustString(dir, "results dir")))
	return &Module{deps: deps, svc: svc, ports: svc}
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r phttp.Router) {
	r.Group(func(rr phttp.Router) { resultshttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return "results" }

// Ports returns the results service port
func (m *Module) Ports() any { return m.ports }
