// Package module wires the scoring pipeline from options and store backends
package module

import (
	"combatscore/internal/adapters/fingerprint"
	"combatscore/internal/modkit"
	perr "combatscore/internal/platform/errors"
	phttp "combatscore/internal/platform/net/http"
	"combatscore/internal/services/scoring/domain"
	"combatscore/internal/services/scoring/ingest"
	"combatscore/internal/services/scoring/progress"
	"combatscore/internal/services/scoring/repo"
	"combatscore/internal/services/scoring/service"
)

// Ports defines the scoring module ports
type Ports struct {
	Runner domain.RunnerPort
}

// Module implements the scoring module
type Module struct {
	deps  modkit.Deps
	opts  Options
	ports Ports
}

var _ modkit.Module = (*Module)(nil)

// New validates opts and wires the scoring service
// Sinks are attached only when opts.Publish is set; at least one store backend must exist then
func New(deps modkit.Deps, opts Options) (*Module, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	src := ingest.NewSource(opts.Pattern)
	fp := ingest.NewFingerprinter(fingerprint.Options{
		Match:     []string{opts.Pattern},
		Jobs:      opts.FingerprintJobs,
		Algorithm: fingerprint.Algorithm(opts.FingerprintAlgo),
	})

	var pubs []domain.Publisher
	if opts.Publish {
		if deps.PG != nil {
			pubs = append(pubs, repo.NewPGPublisher(deps.PG, opts.PublishTable))
		}
		if deps.CH != nil {
			pubs = append(pubs, repo.NewCHPublisher(deps.CH, opts.PublishTable))
		}
		if len(pubs) == 0 {
			return nil, perr.Configf("publishing enabled but no postgres or clickhouse DSN is configured")
		}
	}

	svc := service.New(
		service.Config{
			DataDir:        opts.DataDir,
			ResultsDir:     opts.ResultsDir,
			Workers:        opts.Workers,
			ChunkSize:      opts.ChunkSize,
			PublishRetries: opts.PublishRetries,
			RetryBase:      opts.RetryBase,
		},
		src, fp, progress.New(progress.Mode(opts.Progress)),
		pubs...,
	)

	return &Module{deps: deps, opts: opts, ports: Ports{Runner: svc}}, nil
}

// Options returns the validated options the module was built with
func (m *Module) Options() Options { return m.opts }

// Runner returns the scoring runner
func (m *Module) Runner() domain.RunnerPort { return m.ports.Runner }

// Name returns the module name
func (m *Module) Name() string { return "scoring" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// MountRoutes is a no-op; scoring runs from the CLI only
func (m *Module) MountRoutes(phttp.Router) {}
