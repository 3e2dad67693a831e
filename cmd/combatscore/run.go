package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"combatscore/internal/adapters/fingerprint"
	"combatscore/internal/modkit"
	"combatscore/internal/platform/config"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/metrics"
	phttp "combatscore/internal/platform/net/http"
	"combatscore/internal/platform/store"
	scoringmod "combatscore/internal/services/scoring/module"
	"combatscore/internal/services/scoring/progress"

	"github.com/spf13/cobra"
)

func newRunCmd(cfg config.Conf, opts *scoringmod.Options) *cobra.Command {
	var metricsAddr string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Score every combat with a heuristic and persist the result table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd.Context(), cmd.OutOrStdout(), cfg, *opts, metricsAddr)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.Heuristic, "heuristic", opts.Heuristic, "registered heuristic to apply (see list)")
	f.IntVar(&opts.Workers, "workers", opts.Workers, "scoring goroutines")
	f.IntVar(&opts.ChunkSize, "chunk", opts.ChunkSize, "units handed to a worker at a time")
	f.IntVar(&opts.FingerprintJobs, "jobs", opts.FingerprintJobs, "concurrent file hashes while fingerprinting")
	f.StringVar(&opts.FingerprintAlgo, "algo", opts.FingerprintAlgo, "fingerprint hash: "+strings.Join(fingerprint.Algorithms(), "|"))
	f.StringVar(&opts.Progress, "progress", opts.Progress, "progress reporting: "+strings.Join(progress.Modes(), "|"))
	f.BoolVar(&opts.Publish, "publish", opts.Publish, "mirror the table into configured postgres/clickhouse sinks")
	f.StringVar(&metricsAddr, "metrics-addr", "", "serve prometheus metrics on this address while running")
	return cmd
}

func runScore(ctx context.Context, w io.Writer, cfg config.Conf, opts scoringmod.Options, metricsAddr string) error {
	log := logger.Named("cli")

	var st *store.Store
	if opts.Publish {
		var err error
		st, err = store.Open(ctx, store.FromConfig(cfg, "combatscore", "cli"), store.WithLogger(*log))
		if err != nil {
			return err
		}
		defer func() {
			if err := st.Close(context.WithoutCancel(ctx)); err != nil {
				log.Error().Err(err).Msg("failed to close store")
			}
		}()
	}

	m, err := scoringmod.New(modkit.FromStore(cfg, *log, st), opts)
	if err != nil {
		return err
	}

	if metricsAddr != "" {
		mctx, cancel := context.WithCancel(ctx)
		defer cancel()
		srv := phttp.NewServerAddr(metricsAddr)
		srv.Router().Handle("/metrics", metrics.Handler())
		go func() {
			if err := srv.Run(mctx); err != nil {
				log.Error().Err(err).Str("addr", metricsAddr).Msg("metrics server stopped")
			}
		}()
	}

	out, err := m.Runner().Run(ctx, opts.Heuristic)
	if err != nil {
		return err
	}
	state := "computed"
	if out.CacheHit {
		state = "cached"
	}
	_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", state, out.Fingerprint, out.Path)
	return err
}
