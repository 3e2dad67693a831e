package main

import (
	"combatscore/internal/core/version"
	"combatscore/internal/platform/config"
	"combatscore/internal/platform/logger"
	scoringmod "combatscore/internal/services/scoring/module"

	"github.com/spf13/cobra"
)

// newRootCmd builds the command tree; flag defaults come from COMBATSCORE_* env
func newRootCmd() *cobra.Command {
	cfg := config.New()
	opts := scoringmod.FromConfig(cfg)

	root := &cobra.Command{
		Use:           "combatscore",
		Short:         "Score recorded combats with a heuristic, reusing results while the dataset is unchanged",
		Version:       version.Info().String(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(*cobra.Command, []string) {
			lo := logger.FromEnv()
			if lo.Service == "" {
				lo.Service = "combatscore"
			}
			logger.Init(lo)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.DataDir, "data", opts.DataDir, "dataset root holding one directory per combat")
	pf.StringVar(&opts.ResultsDir, "results", opts.ResultsDir, "directory holding <heuristic>.csv result tables")
	pf.StringVar(&opts.Pattern, "pattern", opts.Pattern, "glob selecting event log files inside a combat directory")

	root.AddCommand(
		newRunCmd(cfg, &opts),
		newListCmd(),
		newShowCmd(&opts),
		newFingerprintCmd(&opts),
	)
	return root
}
