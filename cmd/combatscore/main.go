// Command combatscore scores a directory of recorded combats with a heuristic
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Get().Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("combatscore failed")
		os.Exit(1)
	}
}
