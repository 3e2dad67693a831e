package service

import (
	"context"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"combatscore/internal/core/heuristics"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/metrics"
	"combatscore/internal/services/scoring/domain"

	"golang.org/x/sync/errgroup"
)

// Defaults for the worker pool
const (
	DefaultChunkSize = 10
)

// Pool scores units on a bounded set of workers
// Units are handed out in fixed size chunks; results come back unordered
type Pool struct {
	Workers   int
	ChunkSize int
	Source    domain.UnitSource
	Progress  domain.Progress
}

// Score applies h to every unit and blocks until all are scored or the first failure
// The first failure cancels the remaining work and no results are returned
func (p Pool) Score(ctx context.Context, name string, h heuristics.Heuristic, units []domain.Unit) ([]domain.Result, error) {
	workers := max(p.Workers, 1)
	chunk := p.ChunkSize
	if chunk <= 0 {
		chunk = DefaultChunkSize
	}
	var done atomic.Int64
	if p.Progress != nil {
		stop := p.Progress.Track(ctx, len(units), done.Load)
		defer stop()
	}
	scored := metrics.UnitsScored.WithLabelValues(name)

	g, gctx := errgroup.WithContext(ctx)
	chunks := make(chan []domain.Unit)
	results := make(chan domain.Result, chunk)

	g.Go(func() error {
		defer close(chunks)
		for i := 0; i < len(units); i += chunk {
			select {
			case chunks <- units[i:min(i+chunk, len(units))]:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		g.Go(func() error {
			defer wg.Done()
			for c := range chunks {
				for _, u := range c {
					if err := gctx.Err(); err != nil {
						return err
					}
					r, err := scoreUnit(gctx, p.Source, h, u)
					if err != nil {
						return err
					}
					done.Add(1)
					scored.Inc()
					select {
					case results <- r:
					case <-gctx.Done():
						return gctx.Err()
					}
				}
			}
			return nil
		})
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	out := make([]domain.Result, 0, len(units))
	for r := range results {
		out = append(out, r)
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// scoreUnit runs h over one unit; a panic in h becomes an error
func scoreUnit(ctx context.Context, src domain.UnitSource, h heuristics.Heuristic, u domain.Unit) (res domain.Result, err error) {
	metrics.UnitsInFlight.Inc()
	defer metrics.UnitsInFlight.Dec()
	defer func() {
		if rec := recover(); rec != nil {
			logger.C(ctx).Error().
				Str("unit", u.ID).
				Interface("panic", rec).
				Bytes("stack", debug.Stack()).
				Msg("heuristic panicked")
			err = perr.WithOp(perr.PanicErrf("heuristic panicked on unit %s: %v", u.ID, rec), "score")
		}
	}()

	s := src.Stream(ctx, u)
	score := h(s.All())
	if err := s.Err(); err != nil {
		return domain.Result{}, err
	}
	return domain.Result{UnitID: u.ID, Score: score}, nil
}
