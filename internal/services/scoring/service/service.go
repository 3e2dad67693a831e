// Package service runs the incremental scoring pipeline:
// fingerprint, cache check, parallel scoring, atomic write, optional publish
package service

import (
	"context"
	"math/rand/v2"
	"time"

	"combatscore/internal/adapters/resulttable"
	"combatscore/internal/core/heuristics"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/metrics"
	"combatscore/internal/services/scoring/domain"

	"github.com/google/uuid"
)

// Config holds the scoring service options
type Config struct {
	DataDir    string
	ResultsDir string

	// Worker pool
	Workers   int // <=0 -> 1
	ChunkSize int // <=0 -> DefaultChunkSize

	// Sink retries
	PublishRetries int           // attempts per sink; <=0 -> 1
	RetryBase      time.Duration // <=0 -> 500ms
}

// Service implements domain.RunnerPort
type Service struct {
	Cfg        Config
	Source     domain.UnitSource
	FP         domain.Fingerprinter
	Progress   domain.Progress
	Publishers []domain.Publisher

	newRunID func() string
}

var _ domain.RunnerPort = (*Service)(nil)

// New constructs the scoring service
func New(cfg Config, src domain.UnitSource, fp domain.Fingerprinter, prog domain.Progress, pubs ...domain.Publisher) *Service {
	if src == nil {
		panic("scoring.Service requires a non nil UnitSource")
	}
	if fp == nil {
		panic("scoring.Service requires a non nil Fingerprinter")
	}
	return &Service{
		Cfg:        cfg,
		Source:     src,
		FP:         fp,
		Progress:   prog,
		Publishers: pubs,
		newRunID:   uuid.NewString,
	}
}

// Fingerprint digests the configured dataset
func (s *Service) Fingerprint(ctx context.Context) (string, error) {
	return s.FP.Fingerprint(ctx, s.Cfg.DataDir)
}

// Run scores the dataset with the named heuristic
// A persisted table whose checksum matches the dataset is reused without scoring
func (s *Service) Run(ctx context.Context, name string) (out domain.Outcome, err error) {
	start := time.Now()
	out = domain.Outcome{Heuristic: name, Path: resulttable.Path(s.Cfg.ResultsDir, name)}

	h, err := heuristics.Lookup(name)
	if err != nil {
		metrics.RunsTotal.WithLabelValues(name, "error").Inc()
		return out, perr.Wrapf(err, perr.ErrorCodeConfig, "cannot score with %q", name)
	}

	out.RunID = s.newRunID()
	ctx = logger.WithRun(ctx, out.RunID, name)
	log := logger.C(ctx)

	defer func() {
		out.Elapsed = time.Since(start)
		metrics.RunDuration.WithLabelValues(name).Observe(out.Elapsed.Seconds())
		switch {
		case err != nil:
			metrics.RunsTotal.WithLabelValues(name, "error").Inc()
			log.Error().Err(err).Str("code", perr.CodeOf(err).String()).Msg("run failed")
		case out.CacheHit:
			metrics.RunsTotal.WithLabelValues(name, "hit").Inc()
		default:
			metrics.RunsTotal.WithLabelValues(name, "computed").Inc()
		}
	}()

	log.Info().Str("data", s.Cfg.DataDir).Msg("hashing dataset")
	t := time.Now()
	fp, err := s.FP.Fingerprint(ctx, s.Cfg.DataDir)
	observe(domain.PhaseFingerprint, t)
	if err != nil {
		return out, err
	}
	out.Fingerprint = fp
	log.Info().Msgf("applying %s to dataset with checksum %s", name, fp)

	t = time.Now()
	lookup := resulttable.Check(ctx, out.Path, fp)
	observe(domain.PhaseCacheCheck, t)
	if lookup.Hit() {
		log.Info().Msgf("result already exists at %s", out.Path)
		out.CacheHit = true
		out.Units = lookup.Rows
		if len(s.Publishers) > 0 {
			tbl, err := resulttable.Read(out.Path)
			if err != nil {
				return out, err
			}
			out.Published, err = s.publish(ctx, domain.Publication{
				RunID: out.RunID, Heuristic: name, Fingerprint: fp, Rows: tbl.Rows,
			})
			if err != nil {
				return out, err
			}
		}
		return out, nil
	}
	log.Debug().Str("status", lookup.Status.String()).Msg("no reusable table")

	units, err := s.Source.Units(ctx, s.Cfg.DataDir)
	if err != nil {
		return out, err
	}
	log.Debug().Int("units", len(units)).Int("workers", max(s.Cfg.Workers, 1)).Msg("scoring units")

	t = time.Now()
	rows, err := Pool{
		Workers:   s.Cfg.Workers,
		ChunkSize: s.Cfg.ChunkSize,
		Source:    s.Source,
		Progress:  s.Progress,
	}.Score(ctx, name, h, units)
	observe(domain.PhaseScoring, t)
	if err != nil {
		return out, err
	}
	resulttable.Sort(rows)

	log.Info().Msg("saving results")
	t = time.Now()
	err = resulttable.Write(out.Path, fp, rows)
	observe(domain.PhaseWriting, t)
	if err != nil {
		return out, err
	}
	out.Units = len(rows)

	if len(s.Publishers) > 0 {
		out.Published, err = s.publish(ctx, domain.Publication{
			RunID: out.RunID, Heuristic: name, Fingerprint: fp, Rows: rows,
		})
		if err != nil {
			return out, err
		}
	}
	log.Info().Int("units", out.Units).Msg("done")
	return out, nil
}

// publish hands p to every sink in order and stops at the first failure
func (s *Service) publish(ctx context.Context, p domain.Publication) ([]string, error) {
	t := time.Now()
	defer observe(domain.PhasePublishing, t)

	done := make([]string, 0, len(s.Publishers))
	for _, pub := range s.Publishers {
		err := s.publishWithRetry(ctx, pub, p)
		metrics.Publishes.WithLabelValues(pub.Name(), metrics.Status(err)).Inc()
		if err != nil {
			return done, perr.WithOp(err, "publish "+pub.Name())
		}
		logger.C(ctx).Info().Str("sink", pub.Name()).Int("rows", len(p.Rows)).Msg("published results")
		done = append(done, pub.Name())
	}
	return done, nil
}

func (s *Service) publishWithRetry(ctx context.Context, pub domain.Publisher, p domain.Publication) error {
	attempts := max(s.Cfg.PublishRetries, 1)
	base := s.Cfg.RetryBase
	if base <= 0 {
		base = 500 * time.Millisecond
	}

	var last error
	for i := range attempts {
		err := pub.Publish(ctx, p)
		if err == nil {
			return nil
		}
		last = err

		if !perr.IsRetryable(err) && perr.CodeOf(err) != perr.ErrorCodeUnavailable {
			return last
		}
		if i == attempts-1 {
			break
		}

		// exponential backoff with jitter, cap at 10s
		d := min(base<<i, 10*time.Second)
		j := d/2 + rand.N(d/2+1)
		logger.C(ctx).Warn().Err(err).Str("sink", pub.Name()).Dur("backoff", j).Msg("publish failed, retrying")
		if se := sleepCtx(ctx, j); se != nil {
			return se
		}
	}
	return last
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func observe(p domain.Phase, since time.Time) {
	metrics.PhaseDuration.WithLabelValues(string(p)).Observe(time.Since(since).Seconds())
}
