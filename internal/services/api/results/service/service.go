// Package service serves persisted result tables
package service

import (
	"context"

	"combatscore/internal/adapters/resulttable"
	"combatscore/internal/core/heuristics"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
	"combatscore/internal/services/api/results/domain"
)

// Service defines the results service contract
type Service interface {
	domain.ServicePort
}

// Svc implements the results service over a TableReader
type Svc struct {
	Tables domain.TableReader
}

// New constructs a results service
func New(tables domain.TableReader) *Svc {
	if tables == nil {
		panic("results.Service requires a non nil TableReader")
	}
	return &Svc{Tables: tables}
}

// Heuristics lists every registered heuristic with the state of its table
// A malformed table is reported on its entry rather than failing the listing
func (s *Svc) Heuristics(ctx context.Context) ([]domain.HeuristicInfo, error) {
	entries := heuristics.Entries()
	out := make([]domain.HeuristicInfo, 0, len(entries))
	for _, e := range entries {
		info := domain.HeuristicInfo{Name: string(e.Name), Description: e.Description}
		t, err := s.Tables.Read(ctx, string(e.Name))
		switch {
		case err == nil:
			info.Available = true
			info.Checksum = t.Checksum
			info.Rows = len(t.Rows)
		case perr.IsCode(err, perr.ErrorCodeNotFound):
		default:
			logger.C(ctx).Warn().Err(err).Str("heuristic", info.Name).Msg("result table unreadable")
			info.Error = perr.CodeOf(err).String()
		}
		out = append(out, info)
	}
	return out, nil
}

// Results returns the persisted table for heuristic
// Unknown heuristics and missing tables are NotFound; malformed tables surface as Decode
func (s *Svc) Results(ctx context.Context, heuristic string, in domain.ResultsInput) (domain.ResultsView, error) {
	if _, err := heuristics.Describe(heuristic); err != nil {
		return domain.ResultsView{}, err
	}
	t, err := s.Tables.Read(ctx, heuristic)
	if err != nil {
		if perr.IsCode(err, perr.ErrorCodeNotFound) {
			return domain.ResultsView{}, perr.NotFoundf("no results for heuristic %q", heuristic)
		}
		return domain.ResultsView{}, err
	}
	return domain.ResultsView{
		Heuristic: heuristic,
		Checksum:  t.Checksum,
		Total:     len(t.Rows),
		Rows:      t.Top(in.Limit, in.Order == domain.OrderDesc),
	}, nil
}

// Dir reads tables from a results directory
type Dir string

// Read implements domain.TableReader
func (d Dir) Read(_ context.Context, heuristic string) (domain.Table, error) {
	return resulttable.Read(resulttable.Path(string(d), heuristic))
}
