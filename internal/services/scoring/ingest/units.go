// Package ingest turns the on-disk dataset layout into units and event streams
package ingest

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"combatscore/internal/adapters/eventlog"
	"combatscore/internal/adapters/fingerprint"
	"combatscore/internal/core/event"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/services/scoring/domain"
)

// DefaultPattern matches combat log files
const DefaultPattern = "*.gz"

// Source implements domain.UnitSource over the local filesystem
type Source struct {
	Pattern string
}

// NewSource returns a Source matching pattern (DefaultPattern when empty)
func NewSource(pattern string) *Source {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Source{Pattern: pattern}
}

var _ domain.UnitSource = (*Source)(nil)

// Units lists the unit directories directly under root, sorted by id
// Hidden directories are skipped; symlinks to directories count as units and are fingerprinted
func (s *Source) Units(_ context.Context, root string) ([]domain.Unit, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "list dataset root %s", root)
	}
	out := make([]domain.Unit, 0, len(entries))
	for _, e := range entries {
		if strings.HasPrefix(e.Name(), ".") {
			continue
		}
		if !fingerprint.EntryType(root, e).IsDir() {
			continue
		}
		out = append(out, domain.Unit{ID: e.Name(), Dir: filepath.Join(root, e.Name())})
	}
	return out, nil
}

// Stream returns the unit's events: its matching files in name order, concatenated
func (s *Source) Stream(ctx context.Context, u domain.Unit) *event.Stream {
	return UnitStream(ctx, u.Dir, s.Pattern)
}

// UnitStream lazily concatenates the events of every file in dir whose name matches pattern
// Listing happens on first iteration; a listing failure is reported through Err
func UnitStream(ctx context.Context, dir, pattern string) *event.Stream {
	return event.NewStream(func(yield func(event.Event) bool) error {
		files, err := LogFiles(dir, pattern)
		if err != nil {
			return err
		}
		for _, f := range files {
			cont, err := eventlog.Each(ctx, f, yield)
			if err != nil {
				return perr.WithOp(err, "unit "+filepath.Base(dir))
			}
			if !cont {
				return nil
			}
		}
		return nil
	})
}

// LogFiles returns the regular, non hidden files in dir matching pattern, sorted by name
// Symlinks to regular files are included, matching what the fingerprint hashes
func LogFiles(dir, pattern string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeIO, "list unit %s", dir)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") || !fingerprint.EntryType(dir, e).IsRegular() {
			continue
		}
		ok, err := filepath.Match(pattern, name)
		if err != nil {
			return nil, perr.Wrapf(err, perr.ErrorCodeConfig, "bad pattern %q", pattern)
		}
		if ok {
			names = append(names, name)
		}
	}
	slices.Sort(names)
	out := make([]string, len(names))
	for i, n := range names {
		out[i] = filepath.Join(dir, n)
	}
	return out, nil
}
