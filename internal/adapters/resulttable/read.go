package resulttable

import (
	"context"
	"encoding/csv"
	stderrs "errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
)

// ErrMalformed marks a table that exists but cannot be trusted
var ErrMalformed = stderrs.New("malformed result table")

// Read parses and validates the table at path
// A missing file returns a NotFound error; structural problems wrap ErrMalformed
func Read(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if stderrs.Is(err, fs.ErrNotExist) {
			return Table{}, perr.Wrapf(err, perr.ErrorCodeNotFound, "result table %s", path)
		}
		return Table{}, perr.Wrapf(err, perr.ErrorCodeIO, "open %s", path)
	}
	defer func() { _ = f.Close() }()
	return decode(f, path)
}

func malformed(path, format string, a ...any) error {
	return perr.Wrapf(ErrMalformed, perr.ErrorCodeDecode, "%s: %s", path, fmt.Sprintf(format, a...))
}

func decode(r io.Reader, path string) (Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err == io.EOF {
		return Table{}, malformed(path, "empty file")
	}
	if err != nil {
		return Table{}, perr.Wrapf(stderrs.Join(ErrMalformed, err), perr.ErrorCodeDecode, "%s: header", path)
	}
	if len(head) != 2 || head[0] != HeaderKey || head[1] == "" {
		return Table{}, malformed(path, "bad header")
	}
	t := Table{Checksum: head[1]}

	seen := map[string]struct{}{}
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, perr.Wrapf(stderrs.Join(ErrMalformed, err), perr.ErrorCodeDecode, "%s:%d", path, line)
		}
		if len(rec) != 2 || rec[0] == "" {
			return Table{}, malformed(path, "line %d: want unit,score", line)
		}
		score, err := ParseScore(rec[1])
		if err != nil {
			return Table{}, malformed(path, "line %d: bad score %q", line, rec[1])
		}
		if _, dup := seen[rec[0]]; dup {
			return Table{}, malformed(path, "line %d: duplicate unit %q", line, rec[0])
		}
		seen[rec[0]] = struct{}{}
		t.Rows = append(t.Rows, Row{UnitID: rec[0], Score: score})
	}
	return t, nil
}

// Status classifies a cache lookup
type Status int

// Lookup outcomes
const (
	// Missing means no table exists at the path
	Missing Status = iota
	// Malformed means a table exists but could not be read or validated
	Malformed
	// Stale means a valid table exists for a different fingerprint
	Stale
	// Hit means a valid table exists for the current fingerprint
	Hit
)

var statusNames = [...]string{"missing", "malformed", "stale", "hit"}

func (s Status) String() string {
	if int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// Lookup is the result of Check
type Lookup struct {
	Status Status
	// Stored is the checksum found in a valid table
	Stored string
	// Rows is the number of rows in a valid table
	Rows int
	// Err explains a Malformed status
	Err error
}

// Hit reports whether the stored table can be reused
func (l Lookup) Hit() bool { return l.Status == Hit }

// Check decides whether the table at path is valid for fingerprint
// It never fails: unreadable or malformed tables count as a miss and are logged
func Check(ctx context.Context, path, fingerprint string) Lookup {
	t, err := Read(path)
	switch {
	case perr.IsCode(err, perr.ErrorCodeNotFound):
		return Lookup{Status: Missing}
	case err != nil:
		logger.C(ctx).Warn().
			Err(err).
			Str("path", path).
			Msg("resulttable: existing table unusable, recomputing")
		return Lookup{Status: Malformed, Err: err}
	case t.Checksum != fingerprint:
		return Lookup{Status: Stale, Stored: t.Checksum, Rows: len(t.Rows)}
	default:
		return Lookup{Status: Hit, Stored: t.Checksum, Rows: len(t.Rows)}
	}
}
