package eventlog

import (
	"bufio"
	"bytes"
	"context"
	stderrs "errors"
	"io"
	"os"
	"path/filepath"

	"combatscore/internal/core/event"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/metrics"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

const (
	maxScanTokenSize = 32 * 1024 * 1024
	initialBuf       = 512 * 1024
	ctxCheckEvery    = 256
)

// ErrCorrupt marks container level failures of a single file
var ErrCorrupt = stderrs.New("eventlog: corrupt container")

// Reader streams events from one gzip file
type Reader struct {
	name   string
	r      io.ReadCloser
	gz     *gzip.Reader
	sc     *bufio.Scanner
	err    error
	line   int
	events int
	bytes  int64
}

// Open opens path for reading; failures are container errors
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(stderrs.Join(ErrCorrupt, err), perr.ErrorCodeIO, "open %s", path)
	}
	return NewReader(f, path)
}

// NewReader creates a Reader over r; name is used in errors and warnings
func NewReader(r io.ReadCloser, name string) (*Reader, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		cerr := r.Close()
		return nil, perr.Wrapf(stderrs.Join(ErrCorrupt, err, cerr), perr.ErrorCodeIO, "gzip header %s", name)
	}
	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, initialBuf), maxScanTokenSize)
	return &Reader{name: name, r: r, gz: gz, sc: sc}, nil
}

// Next reads the next event; returns io.EOF when done
// Decode errors carry ErrorCodeDecode, container errors wrap ErrCorrupt
func (rd *Reader) Next() (event.Event, error) {
	if rd.err != nil {
		return nil, rd.err
	}
	for {
		if !rd.sc.Scan() {
			err := rd.sc.Err()
			switch {
			case err == nil:
				rd.err = io.EOF
			case stderrs.Is(err, bufio.ErrTooLong):
				rd.err = perr.Wrapf(err, perr.ErrorCodeDecode, "%s:%d: line exceeds %d bytes", rd.name, rd.line+1, maxScanTokenSize)
			default:
				rd.err = perr.Wrapf(stderrs.Join(ErrCorrupt, err), perr.ErrorCodeIO, "read %s", rd.name)
			}
			return nil, rd.err
		}
		rd.line++
		line := rd.sc.Bytes()
		rd.bytes += int64(len(line) + 1) // include newline
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}

		var ev event.Event
		if err := json.Unmarshal(line, &ev); err != nil {
			rd.err = perr.Wrapf(err, perr.ErrorCodeDecode, "%s:%d: malformed event", rd.name, rd.line)
			return nil, rd.err
		}
		if ev == nil {
			rd.err = perr.Decodef("%s:%d: event is not an object", rd.name, rd.line)
			return nil, rd.err
		}
		rd.events++
		return ev, nil
	}
}

// Close closes the gzip stream and the underlying reader
func (rd *Reader) Close() error {
	var errs []error
	if rd.gz != nil {
		errs = append(errs, rd.gz.Close())
	}
	if rd.r != nil {
		errs = append(errs, rd.r.Close())
	}
	return stderrs.Join(errs...)
}

// Stats returns the number of events decoded and uncompressed bytes read so far
func (rd *Reader) Stats() (events int, bytes int64) {
	return rd.events, rd.bytes
}

// IsCorrupt reports whether err is a container level failure
func IsCorrupt(err error) bool { return stderrs.Is(err, ErrCorrupt) }

// Each yields every event of the file at path in order
// Container failures are logged and end the file without error
// It returns false when yield asked to stop
func Each(ctx context.Context, path string, yield func(event.Event) bool) (bool, error) {
	rd, err := Open(path)
	if err != nil {
		warnCorrupt(ctx, path, err)
		return true, nil
	}
	defer func() { _ = rd.Close() }()

	for i := 0; ; i++ {
		if i%ctxCheckEvery == 0 {
			if err := ctx.Err(); err != nil {
				return false, err
			}
		}
		ev, err := rd.Next()
		if err == io.EOF {
			return true, nil
		}
		if err != nil {
			if IsCorrupt(err) {
				warnCorrupt(ctx, path, err)
				return true, nil
			}
			return false, err
		}
		metrics.EventsRead.Inc()
		if !yield(ev) {
			return false, nil
		}
	}
}

func warnCorrupt(ctx context.Context, path string, err error) {
	metrics.CorruptFiles.Inc()
	logger.C(ctx).Warn().
		Str("file", displayPath(path)).
		Err(err).
		Msg("eventlog: unreadable gzip file, skipping remainder")
}

// displayPath renders path relative to the working directory when possible
func displayPath(path string) string {
	wd, err := os.Getwd()
	if err != nil {
		return path
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return path
	}
	if rel, err := filepath.Rel(wd, abs); err == nil {
		return rel
	}
	return path
}
