package eventlog

import (
	"context"
	"io"
	"path/filepath"
	"testing"

	"combatscore/internal/core/event"
	perr "combatscore/internal/platform/errors"
	kit "combatscore/internal/platform/testkit"
)

func collect(t *testing.T, path string) ([]event.Event, error) {
	t.Helper()
	var out []event.Event
	_, err := Each(context.Background(), path, func(e event.Event) bool {
		out = append(out, e)
		return true
	})
	return out, err
}

func TestEach_ReadsAllLinesInOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	p := kit.WriteEvents(t, dir, "a.gz", kit.Msg("u1", "one"), kit.Cmd("u2", "go"), kit.Msg("u1", "two"))

	evs, err := collect(t, p)
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if len(evs) != 3 {
		t.Fatalf("want 3 events, got %d", len(evs))
	}
	if evs[0].Str(event.KeyContent) != "one" || evs[1].Type() != event.TypeCommand || evs[2].Str(event.KeyContent) != "two" {
		t.Fatalf("events out of order: %+v", evs)
	}
}

func TestEach_SkipsBlankLines(t *testing.T) {
	t.Parallel()

	raw := []byte("{\"event_type\":\"message\"}\n\n   \n{\"event_type\":\"command\"}\n")
	p := kit.WriteFile(t, t.TempDir(), "a.gz", kit.GzipBytes(t, raw))

	evs, err := collect(t, p)
	if err != nil || len(evs) != 2 {
		t.Fatalf("got %d events, err %v", len(evs), err)
	}
}

func TestEach_CorruptContainerYieldsNothing(t *testing.T) {
	t.Parallel()

	p := kit.WriteCorrupt(t, t.TempDir(), "bad.gz")
	evs, err := collect(t, p)
	if err != nil {
		t.Fatalf("corrupt container must not error, got %v", err)
	}
	if len(evs) != 0 {
		t.Fatalf("want 0 events, got %d", len(evs))
	}
}

func TestEach_TruncatedKeepsPrefix(t *testing.T) {
	t.Parallel()

	evs := make([]kit.Ev, 0, 200)
	for i := 0; i < 200; i++ {
		evs = append(evs, kit.Msg("u", "some reasonably long message body to fill the buffer"))
	}
	full := kit.GzipLines(t, evs...)
	p := kit.WriteFile(t, t.TempDir(), "trunc.gz", full[:len(full)-12])

	got, err := collect(t, p)
	if err != nil {
		t.Fatalf("truncated container must not error, got %v", err)
	}
	if len(got) > 200 {
		t.Fatalf("too many events: %d", len(got))
	}
}

func TestEach_MissingFileIsSkipped(t *testing.T) {
	t.Parallel()

	evs, err := collect(t, filepath.Join(t.TempDir(), "nope.gz"))
	if err != nil || len(evs) != 0 {
		t.Fatalf("got %d events, err %v", len(evs), err)
	}
}

func TestEach_MalformedLineIsFatal(t *testing.T) {
	t.Parallel()

	raw := []byte("{\"event_type\":\"message\"}\n{not json\n{\"event_type\":\"message\"}\n")
	p := kit.WriteFile(t, t.TempDir(), "bad-line.gz", kit.GzipBytes(t, raw))

	evs, err := collect(t, p)
	if err == nil {
		t.Fatalf("expected decode error")
	}
	if !perr.IsCode(err, perr.ErrorCodeDecode) {
		t.Fatalf("want decode code, got %v", perr.CodeOf(err))
	}
	kit.MustContain(t, err.Error(), "bad-line.gz:2")
	if len(evs) != 1 {
		t.Fatalf("events before the bad line should be yielded, got %d", len(evs))
	}
}

func TestEach_NonObjectIsFatal(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"null", "[1,2]", "\"text\"", "7"} {
		p := kit.WriteFile(t, t.TempDir(), "x.gz", kit.GzipBytes(t, []byte(line+"\n")))
		if _, err := collect(t, p); !perr.IsCode(err, perr.ErrorCodeDecode) {
			t.Fatalf("%s: want decode error, got %v", line, err)
		}
	}
}

func TestEach_StopsWhenYieldReturnsFalse(t *testing.T) {
	t.Parallel()

	p := kit.WriteEvents(t, t.TempDir(), "a.gz", kit.Msg("a", "1"), kit.Msg("a", "2"))
	n := 0
	cont, err := Each(context.Background(), p, func(event.Event) bool {
		n++
		return false
	})
	if cont || err != nil || n != 1 {
		t.Fatalf("cont=%v err=%v n=%d", cont, err, n)
	}
}

func TestEach_CanceledContext(t *testing.T) {
	t.Parallel()

	p := kit.WriteEvents(t, t.TempDir(), "a.gz", kit.Msg("a", "1"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Each(ctx, p, func(event.Event) bool { return true }); err == nil {
		t.Fatalf("expected context error")
	}
}

func TestReader_NextAndStats(t *testing.T) {
	t.Parallel()

	p := kit.WriteEvents(t, t.TempDir(), "a.gz", kit.Msg("a", "1"), kit.Msg("b", "2"))
	rd, err := Open(p)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer func() { _ = rd.Close() }()

	n := 0
	for {
		_, err := rd.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("next: %v", err)
		}
		n++
	}
	events, bytes := rd.Stats()
	if n != 2 || events != 2 || bytes <= 0 {
		t.Fatalf("n=%d events=%d bytes=%d", n, events, bytes)
	}
	if _, err := rd.Next(); err != io.EOF {
		t.Fatalf("sticky EOF expected, got %v", err)
	}
}

func TestOpen_CorruptIsFlagged(t *testing.T) {
	t.Parallel()

	p := kit.WriteCorrupt(t, t.TempDir(), "bad.gz")
	if _, err := Open(p); !IsCorrupt(err) {
		t.Fatalf("want corrupt error, got %v", err)
	}
}
