package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"combatscore/internal/adapters/fingerprint"
	"combatscore/internal/adapters/resulttable"
	"combatscore/internal/core/event"
	"combatscore/internal/core/heuristics"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/testkit"
	"combatscore/internal/services/scoring/domain"
	"combatscore/internal/services/scoring/ingest"
)

type countingFP struct {
	inner domain.Fingerprinter
	calls atomic.Int32
}

func (c *countingFP) Fingerprint(ctx context.Context, root string) (string, error) {
	c.calls.Add(1)
	return c.inner.Fingerprint(ctx, root)
}

type fakePub struct {
	name string
	errs []error // returned in order, then nil

	mu    sync.Mutex
	calls int
	got   []domain.Publication
}

func (f *fakePub) Name() string { return f.name }

func (f *fakePub) Publish(_ context.Context, p domain.Publication) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if len(f.errs) > 0 {
		err := f.errs[0]
		f.errs = f.errs[1:]
		return err
	}
	f.got = append(f.got, p)
	return nil
}

func newSvc(t *testing.T, data string, pubs ...domain.Publisher) (*Service, *countingFP) {
	t.Helper()
	fp := &countingFP{inner: ingest.NewFingerprinter(fingerprint.Options{Jobs: 2})}
	svc := New(Config{
		DataDir:    data,
		ResultsDir: filepath.Join(t.TempDir(), "results"),
		Workers:    3,
		ChunkSize:  2,
		RetryBase:  time.Millisecond,
	}, ingest.NewSource(""), fp, nil, pubs...)
	svc.newRunID = func() string { return "run-1" }
	return svc, fp
}

func sample(t *testing.T) string {
	return testkit.BuildDataset(t, testkit.Dataset{
		"c1": {"a.gz": {testkit.Msg("x", "hi"), testkit.Cmd("x", "go")}},
		"c2": {"a.gz": {testkit.Msg("x", "hi"), testkit.Msg("y", "yo")}},
		"c3": {"a.gz": {testkit.Cmd("x", "go")}, "b.gz": {testkit.Cmd("y", "go")}},
	})
}

func TestRunComputesThenHits(t *testing.T) {
	data := sample(t)
	svc, _ := newSvc(t, data)
	ctx := context.Background()

	out, err := svc.Run(ctx, string(heuristics.MessageToCommandRatio))
	if err != nil {
		t.Fatal(err)
	}
	if out.CacheHit || out.Units != 3 || out.RunID != "run-1" || out.Fingerprint == "" {
		t.Fatalf("outcome=%+v", out)
	}

	tbl, err := resulttable.Read(out.Path)
	if err != nil {
		t.Fatal(err)
	}
	if tbl.Checksum != out.Fingerprint {
		t.Fatalf("checksum=%s want %s", tbl.Checksum, out.Fingerprint)
	}
	want := []resulttable.Row{{UnitID: "c3", Score: 0}, {UnitID: "c1", Score: 0.5}, {UnitID: "c2", Score: 1}}
	if !slices.Equal(tbl.Rows, want) {
		t.Fatalf("rows=%v want %v", tbl.Rows, want)
	}

	info1, _ := os.Stat(out.Path)
	again, err := svc.Run(ctx, string(heuristics.MessageToCommandRatio))
	if err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || again.Units != 3 {
		t.Fatalf("second run should hit: %+v", again)
	}
	info2, _ := os.Stat(out.Path)
	if !info1.ModTime().Equal(info2.ModTime()) {
		t.Fatal("cache hit must not rewrite the table")
	}
}

func TestRunRecomputesWhenDatasetChanges(t *testing.T) {
	data := sample(t)
	svc, _ := newSvc(t, data)
	ctx := context.Background()
	first, err := svc.Run(ctx, string(heuristics.EventCount))
	if err != nil {
		t.Fatal(err)
	}
	testkit.WriteEvents(t, filepath.Join(data, "c4"), "a.gz", testkit.Msg("z", "new"))

	second, err := svc.Run(ctx, string(heuristics.EventCount))
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHit || second.Fingerprint == first.Fingerprint || second.Units != 4 {
		t.Fatalf("second=%+v first=%+v", second, first)
	}
}

func TestRunRecomputesWhenLinkedUnitChanges(t *testing.T) {
	data := sample(t)
	outside := t.TempDir()
	testkit.WriteEvents(t, outside, "a.gz", testkit.Msg("z", "one"))
	if err := os.Symlink(outside, filepath.Join(data, "linked")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	svc, _ := newSvc(t, data)
	ctx := context.Background()

	first, err := svc.Run(ctx, string(heuristics.EventCount))
	if err != nil {
		t.Fatal(err)
	}
	if first.Units != 4 {
		t.Fatalf("linked unit not scored: %+v", first)
	}

	testkit.WriteEvents(t, outside, "a.gz", testkit.Msg("z", "one"), testkit.Msg("z", "two"), testkit.Msg("z", "three"))
	second, err := svc.Run(ctx, string(heuristics.EventCount))
	if err != nil {
		t.Fatal(err)
	}
	if second.CacheHit || second.Fingerprint == first.Fingerprint {
		t.Fatalf("changed linked unit must invalidate the table: first=%+v second=%+v", first, second)
	}
	tbl, err := resulttable.Read(second.Path)
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Contains(tbl.Rows, resulttable.Row{UnitID: "linked", Score: 3}) {
		t.Fatalf("rows=%v", tbl.Rows)
	}
}

func TestRunTableIdenticalAcrossPoolSizes(t *testing.T) {
	ds := testkit.Dataset{}
	for i := range 41 {
		evs := []testkit.Ev{testkit.Msg("a", "hello there")}
		for j := range i % 5 {
			evs = append(evs, testkit.Cmd(fmt.Sprintf("p%d", j), "go"), testkit.Msg("b", "again"))
		}
		ds[fmt.Sprintf("combat-%02d", i)] = map[string][]testkit.Ev{"1.gz": evs, "2.gz": {testkit.Msg("c", "tail")}}
	}
	data := testkit.BuildDataset(t, ds)
	testkit.WriteCorrupt(t, filepath.Join(data, "combat-07"), "0.gz")

	var want []byte
	for _, n := range []int{1, 3, 16} {
		svc := New(Config{
			DataDir:    data,
			ResultsDir: t.TempDir(),
			Workers:    n,
			ChunkSize:  DefaultChunkSize,
		}, ingest.NewSource(""), ingest.NewFingerprinter(fingerprint.Options{Jobs: n}), nil)

		out, err := svc.Run(context.Background(), string(heuristics.MessageToCommandRatio))
		if err != nil {
			t.Fatalf("workers=%d: %v", n, err)
		}
		got, err := os.ReadFile(out.Path)
		if err != nil {
			t.Fatal(err)
		}
		if want == nil {
			want = got
			continue
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("workers=%d table differs:\n%s\nwant:\n%s", n, got, want)
		}
	}
}

func TestRunUnknownHeuristicBeforeHashing(t *testing.T) {
	svc, fp := newSvc(t, sample(t))
	_, err := svc.Run(context.Background(), "nope")
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error, got %v", err)
	}
	if !errors.Is(err, heuristics.ErrUnknownHeuristic) {
		t.Fatalf("want ErrUnknownHeuristic in chain, got %v", err)
	}
	testkit.MustContain(t, err.Error(), "nope")
	if fp.calls.Load() != 0 {
		t.Fatal("fingerprint must not run for an unknown heuristic")
	}
}

func TestRunBadRootIsConfigError(t *testing.T) {
	svc, _ := newSvc(t, filepath.Join(t.TempDir(), "missing"))
	_, err := svc.Run(context.Background(), string(heuristics.EventCount))
	if !perr.IsCode(err, perr.ErrorCodeConfig) {
		t.Fatalf("want config error, got %v", err)
	}
}

func TestRunDecodeErrorLeavesPreviousTable(t *testing.T) {
	data := sample(t)
	svc, _ := newSvc(t, data)
	ctx := context.Background()
	out, err := svc.Run(ctx, string(heuristics.EventCount))
	if err != nil {
		t.Fatal(err)
	}
	before, _ := os.ReadFile(out.Path)

	testkit.WriteFile(t, filepath.Join(data, "c2"), "z.gz", testkit.GzipBytes(t, []byte("{oops\n")))
	_, err = svc.Run(ctx, string(heuristics.EventCount))
	if !perr.IsCode(err, perr.ErrorCodeDecode) {
		t.Fatalf("want decode error, got %v", err)
	}
	after, _ := os.ReadFile(out.Path)
	if string(before) != string(after) {
		t.Fatal("failed run must not touch the persisted table")
	}
}

func TestRunEmptyDataset(t *testing.T) {
	svc, _ := newSvc(t, t.TempDir())
	out, err := svc.Run(context.Background(), string(heuristics.NumParticipants))
	if err != nil {
		t.Fatal(err)
	}
	tbl, err := resulttable.Read(out.Path)
	if err != nil {
		t.Fatal(err)
	}
	if len(tbl.Rows) != 0 || tbl.Checksum != out.Fingerprint {
		t.Fatalf("tbl=%+v", tbl)
	}
}

func TestRunPublishesOnComputeAndHit(t *testing.T) {
	pub := &fakePub{name: "fake"}
	svc, _ := newSvc(t, sample(t), pub)
	ctx := context.Background()

	out, err := svc.Run(ctx, string(heuristics.EventCount))
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(out.Published, []string{"fake"}) {
		t.Fatalf("published=%v", out.Published)
	}
	if _, err := svc.Run(ctx, string(heuristics.EventCount)); err != nil {
		t.Fatal(err)
	}
	if len(pub.got) != 2 {
		t.Fatalf("publish calls=%d", len(pub.got))
	}
	for _, p := range pub.got {
		if p.Fingerprint != out.Fingerprint || len(p.Rows) != 3 || p.Heuristic != string(heuristics.EventCount) {
			t.Fatalf("publication=%+v", p)
		}
	}
	if !slices.Equal(pub.got[0].Rows, pub.got[1].Rows) {
		t.Fatal("hit must republish the persisted rows")
	}
}

func TestRunPublishRetriesUnavailable(t *testing.T) {
	pub := &fakePub{name: "flaky", errs: []error{perr.Unavailablef("down"), perr.Unavailablef("down")}}
	svc, _ := newSvc(t, sample(t), pub)
	svc.Cfg.PublishRetries = 3
	if _, err := svc.Run(context.Background(), string(heuristics.EventCount)); err != nil {
		t.Fatal(err)
	}
	if pub.calls != 3 {
		t.Fatalf("calls=%d want 3", pub.calls)
	}
}

func TestRunPublishFailureKeepsTable(t *testing.T) {
	pub := &fakePub{name: "broken", errs: []error{perr.Newf(perr.ErrorCodeDB, "constraint")}}
	svc, _ := newSvc(t, sample(t), pub)
	svc.Cfg.PublishRetries = 3
	out, err := svc.Run(context.Background(), string(heuristics.EventCount))
	if !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want db error, got %v", err)
	}
	if pub.calls != 1 {
		t.Fatalf("non retryable error retried: calls=%d", pub.calls)
	}
	if _, err := resulttable.Read(out.Path); err != nil {
		t.Fatalf("table should stay valid: %v", err)
	}
}

func TestPoolScoresEveryUnit(t *testing.T) {
	ds := testkit.Dataset{}
	for i := range 37 {
		ds[string(rune('a'+i%26))+string(rune('0'+i/26))] = map[string][]testkit.Ev{"x.gz": {testkit.Msg("u", "hi")}}
	}
	root := testkit.BuildDataset(t, ds)
	src := ingest.NewSource("")
	units, err := src.Units(context.Background(), root)
	if err != nil {
		t.Fatal(err)
	}
	h, _ := heuristics.Lookup(string(heuristics.EventCount))

	for _, w := range []int{1, 4, 64} {
		rows, err := Pool{Workers: w, ChunkSize: 5, Source: src}.Score(context.Background(), "event_count", h, units)
		if err != nil {
			t.Fatal(err)
		}
		if len(rows) != len(units) {
			t.Fatalf("workers=%d rows=%d want %d", w, len(rows), len(units))
		}
		seen := map[string]bool{}
		for _, r := range rows {
			if seen[r.UnitID] || r.Score != 1 {
				t.Fatalf("bad row %+v", r)
			}
			seen[r.UnitID] = true
		}
	}
}

func TestPoolRecoversPanic(t *testing.T) {
	root := testkit.BuildDataset(t, testkit.Dataset{
		"a": {"x.gz": {testkit.Msg("u", "hi")}},
		"b": {"x.gz": {testkit.Msg("u", "hi")}},
	})
	src := ingest.NewSource("")
	units, _ := src.Units(context.Background(), root)
	boom := func(seq iter.Seq[event.Event]) float64 {
		for range seq {
		}
		panic("boom")
	}
	var rows []domain.Result
	var err error
	testkit.MustNotPanic(t, func() {
		rows, err = Pool{Workers: 2, Source: src}.Score(context.Background(), "boom", boom, units)
	})
	if !perr.IsCode(err, perr.ErrorCodePanic) || rows != nil {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
	testkit.MustContain(t, err.Error(), "boom")
}

func TestPoolHonorsCanceledContext(t *testing.T) {
	root := sample(t)
	src := ingest.NewSource("")
	units, _ := src.Units(context.Background(), root)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	h, _ := heuristics.Lookup(string(heuristics.EventCount))
	if _, err := (Pool{Workers: 2, Source: src}).Score(ctx, "event_count", h, units); !errors.Is(err, context.Canceled) {
		t.Fatalf("want canceled, got %v", err)
	}
}

func TestPoolNoUnits(t *testing.T) {
	h, _ := heuristics.Lookup(string(heuristics.EventCount))
	rows, err := Pool{Workers: 4, Source: ingest.NewSource("")}.Score(context.Background(), "event_count", h, nil)
	if err != nil || len(rows) != 0 {
		t.Fatalf("rows=%v err=%v", rows, err)
	}
}

func TestNewRequiresPorts(t *testing.T) {
	testkit.MustPanic(t, func() { New(Config{}, nil, ingest.NewFingerprinter(fingerprint.Options{}), nil) })
	testkit.MustPanic(t, func() { New(Config{}, ingest.NewSource(""), nil, nil) })
}
