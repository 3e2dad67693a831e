package store

import (
	"context"
	"errors"
	"strings"
	"testing"

	"combatscore/internal/platform/config"
	"combatscore/internal/platform/store/ch"
)

// fakeTx satisfies TxRunner; ping is optional
type fakeTx struct {
	pingErr error
	closed  bool
}

func (f *fakeTx) Tx(ctx context.Context, fn func(q RowQuerier) error) error { return fn(f) }
func (f *fakeTx) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (f *fakeTx) Query(context.Context, string, ...any) (Rows, error)      { return nil, nil }
func (f *fakeTx) QueryRow(context.Context, string, ...any) Row             { return nil }
func (f *fakeTx) Ping(context.Context) error                               { return f.pingErr }
func (f *fakeTx) Close() error                                             { f.closed = true; return nil }

// fakeCH satisfies chClient
type fakeCH struct {
	inserted [][]any
	execs    []string
	pingErr  error
	closeErr error
}

func (f *fakeCH) Exec(_ context.Context, sql string, _ ...any) error {
	f.execs = append(f.execs, sql)
	return nil
}
func (f *fakeCH) Insert(_ context.Context, _ string, rows [][]any) error {
	f.inserted = append(f.inserted, rows...)
	return nil
}
func (f *fakeCH) Query(context.Context, string, ...any) (ch.Rows, error) {
	return nil, errors.New("no query")
}
func (f *fakeCH) Ping(context.Context) error { return f.pingErr }
func (f *fakeCH) Close() error               { return f.closeErr }

func TestOpen_NothingEnabled(t *testing.T) {
	t.Parallel()

	s, err := Open(context.Background(), Config{})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if s.Enabled() || s.PG != nil || s.CH != nil {
		t.Fatalf("no backends expected")
	}
	if err := s.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestOpen_PGBadURL(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{PG: PGConfig{Enabled: true, URL: "://bad"}})
	if err == nil {
		t.Fatalf("expected pg error")
	}
}

func TestOpen_CHBadURL(t *testing.T) {
	t.Parallel()

	_, err := Open(context.Background(), Config{CH: CHConfig{Enabled: true, URL: "://bad"}})
	if err == nil {
		t.Fatalf("expected ch error")
	}
}

func TestOpen_OptionError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	if _, err := Open(context.Background(), Config{}, func(*Store) error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("option error not returned: %v", err)
	}
}

func TestGuard(t *testing.T) {
	t.Parallel()

	var nilStore *Store
	if err := nilStore.Guard(context.Background()); err == nil {
		t.Fatalf("nil store should fail guard")
	}

	s := &Store{
		PG: &fakeTx{pingErr: errors.New("pg down")},
		CH: &clickhouseAdapter{inner: &fakeCH{pingErr: errors.New("ch down")}},
	}
	err := s.Guard(context.Background())
	if err == nil || !strings.Contains(err.Error(), "pg: pg down") || !strings.Contains(err.Error(), "ch: ch down") {
		t.Fatalf("guard should join both errors, got %v", err)
	}

	ok := &Store{PG: &fakeTx{}, CH: &clickhouseAdapter{inner: &fakeCH{}}}
	if err := ok.Guard(context.Background()); err != nil {
		t.Fatalf("healthy guard: %v", err)
	}
}

func TestClose_JoinsErrors(t *testing.T) {
	t.Parallel()

	pg := &fakeTx{}
	s := &Store{PG: pg, CH: &clickhouseAdapter{inner: &fakeCH{closeErr: errors.New("ch close")}}}
	err := s.Close(context.Background())
	if err == nil || !pg.closed {
		t.Fatalf("close: err=%v pgClosed=%v", err, pg.closed)
	}
}

func TestCHAdapter_InsertRows(t *testing.T) {
	t.Parallel()

	f := &fakeCH{}
	a := &clickhouseAdapter{inner: f}
	if err := a.InsertRows(context.Background(), "t", nil); err != nil || len(f.inserted) != 0 {
		t.Fatalf("empty insert should be a no-op")
	}
	if err := a.InsertRows(context.Background(), "t", [][]any{{"a", 1.0}, {"b", 2.0}}); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(f.inserted) != 2 {
		t.Fatalf("rows not forwarded: %v", f.inserted)
	}
	if err := a.Exec(context.Background(), "ALTER TABLE t DELETE WHERE 1"); err != nil || len(f.execs) != 1 {
		t.Fatalf("exec not forwarded")
	}
	if _, err := a.Query(context.Background(), "SELECT 1"); err == nil {
		t.Fatalf("query error should surface")
	}
}

func TestFromConfig(t *testing.T) {
	t.Setenv("SERVICE_PGSQL_DBURL", "postgres://u:p@h/db")
	t.Setenv("SERVICE_PGSQL_MAX_CONNS", "9")
	t.Setenv("SERVICE_CLICKHOUSE_DBURL", "")

	c := FromConfig(config.New(), "combatscore", "cli")
	if !c.PG.Enabled || c.PG.MaxConns != 9 || c.PG.URL != "postgres://u:p@h/db" {
		t.Fatalf("pg config: %+v", c.PG)
	}
	if c.CH.Enabled {
		t.Fatalf("ch should be disabled without a DSN")
	}
	if c.CH.ClientName != "combatscore" || c.CH.ClientTag != "cli" || !c.Any() {
		t.Fatalf("unexpected config: %+v", c)
	}
}
