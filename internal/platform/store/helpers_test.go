package store

import (
	"context"
	"errors"
	"testing"

	perr "combatscore/internal/platform/errors"
)

type sliceRows struct {
	data [][]any
	idx  int
	err  error
}

func (r *sliceRows) Next() bool { r.idx++; return r.idx <= len(r.data) }
func (r *sliceRows) Scan(dest ...any) error {
	row := r.data[r.idx-1]
	for i := range dest {
		switch d := dest[i].(type) {
		case *string:
			*d = row[i].(string)
		case *float64:
			*d = row[i].(float64)
		case *int64:
			*d = row[i].(int64)
		}
	}
	return nil
}
func (r *sliceRows) Err() error        { return r.err }
func (r *sliceRows) Close()            {}
func (r *sliceRows) Columns() []string { return nil }

type oneRow struct{ v any }

func (r oneRow) Scan(dest ...any) error {
	if r.v == nil {
		return errors.New("no rows")
	}
	*(dest[0].(*int64)) = r.v.(int64)
	return nil
}

type fakeQuerier struct {
	rows *sliceRows
	row  oneRow
}

func (f *fakeQuerier) Exec(context.Context, string, ...any) (CommandTag, error) { return nil, nil }
func (f *fakeQuerier) Query(context.Context, string, ...any) (Rows, error)      { return f.rows, nil }
func (f *fakeQuerier) QueryRow(context.Context, string, ...any) Row             { return f.row }

type scored struct {
	Unit  string
	Score float64
}

func scanScored(r Row) (scored, error) {
	var s scored
	err := r.Scan(&s.Unit, &s.Score)
	return s, err
}

func TestMany(t *testing.T) {
	t.Parallel()

	q := &fakeQuerier{rows: &sliceRows{data: [][]any{{"a", 0.1}, {"b", 0.2}}}}
	got, err := Many(context.Background(), q, scanScored, "select")
	if err != nil || len(got) != 2 || got[1].Unit != "b" {
		t.Fatalf("Many = %+v, %v", got, err)
	}
}

func TestOne(t *testing.T) {
	t.Parallel()

	empty := &fakeQuerier{rows: &sliceRows{}}
	if _, err := One(context.Background(), empty, scanScored, "select"); !errors.Is(err, perr.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	two := &fakeQuerier{rows: &sliceRows{data: [][]any{{"a", 0.1}, {"b", 0.2}}}}
	if _, err := One(context.Background(), two, scanScored, "select"); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("want db error, got %v", err)
	}

	one := &fakeQuerier{rows: &sliceRows{data: [][]any{{"a", 0.1}}}}
	if got, err := One(context.Background(), one, scanScored, "select"); err != nil || got.Unit != "a" {
		t.Fatalf("One = %+v, %v", got, err)
	}
}

func TestScalar(t *testing.T) {
	t.Parallel()

	n, err := Scalar[int64](context.Background(), &fakeQuerier{row: oneRow{v: int64(3)}}, "select count(*)")
	if err != nil || n != 3 {
		t.Fatalf("Scalar = %d, %v", n, err)
	}
	if _, err := Scalar[int64](context.Background(), &fakeQuerier{}, "select"); err == nil {
		t.Fatalf("expected scan error")
	}
}
