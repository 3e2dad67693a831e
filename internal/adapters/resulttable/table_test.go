package resulttable

import (
	"math"
	"testing"
)

func TestFormatScore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{1, "1.0"},
		{3, "3.0"},
		{0.5, "0.5"},
		{1.0 / 3.0, "0.3333333333333333"},
		{2.0 / 3.0, "0.6666666666666666"},
		{0.1, "0.1"},
		{12, "12.0"},
		{0.0001, "0.0001"},
		{0.00001, "1e-05"},
		{1.5e-7, "1.5e-07"},
		{1e16, "1e+16"},
		{123456789, "123456789.0"},
		{-0.25, "-0.25"},
		{math.NaN(), "nan"},
		{math.Inf(1), "inf"},
		{math.Inf(-1), "-inf"},
	}
	for _, c := range cases {
		if got := FormatScore(c.in); got != c.want {
			t.Fatalf("FormatScore(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestFormatScore_RoundTrips(t *testing.T) {
	t.Parallel()

	for _, f := range []float64{0, 1, 0.1, 1.0 / 3.0, 1e-9, 42.125, 7e20} {
		got, err := ParseScore(FormatScore(f))
		if err != nil || got != f {
			t.Fatalf("round trip %v -> %v (%v)", f, got, err)
		}
	}
}

func TestSort_ScoreThenUnit(t *testing.T) {
	t.Parallel()

	rows := []Row{{"c", 0.5}, {"a", 0.5}, {"b", 0.1}, {"d", 1}}
	Sort(rows)
	want := []string{"b", "a", "c", "d"}
	for i, r := range rows {
		if r.UnitID != want[i] {
			t.Fatalf("pos %d: got %s want %s", i, r.UnitID, want[i])
		}
	}
}

func TestTop(t *testing.T) {
	t.Parallel()

	tb := Table{Rows: []Row{{"a", 0.3}, {"b", 0.1}, {"c", 0.2}}}
	if got := tb.Top(2, false); len(got) != 2 || got[0].UnitID != "b" || got[1].UnitID != "c" {
		t.Fatalf("asc top = %+v", got)
	}
	if got := tb.Top(1, true); len(got) != 1 || got[0].UnitID != "a" {
		t.Fatalf("desc top = %+v", got)
	}
	if got := tb.Top(0, false); len(got) != 3 {
		t.Fatalf("n=0 should return all")
	}
	if tb.Rows[0].UnitID != "a" {
		t.Fatalf("Top must not reorder the table")
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	if got := Path("heuristic_results", "event_count"); got != "heuristic_results/event_count.csv" {
		t.Fatalf("Path = %q", got)
	}
}
