// Package resulttable persists checksum tagged score tables as CSV
//
// Layout:
//
//	checksum,<fingerprint>
//	<unit>,<score>
//	...
//
// Rows are sorted ascending by score, ties by unit id.
package resulttable

import (
	"cmp"
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
)

// HeaderKey is the literal first field of the header row
const HeaderKey = "checksum"

// Ext is the file extension of result tables
const Ext = ".csv"

// Row is one scored unit
type Row struct {
	UnitID string  `json:"unit"`
	Score  float64 `json:"score"`
}

// Table is a fingerprint tagged set of rows
type Table struct {
	Checksum string `json:"checksum"`
	Rows     []Row  `json:"rows"`
}

// Path returns the table location for a heuristic under dir
func Path(dir, heuristic string) string {
	return filepath.Join(dir, heuristic+Ext)
}

// Sort orders rows ascending by score, ties by unit id
// NaN sorts first so the order stays total
func Sort(rows []Row) {
	slices.SortStableFunc(rows, compareRows)
}

func compareRows(a, b Row) int {
	if c := cmp.Compare(a.Score, b.Score); c != 0 {
		return c
	}
	return strings.Compare(a.UnitID, b.UnitID)
}

// Top returns up to n rows (n <= 0 means all), highest scores first when desc
func (t Table) Top(n int, desc bool) []Row {
	rows := slices.Clone(t.Rows)
	Sort(rows)
	if desc {
		slices.Reverse(rows)
	}
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows
}

// FormatScore renders a score in shortest round trip form, keeping a
// decimal point on integral values (1.0, 0.5, 1e-05)
func FormatScore(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.ContainsRune(s, '.') {
		s += ".0"
	}
	return s
}

// ParseScore parses a score written by FormatScore (or any float literal)
func ParseScore(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
