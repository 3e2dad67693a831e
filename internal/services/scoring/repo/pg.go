// Package repo mirrors finished result tables into Postgres and ClickHouse
package repo

import (
	"context"
	"time"

	"combatscore/internal/modkit/repokit"
	"combatscore/internal/services/scoring/domain"

	"github.com/jackc/pgx/v5"
)

// DefaultTable is the sink table name in both backends
const DefaultTable = "heuristic_results"

type (
	// PG is a Postgres binder for domain.ResultsRepo
	PG      struct{ table string }
	queries struct {
		q     repokit.Queryer
		table string
		now   func() time.Time
	}
)

// NewPG returns a Postgres binder writing to table (DefaultTable when empty)
func NewPG(table string) repokit.Binder[domain.ResultsRepo] {
	if table == "" {
		table = DefaultTable
	}
	return PG{table: pgx.Identifier{table}.Sanitize()}
}

// Bind implements repokit.Binder
func (p PG) Bind(q repokit.Queryer) domain.ResultsRepo {
	return &queries{q: q, table: p.table, now: time.Now}
}

// EnsureSchema creates the sink table when missing (idempotent)
func (r *queries) EnsureSchema(ctx context.Context) error {
	_, err := r.q.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS `+r.table+` (
			heuristic    text             NOT NULL,
			unit_id      text             NOT NULL,
			score        double precision NOT NULL,
			checksum     text             NOT NULL,
			run_id       uuid             NOT NULL,
			published_at timestamptz      NOT NULL DEFAULT now(),
			PRIMARY KEY (heuristic, unit_id)
		)
	`)
	return err
}

// DeleteHeuristic removes every row of heuristic
func (r *queries) DeleteHeuristic(ctx context.Context, heuristic string) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM `+r.table+` WHERE heuristic = $1`, heuristic)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// InsertRows writes all rows of p in one statement
func (r *queries) InsertRows(ctx context.Context, p domain.Publication) (int64, error) {
	if len(p.Rows) == 0 {
		return 0, nil
	}
	ids := make([]string, len(p.Rows))
	scores := make([]float64, len(p.Rows))
	for i, row := range p.Rows {
		ids[i], scores[i] = row.UnitID, row.Score
	}
	tag, err := r.q.Exec(ctx, `
		INSERT INTO `+r.table+` (heuristic, unit_id, score, checksum, run_id, published_at)
		SELECT $1, u.unit_id, u.score, $2, $3::uuid, $4
		FROM unnest($5::text[], $6::float8[]) AS u(unit_id, score)
	`, p.Heuristic, p.Fingerprint, p.RunID, r.now().UTC(), ids, scores)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// CountRows returns the number of rows stored for heuristic
func (r *queries) CountRows(ctx context.Context, heuristic string) (int64, error) {
	var n int64
	err := r.q.QueryRow(ctx, `SELECT count(*) FROM `+r.table+` WHERE heuristic = $1`, heuristic).Scan(&n)
	return n, err
}
