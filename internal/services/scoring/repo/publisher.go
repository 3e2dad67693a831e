package repo

import (
	"context"
	"fmt"
	"time"

	"combatscore/internal/modkit/repokit"
	perr "combatscore/internal/platform/errors"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/store"
	"combatscore/internal/services/scoring/domain"
)

// PGPublisher replaces a heuristic's rows in Postgres inside one transaction
type PGPublisher struct {
	DB     repokit.TxRunner
	Binder repokit.Binder[domain.ResultsRepo]
}

var _ domain.Publisher = (*PGPublisher)(nil)

// NewPGPublisher wires a publisher over db writing to table
func NewPGPublisher(db repokit.TxRunner, table string) *PGPublisher {
	if db == nil {
		panic("repo.PGPublisher requires a non nil TxRunner")
	}
	return &PGPublisher{DB: db, Binder: NewPG(table)}
}

// Name implements domain.Publisher
func (*PGPublisher) Name() string { return "postgres" }

// Publish implements domain.Publisher
func (p *PGPublisher) Publish(ctx context.Context, pub domain.Publication) error {
	var deleted, inserted int64
	err := p.DB.Tx(ctx, func(q repokit.Queryer) error {
		r := p.Binder.Bind(q)
		if err := r.EnsureSchema(ctx); err != nil {
			return err
		}
		var err error
		if deleted, err = r.DeleteHeuristic(ctx, pub.Heuristic); err != nil {
			return err
		}
		inserted, err = r.InsertRows(ctx, pub)
		return err
	})
	if err != nil {
		return perr.FromPostgresf(err, "publish %s to postgres", pub.Heuristic)
	}
	logger.C(ctx).Debug().
		Int64("deleted", deleted).
		Int64("inserted", inserted).
		Msg("postgres sink replaced rows")
	return nil
}

// CHPublisher replaces a heuristic's rows in ClickHouse
// ClickHouse has no transactions: the delete mutation is issued first, then one native batch
type CHPublisher struct {
	CH    store.Clickhouse
	Table string
	now   func() time.Time
}

var _ domain.Publisher = (*CHPublisher)(nil)

// NewCHPublisher wires a publisher over ch writing to table
func NewCHPublisher(ch store.Clickhouse, table string) *CHPublisher {
	if ch == nil {
		panic("repo.CHPublisher requires a non nil Clickhouse")
	}
	if table == "" {
		table = DefaultTable
	}
	return &CHPublisher{CH: ch, Table: table, now: time.Now}
}

// Name implements domain.Publisher
func (*CHPublisher) Name() string { return "clickhouse" }

func (c *CHPublisher) quoted() string { return "`" + c.Table + "`" }

// Publish implements domain.Publisher
func (c *CHPublisher) Publish(ctx context.Context, pub domain.Publication) error {
	ddl := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			heuristic    LowCardinality(String),
			unit_id      String,
			score        Float64,
			checksum     String,
			run_id       String,
			published_at DateTime64(3, 'UTC')
		) ENGINE = MergeTree ORDER BY (heuristic, unit_id)`, c.quoted())
	if err := c.CH.Exec(ctx, ddl); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeUnavailable, "clickhouse schema %s", c.Table)
	}
	if err := c.CH.Exec(ctx, "ALTER TABLE "+c.quoted()+" DELETE WHERE heuristic = ?", pub.Heuristic); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "clickhouse delete %s", pub.Heuristic)
	}
	at := c.now().UTC()
	rows := make([][]any, len(pub.Rows))
	for i, r := range pub.Rows {
		rows[i] = []any{pub.Heuristic, r.UnitID, r.Score, pub.Fingerprint, pub.RunID, at}
	}
	if err := c.CH.InsertRows(ctx, c.quoted(), rows); err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "clickhouse insert %s", pub.Heuristic)
	}
	logger.C(ctx).Debug().Int("inserted", len(rows)).Msg("clickhouse sink replaced rows")
	return nil
}
