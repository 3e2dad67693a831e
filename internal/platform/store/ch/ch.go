// Package ch provides a clickhouse client on top of clickhouse-go
package ch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"combatscore/internal/platform/logger"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
)

// Config configures clickhouse client
type Config struct {
	URL        string
	ClientInfo clickhouse.ClientInfo
}

// Rows is the result set type returned by Query
type Rows = driver.Rows

// conn is the subset of driver.Conn we use
type conn interface {
	Ping(ctx context.Context) error
	Exec(ctx context.Context, query string, args ...any) error
	Query(ctx context.Context, query string, args ...any) (driver.Rows, error)
	PrepareBatch(ctx context.Context, query string, opts ...driver.PrepareBatchOption) (driver.Batch, error)
	Close() error
}

// CH is a clickhouse client
type CH struct {
	conn conn
	log  *logger.Logger
}

// Option mutates CH during Open
type Option func(*CH)

// WithLogger logs every statement at debug level
func WithLogger(l logger.Logger) Option {
	return func(c *CH) {
		ll := l.With().Str("component", "ch").Logger()
		c.log = &ll
	}
}

var openConn = func(o *clickhouse.Options) (conn, error) { return clickhouse.Open(o) }

// Open parses the DSN and opens a native connection pool
// Connectivity is not verified here; call Ping
func Open(_ context.Context, cfg Config, opts ...Option) (*CH, error) {
	if cfg.URL == "" {
		return nil, errors.New("ch: empty DSN")
	}
	o, err := clickhouse.ParseDSN(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("ch: parse dsn: %w", err)
	}
	o.ClientInfo = cfg.ClientInfo
	cn, err := openConn(o)
	if err != nil {
		return nil, fmt.Errorf("ch: open: %w", err)
	}
	c := &CH{conn: cn}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Ping verifies connectivity
func (c *CH) Ping(ctx context.Context) error { return c.conn.Ping(ctx) }

// Exec runs a statement without results
func (c *CH) Exec(ctx context.Context, sql string, args ...any) error {
	start := time.Now()
	err := c.conn.Exec(ctx, sql, args...)
	c.trace(sql, start, err)
	return err
}

// Query runs a query and returns its rows
func (c *CH) Query(ctx context.Context, sql string, args ...any) (Rows, error) {
	start := time.Now()
	rows, err := c.conn.Query(ctx, sql, args...)
	c.trace(sql, start, err)
	return rows, err
}

// Insert appends rows to table using one native batch
func (c *CH) Insert(ctx context.Context, table string, rows [][]any) (err error) {
	start := time.Now()
	sql := "INSERT INTO " + table
	defer func() { c.trace(sql, start, err) }()

	batch, err := c.conn.PrepareBatch(ctx, sql)
	if err != nil {
		return err
	}
	for _, r := range rows {
		if err := batch.Append(r...); err != nil {
			_ = batch.Abort()
			return err
		}
	}
	return batch.Send()
}

// Close closes the connection pool
func (c *CH) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *CH) trace(sql string, start time.Time, err error) {
	if c.log == nil {
		return
	}
	c.log.Debug().
		Float64("elapsed_ms", float64(time.Since(start).Microseconds())/1000.0).
		Str("sql", sql).
		Err(err).
		Msg("ch query")
}
