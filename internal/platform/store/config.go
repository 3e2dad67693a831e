package store

import (
	"time"

	"combatscore/internal/platform/config"
)

// Config aggregates per backend configuration
type Config struct {
	AppName string

	PG PGConfig
	CH CHConfig
}

// PGConfig configures postgres connectivity and tracing
type PGConfig struct {
	Enabled     bool
	URL         string
	MaxConns    int32
	LogSQL      bool
	SlowQueryMs int

	// ConnectRetries bounds ping attempts while the pool comes up
	ConnectRetries int
	// PingTimeout bounds each ping attempt
	PingTimeout time.Duration
}

// CHConfig configures clickhouse connectivity
type CHConfig struct {
	Enabled    bool
	URL        string
	LogSQL     bool
	ClientName string
	ClientTag  string
}

// FromConfig reads SERVICE_PGSQL_* and SERVICE_CLICKHOUSE_*
// A backend is enabled only when its DBURL is set
func FromConfig(root config.Conf, app, role string) Config {
	pgCfg := root.Prefix("SERVICE_PGSQL_")
	chCfg := root.Prefix("SERVICE_CLICKHOUSE_")
	return Config{
		AppName: app,
		PG: PGConfig{
			Enabled:        pgCfg.Has("DBURL"),
			URL:            pgCfg.MayString("DBURL", ""),
			MaxConns:       int32(pgCfg.MayInt("MAX_CONNS", 4)),
			SlowQueryMs:    pgCfg.MayInt("SLOW_MS", 500),
			LogSQL:         pgCfg.MayBool("LOG_SQL", false),
			ConnectRetries: pgCfg.MayInt("CONNECT_RETRIES", 6),
			PingTimeout:    pgCfg.MayDuration("PING_TIMEOUT", 3*time.Second),
		},
		CH: CHConfig{
			Enabled:    chCfg.Has("DBURL"),
			URL:        chCfg.MayString("DBURL", ""),
			LogSQL:     chCfg.MayBool("LOG_SQL", false),
			ClientName: app,
			ClientTag:  role,
		},
	}
}

// Any reports whether at least one backend is enabled
func (c Config) Any() bool { return c.PG.Enabled || c.CH.Enabled }
