// Package modkit provides module wiring and core deps
package modkit

import (
	"combatscore/internal/modkit/repokit"
	"combatscore/internal/platform/config"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/store"
)

// Deps holds core dependencies passed to modules
// PG and CH stay nil when the corresponding sink is not configured
type Deps struct {
	Log logger.Logger
	Cfg config.Conf
	PG  repokit.TxRunner
	CH  store.Clickhouse
}

// FromStore builds Deps over an opened store; st may be nil
func FromStore(cfg config.Conf, log logger.Logger, st *store.Store) Deps {
	d := Deps{Log: log, Cfg: cfg}
	if st != nil {
		d.PG, d.CH = st.PG, st.CH
	}
	return d
}
