package modkit

import (
	"testing"

	"combatscore/internal/platform/config"
	"combatscore/internal/platform/logger"
	"combatscore/internal/platform/store"
)

func TestFromStore(t *testing.T) {
	t.Parallel()

	d := FromStore(config.New(), *logger.Get(), nil)
	if d.PG != nil || d.CH != nil {
		t.Fatalf("nil store should leave sinks nil")
	}

	d = FromStore(config.New(), *logger.Get(), &store.Store{})
	if d.PG != nil || d.CH != nil {
		t.Fatalf("empty store should leave sinks nil")
	}
}
