package domain

import (
	"context"

	"combatscore/internal/core/event"
)

// RunnerPort is the public port exposed by the scoring module
type RunnerPort interface {
	// Run scores the dataset with the named heuristic, reusing a valid persisted table
	Run(ctx context.Context, heuristic string) (Outcome, error)
	// Fingerprint returns the current dataset fingerprint
	Fingerprint(ctx context.Context) (string, error)
}

// UnitSource enumerates units and opens their event streams
type UnitSource interface {
	Units(ctx context.Context, root string) ([]Unit, error)
	Stream(ctx context.Context, u Unit) *event.Stream
}

// Fingerprinter digests the dataset tree
type Fingerprinter interface {
	Fingerprint(ctx context.Context, root string) (string, error)
}

// Publisher mirrors a finished table into an external sink
type Publisher interface {
	Name() string
	Publish(ctx context.Context, p Publication) error
}

// Progress observes the completed unit counter of a scoring pass
// Track polls done until stop is called; it must never block the caller
type Progress interface {
	Track(ctx context.Context, total int, done func() int64) (stop func())
}

// ResultsRepo is the SQL surface used by the postgres sink
// Implementations are bound to one queryer, usually a transaction
type ResultsRepo interface {
	EnsureSchema(ctx context.Context) error
	DeleteHeuristic(ctx context.Context, heuristic string) (int64, error)
	InsertRows(ctx context.Context, p Publication) (int64, error)
	CountRows(ctx context.Context, heuristic string) (int64, error)
}
