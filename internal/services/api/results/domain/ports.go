package domain

import "context"

// ServicePort is consumed by handlers and other modules
type ServicePort interface {
	Heuristics(ctx context.Context) ([]HeuristicInfo, error)
	Results(ctx context.Context, heuristic string, in ResultsInput) (ResultsView, error)
}

// TableReader loads the persisted table for a heuristic
type TableReader interface {
	Read(ctx context.Context, heuristic string) (Table, error)
}
