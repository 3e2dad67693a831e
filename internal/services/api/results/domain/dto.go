// Package domain holds the results API types and ports
package domain

import "combatscore/internal/adapters/resulttable"

// Order values accepted by ResultsInput
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// HeuristicInfo describes a registered heuristic and its persisted table, if any
type HeuristicInfo struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	Checksum    string `json:"checksum,omitempty"`
	Rows        int    `json:"rows"`
	// Error is set when a table exists but cannot be parsed
	Error string `json:"error,omitempty"`
}

// ResultsInput is bound from the query string of GET /results/{heuristic}
type ResultsInput struct {
	Limit int    `query:"limit" validate:"min=0"`
	Order string `query:"order" validate:"omitempty,oneof=asc desc"`
}

// Table aliases the persisted result table
type Table = resulttable.Table

// ResultsView is a persisted table shaped for the API
type ResultsView struct {
	Heuristic string            `json:"heuristic"`
	Checksum  string            `json:"checksum"`
	Total     int               `json:"total"`
	Rows      []resulttable.Row `json:"rows"`
}
