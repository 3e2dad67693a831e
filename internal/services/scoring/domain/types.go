// Package domain holds the types and ports of the scoring pipeline
package domain

import (
	"time"

	"combatscore/internal/adapters/resulttable"
)

// Unit is one combat: a directory under the dataset root
type Unit struct {
	ID  string // directory base name, unique within the dataset
	Dir string // full path
}

// Result is one scored unit
type Result = resulttable.Row

// Phase names a step of a run
type Phase string

// Run phases, timed individually
const (
	PhaseFingerprint Phase = "fingerprinting"
	PhaseCacheCheck  Phase = "cache_check"
	PhaseScoring     Phase = "scoring"
	PhaseWriting     Phase = "writing"
	PhasePublishing  Phase = "publishing"
)

// Outcome summarizes a finished run
type Outcome struct {
	RunID       string        `json:"run_id"`
	Heuristic   string        `json:"heuristic"`
	Path        string        `json:"path"`
	Fingerprint string        `json:"fingerprint"`
	CacheHit    bool          `json:"cache_hit"`
	Units       int           `json:"units"`
	Published   []string      `json:"published,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Publication is a finished table handed to sinks
type Publication struct {
	RunID       string
	Heuristic   string
	Fingerprint string
	Rows        []Result
}
