package ingest

import (
	"context"

	"combatscore/internal/adapters/fingerprint"
	"combatscore/internal/services/scoring/domain"
)

// fingerprinter adapts fingerprint.Compute to domain.Fingerprinter
type fingerprinter struct {
	opts fingerprint.Options
}

// NewFingerprinter returns a domain.Fingerprinter with fixed options
func NewFingerprinter(opts fingerprint.Options) domain.Fingerprinter {
	return fingerprinter{opts: opts}
}

func (f fingerprinter) Fingerprint(ctx context.Context, root string) (string, error) {
	return fingerprint.Compute(ctx, root, f.opts)
}
