// Package source defines the contract between the discovery pipeline and
// the per-site adapters, plus the coarse pre-filter every adapter applies
// before returning. Extraction is site-specific; triage is universal and
// lives in the score package; adapters only do a cheap first pass here.
package source

import (
	"context"

	"github.com/ajsalpv/Job-Applying/internal/domain"
)

// Adapter fetches raw candidate listings for one query from one external
// site. Implementations apply the shared Prefilter before returning.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context, q domain.Query) ([]domain.Listing, error)
}
