// Package sink hands accepted listings to the downstream record store. The
// store keeps its own unique-URL constraint as a second line of defense
// behind the dedup store.
package sink

import (
	"context"

	"github.com/ajsalpv/Job-Applying/internal/domain"
)

// Sink is the narrow contract to the external record store. AppendRecord
// returns false when the store rejected the row as a duplicate.
type Sink interface {
	AppendRecord(ctx context.Context, l domain.ScoredListing) (accepted bool, err error)
}
