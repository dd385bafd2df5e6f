package discovery

import (
	"sort"

	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/score"
)

// aggregate sorts the merged results descending by total score with the
// deterministic tie-break and truncates to the per-run cap. The stable sort
// preserves discovery order for fully tied listings.
func aggregate(merged []domain.ScoredListing, maxResults int) (kept []domain.ScoredListing, truncated int) {
	sort.SliceStable(merged, func(i, j int) bool {
		return score.Less(merged[i], merged[j])
	})
	if maxResults > 0 && len(merged) > maxResults {
		return merged[:maxResults], len(merged) - maxResults
	}
	return merged, 0
}
