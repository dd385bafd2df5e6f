package score

import "github.com/ajsalpv/Job-Applying/internal/domain"

// Less is the ranking order for scored listings: higher total first, ties
// broken by skill then role sub-score. Equal on all three means "keep
// discovery order"; callers must use a stable sort.
func Less(a, b domain.ScoredListing) bool {
	if a.Score.Total != b.Score.Total {
		return a.Score.Total > b.Score.Total
	}
	if a.Score.Skill != b.Score.Skill {
		return a.Score.Skill > b.Score.Skill
	}
	return a.Score.Role > b.Score.Role
}
