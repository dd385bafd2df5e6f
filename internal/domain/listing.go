package domain

import "time"

// Listing is one raw job posting as reported by a source adapter.
// Immutable once produced; the pipeline consumes it exactly once.
type Listing struct {
	Role        string
	Company     string
	Location    string
	Experience  string // free-text requirement, e.g. "2-4 years"; may be empty
	Description string
	URL         string
	PostedDate  string
	SourceName  string
	Skills      []string
}

// Recommendation is the triage verdict derived from the total fit score.
type Recommendation string

const (
	RecommendApply Recommendation = "apply"
	RecommendMaybe Recommendation = "maybe"
	RecommendSkip  Recommendation = "skip"
)

// ScoreBreakdown holds the four bounded sub-scores and the overall verdict.
// Excluded forces Total=0 and RecommendSkip regardless of sub-scores.
type ScoreBreakdown struct {
	Skill          int // 0-40
	Experience     int // 0-25
	Location       int // 0-15
	Role           int // 0-20
	Total          int // 0-100
	Excluded       bool
	Reason         string
	Recommendation Recommendation
}

// ScoredListing pairs a listing with its score breakdown.
type ScoredListing struct {
	Listing
	Score        ScoreBreakdown
	DiscoveredAt time.Time
}
