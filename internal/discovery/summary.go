package discovery

import "time"

// SourceOutcome is one source's contribution to a run.
type SourceOutcome struct {
	Source          string  `json:"source"`
	Skipped         bool    `json:"skipped,omitempty"` // disabled by the supervisor
	Fetched         int     `json:"fetched"`
	Error           string  `json:"error,omitempty"`
	DurationSeconds float64 `json:"duration_seconds"`
}

// Summary is the run report. Dropped records are never silently lost: every
// filtered, duplicate or truncated listing is counted somewhere here.
type Summary struct {
	RunID           string          `json:"run_id"`
	StartedAt       time.Time       `json:"started_at"`
	DurationSeconds float64         `json:"duration_seconds"`
	Fetched         int             `json:"fetched"`
	Duplicates      int             `json:"duplicates"`
	Excluded        int             `json:"excluded"`
	BelowMinScore   int             `json:"below_min_score"`
	Truncated       int             `json:"truncated"`
	SinkRejected    int             `json:"sink_rejected"`
	Accepted        int             `json:"accepted"`
	Sources         []SourceOutcome `json:"sources"`
	Errors          []string        `json:"errors,omitempty"`
}
