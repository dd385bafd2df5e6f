package domain

import "time"

// HealthState is the supervisor's view of a source.
type HealthState string

const (
	StateActive   HealthState = "active"
	StateDegraded HealthState = "degraded"
	StateDisabled HealthState = "disabled"
)

// Source is one external listing provider. Created at process start from
// static configuration; only the supervisor mutates its health.
type Source struct {
	Name          string
	Endpoint      string
	RatePerMinute int
}

// HealthRecord tracks one source's run history. Updated exactly once per
// source per discovery run.
type HealthRecord struct {
	State               HealthState `json:"state"`
	ConsecutiveFailures int         `json:"consecutive_failures"`
	TotalRuns           int         `json:"total_runs"`
	TotalFound          int         `json:"total_found"`
	LastError           string      `json:"last_error,omitempty"`
	LastRunAt           time.Time   `json:"last_run_at,omitzero"`
	LastDurationSeconds float64     `json:"last_duration_seconds"`
	LastFound           int         `json:"last_found"`
}

// Query is one search request handed to a source adapter.
type Query struct {
	Keywords   string
	Location   string
	MaxResults int
}
