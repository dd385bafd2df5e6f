// Package supervisor tracks per-source health and disables sources that
// fail repeatedly, so one broken site cannot drag down every run.
package supervisor

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/notify"
)

// MaxConsecutiveFailures is the disable threshold.
const MaxConsecutiveFailures = 3

const alertTimeout = 10 * time.Second

type Supervisor struct {
	mu       sync.Mutex
	records  map[string]*domain.HealthRecord
	notifier notify.Notifier
	log      *zap.Logger
}

// Snapshot is the operator-facing health view.
type Snapshot struct {
	Summary struct {
		Active     int `json:"active"`
		Degraded   int `json:"degraded"`
		Disabled   int `json:"disabled"`
		TotalFound int `json:"total_found"`
	} `json:"summary"`
	Sources map[string]domain.HealthRecord `json:"sources"`
}

// New registers the given sources as Active. Sources are never removed,
// only disabled and re-enabled.
func New(sources []string, notifier notify.Notifier, log *zap.Logger) *Supervisor {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	s := &Supervisor{
		records:  make(map[string]*domain.HealthRecord, len(sources)),
		notifier: notifier,
		log:      log,
	}
	for _, name := range sources {
		s.records[name] = &domain.HealthRecord{State: domain.StateActive}
	}
	return s
}

func (s *Supervisor) record(name string) *domain.HealthRecord {
	r, ok := s.records[name]
	if !ok {
		r = &domain.HealthRecord{State: domain.StateActive}
		s.records[name] = r
	}
	return r
}

// RecordSuccess resets the failure counter and returns the source to Active.
func (s *Supervisor) RecordSuccess(name string, found int, dur time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.record(name)
	r.State = domain.StateActive
	r.ConsecutiveFailures = 0
	r.TotalRuns++
	r.TotalFound += found
	r.LastFound = found
	r.LastError = ""
	r.LastRunAt = time.Now().UTC()
	r.LastDurationSeconds = dur.Seconds()

	s.log.Info("source run ok",
		zap.String("source", name),
		zap.Int("found", found),
		zap.Duration("duration", dur))
}

// RecordFailure counts a consecutive failure and disables the source at the
// threshold. Exactly one alert is emitted, on the transition into Disabled.
func (s *Supervisor) RecordFailure(name string, cause error, dur time.Duration) {
	s.mu.Lock()

	r := s.record(name)
	r.ConsecutiveFailures++
	r.TotalRuns++
	r.LastFound = 0
	if cause != nil {
		r.LastError = cause.Error()
	}
	r.LastRunAt = time.Now().UTC()
	r.LastDurationSeconds = dur.Seconds()

	disabledNow := false
	if r.ConsecutiveFailures >= MaxConsecutiveFailures {
		disabledNow = r.State != domain.StateDisabled
		r.State = domain.StateDisabled
	} else {
		r.State = domain.StateDegraded
	}
	failures := r.ConsecutiveFailures
	lastErr := r.LastError
	s.mu.Unlock()

	if disabledNow {
		s.log.Error("source disabled",
			zap.String("source", name),
			zap.Int("consecutive_failures", failures),
			zap.String("last_error", lastErr))
		s.alert(fmt.Sprintf(
			"Source %q disabled after %d consecutive failures. Last error: %s",
			name, MaxConsecutiveFailures, lastErr))
		return
	}
	s.log.Warn("source failure",
		zap.String("source", name),
		zap.Int("consecutive_failures", failures),
		zap.Error(cause))
}

// IsActive reports whether the source should be attempted. Degraded sources
// still run; only Disabled ones are skipped.
func (s *Supervisor) IsActive(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.record(name).State != domain.StateDisabled
}

// ReEnable is the manual path back to Active, valid from any state.
func (s *Supervisor) ReEnable(name string) {
	s.mu.Lock()
	r := s.record(name)
	r.State = domain.StateActive
	r.ConsecutiveFailures = 0
	s.mu.Unlock()

	s.log.Info("source re-enabled", zap.String("source", name))
}

// Snapshot returns a copy of the current health state.
func (s *Supervisor) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	var snap Snapshot
	snap.Sources = make(map[string]domain.HealthRecord, len(s.records))
	for name, r := range s.records {
		snap.Sources[name] = *r
		switch r.State {
		case domain.StateActive:
			snap.Summary.Active++
		case domain.StateDegraded:
			snap.Summary.Degraded++
		case domain.StateDisabled:
			snap.Summary.Disabled++
		}
		snap.Summary.TotalFound += r.TotalFound
	}
	return snap
}

// alert is fire-and-forget: notification failures are logged, never returned.
func (s *Supervisor) alert(message string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), alertTimeout)
		defer cancel()
		if err := s.notifier.Notify(ctx, message); err != nil {
			s.log.Warn("alert delivery failed", zap.Error(err))
		}
	}()
}
