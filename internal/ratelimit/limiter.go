// Package ratelimit throttles outbound requests per source. Exceeding the
// per-window ceiling never fails a caller; it only delays until the window
// rolls over.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultWindow  = time.Minute
	defaultSpacing = 2 * time.Second
	defaultCeiling = 10
)

type sourceState struct {
	ceiling int
	hits    []time.Time
	floor   *rate.Limiter
}

// Limiter enforces, per source, a sliding-window request ceiling plus a
// minimum inter-request spacing floor that holds even under the ceiling.
type Limiter struct {
	mu      sync.Mutex
	window  time.Duration
	spacing time.Duration
	sources map[string]*sourceState
}

func New() *Limiter {
	return NewWithOptions(defaultWindow, defaultSpacing)
}

// NewWithOptions exists so tests can shrink the window.
func NewWithOptions(window, spacing time.Duration) *Limiter {
	return &Limiter{
		window:  window,
		spacing: spacing,
		sources: make(map[string]*sourceState),
	}
}

// Configure sets the per-window request ceiling for a source. Unconfigured
// sources fall back to a conservative default.
func (l *Limiter) Configure(source string, ceiling int) {
	if ceiling <= 0 {
		ceiling = defaultCeiling
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	st := l.state(source)
	st.ceiling = ceiling
}

// state must be called with l.mu held.
func (l *Limiter) state(source string) *sourceState {
	st, ok := l.sources[source]
	if !ok {
		st = &sourceState{
			ceiling: defaultCeiling,
			floor:   rate.NewLimiter(rate.Every(l.spacing), 1),
		}
		l.sources[source] = st
	}
	return st
}

// Acquire blocks until a request slot for the source is free, then enforces
// the spacing floor. The only error it can return is ctx cancellation.
func (l *Limiter) Acquire(ctx context.Context, source string) error {
	for {
		l.mu.Lock()
		st := l.state(source)
		now := time.Now()
		st.prune(now, l.window)
		if len(st.hits) < st.ceiling {
			st.hits = append(st.hits, now)
			floor := st.floor
			l.mu.Unlock()
			return floor.Wait(ctx)
		}
		wait := st.hits[0].Add(l.window).Sub(now)
		l.mu.Unlock()

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

func (st *sourceState) prune(now time.Time, window time.Duration) {
	cut := 0
	for cut < len(st.hits) && now.Sub(st.hits[cut]) >= window {
		cut++
	}
	if cut > 0 {
		st.hits = append(st.hits[:0], st.hits[cut:]...)
	}
}
