// Package scheduler drives periodic discovery runs. One bad tick is logged
// and swallowed; it never kills the schedule.
package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Task is one scheduled unit of work.
type Task func(ctx context.Context) error

type Scheduler struct {
	interval time.Duration
	grace    time.Duration
	task     Task
	log      *zap.Logger

	mu      sync.Mutex
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// New builds a stopped scheduler. grace delays the first tick so the task
// does not contend with process warm-up.
func New(interval, grace time.Duration, task Task, log *zap.Logger) *Scheduler {
	return &Scheduler{
		interval: interval,
		grace:    grace,
		task:     task,
		log:      log,
	}
}

// Start launches the background loop. Calling Start while running is a
// no-op with a warning.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		s.log.Warn("scheduler already running")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})
	s.running = true

	go s.loop(ctx, s.done)
	s.log.Info("scheduler started",
		zap.Duration("interval", s.interval),
		zap.Duration("grace", s.grace))
}

// Stop cancels the loop, including any in-flight run, and waits for clean
// termination. Stopping a stopped scheduler is a no-op.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	cancel := s.cancel
	done := s.done
	s.running = false
	s.mu.Unlock()

	cancel()
	<-done
	s.log.Info("scheduler stopped")
}

// Running reports the loop state.
func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Scheduler) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	grace := time.NewTimer(s.grace)
	defer grace.Stop()
	select {
	case <-ctx.Done():
		return
	case <-grace.C:
	}
	s.tick(ctx)

	t := time.NewTicker(s.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	if err := s.task(ctx); err != nil {
		s.log.Error("scheduled run failed", zap.Error(err))
	}
}
