// Package discovery orchestrates one pass of the pipeline: gate sources on
// supervisor health, fan out fetches under a bounded-concurrency cap,
// dedup, score, rank and hand the survivors to the sink.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/ajsalpv/Job-Applying/internal/config"
	"github.com/ajsalpv/Job-Applying/internal/dedup"
	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/events"
	"github.com/ajsalpv/Job-Applying/internal/notify"
	"github.com/ajsalpv/Job-Applying/internal/ratelimit"
	"github.com/ajsalpv/Job-Applying/internal/score"
	"github.com/ajsalpv/Job-Applying/internal/sink"
	"github.com/ajsalpv/Job-Applying/internal/source"
	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

var (
	// ErrRunInProgress rejects overlapping runs.
	ErrRunInProgress = errors.New("discovery run already in progress")
	// ErrFatalConfig aborts a run early; the scheduler's next tick is unaffected.
	ErrFatalConfig = errors.New("fatal configuration error")
)

type Runner struct {
	cfg      config.Config
	adapters []source.Adapter
	limiter  *ratelimit.Limiter
	sup      *supervisor.Supervisor
	store    *dedup.Store
	engine   *score.Engine
	sink     sink.Sink
	notifier notify.Notifier
	hub      *events.Hub
	log      *zap.Logger

	running atomic.Bool
	last    atomic.Pointer[Summary]
}

func NewRunner(
	cfg config.Config,
	adapters []source.Adapter,
	limiter *ratelimit.Limiter,
	sup *supervisor.Supervisor,
	store *dedup.Store,
	engine *score.Engine,
	snk sink.Sink,
	notifier notify.Notifier,
	hub *events.Hub,
	log *zap.Logger,
) *Runner {
	if notifier == nil {
		notifier = notify.Noop{}
	}
	return &Runner{
		cfg:      cfg,
		adapters: adapters,
		limiter:  limiter,
		sup:      sup,
		store:    store,
		engine:   engine,
		sink:     snk,
		notifier: notifier,
		hub:      hub,
		log:      log,
	}
}

// Running reports whether a run is in flight.
func (r *Runner) Running() bool { return r.running.Load() }

// LastSummary returns the most recent completed run report, or nil.
func (r *Runner) LastSummary() *Summary { return r.last.Load() }

type sourceResult struct {
	outcome  SourceOutcome
	listings []domain.Listing
}

// Run executes one discovery pass. Per-source failures are isolated; only
// an overlapping run or a fatal configuration problem fails the whole pass.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	if !r.running.CompareAndSwap(false, true) {
		return Summary{}, ErrRunInProgress
	}
	defer r.running.Store(false)

	if err := r.cfg.Validate(); err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrFatalConfig, err)
	}

	start := time.Now()
	sum := Summary{
		RunID:     uuid.NewString()[:8],
		StartedAt: start.UTC(),
	}
	log := r.log.With(zap.String("run_id", sum.RunID))
	log.Info("discovery run started", zap.Int("sources", len(r.adapters)))

	results := make([]sourceResult, len(r.adapters))
	sem := semaphore.NewWeighted(int64(r.cfg.Discovery.Concurrency))
	var g errgroup.Group

	for i, ad := range r.adapters {
		name := ad.Name()
		if !r.sup.IsActive(name) {
			results[i] = sourceResult{outcome: SourceOutcome{Source: name, Skipped: true}}
			log.Info("source skipped (disabled)", zap.String("source", name))
			continue
		}

		g.Go(func() error {
			if err := sem.Acquire(ctx, 1); err != nil {
				results[i] = sourceResult{outcome: SourceOutcome{Source: name, Error: err.Error()}}
				return nil
			}
			defer sem.Release(1)

			results[i] = r.fetchSource(ctx, log, ad)
			return nil
		})
	}
	_ = g.Wait()

	// Merge in configured source order so ranking ties resolve the same way
	// for the same inputs, regardless of fetch completion order.
	var scored []domain.ScoredListing
	for _, res := range results {
		sum.Sources = append(sum.Sources, res.outcome)
		if res.outcome.Error != "" {
			sum.Errors = append(sum.Errors, res.outcome.Error)
		}
		for _, l := range res.listings {
			sum.Fetched++
			if !r.store.Accept(l.URL) {
				sum.Duplicates++
				continue
			}
			b, ok := r.scoreOne(log, l)
			if !ok {
				continue
			}
			if b.Excluded {
				sum.Excluded++
				log.Debug("listing excluded",
					zap.String("role", l.Role),
					zap.String("reason", b.Reason))
				continue
			}
			if b.Total < r.cfg.Discovery.MinFitScore {
				sum.BelowMinScore++
				continue
			}
			scored = append(scored, domain.ScoredListing{
				Listing:      l,
				Score:        b,
				DiscoveredAt: start.UTC(),
			})
		}
	}

	ranked, truncated := aggregate(scored, r.cfg.Discovery.MaxResultsPerRun)
	sum.Truncated = truncated

	for _, l := range ranked {
		accepted, err := r.sink.AppendRecord(ctx, l)
		if err != nil {
			sum.Errors = append(sum.Errors, fmt.Sprintf("sink: %v", err))
			log.Warn("sink append failed", zap.String("url", l.URL), zap.Error(err))
			continue
		}
		if !accepted {
			sum.SinkRejected++
			continue
		}
		sum.Accepted++
	}

	if err := r.store.Persist(); err != nil {
		sum.Errors = append(sum.Errors, fmt.Sprintf("dedup persist: %v", err))
		log.Error("dedup persist failed", zap.Error(err))
	}

	sum.DurationSeconds = time.Since(start).Seconds()
	r.last.Store(&sum)

	if r.hub != nil {
		r.hub.Publish(events.Event{Type: "run_completed", Payload: sum})
	}
	r.notifySummary(sum)

	log.Info("discovery run finished",
		zap.Int("fetched", sum.Fetched),
		zap.Int("duplicates", sum.Duplicates),
		zap.Int("excluded", sum.Excluded),
		zap.Int("accepted", sum.Accepted),
		zap.Float64("seconds", sum.DurationSeconds))
	return sum, nil
}

// fetchSource runs every configured query against one adapter and reports
// the outcome to the supervisor exactly once.
func (r *Runner) fetchSource(ctx context.Context, log *zap.Logger, ad source.Adapter) sourceResult {
	name := ad.Name()
	start := time.Now()

	var all []domain.Listing
	var lastErr error

	for _, kw := range r.cfg.Search.Keywords {
		for _, loc := range r.cfg.Search.Locations {
			if ctx.Err() != nil {
				return sourceResult{outcome: SourceOutcome{
					Source: name, Error: ctx.Err().Error(),
					DurationSeconds: time.Since(start).Seconds(),
				}}
			}

			if err := r.limiter.Acquire(ctx, name); err != nil {
				lastErr = err
				continue
			}

			fctx, cancel := context.WithTimeout(ctx, r.cfg.FetchTimeout())
			listings, err := ad.Fetch(fctx, domain.Query{
				Keywords:   kw,
				Location:   loc,
				MaxResults: r.cfg.Search.MaxPerQuery,
			})
			cancel()

			if err != nil {
				lastErr = err
				log.Warn("fetch failed",
					zap.String("source", name),
					zap.String("keywords", kw),
					zap.String("location", loc),
					zap.Error(err))
				continue
			}
			all = append(all, listings...)
		}
	}

	dur := time.Since(start)
	out := sourceResult{
		listings: all,
		outcome: SourceOutcome{
			Source:          name,
			Fetched:         len(all),
			DurationSeconds: dur.Seconds(),
		},
	}

	// An aborted run must not poison the health record.
	if ctx.Err() != nil {
		out.outcome.Error = ctx.Err().Error()
		return out
	}

	if len(all) == 0 && lastErr != nil {
		out.outcome.Error = lastErr.Error()
		r.sup.RecordFailure(name, lastErr, dur)
	} else {
		r.sup.RecordSuccess(name, len(all), dur)
	}
	return out
}

// scoreOne guards the pipeline against a panicking rule on one record.
func (r *Runner) scoreOne(log *zap.Logger, l domain.Listing) (b domain.ScoreBreakdown, ok bool) {
	defer func() {
		if rec := recover(); rec != nil {
			log.Error("scoring failed for record",
				zap.String("url", l.URL),
				zap.Any("panic", rec))
			ok = false
		}
	}()
	return r.engine.Score(l), true
}

func (r *Runner) notifySummary(sum Summary) {
	if sum.Accepted == 0 {
		return
	}
	msg := fmt.Sprintf("Discovery run %s: %d new listings (fetched %d, %d duplicates, %d excluded)",
		sum.RunID, sum.Accepted, sum.Fetched, sum.Duplicates, sum.Excluded)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := r.notifier.Notify(ctx, msg); err != nil {
		r.log.Warn("run summary notification failed", zap.Error(err))
	}
}
