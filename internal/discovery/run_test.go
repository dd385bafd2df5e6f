package discovery

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/config"
	"github.com/ajsalpv/Job-Applying/internal/dedup"
	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/notify"
	"github.com/ajsalpv/Job-Applying/internal/ratelimit"
	"github.com/ajsalpv/Job-Applying/internal/score"
	"github.com/ajsalpv/Job-Applying/internal/source"
	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

type fakeAdapter struct {
	name string

	mu       sync.Mutex
	calls    int
	listings []domain.Listing
	err      error
	block    chan struct{} // when set, Fetch waits for it to close
}

func (f *fakeAdapter) Name() string { return f.name }

func (f *fakeAdapter) Fetch(ctx context.Context, _ domain.Query) ([]domain.Listing, error) {
	f.mu.Lock()
	f.calls++
	block := f.block
	listings, err := f.listings, f.err
	f.mu.Unlock()

	if block != nil {
		select {
		case <-block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	return listings, err
}

func (f *fakeAdapter) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakeSink struct {
	mu   sync.Mutex
	rows []domain.ScoredListing
	seen map[string]bool
	err  error
}

func newFakeSink() *fakeSink { return &fakeSink{seen: map[string]bool{}} }

func (s *fakeSink) AppendRecord(_ context.Context, l domain.ScoredListing) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return false, s.err
	}
	if s.seen[l.URL] {
		return false, nil
	}
	s.seen[l.URL] = true
	s.rows = append(s.rows, l)
	return true, nil
}

func (s *fakeSink) urls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.rows))
	for i, r := range s.rows {
		out[i] = r.URL
	}
	return out
}

type countingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *countingNotifier) Notify(_ context.Context, msg string) error {
	n.mu.Lock()
	n.messages = append(n.messages, msg)
	n.mu.Unlock()
	return nil
}

func (n *countingNotifier) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.messages)
}

func testConfig(names ...string) config.Config {
	cfg := config.Default()
	cfg.Search.Keywords = []string{"AI Engineer"}
	cfg.Search.Locations = []string{"Remote"}
	cfg.Discovery.Concurrency = 2
	cfg.Discovery.FetchTimeoutSeconds = 5
	for _, n := range names {
		cfg.Sources = append(cfg.Sources, config.SourceConfig{
			Name: n, Kind: "board", Endpoint: "https://example.com/jobs", RatePerMinute: 1000,
		})
	}
	return cfg
}

type harness struct {
	runner   *Runner
	store    *dedup.Store
	sup      *supervisor.Supervisor
	snk      *fakeSink
	notifier *countingNotifier
}

func newHarness(t *testing.T, cfg config.Config, adapters ...source.Adapter) *harness {
	t.Helper()

	store, err := dedup.Open(filepath.Join(t.TempDir(), "seen.json"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	notifier := &countingNotifier{}
	sup := supervisor.New(cfg.SourceNames(), notifier, zap.NewNop())
	limiter := ratelimit.NewWithOptions(time.Minute, 0)
	for _, s := range cfg.Sources {
		limiter.Configure(s.Name, s.RatePerMinute)
	}
	snk := newFakeSink()

	runner := NewRunner(cfg, adapters, limiter, sup, store,
		score.New(cfg.Profile), snk, notify.Noop{}, nil, zap.NewNop())
	return &harness{runner: runner, store: store, sup: sup, snk: snk, notifier: notifier}
}

func strongListing(url string) domain.Listing {
	return domain.Listing{
		Role:       "Machine Learning Engineer",
		Company:    "Acme",
		Location:   "Bangalore",
		Experience: "0-2 years",
		URL:        url,
		Skills:     []string{"Python", "PyTorch"},
	}
}

func midListing(url string) domain.Listing {
	return domain.Listing{
		Role:       "AI Engineer",
		Location:   "Remote",
		Experience: "2-4 years",
		URL:        url,
		Skills:     []string{"Python", "Cobol"},
	}
}

func TestRunHappyPath(t *testing.T) {
	cfg := testConfig("alpha", "beta")
	alpha := &fakeAdapter{name: "alpha", listings: []domain.Listing{midListing("https://a/1")}}
	beta := &fakeAdapter{name: "beta", listings: []domain.Listing{strongListing("https://b/1")}}
	h := newHarness(t, cfg, alpha, beta)

	sum, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Fetched)
	assert.Equal(t, 2, sum.Accepted)
	assert.Zero(t, sum.Duplicates)
	assert.Empty(t, sum.Errors)
	assert.Len(t, sum.Sources, 2)

	// Ranked by score: the strong listing outranks the mid one even though
	// its source is configured second.
	assert.Equal(t, []string{"https://b/1", "https://a/1"}, h.snk.urls())

	last := h.runner.LastSummary()
	require.NotNil(t, last)
	assert.Equal(t, sum.RunID, last.RunID)
}

func TestRunIsIdempotentAcrossRuns(t *testing.T) {
	cfg := testConfig("alpha")
	ad := &fakeAdapter{name: "alpha", listings: []domain.Listing{
		strongListing("https://a/1"), midListing("https://a/2"),
	}}
	h := newHarness(t, cfg, ad)

	first, err := h.runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Accepted)

	second, err := h.runner.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, second.Fetched)
	assert.Equal(t, 2, second.Duplicates)
	assert.Zero(t, second.Accepted)
	assert.Len(t, h.snk.urls(), 2)
}

func TestRunCountsExcludedAndBelowMin(t *testing.T) {
	cfg := testConfig("alpha")
	ad := &fakeAdapter{name: "alpha", listings: []domain.Listing{
		{Role: "Computer Vision Engineer", URL: "https://a/cv"},
		{Role: "Platform Engineer", URL: "https://a/weak"},
		strongListing("https://a/good"),
	}}
	h := newHarness(t, cfg, ad)

	sum, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Fetched)
	assert.Equal(t, 1, sum.Excluded)
	assert.Equal(t, 1, sum.BelowMinScore)
	assert.Equal(t, 1, sum.Accepted)
	assert.Equal(t, []string{"https://a/good"}, h.snk.urls())
}

func TestRunTruncatesToCap(t *testing.T) {
	cfg := testConfig("alpha")
	cfg.Discovery.MaxResultsPerRun = 2

	ad := &fakeAdapter{name: "alpha", listings: []domain.Listing{
		midListing("https://a/1"),
		strongListing("https://a/2"),
		midListing("https://a/3"),
		strongListing("https://a/4"),
	}}
	h := newHarness(t, cfg, ad)

	sum, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, sum.Truncated)
	assert.Equal(t, 2, sum.Accepted)
	// Ties on identical scores keep discovery order.
	assert.Equal(t, []string{"https://a/2", "https://a/4"}, h.snk.urls())
}

func TestRunDisablesFailingSourceAndSkipsIt(t *testing.T) {
	cfg := testConfig("alpha", "beta")
	failing := &fakeAdapter{name: "alpha", err: errors.New("connection refused")}
	healthy := &fakeAdapter{name: "beta", listings: []domain.Listing{strongListing("https://b/1")}}
	h := newHarness(t, cfg, failing, healthy)

	for i := 0; i < supervisor.MaxConsecutiveFailures; i++ {
		_, err := h.runner.Run(context.Background())
		require.NoError(t, err)
	}
	require.False(t, h.sup.IsActive("alpha"))
	assert.True(t, h.sup.IsActive("beta"))

	callsAtDisable := failing.callCount()
	sum, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	// The disabled adapter is never invoked again.
	assert.Equal(t, callsAtDisable, failing.callCount())
	require.Len(t, sum.Sources, 2)
	assert.True(t, sum.Sources[0].Skipped)
	assert.Equal(t, "alpha", sum.Sources[0].Source)

	// Exactly one disable alert, delivered asynchronously.
	assert.Eventually(t, func() bool { return h.notifier.count() == 1 },
		2*time.Second, 10*time.Millisecond)
}

func TestRunFailedSourceDoesNotPoisonOthers(t *testing.T) {
	cfg := testConfig("alpha", "beta")
	failing := &fakeAdapter{name: "alpha", err: errors.New("boom")}
	healthy := &fakeAdapter{name: "beta", listings: []domain.Listing{strongListing("https://b/1")}}
	h := newHarness(t, cfg, failing, healthy)

	sum, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.Accepted)
	assert.NotEmpty(t, sum.Errors)
}

func TestRunRejectsOverlap(t *testing.T) {
	cfg := testConfig("alpha")
	release := make(chan struct{})
	ad := &fakeAdapter{name: "alpha", block: release}
	h := newHarness(t, cfg, ad)

	done := make(chan struct{})
	go func() {
		defer close(done)
		h.runner.Run(context.Background())
	}()

	require.Eventually(t, func() bool { return h.runner.Running() },
		2*time.Second, 5*time.Millisecond)

	_, err := h.runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	<-done
	assert.False(t, h.runner.Running())
}

func TestRunFatalConfig(t *testing.T) {
	cfg := testConfig("alpha")
	cfg.Sources = nil
	h := newHarness(t, cfg)

	_, err := h.runner.Run(context.Background())
	assert.ErrorIs(t, err, ErrFatalConfig)
	assert.Nil(t, h.runner.LastSummary())
}

func TestRunCountsSinkRejections(t *testing.T) {
	cfg := testConfig("alpha")
	ad := &fakeAdapter{name: "alpha", listings: []domain.Listing{strongListing("https://a/1")}}
	h := newHarness(t, cfg, ad)
	h.snk.seen["https://a/1"] = true // already present downstream

	sum, err := h.runner.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1, sum.SinkRejected)
	assert.Zero(t, sum.Accepted)
}
