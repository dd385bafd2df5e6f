package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/sink"
	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

type fakeScheduler struct {
	running bool
	starts  int
	stops   int
}

func (f *fakeScheduler) Start()        { f.starts++; f.running = true }
func (f *fakeScheduler) Stop()         { f.stops++; f.running = false }
func (f *fakeScheduler) Running() bool { return f.running }

type fakeLister struct {
	recs []sink.Record
	err  error
}

func (f *fakeLister) List(_ context.Context, limit int) ([]sink.Record, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.recs) {
		return f.recs[:limit], nil
	}
	return f.recs, nil
}

func testDeps() (Deps, *fakeScheduler) {
	sched := &fakeScheduler{}
	return Deps{
		Sup:       supervisor.New([]string{"board"}, nil, zap.NewNop()),
		Scheduler: sched,
		Listings:  &fakeLister{recs: []sink.Record{{ID: 1, URL: "https://a/1", Score: 72}}},
		Sources:   []string{"board"},
		Log:       zap.NewNop(),
	}, sched
}

func do(t *testing.T, mux http.Handler, method, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func TestMethodNotAllowed(t *testing.T) {
	deps, _ := testDeps()
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodDelete, "/listings")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestSchedulerRoutes(t *testing.T) {
	deps, sched := testDeps()
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodPost, "/scheduler/start")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sched.starts)
	assert.True(t, sched.running)

	rec = do(t, mux, http.MethodGet, "/scheduler")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"running":true`)

	rec = do(t, mux, http.MethodPost, "/scheduler/stop")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, sched.stops)
	assert.False(t, sched.running)
}

func TestEnableSourceRoute(t *testing.T) {
	deps, _ := testDeps()
	for i := 0; i < 3; i++ {
		deps.Sup.RecordFailure("board", assert.AnError, 0)
	}
	require.False(t, deps.Sup.IsActive("board"))
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodPost, "/sources/board/enable")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, deps.Sup.IsActive("board"))
}

func TestEnableUnknownSource(t *testing.T) {
	deps, _ := testDeps()
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodPost, "/sources/ghost/enable")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, mux, http.MethodPost, "/sources/board/disable")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListingsRoute(t *testing.T) {
	deps, _ := testDeps()
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodGet, "/listings")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Listings []sink.Record `json:"listings"`
		Count    int           `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "https://a/1", body.Listings[0].URL)
}

func TestListingsRouteRejectsBadLimit(t *testing.T) {
	deps, _ := testDeps()
	mux := NewMux(deps)

	rec := do(t, mux, http.MethodGet, "/listings?limit=zero")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, mux, http.MethodGet, "/listings?limit=-1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRequestIDMiddleware(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NotEmpty(t, RequestIDFrom(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}), RequestID)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))

	// A caller-supplied ID is echoed back.
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc123")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, "abc123", rec.Header().Get("X-Request-ID"))
}

func TestRecoverMiddleware(t *testing.T) {
	handler := Chain(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}), RequestID, Recover(zap.NewNop()))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "internal_error")
}
