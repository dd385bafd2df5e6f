package httpapi

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/discovery"
)

type RunHandler struct {
	Runner *discovery.Runner
	Log    *zap.Logger
}

// Trigger kicks off a discovery run in the background. Overlapping
// triggers are rejected; the in-flight run is left alone.
func (h RunHandler) Trigger(w http.ResponseWriter, r *http.Request) {
	if h.Runner.Running() {
		writeError(w, r, http.StatusConflict, "run_in_progress", "a discovery run is already in progress")
		return
	}

	go func() {
		if _, err := h.Runner.Run(context.Background()); err != nil && !errors.Is(err, discovery.ErrRunInProgress) {
			h.Log.Error("triggered run failed", zap.Error(err))
		}
	}()

	writeJSON(w, http.StatusAccepted, map[string]any{"ok": true})
}

// LastSummary reports the outcome of the most recent completed run.
func (h RunHandler) LastSummary(w http.ResponseWriter, r *http.Request) {
	sum := h.Runner.LastSummary()
	if sum == nil {
		writeError(w, r, http.StatusNotFound, "no_runs", "no discovery run has completed yet")
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
