package httpapi

import (
	"net/http"

	"github.com/ajsalpv/Job-Applying/internal/discovery"
	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

type HealthHandler struct {
	Sup       *supervisor.Supervisor
	Runner    *discovery.Runner
	Scheduler SchedulerControl
}

type healthResponse struct {
	supervisor.Snapshot
	RunInProgress    bool               `json:"run_in_progress"`
	SchedulerRunning bool               `json:"scheduler_running"`
	LastRun          *discovery.Summary `json:"last_run,omitempty"`
}

func (h HealthHandler) Get(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Snapshot:         h.Sup.Snapshot(),
		RunInProgress:    h.Runner.Running(),
		SchedulerRunning: h.Scheduler.Running(),
		LastRun:          h.Runner.LastSummary(),
	}
	writeJSON(w, http.StatusOK, resp)
}
