package httpapi

import "net/http"

type SchedulerHandler struct {
	Scheduler SchedulerControl
}

func (h SchedulerHandler) Start(w http.ResponseWriter, r *http.Request) {
	h.Scheduler.Start()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": h.Scheduler.Running()})
}

func (h SchedulerHandler) Stop(w http.ResponseWriter, r *http.Request) {
	h.Scheduler.Stop()
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "running": h.Scheduler.Running()})
}

func (h SchedulerHandler) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"running": h.Scheduler.Running()})
}
