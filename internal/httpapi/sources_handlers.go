package httpapi

import (
	"net/http"
	"strings"

	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

type SourcesHandler struct {
	Sup   *supervisor.Supervisor
	Known func(name string) bool
}

// EnableByPath expects /sources/{name}/enable and resets the named source
// to active with a clean failure count.
func (h SourcesHandler) EnableByPath(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sources/")
	name, ok := strings.CutSuffix(rest, "/enable")
	if !ok || name == "" || strings.Contains(name, "/") {
		writeError(w, r, http.StatusNotFound, "not_found", "unknown route")
		return
	}
	if !h.Known(name) {
		writeError(w, r, http.StatusNotFound, "unknown_source", "no such source: "+name)
		return
	}

	h.Sup.ReEnable(name)
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "source": name})
}
