package httpapi

import "net/http"

// NewMux wires every route. main() wraps the result with the middleware
// chain and owns the http.Server lifecycle.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()

	rh := RunHandler{Runner: d.Runner, Log: d.Log}
	mux.HandleFunc("/run", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: rh.Trigger,
	}))
	mux.HandleFunc("/run/last", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: rh.LastSummary,
	}))

	hh := HealthHandler{Sup: d.Sup, Runner: d.Runner, Scheduler: d.Scheduler}
	mux.HandleFunc("/health", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: hh.Get,
	}))

	srch := SourcesHandler{Sup: d.Sup, Known: d.knownSource}
	mux.HandleFunc("/sources/", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: srch.EnableByPath, // expects /sources/{name}/enable
	}))

	sch := SchedulerHandler{Scheduler: d.Scheduler}
	mux.HandleFunc("/scheduler", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: sch.Status,
	}))
	mux.HandleFunc("/scheduler/start", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Start,
	}))
	mux.HandleFunc("/scheduler/stop", methodMux(map[string]http.HandlerFunc{
		http.MethodPost: sch.Stop,
	}))

	lh := ListingsHandler{Listings: d.Listings, Log: d.Log}
	mux.HandleFunc("/listings", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: lh.List,
	}))

	eh := EventsHandler{Hub: d.Hub}
	mux.HandleFunc("/events", methodMux(map[string]http.HandlerFunc{
		http.MethodGet: eh.ServeSSE,
	}))

	return mux
}
