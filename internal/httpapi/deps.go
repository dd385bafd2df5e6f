package httpapi

import (
	"context"

	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/discovery"
	"github.com/ajsalpv/Job-Applying/internal/events"
	"github.com/ajsalpv/Job-Applying/internal/sink"
	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

// Lister exposes persisted listings for the read API.
type Lister interface {
	List(ctx context.Context, limit int) ([]sink.Record, error)
}

// SchedulerControl is the slice of the scheduler the API needs.
type SchedulerControl interface {
	Start()
	Stop()
	Running() bool
}

type Deps struct {
	Runner    *discovery.Runner
	Sup       *supervisor.Supervisor
	Scheduler SchedulerControl
	Listings  Lister
	Hub       *events.Hub

	// Sources holds the configured source names, used to reject
	// enable requests for names that do not exist.
	Sources []string

	Log *zap.Logger
}

func (d Deps) knownSource(name string) bool {
	for _, s := range d.Sources {
		if s == name {
			return true
		}
	}
	return false
}
