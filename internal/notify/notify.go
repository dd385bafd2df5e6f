// Package notify delivers fire-and-forget operator alerts. Delivery is
// best-effort: a failed notification never fails the run that sent it.
package notify

import "context"

type Notifier interface {
	Notify(ctx context.Context, message string) error
}

// Noop is used when no alert channel is configured.
type Noop struct{}

func (Noop) Notify(context.Context, string) error { return nil }
