package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate reports configuration problems that must abort a run early.
func (c Config) Validate() error {
	var errs []error

	if len(c.Sources) == 0 {
		errs = append(errs, errors.New("no sources configured"))
	}

	seen := map[string]bool{}
	for i, s := range c.Sources {
		name := strings.TrimSpace(s.Name)
		if name == "" {
			errs = append(errs, fmt.Errorf("sources[%d]: name is required", i))
			continue
		}
		if seen[name] {
			errs = append(errs, fmt.Errorf("sources[%d]: duplicate name %q", i, name))
		}
		seen[name] = true

		switch s.Kind {
		case "board":
			if strings.TrimSpace(s.Endpoint) == "" {
				errs = append(errs, fmt.Errorf("source %q: endpoint is required", name))
			}
		case "mailbox":
			if s.Mailbox == nil {
				errs = append(errs, fmt.Errorf("source %q: mailbox section is required", name))
			} else if s.Mailbox.IMAPHost == "" || s.Mailbox.Username == "" {
				errs = append(errs, fmt.Errorf("source %q: imap_host and username are required", name))
			}
		default:
			errs = append(errs, fmt.Errorf("source %q: unknown kind %q", name, s.Kind))
		}

		if s.RatePerMinute <= 0 {
			errs = append(errs, fmt.Errorf("source %q: rate_per_minute must be positive", name))
		}
	}

	if c.Scheduler.IntervalMinutes <= 0 {
		errs = append(errs, errors.New("scheduler.interval_minutes must be positive"))
	}
	if c.Discovery.Concurrency <= 0 {
		errs = append(errs, errors.New("discovery.concurrency must be positive"))
	}
	if c.Discovery.MaxResultsPerRun <= 0 {
		errs = append(errs, errors.New("discovery.max_results_per_run must be positive"))
	}
	if strings.TrimSpace(c.Sink.Path) == "" {
		errs = append(errs, errors.New("sink.path is required"))
	}
	if strings.TrimSpace(c.Dedup.Path) == "" {
		errs = append(errs, errors.New("dedup.path is required"))
	}

	return errors.Join(errs...)
}

// Sources as domain values, in configured order.
func (c Config) SourceNames() []string {
	out := make([]string, 0, len(c.Sources))
	for _, s := range c.Sources {
		out = append(out, s.Name)
	}
	return out
}
