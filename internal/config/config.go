package config

import (
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Profile describes the candidate the scoring engine matches listings against.
type Profile struct {
	Skills             []string `yaml:"skills"`
	TargetTitles       []string `yaml:"target_titles"`
	ExcludedTitles     []string `yaml:"excluded_titles"`
	ExcludedKeywords   []string `yaml:"excluded_keywords"`
	PreferredLocations []string `yaml:"preferred_locations"`
	OtherLocations     []string `yaml:"other_locations"`
	ExperienceYears    int      `yaml:"experience_years"`
}

// SourceConfig declares one external listing provider.
type SourceConfig struct {
	Name          string         `yaml:"name"`
	Kind          string         `yaml:"kind"` // "board" or "mailbox"
	Endpoint      string         `yaml:"endpoint"`
	RatePerMinute int            `yaml:"rate_per_minute"`
	Mailbox       *MailboxConfig `yaml:"mailbox,omitempty"`
}

// MailboxConfig configures an IMAP job-alert source.
type MailboxConfig struct {
	IMAPHost       string `yaml:"imap_host"`
	IMAPPort       int    `yaml:"imap_port"`
	Username       string `yaml:"username"`
	SubjectFilter  string `yaml:"subject_filter"`
	MaxMessages    int    `yaml:"max_messages"`
	MarkSeen       bool   `yaml:"mark_seen"`
	KeyringAccount string `yaml:"keyring_account"`
}

type Config struct {
	App struct {
		Port    int    `yaml:"port"`
		DataDir string `yaml:"data_dir"`
	} `yaml:"app"`

	Scheduler struct {
		IntervalMinutes int `yaml:"interval_minutes"`
		GraceSeconds    int `yaml:"grace_seconds"`
	} `yaml:"scheduler"`

	Discovery struct {
		Concurrency         int `yaml:"concurrency"`
		MaxResultsPerRun    int `yaml:"max_results_per_run"`
		MinFitScore         int `yaml:"min_fit_score"`
		FetchTimeoutSeconds int `yaml:"fetch_timeout_seconds"`
	} `yaml:"discovery"`

	Search struct {
		Keywords    []string `yaml:"keywords"`
		Locations   []string `yaml:"locations"`
		MaxPerQuery int      `yaml:"max_per_query"`
	} `yaml:"search"`

	Profile Profile `yaml:"profile"`

	Sources []SourceConfig `yaml:"sources"`

	Notify struct {
		TelegramChatID string `yaml:"telegram_chat_id"`
		KeyringAccount string `yaml:"keyring_account"`
	} `yaml:"notify"`

	Sink struct {
		Path string `yaml:"path"` // sqlite file, relative to data_dir when not absolute
	} `yaml:"sink"`

	Dedup struct {
		Path string `yaml:"path"` // seen-URL snapshot, relative to data_dir when not absolute
	} `yaml:"dedup"`
}

func Load(path string) (Config, error) {
	cfg := Default()
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, err
	}
	cfg.applyFallbacks()
	return cfg, nil
}

func (c *Config) applyFallbacks() {
	d := Default()
	if c.App.Port == 0 {
		c.App.Port = d.App.Port
	}
	if c.App.DataDir == "" {
		c.App.DataDir = d.App.DataDir
	}
	if c.Scheduler.IntervalMinutes == 0 {
		c.Scheduler.IntervalMinutes = d.Scheduler.IntervalMinutes
	}
	if c.Scheduler.GraceSeconds == 0 {
		c.Scheduler.GraceSeconds = d.Scheduler.GraceSeconds
	}
	if c.Discovery.Concurrency == 0 {
		c.Discovery.Concurrency = d.Discovery.Concurrency
	}
	if c.Discovery.MaxResultsPerRun == 0 {
		c.Discovery.MaxResultsPerRun = d.Discovery.MaxResultsPerRun
	}
	if c.Discovery.MinFitScore == 0 {
		c.Discovery.MinFitScore = d.Discovery.MinFitScore
	}
	if c.Discovery.FetchTimeoutSeconds == 0 {
		c.Discovery.FetchTimeoutSeconds = d.Discovery.FetchTimeoutSeconds
	}
	if c.Search.MaxPerQuery == 0 {
		c.Search.MaxPerQuery = d.Search.MaxPerQuery
	}
	if len(c.Search.Keywords) == 0 {
		c.Search.Keywords = d.Search.Keywords
	}
	if len(c.Search.Locations) == 0 {
		c.Search.Locations = d.Search.Locations
	}
	if len(c.Profile.Skills) == 0 {
		c.Profile.Skills = d.Profile.Skills
	}
	if len(c.Profile.TargetTitles) == 0 {
		c.Profile.TargetTitles = d.Profile.TargetTitles
	}
	if len(c.Profile.ExcludedTitles) == 0 {
		c.Profile.ExcludedTitles = d.Profile.ExcludedTitles
	}
	if len(c.Profile.ExcludedKeywords) == 0 {
		c.Profile.ExcludedKeywords = d.Profile.ExcludedKeywords
	}
	if len(c.Profile.PreferredLocations) == 0 {
		c.Profile.PreferredLocations = d.Profile.PreferredLocations
	}
	if len(c.Profile.OtherLocations) == 0 {
		c.Profile.OtherLocations = d.Profile.OtherLocations
	}
	if c.Profile.ExperienceYears == 0 {
		c.Profile.ExperienceYears = d.Profile.ExperienceYears
	}
	if c.Sink.Path == "" {
		c.Sink.Path = d.Sink.Path
	}
	if c.Dedup.Path == "" {
		c.Dedup.Path = d.Dedup.Path
	}
}

// Interval is the scheduler tick interval.
func (c Config) Interval() time.Duration {
	return time.Duration(c.Scheduler.IntervalMinutes) * time.Minute
}

// Grace is the delay before the scheduler's first run.
func (c Config) Grace() time.Duration {
	return time.Duration(c.Scheduler.GraceSeconds) * time.Second
}

// FetchTimeout bounds a single adapter fetch.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.Discovery.FetchTimeoutSeconds) * time.Second
}
