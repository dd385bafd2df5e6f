package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/ajsalpv/Job-Applying/internal/config"
	"github.com/ajsalpv/Job-Applying/internal/dedup"
	"github.com/ajsalpv/Job-Applying/internal/discovery"
	"github.com/ajsalpv/Job-Applying/internal/events"
	"github.com/ajsalpv/Job-Applying/internal/notify"
	"github.com/ajsalpv/Job-Applying/internal/ratelimit"
	"github.com/ajsalpv/Job-Applying/internal/score"
	"github.com/ajsalpv/Job-Applying/internal/secrets"
	"github.com/ajsalpv/Job-Applying/internal/sink"
	"github.com/ajsalpv/Job-Applying/internal/source"
	"github.com/ajsalpv/Job-Applying/internal/source/board"
	"github.com/ajsalpv/Job-Applying/internal/source/mailbox"
	"github.com/ajsalpv/Job-Applying/internal/supervisor"
)

// application holds the fully wired pipeline plus the resources that need
// closing on shutdown.
type application struct {
	cfg    config.Config
	log    *zap.Logger
	store  *dedup.Store
	snk    *sink.SQLite
	sup    *supervisor.Supervisor
	hub    *events.Hub
	runner *discovery.Runner
}

func (a *application) Close() {
	if err := a.store.Close(); err != nil {
		a.log.Error("closing dedup store", zap.Error(err))
	}
	if err := a.snk.Close(); err != nil {
		a.log.Error("closing sink", zap.Error(err))
	}
}

// loadConfig resolves the config file, bootstrapping a user copy in the
// data dir on first start.
func loadConfig() (config.Config, error) {
	dataDir := viper.GetString("data-dir")
	if dataDir == "" {
		dataDir = "data"
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return config.Config{}, fmt.Errorf("creating data dir: %w", err)
	}

	path := cfgFile
	if path == "" {
		var err error
		path, err = config.EnsureUserConfig(dataDir, filepath.Join("config", "config.yml"))
		if err != nil {
			// No bundled default next to the binary. Seed the user copy
			// from the built-in defaults instead.
			path = filepath.Join(dataDir, "config.yml")
			if werr := writeDefaultConfig(path); werr != nil {
				return config.Config{}, fmt.Errorf("seeding default config: %w", werr)
			}
		}
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config %s: %w", path, err)
	}
	if cfg.App.DataDir == "" {
		cfg.App.DataDir = dataDir
	}
	return cfg, nil
}

func writeDefaultConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	b, err := yaml.Marshal(config.Default())
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0o644)
}

// buildApp wires every component from a validated config.
func buildApp(cfg config.Config, log *zap.Logger) (*application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	limiter := ratelimit.New()
	for _, src := range cfg.Sources {
		limiter.Configure(src.Name, src.RatePerMinute)
	}

	notifier := buildNotifier(cfg, log)
	sup := supervisor.New(cfg.SourceNames(), notifier, log)

	store, err := dedup.Open(config.ResolvePath(cfg.App.DataDir, cfg.Dedup.Path))
	if err != nil {
		return nil, fmt.Errorf("opening dedup store: %w", err)
	}

	snk, err := sink.OpenSQLite(config.ResolvePath(cfg.App.DataDir, cfg.Sink.Path))
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("opening sink: %w", err)
	}

	adapters, err := buildAdapters(cfg, log)
	if err != nil {
		store.Close()
		snk.Close()
		return nil, err
	}

	hub := events.NewHub()
	runner := discovery.NewRunner(
		cfg,
		adapters,
		limiter,
		sup,
		store,
		score.New(cfg.Profile),
		snk,
		notifier,
		hub,
		log,
	)

	return &application{
		cfg:    cfg,
		log:    log,
		store:  store,
		snk:    snk,
		sup:    sup,
		hub:    hub,
		runner: runner,
	}, nil
}

func buildNotifier(cfg config.Config, log *zap.Logger) notify.Notifier {
	chatID := cfg.Notify.TelegramChatID
	if chatID == "" {
		chatID = os.Getenv("TELEGRAM_CHAT_ID")
	}
	token, err := secrets.Get(cfg.Notify.KeyringAccount, "TELEGRAM_BOT_TOKEN")
	if err != nil || token == "" || chatID == "" {
		log.Info("telegram not configured, alerts disabled")
		return notify.Noop{}
	}

	tg, err := notify.NewTelegram(token, chatID)
	if err != nil {
		log.Warn("telegram notifier rejected, alerts disabled", zap.Error(err))
		return notify.Noop{}
	}
	return tg
}

func buildAdapters(cfg config.Config, log *zap.Logger) ([]source.Adapter, error) {
	pre := source.NewPrefilter(cfg.Profile)

	adapters := make([]source.Adapter, 0, len(cfg.Sources))
	for _, src := range cfg.Sources {
		switch src.Kind {
		case "board":
			adapters = append(adapters, board.New(board.Config{
				Name:     src.Name,
				Endpoint: src.Endpoint,
			}, pre, log))
		case "mailbox":
			mb := src.Mailbox
			password, err := secrets.Get(mb.KeyringAccount, "IMAP_PASSWORD")
			if err != nil || password == "" {
				return nil, fmt.Errorf("source %s: no IMAP password in keychain or IMAP_PASSWORD", src.Name)
			}
			adapters = append(adapters, mailbox.New(mailbox.Config{
				Name:          src.Name,
				Host:          mb.IMAPHost,
				Port:          mb.IMAPPort,
				Username:      mb.Username,
				Password:      password,
				SubjectFilter: mb.SubjectFilter,
				MaxMessages:   mb.MaxMessages,
				MarkSeen:      mb.MarkSeen,
			}, pre, log))
		default:
			return nil, fmt.Errorf("source %s: unknown kind %q", src.Name, src.Kind)
		}
	}
	return adapters, nil
}
