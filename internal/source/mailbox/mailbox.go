// Package mailbox reads job-alert emails over IMAP and turns the links they
// carry into candidate listings. Alert mail has no structured experience or
// location fields, so most triage happens downstream in the scoring engine.
package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"strings"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/source"
)

const (
	defaultPort        = 993
	defaultMaxMessages = 50
	mailCutoffMonths   = 3
)

type Config struct {
	Name          string
	Host          string
	Port          int
	Username      string
	Password      string
	SubjectFilter string
	MaxMessages   int
	MarkSeen      bool
}

type Adapter struct {
	cfg Config
	pre *source.Prefilter
	log *zap.Logger
}

func New(cfg Config, pre *source.Prefilter, log *zap.Logger) *Adapter {
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.MaxMessages == 0 {
		cfg.MaxMessages = defaultMaxMessages
	}
	return &Adapter{cfg: cfg, pre: pre, log: log}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Fetch(ctx context.Context, q domain.Query) ([]domain.Listing, error) {
	addr := fmt.Sprintf("%s:%d", a.cfg.Host, a.cfg.Port)
	c, err := imapclient.DialTLS(addr, &imapclient.Options{
		TLSConfig: &tls.Config{MinVersion: tls.VersionTLS12, ServerName: a.cfg.Host},
	})
	if err != nil {
		return nil, source.Classify(a.cfg.Name, fmt.Errorf("imap dial: %w", err))
	}
	defer c.Close()

	// Best-effort close on cancellation; Fetch callers enforce the timeout.
	go func() {
		<-ctx.Done()
		_ = c.Close()
	}()

	if err := c.Login(a.cfg.Username, a.cfg.Password).Wait(); err != nil {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBlocked,
			fmt.Errorf("imap login: %w", err))
	}
	defer func() { _ = c.Logout().Wait() }()

	if _, err := c.Select("INBOX", &imap.SelectOptions{ReadOnly: !a.cfg.MarkSeen}).Wait(); err != nil {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape,
			fmt.Errorf("imap select inbox: %w", err))
	}

	msgs, err := a.fetchUnseen(ctx, c)
	if err != nil {
		return nil, err
	}

	var all []domain.Listing
	var consumed []imap.UID
	seen := map[string]bool{}

	filter := strings.ToLower(a.cfg.SubjectFilter)
	for _, m := range msgs {
		if filter != "" && !strings.Contains(strings.ToLower(m.Subject), filter) {
			continue
		}
		consumed = append(consumed, m.UID)
		for _, l := range listingsFromMessage(m, a.cfg.Name) {
			if seen[l.URL] {
				continue
			}
			seen[l.URL] = true
			all = append(all, l)
		}
	}

	if a.cfg.MarkSeen && len(consumed) > 0 {
		if err := markSeen(c, consumed); err != nil {
			a.log.Warn("mark seen failed", zap.String("source", a.cfg.Name), zap.Error(err))
		}
	}

	kept, dropped := a.pre.Apply(all, q.Keywords)
	a.log.Debug("mailbox fetch",
		zap.String("source", a.cfg.Name),
		zap.Int("messages", len(msgs)),
		zap.Int("raw", len(all)),
		zap.Int("prefiltered", dropped),
		zap.Int("kept", len(kept)))
	return kept, nil
}

type message struct {
	UID     imap.UID
	Subject string
	Date    time.Time
	Raw     []byte
}

// fetchUnseen pulls recent unseen messages newest-first with BODY.PEEK[] so
// nothing is flagged \Seen unless we later consume it.
func (a *Adapter) fetchUnseen(ctx context.Context, c *imapclient.Client) ([]message, error) {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
		Since:   time.Now().AddDate(0, -mailCutoffMonths, 0),
	}
	searchData, err := c.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape,
			fmt.Errorf("imap search: %w", err))
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil, nil
	}
	for i, j := 0, len(uids)-1; i < j; i, j = i+1, j-1 {
		uids[i], uids[j] = uids[j], uids[i]
	}
	if len(uids) > a.cfg.MaxMessages {
		uids = uids[:a.cfg.MaxMessages]
	}

	bodyAll := &imap.FetchItemBodySection{Specifier: imap.PartSpecifierNone, Peek: true}
	cmd := c.Fetch(imap.UIDSetNum(uids...), &imap.FetchOptions{
		UID:         true,
		Envelope:    true,
		BodySection: []*imap.FetchItemBodySection{bodyAll},
	})
	defer func() { _ = cmd.Close() }()

	var out []message
	for {
		select {
		case <-ctx.Done():
			return nil, source.Classify(a.cfg.Name, ctx.Err())
		default:
		}

		msgData := cmd.Next()
		if msgData == nil {
			break
		}
		buf, err := msgData.Collect()
		if err != nil {
			return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape,
				fmt.Errorf("imap fetch collect: %w", err))
		}

		m := message{UID: buf.UID}
		if buf.Envelope != nil {
			m.Subject = buf.Envelope.Subject
			m.Date = buf.Envelope.Date
		}
		if b := buf.FindBodySection(bodyAll); b != nil {
			m.Raw = append([]byte(nil), b...)
		}
		out = append(out, m)
	}

	if err := cmd.Close(); err != nil {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape,
			fmt.Errorf("imap fetch close: %w", err))
	}
	return out, nil
}

func markSeen(c *imapclient.Client, uids []imap.UID) error {
	cmd := c.Store(imap.UIDSetNum(uids...), &imap.StoreFlags{
		Op:     imap.StoreFlagsAdd,
		Silent: true,
		Flags:  []imap.Flag{imap.FlagSeen},
	}, nil)
	return cmd.Close()
}
