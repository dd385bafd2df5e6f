// Package board is the reference HTML job-board adapter. It fetches a
// search results page and extracts listing cards with loose selectors that
// survive minor markup changes. Site-specific quirks belong in the
// endpoint configuration, not in new pipeline code.
package board

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"context"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/ajsalpv/Job-Applying/internal/domain"
	"github.com/ajsalpv/Job-Applying/internal/source"
)

const userAgent = "Mozilla/5.0 (X11; Linux x86_64) JobDiscovery/1.0"

type Config struct {
	Name     string
	Endpoint string
}

type Adapter struct {
	cfg Config
	hc  *http.Client
	pre *source.Prefilter
	log *zap.Logger
}

func New(cfg Config, pre *source.Prefilter, log *zap.Logger) *Adapter {
	return &Adapter{
		cfg: cfg,
		hc:  &http.Client{Timeout: 30 * time.Second},
		pre: pre,
		log: log,
	}
}

func (a *Adapter) Name() string { return a.cfg.Name }

func (a *Adapter) Fetch(ctx context.Context, q domain.Query) ([]domain.Listing, error) {
	searchURL := fmt.Sprintf("%s?q=%s&l=%s",
		strings.TrimRight(a.cfg.Endpoint, "/"),
		url.QueryEscape(q.Keywords),
		url.QueryEscape(q.Location),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape, err)
	}
	req.Header.Set("User-Agent", userAgent)

	res, err := a.hc.Do(req)
	if err != nil {
		return nil, source.Classify(a.cfg.Name, err)
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusForbidden || res.StatusCode == http.StatusTooManyRequests:
		return nil, source.NewFetchError(a.cfg.Name, source.KindBlocked,
			fmt.Errorf("status %d", res.StatusCode))
	case res.StatusCode >= 400:
		return nil, source.NewFetchError(a.cfg.Name, source.KindNetwork,
			fmt.Errorf("status %d", res.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape,
			fmt.Errorf("parse results page: %w", err))
	}

	if title := strings.ToLower(doc.Find("title").First().Text()); looksBlocked(title) {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBlocked,
			fmt.Errorf("challenge page: %q", strings.TrimSpace(title)))
	}

	listings := a.extract(doc, q)
	if len(listings) == 0 {
		return nil, source.NewFetchError(a.cfg.Name, source.KindBadShape,
			fmt.Errorf("no usable listing cards on %s", searchURL))
	}

	kept, dropped := a.pre.Apply(listings, q.Keywords)
	a.log.Debug("board fetch",
		zap.String("source", a.cfg.Name),
		zap.Int("raw", len(listings)),
		zap.Int("prefiltered", dropped),
		zap.Int("kept", len(kept)))
	return kept, nil
}

func (a *Adapter) extract(doc *goquery.Document, q domain.Query) []domain.Listing {
	max := q.MaxResults
	if max <= 0 {
		max = 25
	}

	var out []domain.Listing
	doc.Find(`[class*="job"], [class*="Job"], [data-job], .posting`).
		EachWithBreak(func(_ int, card *goquery.Selection) bool {
			title := cleanText(card.Find(`h2, h3, [class*="title"]`).First().Text())
			if title == "" {
				return true
			}

			href, _ := card.Find(`a[href]`).First().Attr("href")
			href = a.absolutize(strings.TrimSpace(href))
			if href == "" {
				return true
			}

			out = append(out, domain.Listing{
				Role:        title,
				Company:     cleanText(card.Find(`[class*="company"], [class*="comp-name"]`).First().Text()),
				Location:    cleanText(card.Find(`[class*="location"], [class*="loc"]`).First().Text()),
				Experience:  cleanText(card.Find(`[class*="experience"], [class*="exp"]`).First().Text()),
				Description: cleanText(card.Find(`[class*="description"], [class*="snippet"]`).First().Text()),
				PostedDate:  cleanText(card.Find(`[class*="posted"], time`).First().Text()),
				URL:         href,
				SourceName:  a.cfg.Name,
			})
			return len(out) < max
		})
	return out
}

func (a *Adapter) absolutize(href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	base, err := url.Parse(a.cfg.Endpoint)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

func looksBlocked(pageTitle string) bool {
	for _, kw := range []string{"blocked", "captcha", "security check", "verify", "are you a human"} {
		if strings.Contains(pageTitle, kw) {
			return true
		}
	}
	return false
}

func cleanText(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
