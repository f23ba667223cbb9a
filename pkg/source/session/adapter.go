// Package session fetches job postings by replaying a previously captured
// authenticated browser session against a listings site. The site's markup
// changes without notice, so extraction is defensive throughout: a missing
// field degrades to empty, never to a failed fetch.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/source"
)

// selectors groups every markup assumption in one place so a site change
// means editing this table, not the fetch logic.
type selectorSet struct {
	// authMarker only renders for an authenticated session. Its absence is
	// the expiry probe.
	authMarker string
	card       string
	title      string
	company    string
	location   string
	link       string
	posted     string // <time datetime="...">
}

var defaultSelectors = selectorSet{
	authMarker: "nav .global-nav__me",
	card:       "ul.jobs-search__results-list li",
	title:      ".base-search-card__title",
	company:    ".base-search-card__subtitle",
	location:   ".job-search-card__location",
	link:       "a.base-card__full-link",
	posted:     "time",
}

// Adapter implements source.Source by replaying a captured session cookie.
type Adapter struct {
	BaseURL    string
	Provider   string // credential store key, e.g. "linkedin"
	CookieName string // e.g. "li_at"
	MaxResults int

	creds     source.CredentialStore
	client    *http.Client
	selectors selectorSet
}

// New constructs the adapter. The credential is resolved from creds on every
// fetch so rotation takes effect without a restart.
func New(baseURL, provider, cookieName string, creds source.CredentialStore) *Adapter {
	if cookieName == "" {
		cookieName = "li_at"
	}
	return &Adapter{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		Provider:   provider,
		CookieName: cookieName,
		MaxResults: 25,
		creds:      creds,
		client: &http.Client{
			Timeout: 20 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				// login redirects mean the session is gone; surface that
				// instead of scraping the login page
				if strings.Contains(req.URL.Path, "login") || strings.Contains(req.URL.Path, "authwall") {
					return fmt.Errorf("redirected to %s: %w", req.URL.Path, source.ErrSessionExpired)
				}
				return nil
			},
		},
		selectors: defaultSelectors,
	}
}

var _ source.Source = (*Adapter)(nil)

func (a *Adapter) Name() string { return job.SourceSession }

// FetchCandidates loads the search results page with the stored session
// cookie and extracts postings by selector. It first probes for the
// authenticated-only marker; a page without it reports ErrSessionExpired,
// never an empty result set.
func (a *Adapter) FetchCandidates(ctx context.Context, criteria job.Criteria) ([]job.Posting, bool, error) {
	if err := criteria.Validate(); err != nil {
		return nil, false, err
	}

	cookie, err := a.creds.Credential(a.Provider)
	if err != nil {
		return nil, false, err
	}

	params := url.Values{}
	params.Set("keywords", criteria.Query())
	if criteria.Location != "" {
		params.Set("location", criteria.Location)
	}
	searchURL := a.BaseURL + "/jobs/search/?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, false, err
	}
	req.AddCookie(&http.Cookie{Name: a.CookieName, Value: cookie})
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36")

	resp, err := a.client.Do(req)
	if err != nil {
		if errors.Is(err, source.ErrSessionExpired) {
			return nil, false, source.ErrSessionExpired
		}
		return nil, false, fmt.Errorf("session fetch: %v: %w", err, source.ErrSourceUnavailable)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return nil, false, source.ErrSessionExpired
	case resp.StatusCode != http.StatusOK:
		return nil, false, fmt.Errorf("session source returned %d: %w", resp.StatusCode, source.ErrSourceUnavailable)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, false, fmt.Errorf("parse html: %v: %w", err, source.ErrSourceUnavailable)
	}

	if doc.Find(a.selectors.authMarker).Length() == 0 {
		return nil, false, source.ErrSessionExpired
	}

	var postings []job.Posting
	truncated := false
	doc.Find(a.selectors.card).EachWithBreak(func(i int, card *goquery.Selection) bool {
		if a.MaxResults > 0 && len(postings) >= a.MaxResults {
			truncated = true
			return false
		}
		p := a.extractCard(card)
		// a card with neither title nor link is markup noise, not a posting
		if p.Title == "" && p.URL == "" {
			return true
		}
		postings = append(postings, p)
		return true
	})

	return postings, truncated, nil
}

// extractCard pulls one posting out of a result card. Every field falls back
// to empty when its selector no longer matches.
func (a *Adapter) extractCard(card *goquery.Selection) job.Posting {
	link := card.Find(a.selectors.link).First()
	href, _ := link.Attr("href")

	p := job.Posting{
		Title:       cleanText(card.Find(a.selectors.title).First().Text()),
		Company:     cleanText(card.Find(a.selectors.company).First().Text()),
		Location:    cleanText(card.Find(a.selectors.location).First().Text()),
		Description: cleanText(card.Text()),
		Source:      job.SourceSession,
		URL:         strings.TrimSpace(href),
	}
	if dt, ok := card.Find(a.selectors.posted).First().Attr("datetime"); ok {
		if t, err := time.Parse("2006-01-02", dt); err == nil {
			p.PostedAt = t
		} else if t, err := time.Parse(time.RFC3339, dt); err == nil {
			p.PostedAt = t
		}
	}
	if p.URL != "" {
		p.ID = p.URL
	} else {
		p.ID = p.Title + "|" + p.Company
	}
	return p
}

func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
