// Package aggregator fetches job postings from a paginated, rate-limited
// public job-search API (Adzuna-compatible).
package aggregator

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/source"
)

const (
	defaultPageSize = 50
	defaultMaxPages = 3
	maxAttempts     = 3 // total tries per page when rate-limited
	backoffBase     = 500 * time.Millisecond
)

// Cache stores fetched posting pages so repeated searches within the TTL do
// not spend the API's rate budget. A nil Cache disables caching.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
}

// Adapter implements source.Source against the aggregator API.
type Adapter struct {
	BaseURL  string
	AppID    string
	AppKey   string
	Country  string // e.g. "us", "gb", "in"
	PageSize int
	MaxPages int

	client   *http.Client
	cache    Cache
	cacheTTL time.Duration
}

// New constructs an Adapter with a shared HTTP client. cache may be nil.
func New(baseURL, appID, appKey, country string, cache Cache, cacheTTL time.Duration) *Adapter {
	if baseURL == "" {
		baseURL = "https://api.adzuna.com/v1/api/jobs"
	}
	if country == "" {
		country = "us"
	}
	return &Adapter{
		BaseURL:  baseURL,
		AppID:    appID,
		AppKey:   appKey,
		Country:  country,
		PageSize: defaultPageSize,
		MaxPages: defaultMaxPages,
		client:   &http.Client{Timeout: 15 * time.Second},
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

var _ source.Source = (*Adapter)(nil)

func (a *Adapter) Name() string { return job.SourceAggregator }

// apiResponse mirrors the top-level API JSON.
type apiResponse struct {
	Results []apiResult `json:"results"`
	Count   int         `json:"count"`
}

type apiResult struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Company     apiCompany  `json:"company"`
	Location    apiLocation `json:"location"`
	RedirectURL string      `json:"redirect_url"`
	Created     string      `json:"created"`
}

type apiCompany struct {
	DisplayName string `json:"display_name"`
}

type apiLocation struct {
	DisplayName string `json:"display_name"`
}

// FetchCandidates pages through the API until no more results or MaxPages.
// Rate-limit responses back off exponentially with a bounded retry budget.
// A failure after the first page returns what was already fetched with
// partial=true; a failure on page one is ErrSourceUnavailable.
func (a *Adapter) FetchCandidates(ctx context.Context, criteria job.Criteria) ([]job.Posting, bool, error) {
	if err := criteria.Validate(); err != nil {
		return nil, false, err
	}

	cacheKey := fmt.Sprintf("aggregator:%s:%s:%s", a.Country, criteria.Query(), criteria.Location)
	if a.cache != nil {
		if raw, ok := a.cache.Get(ctx, cacheKey); ok {
			var cached []job.Posting
			if err := json.Unmarshal(raw, &cached); err == nil {
				return cached, false, nil
			}
		}
	}

	pageSize := a.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	maxPages := a.MaxPages
	if maxPages <= 0 {
		maxPages = defaultMaxPages
	}

	var postings []job.Posting
	for page := 1; page <= maxPages; page++ {
		batch, err := a.fetchPageWithBackoff(ctx, criteria, page, pageSize)
		if err != nil {
			if len(postings) > 0 {
				// degraded but usable: some pages made it
				log.Printf("[aggregator] page %d failed, returning %d postings as partial: %v", page, len(postings), err)
				return postings, true, nil
			}
			return nil, false, fmt.Errorf("page %d: %v: %w", page, err, source.ErrSourceUnavailable)
		}
		postings = append(postings, batch...)
		if len(batch) < pageSize {
			break // last page
		}
	}

	if a.cache != nil && len(postings) > 0 {
		if raw, err := json.Marshal(postings); err == nil {
			a.cache.Set(ctx, cacheKey, raw, a.cacheTTL)
		}
	}
	return postings, false, nil
}

func (a *Adapter) fetchPageWithBackoff(ctx context.Context, criteria job.Criteria, page, pageSize int) ([]job.Posting, error) {
	var batch []job.Posting
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(backoffBase))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		b, status, err := a.fetchPage(ctx, criteria, page, pageSize)
		if err != nil {
			if status == http.StatusTooManyRequests {
				return retry.RetryableError(err)
			}
			return err
		}
		batch = b
		return nil
	})
	return batch, err
}

func (a *Adapter) fetchPage(ctx context.Context, criteria job.Criteria, page, pageSize int) ([]job.Posting, int, error) {
	endpoint := fmt.Sprintf("%s/%s/search/%d", a.BaseURL, a.Country, page)

	params := url.Values{}
	params.Set("app_id", a.AppID)
	params.Set("app_key", a.AppKey)
	params.Set("results_per_page", strconv.Itoa(pageSize))
	params.Set("what", criteria.Query())
	params.Set("where", criteria.Location)
	params.Set("content-type", "application/json")
	params.Set("sort_by", "date")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http GET: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, resp.StatusCode, fmt.Errorf("aggregator returned %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	var apiResp apiResponse
	if err := json.Unmarshal(body, &apiResp); err != nil {
		return nil, resp.StatusCode, fmt.Errorf("json unmarshal: %w", err)
	}

	postings := make([]job.Posting, 0, len(apiResp.Results))
	for _, r := range apiResp.Results {
		postings = append(postings, job.Posting{
			ID:          r.ID,
			Title:       r.Title,
			Company:     r.Company.DisplayName,
			Location:    r.Location.DisplayName,
			Description: r.Description,
			Source:      job.SourceAggregator,
			PostedAt:    parseCreated(r.Created),
			URL:         r.RedirectURL,
		})
	}
	return postings, resp.StatusCode, nil
}

func parseCreated(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
