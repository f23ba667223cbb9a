package aggregator

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/source"
)

var testCriteria = job.Criteria{Skills: []string{"python"}, Location: "Berlin"}

func newTestAdapter(serverURL string) *Adapter {
	a := New(serverURL, "id", "key", "us", nil, 0)
	a.PageSize = 2
	a.MaxPages = 3
	return a
}

func pageResponse(ids ...string) apiResponse {
	var resp apiResponse
	for _, id := range ids {
		resp.Results = append(resp.Results, apiResult{
			ID:          id,
			Title:       "Python Developer",
			Description: "backend work",
			Company:     apiCompany{DisplayName: "Acme"},
			Location:    apiLocation{DisplayName: "Berlin"},
			RedirectURL: "https://example.com/" + id,
			Created:     "2026-05-01T00:00:00Z",
		})
	}
	resp.Count = len(resp.Results)
	return resp
}

func TestFetchCandidates_PaginatesUntilShortPage(t *testing.T) {
	var pages []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pages = append(pages, r.URL.Path)
		switch {
		case len(pages) == 1:
			json.NewEncoder(w).Encode(pageResponse("1", "2"))
		default:
			json.NewEncoder(w).Encode(pageResponse("3")) // short page ends pagination
		}
	}))
	defer srv.Close()

	postings, partial, err := newTestAdapter(srv.URL).FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("FetchCandidates returned error: %v", err)
	}
	if partial {
		t.Error("complete pagination should not be partial")
	}
	if len(postings) != 3 {
		t.Errorf("expected 3 postings across pages, got %d", len(postings))
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 page requests, got %d: %v", len(pages), pages)
	}
	if postings[0].Source != job.SourceAggregator {
		t.Errorf("postings should carry source %q, got %q", job.SourceAggregator, postings[0].Source)
	}
}

func TestFetchCandidates_RetriesOn429(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		json.NewEncoder(w).Encode(pageResponse("1"))
	}))
	defer srv.Close()

	postings, _, err := newTestAdapter(srv.URL).FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("expected retry to recover from a single 429, got %v", err)
	}
	if len(postings) != 1 {
		t.Errorf("expected 1 posting, got %d", len(postings))
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("expected 2 attempts, got %d", calls)
	}
}

func TestFetchCandidates_RateLimitExhaustion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, _, err := newTestAdapter(srv.URL).FetchCandidates(context.Background(), testCriteria)
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Errorf("exhausted retries should report ErrSourceUnavailable, got %v", err)
	}
}

func TestFetchCandidates_NonRetryableStatusFailsFast(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, _, err := newTestAdapter(srv.URL).FetchCandidates(context.Background(), testCriteria)
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("a 500 is not retryable, expected 1 attempt, got %d", calls)
	}
}

func TestFetchCandidates_MidPaginationFailureIsPartial(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			json.NewEncoder(w).Encode(pageResponse("1", "2")) // full page, keeps paginating
			return
		}
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	postings, partial, err := newTestAdapter(srv.URL).FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("page-2 failure should degrade, not fail: %v", err)
	}
	if !partial {
		t.Error("expected partial=true after a mid-pagination failure")
	}
	if len(postings) != 2 {
		t.Errorf("expected page-1 postings, got %d", len(postings))
	}
}

func TestFetchCandidates_EmptySkillsRejected(t *testing.T) {
	a := New("http://unused", "id", "key", "us", nil, 0)
	_, _, err := a.FetchCandidates(context.Background(), job.Criteria{})
	if !errors.Is(err, job.ErrNoSkills) {
		t.Errorf("expected ErrNoSkills, got %v", err)
	}
}

// memCache is a minimal in-process Cache for exercising the caching path.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(_ context.Context, key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.data == nil {
		m.data = map[string][]byte{}
	}
	m.data[key] = value
}

func TestFetchCandidates_SecondFetchServedFromCache(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		json.NewEncoder(w).Encode(pageResponse("1"))
	}))
	defer srv.Close()

	a := New(srv.URL, "id", "key", "us", &memCache{}, time.Minute)
	a.PageSize = 2

	for run := 0; run < 2; run++ {
		postings, _, err := a.FetchCandidates(context.Background(), testCriteria)
		if err != nil {
			t.Fatalf("run %d: %v", run, err)
		}
		if len(postings) != 1 {
			t.Fatalf("run %d: expected 1 posting, got %d", run, len(postings))
		}
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("second fetch should hit the cache, server saw %d calls", got)
	}
}

func TestParseCreated(t *testing.T) {
	cases := []struct {
		in   string
		zero bool
	}{
		{"2026-05-01T12:00:00Z", false},
		{"2026-05-01T12:00:00", false},
		{"2026-05-01", false},
		{"yesterday", true},
		{"", true},
	}
	for _, tc := range cases {
		got := parseCreated(tc.in)
		if got.IsZero() != tc.zero {
			t.Errorf("parseCreated(%q).IsZero() = %v, want %v", tc.in, got.IsZero(), tc.zero)
		}
	}
}
