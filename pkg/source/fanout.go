package source

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/resumatch/backend/pkg/job"
)

// Outcome is the merged result of one fan-out fetch.
type Outcome struct {
	Postings []job.Posting
	// Partial is true when at least one source failed or returned a
	// degraded result, so the caller can flag the response instead of
	// presenting it as complete.
	Partial bool
	// Errors records per-source failures by source name. Entries here are
	// informational; they were already absorbed into Partial.
	Errors map[string]error
}

// Fetcher fans one search out to every configured source concurrently, each
// under its own timeout, and merges whatever subset succeeded. It is the
// only place adapter results meet; adapters share no state with each other.
type Fetcher struct {
	sources []Source
	timeout time.Duration
}

// NewFetcher builds a Fetcher. timeout is the hard per-source budget.
func NewFetcher(timeout time.Duration, sources ...Source) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{sources: sources, timeout: timeout}
}

// Fetch queries every source. It returns an error only when all sources
// failed, and then exactly one aggregate ErrSourceUnavailable; any single
// failure degrades the outcome to Partial instead.
func (f *Fetcher) Fetch(ctx context.Context, criteria job.Criteria) (Outcome, error) {
	if err := criteria.Validate(); err != nil {
		return Outcome{}, err
	}
	if len(f.sources) == 0 {
		return Outcome{}, fmt.Errorf("no sources configured: %w", ErrSourceUnavailable)
	}

	type result struct {
		name     string
		postings []job.Posting
		partial  bool
		err      error
	}

	results := make([]result, len(f.sources))
	var wg sync.WaitGroup
	for i, src := range f.sources {
		wg.Add(1)
		go func(i int, src Source) {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			postings, partial, err := src.FetchCandidates(fctx, criteria)
			results[i] = result{name: src.Name(), postings: postings, partial: partial, err: err}
		}(i, src)
	}
	wg.Wait()

	out := Outcome{Errors: map[string]error{}}
	failed := 0
	for _, r := range results {
		if r.err != nil {
			log.Printf("[source] %s failed: %v", r.name, r.err)
			out.Errors[r.name] = r.err
			out.Partial = true
			failed++
			continue
		}
		if r.partial {
			out.Partial = true
		}
		out.Postings = append(out.Postings, r.postings...)
	}

	if failed == len(f.sources) {
		return out, fmt.Errorf("all %d job sources failed: %w", failed, ErrSourceUnavailable)
	}
	return out, nil
}
