package source

import (
	"context"
	"errors"

	"github.com/resumatch/backend/pkg/job"
)

// Source is the capability interface every job board adapter implements.
//
// partial=true flags a degraded-but-usable result (for example only some
// pages were fetched). Callers must treat it as a success with reduced
// coverage, never as a failure.
type Source interface {
	Name() string
	FetchCandidates(ctx context.Context, criteria job.Criteria) (postings []job.Posting, partial bool, err error)
}

var (
	// ErrSourceUnavailable means one source is down after retries. Non-fatal
	// while any other source still answers.
	ErrSourceUnavailable = errors.New("job source unavailable")
	// ErrSessionExpired means the captured session credential is stale. It
	// is surfaced distinctly so an operator can rotate the credential; a
	// fetch must never report it as zero results.
	ErrSessionExpired = errors.New("session credential expired")
)
