// Package history keeps the immutable per-user record of completed
// searches. Records are appended, read back in insertion order, and never
// edited or truncated by this core; display-side windowing is a
// presentation concern.
package history

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/resumatch/backend/pkg/match"
)

// SearchRecord snapshots one completed search: the skills used, the ranked
// matches, the section ratings and the suggestions shown to the user.
type SearchRecord struct {
	ID            uuid.UUID      `json:"id"`
	Timestamp     time.Time      `json:"timestamp"`
	Skills        []string       `json:"skills"`
	Matches       []match.Result `json:"matches"`
	SectionScores map[string]int `json:"scores"`
	Suggestions   []string       `json:"suggestions"`
}

// Store is the append-only history port.
//
// Append is all-or-nothing: a record is either fully persisted or not
// persisted at all. Concurrent appends for one user are serialized: racing
// writes both land, ordered, never silently dropped. A user's history
// container comes into existence on first append.
type Store interface {
	Append(ctx context.Context, userID string, rec SearchRecord) error
	Read(ctx context.Context, userID string) ([]SearchRecord, error)
}

// Normalize fills defaults and enforces the score-descending invariant on
// the match list before a record is persisted. Store implementations call
// it at the top of Append.
func Normalize(rec SearchRecord) SearchRecord {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now().UTC()
	}
	sort.SliceStable(rec.Matches, func(i, j int) bool {
		return rec.Matches[i].Score > rec.Matches[j].Score
	})
	return rec
}
