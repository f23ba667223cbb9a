package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumatch/backend/pkg/history"
	"github.com/resumatch/backend/pkg/match"
)

// HistoryRepository implements history.Store backed by PostgreSQL (pgx).
// Each record is one row with JSONB payloads, so an append is atomic by
// construction: the row is there in full or not at all.
type HistoryRepository struct {
	pool *pgxpool.Pool
}

func NewHistoryRepository(pool *pgxpool.Pool) (*HistoryRepository, error) {
	r := &HistoryRepository{pool: pool}
	if err := r.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return r, nil
}

var _ history.Store = (*HistoryRepository)(nil)

func (r *HistoryRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
CREATE TABLE IF NOT EXISTS search_records (
	id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	position BIGINT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	skills JSONB NOT NULL,
	matches JSONB NOT NULL,
	section_scores JSONB NOT NULL,
	suggestions JSONB NOT NULL,
	UNIQUE (user_id, position)
);
CREATE INDEX IF NOT EXISTS idx_search_records_user ON search_records (user_id, position);
`)
	return err
}

// Append inserts the record at the next position for the user. A per-user
// advisory lock serializes racing appends: the loser waits and lands at the
// following position instead of colliding or being dropped.
func (r *HistoryRepository) Append(ctx context.Context, userID string, rec history.SearchRecord) error {
	rec = history.Normalize(rec)

	skills, matches, scores, suggestions, err := marshalRecord(rec)
	if err != nil {
		return err
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, userID); err != nil {
		return fmt.Errorf("acquire user lock: %w", err)
	}

	_, err = tx.Exec(ctx, `
INSERT INTO search_records (id, user_id, position, created_at, skills, matches, section_scores, suggestions)
SELECT $1, $2, COALESCE(MAX(position), 0) + 1, $3, $4, $5, $6, $7
FROM search_records WHERE user_id = $2
`, rec.ID, userID, rec.Timestamp, skills, matches, scores, suggestions)
	if err != nil {
		return fmt.Errorf("insert search record: %w", err)
	}
	return tx.Commit(ctx)
}

// Read returns the user's full history in append order.
func (r *HistoryRepository) Read(ctx context.Context, userID string) ([]history.SearchRecord, error) {
	rows, err := r.pool.Query(ctx, `
SELECT id, created_at, skills, matches, section_scores, suggestions
FROM search_records
WHERE user_id = $1
ORDER BY position ASC
`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []history.SearchRecord
	for rows.Next() {
		var (
			rec       history.SearchRecord
			id        uuid.UUID
			created   time.Time
			rawSkills []byte
			rawMatch  []byte
			rawScores []byte
			rawSugg   []byte
		)
		if err := rows.Scan(&id, &created, &rawSkills, &rawMatch, &rawScores, &rawSugg); err != nil {
			return nil, err
		}
		rec.ID = id
		rec.Timestamp = created.UTC()
		if err := json.Unmarshal(rawSkills, &rec.Skills); err != nil {
			return nil, fmt.Errorf("decode skills: %w", err)
		}
		if err := json.Unmarshal(rawMatch, &rec.Matches); err != nil {
			return nil, fmt.Errorf("decode matches: %w", err)
		}
		if err := json.Unmarshal(rawScores, &rec.SectionScores); err != nil {
			return nil, fmt.Errorf("decode section scores: %w", err)
		}
		if err := json.Unmarshal(rawSugg, &rec.Suggestions); err != nil {
			return nil, fmt.Errorf("decode suggestions: %w", err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func marshalRecord(rec history.SearchRecord) (skills, matches, scores, suggestions []byte, err error) {
	if rec.Skills == nil {
		rec.Skills = []string{}
	}
	if rec.Matches == nil {
		rec.Matches = []match.Result{}
	}
	if rec.SectionScores == nil {
		rec.SectionScores = map[string]int{}
	}
	if rec.Suggestions == nil {
		rec.Suggestions = []string{}
	}
	if skills, err = json.Marshal(rec.Skills); err != nil {
		return
	}
	if matches, err = json.Marshal(rec.Matches); err != nil {
		return
	}
	if scores, err = json.Marshal(rec.SectionScores); err != nil {
		return
	}
	suggestions, err = json.Marshal(rec.Suggestions)
	return
}
