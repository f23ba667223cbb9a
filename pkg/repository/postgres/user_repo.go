package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/resumatch/backend/pkg/user"
)

// UserRepository implements user.Repository backed by PostgreSQL (pgx).
type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) (*UserRepository, error) {
	repo := &UserRepository{pool: pool}
	if err := repo.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return repo, nil
}

var _ user.Repository = (*UserRepository)(nil)

func (r *UserRepository) ensureSchema(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS alert_users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL,
			alerts_enabled BOOLEAN NOT NULL DEFAULT FALSE,
			frequency TEXT NOT NULL DEFAULT 'weekly',
			scope TEXT NOT NULL DEFAULT 'top',
			last_alert_at TIMESTAMPTZ,
			updated_at TIMESTAMPTZ NOT NULL
		);
	`)
	return err
}

func (r *UserRepository) Upsert(ctx context.Context, u user.User) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO alert_users (id, email, alerts_enabled, frequency, scope, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE alert_users.email END,
			updated_at = EXCLUDED.updated_at
	`, u.ID, strings.ToLower(u.Email), u.Alert.Enabled, defaultStr(u.Alert.Frequency, user.FrequencyWeekly),
		defaultStr(u.Alert.Scope, user.ScopeTop), time.Now().UTC())
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT id, email, alerts_enabled, frequency, scope, last_alert_at
		FROM alert_users WHERE id = $1
	`, id)
	var (
		u    user.User
		last *time.Time
	)
	if err := row.Scan(&u.ID, &u.Email, &u.Alert.Enabled, &u.Alert.Frequency, &u.Alert.Scope, &last); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	if last != nil {
		u.LastAlertAt = last.UTC()
	}
	return u, nil
}

func (r *UserRepository) ListAlertEnabled(ctx context.Context) ([]user.User, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, email, alerts_enabled, frequency, scope, last_alert_at
		FROM alert_users WHERE alerts_enabled = TRUE
		ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []user.User
	for rows.Next() {
		var (
			u    user.User
			last *time.Time
		)
		if err := rows.Scan(&u.ID, &u.Email, &u.Alert.Enabled, &u.Alert.Frequency, &u.Alert.Scope, &last); err != nil {
			return nil, err
		}
		if last != nil {
			u.LastAlertAt = last.UTC()
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *UserRepository) UpdatePreference(ctx context.Context, id string, p user.AlertPreference) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE alert_users
		SET alerts_enabled = $2, frequency = $3, scope = $4, updated_at = $5
		WHERE id = $1
	`, id, p.Enabled, p.Frequency, p.Scope, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func (r *UserRepository) SetLastAlert(ctx context.Context, id string, t time.Time) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE alert_users SET last_alert_at = $2, updated_at = $2 WHERE id = $1
	`, id, t.UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return user.ErrNotFound
	}
	return nil
}

func defaultStr(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
