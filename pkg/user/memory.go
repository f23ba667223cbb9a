package user

import (
	"context"
	"sync"
	"time"
)

// MemoryRepository is an in-process Repository for tests and DB-less runs.
type MemoryRepository struct {
	mu    sync.Mutex
	users map[string]User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]User)}
}

var _ Repository = (*MemoryRepository)(nil)

func (r *MemoryRepository) Upsert(_ context.Context, u User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.users[u.ID]; ok {
		// an upsert re-registers contact details; preferences only change
		// through UpdatePreference, matching the SQL ON CONFLICT clause
		if u.Email == "" {
			u.Email = existing.Email
		}
		u.Alert = existing.Alert
		u.LastAlertAt = existing.LastAlertAt
	} else {
		if u.Alert.Frequency == "" {
			u.Alert.Frequency = FrequencyWeekly
		}
		if u.Alert.Scope == "" {
			u.Alert.Scope = ScopeTop
		}
	}
	r.users[u.ID] = u
	return nil
}

func (r *MemoryRepository) GetByID(_ context.Context, id string) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return User{}, ErrNotFound
	}
	return u, nil
}

func (r *MemoryRepository) ListAlertEnabled(_ context.Context) ([]User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []User
	for _, u := range r.users {
		if u.Alert.Enabled {
			out = append(out, u)
		}
	}
	return out, nil
}

func (r *MemoryRepository) UpdatePreference(_ context.Context, id string, p AlertPreference) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Alert = p
	r.users[id] = u
	return nil
}

func (r *MemoryRepository) SetLastAlert(_ context.Context, id string, t time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.users[id]
	if !ok {
		return ErrNotFound
	}
	u.LastAlertAt = t
	r.users[id] = u
	return nil
}
