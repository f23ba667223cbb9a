// Package user holds the alert-subscriber record. User identity itself is
// owned by an external identity provider; this core only keys data by the
// verified subject ID it receives.
package user

import (
	"context"
	"errors"
	"time"
)

// Alert cadence values.
const (
	FrequencyWeekly  = "weekly"
	FrequencyMonthly = "monthly"
)

// Alert scope values: email the single best match or all above threshold.
const (
	ScopeTop = "top"
	ScopeAll = "all"
)

// AlertPreference is the mutable opt-in record for alert emails.
type AlertPreference struct {
	Enabled   bool   `json:"enabled"`
	Frequency string `json:"frequency"`
	Scope     string `json:"scope"`
}

// Valid checks frequency and scope against the known values.
func (p AlertPreference) Valid() bool {
	okFreq := p.Frequency == FrequencyWeekly || p.Frequency == FrequencyMonthly
	okScope := p.Scope == ScopeTop || p.Scope == ScopeAll
	return okFreq && okScope
}

// User is one alert subscriber. ID is the external identity subject.
type User struct {
	ID          string          `json:"id"`
	Email       string          `json:"email"`
	Alert       AlertPreference `json:"alert"`
	LastAlertAt time.Time       `json:"lastAlertAt"`
}

var ErrNotFound = errors.New("user not found")

// Repository persists subscribers. Upsert creates the record implicitly on
// first contact; the search history itself lives in the history store.
type Repository interface {
	Upsert(ctx context.Context, u User) error
	GetByID(ctx context.Context, id string) (User, error)
	ListAlertEnabled(ctx context.Context) ([]User, error)
	UpdatePreference(ctx context.Context, id string, p AlertPreference) error
	SetLastAlert(ctx context.Context, id string, t time.Time) error
}
