// Package alert re-runs matching for opted-in users and emails the results,
// on a schedule or on demand. One recipient's failure never aborts a batch.
package alert

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/resumatch/backend/pkg/history"
	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/match"
	"github.com/resumatch/backend/pkg/resume"
	"github.com/resumatch/backend/pkg/source"
	"github.com/resumatch/backend/pkg/user"
)

// ErrAuthMismatch rejects a test send whose verified bearer identity does
// not control the requested user ID. Fatal to that request only.
var ErrAuthMismatch = errors.New("bearer identity does not match user_id")

// ErrNoHistory means the user never completed a search, so there is no
// skill snapshot to alert on.
var ErrNoHistory = errors.New("no search history for user")

// Dispatcher drives alert emails for both entry points.
type Dispatcher struct {
	users           user.Repository
	histories       history.Store
	fetcher         *source.Fetcher
	engine          *match.Engine
	mailer          Mailer
	workers         int
	minScore        float64
	defaultLocation string
	now             func() time.Time
}

func NewDispatcher(users user.Repository, histories history.Store, fetcher *source.Fetcher, engine *match.Engine, mailer Mailer, workers int, minScore float64, defaultLocation string) *Dispatcher {
	if workers <= 0 {
		workers = 4
	}
	return &Dispatcher{
		users:           users,
		histories:       histories,
		fetcher:         fetcher,
		engine:          engine,
		mailer:          mailer,
		workers:         workers,
		minScore:        minScore,
		defaultLocation: defaultLocation,
		now:             time.Now,
	}
}

// RunDue processes every opted-in user whose cadence is due, with a fixed
// worker pool so the email provider is never hit by an unbounded burst.
// Cross-user ordering is not guaranteed and not needed. Per-user failures
// are logged and absorbed.
func (d *Dispatcher) RunDue(ctx context.Context) {
	users, err := d.users.ListAlertEnabled(ctx)
	if err != nil {
		log.Printf("[alert] list subscribers: %v", err)
		return
	}

	now := d.now().UTC()
	queue := make(chan user.User)
	var wg sync.WaitGroup
	var sent, failed int
	var mu sync.Mutex

	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for u := range queue {
				if err := d.dispatchUser(ctx, u); err != nil {
					log.Printf("[alert] user %s: %v", u.ID, err)
					mu.Lock()
					failed++
					mu.Unlock()
					continue
				}
				mu.Lock()
				sent++
				mu.Unlock()
			}
		}()
	}

	queued := 0
	for _, u := range users {
		if !cadenceDue(u, now) {
			continue
		}
		select {
		case queue <- u:
			queued++
		case <-ctx.Done():
		}
		if ctx.Err() != nil {
			break
		}
	}
	close(queue)
	wg.Wait()

	log.Printf("[alert] batch done: %d due, %d sent, %d failed", queued, sent, failed)
}

// SendTest runs the same render/send pipeline synchronously for a single
// verified user and returns the number of matches the email was built from,
// so the caller can tell live data from a canned response.
func (d *Dispatcher) SendTest(ctx context.Context, callerID, userID, email string) (int, error) {
	if callerID == "" || callerID != userID {
		return 0, ErrAuthMismatch
	}
	// record the email implicitly so a first-time tester becomes known
	if err := d.users.Upsert(ctx, user.User{ID: userID, Email: email}); err != nil {
		return 0, fmt.Errorf("upsert user: %w", err)
	}
	u, err := d.users.GetByID(ctx, userID)
	if err != nil {
		return 0, err
	}
	if email != "" {
		u.Email = email
	}
	return d.send(ctx, u)
}

// dispatchUser handles one scheduled recipient end to end.
func (d *Dispatcher) dispatchUser(ctx context.Context, u user.User) error {
	count, err := d.send(ctx, u)
	if err != nil {
		return err
	}
	if err := d.users.SetLastAlert(ctx, u.ID, d.now().UTC()); err != nil {
		log.Printf("[alert] record last alert for %s: %v", u.ID, err)
	}
	log.Printf("[alert] sent %d matches to %s", count, u.ID)
	return nil
}

func (d *Dispatcher) send(ctx context.Context, u user.User) (int, error) {
	skills, err := d.lastSkills(ctx, u.ID)
	if errors.Is(err, ErrNoHistory) {
		// still worth an email: confirms the pipeline works end to end
		subject := "Your job alerts are set up"
		body := "You have no saved searches yet. Run a resume match and we will start sending matching jobs."
		if err := d.mailer.Send(ctx, u.Email, subject, body); err != nil {
			return 0, err
		}
		return 0, nil
	}
	if err != nil {
		return 0, err
	}

	outcome, err := d.fetcher.Fetch(ctx, job.Criteria{Skills: skills, Location: d.defaultLocation})
	if err != nil {
		return 0, fmt.Errorf("fetch postings: %w", err)
	}

	profile := resume.Profile{Skills: skills}
	ranked, _ := d.engine.Score(profile, outcome.Postings)

	subject, body, count, err := RenderDigest(u, skills, ranked, d.minScore)
	if err != nil {
		return 0, err
	}
	if err := d.mailer.Send(ctx, u.Email, subject, body); err != nil {
		var de *DeliveryError
		if errors.As(err, &de) {
			return 0, err
		}
		return 0, &DeliveryError{Recipient: u.Email, Err: err}
	}
	return count, nil
}

// lastSkills returns the skill snapshot of the user's most recent search.
func (d *Dispatcher) lastSkills(ctx context.Context, userID string) ([]string, error) {
	records, err := d.histories.Read(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrNoHistory
	}
	return records[len(records)-1].Skills, nil
}

// cadenceDue reports whether enough time since the last alert has passed
// for the user's chosen frequency. A user who never got one is due.
func cadenceDue(u user.User, now time.Time) bool {
	if u.LastAlertAt.IsZero() {
		return true
	}
	var interval time.Duration
	switch u.Alert.Frequency {
	case user.FrequencyMonthly:
		interval = 30 * 24 * time.Hour
	default: // weekly
		interval = 7 * 24 * time.Hour
	}
	return now.Sub(u.LastAlertAt) >= interval
}
