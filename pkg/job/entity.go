package job

import (
	"errors"
	"strings"
	"time"
)

// Source names carried on every posting. Used for ranking tie-breaks and for
// splitting results per source in the HTTP layer.
const (
	SourceAggregator = "aggregator"
	SourceSession    = "session"
)

// Posting is a job offer fetched from an external source. Postings are never
// mutated locally; scoring annotates copies.
type Posting struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"`
	Description string    `json:"description"`
	Source      string    `json:"source"`
	PostedAt    time.Time `json:"posted_date"`
	URL         string    `json:"link"`
}

// Criteria is the search input handed to every job source.
type Criteria struct {
	Skills   []string `json:"skills"`
	Location string   `json:"location"`
}

// ErrNoSkills rejects a fetch with an empty skill set.
var ErrNoSkills = errors.New("at least one skill is required")

// Validate checks the criteria before any source is contacted.
func (c Criteria) Validate() error {
	for _, s := range c.Skills {
		if strings.TrimSpace(s) != "" {
			return nil
		}
	}
	return ErrNoSkills
}

// Query joins the skills into a single search phrase for keyword-based APIs.
func (c Criteria) Query() string {
	parts := make([]string, 0, len(c.Skills))
	for _, s := range c.Skills {
		if s = strings.TrimSpace(s); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}
