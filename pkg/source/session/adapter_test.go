package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/source"
)

var testCriteria = job.Criteria{Skills: []string{"python"}, Location: "Berlin"}

func testCreds() source.CredentialStore {
	return source.StaticCredentialStore{"linkedin": "session-cookie"}
}

func card(title, company, location, href, datetime string) string {
	var sb strings.Builder
	sb.WriteString("<li>")
	if href != "" {
		fmt.Fprintf(&sb, `<a class="base-card__full-link" href=%q>view</a>`, href)
	}
	if title != "" {
		fmt.Fprintf(&sb, `<h3 class="base-search-card__title">%s</h3>`, title)
	}
	if company != "" {
		fmt.Fprintf(&sb, `<h4 class="base-search-card__subtitle">%s</h4>`, company)
	}
	if location != "" {
		fmt.Fprintf(&sb, `<span class="job-search-card__location">%s</span>`, location)
	}
	if datetime != "" {
		fmt.Fprintf(&sb, `<time datetime=%q>recently</time>`, datetime)
	}
	sb.WriteString("</li>")
	return sb.String()
}

func resultsPage(authenticated bool, cards ...string) string {
	var sb strings.Builder
	sb.WriteString("<html><body>")
	if authenticated {
		sb.WriteString(`<nav><div class="global-nav__me">me</div></nav>`)
	} else {
		sb.WriteString(`<nav></nav>`)
	}
	sb.WriteString(`<ul class="jobs-search__results-list">`)
	for _, c := range cards {
		sb.WriteString(c)
	}
	sb.WriteString("</ul></body></html>")
	return sb.String()
}

func serve(t *testing.T, handler http.HandlerFunc) *Adapter {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return New(srv.URL, "linkedin", "li_at", testCreds())
}

func TestFetchCandidates_ExtractsCards(t *testing.T) {
	var gotCookie string
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if c, err := r.Cookie("li_at"); err == nil {
			gotCookie = c.Value
		}
		fmt.Fprint(w, resultsPage(true,
			card("Python Developer", "Acme", "Berlin", "https://example.com/jobs/1", "2026-05-01"),
			card("Data Engineer", "Globex", "Remote", "https://example.com/jobs/2", ""),
		))
	})

	postings, partial, err := a.FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("FetchCandidates returned error: %v", err)
	}
	if partial {
		t.Error("full page should not be partial")
	}
	if gotCookie != "session-cookie" {
		t.Errorf("request cookie = %q, want the stored credential", gotCookie)
	}
	if len(postings) != 2 {
		t.Fatalf("expected 2 postings, got %d", len(postings))
	}
	p := postings[0]
	if p.Title != "Python Developer" || p.Company != "Acme" || p.Location != "Berlin" {
		t.Errorf("unexpected extraction: %+v", p)
	}
	if p.URL != "https://example.com/jobs/1" || p.ID != p.URL {
		t.Errorf("URL/ID extraction wrong: url=%q id=%q", p.URL, p.ID)
	}
	if p.PostedAt.IsZero() {
		t.Error("datetime attribute should populate PostedAt")
	}
	if p.Source != job.SourceSession {
		t.Errorf("source = %q, want %q", p.Source, job.SourceSession)
	}
	if !postings[1].PostedAt.IsZero() {
		t.Error("card without datetime should leave PostedAt zero")
	}
}

func TestFetchCandidates_MissingFieldsDegradeToEmpty(t *testing.T) {
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPage(true,
			card("Title Only", "", "", "", ""),
		))
	})
	postings, _, err := a.FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("FetchCandidates returned error: %v", err)
	}
	if len(postings) != 1 {
		t.Fatalf("expected 1 posting, got %d", len(postings))
	}
	p := postings[0]
	if p.Company != "" || p.Location != "" || p.URL != "" {
		t.Errorf("missing fields should be empty, got %+v", p)
	}
	if p.ID != "Title Only|" {
		t.Errorf("linkless posting ID = %q, want title|company fallback", p.ID)
	}
}

func TestFetchCandidates_SkipsMarkupNoise(t *testing.T) {
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPage(true,
			"<li><div>promoted banner</div></li>",
			card("Real Job", "Acme", "", "https://example.com/jobs/9", ""),
		))
	})
	postings, _, err := a.FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("FetchCandidates returned error: %v", err)
	}
	if len(postings) != 1 || postings[0].Title != "Real Job" {
		t.Errorf("cards with neither title nor link should be skipped, got %v", postings)
	}
}

func TestFetchCandidates_MissingAuthMarkerMeansExpired(t *testing.T) {
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		// a page that renders fine but without the signed-in chrome
		fmt.Fprint(w, resultsPage(false,
			card("Ghost Job", "Acme", "", "https://example.com/jobs/1", ""),
		))
	})
	_, _, err := a.FetchCandidates(context.Background(), testCriteria)
	if !errors.Is(err, source.ErrSessionExpired) {
		t.Errorf("logged-out page must report ErrSessionExpired, got %v", err)
	}
}

func TestFetchCandidates_ForbiddenMeansExpired(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		a := serve(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		})
		_, _, err := a.FetchCandidates(context.Background(), testCriteria)
		if !errors.Is(err, source.ErrSessionExpired) {
			t.Errorf("status %d should report ErrSessionExpired, got %v", status, err)
		}
	}
}

func TestFetchCandidates_LoginRedirectMeansExpired(t *testing.T) {
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		if !strings.Contains(r.URL.Path, "login") {
			http.Redirect(w, r, "/uas/login", http.StatusFound)
			return
		}
	})
	_, _, err := a.FetchCandidates(context.Background(), testCriteria)
	if !errors.Is(err, source.ErrSessionExpired) {
		t.Errorf("login redirect should report ErrSessionExpired, got %v", err)
	}
}

func TestFetchCandidates_MissingCredential(t *testing.T) {
	a := New("http://unused", "linkedin", "li_at", source.StaticCredentialStore{})
	_, _, err := a.FetchCandidates(context.Background(), testCriteria)
	if !errors.Is(err, source.ErrSessionExpired) {
		t.Errorf("missing credential should report ErrSessionExpired, got %v", err)
	}
}

func TestFetchCandidates_ServerErrorIsUnavailable(t *testing.T) {
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	_, _, err := a.FetchCandidates(context.Background(), testCriteria)
	if !errors.Is(err, source.ErrSourceUnavailable) {
		t.Errorf("expected ErrSourceUnavailable, got %v", err)
	}
	if errors.Is(err, source.ErrSessionExpired) {
		t.Error("a 500 is not a session problem")
	}
}

func TestFetchCandidates_TruncatesAtMaxResults(t *testing.T) {
	cards := make([]string, 0, 5)
	for i := 0; i < 5; i++ {
		cards = append(cards, card(fmt.Sprintf("Job %d", i), "Acme", "", fmt.Sprintf("https://example.com/jobs/%d", i), ""))
	}
	a := serve(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, resultsPage(true, cards...))
	})
	a.MaxResults = 3

	postings, partial, err := a.FetchCandidates(context.Background(), testCriteria)
	if err != nil {
		t.Fatalf("FetchCandidates returned error: %v", err)
	}
	if len(postings) != 3 {
		t.Errorf("expected MaxResults postings, got %d", len(postings))
	}
	if !partial {
		t.Error("truncated result should be flagged partial")
	}
}

func TestFetchCandidates_EmptySkillsRejected(t *testing.T) {
	a := New("http://unused", "linkedin", "li_at", testCreds())
	_, _, err := a.FetchCandidates(context.Background(), job.Criteria{})
	if !errors.Is(err, job.ErrNoSkills) {
		t.Errorf("expected ErrNoSkills, got %v", err)
	}
}
