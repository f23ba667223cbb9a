package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/resumatch/backend/api/http/presenter"
	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/match"
	"github.com/resumatch/backend/pkg/resume"
	"github.com/resumatch/backend/pkg/source"
)

type JobsHandler struct {
	session    source.Source
	aggregator source.Source
	engine     *match.Engine
	timeout    time.Duration
}

func NewJobsHandler(session, aggregator source.Source, engine *match.Engine, timeout time.Duration) *JobsHandler {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &JobsHandler{session: session, aggregator: aggregator, engine: engine, timeout: timeout}
}

type fetchLinkedInRequest struct {
	Skills   []string `json:"skills"`
	Location string   `json:"location"`
}

// FetchLinkedIn replays the captured session against the provider and scores
// the extracted cards against the submitted skill list. An expired session
// comes back as 200 + {"error": ...} naming the expiry so the operator knows
// to rotate the cookie.
// @Summary Fetch and score LinkedIn postings for a skill list
// @Tags    jobs
// @Accept  json
// @Produce json
// @Param   request body fetchLinkedInRequest true "Skills and optional location"
// @Security BearerAuth
// @Success 200 {object} map[string]any "Scored postings or an error key"
// @Router  /fetch-linkedin-jobs/ [post]
func (h *JobsHandler) FetchLinkedIn(c *fiber.Ctx) error {
	var req fetchLinkedInRequest
	if err := c.BodyParser(&req); err != nil {
		return presenter.SoftError(c, "invalid request body")
	}
	criteria := job.Criteria{Skills: req.Skills, Location: req.Location}
	if err := criteria.Validate(); err != nil {
		return presenter.SoftError(c, err.Error())
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()
	postings, _, err := h.session.FetchCandidates(ctx, criteria)
	if err != nil {
		if errors.Is(err, source.ErrSessionExpired) {
			return presenter.SoftError(c, "LinkedIn session expired: refresh the session cookie and try again")
		}
		return presenter.SoftError(c, fmt.Sprintf("failed to fetch LinkedIn jobs: %v", err))
	}

	// Score against a synthetic profile built from the submitted skills.
	profile := resume.Profile{RawText: strings.Join(req.Skills, " "), Skills: req.Skills}
	results, _ := h.engine.Score(profile, postings)

	linkedinJobs := make([]scoredJob, 0, len(results))
	for _, r := range results {
		linkedinJobs = append(linkedinJobs, scoredJob{Posting: r.Posting, Score: r.Score})
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"linkedin_jobs": linkedinJobs})
}

// FetchJobs serves an unauthenticated, unscored listing from the aggregator.
// @Summary List current postings from the aggregator API
// @Tags    jobs
// @Produce json
// @Param   skills query string false "Comma-separated search terms"
// @Param   location query string false "Location filter"
// @Success 200 {object} map[string]any
// @Failure 502 {object} presenter.ErrorResponse
// @Router  /fetch-jobs/ [get]
func (h *JobsHandler) FetchJobs(c *fiber.Ctx) error {
	criteria := job.Criteria{
		Skills:   splitTerms(c.Query("skills", "software developer")),
		Location: c.Query("location"),
	}

	ctx, cancel := contextWithTimeout(c, h.timeout)
	defer cancel()
	postings, _, err := h.aggregator.FetchCandidates(ctx, criteria)
	if err != nil {
		return presenter.Error(c, http.StatusBadGateway, fmt.Sprintf("failed to fetch jobs: %v", err))
	}
	return presenter.JSON(c, http.StatusOK, fiber.Map{"jobs": postings})
}

func contextWithTimeout(c *fiber.Ctx, d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.Context(), d)
}

func splitTerms(s string) []string {
	parts := strings.Split(s, ",")
	terms := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			terms = append(terms, p)
		}
	}
	return terms
}
