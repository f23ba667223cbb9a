package handlers

import (
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/resumatch/backend/api/http/presenter"
	"github.com/resumatch/backend/pkg/history"
	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/match"
	"github.com/resumatch/backend/pkg/resume"
	"github.com/resumatch/backend/pkg/source"
)

// mimeByExt maps upload extensions onto the parser's accepted types.
var mimeByExt = map[string]string{
	".pdf":  resume.MimePDF,
	".docx": resume.MimeDocx,
	".txt":  resume.MimeText,
}

type ResumeHandler struct {
	fetcher   *source.Fetcher
	engine    *match.Engine
	histories history.Store
	// Limit uploaded file size read into memory (bytes)
	maxBytes int64
}

func NewResumeHandler(fetcher *source.Fetcher, engine *match.Engine, histories history.Store) *ResumeHandler {
	return &ResumeHandler{fetcher: fetcher, engine: engine, histories: histories, maxBytes: 15 << 20} // 15MB
}

// matchEntry is the compact aggregator-side row of the upload response.
type matchEntry struct {
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

// scoredJob flattens a posting with its score for the linkedin_jobs list.
type scoredJob struct {
	job.Posting
	Score float64 `json:"score"`
}

// Upload parses an uploaded resume, fetches postings from every source and
// returns the ranked match report. Failures the caller can act on come back
// as 200 + {"error": ...}: the web client treats non-2xx as a transport
// fault and only reads the error key off success bodies.
// @Summary Upload a resume and get ranked job matches
// @Description Accepts a PDF, DOCX or TXT resume, extracts skills, fetches postings from all configured sources and scores them.
// @Tags    matching
// @Accept  multipart/form-data
// @Produce json
// @Param   file formData file true "Resume file (PDF, DOCX or TXT)"
// @Param   location formData string false "Preferred job location"
// @Security BearerAuth
// @Success 200 {object} map[string]any "Ranked matches, suggestions, skills and section scores, or an error key"
// @Router  /upload-resume/ [post]
func (h *ResumeHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil || fh == nil {
		return presenter.SoftError(c, "resume file is required (pdf, docx or txt)")
	}
	ext := strings.ToLower(filepath.Ext(fh.Filename))
	mimeType, ok := mimeByExt[ext]
	if !ok {
		return presenter.SoftError(c, "unsupported file format: only pdf, docx and txt are allowed")
	}
	file, err := fh.Open()
	if err != nil {
		return presenter.SoftError(c, "failed to open uploaded file")
	}
	defer file.Close()

	data, err := readAtMost(file, h.maxBytes)
	if err != nil {
		return presenter.SoftError(c, err.Error())
	}

	profile, err := resume.Parse(data, mimeType)
	if err != nil {
		return presenter.SoftError(c, fmt.Sprintf("failed to read resume: %v", err))
	}
	if len(profile.Skills) == 0 {
		return presenter.SoftError(c, "no recognizable skills found in resume")
	}

	criteria := job.Criteria{Skills: profile.Skills, Location: c.FormValue("location")}
	outcome, err := h.fetcher.Fetch(c.Context(), criteria)
	if err != nil {
		return presenter.SoftError(c, fmt.Sprintf("job sources unavailable: %v", err))
	}

	results, suggestions := h.engine.Score(profile, outcome.Postings)
	scores := match.SectionScores(profile)

	matches := make([]matchEntry, 0, len(results))
	linkedinJobs := make([]scoredJob, 0, len(results))
	for _, r := range results {
		if r.Posting.Source == job.SourceSession {
			linkedinJobs = append(linkedinJobs, scoredJob{Posting: r.Posting, Score: r.Score})
			continue
		}
		matches = append(matches, matchEntry{Title: r.Posting.Title, Score: r.Score})
	}

	if userID, _ := c.Locals("userId").(string); userID != "" {
		rec := history.SearchRecord{
			Skills:        profile.Skills,
			Matches:       results,
			SectionScores: scores,
			Suggestions:   suggestions,
		}
		// Losing a history row must not fail the match response.
		if err := h.histories.Append(c.Context(), userID, rec); err != nil {
			log.Printf("[resume] history append for %s: %v", userID, err)
		}
	}

	resp := fiber.Map{
		"matches":       matches,
		"linkedin_jobs": linkedinJobs,
		"suggestions":   suggestions,
		"skills":        profile.Skills,
		"scores":        scores,
	}
	if outcome.Partial {
		resp["partial"] = true
		warnings := make([]string, 0, len(outcome.Errors))
		for name, srcErr := range outcome.Errors {
			warnings = append(warnings, fmt.Sprintf("%s: %v", name, srcErr))
		}
		sort.Strings(warnings)
		resp["warnings"] = warnings
	}
	return presenter.JSON(c, http.StatusOK, resp)
}

func readAtMost(f multipart.File, max int64) ([]byte, error) {
	limited := io.LimitReader(f, max+1)
	b, err := io.ReadAll(limited)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if int64(len(b)) > max {
		return nil, fmt.Errorf("file too large: limit is %d bytes", max)
	}
	return b, nil
}
