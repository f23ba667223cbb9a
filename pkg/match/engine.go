// Package match turns a parsed resume and a set of postings from any number
// of sources into one ranked, source-comparable result set.
package match

import (
	"log"
	"sort"

	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/nlp"
	"github.com/resumatch/backend/pkg/resume"
)

// Result is one scored posting. Score is always on the same 0-100 scale
// regardless of which source the posting came from.
type Result struct {
	Posting      job.Posting `json:"posting"`
	Score        float64     `json:"score"`
	MatchedSkill string      `json:"matched_skill,omitempty"`
	Rank         int         `json:"rank"`
}

// Weights of the two scoring terms. Skill overlap dominates; the semantic
// term separates postings with equal overlap.
const (
	skillWeight    = 0.7
	semanticWeight = 0.3
	titleHitWeight = 2.0
	bodyHitWeight  = 1.0
)

// Engine computes scores and rankings. The zero value is not usable; call
// NewEngine.
type Engine struct {
	similarity Similarity
}

// NewEngine builds an Engine. A nil similarity falls back to TokenJaccard.
func NewEngine(similarity Similarity) *Engine {
	if similarity == nil {
		similarity = TokenJaccard
	}
	return &Engine{similarity: similarity}
}

// Score ranks postings against the profile and derives resume-quality
// suggestions. Postings scoring zero are excluded from the ranked set but
// still counted for coverage. Re-scoring identical inputs yields identical
// output, including tie-break order.
func (e *Engine) Score(profile resume.Profile, postings []job.Posting) ([]Result, []string) {
	results := make([]Result, 0, len(postings))
	zero := 0
	for _, p := range postings {
		r := e.scoreOne(profile, p)
		if r.Score <= 0 {
			zero++
			continue
		}
		results = append(results, r)
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		if !a.Posting.PostedAt.Equal(b.Posting.PostedAt) {
			return a.Posting.PostedAt.After(b.Posting.PostedAt)
		}
		// fixed source order for determinism, not a value judgment
		return sourcePriority(a.Posting.Source) < sourcePriority(b.Posting.Source)
	})
	for i := range results {
		results[i].Rank = i + 1
	}

	if zero > 0 {
		log.Printf("[match] scored %d postings: %d ranked, %d below threshold", len(postings), len(results), zero)
	}

	return results, Suggest(profile, results)
}

func (e *Engine) scoreOne(profile resume.Profile, p job.Posting) Result {
	normTitle := nlp.Normalize(p.Title)
	normBody := nlp.Normalize(p.Description + " " + p.Company)

	var got, total float64
	matched := ""
	for _, skill := range profile.Skills {
		total += titleHitWeight
		switch {
		case nlp.SkillInText(normTitle, skill):
			got += titleHitWeight
			if matched == "" {
				matched = skill
			}
		case nlp.SkillInText(normBody, skill):
			got += bodyHitWeight
			if matched == "" {
				matched = skill
			}
		}
	}
	skillScore := 0.0
	if total > 0 {
		skillScore = got / total
	}

	summary := profile.Sections.Summary
	if summary == "" {
		summary = profile.RawText
	}
	semScore := e.similarity(summary, p.Description)

	raw := (skillWeight*skillScore + semanticWeight*semScore) * 100
	return Result{Posting: p, Score: round1(clamp(raw, 0, 100)), MatchedSkill: matched}
}

func sourcePriority(src string) int {
	switch src {
	case job.SourceAggregator:
		return 0
	case job.SourceSession:
		return 1
	default:
		return 2
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}
