package match

import (
	"fmt"
	"sort"

	"github.com/resumatch/backend/pkg/nlp"
	"github.com/resumatch/backend/pkg/resume"
)

const (
	suggestionTopN    = 5
	minSummaryChars   = 120
	minSkillCount     = 5
	maxMissingSkills  = 3
	minSkillFrequency = 2
)

// Suggest derives resume-quality hints from the profile and the ranked
// results. It only reads the results, so suggestion wording can change
// without affecting scores or order.
func Suggest(profile resume.Profile, ranked []Result) []string {
	var out []string

	for _, m := range missingSkills(profile, ranked) {
		out = append(out, fmt.Sprintf(
			"Consider adding %q to your resume — it appears in %d of your top matches.",
			m.skill, m.count))
	}

	if len(profile.Skills) < minSkillCount {
		out = append(out, "Your resume lists few recognizable skills. Spell out tools and technologies explicitly.")
	}
	if len(profile.Sections.Summary) < minSummaryChars {
		out = append(out, "Your summary section is short. Two or three sentences about your focus help matching.")
	}
	if profile.Sections.Experience == "" {
		out = append(out, "No experience section was detected. Use a clear \"Experience\" heading.")
	}
	if profile.Sections.Education == "" {
		out = append(out, "No education section was detected. Use a clear \"Education\" heading.")
	}

	if out == nil {
		out = []string{}
	}
	return out
}

type missingSkill struct {
	skill string
	count int
}

// missingSkills counts dictionary skills requested by the top-N postings
// that the profile does not already have.
func missingSkills(profile resume.Profile, ranked []Result) []missingSkill {
	have := map[string]struct{}{}
	for _, s := range profile.Skills {
		have[nlp.CanonicalSkill(s)] = struct{}{}
	}

	n := len(ranked)
	if n > suggestionTopN {
		n = suggestionTopN
	}
	counts := map[string]int{}
	for _, r := range ranked[:n] {
		text := nlp.Normalize(r.Posting.Title + " " + r.Posting.Description)
		for _, skill := range nlp.KnownSkills() {
			if _, ok := have[skill]; ok {
				continue
			}
			if nlp.SkillInText(text, skill) {
				counts[skill]++
			}
		}
	}

	out := make([]missingSkill, 0, len(counts))
	for s, c := range counts {
		if c >= minSkillFrequency {
			out = append(out, missingSkill{skill: s, count: c})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].count != out[j].count {
			return out[i].count > out[j].count
		}
		return out[i].skill < out[j].skill
	})
	if len(out) > maxMissingSkills {
		out = out[:maxMissingSkills]
	}
	return out
}
