package match

import (
	"github.com/resumatch/backend/pkg/nlp"
	"github.com/resumatch/backend/pkg/resume"
)

// SectionScores rates each resume section 1-5 for the dashboard. The rating
// is a length-and-density heuristic, independent of any posting.
func SectionScores(profile resume.Profile) map[string]int {
	return map[string]int{
		"summary":    lengthScore(profile.Sections.Summary, 80, 400),
		"experience": experienceScore(profile),
		"education":  lengthScore(profile.Sections.Education, 40, 200),
	}
}

// lengthScore maps text length onto 1-5: empty is 1, short of lo caps at 2,
// past hi earns 5.
func lengthScore(text string, lo, hi int) int {
	n := len(text)
	switch {
	case n == 0:
		return 1
	case n < lo:
		return 2
	case n >= hi:
		return 5
	default:
		// linear between 3 and 4 across [lo, hi)
		if n >= lo+(hi-lo)/2 {
			return 4
		}
		return 3
	}
}

// experienceScore blends length with how many recognizable skills the
// experience section mentions.
func experienceScore(profile resume.Profile) int {
	base := lengthScore(profile.Sections.Experience, 120, 600)
	if base <= 1 {
		return base
	}
	skills := nlp.ExtractSkills(profile.Sections.Experience)
	if len(skills) >= 3 && base < 5 {
		base++
	}
	return base
}
