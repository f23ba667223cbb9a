package match

import (
	"strings"
	"testing"

	"github.com/resumatch/backend/pkg/resume"
)

func TestSectionScores_EmptyProfile(t *testing.T) {
	scores := SectionScores(resume.Profile{})
	for _, name := range []string{"summary", "experience", "education"} {
		if scores[name] != 1 {
			t.Errorf("empty %s should score 1, got %d", name, scores[name])
		}
	}
}

func TestSectionScores_Bounds(t *testing.T) {
	profiles := []resume.Profile{
		{},
		{Sections: resume.Sections{Summary: "short"}},
		{Sections: resume.Sections{
			Summary:    strings.Repeat("a", 500),
			Experience: strings.Repeat("python sql docker ", 50),
			Education:  strings.Repeat("b", 300),
		}},
	}
	for i, p := range profiles {
		for name, score := range SectionScores(p) {
			if score < 1 || score > 5 {
				t.Errorf("profile %d: %s score %d out of [1,5]", i, name, score)
			}
		}
	}
}

func TestSectionScores_RicherSectionsScoreHigher(t *testing.T) {
	sparse := SectionScores(resume.Profile{Sections: resume.Sections{Summary: "hi"}})
	rich := SectionScores(resume.Profile{Sections: resume.Sections{
		Summary: strings.Repeat("Seasoned engineer with platform experience. ", 10),
	}})
	if rich["summary"] <= sparse["summary"] {
		t.Errorf("rich summary %d should outscore sparse summary %d", rich["summary"], sparse["summary"])
	}
}

func TestSectionScores_SkillDensityBoostsExperience(t *testing.T) {
	base := resume.Profile{Sections: resume.Sections{
		Experience: strings.Repeat("worked on several internal systems and tools ", 5),
	}}
	dense := resume.Profile{Sections: resume.Sections{
		Experience: strings.Repeat("worked with python sql docker on internal tools ", 5),
	}}
	if SectionScores(dense)["experience"] <= SectionScores(base)["experience"] {
		t.Error("experience mentioning several known skills should score higher")
	}
}
