package match

import (
	"strings"
	"testing"

	"github.com/resumatch/backend/pkg/job"
	"github.com/resumatch/backend/pkg/resume"
)

func TestSuggest_MissingSkills(t *testing.T) {
	profile := resume.Profile{
		RawText: "python developer",
		Skills:  []string{"python"},
	}
	// docker shows up in two top postings but not in the profile
	ranked := []Result{
		{Posting: job.Posting{Title: "Python Developer", Description: "python and docker"}, Score: 90},
		{Posting: job.Posting{Title: "Backend Engineer", Description: "docker deployments"}, Score: 80},
	}
	got := Suggest(profile, ranked)
	found := false
	for _, s := range got {
		if strings.Contains(s, "docker") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a docker suggestion, got %v", got)
	}
}

func TestSuggest_SkillAlreadyPresentNotSuggested(t *testing.T) {
	profile := resume.Profile{
		RawText: "python developer",
		Skills:  []string{"python"},
	}
	ranked := []Result{
		{Posting: job.Posting{Title: "Python Developer", Description: "python everywhere"}, Score: 90},
		{Posting: job.Posting{Title: "Python Engineer", Description: "more python"}, Score: 80},
	}
	for _, s := range Suggest(profile, ranked) {
		if strings.Contains(s, `"python"`) {
			t.Errorf("python is already on the profile, should not be suggested: %q", s)
		}
	}
}

func TestSuggest_StructuralHints(t *testing.T) {
	profile := resume.Profile{
		RawText: "short",
		Skills:  []string{"python"},
	}
	got := Suggest(profile, nil)

	wantFragments := []string{
		"few recognizable skills",
		"summary section is short",
		"experience section",
		"education section",
	}
	for _, frag := range wantFragments {
		found := false
		for _, s := range got {
			if strings.Contains(strings.ToLower(s), frag) {
				found = true
			}
		}
		if !found {
			t.Errorf("expected a suggestion containing %q, got %v", frag, got)
		}
	}
}

func TestSuggest_CompleteProfileGetsNoStructuralHints(t *testing.T) {
	profile := resume.Profile{
		RawText: "long resume",
		Skills:  []string{"python", "sql", "docker", "kubernetes", "go"},
		Sections: resume.Sections{
			Summary:    strings.Repeat("Seasoned backend engineer shipping services. ", 4),
			Experience: "Built many systems with python sql docker",
			Education:  "BSc Computer Science",
		},
	}
	got := Suggest(profile, nil)
	if len(got) != 0 {
		t.Errorf("expected no suggestions for a complete profile, got %v", got)
	}
}

func TestSuggest_NeverNil(t *testing.T) {
	if got := Suggest(resume.Profile{Skills: []string{"a", "b", "c", "d", "e"}, Sections: resume.Sections{
		Summary:    strings.Repeat("x", 200),
		Experience: "work",
		Education:  "school",
	}}, nil); got == nil {
		t.Error("Suggest must return an empty slice, not nil")
	}
}
