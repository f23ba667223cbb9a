package resume

import "strings"

// Heading keywords that open a named section. Matching is case-insensitive
// and only fires on short lines, so a sentence mentioning "experience" does
// not start a new section.
var sectionHeadings = map[string][]string{
	"summary":    {"summary", "objective", "profile", "about me", "about"},
	"experience": {"experience", "work experience", "employment", "work history", "professional experience"},
	"education":  {"education", "academic", "academics", "qualifications"},
}

const maxHeadingLen = 40

// splitSections assigns each line of the resume to the section whose heading
// most recently preceded it. Text before the first recognized heading counts
// as summary, which matches how most resumes open.
func splitSections(text string) Sections {
	var out Sections
	current := "summary"
	var bufs = map[string]*strings.Builder{
		"summary":    {},
		"experience": {},
		"education":  {},
	}

	for _, line := range strings.Split(text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if name, ok := headingFor(trimmed); ok {
			current = name
			continue
		}
		b := bufs[current]
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(trimmed)
	}

	out.Summary = bufs["summary"].String()
	out.Experience = bufs["experience"].String()
	out.Education = bufs["education"].String()
	return out
}

func headingFor(line string) (string, bool) {
	if len(line) > maxHeadingLen {
		return "", false
	}
	lower := strings.ToLower(strings.TrimRight(line, ":"))
	for name, keys := range sectionHeadings {
		for _, k := range keys {
			if lower == k || strings.HasPrefix(lower, k+" ") {
				return name, true
			}
		}
	}
	return "", false
}
