package nlp

import "strings"

// skillAliases maps a canonical skill name to the normalized spellings that
// count as the same skill. The canonical name is what extraction returns.
// Intentionally a flat table; extend as needed.
var skillAliases = map[string][]string{
	"python":           {"python"},
	"java":             {"java"},
	"javascript":       {"javascript", "js"},
	"typescript":       {"typescript", "ts"},
	"go":               {"go", "golang"},
	"c++":              {"c++", "cpp"},
	"c#":               {"c#", "csharp"},
	"ruby":             {"ruby"},
	"php":              {"php"},
	"swift":            {"swift"},
	"kotlin":           {"kotlin"},
	"rust":             {"rust"},
	"scala":            {"scala"},
	"sql":              {"sql"},
	"mysql":            {"mysql"},
	"postgresql":       {"postgresql", "postgres"},
	"mongodb":          {"mongodb", "mongo"},
	"redis":            {"redis"},
	"elasticsearch":    {"elasticsearch"},
	"html":             {"html", "html5"},
	"css":              {"css", "css3"},
	"react":            {"react", "reactjs", "react js"},
	"angular":          {"angular", "angularjs"},
	"vue":              {"vue", "vuejs", "vue js"},
	"node":             {"node", "nodejs", "node js"},
	"django":           {"django"},
	"flask":            {"flask"},
	"spring":           {"spring", "spring boot"},
	"fastapi":          {"fastapi"},
	"rails":            {"rails", "ruby on rails"},
	"express":          {"express", "expressjs"},
	"aws":              {"aws", "amazon web services"},
	"azure":            {"azure"},
	"gcp":              {"gcp", "google cloud"},
	"docker":           {"docker"},
	"kubernetes":       {"kubernetes", "k8s"},
	"terraform":        {"terraform"},
	"jenkins":          {"jenkins"},
	"git":              {"git", "github", "gitlab"},
	"ci/cd":            {"ci cd", "cicd"},
	"linux":            {"linux", "unix"},
	"rest api":         {"rest api", "rest", "restful"},
	"graphql":          {"graphql"},
	"grpc":             {"grpc"},
	"kafka":            {"kafka"},
	"rabbitmq":         {"rabbitmq"},
	"machine learning": {"machine learning", "ml"},
	"deep learning":    {"deep learning"},
	"nlp":              {"nlp", "natural language processing"},
	"data analysis":    {"data analysis", "data analytics"},
	"pandas":           {"pandas"},
	"numpy":            {"numpy"},
	"tensorflow":       {"tensorflow"},
	"pytorch":          {"pytorch"},
	"scikit-learn":     {"scikit learn", "sklearn"},
	"tableau":          {"tableau"},
	"power bi":         {"power bi", "powerbi"},
	"excel":            {"excel"},
	"spark":            {"spark", "pyspark"},
	"hadoop":           {"hadoop"},
	"selenium":         {"selenium"},
	"jira":             {"jira"},
	"agile":            {"agile", "scrum"},
	"project management": {"project management"},
	"communication":   {"communication", "communication skills"},
	"leadership":      {"leadership"},
	"problem solving": {"problem solving"},
	"teamwork":        {"teamwork", "team work"},
	"testing":         {"testing", "unit testing", "qa"},
	"microservices":   {"microservices", "micro services"},
	"security":        {"security", "cybersecurity"},
	"networking":      {"networking"},
	"android":         {"android"},
	"ios":             {"ios"},
	"flutter":         {"flutter"},
	"react native":    {"react native"},
	"figma":           {"figma"},
	"photoshop":       {"photoshop"},
	"ui/ux":           {"ui ux", "ui", "ux"},
	"seo":             {"seo"},
	"salesforce":      {"salesforce"},
	"sap":             {"sap"},
	"marketing":       {"marketing", "digital marketing"},
	"sales":           {"sales"},
	"accounting":      {"accounting"},
	"finance":         {"finance", "financial analysis"},
}

// ExtractSkills scans normalized text for known skills and returns canonical
// names ordered by first occurrence, deduplicated. Re-running on the same
// text always yields the same list.
func ExtractSkills(text string) []string {
	norm := Normalize(text)
	if norm == "" {
		return []string{}
	}

	type hit struct {
		skill string
		pos   int
	}
	var hits []hit
	for canonical, aliases := range skillAliases {
		best := -1
		for _, a := range aliases {
			if i := PhraseIndex(norm, a); i >= 0 && (best < 0 || i < best) {
				best = i
			}
		}
		if best >= 0 {
			hits = append(hits, hit{skill: canonical, pos: best})
		}
	}

	// order by position of first occurrence; canonical name breaks the tie
	// so iteration order over the alias map can never leak into the result
	for i := 1; i < len(hits); i++ {
		for j := i; j > 0; j-- {
			a, b := hits[j-1], hits[j]
			if b.pos < a.pos || (b.pos == a.pos && b.skill < a.skill) {
				hits[j-1], hits[j] = b, a
			} else {
				break
			}
		}
	}

	out := make([]string, 0, len(hits))
	for _, h := range hits {
		out = append(out, h.skill)
	}
	return out
}

// KnownSkills returns every canonical skill in the dictionary.
func KnownSkills() []string {
	out := make([]string, 0, len(skillAliases))
	for s := range skillAliases {
		out = append(out, s)
	}
	return out
}

// CanonicalSkill normalizes a user-supplied skill and maps alias spellings
// back to the canonical dictionary name. Unknown skills pass through
// normalized so matching still works on them.
func CanonicalSkill(skill string) string {
	norm := Normalize(skill)
	if norm == "" {
		return ""
	}
	for canonical, aliases := range skillAliases {
		for _, a := range aliases {
			if norm == a {
				return canonical
			}
		}
	}
	return norm
}

// SkillVariants returns the normalized spellings that should match a skill
// in free text, the skill itself included.
func SkillVariants(skill string) []string {
	canonical := CanonicalSkill(skill)
	if canonical == "" {
		return []string{}
	}
	if aliases, ok := skillAliases[canonical]; ok {
		out := make([]string, 0, len(aliases)+1)
		seen := map[string]struct{}{}
		for _, a := range append([]string{canonical}, aliases...) {
			a = Normalize(a)
			if a == "" {
				continue
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			out = append(out, a)
		}
		return out
	}
	return []string{canonical}
}

// SkillInText reports whether any variant of the skill occurs in the
// normalized text as whole words.
func SkillInText(normalizedText, skill string) bool {
	for _, v := range SkillVariants(skill) {
		if ContainsPhrase(normalizedText, v) {
			return true
		}
	}
	return false
}

// NormalizeSkillList lower-cases, trims and deduplicates a skill list while
// preserving first-occurrence order.
func NormalizeSkillList(skills []string) []string {
	out := make([]string, 0, len(skills))
	seen := map[string]struct{}{}
	for _, s := range skills {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" {
			continue
		}
		if _, dup := seen[s]; dup {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
