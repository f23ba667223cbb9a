package alert

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/resumatch/backend/pkg/match"
	"github.com/resumatch/backend/pkg/user"
)

// Both the scheduled batch and the on-demand test path render through this
// one template, so a test email is exactly what a scheduled one would be.
var digestTemplate = template.Must(template.New("digest").Parse(
	`Hi,

{{if .Matches}}We found {{len .Matches}} job match{{if gt (len .Matches) 1}}es{{end}} for your skills ({{.Skills}}):

{{range .Matches}}  • {{.Posting.Title}}{{if .Posting.Company}} at {{.Posting.Company}}{{end}}{{if .Posting.Location}} ({{.Posting.Location}}){{end}} — match {{printf "%.0f" .Score}}%
{{if .Posting.URL}}    {{.Posting.URL}}
{{end}}{{end}}
{{else}}No new matches above your threshold this time. We'll keep looking.
{{end}}
You are receiving this because job alerts are enabled on your account.
`))

// RenderDigest selects the matches for the user's scope, renders the email
// body and returns it together with the subject and the match count used.
func RenderDigest(u user.User, skills []string, ranked []match.Result, minScore float64) (subject, body string, count int, err error) {
	selected := selectForScope(u.Alert.Scope, ranked, minScore)

	subject = "Your job matches"
	if len(selected) == 1 {
		subject = fmt.Sprintf("Top job match: %s", selected[0].Posting.Title)
	} else if len(selected) > 1 {
		subject = fmt.Sprintf("%d job matches for you", len(selected))
	}

	var sb strings.Builder
	skillList := strings.Join(skills, ", ")
	if skillList == "" {
		skillList = "your saved search"
	}
	data := struct {
		Matches []match.Result
		Skills  string
	}{Matches: selected, Skills: skillList}
	if err = digestTemplate.Execute(&sb, data); err != nil {
		return "", "", 0, fmt.Errorf("render digest: %w", err)
	}
	return subject, sb.String(), len(selected), nil
}

func selectForScope(scope string, ranked []match.Result, minScore float64) []match.Result {
	if len(ranked) == 0 {
		return nil
	}
	if scope == user.ScopeTop {
		return ranked[:1]
	}
	var out []match.Result
	for _, r := range ranked {
		if r.Score >= minScore {
			out = append(out, r)
		}
	}
	return out
}
