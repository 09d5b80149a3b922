package pagination

import (
	"bytes"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

const reminderText = `

PAGINATION REMINDER:
- Current page: {{ .CurrentPage }} of {{ .LastPage }}
- Results on this page: {{ .ItemsOnThisPage }}
- Total results available: {{ .Total }}
- Results per page: {{ .PerPage }}
{{- if .HasMore }}
{{- if .PagesLeft }}
- MORE PAGES AVAILABLE! There are {{ .PagesLeft }} more page(s).
- Remaining pages: {{ .RemainingPages | join ", " }}{{ if .Truncated }}, ... through {{ .LastPage }}{{ end }}
- To get all results, you MUST fetch pages {{ .NextPage }} through {{ .LastPage }} using the 'page' parameter.
- Or follow 'links.next' if it is present in the response.
{{- else }}
- MORE RESULTS AVAILABLE! The response has a 'links.next' URL; fetch page {{ .NextPage }} or follow that link.
{{- end }}
{{- else }}
- This is the last page (no more results).
{{- end }}
{{- if and (eq .CurrentPage 1) (gt .LastPage 1) }}

CRITICAL: You are only seeing page 1 of {{ .LastPage }}. There are {{ .Total }} total results but only {{ .ItemsOnThisPage }} on this page.
Call this tool again with page=2, then page=3, and so on up to page={{ .LastPage }}, and combine the results.
{{- else if and (eq .CurrentPage 1) (gt .Total .ItemsOnThisPage) }}

CRITICAL: There are {{ .Total }} total results but only {{ .ItemsOnThisPage }} on this page. Check 'links.next' or increment 'page' until no more results are returned.
{{- end }}`

var reminderTemplate = template.Must(template.New("reminder").Funcs(sprig.TxtFuncMap()).Parse(reminderText))

// Reminder renders the verdict as text to append to a tool result.
func (v Verdict) Reminder() string {
	var buf bytes.Buffer
	if err := reminderTemplate.Execute(&buf, v); err != nil {
		return ""
	}
	return buf.String()
}
