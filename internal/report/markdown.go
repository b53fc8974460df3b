package report

import (
	"bytes"
	"fmt"
	"text/template"
)

type markdownRenderer struct{}

var mdTemplate = template.Must(template.New("report").Parse(`# Guide Report

**Verdict:** {{ .Summary.Verdict }}
**Mean score:** {{ printf "%.2f" .Summary.MeanScore }}
**Events scored:** {{ len .Scored }}
{{ if .Summary.CategoryCounts }}
| Category | Count |
|---|---|
{{ range $cat, $n := .Summary.CategoryCounts }}| {{ $cat }} | {{ $n }} |
{{ end }}{{ end }}{{ if .Scored }}
---

## Scored Activity
{{ range .Scored }}
### {{ .Timestamp.Format "2006-01-02 15:04" }} · {{ .Verdict.Category }} · {{ printf "%+d" .Verdict.Score }}
{{ .Activity }}

> {{ .Verdict.Reason }}
{{ end }}{{ end }}{{ if .Notices }}
---

## Notices
{{ range .Notices }}
**{{ .Title }}** ({{ .Kind }})

{{ .Message }}
{{ end }}{{ end }}{{ if .Findings }}
---

## Findings
{{ range .Findings }}
- {{ .Timestamp.Format "15:04" }} {{ .Kind }}: {{ .Details }}
{{ end }}{{ end }}
---
*Model: {{ .Meta.Model }} | Temperature: {{ .Meta.Temperature }}*
`))

func (r *markdownRenderer) Render(report *Report) ([]byte, error) {
	var buf bytes.Buffer
	if err := mdTemplate.Execute(&buf, report); err != nil {
		return nil, fmt.Errorf("rendering markdown: %w", err)
	}
	return buf.Bytes(), nil
}
