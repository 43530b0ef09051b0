package journal

import (
	"bytes"
	"os"
	"text/template"
	"time"
)

var orgFuncs = template.FuncMap{
	"short": shortID,
	"orTime": func(t time.Time) time.Time {
		if t.IsZero() {
			return time.Now()
		}
		return t
	},
}

// RunOrgTemplate renders a run and the last value of each indicator as an
// Org-mode block.
const RunOrgTemplate = `* RUN: {{.Run.Series}} {{if .Run.Timeframe}}{{.Run.Timeframe}}{{else}}(timeframe?){{end}} ({{short .Run.ID}})
:PROPERTIES:
:RUN_ID:     {{.Run.ID}}
:SERIES:     {{.Run.Series}}
:BACKEND:    {{.Run.Backend}}
:TIMEFRAME:  {{.Run.Timeframe}}
:PERIOD:     {{.Run.Period}}
:BARS:       {{.Run.Bars}}
:CREATED:    [{{(orTime .Run.Created).Format "2006-01-02 Mon 15:04"}}]
:END:

** Indicators
| Indicator | Index | Value |
|-----------+-------+-------|
{{- range .Last}}
| {{.Indicator}} | {{.Index}} | {{.Value}} |
{{- end}}

{{- if .Run.Notes}}

** Notes
{{- range .Run.Notes}}
- {{.}}
{{- end}}
{{- end}}
`

var runOrg = template.Must(template.New("run").Funcs(orgFuncs).Parse(RunOrgTemplate))

// FormatRunOrg renders r with the given closing values.
func FormatRunOrg(r Run, last []ValueRecord) (string, error) {
	var buf bytes.Buffer
	err := runOrg.Execute(&buf, struct {
		Run  Run
		Last []ValueRecord
	}{r, last})
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}

// WriteRunOrg writes FormatRunOrg output to path.
func WriteRunOrg(path string, r Run, last []ValueRecord) error {
	s, err := FormatRunOrg(r, last)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(s), 0o644)
}

func shortID(full string) string {
	if len(full) <= 8 {
		return full
	}
	return full[:8]
}
