package terminal

import (
	"fmt"
	"io"
	"os"
	"text/template"

	"github.com/cloudforge/stack-advisor/pkg/models/api"
)

// Reporter prints an optimization outcome in a formatted text form
type Reporter struct {
	writer io.Writer
}

func NewReporter(writer io.Writer) *Reporter {
	if writer == nil {
		writer = os.Stdout
	}
	return &Reporter{writer: writer}
}

func (c *Reporter) Handle(status api.StatusResponse) error {
	tmpl := `
Request {{.ID}}: {{.Status}}
{{- if .Error}}
Error: {{.Error}}
{{- end}}
{{- with .Result}}

{{if .Feasible}}Feasible within budget{{else}}NOT feasible within budget{{end}} (region {{.Region}})
Monthly total: {{usd .TotalCost}} of {{usd .Budget}} budget ({{printf "%.1f" .BudgetUtilization}}% used)
Savings: {{usd .Savings}}
{{- if .MinimumBudget}}
Minimum viable budget: {{usd (deref .MinimumBudget)}}
{{- end}}

Selected services:
{{- range .Selections}}
- {{.ServiceKind}} {{.OptionID}} x{{.Quantity}}: {{if .TotalMonthlyCost}}{{usd (deref .TotalMonthlyCost)}}/mo{{else}}price unavailable{{end}}{{if .Rationale}} ({{.Rationale}}){{end}}
{{- end}}

Cost breakdown:
{{- range $bucket, $cost := .CostBreakdown}}
- {{$bucket}}: {{usd $cost.Monthly}}/mo ({{usd $cost.Yearly}}/yr, {{printf "%.1f" $cost.Share}}%)
{{- end}}
{{- if .Message}}

{{.Message}}
{{- end}}
{{- end}}
`
	t, err := template.New("report").Funcs(template.FuncMap{
		"usd":   func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"deref": func(p *float64) float64 { return *p },
	}).Parse(tmpl)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	return t.Execute(c.writer, status)
}
