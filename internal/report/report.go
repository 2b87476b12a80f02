package report

import "time"

// Report is the shaped output of audit-style tools: stale credentials,
// public buckets, deprecated runtimes, and similar account hygiene scans.
type Report struct {
	Findings          []Finding      `json:"findings"`
	Summary           map[string]any `json:"summary,omitempty"`
	ResourcesExamined []string       `json:"resourcesExamined,omitempty"`
	GeneratedAt       time.Time      `json:"generatedAt"`
}

type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

type Finding struct {
	Summary  string   `json:"summary"`
	Details  any      `json:"details,omitempty"`
	Severity Severity `json:"severity,omitempty"`
}

type Renderer interface {
	Render(report Report) map[string]any
}

type JSONRenderer struct{}

func NewRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

func (r *JSONRenderer) Render(report Report) map[string]any {
	return map[string]any{
		"findings":          report.Findings,
		"summary":           report.Summary,
		"resourcesExamined": report.ResourcesExamined,
		"generatedAt":       report.GeneratedAt,
	}
}

func New() Report {
	return Report{GeneratedAt: time.Now()}
}

func (r *Report) AddFinding(summary string, details any, severity Severity) {
	r.Findings = append(r.Findings, Finding{Summary: summary, Details: details, Severity: severity})
}

func (r *Report) AddResource(ref string) {
	r.ResourcesExamined = append(r.ResourcesExamined, ref)
}

func (r *Report) SetSummary(key string, value any) {
	if r.Summary == nil {
		r.Summary = map[string]any{}
	}
	r.Summary[key] = value
}
