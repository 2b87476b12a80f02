package report

import "testing"

func TestReportAccumulates(t *testing.T) {
	r := New()
	if r.GeneratedAt.IsZero() {
		t.Fatalf("expected generated timestamp")
	}
	r.AddFinding("access key older than 90 days", map[string]any{"user": "alice"}, SeverityWarning)
	r.AddResource("iam/user/alice")
	r.SetSummary("staleKeyCount", 1)

	if len(r.Findings) != 1 || r.Findings[0].Severity != SeverityWarning {
		t.Fatalf("unexpected findings: %#v", r.Findings)
	}
	if len(r.ResourcesExamined) != 1 {
		t.Fatalf("unexpected resources: %#v", r.ResourcesExamined)
	}
	if r.Summary["staleKeyCount"] != 1 {
		t.Fatalf("unexpected summary: %#v", r.Summary)
	}
}

func TestRendererShape(t *testing.T) {
	r := New()
	r.AddFinding("bucket allows public access", nil, SeverityCritical)
	out := NewRenderer().Render(r)
	findings, ok := out["findings"].([]Finding)
	if !ok || len(findings) != 1 {
		t.Fatalf("unexpected rendered findings: %#v", out["findings"])
	}
	if out["generatedAt"] == nil {
		t.Fatalf("expected generatedAt in rendered output")
	}
}
