package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
)

const yamlFixture = `
tasks:
  - id: t-1
    title: Quarterly targets
    assignee: u-1
    assignee_obj:
      id: u-1
      role: employee
      manager_id: u-2
      evaluation_config:
        is_dual_evaluation: true
        superior_evaluator_id: u-2
        tm_evaluator_id: u-3
    evaluations:
      - evaluation_type: SELF
        evaluator: {id: u-1}
        score: 8
  - id: t-2
    title: Onboarding plan
    assignee: u-1
    assignee_obj:
      id: u-1
      role: employee
      manager_id: u-2
    evaluations: []
  - id: t-3
    title: Unassigned backlog
    assignee: ""
    evaluations: []
`

const jsonFixture = `[
  {"id": 42, "title": "Numeric id", "assignee": 7,
   "assignee_obj": {"id": 7, "role": "manager"},
   "evaluations": [
     {"evaluation_type": "SELF", "evaluator": {"id": 7}, "score": "9"},
     {"evaluation_type": "SUPERIOR", "evaluator": {"id": 1}, "score": 85},
     {"evaluation_type": "PEER", "evaluator": {"id": 2}, "score": 3}
   ]}
]`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	color.NoColor = true
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestDashboardFromYAML(t *testing.T) {
	path := writeFixture(t, "tasks.yaml", yamlFixture)
	out, err := run(t, "dashboard", "--file", path, "--viewer", "u-2", "--role", "manager")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	start := strings.Index(out, "pendingForMyEvaluation")
	end := strings.Index(out, "needsSelfEvaluation")
	if start < 0 || end < start {
		t.Fatalf("queues missing or out of order:\n%s", out)
	}
	section := out[start:end]
	if !strings.Contains(section, "Quarterly targets") || !strings.Contains(out, "Superior evaluate") {
		t.Fatalf("expected t-1 pending for the superior evaluator:\n%s", out)
	}
	if strings.Contains(out, "Unassigned backlog") {
		t.Fatalf("unassigned task must not be categorized:\n%s", out)
	}
}

func TestDashboardJSONOutput(t *testing.T) {
	path := writeFixture(t, "tasks.yaml", yamlFixture)
	out, err := run(t, "dashboard", "--file", path, "--viewer", "u-1", "--json")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if !strings.Contains(out, `"needsSelfEvaluation"`) || !strings.Contains(out, "Onboarding plan") {
		t.Fatalf("unexpected json output:\n%s", out)
	}
}

func TestStatusFromJSON(t *testing.T) {
	path := writeFixture(t, "tasks.json", jsonFixture)
	out, err := run(t, "status", "--file", path, "--task", "42")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "chain: single") || !strings.Contains(out, "complete") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
	if strings.Contains(out, "PEER") {
		t.Fatalf("unknown evaluation types should be dropped:\n%s", out)
	}
}

func TestStatusMissingTask(t *testing.T) {
	path := writeFixture(t, "tasks.yaml", yamlFixture)
	if _, err := run(t, "status", "--file", path, "--task", "nope"); err == nil {
		t.Fatalf("expected error for unknown task")
	}
}

func TestStatusShowsNextStage(t *testing.T) {
	path := writeFixture(t, "tasks.yml", yamlFixture)
	out, err := run(t, "status", "--file", path, "--task", "t-1")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !strings.Contains(out, "chain: dual") || !strings.Contains(out, "next: SUPERIOR") {
		t.Fatalf("unexpected status output:\n%s", out)
	}
}

func TestBand(t *testing.T) {
	out, err := run(t, "band", "9", "--scale", "self")
	if err != nil {
		t.Fatalf("band: %v", err)
	}
	if !strings.Contains(out, "Excellent") {
		t.Fatalf("expected excellent band, got %q", out)
	}

	if _, err := run(t, "band", "abc"); err == nil {
		t.Fatalf("expected error for non-numeric score")
	}
}

func TestBandRejectsNonFiniteScores(t *testing.T) {
	for _, raw := range []string{"NaN", "Inf", "+Inf"} {
		out, err := run(t, "band", raw)
		if err == nil {
			t.Fatalf("band %s: expected error, got output %q", raw, out)
		}
		if strings.Contains(out, "Excellent") {
			t.Fatalf("band %s classified as excellent: %q", raw, out)
		}
	}
}
