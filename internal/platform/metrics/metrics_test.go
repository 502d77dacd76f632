package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCollectorCounts(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := New(reg)

	c.Record("/api/v1/evaluations/dashboard", "GET", 200, 15*time.Millisecond)
	c.Record("", "GET", 404, time.Millisecond)
	c.EvaluationSubmitted("SELF", "ok")
	c.EvaluationSubmitted("SELF", "ok")
	c.DashboardBuilt(map[string]int{"needsSelfEvaluation": 3})

	if got := testutil.ToFloat64(c.requests.WithLabelValues("unmatched", "GET", "404")); got != 1 {
		t.Fatalf("expected 1 unmatched request, got %v", got)
	}
	if got := testutil.ToFloat64(c.submissions.WithLabelValues("SELF", "ok")); got != 2 {
		t.Fatalf("expected 2 submissions, got %v", got)
	}
	if got := testutil.ToFloat64(c.queueSize.WithLabelValues("needsSelfEvaluation")); got != 3 {
		t.Fatalf("expected queue size 3, got %v", got)
	}
}
