package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type runEntry struct {
	jobType string
	status  string
	details string
}

type memRunLog struct {
	mu      sync.Mutex
	entries map[string]*runEntry
	order   []string
	done    chan string
}

func newMemRunLog() *memRunLog {
	return &memRunLog{entries: map[string]*runEntry{}, done: make(chan string, 8)}
}

func (l *memRunLog) Start(_ context.Context, jobType string) (string, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	id := jobType + "-" + string(rune('a'+len(l.order)))
	l.entries[id] = &runEntry{jobType: jobType, status: StatusRunning}
	l.order = append(l.order, id)
	return id, nil
}

func (l *memRunLog) Finish(_ context.Context, runID, status string, details []byte) error {
	l.mu.Lock()
	l.entries[runID].status = status
	l.entries[runID].details = string(details)
	l.mu.Unlock()
	l.done <- runID
	return nil
}

func (l *memRunLog) get(id string) runEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return *l.entries[id]
}

func TestRunNowRecordsOutcome(t *testing.T) {
	runs := newMemRunLog()
	svc := New(runs)

	details, err := svc.RunNow(context.Background(), JobEvaluationReminders, func(context.Context) (any, error) {
		return map[string]int{"reminded": 2}, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if details.(map[string]int)["reminded"] != 2 {
		t.Fatalf("unexpected details %v", details)
	}
	got := runs.get(runs.order[0])
	if got.status != StatusCompleted || got.details != `{"reminded":2}` {
		t.Fatalf("unexpected run entry %+v", got)
	}

	_, err = svc.RunNow(context.Background(), JobEvaluationReminders, func(context.Context) (any, error) {
		return nil, errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if got := runs.get(runs.order[1]); got.status != StatusFailed || got.details != "null" {
		t.Fatalf("unexpected failed entry %+v", got)
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	runs := newMemRunLog()
	svc := New(runs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)

	if !svc.Enqueue(JobEvaluationReminders, func(context.Context) (any, error) { return "ok", nil }) {
		t.Fatalf("enqueue rejected")
	}
	select {
	case id := <-runs.done:
		if got := runs.get(id); got.status != StatusCompleted {
			t.Fatalf("unexpected status %q", got.status)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("job did not run")
	}
}

func TestEnqueueDropsWhenFull(t *testing.T) {
	svc := New(nil)
	noop := func(context.Context) (any, error) { return nil, nil }
	for i := 0; i < cap(svc.queue); i++ {
		if !svc.Enqueue("fill", noop) {
			t.Fatalf("enqueue %d rejected early", i)
		}
	}
	if svc.Enqueue("overflow", noop) {
		t.Fatalf("expected full queue to reject")
	}
}

func TestScheduleRuns(t *testing.T) {
	runs := newMemRunLog()
	svc := New(runs)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc.Start(ctx)
	svc.Schedule(ctx, JobEvaluationReminders, 10*time.Millisecond, func(context.Context) (any, error) { return nil, nil })

	select {
	case <-runs.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("scheduled job did not run")
	}
}
