package jobs

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"
)

const JobEvaluationReminders = "evaluation_reminders"

const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)

// RunFunc performs one job run and returns details worth keeping.
type RunFunc func(context.Context) (any, error)

// RunLog persists the outcome of each job run.
type RunLog interface {
	Start(ctx context.Context, jobType string) (string, error)
	Finish(ctx context.Context, runID, status string, details []byte) error
}

type Service struct {
	runs  RunLog
	queue chan job
}

type job struct {
	Type string
	Run  RunFunc
}

func New(runs RunLog) *Service {
	return &Service{
		runs:  runs,
		queue: make(chan job, 128),
	}
}

// Start launches the worker. It stops when ctx is cancelled.
func (s *Service) Start(ctx context.Context) {
	go s.worker(ctx)
}

// Schedule enqueues run every interval until ctx is cancelled.
func (s *Service) Schedule(ctx context.Context, jobType string, interval time.Duration, run RunFunc) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Enqueue(jobType, run)
			}
		}
	}()
}

// Enqueue drops the job when the queue is full.
func (s *Service) Enqueue(jobType string, run RunFunc) bool {
	select {
	case s.queue <- job{Type: jobType, Run: run}:
		return true
	default:
		slog.Warn("job queue full", "jobType", jobType)
		return false
	}
}

func (s *Service) RunNow(ctx context.Context, jobType string, run RunFunc) (any, error) {
	return s.runJob(ctx, job{Type: jobType, Run: run})
}

func (s *Service) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case j := <-s.queue:
			if _, err := s.runJob(ctx, j); err != nil {
				slog.Warn("job run failed", "jobType", j.Type, "err", err)
			}
		}
	}
}

func (s *Service) runJob(ctx context.Context, j job) (any, error) {
	runID := ""
	if s.runs != nil {
		id, err := s.runs.Start(ctx, j.Type)
		if err != nil {
			slog.Warn("job run insert failed", "jobType", j.Type, "err", err)
		}
		runID = id
	}

	started := time.Now()
	details, err := j.Run(ctx)
	status := StatusCompleted
	if err != nil {
		status = StatusFailed
	}
	slog.Info("job run finished", "jobType", j.Type, "status", status, "duration", time.Since(started))

	detailsJSON, marshalErr := json.Marshal(details)
	if marshalErr != nil {
		slog.Warn("job details marshal failed", "err", marshalErr)
		detailsJSON = []byte("{}")
	}
	if runID != "" {
		if updErr := s.runs.Finish(ctx, runID, status, detailsJSON); updErr != nil {
			slog.Warn("job run update failed", "jobType", j.Type, "err", updErr)
		}
	}
	return details, err
}
