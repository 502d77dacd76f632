package evaluation

import (
	"context"
	"fmt"
	"log/slog"

	"kpiboard/internal/domain/auth"
	"kpiboard/internal/domain/notifications"
)

// systemViewer lists every task regardless of ownership.
var systemViewer = Viewer{Role: auth.RoleAdmin}

type ReminderResult struct {
	Scanned  int `json:"scanned"`
	Reminded int `json:"reminded"`
	Failed   int `json:"failed"`
}

// RemindPending nudges the owner of every open stage: the assignee while the
// self-evaluation is missing, then the known superior or top-management
// evaluator. Stages owned by a role rather than a person are skipped.
func (s *Service) RemindPending(ctx context.Context) (ReminderResult, error) {
	var res ReminderResult
	if s.notify == nil {
		return res, nil
	}
	tasks, err := s.store.ListTasks(ctx, TaskFilter{Viewer: systemViewer})
	if err != nil {
		return res, err
	}
	for i := range tasks {
		task := &tasks[i]
		if task.Assignee == "" {
			continue
		}
		res.Scanned++

		stage, recipient := nextEvaluator(task)
		if stage == TypeSelf {
			recipient = task.Assignee
		}
		if stage == "" || recipient == "" {
			continue
		}
		title := fmt.Sprintf("Reminder: %s evaluation", stageLabel(stage))
		body := fmt.Sprintf("Task %q is still waiting for your %s evaluation.", task.Title, stageLabel(stage))
		if err := s.notify.Create(ctx, string(recipient), notifications.TypeEvaluationReminder, title, body); err != nil {
			slog.Warn("evaluation reminder failed", "taskId", task.ID, "err", err)
			res.Failed++
			continue
		}
		res.Reminded++
	}
	return res, nil
}
