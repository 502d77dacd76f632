package evaluation

import "kpiboard/internal/domain/auth"

// IsPendingFor decides whether viewer is the authorized next evaluator of
// the task. It is the backend's source for a task's isPendingForMe flag.
// The assignee's own self-evaluation is never "pending for me".
func IsPendingFor(task *Task, viewer Viewer) bool {
	if task == nil || task.Assignee == "" || viewer.ID == "" || viewer.IsAssignee(task) {
		return false
	}
	status := ResolveStatus(task)
	switch NextStage(status, task) {
	case TypeSuperior:
		return canEvaluateSuperior(task, viewer)
	case TypeTopManagement:
		return canEvaluateTop(task, viewer)
	}
	return false
}

// StageFor returns the evaluation type viewer may write next on the task,
// or "" when the viewer has nothing to submit.
func StageFor(task *Task, viewer Viewer) Type {
	if task == nil || task.Assignee == "" {
		return ""
	}
	status := ResolveStatus(task)
	if viewer.IsAssignee(task) {
		if !status.HasSelfEval {
			return TypeSelf
		}
		return ""
	}
	if !IsPendingFor(task, viewer) {
		return ""
	}
	return NextStage(status, task)
}

func canEvaluateSuperior(task *Task, viewer Viewer) bool {
	if viewer.IsAdmin() {
		return true
	}
	if cfg := task.Config(); cfg != nil && cfg.SuperiorEvaluatorID != "" {
		return cfg.SuperiorEvaluatorID == viewer.ID
	}
	p := task.AssigneeProfile
	return p != nil && p.ManagerID != "" && p.ManagerID == viewer.ID
}

func canEvaluateTop(task *Task, viewer Viewer) bool {
	if viewer.IsAdmin() {
		return true
	}
	if cfg := task.Config(); cfg != nil && cfg.TMEvaluatorID != "" {
		return cfg.TMEvaluatorID == viewer.ID
	}
	return viewer.Role == auth.RoleCEO || viewer.Role == auth.RoleTopManagement
}
