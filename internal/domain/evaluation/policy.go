package evaluation

import "kpiboard/internal/domain/auth"

// dualEligibleRoles are the only assignee roles that can carry a third,
// top-management stage. Everyone else is evaluated by self and superior.
var dualEligibleRoles = map[string]struct{}{
	auth.RoleEmployee: {},
	auth.RoleManager:  {},
}

// RequiresDualEvaluation reports whether the task's chain has a
// top-management stage after self and superior.
func RequiresDualEvaluation(task *Task) bool {
	if _, ok := dualEligibleRoles[task.AssigneeRole()]; !ok {
		return false
	}
	cfg := task.Config()
	if cfg == nil {
		return false
	}
	return cfg.IsDualEvaluation
}

// IsComplete reports whether every stage the task requires is recorded.
func IsComplete(status Status, task *Task) bool {
	if RequiresDualEvaluation(task) {
		return status.HasSelfEval && status.HasSuperiorEval && status.HasTopEval
	}
	return status.HasSelfEval && status.HasSuperiorEval
}

// NextStage returns the first stage still missing, or "" once complete.
func NextStage(status Status, task *Task) Type {
	switch {
	case !status.HasSelfEval:
		return TypeSelf
	case !status.HasSuperiorEval:
		return TypeSuperior
	case RequiresDualEvaluation(task) && !status.HasTopEval:
		return TypeTopManagement
	}
	return ""
}
