package evaluation

import (
	"time"

	"kpiboard/internal/domain/auth"
)

var fixedTime = time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC)

func selfEval(by ID, score float64) Evaluation {
	return SelfEvaluation{Judgment{ID: "e-self", Evaluator: UserRef{ID: by}, Score: score, CreatedAt: fixedTime}}
}

func superiorEval(by ID, score float64) Evaluation {
	return SuperiorEvaluation{Judgment{ID: "e-sup", Evaluator: UserRef{ID: by}, Score: score, CreatedAt: fixedTime}}
}

func topEval(by ID, score float64) Evaluation {
	return TopManagementEvaluation{Judgment{ID: "e-top", Evaluator: UserRef{ID: by}, Score: score, CreatedAt: fixedTime}}
}

// employeeTask is assigned to u-emp, managed by u-mgr, with an optional
// dual chain whose top-management evaluator is u-tm.
func employeeTask(dual bool, evals ...Evaluation) Task {
	return Task{
		ID:       "t-1",
		Title:    "Quarterly report",
		Assignee: "u-emp",
		AssigneeProfile: &Profile{
			ID:        "u-emp",
			Role:      auth.RoleEmployee,
			ManagerID: "u-mgr",
			EvaluationConfig: &EvaluationConfig{
				IsDualEvaluation:    dual,
				SuperiorEvaluatorID: "u-mgr",
				TMEvaluatorID:       "u-tm",
			},
		},
		Evaluations: evals,
	}
}

var (
	assignee   = Viewer{ID: "u-emp", Role: auth.RoleEmployee}
	manager    = Viewer{ID: "u-mgr", Role: auth.RoleManager}
	tmViewer   = Viewer{ID: "u-tm", Role: auth.RoleTopManagement}
	thirdParty = Viewer{ID: "u-lead", Role: auth.RoleDepartmentLead}
	admin      = Viewer{ID: "u-admin", Role: auth.RoleAdmin}
)
