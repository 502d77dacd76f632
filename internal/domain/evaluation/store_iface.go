package evaluation

import "context"

type StoreAPI interface {
	ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error)
	GetTask(ctx context.Context, viewer Viewer, taskID string) (Task, error)
	CreateEvaluation(ctx context.Context, rec NewRecord) (Judgment, error)
	// UpdateEvaluationScore rescores an evaluation and returns the history
	// entry it appended, in the same shape task listings report it.
	UpdateEvaluationScore(ctx context.Context, evaluationID, updatedBy string, score float64, comment string) (ScoreChange, error)
}

// TaskFilter scopes a task listing to what a viewer may see.
type TaskFilter struct {
	Viewer Viewer
	TaskID string
	Status string
}

// NewRecord is an evaluation about to be inserted.
type NewRecord struct {
	TaskID      string
	Type        Type
	EvaluatorID string
	Score       float64
	Comment     string
	Attachment  string
}
