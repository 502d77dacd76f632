package evaluation

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrEvaluationNotFound = errors.New("evaluation not found")
	ErrEvaluationExists   = errors.New("evaluation of this type already exists for the task")
	ErrForbidden          = errors.New("viewer may not evaluate this task")
	ErrStageOutOfOrder    = errors.New("evaluation stage is not open yet")
	ErrInvalidType        = errors.New("unknown evaluation type")
	ErrInvalidScore       = errors.New("score outside the allowed range")
)
