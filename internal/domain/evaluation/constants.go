package evaluation

// Type tags an evaluation record with the stage it belongs to.
type Type string

const (
	TypeSelf          Type = "SELF"
	TypeSuperior      Type = "SUPERIOR"
	TypeTopManagement Type = "TOP_MANAGEMENT"
)

// Types lists the stages in chain order.
var Types = []Type{TypeSelf, TypeSuperior, TypeTopManagement}

func (t Type) Valid() bool {
	switch t {
	case TypeSelf, TypeSuperior, TypeTopManagement:
		return true
	}
	return false
}

// Scale returns the score scale used by evaluations of this type.
func (t Type) Scale() Scale {
	if t == TypeSelf {
		return ScaleSelf
	}
	if t == TypeTopManagement {
		return ScaleTop
	}
	return ScaleSuperior
}

// Queue names one dashboard bucket.
type Queue string

const (
	QueueNeedsSelfEvaluation       Queue = "needsSelfEvaluation"
	QueuePendingSuperiorEvaluation Queue = "pendingSuperiorEvaluation"
	QueuePendingForMyEvaluation    Queue = "pendingForMyEvaluation"
	QueueSubordinatesAwaitingEval  Queue = "subordinatesAwaitingEval"
	QueueEvaluatedByMe             Queue = "evaluatedByMe"
	QueueOtherTasks                Queue = "otherTasks"
)

// Queues lists the buckets in classification priority order.
var Queues = []Queue{
	QueuePendingForMyEvaluation,
	QueueNeedsSelfEvaluation,
	QueuePendingSuperiorEvaluation,
	QueueEvaluatedByMe,
	QueueSubordinatesAwaitingEval,
	QueueOtherTasks,
}

const (
	TaskStatusTodo       = "todo"
	TaskStatusInProgress = "in_progress"
	TaskStatusDone       = "done"

	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)
