package evaluation

import "encoding/json"

// Partition splits a viewer's visible tasks into disjoint dashboard queues.
type Partition struct {
	NeedsSelfEvaluation       []Task `json:"needsSelfEvaluation"`
	PendingSuperiorEvaluation []Task `json:"pendingSuperiorEvaluation"`
	PendingForMyEvaluation    []Task `json:"pendingForMyEvaluation"`
	SubordinatesAwaitingEval  []Task `json:"subordinatesAwaitingEval"`
	EvaluatedByMe             []Task `json:"evaluatedByMe"`
	OtherTasks                []Task `json:"otherTasks"`
}

func newPartition() Partition {
	return Partition{
		NeedsSelfEvaluation:       []Task{},
		PendingSuperiorEvaluation: []Task{},
		PendingForMyEvaluation:    []Task{},
		SubordinatesAwaitingEval:  []Task{},
		EvaluatedByMe:             []Task{},
		OtherTasks:                []Task{},
	}
}

// Categorize assigns every task that has an assignee to exactly one queue.
// Tasks without an assignee are left out.
func Categorize(tasks []Task, viewer Viewer) Partition {
	p := newPartition()
	for _, task := range tasks {
		q, ok := Classify(&task, viewer)
		if !ok {
			continue
		}
		p.add(q, task)
	}
	return p
}

// Classify returns the queue a task belongs to for viewer. The branches are
// checked in order and the first one that holds wins.
func Classify(task *Task, viewer Viewer) (Queue, bool) {
	if task == nil || task.Assignee == "" {
		return "", false
	}
	if task.IsPendingForMe {
		return QueuePendingForMyEvaluation, true
	}

	status := ResolveStatus(task)
	mine := viewer.IsAssignee(task)
	switch {
	case mine && !status.HasSelfEval:
		return QueueNeedsSelfEvaluation, true
	case mine && !status.HasSuperiorEval:
		return QueuePendingSuperiorEvaluation, true
	case reviewedBy(status, viewer.ID):
		return QueueEvaluatedByMe, true
	case !mine && status.HasSelfEval && !status.HasTopEval:
		return QueueSubordinatesAwaitingEval, true
	}
	return QueueOtherTasks, true
}

// reviewedBy reports whether any superior or top-management record was
// written by userID.
func reviewedBy(status Status, userID ID) bool {
	for _, ev := range status.Evaluations {
		switch ev.Type() {
		case TypeSuperior, TypeTopManagement:
			if AuthoredBy(ev, userID) {
				return true
			}
		}
	}
	return false
}

func (p *Partition) add(q Queue, task Task) {
	switch q {
	case QueueNeedsSelfEvaluation:
		p.NeedsSelfEvaluation = append(p.NeedsSelfEvaluation, task)
	case QueuePendingSuperiorEvaluation:
		p.PendingSuperiorEvaluation = append(p.PendingSuperiorEvaluation, task)
	case QueuePendingForMyEvaluation:
		p.PendingForMyEvaluation = append(p.PendingForMyEvaluation, task)
	case QueueSubordinatesAwaitingEval:
		p.SubordinatesAwaitingEval = append(p.SubordinatesAwaitingEval, task)
	case QueueEvaluatedByMe:
		p.EvaluatedByMe = append(p.EvaluatedByMe, task)
	default:
		p.OtherTasks = append(p.OtherTasks, task)
	}
}

// Queue returns the tasks in the named queue, nil for unknown names.
func (p Partition) Queue(q Queue) []Task {
	switch q {
	case QueueNeedsSelfEvaluation:
		return p.NeedsSelfEvaluation
	case QueuePendingSuperiorEvaluation:
		return p.PendingSuperiorEvaluation
	case QueuePendingForMyEvaluation:
		return p.PendingForMyEvaluation
	case QueueSubordinatesAwaitingEval:
		return p.SubordinatesAwaitingEval
	case QueueEvaluatedByMe:
		return p.EvaluatedByMe
	case QueueOtherTasks:
		return p.OtherTasks
	}
	return nil
}

// CombinedTasksToEvaluate is everything the viewer can act on right now.
func (p Partition) CombinedTasksToEvaluate() []Task {
	return concat(p.PendingForMyEvaluation, p.NeedsSelfEvaluation)
}

func (p Partition) CombinedOtherTasks() []Task {
	return concat(p.PendingSuperiorEvaluation, p.SubordinatesAwaitingEval, p.EvaluatedByMe, p.OtherTasks)
}

// Len is the number of categorized tasks.
func (p Partition) Len() int {
	n := 0
	for _, q := range Queues {
		n += len(p.Queue(q))
	}
	return n
}

func (p Partition) MarshalJSON() ([]byte, error) {
	type queues Partition
	return json.Marshal(struct {
		queues
		CombinedTasksToEvaluate []Task `json:"combinedTasksToEvaluate"`
		CombinedOtherTasks      []Task `json:"combinedOtherTasks"`
	}{
		queues:                  queues(p),
		CombinedTasksToEvaluate: p.CombinedTasksToEvaluate(),
		CombinedOtherTasks:      p.CombinedOtherTasks(),
	})
}

func concat(parts ...[]Task) []Task {
	n := 0
	for _, part := range parts {
		n += len(part)
	}
	out := make([]Task, 0, n)
	for _, part := range parts {
		out = append(out, part...)
	}
	return out
}
