package evaluation

// Status summarises which stages of a task's evaluation chain exist. It is
// derived on every render and never persisted.
type Status struct {
	HasSelfEval     bool           `json:"hasSelfEval"`
	HasSuperiorEval bool           `json:"hasSuperiorEval"`
	HasTopEval      bool           `json:"hasTopEval"`
	Evaluations     EvaluationList `json:"evaluations"`

	self, superior, top Evaluation
}

// ResolveStatus reduces a task's evaluations to a Status. A nil task or a
// task without evaluations yields the not-yet-evaluated status. When a stage
// appears twice the first record wins.
func ResolveStatus(task *Task) Status {
	st := Status{Evaluations: EvaluationList{}}
	if task == nil || len(task.Evaluations) == 0 {
		return st
	}
	for _, ev := range task.Evaluations {
		if ev == nil {
			continue
		}
		st.Evaluations = append(st.Evaluations, ev)
		switch ev.Type() {
		case TypeSelf:
			if st.self == nil {
				st.self = ev
			}
		case TypeSuperior:
			if st.superior == nil {
				st.superior = ev
			}
		case TypeTopManagement:
			if st.top == nil {
				st.top = ev
			}
		}
	}
	st.HasSelfEval = st.self != nil
	st.HasSuperiorEval = st.superior != nil
	st.HasTopEval = st.top != nil
	return st
}

func (s Status) Self() Evaluation     { return s.self }
func (s Status) Superior() Evaluation { return s.superior }
func (s Status) Top() Evaluation      { return s.top }

// Stage returns the first evaluation of the given type, nil when missing.
func (s Status) Stage(t Type) Evaluation {
	switch t {
	case TypeSelf:
		return s.self
	case TypeSuperior:
		return s.superior
	case TypeTopManagement:
		return s.top
	}
	return nil
}

// Has reports whether the given stage has been recorded.
func (s Status) Has(t Type) bool {
	return s.Stage(t) != nil
}
