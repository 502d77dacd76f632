package evaluation

type ActionKind string

const (
	ActionEvaluate              ActionKind = "evaluate"
	ActionSelfEvaluate          ActionKind = "self_evaluate"
	ActionAwaitingTopManagement ActionKind = "awaiting_top_management"
	ActionAwaitingSuperior      ActionKind = "awaiting_superior"
	ActionViewDetails           ActionKind = "view_details"
	ActionPending               ActionKind = "pending"
)

const (
	TextEvaluateAsAdmin          = "Evaluate as admin"
	TextTopManagementEvaluate    = "Top management evaluate"
	TextSuperiorEvaluate         = "Superior evaluate"
	TextEvaluate                 = "Evaluate"
	TextSelfEvaluate             = "Self-evaluate"
	TextAwaitingTopManagement    = "Awaiting top management"
	TextAwaitingSuperior         = "Awaiting superior"
	TextViewDetailsTopFinal      = "View details (top management final)"
	TextViewDetailsSuperiorFinal = "View details (superior final)"
	TextViewDetails              = "View details"
	TextPending                  = "Pending"
)

// Action is the single next affordance shown on a task card.
type Action struct {
	Kind     ActionKind `json:"kind"`
	Text     string     `json:"text"`
	Color    Color      `json:"colorToken"`
	Icon     string     `json:"icon"`
	Disabled bool       `json:"disabled,omitempty"`
	ViewOnly bool       `json:"isViewOnly,omitempty"`
	// Stage is the evaluation type an enabled evaluate action would write.
	Stage Type `json:"stage,omitempty"`
}

type ruleInput struct {
	task         *Task
	viewer       Viewer
	status       Status
	pendingForMe bool
	dual         bool
}

type rule struct {
	name string
	when func(in ruleInput) bool
	then func(in ruleInput) Action
}

// actionRules is evaluated top to bottom and the first matching rule wins.
// Later rules assume every earlier one did not match.
var actionRules = []rule{
	{
		name: "pending_for_me",
		when: func(in ruleInput) bool { return in.pendingForMe },
		then: evaluateAction,
	},
	{
		name: "own_self_missing",
		when: func(in ruleInput) bool {
			return in.viewer.IsAssignee(in.task) && !in.status.HasSelfEval
		},
		then: func(ruleInput) Action {
			return Action{Kind: ActionSelfEvaluate, Text: TextSelfEvaluate, Color: ColorPrimary, Icon: "edit", Stage: TypeSelf}
		},
	},
	{
		name: "awaiting_top_management",
		when: func(in ruleInput) bool {
			return in.dual &&
				in.status.HasSelfEval && in.status.HasSuperiorEval && !in.status.HasTopEval &&
				!isTMEvaluator(in.task, in.viewer)
		},
		then: func(ruleInput) Action {
			return Action{Kind: ActionAwaitingTopManagement, Text: TextAwaitingTopManagement, Color: ColorWarning, Icon: "hourglass", Disabled: true}
		},
	},
	{
		name: "own_superior_missing",
		when: func(in ruleInput) bool {
			return in.viewer.IsAssignee(in.task) && in.status.HasSelfEval && !in.status.HasSuperiorEval
		},
		then: func(ruleInput) Action {
			return Action{Kind: ActionAwaitingSuperior, Text: TextAwaitingSuperior, Color: ColorWarning, Icon: "hourglass", Disabled: true, ViewOnly: true}
		},
	},
	{
		name: "complete",
		when: func(in ruleInput) bool { return IsComplete(in.status, in.task) },
		then: func(in ruleInput) Action {
			text := TextViewDetailsSuperiorFinal
			if in.dual {
				text = TextViewDetailsTopFinal
			}
			return Action{Kind: ActionViewDetails, Text: text, Color: ColorSuccess, Icon: "check-circle", ViewOnly: true}
		},
	},
	{
		name: "self_recorded",
		when: func(in ruleInput) bool { return in.status.HasSelfEval },
		then: func(ruleInput) Action {
			return Action{Kind: ActionViewDetails, Text: TextViewDetails, Color: ColorDefault, Icon: "eye", ViewOnly: true}
		},
	},
	{
		name: "default",
		when: func(ruleInput) bool { return true },
		then: func(ruleInput) Action {
			return Action{Kind: ActionPending, Text: TextPending, Color: ColorDefault, Icon: "clock", Disabled: true}
		},
	},
}

// DecideAction picks the next affordance for a task card. isPendingForMe is
// the backend's authorization verdict and dominates every other rule.
func DecideAction(task *Task, viewer Viewer, status Status, isPendingForMe bool) Action {
	in := ruleInput{
		task:         task,
		viewer:       viewer,
		status:       status,
		pendingForMe: isPendingForMe,
		dual:         RequiresDualEvaluation(task),
	}
	for _, r := range actionRules {
		if r.when(in) {
			return r.then(in)
		}
	}
	return Action{Kind: ActionPending, Text: TextPending, Color: ColorDefault, Icon: "clock", Disabled: true}
}

// Rules returns the rule names in evaluation order.
func Rules() []string {
	names := make([]string, 0, len(actionRules))
	for _, r := range actionRules {
		names = append(names, r.name)
	}
	return names
}

// evaluateAction only picks the label: eligibility was decided upstream.
func evaluateAction(in ruleInput) Action {
	stage := NextStage(in.status, in.task)
	switch {
	case in.viewer.IsAdmin():
		return Action{Kind: ActionEvaluate, Text: TextEvaluateAsAdmin, Color: ColorInfo, Icon: "shield", Stage: stage}
	case in.dual && in.status.HasSelfEval && in.status.HasSuperiorEval && !in.status.HasTopEval:
		return Action{Kind: ActionEvaluate, Text: TextTopManagementEvaluate, Color: ColorSecondary, Icon: "award", Stage: TypeTopManagement}
	case isSuperiorEvaluator(in.task, in.viewer):
		return Action{Kind: ActionEvaluate, Text: TextSuperiorEvaluate, Color: ColorPrimary, Icon: "user-check", Stage: stage}
	}
	return Action{Kind: ActionEvaluate, Text: TextEvaluate, Color: ColorPrimary, Icon: "edit", Stage: stage}
}

func isTMEvaluator(task *Task, viewer Viewer) bool {
	cfg := task.Config()
	return cfg != nil && cfg.TMEvaluatorID != "" && cfg.TMEvaluatorID == viewer.ID
}

func isSuperiorEvaluator(task *Task, viewer Viewer) bool {
	cfg := task.Config()
	return cfg != nil && cfg.SuperiorEvaluatorID != "" && cfg.SuperiorEvaluatorID == viewer.ID
}
