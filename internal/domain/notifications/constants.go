package notifications

const (
	TypeEvaluationPending  = "evaluation_pending"
	TypeEvaluationReceived = "evaluation_received"
	TypeEvaluationReminder = "evaluation_reminder"
)
