package evaluation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"kpiboard/internal/domain/notifications"
	"kpiboard/internal/platform/report"
	"kpiboard/internal/requestctx"
)

const (
	AuditActionSubmit  = "evaluation.submit"
	AuditActionRescore = "evaluation.rescore"
	auditEntity        = "evaluation"
)

type Auditor interface {
	Record(ctx context.Context, actorID, action, entityType, entityID, requestID, ip string, before, after any) error
}

type Notifier interface {
	Create(ctx context.Context, userID, ntype, title, body string) error
}

// Recorder receives workflow counters. A nil Recorder disables them.
type Recorder interface {
	EvaluationSubmitted(evalType, outcome string)
	DashboardBuilt(queueSizes map[string]int)
}

type Service struct {
	store   StoreAPI
	audit   Auditor
	notify  Notifier
	metrics Recorder
	now     func() time.Time
}

func NewService(store StoreAPI, audit Auditor, notify Notifier, metrics Recorder) *Service {
	return &Service{store: store, audit: audit, notify: notify, metrics: metrics, now: time.Now}
}

// Dashboard is the categorised task list with one action per task.
type Dashboard struct {
	Queues  Partition     `json:"queues"`
	Actions map[ID]Action `json:"actions"`
}

// Dashboard recomputes the viewer's queues from the current store contents.
func (s *Service) Dashboard(ctx context.Context, viewer Viewer) (Dashboard, error) {
	tasks, err := s.store.ListTasks(ctx, TaskFilter{Viewer: viewer})
	if err != nil {
		return Dashboard{}, err
	}
	actions := make(map[ID]Action, len(tasks))
	for i := range tasks {
		task := &tasks[i]
		task.IsPendingForMe = IsPendingFor(task, viewer)
		actions[task.ID] = DecideAction(task, viewer, ResolveStatus(task), task.IsPendingForMe)
	}
	partition := Categorize(tasks, viewer)

	if s.metrics != nil {
		sizes := make(map[string]int, len(Queues))
		for _, q := range Queues {
			sizes[string(q)] = len(partition.Queue(q))
		}
		s.metrics.DashboardBuilt(sizes)
	}
	return Dashboard{Queues: partition, Actions: actions}, nil
}

type StageBand struct {
	Type  Type    `json:"type"`
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
	Band  Band    `json:"band"`
}

type TaskDetail struct {
	Task      Task        `json:"task"`
	Status    Status      `json:"status"`
	Queue     Queue       `json:"queue,omitempty"`
	Action    Action      `json:"action"`
	NextStage Type        `json:"nextStage,omitempty"`
	MyStage   Type        `json:"myStage,omitempty"`
	Bands     []StageBand `json:"bands"`
}

func (s *Service) TaskDetail(ctx context.Context, viewer Viewer, taskID string) (TaskDetail, error) {
	task, err := s.store.GetTask(ctx, viewer, taskID)
	if err != nil {
		return TaskDetail{}, err
	}
	task.IsPendingForMe = IsPendingFor(&task, viewer)
	status := ResolveStatus(&task)
	detail := TaskDetail{
		Task:      task,
		Status:    status,
		Action:    DecideAction(&task, viewer, status, task.IsPendingForMe),
		NextStage: NextStage(status, &task),
		MyStage:   StageFor(&task, viewer),
		Bands:     []StageBand{},
	}
	if q, ok := Classify(&task, viewer); ok {
		detail.Queue = q
	}
	for _, t := range Types {
		ev := status.Stage(t)
		if ev == nil {
			continue
		}
		detail.Bands = append(detail.Bands, StageBand{
			Type:  t,
			Score: ev.Details().Score,
			Max:   ev.Scale().Max(),
			Band:  BandOf(ev),
		})
	}
	return detail, nil
}

type SubmitInput struct {
	Type       Type
	Score      float64
	Comment    string
	Attachment string
}

// Submit records the next evaluation of a task. The checks run in a fixed
// order: type, duplicate stage, authorship, stage order, then score range.
func (s *Service) Submit(ctx context.Context, viewer Viewer, taskID string, in SubmitInput) (Evaluation, error) {
	ev, err := s.submit(ctx, viewer, taskID, in)
	if s.metrics != nil {
		s.metrics.EvaluationSubmitted(string(in.Type), outcome(err))
	}
	return ev, err
}

func (s *Service) submit(ctx context.Context, viewer Viewer, taskID string, in SubmitInput) (Evaluation, error) {
	if !in.Type.Valid() {
		return nil, ErrInvalidType
	}
	task, err := s.store.GetTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}
	status := ResolveStatus(&task)
	if status.Has(in.Type) {
		return nil, ErrEvaluationExists
	}
	if !mayWrite(&task, viewer, in.Type) {
		return nil, ErrForbidden
	}
	if NextStage(status, &task) != in.Type {
		return nil, ErrStageOutOfOrder
	}
	if !in.Type.Scale().Valid(in.Score) {
		return nil, ErrInvalidScore
	}

	j, err := s.store.CreateEvaluation(ctx, NewRecord{
		TaskID:      string(task.ID),
		Type:        in.Type,
		EvaluatorID: string(viewer.ID),
		Score:       in.Score,
		Comment:     in.Comment,
		Attachment:  in.Attachment,
	})
	if err != nil {
		return nil, err
	}
	ev, _ := NewEvaluation(in.Type, j)

	s.record(ctx, viewer, AuditActionSubmit, string(j.ID), nil, map[string]any{
		"taskId": task.ID,
		"type":   in.Type,
		"score":  in.Score,
	})

	task.Evaluations = append(task.Evaluations, ev)
	s.notifyAfterSubmit(ctx, &task, viewer, in.Type)
	return ev, nil
}

type RescoreInput struct {
	Score   float64
	Comment string
}

// Rescore changes the score of an existing evaluation and appends a history
// entry. Only the evaluation's author or an admin may rescore.
func (s *Service) Rescore(ctx context.Context, viewer Viewer, taskID string, t Type, in RescoreInput) (Evaluation, error) {
	if !t.Valid() {
		return nil, ErrInvalidType
	}
	task, err := s.store.GetTask(ctx, viewer, taskID)
	if err != nil {
		return nil, err
	}
	existing := ResolveStatus(&task).Stage(t)
	if existing == nil {
		return nil, ErrEvaluationNotFound
	}
	if !viewer.IsAdmin() && !AuthoredBy(existing, viewer.ID) {
		return nil, ErrForbidden
	}
	if !t.Scale().Valid(in.Score) {
		return nil, ErrInvalidScore
	}

	j := existing.Details()
	change, err := s.store.UpdateEvaluationScore(ctx, string(j.ID), string(viewer.ID), in.Score, in.Comment)
	if err != nil {
		return nil, err
	}
	j.Score = change.NewScore
	if in.Comment != "" {
		j.Comment = in.Comment
	}
	j.History = append(j.History, change)
	updated, _ := NewEvaluation(t, j)

	s.record(ctx, viewer, AuditActionRescore, string(j.ID),
		map[string]any{"score": change.PreviousScore},
		map[string]any{"score": change.NewScore})
	return updated, nil
}

// Sheet builds the printable evaluation sheet for a task.
func (s *Service) Sheet(ctx context.Context, viewer Viewer, taskID string) (report.Sheet, error) {
	task, err := s.store.GetTask(ctx, viewer, taskID)
	if err != nil {
		return report.Sheet{}, err
	}
	status := ResolveStatus(&task)
	assigneeName := string(task.Assignee)
	if task.AssigneeProfile != nil && task.AssigneeProfile.Name != "" {
		assigneeName = task.AssigneeProfile.Name
	}
	sheet := report.Sheet{
		TaskTitle:   task.Title,
		Assignee:    assigneeName,
		Status:      sheetStatus(status, &task),
		GeneratedAt: s.now().UTC(),
	}
	for _, t := range Types {
		ev := status.Stage(t)
		if ev == nil {
			continue
		}
		d := ev.Details()
		band := BandOf(ev)
		r, g, b := band.Color.RGB()
		evaluator := d.Evaluator.Name
		if evaluator == "" {
			evaluator = string(d.Evaluator.ID)
		}
		row := report.StageRow{
			Stage:     stageLabel(t),
			Evaluator: evaluator,
			Score:     d.Score,
			MaxScore:  ev.Scale().Max(),
			Band:      band.Label,
			Color:     [3]int{r, g, b},
			Comment:   d.Comment,
			CreatedAt: d.CreatedAt,
		}
		for _, h := range d.History {
			row.History = append(row.History, report.HistoryRow{
				UpdatedBy: h.UpdatedByName,
				Previous:  h.PreviousScore,
				New:       h.NewScore,
				At:        h.Timestamp,
			})
		}
		sheet.Stages = append(sheet.Stages, row)
	}
	return sheet, nil
}

func (s *Service) record(ctx context.Context, viewer Viewer, action, entityID string, before, after any) {
	if s.audit == nil {
		return
	}
	err := s.audit.Record(ctx, string(viewer.ID), action, auditEntity, entityID,
		requestctx.GetRequestID(ctx), requestctx.GetClientIP(ctx), before, after)
	if err != nil {
		slog.Warn("audit evaluation write failed", "err", err, "action", action)
	}
}

func (s *Service) notifyAfterSubmit(ctx context.Context, task *Task, author Viewer, written Type) {
	if s.notify == nil {
		return
	}
	if !author.IsAssignee(task) {
		title := fmt.Sprintf("%s evaluation received", stageLabel(written))
		body := fmt.Sprintf("Your task %q has a new %s evaluation.", task.Title, stageLabel(written))
		if err := s.notify.Create(ctx, string(task.Assignee), notifications.TypeEvaluationReceived, title, body); err != nil {
			slog.Warn("evaluation received notification failed", "err", err)
		}
	}

	next, recipient := nextEvaluator(task)
	if recipient == "" || recipient == author.ID {
		return
	}
	title := fmt.Sprintf("%s evaluation pending", stageLabel(next))
	body := fmt.Sprintf("Task %q is waiting for your %s evaluation.", task.Title, stageLabel(next))
	if err := s.notify.Create(ctx, string(recipient), notifications.TypeEvaluationPending, title, body); err != nil {
		slog.Warn("evaluation pending notification failed", "err", err)
	}
}

// nextEvaluator names the stage that is now open and the single user known
// to own it. Stages owned by a role rather than a person yield no recipient.
func nextEvaluator(task *Task) (Type, ID) {
	next := NextStage(ResolveStatus(task), task)
	cfg := task.Config()
	switch next {
	case TypeSuperior:
		if cfg != nil && cfg.SuperiorEvaluatorID != "" {
			return next, cfg.SuperiorEvaluatorID
		}
		if task.AssigneeProfile != nil {
			return next, task.AssigneeProfile.ManagerID
		}
	case TypeTopManagement:
		if cfg != nil {
			return next, cfg.TMEvaluatorID
		}
	}
	return next, ""
}

// mayWrite reports whether viewer is entitled to author an evaluation of type
// t on the task, regardless of whether that stage is open yet. The self stage
// belongs to the assignee alone; admins may stand in for the review stages.
func mayWrite(task *Task, viewer Viewer, t Type) bool {
	switch t {
	case TypeSelf:
		return viewer.IsAssignee(task)
	case TypeSuperior:
		return viewer.IsAdmin() || (!viewer.IsAssignee(task) && canEvaluateSuperior(task, viewer))
	case TypeTopManagement:
		return viewer.IsAdmin() || (!viewer.IsAssignee(task) && canEvaluateTop(task, viewer))
	}
	return false
}

func stageLabel(t Type) string {
	switch t {
	case TypeSelf:
		return "Self"
	case TypeSuperior:
		return "Superior"
	case TypeTopManagement:
		return "Top management"
	}
	return string(t)
}

func sheetStatus(status Status, task *Task) string {
	if IsComplete(status, task) {
		return "Complete"
	}
	if next := NextStage(status, task); next != "" {
		return "Awaiting " + stageLabel(next) + " evaluation"
	}
	return "Pending"
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrForbidden):
		return "forbidden"
	case errors.Is(err, ErrEvaluationExists):
		return "duplicate"
	case errors.Is(err, ErrStageOutOfOrder):
		return "out_of_order"
	case errors.Is(err, ErrInvalidScore), errors.Is(err, ErrInvalidType):
		return "invalid"
	}
	return "error"
}
