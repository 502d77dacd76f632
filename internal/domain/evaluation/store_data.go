package evaluation

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"kpiboard/internal/domain/auth"
)

const uniqueViolation = "23505"

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func (s *Store) ListTasks(ctx context.Context, filter TaskFilter) ([]Task, error) {
	query, args := buildTaskQuery(filter)
	rows, err := s.DB.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []Task
	index := map[ID]int{}
	for rows.Next() {
		var task Task
		var profile Profile
		var cfg EvaluationConfig
		var assigneeID, role, departmentID, managerID, name string
		var hasConfig bool
		var superiorID, tmID string
		if err := rows.Scan(
			&task.ID, &task.Title, &task.Description, &task.Priority, &task.Status,
			&assigneeID, &name, &role, &departmentID, &managerID,
			&hasConfig, &cfg.IsDualEvaluation, &superiorID, &tmID,
		); err != nil {
			return nil, err
		}
		task.Assignee = ID(assigneeID)
		if assigneeID != "" {
			profile = Profile{
				ID:           ID(assigneeID),
				Name:         name,
				Role:         role,
				DepartmentID: ID(departmentID),
				ManagerID:    ID(managerID),
			}
			if hasConfig {
				cfg.SuperiorEvaluatorID = ID(superiorID)
				cfg.TMEvaluatorID = ID(tmID)
				profile.EvaluationConfig = &cfg
			}
			task.AssigneeProfile = &profile
		}
		task.Evaluations = EvaluationList{}
		index[task.ID] = len(tasks)
		tasks = append(tasks, task)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return tasks, nil
	}

	ids := make([]string, 0, len(tasks))
	for _, task := range tasks {
		ids = append(ids, string(task.ID))
	}
	history, err := s.listHistory(ctx, ids)
	if err != nil {
		return nil, err
	}
	if err := s.attachEvaluations(ctx, ids, tasks, index, history); err != nil {
		return nil, err
	}
	return tasks, nil
}

// GetTask loads a single task the viewer can see. Tasks outside the viewer's
// visibility report ErrTaskNotFound.
func (s *Store) GetTask(ctx context.Context, viewer Viewer, taskID string) (Task, error) {
	tasks, err := s.ListTasks(ctx, TaskFilter{Viewer: viewer, TaskID: taskID})
	if err != nil {
		return Task{}, err
	}
	if len(tasks) == 0 {
		return Task{}, ErrTaskNotFound
	}
	return tasks[0], nil
}

func (s *Store) attachEvaluations(ctx context.Context, taskIDs []string, tasks []Task, index map[ID]int, history map[ID][]ScoreChange) error {
	rows, err := s.DB.Query(ctx, `
    SELECT e.id::text, e.task_id::text, e.evaluation_type, e.evaluator_id::text, COALESCE(u.full_name, ''),
           e.score::float8, COALESCE(e.comment, ''), COALESCE(e.attachment, ''), e.created_at
    FROM evaluations e
    LEFT JOIN users u ON u.id = e.evaluator_id
    WHERE e.task_id::text = ANY($1)
    ORDER BY e.created_at ASC
  `, taskIDs)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var j Judgment
		var taskID, evalType, evaluatorID string
		if err := rows.Scan(&j.ID, &taskID, &evalType, &evaluatorID, &j.Evaluator.Name, &j.Score, &j.Comment, &j.Attachment, &j.CreatedAt); err != nil {
			return err
		}
		j.Evaluator.ID = ID(evaluatorID)
		j.History = history[j.ID]
		ev, ok := NewEvaluation(Type(evalType), j)
		if !ok {
			continue
		}
		pos, ok := index[ID(taskID)]
		if !ok {
			continue
		}
		tasks[pos].Evaluations = append(tasks[pos].Evaluations, ev)
	}
	return rows.Err()
}

func (s *Store) listHistory(ctx context.Context, taskIDs []string) (map[ID][]ScoreChange, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT h.evaluation_id::text, COALESCE(u.full_name, ''), h.previous_score::float8, h.new_score::float8, h.created_at
    FROM evaluation_history h
    JOIN evaluations e ON e.id = h.evaluation_id
    LEFT JOIN users u ON u.id = h.updated_by
    WHERE e.task_id::text = ANY($1)
    ORDER BY h.created_at ASC
  `, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[ID][]ScoreChange{}
	for rows.Next() {
		var evaluationID string
		var change ScoreChange
		if err := rows.Scan(&evaluationID, &change.UpdatedByName, &change.PreviousScore, &change.NewScore, &change.Timestamp); err != nil {
			return nil, err
		}
		out[ID(evaluationID)] = append(out[ID(evaluationID)], change)
	}
	return out, rows.Err()
}

func (s *Store) CreateEvaluation(ctx context.Context, rec NewRecord) (Judgment, error) {
	j := Judgment{
		Evaluator:  UserRef{ID: ID(rec.EvaluatorID)},
		Score:      rec.Score,
		Comment:    rec.Comment,
		Attachment: rec.Attachment,
	}
	var id string
	var createdAt time.Time
	err := s.DB.QueryRow(ctx, `
    INSERT INTO evaluations (task_id, evaluation_type, evaluator_id, score, comment, attachment)
    VALUES ($1,$2,$3,$4,NULLIF($5, ''),NULLIF($6, ''))
    RETURNING id::text, created_at
  `, rec.TaskID, string(rec.Type), rec.EvaluatorID, rec.Score, rec.Comment, rec.Attachment).Scan(&id, &createdAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return Judgment{}, ErrEvaluationExists
		}
		return Judgment{}, err
	}
	j.ID = ID(id)
	j.CreatedAt = createdAt
	return j, nil
}

func (s *Store) UpdateEvaluationScore(ctx context.Context, evaluationID, updatedBy string, score float64, comment string) (ScoreChange, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ScoreChange{}, err
	}
	defer func() {
		_ = tx.Rollback(ctx)
	}()

	var change ScoreChange
	err = tx.QueryRow(ctx, rescoreQuery, evaluationID, score, comment).Scan(&change.PreviousScore, &change.NewScore)
	if errors.Is(err, pgx.ErrNoRows) {
		return ScoreChange{}, ErrEvaluationNotFound
	}
	if err != nil {
		return ScoreChange{}, err
	}
	if err := tx.QueryRow(ctx, `
    INSERT INTO evaluation_history (evaluation_id, updated_by, previous_score, new_score)
    VALUES ($1,$2,$3,$4)
    RETURNING created_at, COALESCE((SELECT full_name FROM users WHERE id = $2), '')
  `, evaluationID, updatedBy, change.PreviousScore, change.NewScore).Scan(&change.Timestamp, &change.UpdatedByName); err != nil {
		return ScoreChange{}, err
	}
	if err := tx.Commit(ctx); err != nil {
		return ScoreChange{}, err
	}
	return change, nil
}

// rescoreQuery locks the evaluation row before reading the score it replaces,
// so concurrent rescores each record the value they actually overwrote.
const rescoreQuery = `
    WITH prev AS (
      SELECT id, score FROM evaluations WHERE id = $1 FOR UPDATE
    )
    UPDATE evaluations e
    SET score = $2, comment = COALESCE(NULLIF($3, ''), e.comment), updated_at = now()
    FROM prev
    WHERE e.id = prev.id
    RETURNING prev.score::float8, e.score::float8
  `

// buildTaskQuery assembles the task listing query with the viewer's
// visibility rules applied.
func buildTaskQuery(filter TaskFilter) (string, []any) {
	query := `
    SELECT t.id::text, t.title, COALESCE(t.description, ''), t.priority, t.status,
           COALESCE(t.assignee_id::text, ''), COALESCE(u.full_name, ''), COALESCE(u.role, ''),
           COALESCE(u.department_id::text, ''), COALESCE(u.manager_id::text, ''),
           c.user_id IS NOT NULL, COALESCE(c.is_dual_evaluation, false),
           COALESCE(c.superior_evaluator_id::text, ''), COALESCE(c.tm_evaluator_id::text, '')
    FROM tasks t
    LEFT JOIN users u ON u.id = t.assignee_id
    LEFT JOIN evaluation_configs c ON c.user_id = t.assignee_id
    WHERE 1=1`
	var args []any
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if filter.TaskID != "" {
		query += " AND t.id::text = " + arg(filter.TaskID)
	}
	if filter.Status != "" {
		query += " AND t.status = " + arg(filter.Status)
	}

	viewer := filter.Viewer
	switch {
	case auth.SeesAllTasks(viewer.Role):
	case viewer.Role == auth.RoleDepartmentLead:
		p := arg(string(viewer.ID))
		query += fmt.Sprintf(" AND (t.assignee_id::text = %s OR u.department_id = (SELECT department_id FROM users WHERE id::text = %s))", p, p)
	default:
		p := arg(string(viewer.ID))
		clauses := []string{
			"t.assignee_id::text = " + p,
			"u.manager_id::text = " + p,
			"c.superior_evaluator_id::text = " + p,
			"c.tm_evaluator_id::text = " + p,
		}
		query += " AND (" + strings.Join(clauses, " OR ") + ")"
	}
	query += " ORDER BY t.created_at DESC"
	return query, args
}
