package evaluation

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"

	"kpiboard/internal/domain/auth"
)

// ID is a user, task or evaluation identifier. The REST payloads carry ids as
// either JSON strings or numbers; both decode to the same value.
type ID string

func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// UserRef points at a user either by bare id or by an embedded profile.
type UserRef struct {
	ID   ID     `json:"id"`
	Name string `json:"name,omitempty"`
}

func (r *UserRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID       ID     `json:"id"`
			Name     string `json:"name"`
			FullName string `json:"full_name"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		r.ID = obj.ID
		r.Name = obj.Name
		if r.Name == "" {
			r.Name = obj.FullName
		}
		return nil
	}
	r.Name = ""
	return r.ID.UnmarshalJSON(data)
}

// ScoreChange is one entry of an evaluation's rescoring history.
type ScoreChange struct {
	UpdatedByName string    `json:"updated_by_name"`
	PreviousScore float64   `json:"previous_score"`
	NewScore      float64   `json:"new_score"`
	Timestamp     time.Time `json:"timestamp"`
}

// Judgment holds the fields every evaluation stage shares.
type Judgment struct {
	ID         ID            `json:"id,omitempty"`
	Evaluator  UserRef       `json:"evaluator"`
	Score      float64       `json:"score"`
	Comment    string        `json:"comment,omitempty"`
	Attachment string        `json:"attachment,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	History    []ScoreChange `json:"history,omitempty"`
}

func (j Judgment) Details() Judgment {
	return j
}

func (Judgment) evaluation() {}

// Evaluation is one scored judgment of a task's assignee. The set of
// implementations is closed: SelfEvaluation, SuperiorEvaluation and
// TopManagementEvaluation.
type Evaluation interface {
	Type() Type
	Scale() Scale
	Details() Judgment
	evaluation()
}

type SelfEvaluation struct{ Judgment }

func (SelfEvaluation) Type() Type   { return TypeSelf }
func (SelfEvaluation) Scale() Scale { return ScaleSelf }

type SuperiorEvaluation struct{ Judgment }

func (SuperiorEvaluation) Type() Type   { return TypeSuperior }
func (SuperiorEvaluation) Scale() Scale { return ScaleSuperior }

type TopManagementEvaluation struct{ Judgment }

func (TopManagementEvaluation) Type() Type   { return TypeTopManagement }
func (TopManagementEvaluation) Scale() Scale { return ScaleTop }

// NewEvaluation builds the variant matching t. ok is false for unknown types.
func NewEvaluation(t Type, j Judgment) (Evaluation, bool) {
	switch t {
	case TypeSelf:
		return SelfEvaluation{j}, true
	case TypeSuperior:
		return SuperiorEvaluation{j}, true
	case TypeTopManagement:
		return TopManagementEvaluation{j}, true
	}
	return nil, false
}

// AuthoredBy reports whether the evaluation was written by the given user.
func AuthoredBy(e Evaluation, userID ID) bool {
	if e == nil || userID == "" {
		return false
	}
	return e.Details().Evaluator.ID == userID
}

type evaluationRecord struct {
	ID             ID              `json:"id,omitempty"`
	EvaluationType Type            `json:"evaluation_type"`
	Evaluator      UserRef         `json:"evaluator"`
	Score          json.RawMessage `json:"score"`
	Comment        string          `json:"comment,omitempty"`
	Attachment     string          `json:"attachment,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	History        []ScoreChange   `json:"history,omitempty"`
}

// EvaluationList is the `evaluations` array of a task in its REST shape.
// Records with an unknown evaluation_type are dropped on decode.
type EvaluationList []Evaluation

func (l *EvaluationList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*l = nil
		return nil
	}
	var records []evaluationRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return err
	}
	out := make(EvaluationList, 0, len(records))
	for _, rec := range records {
		ev, ok := NewEvaluation(rec.EvaluationType, Judgment{
			ID:         rec.ID,
			Evaluator:  rec.Evaluator,
			Score:      decodeScore(rec.Score),
			Comment:    rec.Comment,
			Attachment: rec.Attachment,
			CreatedAt:  rec.CreatedAt,
			History:    rec.History,
		})
		if !ok {
			continue
		}
		out = append(out, ev)
	}
	*l = out
	return nil
}

func (l EvaluationList) MarshalJSON() ([]byte, error) {
	records := make([]map[string]any, 0, len(l))
	for _, ev := range l {
		if ev == nil {
			continue
		}
		d := ev.Details()
		rec := map[string]any{
			"evaluation_type": ev.Type(),
			"evaluator":       d.Evaluator,
			"score":           d.Score,
			"created_at":      d.CreatedAt,
		}
		if d.ID != "" {
			rec["id"] = d.ID
		}
		if d.Comment != "" {
			rec["comment"] = d.Comment
		}
		if d.Attachment != "" {
			rec["attachment"] = d.Attachment
		}
		if len(d.History) > 0 {
			rec["history"] = d.History
		}
		records = append(records, rec)
	}
	return json.Marshal(records)
}

// decodeScore accepts a JSON number, a numeric string or null.
func decodeScore(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0
	}
	var n float64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0
	}
	parsed, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return parsed
}

// EvaluationConfig is the per-assignee dual/triple evaluation setup.
type EvaluationConfig struct {
	IsDualEvaluation    bool `json:"is_dual_evaluation"`
	SuperiorEvaluatorID ID   `json:"superior_evaluator_id,omitempty"`
	TMEvaluatorID       ID   `json:"tm_evaluator_id,omitempty"`
}

// UnmarshalJSON never fails: a config that is not an object, or whose fields
// have unexpected shapes, decodes to the single-chain default.
func (c *EvaluationConfig) UnmarshalJSON(data []byte) error {
	*c = EvaluationConfig{}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil
	}
	if v, ok := raw["is_dual_evaluation"]; ok {
		var dual bool
		if err := json.Unmarshal(v, &dual); err == nil {
			c.IsDualEvaluation = dual
		}
	}
	if v, ok := raw["superior_evaluator_id"]; ok {
		var id ID
		if err := id.UnmarshalJSON(v); err == nil {
			c.SuperiorEvaluatorID = id
		}
	}
	if v, ok := raw["tm_evaluator_id"]; ok {
		var id ID
		if err := id.UnmarshalJSON(v); err == nil {
			c.TMEvaluatorID = id
		}
	}
	return nil
}

// Profile is the assignee profile embedded on a task as assignee_obj.
type Profile struct {
	ID               ID                `json:"id"`
	Name             string            `json:"name,omitempty"`
	Role             string            `json:"role"`
	DepartmentID     ID                `json:"department_id,omitempty"`
	ManagerID        ID                `json:"manager_id,omitempty"`
	EvaluationConfig *EvaluationConfig `json:"evaluation_config,omitempty"`
}

type Task struct {
	ID              ID             `json:"id"`
	Title           string         `json:"title"`
	Description     string         `json:"description,omitempty"`
	Assignee        ID             `json:"assignee"`
	AssigneeProfile *Profile       `json:"assignee_obj,omitempty"`
	Priority        string         `json:"priority,omitempty"`
	Status          string         `json:"status,omitempty"`
	Evaluations     EvaluationList `json:"evaluations"`
	IsPendingForMe  bool           `json:"isPendingForMe"`
}

// AssigneeRole returns the assignee's role or "" when no profile is embedded.
func (t *Task) AssigneeRole() string {
	if t == nil || t.AssigneeProfile == nil {
		return ""
	}
	return t.AssigneeProfile.Role
}

// Config returns the assignee's evaluation config, nil when absent.
func (t *Task) Config() *EvaluationConfig {
	if t == nil || t.AssigneeProfile == nil {
		return nil
	}
	return t.AssigneeProfile.EvaluationConfig
}

// Viewer is the user a dashboard is being built for.
type Viewer struct {
	ID   ID     `json:"id"`
	Role string `json:"role"`
}

func (v Viewer) IsAdmin() bool {
	return v.Role == auth.RoleAdmin
}

// IsAssignee reports whether the viewer owns the task.
func (v Viewer) IsAssignee(t *Task) bool {
	return t != nil && v.ID != "" && t.Assignee == v.ID
}
