package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpiboard/internal/domain/auth"
)

func TestResolveStatusWithoutEvaluations(t *testing.T) {
	for name, task := range map[string]*Task{
		"nil task":   nil,
		"nil slice":  {ID: "t", Assignee: "u"},
		"empty list": {ID: "t", Assignee: "u", Evaluations: EvaluationList{}},
	} {
		t.Run(name, func(t *testing.T) {
			st := ResolveStatus(task)
			assert.False(t, st.HasSelfEval)
			assert.False(t, st.HasSuperiorEval)
			assert.False(t, st.HasTopEval)
			require.NotNil(t, st.Evaluations)
			assert.Empty(t, st.Evaluations)
		})
	}
}

func TestResolveStatusFlagsEachStage(t *testing.T) {
	task := employeeTask(true, selfEval("u-emp", 7), topEval("u-tm", 90))
	st := ResolveStatus(&task)
	assert.True(t, st.HasSelfEval)
	assert.False(t, st.HasSuperiorEval)
	assert.True(t, st.HasTopEval)
	assert.Len(t, st.Evaluations, 2)
	assert.Nil(t, st.Superior())
	assert.True(t, st.Has(TypeTopManagement))
}

func TestResolveStatusKeepsFirstDuplicate(t *testing.T) {
	first := superiorEval("u-mgr", 70)
	second := superiorEval("u-other", 20)
	task := employeeTask(false, first, second, nil)

	st := ResolveStatus(&task)
	require.True(t, st.HasSuperiorEval)
	assert.Equal(t, ID("u-mgr"), st.Superior().Details().Evaluator.ID)
	assert.Equal(t, first, st.Stage(TypeSuperior))
}

func TestRequiresDualEvaluation(t *testing.T) {
	for _, role := range auth.Roles {
		task := employeeTask(true)
		task.AssigneeProfile.Role = role
		want := role == auth.RoleEmployee || role == auth.RoleManager
		assert.Equal(t, want, RequiresDualEvaluation(&task), role)
	}

	single := employeeTask(false)
	assert.False(t, RequiresDualEvaluation(&single))

	noConfig := employeeTask(true)
	noConfig.AssigneeProfile.EvaluationConfig = nil
	assert.False(t, RequiresDualEvaluation(&noConfig))

	noProfile := Task{ID: "t", Assignee: "u"}
	assert.False(t, RequiresDualEvaluation(&noProfile))
	assert.False(t, RequiresDualEvaluation(nil))
}

func TestIsComplete(t *testing.T) {
	tests := []struct {
		name  string
		dual  bool
		evals []Evaluation
		want  bool
	}{
		{name: "single chain empty", dual: false},
		{name: "single chain self only", dual: false, evals: []Evaluation{selfEval("u-emp", 7)}},
		{name: "single chain self and superior", dual: false, evals: []Evaluation{selfEval("u-emp", 7), superiorEval("u-mgr", 80)}, want: true},
		{name: "dual chain self and superior", dual: true, evals: []Evaluation{selfEval("u-emp", 7), superiorEval("u-mgr", 80)}},
		{name: "dual chain all stages", dual: true, evals: []Evaluation{selfEval("u-emp", 7), superiorEval("u-mgr", 80), topEval("u-tm", 85)}, want: true},
		{name: "dual chain missing superior", dual: true, evals: []Evaluation{selfEval("u-emp", 7), topEval("u-tm", 85)}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			task := employeeTask(tc.dual, tc.evals...)
			assert.Equal(t, tc.want, IsComplete(ResolveStatus(&task), &task))
		})
	}
}

func TestNextStage(t *testing.T) {
	task := employeeTask(true)
	assert.Equal(t, TypeSelf, NextStage(ResolveStatus(&task), &task))

	task = employeeTask(true, selfEval("u-emp", 6))
	assert.Equal(t, TypeSuperior, NextStage(ResolveStatus(&task), &task))

	task = employeeTask(true, selfEval("u-emp", 6), superiorEval("u-mgr", 70))
	assert.Equal(t, TypeTopManagement, NextStage(ResolveStatus(&task), &task))

	task = employeeTask(false, selfEval("u-emp", 6), superiorEval("u-mgr", 70))
	assert.Equal(t, Type(""), NextStage(ResolveStatus(&task), &task))
}
