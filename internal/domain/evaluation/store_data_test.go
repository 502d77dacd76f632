package evaluation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"kpiboard/internal/domain/auth"
)

func TestBuildTaskQueryVisibility(t *testing.T) {
	ownClauses := "(t.assignee_id::text = $1 OR u.manager_id::text = $1 OR c.superior_evaluator_id::text = $1 OR c.tm_evaluator_id::text = $1)"

	tests := []struct {
		name     string
		filter   TaskFilter
		contains []string
		absent   []string
		args     []any
	}{
		{
			name:   "admin sees all",
			filter: TaskFilter{Viewer: Viewer{ID: "u-admin", Role: auth.RoleAdmin}},
			absent: []string{"$1", "department_id = (SELECT"},
		},
		{
			name:   "ceo sees all",
			filter: TaskFilter{Viewer: Viewer{ID: "u-ceo", Role: auth.RoleCEO}},
			absent: []string{"$1"},
		},
		{
			name:   "top management sees all",
			filter: TaskFilter{Viewer: Viewer{ID: "u-tm", Role: auth.RoleTopManagement}},
			absent: []string{"$1"},
		},
		{
			name:     "department lead sees own department",
			filter:   TaskFilter{Viewer: Viewer{ID: "u-lead", Role: auth.RoleDepartmentLead}},
			contains: []string{" AND (t.assignee_id::text = $1 OR u.department_id = (SELECT department_id FROM users WHERE id::text = $1))"},
			absent:   []string{"$2", "manager_id::text = $1"},
			args:     []any{"u-lead"},
		},
		{
			name:     "manager sees own and evaluated tasks",
			filter:   TaskFilter{Viewer: Viewer{ID: "u-mgr", Role: auth.RoleManager}},
			contains: []string{" AND " + ownClauses},
			absent:   []string{"$2"},
			args:     []any{"u-mgr"},
		},
		{
			name:     "employee uses the default rule",
			filter:   TaskFilter{Viewer: Viewer{ID: "u-emp", Role: auth.RoleEmployee}},
			contains: []string{" AND " + ownClauses},
			args:     []any{"u-emp"},
		},
		{
			name:   "task and status filters number first",
			filter: TaskFilter{Viewer: Viewer{ID: "u-emp", Role: auth.RoleEmployee}, TaskID: "t-1", Status: "open"},
			contains: []string{
				" AND t.id::text = $1",
				" AND t.status = $2",
				"t.assignee_id::text = $3 OR u.manager_id::text = $3",
				"c.tm_evaluator_id::text = $3)",
			},
			absent: []string{"$4"},
			args:   []any{"t-1", "open", "u-emp"},
		},
		{
			name:     "admin with task filter",
			filter:   TaskFilter{Viewer: Viewer{ID: "u-admin", Role: auth.RoleAdmin}, TaskID: "t-9"},
			contains: []string{" AND t.id::text = $1"},
			absent:   []string{"$2"},
			args:     []any{"t-9"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			query, args := buildTaskQuery(tc.filter)
			for _, want := range tc.contains {
				assert.Contains(t, query, want)
			}
			for _, unwanted := range tc.absent {
				assert.NotContains(t, query, unwanted)
			}
			assert.Equal(t, tc.args, args)
			assert.True(t, strings.HasSuffix(query, " ORDER BY t.created_at DESC"))
		})
	}
}
