package evaluation

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kpiboard/internal/domain/auth"
	"kpiboard/internal/domain/notifications"
)

func TestRemindPendingTargetsStageOwner(t *testing.T) {
	needsSelf := employeeTask(false)
	needsSelf.ID = "t-self"

	needsSuperior := employeeTask(false, selfEval("u-emp", 7))
	needsSuperior.ID = "t-sup"

	needsTop := employeeTask(true, selfEval("u-emp", 7), superiorEval("u-mgr", 70))
	needsTop.ID = "t-top"

	done := employeeTask(false, selfEval("u-emp", 7), superiorEval("u-mgr", 70))
	done.ID = "t-done"

	unassigned := Task{ID: "t-none", Title: "Backlog"}

	h := newHarness(needsSelf, needsSuperior, needsTop, done, unassigned)
	res, err := h.svc.RemindPending(context.Background())
	require.NoError(t, err)

	assert.Equal(t, ReminderResult{Scanned: 4, Reminded: 3}, res)
	assert.ElementsMatch(t, []sentNotification{
		{userID: "u-emp", ntype: notifications.TypeEvaluationReminder},
		{userID: "u-mgr", ntype: notifications.TypeEvaluationReminder},
		{userID: "u-tm", ntype: notifications.TypeEvaluationReminder},
	}, h.notify.sent)
}

func TestRemindPendingSkipsRoleOwnedStage(t *testing.T) {
	task := employeeTask(true, selfEval("u-emp", 7), superiorEval("u-mgr", 70))
	task.AssigneeProfile.EvaluationConfig.TMEvaluatorID = ""
	task.AssigneeProfile.Role = auth.RoleManager

	h := newHarness(task)
	res, err := h.svc.RemindPending(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, res.Reminded)
	assert.Empty(t, h.notify.sent)
}

func TestRemindPendingPropagatesListError(t *testing.T) {
	h := newHarness()
	h.store.listErr = errors.New("db down")
	_, err := h.svc.RemindPending(context.Background())
	require.Error(t, err)
}
