package notifications

import (
	"context"
	"testing"
)

type memoryStore struct {
	created []string
}

func (m *memoryStore) CreateNotification(_ context.Context, userID, ntype, _, _ string) error {
	m.created = append(m.created, userID+":"+ntype)
	return nil
}

func (m *memoryStore) ListNotifications(context.Context, string, bool, int, int) ([]Notification, error) {
	return nil, nil
}

func (m *memoryStore) CountNotifications(context.Context, string, bool) (int, error) {
	return len(m.created), nil
}

func (m *memoryStore) MarkRead(context.Context, string, string) error {
	return ErrNotFound
}

func TestCreateSkipsBlankRecipient(t *testing.T) {
	store := &memoryStore{}
	svc := New(store)

	if err := svc.Create(context.Background(), "  ", TypeEvaluationPending, "t", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := svc.Create(context.Background(), "u-1", TypeEvaluationReceived, "t", "b"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(store.created) != 1 || store.created[0] != "u-1:evaluation_received" {
		t.Fatalf("unexpected notifications: %v", store.created)
	}
}
