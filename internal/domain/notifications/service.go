package notifications

import (
	"context"
	"strings"
)

type Service struct {
	store StoreAPI
}

func New(store StoreAPI) *Service {
	return &Service{store: store}
}

// Create stores an in-app notification for userID. Blank recipients are
// ignored.
func (s *Service) Create(ctx context.Context, userID, ntype, title, body string) error {
	if strings.TrimSpace(userID) == "" {
		return nil
	}
	return s.store.CreateNotification(ctx, userID, ntype, title, body)
}

func (s *Service) List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]Notification, error) {
	return s.store.ListNotifications(ctx, userID, unreadOnly, limit, offset)
}

func (s *Service) Count(ctx context.Context, userID string, unreadOnly bool) (int, error) {
	return s.store.CountNotifications(ctx, userID, unreadOnly)
}

func (s *Service) MarkRead(ctx context.Context, userID, notificationID string) error {
	return s.store.MarkRead(ctx, userID, notificationID)
}
