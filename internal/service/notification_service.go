package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/auth"
	"leadflow/internal/errors"
	"leadflow/internal/model"
	"leadflow/internal/repository"
)

// NotificationListLimit caps how many notifications a listing returns.
const NotificationListLimit = 50

// NotificationFeed is a user's latest notifications plus their unread total.
type NotificationFeed struct {
	Notifications []model.Notification `json:"notifications"`
	UnreadCount   int64                `json:"unreadCount"`
}

// NotificationService reads and acknowledges the caller's notifications.
type NotificationService interface {
	ListNotifications(ctx context.Context, p auth.Principal) (*NotificationFeed, error)
	// MarkRead marks one notification (when id is non-nil) or all of the
	// caller's unread notifications as read and returns how many changed.
	MarkRead(ctx context.Context, p auth.Principal, id *uuid.UUID) (int64, error)
}

type notificationService struct {
	repo repository.NotificationRepository
	now  func() time.Time
}

// NewNotificationService creates a notification service.
func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo, now: time.Now}
}

func (s *notificationService) ListNotifications(ctx context.Context, p auth.Principal) (*NotificationFeed, error) {
	items, err := s.repo.ListByUser(ctx, p.UserID, NotificationListLimit)
	if err != nil {
		return nil, fmt.Errorf("list notifications: %w", err)
	}
	unread, err := s.repo.CountUnread(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("count unread: %w", err)
	}
	if items == nil {
		items = []model.Notification{}
	}
	return &NotificationFeed{Notifications: items, UnreadCount: unread}, nil
}

// MarkRead is idempotent. Another user's notification reads as missing.
func (s *notificationService) MarkRead(ctx context.Context, p auth.Principal, id *uuid.UUID) (int64, error) {
	now := s.now()
	if id == nil {
		n, err := s.repo.MarkAllRead(ctx, p.UserID, now)
		if err != nil {
			return 0, fmt.Errorf("mark all read: %w", err)
		}
		return n, nil
	}

	existing, err := s.repo.FindByID(ctx, *id)
	if err != nil {
		if repository.IsNotFound(err) {
			return 0, fmt.Errorf("notification: %w", errors.ErrNotFound)
		}
		return 0, fmt.Errorf("get notification: %w", err)
	}
	if existing.UserID != p.UserID {
		return 0, fmt.Errorf("notification: %w", errors.ErrNotFound)
	}
	if existing.IsRead {
		return 0, nil
	}
	n, err := s.repo.MarkRead(ctx, p.UserID, *id, now)
	if err != nil {
		return 0, fmt.Errorf("mark read: %w", err)
	}
	return n, nil
}
