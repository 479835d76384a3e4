package notifications

import (
	"context"
	"log"
	"strings"

	"startupconnect/pkg/apperr"
	"startupconnect/pkg/policy"
)

var ErrTitleRequired = apperr.New(apperr.InvalidInput, "NOTIFICATION_TITLE_REQUIRED", "notification title is required")

// Notifier is the fire-and-forget side of the service used by other packages.
type Notifier interface {
	Notify(ctx context.Context, userID int64, kind, title, description string)
}

type NotificationService interface {
	Notifier
	ListForUser(ctx context.Context, actor policy.Actor, userID int64) ([]Notification, error)
	MarkAsRead(ctx context.Context, actor policy.Actor, ids []int64) (int64, error)
	Create(ctx context.Context, actor policy.Actor, n Notification) (Notification, error)
}

type notificationService struct {
	repo NotificationRepository
}

func NewNotificationService(repo NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

// Notify stores an unread notification. Failures are logged and swallowed so
// callers never fail because of them.
func (s *notificationService) Notify(ctx context.Context, userID int64, kind, title, description string) {
	if userID <= 0 {
		return
	}
	_, err := s.repo.Create(ctx, Notification{
		UserID:      userID,
		Type:        kind,
		Title:       title,
		Status:      StatusUnread,
		Description: description,
	})
	if err != nil {
		log.Printf("notify user %d (%s): %v", userID, kind, err)
	}
}

func (s *notificationService) ListForUser(ctx context.Context, actor policy.Actor, userID int64) ([]Notification, error) {
	if err := policy.AuthorizeOwnProfileAccess(actor, userID); err != nil {
		return nil, err
	}
	return s.repo.ListByUser(ctx, userID)
}

func (s *notificationService) MarkAsRead(ctx context.Context, actor policy.Actor, ids []int64) (int64, error) {
	if !actor.Authenticated() {
		return 0, apperr.ErrUnauthorized
	}
	if len(ids) == 0 {
		return 0, nil
	}
	return s.repo.MarkAsRead(ctx, actor.UserID, ids)
}

func (s *notificationService) Create(ctx context.Context, actor policy.Actor, n Notification) (Notification, error) {
	if err := policy.AuthorizeAdmin(actor); err != nil {
		return Notification{}, err
	}
	n.Title = strings.TrimSpace(n.Title)
	if n.Title == "" {
		return Notification{}, ErrTitleRequired
	}
	if n.Type == "" {
		n.Type = KindSystem
	}
	n.Status = StatusUnread
	return s.repo.Create(ctx, n)
}

// Nop discards notifications.
type Nop struct{}

func (Nop) Notify(context.Context, int64, string, string, string) {}
