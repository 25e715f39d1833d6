package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"leadflow/internal/model"
	"leadflow/internal/repository"
)

// Deliverer pushes a persisted notification out of band (email, SMS, push).
type Deliverer interface {
	Deliver(ctx context.Context, n model.Notification) error
}

// LogDeliverer only records that a notification would have been delivered.
type LogDeliverer struct {
	Logger *zap.Logger
}

// Deliver implements Deliverer.
func (d LogDeliverer) Deliver(ctx context.Context, n model.Notification) error {
	d.Logger.Debug("notification delivery skipped",
		zap.String("notification_id", n.ID.String()),
		zap.String("user_id", n.UserID.String()),
		zap.String("type", string(n.Type)))
	return nil
}

// Notifier fans domain events out as Notification rows. It is best-effort:
// every method logs and swallows its own failures so callers' writes, which
// have already committed, are never affected.
type Notifier struct {
	users         repository.UserRepository
	notifications repository.NotificationRepository
	deliverer     Deliverer
	logger        *zap.Logger
}

// NewNotifier creates a notifier.
func NewNotifier(
	users repository.UserRepository,
	notifications repository.NotificationRepository,
	deliverer Deliverer,
	logger *zap.Logger,
) *Notifier {
	return &Notifier{
		users:         users,
		notifications: notifications,
		deliverer:     deliverer,
		logger:        logger,
	}
}

// NoteAdded writes one system notification per admin for a new note on lead.
// It returns how many notifications were stored.
func (n *Notifier) NoteAdded(ctx context.Context, lead *model.Lead, author *model.User) int {
	ctx = context.WithoutCancel(ctx)
	log := n.logger.With(zap.String("lead_id", lead.ID.String()))

	admins, err := n.users.ListByRole(ctx, model.RoleAdmin)
	if err != nil {
		log.Error("note fan-out: list admins failed", zap.Error(err))
		return 0
	}
	if len(admins) == 0 {
		return 0
	}

	by := "a team member"
	if author != nil && author.Name != "" {
		by = author.Name
	}
	message := fmt.Sprintf("New note added to lead %q by %s", lead.Name, by)

	batch := make([]model.Notification, 0, len(admins))
	for _, admin := range admins {
		batch = append(batch, model.Notification{
			ID:      uuid.New(),
			UserID:  admin.ID,
			Type:    model.NotificationTypeSystem,
			Message: message,
			IsRead:  false,
		})
	}
	return n.store(ctx, log, batch)
}

// LeadAssigned tells the new assignee that lead was handed to them.
func (n *Notifier) LeadAssigned(ctx context.Context, lead *model.Lead, assigneeID uuid.UUID, actor *model.User) int {
	ctx = context.WithoutCancel(ctx)
	log := n.logger.With(zap.String("lead_id", lead.ID.String()))

	by := "a manager"
	if actor != nil && actor.Name != "" {
		by = actor.Name
	}
	return n.store(ctx, log, []model.Notification{{
		ID:      uuid.New(),
		UserID:  assigneeID,
		Type:    model.NotificationTypeAssignment,
		Message: fmt.Sprintf("Lead %q was assigned to you by %s", lead.Name, by),
		IsRead:  false,
	}})
}

func (n *Notifier) store(ctx context.Context, log *zap.Logger, batch []model.Notification) int {
	if err := n.notifications.CreateBatch(ctx, batch); err != nil {
		log.Error("notification fan-out failed", zap.Int("recipients", len(batch)), zap.Error(err))
		return 0
	}
	for _, item := range batch {
		if err := n.deliverer.Deliver(ctx, item); err != nil {
			log.Warn("notification delivery failed",
				zap.String("notification_id", item.ID.String()), zap.Error(err))
		}
	}
	return len(batch)
}
