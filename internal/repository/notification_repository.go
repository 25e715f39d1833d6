package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"leadflow/internal/db"
	"leadflow/internal/model"
)

// NotificationRepository defines notification persistence operations.
type NotificationRepository interface {
	CreateBatch(ctx context.Context, notifications []model.Notification) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int64, error)
	// MarkRead flips one unread notification owned by userID.
	MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (int64, error)
	// MarkAllRead flips every unread notification owned by userID.
	MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error)
}

type notificationRepository struct {
	conn db.Conn
}

// NewNotificationRepository creates a new notification repository.
func NewNotificationRepository(conn db.Conn) NotificationRepository {
	return &notificationRepository{conn: conn}
}

// CreateBatch inserts notifications in chunks of 100.
func (r *notificationRepository) CreateBatch(ctx context.Context, notifications []model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return err
	}
	return gormDB.CreateInBatches(notifications, 100).Error
}

func (r *notificationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Notification, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var n model.Notification
	if err := gormDB.Where("id = ?", id).First(&n).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *notificationRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]model.Notification, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return nil, err
	}
	var out []model.Notification
	if err := gormDB.Where("user_id = ?", userID).
		Order("created_at DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID uuid.UUID) (int64, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	var n int64
	err = gormDB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).Count(&n).Error
	return n, err
}

func (r *notificationRepository) MarkRead(ctx context.Context, userID, id uuid.UUID, at time.Time) (int64, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := gormDB.Model(&model.Notification{}).
		Where("id = ? AND user_id = ? AND is_read = ?", id, userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID uuid.UUID, at time.Time) (int64, error) {
	gormDB, err := r.conn.DB(ctx)
	if err != nil {
		return 0, err
	}
	res := gormDB.Model(&model.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Updates(map[string]interface{}{"is_read": true, "read_at": at})
	return res.RowsAffected, res.Error
}
