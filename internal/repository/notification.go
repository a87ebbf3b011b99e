package repository

import (
	"context"

	"github.com/goalpulse/goalpulse/internal/model"
	"github.com/jmoiron/sqlx"
)

type NotificationRepository interface {
	Create(ctx context.Context, notifications []*model.Notification) error
	ByUser(ctx context.Context, userID string, limit int) ([]*model.Notification, error)
}

type notificationRepository struct {
	db *sqlx.DB
}

func NewNotificationRepository(db *sqlx.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notifications []*model.Notification) error {
	if len(notifications) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO notifications (id, user_id, goal_id, kind, status, error, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, n := range notifications {
		_, err = tx.ExecContext(ctx, query, n.ID, n.UserID, n.GoalID, n.Kind, n.Status, n.Error, n.CreatedAt.UTC())
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (r *notificationRepository) ByUser(ctx context.Context, userID string, limit int) ([]*model.Notification, error) {
	if limit <= 0 {
		limit = 50
	}

	var notifications []*model.Notification
	query := `SELECT * FROM notifications WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`

	err := r.db.SelectContext(ctx, &notifications, query, userID, limit)
	if err != nil {
		return nil, err
	}

	return notifications, nil
}
