package notifications

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type NotificationRepository interface {
	Create(ctx context.Context, n Notification) (Notification, error)
	ListByUser(ctx context.Context, userID int64) ([]Notification, error)
	MarkAsRead(ctx context.Context, userID int64, ids []int64) (int64, error)
}

type postgresNotificationRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresNotificationRepository(pool *pgxpool.Pool) NotificationRepository {
	return &postgresNotificationRepository{pool: pool}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, n Notification) (Notification, error) {
	query := `INSERT INTO notifications (user_id, type, title, status, description, date)
              VALUES ($1, $2, $3, $4, $5, NOW())
              RETURNING id, user_id, type, title, status, description, date`
	var out Notification
	err := r.pool.QueryRow(ctx, query, n.UserID, n.Type, n.Title, n.Status, n.Description).
		Scan(&out.ID, &out.UserID, &out.Type, &out.Title, &out.Status, &out.Description, &out.Date)
	if err != nil {
		return Notification{}, err
	}
	return out, nil
}

func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID int64) ([]Notification, error) {
	query := `SELECT id, user_id, type, title, status, description, date
              FROM notifications
              WHERE user_id = $1
              ORDER BY date DESC, id DESC`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := make([]Notification, 0)
	for rows.Next() {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Title, &n.Status, &n.Description, &n.Date); err != nil {
			return nil, err
		}
		list = append(list, n)
	}
	return list, rows.Err()
}

// MarkAsRead only touches rows owned by userID and returns how many changed.
func (r *postgresNotificationRepository) MarkAsRead(ctx context.Context, userID int64, ids []int64) (int64, error) {
	cmd, err := r.pool.Exec(ctx,
		`UPDATE notifications SET status = 'read' WHERE user_id = $1 AND id = ANY($2) AND status <> 'read'`,
		userID, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}
