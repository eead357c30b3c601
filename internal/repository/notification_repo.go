package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/pkg/xerrors"
)

// retentionPeriod is surfaced to storage as expires_at; cleanup itself is an
// external retention job.
const retentionPeriod = 180 * 24 * time.Hour

// NotificationRepository persists the Notification aggregate.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	Save(ctx context.Context, n *domain.Notification) (*domain.Notification, error)
	FindByID(ctx context.Context, id string) (*domain.Notification, error)
	FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error)
	FindByStatus(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Notification, error)
	FindUnreadByUserID(ctx context.Context, userID string) ([]*domain.Notification, error)
}

type pgNotificationRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewNotificationRepository(db *pgxpool.Pool, logger *zap.Logger) NotificationRepository {
	return &pgNotificationRepo{db: db, logger: logger}
}

const notificationColumns = `
	id, user_id, channel, recipient, type, subject, message, status, priority,
	template_id, template_params, provider_name, provider_id, error_message,
	retry_count, scheduled_at, sent_at, delivered_at, read_at, created_at,
	created_by, version
`

func (r *pgNotificationRepo) Create(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	query := `
		INSERT INTO notifications (
			id, user_id, channel, recipient, type, subject, message, status, priority,
			template_id, template_params, provider_name, provider_id, error_message,
			retry_count, scheduled_at, sent_at, delivered_at, read_at, created_at,
			created_by, expires_at, version
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9,
			$10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20,
			$21, $22, 1
		)
		RETURNING ` + notificationColumns

	row := r.db.QueryRow(ctx, query,
		n.ID,
		n.UserID,
		n.Channel,
		n.Recipient,
		n.Type,
		n.Subject,
		n.Message,
		n.Status,
		n.Priority,
		n.TemplateID,
		n.TemplateParams,
		n.ProviderName,
		n.ProviderID,
		n.ErrorMessage,
		n.RetryCount,
		n.ScheduledAt,
		n.SentAt,
		n.DeliveredAt,
		n.ReadAt,
		n.CreatedAt,
		n.CreatedBy,
		n.CreatedAt.Add(retentionPeriod),
	)

	created, err := scanNotification(row)
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Save updates an existing notification, guarded by the version column so a
// stale concurrent retry loses instead of silently overwriting.
func (r *pgNotificationRepo) Save(ctx context.Context, n *domain.Notification) (*domain.Notification, error) {
	query := `
		UPDATE notifications SET
			subject = $1, message = $2, status = $3,
			provider_name = $4, provider_id = $5, error_message = $6,
			retry_count = $7, sent_at = $8, delivered_at = $9, read_at = $10,
			version = version + 1
		WHERE id = $11 AND version = $12
		RETURNING ` + notificationColumns

	row := r.db.QueryRow(ctx, query,
		n.Subject,
		n.Message,
		n.Status,
		n.ProviderName,
		n.ProviderID,
		n.ErrorMessage,
		n.RetryCount,
		n.SentAt,
		n.DeliveredAt,
		n.ReadAt,
		n.ID,
		n.Version,
	)

	saved, err := scanNotification(row)
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			// Either the row is gone or the version moved under us.
			r.logger.Warn("stale notification write rejected",
				zap.String("id", n.ID),
				zap.Int64("version", n.Version))
			return nil, xerrors.ErrStaleAggregate
		}
		return nil, err
	}
	return saved, nil
}

func (r *pgNotificationRepo) FindByID(ctx context.Context, id string) (*domain.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`
	return scanNotification(r.db.QueryRow(ctx, query, id))
}

func (r *pgNotificationRepo) FindByUserID(ctx context.Context, userID string, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *pgNotificationRepo) FindByStatus(ctx context.Context, status domain.Status, limit, offset int) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE status = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, status, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func (r *pgNotificationRepo) FindUnreadByUserID(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE user_id = $1
		  AND read_at IS NULL
		ORDER BY created_at DESC
	`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanNotifications(rows)
}

func scanNotification(row pgx.Row) (*domain.Notification, error) {
	var n domain.Notification
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.Channel,
		&n.Recipient,
		&n.Type,
		&n.Subject,
		&n.Message,
		&n.Status,
		&n.Priority,
		&n.TemplateID,
		&n.TemplateParams,
		&n.ProviderName,
		&n.ProviderID,
		&n.ErrorMessage,
		&n.RetryCount,
		&n.ScheduledAt,
		&n.SentAt,
		&n.DeliveredAt,
		&n.ReadAt,
		&n.CreatedAt,
		&n.CreatedBy,
		&n.Version,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func scanNotifications(rows pgx.Rows) ([]*domain.Notification, error) {
	var notifications []*domain.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, err
		}
		notifications = append(notifications, n)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return notifications, nil
}
