package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/pkg/xerrors"
)

// PreferenceRepository persists per-user notification preferences.
type PreferenceRepository interface {
	Upsert(ctx context.Context, p *domain.NotificationPreference) (*domain.NotificationPreference, error)
	FindByUserID(ctx context.Context, userID string) (*domain.NotificationPreference, error)
}

type pgPreferenceRepo struct {
	db     *pgxpool.Pool
	logger *zap.Logger
}

func NewPreferenceRepository(db *pgxpool.Pool, logger *zap.Logger) PreferenceRepository {
	return &pgPreferenceRepo{db: db, logger: logger}
}

const preferenceColumns = `
	id, user_id, preferences, phone_number, whatsapp_number, email,
	enable_sms, enable_whatsapp, enable_email, enable_in_app,
	quiet_hours_start, quiet_hours_end, updated_at
`

func (r *pgPreferenceRepo) Upsert(ctx context.Context, p *domain.NotificationPreference) (*domain.NotificationPreference, error) {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notification_preferences (
			id, user_id, preferences, phone_number, whatsapp_number, email,
			enable_sms, enable_whatsapp, enable_email, enable_in_app,
			quiet_hours_start, quiet_hours_end, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id) DO UPDATE SET
			preferences = EXCLUDED.preferences,
			phone_number = EXCLUDED.phone_number,
			whatsapp_number = EXCLUDED.whatsapp_number,
			email = EXCLUDED.email,
			enable_sms = EXCLUDED.enable_sms,
			enable_whatsapp = EXCLUDED.enable_whatsapp,
			enable_email = EXCLUDED.enable_email,
			enable_in_app = EXCLUDED.enable_in_app,
			quiet_hours_start = EXCLUDED.quiet_hours_start,
			quiet_hours_end = EXCLUDED.quiet_hours_end,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + preferenceColumns

	row := r.db.QueryRow(ctx, query,
		p.ID,
		p.UserID,
		p.Preferences,
		p.PhoneNumber,
		p.WhatsappNumber,
		p.Email,
		p.EnableSMS,
		p.EnableWhatsapp,
		p.EnableEmail,
		p.EnableInApp,
		p.QuietHoursStart,
		p.QuietHoursEnd,
		p.UpdatedAt,
	)
	return scanPreference(row)
}

func (r *pgPreferenceRepo) FindByUserID(ctx context.Context, userID string) (*domain.NotificationPreference, error) {
	query := `SELECT ` + preferenceColumns + ` FROM notification_preferences WHERE user_id = $1`
	p, err := scanPreference(r.db.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrPreferenceNotFound
		}
		return nil, err
	}
	return p, nil
}

func scanPreference(row pgx.Row) (*domain.NotificationPreference, error) {
	var p domain.NotificationPreference
	err := row.Scan(
		&p.ID,
		&p.UserID,
		&p.Preferences,
		&p.PhoneNumber,
		&p.WhatsappNumber,
		&p.Email,
		&p.EnableSMS,
		&p.EnableWhatsapp,
		&p.EnableEmail,
		&p.EnableInApp,
		&p.QuietHoursStart,
		&p.QuietHoursEnd,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
