package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"notification-service/internal/domain"
	"notification-service/pkg/xerrors"
)

const (
	templateCachePrefix = "notification:template:"
	templateCacheTTL    = 10 * time.Minute
)

// TemplateRepository persists notification templates. Templates are
// read-mostly, so lookups by code go through a redis cache.
type TemplateRepository interface {
	Create(ctx context.Context, t *domain.NotificationTemplate) (*domain.NotificationTemplate, error)
	Save(ctx context.Context, t *domain.NotificationTemplate) (*domain.NotificationTemplate, error)
	FindByCode(ctx context.Context, code string) (*domain.NotificationTemplate, error)
	FindByChannel(ctx context.Context, channel domain.Channel) ([]*domain.NotificationTemplate, error)
	FindActive(ctx context.Context) ([]*domain.NotificationTemplate, error)
}

type pgTemplateRepo struct {
	db     *pgxpool.Pool
	rdb    *redis.Client
	logger *zap.Logger
}

func NewTemplateRepository(db *pgxpool.Pool, rdb *redis.Client, logger *zap.Logger) TemplateRepository {
	return &pgTemplateRepo{db: db, rdb: rdb, logger: logger}
}

const templateColumns = `
	id, code, name, channel, subject, template, variables, status,
	created_at, created_by, updated_at, updated_by
`

func (r *pgTemplateRepo) Create(ctx context.Context, t *domain.NotificationTemplate) (*domain.NotificationTemplate, error) {
	query := `
		INSERT INTO notification_templates (
			id, code, name, channel, subject, template, variables, status,
			created_at, created_by, updated_at, updated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING ` + templateColumns

	row := r.db.QueryRow(ctx, query,
		t.ID, t.Code, t.Name, t.Channel, t.Subject, t.Template, t.Variables,
		t.Status, t.CreatedAt, t.CreatedBy, t.UpdatedAt, t.UpdatedBy,
	)
	return scanTemplate(row)
}

func (r *pgTemplateRepo) Save(ctx context.Context, t *domain.NotificationTemplate) (*domain.NotificationTemplate, error) {
	query := `
		UPDATE notification_templates SET
			name = $1, subject = $2, template = $3, variables = $4,
			status = $5, updated_at = $6, updated_by = $7
		WHERE code = $8
		RETURNING ` + templateColumns

	row := r.db.QueryRow(ctx, query,
		t.Name, t.Subject, t.Template, t.Variables, t.Status,
		t.UpdatedAt, t.UpdatedBy, t.Code,
	)
	saved, err := scanTemplate(row)
	if err != nil {
		return nil, err
	}
	r.invalidate(ctx, t.Code)
	return saved, nil
}

func (r *pgTemplateRepo) FindByCode(ctx context.Context, code string) (*domain.NotificationTemplate, error) {
	if cached := r.fromCache(ctx, code); cached != nil {
		return cached, nil
	}

	query := `SELECT ` + templateColumns + ` FROM notification_templates WHERE code = $1`
	t, err := scanTemplate(r.db.QueryRow(ctx, query, code))
	if err != nil {
		if errors.Is(err, xerrors.ErrNotFound) {
			return nil, xerrors.ErrTemplateNotFound
		}
		return nil, err
	}

	r.toCache(ctx, t)
	return t, nil
}

func (r *pgTemplateRepo) FindByChannel(ctx context.Context, channel domain.Channel) ([]*domain.NotificationTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM notification_templates WHERE channel = $1 ORDER BY code`
	rows, err := r.db.Query(ctx, query, channel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTemplates(rows)
}

func (r *pgTemplateRepo) FindActive(ctx context.Context) ([]*domain.NotificationTemplate, error) {
	query := `SELECT ` + templateColumns + ` FROM notification_templates WHERE status = $1 ORDER BY code`
	rows, err := r.db.Query(ctx, query, domain.TemplateActive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTemplates(rows)
}

// Cache helpers. Cache failures only cost a DB round trip, so they are logged
// and swallowed.

func (r *pgTemplateRepo) fromCache(ctx context.Context, code string) *domain.NotificationTemplate {
	if r.rdb == nil {
		return nil
	}
	raw, err := r.rdb.Get(ctx, templateCachePrefix+code).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("template cache read failed", zap.String("code", code), zap.Error(err))
		}
		return nil
	}
	var t domain.NotificationTemplate
	if err := json.Unmarshal(raw, &t); err != nil {
		r.logger.Warn("template cache entry corrupt", zap.String("code", code), zap.Error(err))
		return nil
	}
	return &t
}

func (r *pgTemplateRepo) toCache(ctx context.Context, t *domain.NotificationTemplate) {
	if r.rdb == nil {
		return
	}
	raw, err := json.Marshal(t)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, templateCachePrefix+t.Code, raw, templateCacheTTL).Err(); err != nil {
		r.logger.Warn("template cache write failed", zap.String("code", t.Code), zap.Error(err))
	}
}

func (r *pgTemplateRepo) invalidate(ctx context.Context, code string) {
	if r.rdb == nil {
		return
	}
	if err := r.rdb.Del(ctx, templateCachePrefix+code).Err(); err != nil {
		r.logger.Warn("template cache invalidation failed", zap.String("code", code), zap.Error(err))
	}
}

func scanTemplate(row pgx.Row) (*domain.NotificationTemplate, error) {
	var t domain.NotificationTemplate
	err := row.Scan(
		&t.ID,
		&t.Code,
		&t.Name,
		&t.Channel,
		&t.Subject,
		&t.Template,
		&t.Variables,
		&t.Status,
		&t.CreatedAt,
		&t.CreatedBy,
		&t.UpdatedAt,
		&t.UpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, xerrors.ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func scanTemplates(rows pgx.Rows) ([]*domain.NotificationTemplate, error) {
	var templates []*domain.NotificationTemplate
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		templates = append(templates, t)
	}
	if rows.Err() != nil {
		return nil, rows.Err()
	}
	return templates, nil
}
