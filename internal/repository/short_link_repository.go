package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/Kosench/shortlink-service/internal/database"
	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/model"
)

const shortLinkColumns = `id, full_url, short_code, is_custom, clicks, created_at`

type PostgresShortLinkRepository struct {
	db *sqlx.DB
}

func NewPostgresShortLinkRepository(db *sqlx.DB) *PostgresShortLinkRepository {
	return &PostgresShortLinkRepository{
		db: db,
	}
}

// Create создает новую запись
func (r *PostgresShortLinkRepository) Create(ctx context.Context, link *model.ShortLink) error {
	// Атомарная вставка
	query := `
	INSERT INTO short_links (full_url, short_code, is_custom, created_at)
	VALUES ($1, $2, $3, $4)
	ON CONFLICT (short_code) DO NOTHING
	RETURNING id
	`

	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	err := r.db.QueryRowxContext(
		ctx,
		query,
		link.FullURL,
		link.ShortCode,
		link.IsCustom,
		link.CreatedAt,
	).Scan(&link.ID)

	if errors.Is(err, sql.ErrNoRows) || database.IsUniqueViolation(err) {
		return fmt.Errorf("short code '%s': %w", link.ShortCode, apperrors.ErrShortCodeExists)
	}

	if err != nil {
		return apperrors.StoreError("failed to create short link", err)
	}

	return nil
}

func (r *PostgresShortLinkRepository) FindByFullURL(ctx context.Context, fullURL string) (*model.ShortLink, error) {
	query := `
	SELECT ` + shortLinkColumns + `
	FROM short_links
	WHERE full_url = $1 AND is_custom = FALSE
	ORDER BY created_at DESC, id DESC
	LIMIT 1
	`

	return r.getOne(ctx, "find short link by full URL", query, fullURL)
}

func (r *PostgresShortLinkRepository) FindByShortCode(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	query := `
	SELECT ` + shortLinkColumns + `
	FROM short_links
	WHERE short_code = $1
	`

	return r.getOne(ctx, "find short link by code", query, shortCode)
}

func (r *PostgresShortLinkRepository) IncrementClicks(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	query := `
	UPDATE short_links
	SET clicks = clicks + 1
	WHERE short_code = $1
	RETURNING ` + shortLinkColumns

	return r.getOne(ctx, "increment clicks", query, shortCode)
}

func (r *PostgresShortLinkRepository) Delete(ctx context.Context, id int64) (*model.ShortLink, error) {
	query := `
	DELETE FROM short_links
	WHERE id = $1
	RETURNING ` + shortLinkColumns

	return r.getOne(ctx, "delete short link", query, id)
}

func (r *PostgresShortLinkRepository) getOne(ctx context.Context, op, query string, args ...any) (*model.ShortLink, error) {
	link := &model.ShortLink{}

	err := r.db.GetContext(ctx, link, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}

	if err != nil {
		return nil, apperrors.StoreError("failed to "+op, err)
	}

	return link, nil
}
