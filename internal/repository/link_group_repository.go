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

const linkGroupColumns = `id, group_name, description, profile_image, group_url, links, theme, views, created_at, updated_at`

type PostgresLinkGroupRepository struct {
	db *sqlx.DB
}

func NewPostgresLinkGroupRepository(db *sqlx.DB) *PostgresLinkGroupRepository {
	return &PostgresLinkGroupRepository{
		db: db,
	}
}

func (r *PostgresLinkGroupRepository) Create(ctx context.Context, group *model.LinkGroup) error {
	query := `
	INSERT INTO link_groups (group_name, description, profile_image, group_url, links, theme, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
	ON CONFLICT (group_url) DO NOTHING
	RETURNING id
	`

	now := time.Now().UTC()
	group.CreatedAt = now
	group.UpdatedAt = now

	err := r.db.QueryRowxContext(
		ctx,
		query,
		group.GroupName,
		group.Description,
		group.ProfileImage,
		group.GroupURL,
		group.Links,
		group.Theme,
		now,
	).Scan(&group.ID)

	if errors.Is(err, sql.ErrNoRows) || database.IsUniqueViolation(err) {
		return fmt.Errorf("group url '%s': %w", group.GroupURL, apperrors.ErrShortCodeExists)
	}

	if err != nil {
		return apperrors.StoreError("failed to create link group", err)
	}

	return nil
}

func (r *PostgresLinkGroupRepository) FindByID(ctx context.Context, id int64) (*model.LinkGroup, error) {
	query := `SELECT ` + linkGroupColumns + ` FROM link_groups WHERE id = $1`

	return r.getOne(ctx, "find link group", query, id)
}

func (r *PostgresLinkGroupRepository) FindByGroupURL(ctx context.Context, groupURL string) (*model.LinkGroup, error) {
	query := `SELECT ` + linkGroupColumns + ` FROM link_groups WHERE group_url = $1`

	return r.getOne(ctx, "find link group by url", query, groupURL)
}

func (r *PostgresLinkGroupRepository) List(ctx context.Context) ([]model.LinkGroup, error) {
	query := `SELECT ` + linkGroupColumns + ` FROM link_groups ORDER BY created_at DESC, id DESC`

	groups := []model.LinkGroup{}
	if err := r.db.SelectContext(ctx, &groups, query); err != nil {
		return nil, apperrors.StoreError("failed to list link groups", err)
	}

	return groups, nil
}

func (r *PostgresLinkGroupRepository) Update(ctx context.Context, group *model.LinkGroup) error {
	query := `
	UPDATE link_groups
	SET group_name = $1,
	    description = $2,
	    profile_image = $3,
	    group_url = $4,
	    links = $5,
	    theme = $6,
	    updated_at = $7
	WHERE id = $8
	RETURNING views, created_at, updated_at
	`

	err := r.db.QueryRowxContext(
		ctx,
		query,
		group.GroupName,
		group.Description,
		group.ProfileImage,
		group.GroupURL,
		group.Links,
		group.Theme,
		time.Now().UTC(),
		group.ID,
	).Scan(&group.Views, &group.CreatedAt, &group.UpdatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("link group %d: %w", group.ID, apperrors.ErrNotFound)
	}

	if database.IsUniqueViolation(err) {
		return fmt.Errorf("group url '%s': %w", group.GroupURL, apperrors.ErrShortCodeExists)
	}

	if err != nil {
		return apperrors.StoreError("failed to update link group", err)
	}

	return nil
}

func (r *PostgresLinkGroupRepository) Delete(ctx context.Context, id int64) (*model.LinkGroup, error) {
	query := `DELETE FROM link_groups WHERE id = $1 RETURNING ` + linkGroupColumns

	return r.getOne(ctx, "delete link group", query, id)
}

func (r *PostgresLinkGroupRepository) IncrementViews(ctx context.Context, groupURL string) (*model.LinkGroup, error) {
	query := `
	UPDATE link_groups
	SET views = views + 1
	WHERE group_url = $1
	RETURNING ` + linkGroupColumns

	return r.getOne(ctx, "increment views", query, groupURL)
}

func (r *PostgresLinkGroupRepository) getOne(ctx context.Context, op, query string, args ...any) (*model.LinkGroup, error) {
	group := &model.LinkGroup{}

	err := r.db.GetContext(ctx, group, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, apperrors.ErrNotFound)
	}

	if err != nil {
		return nil, apperrors.StoreError("failed to "+op, err)
	}

	return group, nil
}
