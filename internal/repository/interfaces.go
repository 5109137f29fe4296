package repository

import (
	"context"

	"github.com/Kosench/shortlink-service/internal/model"
)

// ShortLinkRepository is the durable store of short links. Lookups that find
// nothing return an error wrapping apperrors.ErrNotFound.
type ShortLinkRepository interface {
	// Create inserts link and fills ID and CreatedAt. It returns
	// apperrors.ErrShortCodeExists when the short code is taken.
	Create(ctx context.Context, link *model.ShortLink) error
	// FindByFullURL returns the newest non-custom link for fullURL.
	FindByFullURL(ctx context.Context, fullURL string) (*model.ShortLink, error)
	FindByShortCode(ctx context.Context, shortCode string) (*model.ShortLink, error)
	// IncrementClicks atomically adds one click and returns the updated link.
	IncrementClicks(ctx context.Context, shortCode string) (*model.ShortLink, error)
	Delete(ctx context.Context, id int64) (*model.ShortLink, error)
}

type LinkGroupRepository interface {
	// Create returns apperrors.ErrShortCodeExists when the group url is taken.
	Create(ctx context.Context, group *model.LinkGroup) error
	FindByID(ctx context.Context, id int64) (*model.LinkGroup, error)
	FindByGroupURL(ctx context.Context, groupURL string) (*model.LinkGroup, error)
	// List returns all groups, newest first.
	List(ctx context.Context) ([]model.LinkGroup, error)
	// Update persists every mutable field of group.
	Update(ctx context.Context, group *model.LinkGroup) error
	Delete(ctx context.Context, id int64) (*model.LinkGroup, error)
	IncrementViews(ctx context.Context, groupURL string) (*model.LinkGroup, error)
}
