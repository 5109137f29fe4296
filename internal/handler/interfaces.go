package handler

import (
	"context"

	"github.com/Kosench/shortlink-service/internal/model"
	"github.com/Kosench/shortlink-service/internal/service"
)

// ShortLinkService is implemented by *service.LinkService.
type ShortLinkService interface {
	CreateShortLink(ctx context.Context, req *model.CreateShortLinkRequest) (*model.ShortLink, service.Outcome, error)
	Resolve(ctx context.Context, code string) (*model.ShortLink, error)
	DeleteShortLink(ctx context.Context, id int64) error
	ToResponse(link *model.ShortLink) *model.ShortLinkResponse
}

// LinkGroupService is implemented by *service.GroupService.
type LinkGroupService interface {
	Create(ctx context.Context, req *model.CreateLinkGroupRequest) (*model.LinkGroup, error)
	List(ctx context.Context) ([]model.LinkGroup, error)
	GetByGroupURL(ctx context.Context, groupURL string) (*model.LinkGroup, error)
	IncrementViews(ctx context.Context, groupURL string) (*model.LinkGroup, error)
	Update(ctx context.Context, id int64, req *model.UpdateLinkGroupRequest) (*model.LinkGroup, error)
	Delete(ctx context.Context, id int64) error
	AddLink(ctx context.Context, id int64, req *model.AddGroupLinkRequest) (*model.LinkGroup, error)
	RemoveLink(ctx context.Context, id int64, linkID string) (*model.LinkGroup, error)
	PageURL(groupURL string) string
}

var (
	_ ShortLinkService = (*service.LinkService)(nil)
	_ LinkGroupService = (*service.GroupService)(nil)
)
