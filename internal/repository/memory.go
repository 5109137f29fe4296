package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/model"
)

// MemoryShortLinkRepository keeps short links in process memory. It is used
// by the "memory" database driver and in tests.
type MemoryShortLinkRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*model.ShortLink
	byCode map[string]int64
}

func NewMemoryShortLinkRepository() *MemoryShortLinkRepository {
	return &MemoryShortLinkRepository{
		byID:   make(map[int64]*model.ShortLink),
		byCode: make(map[string]int64),
	}
}

func (r *MemoryShortLinkRepository) Create(_ context.Context, link *model.ShortLink) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCode[link.ShortCode]; ok {
		return fmt.Errorf("short code '%s': %w", link.ShortCode, apperrors.ErrShortCodeExists)
	}

	r.nextID++
	link.ID = r.nextID
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}

	stored := *link
	r.byID[stored.ID] = &stored
	r.byCode[stored.ShortCode] = stored.ID

	return nil
}

func (r *MemoryShortLinkRepository) FindByFullURL(_ context.Context, fullURL string) (*model.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var newest *model.ShortLink
	for _, link := range r.byID {
		if link.IsCustom || link.FullURL != fullURL {
			continue
		}
		if newest == nil || link.CreatedAt.After(newest.CreatedAt) ||
			(link.CreatedAt.Equal(newest.CreatedAt) && link.ID > newest.ID) {
			newest = link
		}
	}

	if newest == nil {
		return nil, fmt.Errorf("find short link by full URL: %w", apperrors.ErrNotFound)
	}

	found := *newest
	return &found, nil
}

func (r *MemoryShortLinkRepository) FindByShortCode(_ context.Context, shortCode string) (*model.ShortLink, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	link, ok := r.lookupCode(shortCode)
	if !ok {
		return nil, fmt.Errorf("find short link by code: %w", apperrors.ErrNotFound)
	}

	found := *link
	return &found, nil
}

func (r *MemoryShortLinkRepository) IncrementClicks(_ context.Context, shortCode string) (*model.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.lookupCode(shortCode)
	if !ok {
		return nil, fmt.Errorf("increment clicks: %w", apperrors.ErrNotFound)
	}

	link.Clicks++
	updated := *link
	return &updated, nil
}

func (r *MemoryShortLinkRepository) Delete(_ context.Context, id int64) (*model.ShortLink, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	link, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("delete short link: %w", apperrors.ErrNotFound)
	}

	delete(r.byID, id)
	delete(r.byCode, link.ShortCode)

	return link, nil
}

func (r *MemoryShortLinkRepository) lookupCode(shortCode string) (*model.ShortLink, bool) {
	id, ok := r.byCode[shortCode]
	if !ok {
		return nil, false
	}
	return r.byID[id], true
}

// MemoryLinkGroupRepository keeps link groups in process memory.
type MemoryLinkGroupRepository struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]*model.LinkGroup
}

func NewMemoryLinkGroupRepository() *MemoryLinkGroupRepository {
	return &MemoryLinkGroupRepository{
		byID: make(map[int64]*model.LinkGroup),
	}
}

func (r *MemoryLinkGroupRepository) Create(_ context.Context, group *model.LinkGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.findURL(group.GroupURL, 0) != nil {
		return fmt.Errorf("group url '%s': %w", group.GroupURL, apperrors.ErrShortCodeExists)
	}

	r.nextID++
	now := time.Now().UTC()
	group.ID = r.nextID
	group.CreatedAt = now
	group.UpdatedAt = now

	r.byID[group.ID] = cloneGroup(group)

	return nil
}

func (r *MemoryLinkGroupRepository) FindByID(_ context.Context, id int64) (*model.LinkGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("find link group: %w", apperrors.ErrNotFound)
	}

	return cloneGroup(group), nil
}

func (r *MemoryLinkGroupRepository) FindByGroupURL(_ context.Context, groupURL string) (*model.LinkGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	group := r.findURL(groupURL, 0)
	if group == nil {
		return nil, fmt.Errorf("find link group by url: %w", apperrors.ErrNotFound)
	}

	return cloneGroup(group), nil
}

func (r *MemoryLinkGroupRepository) List(_ context.Context) ([]model.LinkGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]model.LinkGroup, 0, len(r.byID))
	for _, group := range r.byID {
		groups = append(groups, *cloneGroup(group))
	}

	sort.Slice(groups, func(i, j int) bool {
		if groups[i].CreatedAt.Equal(groups[j].CreatedAt) {
			return groups[i].ID > groups[j].ID
		}
		return groups[i].CreatedAt.After(groups[j].CreatedAt)
	})

	return groups, nil
}

func (r *MemoryLinkGroupRepository) Update(_ context.Context, group *model.LinkGroup) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.byID[group.ID]
	if !ok {
		return fmt.Errorf("link group %d: %w", group.ID, apperrors.ErrNotFound)
	}

	if r.findURL(group.GroupURL, group.ID) != nil {
		return fmt.Errorf("group url '%s': %w", group.GroupURL, apperrors.ErrShortCodeExists)
	}

	group.Views = existing.Views
	group.CreatedAt = existing.CreatedAt
	group.UpdatedAt = time.Now().UTC()

	r.byID[group.ID] = cloneGroup(group)

	return nil
}

func (r *MemoryLinkGroupRepository) Delete(_ context.Context, id int64) (*model.LinkGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group, ok := r.byID[id]
	if !ok {
		return nil, fmt.Errorf("delete link group: %w", apperrors.ErrNotFound)
	}

	delete(r.byID, id)

	return group, nil
}

func (r *MemoryLinkGroupRepository) IncrementViews(_ context.Context, groupURL string) (*model.LinkGroup, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	group := r.findURL(groupURL, 0)
	if group == nil {
		return nil, fmt.Errorf("increment views: %w", apperrors.ErrNotFound)
	}

	group.Views++

	return cloneGroup(group), nil
}

// findURL returns the group holding groupURL, ignoring the group with id skip.
func (r *MemoryLinkGroupRepository) findURL(groupURL string, skip int64) *model.LinkGroup {
	for id, group := range r.byID {
		if id != skip && group.GroupURL == groupURL {
			return group
		}
	}
	return nil
}

func cloneGroup(group *model.LinkGroup) *model.LinkGroup {
	c := *group
	if group.Links != nil {
		c.Links = make(model.GroupLinks, len(group.Links))
		copy(c.Links, group.Links)
	}
	return &c
}
