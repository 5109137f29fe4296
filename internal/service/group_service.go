package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/metrics"
	"github.com/Kosench/shortlink-service/internal/model"
	"github.com/Kosench/shortlink-service/internal/repository"
	"github.com/Kosench/shortlink-service/internal/utils"
)

type GroupServiceConfig struct {
	BaseURL    string
	CodeLength int
	MaxRetries int
}

type GroupService struct {
	repo       repository.LinkGroupRepository
	metrics    *metrics.Metrics
	baseURL    string
	maxRetries int
	generate   CodeGenerator
	newID      func() string
}

func NewGroupService(repo repository.LinkGroupRepository, m *metrics.Metrics, cfg GroupServiceConfig) *GroupService {
	length := cfg.CodeLength
	if length <= 0 {
		length = utils.GroupCodeLength
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	return &GroupService{
		repo:       repo,
		metrics:    m,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		maxRetries: maxRetries,
		generate: func() (string, error) {
			return utils.GenerateShortCodeWithLength(length)
		},
		newID: uuid.NewString,
	}
}

func (s *GroupService) Create(ctx context.Context, req *model.CreateLinkGroupRequest) (*model.LinkGroup, error) {
	name := strings.TrimSpace(req.GroupName)
	if name == "" {
		return nil, apperrors.InvalidGroup("groupName", "group name is required")
	}

	links, err := s.buildLinks(req.Links)
	if err != nil {
		return nil, err
	}

	alias := strings.TrimSpace(req.CustomURL)
	if alias != "" {
		if err := utils.ValidateAlias(alias); err != nil {
			return nil, err
		}
	}

	theme := model.Theme{}
	if req.Theme != nil {
		theme = *req.Theme
	}

	group := &model.LinkGroup{
		GroupName:    name,
		Description:  strings.TrimSpace(req.Description),
		ProfileImage: strings.TrimSpace(req.ProfileImage),
		Links:        links,
		Theme:        theme.WithDefaults(),
	}

	if alias != "" {
		group.GroupURL = alias
		if err := s.repo.Create(ctx, group); err != nil {
			return nil, aliasConflict(alias, err)
		}
		return group, nil
	}

	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, apperrors.NewBusinessError(apperrors.CodeShortCodeGeneration, "failed to generate group url", err)
		}

		group.GroupURL = code
		err = s.repo.Create(ctx, group)
		if err == nil {
			return group, nil
		}
		if !errors.Is(err, apperrors.ErrShortCodeExists) {
			return nil, err
		}
	}

	return nil, apperrors.NewBusinessError(
		apperrors.CodeShortCodeGeneration,
		fmt.Sprintf("failed to generate unique group url after %d attempts", s.maxRetries),
		nil,
	)
}

// List returns every group, newest first.
func (s *GroupService) List(ctx context.Context) ([]model.LinkGroup, error) {
	return s.repo.List(ctx)
}

// GetByGroupURL is the JSON fetch. It does not count a view.
func (s *GroupService) GetByGroupURL(ctx context.Context, groupURL string) (*model.LinkGroup, error) {
	return s.repo.FindByGroupURL(ctx, groupURL)
}

// IncrementViews counts one page render and returns the group to render.
func (s *GroupService) IncrementViews(ctx context.Context, groupURL string) (*model.LinkGroup, error) {
	group, err := s.repo.IncrementViews(ctx, groupURL)
	if err != nil {
		return nil, err
	}

	s.metrics.GroupViews.Inc()

	return group, nil
}

// Update applies the non-nil fields of req.
func (s *GroupService) Update(ctx context.Context, id int64, req *model.UpdateLinkGroupRequest) (*model.LinkGroup, error) {
	var name string
	if req.GroupName != nil {
		name = strings.TrimSpace(*req.GroupName)
		if name == "" {
			return nil, apperrors.InvalidGroup("groupName", "group name cannot be empty")
		}
	}

	var links model.GroupLinks
	if req.Links != nil {
		var err error
		if links, err = s.buildLinks(*req.Links); err != nil {
			return nil, err
		}
	}

	var alias string
	if req.CustomURL != nil {
		alias = strings.TrimSpace(*req.CustomURL)
		if err := utils.ValidateAlias(alias); err != nil {
			return nil, err
		}
	}

	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.GroupName != nil {
		group.GroupName = name
	}
	if req.Description != nil {
		group.Description = strings.TrimSpace(*req.Description)
	}
	if req.ProfileImage != nil {
		group.ProfileImage = strings.TrimSpace(*req.ProfileImage)
	}
	if req.Links != nil {
		group.Links = links
	}
	if req.Theme != nil {
		group.Theme = req.Theme.WithDefaults()
	}
	if req.CustomURL != nil {
		group.GroupURL = alias
	}

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, aliasConflict(group.GroupURL, err)
	}

	return group, nil
}

func (s *GroupService) Delete(ctx context.Context, id int64) error {
	_, err := s.repo.Delete(ctx, id)
	return err
}

// AddLink appends a link at the end of the group.
func (s *GroupService) AddLink(ctx context.Context, id int64, req *model.AddGroupLinkRequest) (*model.LinkGroup, error) {
	link, err := s.buildLink(0, model.GroupLinkInput{Title: req.Title, URL: req.URL})
	if err != nil {
		return nil, err
	}

	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	link.Order = len(group.Links)
	group.Links = append(group.Links, link)

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// RemoveLink drops the link with linkID and renumbers the rest 0..n-1.
// An unknown linkID leaves the group untouched.
func (s *GroupService) RemoveLink(ctx context.Context, id int64, linkID string) (*model.LinkGroup, error) {
	group, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	remaining := make(model.GroupLinks, 0, len(group.Links))
	for _, link := range group.Links {
		if link.ID != linkID {
			remaining = append(remaining, link)
		}
	}

	if len(remaining) == len(group.Links) {
		return group, nil
	}

	group.Links = normalizeOrder(remaining)

	if err := s.repo.Update(ctx, group); err != nil {
		return nil, err
	}

	return group, nil
}

// PageURL is the public address of the rendered group page.
func (s *GroupService) PageURL(groupURL string) string {
	return fmt.Sprintf("%s/g/%s", s.baseURL, groupURL)
}

// buildLinks validates inputs, orders them by their requested order (stable,
// missing order keeps the input position) and renumbers them 0..n-1.
func (s *GroupService) buildLinks(inputs []model.GroupLinkInput) (model.GroupLinks, error) {
	links := make(model.GroupLinks, 0, len(inputs))
	seen := make(map[string]bool, len(inputs))
	for i, in := range inputs {
		link, err := s.buildLink(i, in)
		if err != nil {
			return nil, err
		}
		// ids must stay unique within the group for RemoveLink
		for seen[link.ID] {
			link.ID = s.newID()
		}
		seen[link.ID] = true
		links = append(links, link)
	}

	sort.SliceStable(links, func(i, j int) bool {
		return links[i].Order < links[j].Order
	})

	return normalizeOrder(links), nil
}

func (s *GroupService) buildLink(index int, in model.GroupLinkInput) (model.GroupLink, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return model.GroupLink{}, apperrors.InvalidGroup(fmt.Sprintf("links[%d].title", index), "link title is required")
	}

	rawURL := utils.SanitizeInput(in.URL)
	if err := utils.ValidateLinkURL(rawURL); err != nil {
		return model.GroupLink{}, err
	}

	order := index
	if in.Order != nil {
		order = *in.Order
	}

	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.newID()
	}

	return model.GroupLink{
		ID:    id,
		Title: title,
		URL:   rawURL,
		Order: order,
	}, nil
}

func normalizeOrder(links model.GroupLinks) model.GroupLinks {
	for i := range links {
		links[i].Order = i
	}
	return links
}

func aliasConflict(alias string, err error) error {
	if errors.Is(err, apperrors.ErrShortCodeExists) {
		return fmt.Errorf("group url '%s': %w", alias, apperrors.ErrAliasTaken)
	}
	return err
}
