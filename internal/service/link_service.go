package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Kosench/shortlink-service/internal/cache"
	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/metrics"
	"github.com/Kosench/shortlink-service/internal/model"
	"github.com/Kosench/shortlink-service/internal/repository"
	"github.com/Kosench/shortlink-service/internal/utils"
)

// Outcome tells the caller whether CreateShortLink made a new record.
type Outcome int

const (
	OutcomeCreated  Outcome = iota
	OutcomeExisting         // found in the store by full URL
	OutcomeCached           // found in the dedup cache
)

func (o Outcome) String() string {
	switch o {
	case OutcomeCreated:
		return "created"
	case OutcomeExisting:
		return "existing"
	case OutcomeCached:
		return "cached"
	default:
		return "unknown"
	}
}

// CodeGenerator produces a random short code.
type CodeGenerator func() (string, error)

type LinkServiceConfig struct {
	BaseURL    string
	CodeLength int
	MaxRetries int
}

type LinkService struct {
	repo       repository.ShortLinkRepository
	cache      cache.Cache
	keys       *cache.KeyBuilder
	log        *zap.Logger
	metrics    *metrics.Metrics
	baseURL    string
	maxRetries int
	generate   CodeGenerator
}

func NewLinkService(
	repo repository.ShortLinkRepository,
	c cache.Cache,
	keys *cache.KeyBuilder,
	log *zap.Logger,
	m *metrics.Metrics,
	cfg LinkServiceConfig,
) *LinkService {
	length := cfg.CodeLength
	if length <= 0 {
		length = utils.DefaultShortCodeLength
	}

	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 5
	}

	if keys == nil {
		keys = cache.DefaultKeyBuilder
	}

	return &LinkService{
		repo:       repo,
		cache:      c,
		keys:       keys,
		log:        log,
		metrics:    m,
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		maxRetries: maxRetries,
		generate: func() (string, error) {
			return utils.GenerateShortCodeWithLength(length)
		},
	}
}

// CreateShortLink validates the request, then either returns an already
// shortened record for the same URL or creates a new one. Custom aliases
// bypass the dedup cache in both directions.
func (s *LinkService) CreateShortLink(ctx context.Context, req *model.CreateShortLinkRequest) (*model.ShortLink, Outcome, error) {
	fullURL := utils.SanitizeInput(req.FullURL)
	if err := utils.ValidateURL(fullURL); err != nil {
		return nil, OutcomeCreated, err
	}

	alias := strings.TrimSpace(req.CustomURL)
	if alias != "" {
		if err := utils.ValidateAlias(alias); err != nil {
			return nil, OutcomeCreated, err
		}
		link, err := s.createCustom(ctx, fullURL, alias)
		return link, OutcomeCreated, err
	}

	key := s.keys.Dedup(fullURL)

	var cached model.ShortLink
	err := s.cache.Get(ctx, key, &cached)
	switch {
	case err == nil:
		s.metrics.DedupLookups.WithLabelValues("cache_hit").Inc()
		return &cached, OutcomeCached, nil
	case !errors.Is(err, cache.ErrCacheMiss):
		s.cacheFailure("get", key, err)
	}

	existing, err := s.repo.FindByFullURL(ctx, fullURL)
	if err == nil {
		s.metrics.DedupLookups.WithLabelValues("store_hit").Inc()
		s.populate(ctx, key, existing)
		return existing, OutcomeExisting, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, OutcomeCreated, err
	}

	s.metrics.DedupLookups.WithLabelValues("miss").Inc()

	link, err := s.createGenerated(ctx, fullURL)
	if err != nil {
		return nil, OutcomeCreated, err
	}

	s.populate(ctx, key, link)

	return link, OutcomeCreated, nil
}

func (s *LinkService) createCustom(ctx context.Context, fullURL, alias string) (*model.ShortLink, error) {
	// Алиас всегда проверяем в базе, кэш не используется
	_, err := s.repo.FindByShortCode(ctx, alias)
	if err == nil {
		return nil, fmt.Errorf("alias '%s': %w", alias, apperrors.ErrAliasTaken)
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	link := &model.ShortLink{
		FullURL:   fullURL,
		ShortCode: alias,
		IsCustom:  true,
	}

	if err := s.repo.Create(ctx, link); err != nil {
		if errors.Is(err, apperrors.ErrShortCodeExists) {
			return nil, fmt.Errorf("alias '%s': %w", alias, apperrors.ErrAliasTaken)
		}
		return nil, err
	}

	s.metrics.LinksCreated.WithLabelValues("custom").Inc()

	return link, nil
}

func (s *LinkService) createGenerated(ctx context.Context, fullURL string) (*model.ShortLink, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		code, err := s.generate()
		if err != nil {
			return nil, apperrors.NewBusinessError(apperrors.CodeShortCodeGeneration, "failed to generate short code", err)
		}
		if utils.IsReservedAlias(code) {
			continue
		}

		link := &model.ShortLink{
			FullURL:   fullURL,
			ShortCode: code,
		}

		err = s.repo.Create(ctx, link)
		if err == nil {
			s.metrics.LinksCreated.WithLabelValues("generated").Inc()
			return link, nil
		}

		if !errors.Is(err, apperrors.ErrShortCodeExists) {
			return nil, err
		}

		s.log.Debug("short code collision, retrying",
			zap.String("short_code", code),
			zap.Int("attempt", attempt+1),
		)
	}

	return nil, apperrors.NewBusinessError(
		apperrors.CodeShortCodeGeneration,
		fmt.Sprintf("failed to generate unique short code after %d attempts", s.maxRetries),
		nil,
	)
}

// Resolve increments the click counter of code and returns the updated link.
// The store is always read directly.
func (s *LinkService) Resolve(ctx context.Context, code string) (*model.ShortLink, error) {
	if code == "" {
		return nil, fmt.Errorf("short code cannot be empty: %w", apperrors.ErrNotFound)
	}

	link, err := s.repo.IncrementClicks(ctx, code)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.metrics.Redirects.WithLabelValues("not_found").Inc()
		}
		return nil, err
	}

	s.metrics.Redirects.WithLabelValues("found").Inc()

	return link, nil
}

// DeleteShortLink removes the link and purges the dedup entry of its full URL.
func (s *LinkService) DeleteShortLink(ctx context.Context, id int64) error {
	link, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}

	key := s.keys.Dedup(link.FullURL)
	if err := s.cache.Delete(ctx, key); err != nil {
		s.cacheFailure("delete", key, err)
	}

	return nil
}

func (s *LinkService) ToResponse(link *model.ShortLink) *model.ShortLinkResponse {
	return &model.ShortLinkResponse{
		ID:        link.ID,
		FullURL:   link.FullURL,
		ShortCode: link.ShortCode,
		ShortURL:  s.BuildShortURL(link.ShortCode),
		Clicks:    link.Clicks,
		CreatedAt: link.CreatedAt,
	}
}

func (s *LinkService) BuildShortURL(shortCode string) string {
	return fmt.Sprintf("%s/%s", s.baseURL, shortCode)
}

func (s *LinkService) populate(ctx context.Context, key string, link *model.ShortLink) {
	if err := s.cache.Set(ctx, key, link); err != nil {
		s.cacheFailure("set", key, err)
	}
}

func (s *LinkService) cacheFailure(op, key string, err error) {
	s.metrics.CacheFailures.WithLabelValues(op).Inc()
	s.log.Warn("cache operation failed, continuing without cache",
		zap.String("op", op),
		zap.String("key", key),
		zap.Error(err),
	)
}
