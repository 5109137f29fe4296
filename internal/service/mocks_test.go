package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap/zaptest"

	"github.com/Kosench/shortlink-service/internal/cache"
	apperrors "github.com/Kosench/shortlink-service/internal/errors"
	"github.com/Kosench/shortlink-service/internal/metrics"
	"github.com/Kosench/shortlink-service/internal/model"
	"github.com/Kosench/shortlink-service/internal/repository"
)

var errStoreDown = errors.New("connection refused")

// countingLinkRepo wraps the in-memory store and records every call.
type countingLinkRepo struct {
	*repository.MemoryShortLinkRepository

	calls      int
	creates    int
	failFind   bool
	collisions int // first N creates report a taken code
}

func newCountingLinkRepo() *countingLinkRepo {
	return &countingLinkRepo{MemoryShortLinkRepository: repository.NewMemoryShortLinkRepository()}
}

func (m *countingLinkRepo) Create(ctx context.Context, link *model.ShortLink) error {
	m.calls++
	m.creates++
	if m.collisions > 0 {
		m.collisions--
		return fmt.Errorf("short code '%s': %w", link.ShortCode, apperrors.ErrShortCodeExists)
	}
	return m.MemoryShortLinkRepository.Create(ctx, link)
}

func (m *countingLinkRepo) FindByFullURL(ctx context.Context, fullURL string) (*model.ShortLink, error) {
	m.calls++
	if m.failFind {
		return nil, errStoreDown
	}
	return m.MemoryShortLinkRepository.FindByFullURL(ctx, fullURL)
}

func (m *countingLinkRepo) FindByShortCode(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	m.calls++
	return m.MemoryShortLinkRepository.FindByShortCode(ctx, shortCode)
}

func (m *countingLinkRepo) IncrementClicks(ctx context.Context, shortCode string) (*model.ShortLink, error) {
	m.calls++
	return m.MemoryShortLinkRepository.IncrementClicks(ctx, shortCode)
}

func (m *countingLinkRepo) Delete(ctx context.Context, id int64) (*model.ShortLink, error) {
	m.calls++
	return m.MemoryShortLinkRepository.Delete(ctx, id)
}

// mockCache is a map-backed cache.Cache that can simulate an outage.
type mockCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	calls   int
	gets    int
	sets    int
	deletes int
	down    bool
}

func newMockCache() *mockCache {
	return &mockCache{data: make(map[string][]byte)}
}

func (m *mockCache) Set(ctx context.Context, key string, value interface{}) error {
	return m.SetWithTTL(ctx, key, value, time.Hour)
}

func (m *mockCache) SetWithTTL(_ context.Context, key string, value interface{}, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.sets++
	if m.down {
		return cache.NewCacheError("set", key, errStoreDown)
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = data
	return nil
}

func (m *mockCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.gets++
	if m.down {
		return cache.NewCacheError("get", key, errStoreDown)
	}
	data, ok := m.data[key]
	if !ok {
		return cache.ErrCacheMiss
	}
	return json.Unmarshal(data, dest)
}

func (m *mockCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.deletes++
	if m.down {
		return cache.NewCacheError("delete", keys[0], errStoreDown)
	}
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *mockCache) HealthCheck(context.Context) error {
	if m.down {
		return errStoreDown
	}
	return nil
}

func (m *mockCache) Close() error { return nil }

func newTestMetrics() *metrics.Metrics {
	return metrics.New(prometheus.NewRegistry())
}

func newTestLinkService(t *testing.T, repo repository.ShortLinkRepository, c cache.Cache) *LinkService {
	t.Helper()
	return NewLinkService(repo, c, cache.DefaultKeyBuilder, zaptest.NewLogger(t), newTestMetrics(), LinkServiceConfig{
		BaseURL:    "http://localhost:8080/",
		CodeLength: 7,
		MaxRetries: 5,
	})
}

// sequenceGenerator returns codes in order, then repeats the last one.
func sequenceGenerator(codes ...string) CodeGenerator {
	i := 0
	return func() (string, error) {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}
