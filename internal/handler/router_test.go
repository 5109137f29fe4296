package handler

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gavv/httpexpect/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-service/internal/cache"
	"github.com/Kosench/shortlink-service/internal/config"
	"github.com/Kosench/shortlink-service/internal/metrics"
	"github.com/Kosench/shortlink-service/internal/repository"
	"github.com/Kosench/shortlink-service/internal/service"
)

type testApp struct {
	e     *httpexpect.Expect
	redis *miniredis.Miniredis
}

// newTestApp wires the real services on in-memory stores and a miniredis cache.
func newTestApp(t *testing.T, rateLimit config.RateLimitConfig) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	redisClient, err := cache.NewRedisClient(cache.RedisConfig{
		Host:     mr.Host(),
		Port:     mr.Port(),
		CacheTTL: 3600,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = redisClient.Close() })

	log := zap.NewNop()
	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	links := service.NewLinkService(
		repository.NewMemoryShortLinkRepository(),
		redisClient,
		redisClient.KeyBuilder(),
		log,
		m,
		service.LinkServiceConfig{BaseURL: "http://sho.rt", CodeLength: 7, MaxRetries: 5},
	)
	groups := service.NewGroupService(
		repository.NewMemoryLinkGroupRepository(),
		m,
		service.GroupServiceConfig{BaseURL: "http://sho.rt"},
	)

	router := NewRouter(RouterDeps{
		Links:       links,
		Groups:      groups,
		Logger:      log,
		Cache:       redisClient,
		RateLimiter: redisClient,
		Keys:        redisClient.KeyBuilder(),
		Gatherer:    registry,
		RateLimit:   rateLimit,
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return &testApp{
		e:     httpexpect.Default(t, server.URL),
		redis: mr,
	}
}

func TestRouter_ShortLinkLifecycle(t *testing.T) {
	app := newTestApp(t, config.RateLimitConfig{})
	e := app.e

	created := e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/a"}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()

	created.HasValue("clicks", 0)
	created.Value("shortCode").String().Length().IsEqual(7)
	code := created.Value("shortCode").String().Raw()
	id := created.Value("id").Number().Raw()
	created.HasValue("shortUrl", "http://sho.rt/"+code)

	require.True(t, app.redis.Exists("dedup:https://example.com/a"))

	again := e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/a"}).
		Expect().
		Status(http.StatusConflict)
	again.Header(CacheHeader).IsEqual("HIT")
	again.JSON().Object().HasValue("shortCode", code)

	e.GET("/"+code).
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("https://example.com/a")

	// the dedup cache is populated but never read by redirects, so a store
	// hit after a cache flush shows the fresh counter
	app.redis.FlushAll()
	existing := e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/a"}).
		Expect().
		Status(http.StatusConflict)
	existing.Header(CacheHeader).IsEqual("MISS")
	existing.JSON().Object().HasValue("clicks", 1)

	e.DELETE("/api/shortUrl/{id}", int64(id)).
		Expect().
		Status(http.StatusNoContent)
	require.False(t, app.redis.Exists("dedup:https://example.com/a"))

	e.GET("/"+code).
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusNotFound)

	e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/a"}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object().
		Value("shortCode").String().NotEqual(code)

	e.DELETE("/api/shortUrl/{id}", int64(id)).
		Expect().
		Status(http.StatusNotFound)
}

func TestRouter_CustomAlias(t *testing.T) {
	e := newTestApp(t, config.RateLimitConfig{}).e

	e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/b", "customUrl": "my-link"}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object().
		HasValue("shortCode", "my-link")

	e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/c", "customUrl": "my-link"}).
		Expect().
		Status(http.StatusConflict).
		JSON().Object().
		HasValue("error", "alias_taken")

	e.GET("/my-link").
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusFound).
		Header("Location").IsEqual("https://example.com/b")

	e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "not-a-url"}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().
		HasValue("error", "invalid_url")
}

func TestRouter_LinkGroups(t *testing.T) {
	e := newTestApp(t, config.RateLimitConfig{}).e

	group := e.POST("/api/linkGroup").
		WithJSON(map[string]any{
			"groupName":   "Jane",
			"description": "links",
			"links": []map[string]any{
				{"title": "Blog", "url": "https://blog.example.com", "order": 1},
				{"title": "Code", "url": "https://code.example.com", "order": 0},
			},
		}).
		Expect().
		Status(http.StatusCreated).
		JSON().Object()

	group.Value("groupUrl").String().Length().IsEqual(8)
	groupURL := group.Value("groupUrl").String().Raw()
	group.Value("pageUrl").String().IsEqual("http://sho.rt/g/" + groupURL)
	id := int64(group.Value("id").Number().Raw())
	group.Value("theme").Object().HasValue("buttonColor", "#3b82f6")
	group.Value("links").Array().Value(0).Object().HasValue("title", "Code").HasValue("order", 0)

	e.POST("/api/linkGroup").
		WithJSON(map[string]any{"description": "no name"}).
		Expect().
		Status(http.StatusBadRequest).
		JSON().Object().
		HasValue("field", "groupName")

	// JSON fetch does not count a view
	e.GET("/api/linkGroup/{groupUrl}", groupURL).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("views", 0)

	page := e.GET("/g/{groupUrl}", groupURL).
		Expect().
		Status(http.StatusOK)
	page.ContentType("text/html")
	body := page.Body()
	body.Contains("Jane")
	body.Contains("https://code.example.com")

	e.GET("/api/linkGroup/{groupUrl}", groupURL).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("views", 1)

	e.GET("/g/missing").
		Expect().
		Status(http.StatusNotFound).
		Body().Contains("Page not found")

	added := e.POST("/api/linkGroup/{id}/link", id).
		WithJSON(map[string]string{"title": "Shop", "url": "https://shop.example.com"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object()
	links := added.Value("links").Array()
	links.Length().IsEqual(3)
	links.Value(2).Object().HasValue("order", 2)
	blogID := links.Value(1).Object().Value("id").String().Raw()

	e.DELETE("/api/linkGroup/{id}/link/{linkId}", id, blogID).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		Value("links").Array().
		Value(1).Object().
		HasValue("title", "Shop").
		HasValue("order", 1)

	e.PUT("/api/linkGroup/{id}", id).
		WithJSON(map[string]any{"groupName": "Jane D.", "customUrl": "jane"}).
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("groupName", "Jane D.").
		HasValue("groupUrl", "jane").
		HasValue("pageUrl", "http://sho.rt/g/jane").
		HasValue("description", "links")

	e.POST("/api/linkGroup").
		WithJSON(map[string]any{"groupName": "Other", "customUrl": "jane"}).
		Expect().
		Status(http.StatusConflict)

	e.GET("/api/linkGroups").
		Expect().
		Status(http.StatusOK).
		JSON().Array().
		Length().IsEqual(1)

	e.DELETE("/api/linkGroup/{id}", id).
		Expect().
		Status(http.StatusNoContent)

	e.PUT("/api/linkGroup/{id}", id).
		WithJSON(map[string]any{"groupName": "Gone"}).
		Expect().
		Status(http.StatusNotFound)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t, config.RateLimitConfig{})

	app.e.GET("/api/health").
		Expect().
		Status(http.StatusOK).
		JSON().Object().
		HasValue("status", "healthy").
		Value("services").Object().
		HasValue("database", "memory").
		HasValue("cache", "healthy")

	app.e.POST("/api/shortUrl").
		WithJSON(map[string]string{"fullUrl": "https://example.com/m"}).
		Expect().
		Status(http.StatusCreated)

	app.e.GET("/metrics").
		Expect().
		Status(http.StatusOK).
		Body().Contains(`shortlink_links_created_total{kind="generated"} 1`)

	app.redis.SetError("server down")
	app.e.GET("/api/health").
		Expect().
		Status(http.StatusServiceUnavailable).
		JSON().Object().
		HasValue("status", "degraded")
}

func TestRouter_ReservedAlias(t *testing.T) {
	e := newTestApp(t, config.RateLimitConfig{}).e

	for _, alias := range []string{"metrics", "api", "Metrics"} {
		e.POST("/api/shortUrl").
			WithJSON(map[string]string{"fullUrl": "https://example.com/r", "customUrl": alias}).
			Expect().
			Status(http.StatusBadRequest).
			JSON().Object().
			HasValue("error", "invalid_alias").
			HasValue("field", "customUrl")
	}

	e.GET("/metrics").
		WithRedirectPolicy(httpexpect.DontFollowRedirects).
		Expect().
		Status(http.StatusOK).
		ContentType("text/plain")
}

func TestRouter_RateLimit(t *testing.T) {
	e := newTestApp(t, config.RateLimitConfig{MaxRequests: 2, Window: 15 * time.Minute}).e

	for i := 0; i < 2; i++ {
		e.GET("/unknown1").
			WithRedirectPolicy(httpexpect.DontFollowRedirects).
			Expect().
			Status(http.StatusNotFound)
	}

	e.GET("/unknown1").
		Expect().
		Status(http.StatusTooManyRequests).
		JSON().Object().
		HasValue("error", "rate_limit_exceeded")

	// health is not limited
	e.GET("/api/health").
		Expect().
		Status(http.StatusOK)
}

func TestCORSConfig(t *testing.T) {
	tests := []struct {
		name     string
		origins  []string
		allowAll bool
	}{
		{"no origins", nil, true},
		{"wildcard", []string{"*"}, true},
		{"explicit", []string{"https://sho.rt"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := corsConfig(tt.origins)
			if cfg.AllowAllOrigins != tt.allowAll {
				t.Errorf("AllowAllOrigins = %v, want %v", cfg.AllowAllOrigins, tt.allowAll)
			}
			if err := cfg.Validate(); err != nil {
				t.Errorf("Validate() = %v", err)
			}
		})
	}
}
