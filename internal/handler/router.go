package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-service/internal/cache"
	"github.com/Kosench/shortlink-service/internal/config"
	"github.com/Kosench/shortlink-service/internal/database"
	"github.com/Kosench/shortlink-service/internal/logger"
)

type RouterDeps struct {
	Links  ShortLinkService
	Groups LinkGroupService
	Logger *zap.Logger

	// DB is nil with the memory driver.
	DB database.Pinger
	// Cache and RateLimiter are nil when Redis is disabled or unreachable.
	Cache       cache.Cache
	RateLimiter cache.RateLimiter
	Keys        *cache.KeyBuilder

	Gatherer       prometheus.Gatherer
	AllowedOrigins []string
	RateLimit      config.RateLimitConfig
}

func NewRouter(d RouterDeps) *gin.Engine {
	router := gin.New()
	router.SetHTMLTemplate(loadTemplates())

	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware(d.Logger))
	router.Use(cors.New(corsConfig(d.AllowedOrigins)))

	// Health и метрики не лимитируются
	router.GET("/api/health", HealthHandler(d.DB, d.Cache))
	if d.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))
	}

	limited := router.Group("/")
	if d.RateLimit.MaxRequests > 0 {
		if d.RateLimiter != nil {
			keys := d.Keys
			if keys == nil {
				keys = cache.DefaultKeyBuilder
			}
			limited.Use(RedisRateLimitMiddleware(d.RateLimiter, keys, d.RateLimit.MaxRequests, d.RateLimit.Window, d.Logger))
		} else {
			limited.Use(InMemoryRateLimitMiddleware(d.RateLimit.MaxRequests, d.RateLimit.Window))
		}
	}

	links := NewShortLinkHandler(d.Links, d.Logger)
	groups := NewGroupHandler(d.Groups, d.Logger)
	pages := NewPageHandler(d.Groups, d.Logger)

	api := limited.Group("/api")
	{
		api.POST("/shortUrl", links.CreateShortLink)
		api.DELETE("/shortUrl/:id", links.DeleteShortLink)

		api.POST("/linkGroup", groups.Create)
		api.GET("/linkGroups", groups.List)
		api.GET("/linkGroup/:groupUrl", groups.Get)
		api.PUT("/linkGroup/:id", groups.Update)
		api.DELETE("/linkGroup/:id", groups.Delete)
		api.POST("/linkGroup/:id/link", groups.AddLink)
		api.DELETE("/linkGroup/:id/link/:linkId", groups.RemoveLink)
	}

	limited.GET("/g/:groupUrl", pages.GroupPage)
	limited.GET("/:code", links.Redirect)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
		})
	})

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders:    []string{"Content-Length", CacheHeader},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}

	// cors.New panics on an empty origin list
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}

	return cfg
}
