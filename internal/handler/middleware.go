package handler

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Kosench/shortlink-service/internal/cache"
)

func tooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
		"error":   "rate_limit_exceeded",
		"message": "Too many requests. Please try again later.",
	})
}

// RedisRateLimitMiddleware - rate limiter с использованием Redis
func RedisRateLimitMiddleware(limiter cache.RateLimiter, keys *cache.KeyBuilder, maxRequests int, window time.Duration, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := keys.RateLimit(c.ClientIP())

		// Используем Redis для подсчета запросов
		count, err := limiter.IncrementRateLimit(c.Request.Context(), key, window)
		if err != nil {
			log.Warn("rate limit check failed", zap.String("key", key), zap.Error(err))
			// При ошибке Redis пропускаем запрос
			c.Next()
			return
		}

		if count > int64(maxRequests) {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}

type memoryLimiter struct {
	mu          sync.Mutex
	requests    map[string][]time.Time
	maxRequests int
	window      time.Duration
	lastSweep   time.Time
}

func newMemoryLimiter(maxRequests int, window time.Duration) *memoryLimiter {
	return &memoryLimiter{
		requests:    make(map[string][]time.Time),
		maxRequests: maxRequests,
		window:      window,
		lastSweep:   time.Now(),
	}
}

func (l *memoryLimiter) allow(clientIP string, now time.Time) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(now)
	}

	// Очищаем старые записи
	times := l.prune(l.requests[clientIP], now)

	// Проверяем лимит
	if len(times) >= l.maxRequests {
		l.requests[clientIP] = times
		return false
	}

	// Добавляем текущий запрос
	l.requests[clientIP] = append(times, now)
	return true
}

func (l *memoryLimiter) prune(times []time.Time, now time.Time) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if now.Sub(t) < l.window {
			kept = append(kept, t)
		}
	}
	return kept
}

// sweep drops clients with no request inside the window.
func (l *memoryLimiter) sweep(now time.Time) {
	for ip, times := range l.requests {
		if times = l.prune(times, now); len(times) == 0 {
			delete(l.requests, ip)
		} else {
			l.requests[ip] = times
		}
	}
	l.lastSweep = now
}

// InMemoryRateLimitMiddleware - fallback rate limiter без Redis
func InMemoryRateLimitMiddleware(maxRequests int, window time.Duration) gin.HandlerFunc {
	limiter := newMemoryLimiter(maxRequests, window)

	return func(c *gin.Context) {
		if !limiter.allow(c.ClientIP(), time.Now()) {
			tooManyRequests(c)
			return
		}

		c.Next()
	}
}
