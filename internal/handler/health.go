package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Kosench/shortlink-service/internal/cache"
	"github.com/Kosench/shortlink-service/internal/database"
)

// HealthHandler reports the store and cache state. A nil db means the
// in-memory store, a nil cache means caching is disabled.
func HealthHandler(db database.Pinger, c cache.Cache) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		services := gin.H{}
		status := "healthy"

		// Проверяем БД
		switch {
		case db == nil:
			services["database"] = "memory"
		case database.HealthCheck(ctx.Request.Context(), db) != nil:
			services["database"] = "unhealthy"
			status = "degraded"
		default:
			services["database"] = "healthy"
		}

		// Проверяем Redis
		switch {
		case c == nil:
			services["cache"] = "disabled"
		case c.HealthCheck(ctx.Request.Context()) != nil:
			services["cache"] = "unhealthy"
			status = "degraded"
		default:
			services["cache"] = "healthy"
		}

		statusCode := http.StatusOK
		if status == "degraded" {
			statusCode = http.StatusServiceUnavailable
		}

		ctx.JSON(statusCode, gin.H{
			"status":   status,
			"services": services,
		})
	}
}
