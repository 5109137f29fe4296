package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/Kosench/shortlink-service/internal/errors"
)

// handleError обрабатывает ошибки и возвращает соответствующие HTTP коды
func handleError(c *gin.Context, log *zap.Logger, err error) {
	// Проверяем ValidationError
	if validationErr := apperrors.GetValidationError(err); validationErr != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   validationCode(validationErr),
			"message": validationErr.Message,
			"field":   validationErr.Field,
		})
		return
	}

	if errors.Is(err, apperrors.ErrAliasTaken) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "alias_taken",
			"message": "Alias is already taken",
		})
		return
	}

	if errors.Is(err, apperrors.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "not_found",
			"message": "Resource not found",
		})
		return
	}

	log.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.Error(err),
	)

	// Проверяем BusinessError
	if businessErr := apperrors.GetBusinessError(err); businessErr != nil {
		if businessErr.Code == apperrors.CodeDatabase {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":   "store_unavailable",
				"message": "Storage is temporarily unavailable",
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "business_error",
			"message": businessErr.Message,
			"code":    businessErr.Code,
		})
		return
	}

	// Неизвестная ошибка
	c.JSON(http.StatusInternalServerError, gin.H{
		"error":   "internal_error",
		"message": "An unexpected error occurred",
	})
}

func validationCode(err *apperrors.ValidationError) string {
	switch {
	case errors.Is(err, apperrors.ErrInvalidURL):
		return "invalid_url"
	case errors.Is(err, apperrors.ErrInvalidAlias):
		return "invalid_alias"
	default:
		return "validation_error"
	}
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid_request",
		"message": message,
	})
}
