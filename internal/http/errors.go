package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/service"
)

// writeServiceError traduce los errores sentinela de service a status HTTP.
func writeServiceError(c *gin.Context, logger *zap.Logger, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, domain.ErrInvalidTraitCode):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSessionNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
	case errors.Is(err, service.ErrAssessmentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "assessment not found"})
	case errors.Is(err, service.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many generation requests, try again later"})
	case errors.Is(err, service.ErrGenerationFailed):
		logger.Warn(op+" generation failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "could not generate a response, please try again", "retry": true})
	case errors.Is(err, service.ErrCatalogUnavailable), errors.Is(err, service.ErrCacheUnavailable):
		logger.Error(op+" dependency unavailable", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "service temporarily unavailable"})
	default:
		logger.Error(op+" failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
