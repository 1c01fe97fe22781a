package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/service"
)

// RecommendationHandler expone recomendaciones de programas y el ranking de instituciones.
type RecommendationHandler struct {
	logger          *zap.Logger
	recommendations *service.RecommendationService
	rankings        *service.RankingService
}

func NewRecommendationHandler(
	logger *zap.Logger,
	recommendations *service.RecommendationService,
	rankings *service.RankingService,
) *RecommendationHandler {
	return &RecommendationHandler{
		logger:          logger,
		recommendations: recommendations,
		rankings:        rankings,
	}
}

// GetRecommendations maneja GET /recommendations/:code.
func (h *RecommendationHandler) GetRecommendations(c *gin.Context) {
	code := domain.TraitCode(c.Param("code"))
	outcome, err := h.recommendations.Recommend(c.Request.Context(), CurrentUserID(c), code)
	if err != nil {
		writeServiceError(c, h.logger, "recommend", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recommendation": outcome})
}

// ResetRecommendations maneja DELETE /recommendations/:code.
func (h *RecommendationHandler) ResetRecommendations(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	if err := h.recommendations.Reset(c.Request.Context(), userID, domain.TraitCode(c.Param("code"))); err != nil {
		writeServiceError(c, h.logger, "reset recommendations", err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GetInstitutionRanking maneja GET /institutions/ranking.
func (h *RecommendationHandler) GetInstitutionRanking(c *gin.Context) {
	outcome, err := h.rankings.Rank(c.Request.Context())
	if err != nil {
		writeServiceError(c, h.logger, "rank institutions", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": outcome})
}
