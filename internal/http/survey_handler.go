package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/service"
)

// SurveyHandler expone el cuestionario RIASEC y los resultados.
type SurveyHandler struct {
	logger      *zap.Logger
	assessments *service.AssessmentService
}

func NewSurveyHandler(logger *zap.Logger, assessments *service.AssessmentService) *SurveyHandler {
	return &SurveyHandler{
		logger:      logger,
		assessments: assessments,
	}
}

// ListItems maneja GET /survey/items.
func (h *SurveyHandler) ListItems(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"items": h.assessments.Questions()})
}

// SubmitAssessment maneja POST /assessments. Anonimo: se puntua sin guardar.
func (h *SurveyHandler) SubmitAssessment(c *gin.Context) {
	var req struct {
		Answers domain.AnswerSet `json:"answers" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assessment request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	userID := CurrentUserID(c)
	assessment, err := h.assessments.Submit(c.Request.Context(), userID, req.Answers)
	if err != nil {
		writeServiceError(c, h.logger, "submit assessment", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"assessment": assessment,
		"persisted":  userID != "",
	})
}

// LatestAssessment maneja GET /assessments/latest.
func (h *SurveyHandler) LatestAssessment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	assessment, err := h.assessments.Latest(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "latest assessment", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"assessment": assessment})
}
