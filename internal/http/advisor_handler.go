package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"school-advisor/internal/service"
)

// AdvisorHandler mantiene dependencias para endpoints de sesiones y mensajes del asesor.
type AdvisorHandler struct {
	logger  *zap.Logger
	advisor *service.AdvisorService
}

func NewAdvisorHandler(logger *zap.Logger, advisor *service.AdvisorService) *AdvisorHandler {
	return &AdvisorHandler{
		logger:  logger,
		advisor: advisor,
	}
}

// CreateSession maneja POST /advisor/sessions.
func (h *AdvisorHandler) CreateSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	session, err := h.advisor.StartSession(c.Request.Context(), userID)
	if err != nil {
		writeServiceError(c, h.logger, "create session", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"session": session})
}

// PostMessage maneja POST /advisor/sessions/:id/messages.
func (h *AdvisorHandler) PostMessage(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req struct {
		Content string `json:"content" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid post message request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	reply, err := h.advisor.Chat(c.Request.Context(), userID, c.Param("id"), req.Content)
	if err != nil {
		writeServiceError(c, h.logger, "advisor chat", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"advisor_message": reply})
}
