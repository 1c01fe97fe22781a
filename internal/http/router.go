package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"school-advisor/internal/metrics"
	"school-advisor/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas base.
func NewRouter(
	logger *zap.Logger,
	jwtSvc *service.JWTService,
	surveyH *SurveyHandler,
	recoH *RecommendationHandler,
	advisorH *AdvisorHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(accessLogMiddleware(logger), gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("", OptionalJWTMiddleware(jwtSvc))

	api.GET("/survey/items", surveyH.ListItems)
	api.POST("/assessments", surveyH.SubmitAssessment)
	api.GET("/assessments/latest", surveyH.LatestAssessment)

	api.GET("/recommendations/:code", recoH.GetRecommendations)
	api.DELETE("/recommendations/:code", recoH.ResetRecommendations)
	api.GET("/institutions/ranking", recoH.GetInstitutionRanking)

	advisor := api.Group("/advisor", JWTAuthMiddleware(jwtSvc))
	advisor.POST("/sessions", advisorH.CreateSession)
	advisor.POST("/sessions/:id/messages", advisorH.PostMessage)

	return r
}

const requestIDHeader = "X-Request-ID"

// accessLogMiddleware loguea cada request con su request id y alimenta el
// histograma de latencia. 5xx sale en Warn para que se vea sin filtrar.
func accessLogMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}
		c.Header(requestIDHeader, reqID)

		c.Next()

		status := c.Writer.Status()
		latency := time.Since(start)
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.HTTPRequestDuration.
			WithLabelValues(route, c.Request.Method, strconv.Itoa(status/100)+"xx").
			Observe(latency.Seconds())

		fields := []zap.Field{
			zap.String("request_id", reqID),
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		}
		if userID := CurrentUserID(c); userID != "" {
			fields = append(fields, zap.String("user_id", userID))
		}
		if status >= http.StatusInternalServerError {
			logger.Warn("request", fields...)
			return
		}
		logger.Info("request", fields...)
	}
}
