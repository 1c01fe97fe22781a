package main

import (
	"context"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"school-advisor/internal/config"
	"school-advisor/internal/db"
	apihttp "school-advisor/internal/http"
	"school-advisor/internal/llm"
	"school-advisor/internal/repository"
	"school-advisor/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	if err := db.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal("db schema", zap.Error(err))
	}

	catalogRepo := repository.NewPgCatalogRepository(pool)
	assessmentRepo := repository.NewPgAssessmentRepository(pool)
	sessionRepo := repository.NewPgSessionRepository(pool)
	messageRepo := repository.NewPgMessageRepository(pool)

	llmClient, err := llm.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("llm client", zap.Error(err))
	}

	var (
		recoCache   service.RecommendationCache = repository.NewPgRecommendationRepository(pool)
		limiter     service.GenerationLimiter
		redisClient *redis.Client
	)
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		defer redisClient.Close()
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
			redisClient = nil
		}
		cancel()
	}
	if redisClient != nil {
		limiter = service.NewRedisGenerationLimiter(redisClient, time.Hour, cfg.GenerationLimitPerHour)
		if cfg.CacheBackend == "redis" {
			recoCache = service.NewRedisRecommendationCache(redisClient)
		}
	} else {
		limiter = service.NewGenerationLimiter(time.Hour, cfg.GenerationLimitPerHour)
		if cfg.CacheBackend == "redis" {
			logger.Warn("cache backend redis requested without redis, using postgres")
		}
	}

	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTAccessTTL())
	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured, only anonymous requests will be served")
	}

	timeout := cfg.LLMTimeout()
	recoSvc := service.NewRecommendationService(llmClient, catalogRepo, recoCache, limiter, timeout, logger)
	rankSvc := service.NewRankingService(llmClient, catalogRepo, timeout, logger)
	assessSvc := service.NewAssessmentService(assessmentRepo, logger)
	contextSvc := service.NewBasicContextService(messageRepo)
	advisorSvc := service.NewAdvisorService(llmClient, sessionRepo, messageRepo, assessmentRepo, contextSvc, timeout, logger)

	router := apihttp.NewRouter(logger, jwtSvc,
		apihttp.NewSurveyHandler(logger, assessSvc),
		apihttp.NewRecommendationHandler(logger, recoSvc, rankSvc),
		apihttp.NewAdvisorHandler(logger, advisorSvc),
	)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Warn("server shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("port", cfg.HTTPPort), zap.String("llm_provider", cfg.LLMProvider))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
