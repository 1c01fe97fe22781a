package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/llm"
	"school-advisor/internal/matching"
	"school-advisor/internal/metrics"
	"school-advisor/internal/repository"
)

var (
	ErrServiceNotConfigured = errors.New("service not configured")
	ErrInvalidInput         = errors.New("invalid input")
	ErrCatalogUnavailable   = errors.New("catalog unavailable")
	ErrCacheUnavailable     = errors.New("recommendation cache unavailable")
	ErrGenerationFailed     = errors.New("generation failed")
	ErrRateLimited          = errors.New("generation rate limited")
)

// DefaultGenerationTimeout acota la llamada al LLM cuando no se configura otra.
const DefaultGenerationTimeout = 45 * time.Second

// RecommendationStatus distingue los resultados exitosos de Recommend.
type RecommendationStatus string

const (
	RecommendationStatusCached    RecommendationStatus = "cached"
	RecommendationStatusGenerated RecommendationStatus = "generated"
	// RecommendationStatusNoCatalog no es error: no hay programas que sugerir.
	RecommendationStatusNoCatalog RecommendationStatus = "no_catalog"
)

// RecommendationOutcome es lo que ve el caller de Recommend.
type RecommendationOutcome struct {
	Status      RecommendationStatus        `json:"status"`
	TraitCode   domain.TraitCode            `json:"trait_code"`
	Results     []domain.RecommendedProgram `json:"results"`
	GeneratedAt time.Time                   `json:"generated_at,omitempty"`
	// Diagnostics y ParseSource solo existen cuando hubo generacion.
	Diagnostics *domain.MatchDiagnostics    `json:"diagnostics,omitempty"`
	ParseSource ParseSource                 `json:"parse_source,omitempty"`
	Persisted   bool                        `json:"persisted"`
}

// RecommendationService orquesta cache, catalogo, LLM y matching.
type RecommendationService struct {
	llmClient llm.LLMClient
	catalog   repository.CatalogRepository
	cache     RecommendationCache
	limiter   GenerationLimiter
	parser    LLMResponseParser
	timeout   time.Duration
	logger    *zap.Logger
	now       func() time.Time
}

func NewRecommendationService(
	llmClient llm.LLMClient,
	catalog repository.CatalogRepository,
	cache RecommendationCache,
	limiter GenerationLimiter,
	timeout time.Duration,
	logger *zap.Logger,
) *RecommendationService {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RecommendationService{
		llmClient: llmClient,
		catalog:   catalog,
		cache:     cache,
		limiter:   limiter,
		parser:    DefaultLLMResponseParser,
		timeout:   timeout,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Recommend devuelve los programas del catalogo sugeridos para un codigo.
// Con userID vacio (preview anonimo) no se lee ni se escribe cache.
func (s *RecommendationService) Recommend(ctx context.Context, userID string, code domain.TraitCode) (RecommendationOutcome, error) {
	if s == nil || s.llmClient == nil || s.catalog == nil {
		return RecommendationOutcome{}, ErrServiceNotConfigured
	}
	code, err := domain.ParseTraitCode(string(code))
	if err != nil {
		return RecommendationOutcome{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	userID = strings.TrimSpace(userID)
	cacheable := userID != "" && s.cache != nil
	logger := s.logger.With(zap.String("user_id", userID), zap.String("trait_code", code.String()))

	if cacheable {
		set, found, err := s.cache.Get(ctx, userID, code)
		if err != nil {
			logger.Error("recommendation cache read failed", zap.Error(err))
			return RecommendationOutcome{}, fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
		}
		if found {
			logger.Debug("recommendation cache hit")
			metrics.RecommendationRequests.WithLabelValues("cache_hit").Inc()
			return RecommendationOutcome{
				Status:      RecommendationStatusCached,
				TraitCode:   code,
				Results:     set.Results,
				GeneratedAt: set.GeneratedAt,
				Persisted:   true,
			}, nil
		}
		logger.Debug("recommendation cache miss")
	} else {
		metrics.RecommendationRequests.WithLabelValues("anonymous").Inc()
	}

	programs, err := s.catalog.ListPrograms(ctx)
	if err != nil {
		logger.Error("catalog read failed", zap.Error(err))
		return RecommendationOutcome{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if len(programs) == 0 {
		logger.Warn("program catalog is empty")
		metrics.RecommendationRequests.WithLabelValues("no_catalog").Inc()
		return RecommendationOutcome{
			Status:    RecommendationStatusNoCatalog,
			TraitCode: code,
			Results:   []domain.RecommendedProgram{},
		}, nil
	}

	if cacheable && s.limiter != nil && !s.limiter.Allow(userID) {
		logger.Warn("recommendation generation rate limited")
		metrics.RecommendationRequests.WithLabelValues("rate_limited").Inc()
		return RecommendationOutcome{}, ErrRateLimited
	}

	raw, err := s.generate(ctx, "programs", buildRecommendationPrompt(code, programs))
	if err != nil {
		logger.Error("recommendation generation failed", zap.Error(err))
		metrics.RecommendationRequests.WithLabelValues("generation_failed").Inc()
		return RecommendationOutcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	parsed := s.parser.ParseTitles(raw)
	report := matching.MatchTitles(parsed.Titles, programs)
	metrics.ObserveMatch("programs", report.Diagnostics)
	if report.Diagnostics.Matched < report.Diagnostics.Requested || parsed.Failed() {
		logger.Info("recommendation match shortfall",
			zap.String("parse_source", string(parsed.Source)),
			zap.Int("requested", report.Diagnostics.Requested),
			zap.Int("matched", report.Diagnostics.Matched),
			zap.Strings("unmatched", report.Diagnostics.Unmatched),
			zap.Int("duplicates", report.Diagnostics.Duplicates),
			zap.Int("truncated", report.Diagnostics.Truncated),
		)
	}

	results := make([]domain.RecommendedProgram, 0, len(report.Matches))
	for _, m := range report.Matches {
		results = append(results, domain.RecommendedProgram{
			Rank:       m.Rank,
			ProgramID:  m.Program.ID,
			Title:      m.Program.Title,
			SchoolName: m.Program.SchoolName,
			Rationale:  buildProgramRationale(code, m.Program),
		})
	}

	diag := report.Diagnostics
	outcome := RecommendationOutcome{
		Status:      RecommendationStatusGenerated,
		TraitCode:   code,
		Results:     results,
		GeneratedAt: s.now(),
		Diagnostics: &diag,
		ParseSource: parsed.Source,
	}
	metrics.RecommendationRequests.WithLabelValues("generated").Inc()

	// Un set vacio no se persiste: el proximo intento vuelve a generar.
	if !cacheable || len(results) == 0 {
		return outcome, nil
	}
	return s.persist(ctx, logger, userID, outcome), nil
}

// persist escribe el set una sola vez. Si otro writer gano la carrera se
// devuelve lo que quedo guardado.
func (s *RecommendationService) persist(ctx context.Context, logger *zap.Logger, userID string, outcome RecommendationOutcome) RecommendationOutcome {
	set := domain.RecommendationSet{
		ID:          uuid.NewString(),
		UserID:      userID,
		TraitCode:   outcome.TraitCode,
		Results:     outcome.Results,
		GeneratedAt: outcome.GeneratedAt,
	}
	stored, err := s.cache.Put(ctx, set)
	if err != nil {
		logger.Warn("recommendation cache write failed", zap.Error(err))
		return outcome
	}
	if stored {
		outcome.Persisted = true
		return outcome
	}

	metrics.PersistConflicts.Inc()
	logger.Info("recommendation already persisted by a concurrent request")
	existing, found, err := s.cache.Get(ctx, userID, outcome.TraitCode)
	if err != nil || !found {
		logger.Warn("could not re-read winning recommendation set", zap.Error(err), zap.Bool("found", found))
		return outcome
	}
	outcome.Results = existing.Results
	outcome.GeneratedAt = existing.GeneratedAt
	outcome.Persisted = true
	return outcome
}

// Reset borra el set cacheado para que la proxima consulta regenere.
func (s *RecommendationService) Reset(ctx context.Context, userID string, code domain.TraitCode) error {
	if s == nil || s.cache == nil {
		return ErrServiceNotConfigured
	}
	code, err := domain.ParseTraitCode(string(code))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ErrInvalidInput
	}
	if err := s.cache.Delete(ctx, userID, code); err != nil {
		return fmt.Errorf("%w: %w", ErrCacheUnavailable, err)
	}
	s.logger.Info("recommendation set reset", zap.String("user_id", userID), zap.String("trait_code", code.String()))
	return nil
}

// generate llama al LLM con timeout y registra la latencia por pipeline.
func (s *RecommendationService) generate(ctx context.Context, pipeline, prompt string) (string, error) {
	return generateWithTimeout(ctx, s.llmClient, s.timeout, pipeline, prompt)
}

func generateWithTimeout(ctx context.Context, client llm.LLMClient, timeout time.Duration, pipeline, prompt string) (string, error) {
	genCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	raw, err := client.Generate(genCtx, prompt)
	status := "ok"
	if err != nil {
		status = "error"
	}
	metrics.GenerationDuration.WithLabelValues(pipeline, status).Observe(time.Since(start).Seconds())
	return raw, err
}
