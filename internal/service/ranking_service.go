package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"school-advisor/internal/domain"
	"school-advisor/internal/llm"
	"school-advisor/internal/matching"
	"school-advisor/internal/metrics"
	"school-advisor/internal/repository"
)

type RankingStatus string

const (
	RankingStatusRanked    RankingStatus = "ranked"
	RankingStatusNoCatalog RankingStatus = "no_catalog"
)

// RankingOutcome es el ranking de instituciones ya reconciliado.
type RankingOutcome struct {
	Status      RankingStatus            `json:"status"`
	Entries     []domain.InstitutionRank `json:"entries"`
	Diagnostics *domain.MatchDiagnostics `json:"diagnostics,omitempty"`
	ParseSource ParseSource              `json:"parse_source,omitempty"`
}

// RankingService pide al LLM un top de instituciones y lo ancla al catalogo.
type RankingService struct {
	llmClient llm.LLMClient
	catalog   repository.CatalogRepository
	parser    LLMResponseParser
	timeout   time.Duration
	logger    *zap.Logger
}

func NewRankingService(llmClient llm.LLMClient, catalog repository.CatalogRepository, timeout time.Duration, logger *zap.Logger) *RankingService {
	if timeout <= 0 {
		timeout = DefaultGenerationTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RankingService{
		llmClient: llmClient,
		catalog:   catalog,
		parser:    DefaultLLMResponseParser,
		timeout:   timeout,
		logger:    logger,
	}
}

func (s *RankingService) Rank(ctx context.Context) (RankingOutcome, error) {
	if s == nil || s.llmClient == nil || s.catalog == nil {
		return RankingOutcome{}, ErrServiceNotConfigured
	}

	institutions, err := s.catalog.ListInstitutions(ctx)
	if err != nil {
		s.logger.Error("institution catalog read failed", zap.Error(err))
		return RankingOutcome{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}
	if len(institutions) == 0 {
		return RankingOutcome{Status: RankingStatusNoCatalog, Entries: []domain.InstitutionRank{}}, nil
	}

	raw, err := generateWithTimeout(ctx, s.llmClient, s.timeout, "institutions", buildRankingPrompt(institutions))
	if err != nil {
		s.logger.Error("institution ranking generation failed", zap.Error(err))
		return RankingOutcome{}, fmt.Errorf("%w: %w", ErrGenerationFailed, err)
	}

	parsed := s.parser.ParseRankings(raw)
	report := matching.ReconcileRankings(parsed.Entries, institutions)
	metrics.ObserveMatch("institutions", report.Diagnostics)
	if report.Diagnostics.Matched < report.Diagnostics.Requested || parsed.Failed() {
		s.logger.Info("institution ranking shortfall",
			zap.String("parse_source", string(parsed.Source)),
			zap.Int("requested", report.Diagnostics.Requested),
			zap.Int("matched", report.Diagnostics.Matched),
			zap.Strings("unmatched", report.Diagnostics.Unmatched),
		)
	}

	entries := report.Entries
	if entries == nil {
		entries = []domain.InstitutionRank{}
	}
	diag := report.Diagnostics
	return RankingOutcome{
		Status:      RankingStatusRanked,
		Entries:     entries,
		Diagnostics: &diag,
		ParseSource: parsed.Source,
	}, nil
}

func buildRankingPrompt(institutions []domain.Institution) string {
	var sb strings.Builder
	sb.WriteString("You are an education analyst ranking higher education institutions for senior high school graduates.\n\n")
	sb.WriteString("=== INSTITUTIONS ===\n")
	for _, inst := range institutions {
		sb.WriteString(fmt.Sprintf("- %s\n", strings.TrimSpace(inst.Name)))
	}
	sb.WriteString("\n=== INSTRUCTIONS ===\n")
	sb.WriteString(fmt.Sprintf("Rank the %d best institutions from the list above, best first, by academic reputation and graduate outcomes.\n", matching.MaxRank))
	sb.WriteString("Use the names exactly as written. Add a one-sentence rationale for each.\n")
	sb.WriteString(`Return ONLY a JSON array like [{"name": "...", "rationale": "..."}]. No prose, no markdown.`)
	return sb.String()
}
