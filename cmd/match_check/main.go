package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"school-advisor/internal/config"
	"school-advisor/internal/db"
	"school-advisor/internal/domain"
	"school-advisor/internal/llm"
	"school-advisor/internal/repository"
	"school-advisor/internal/service"
)

// Scenario describe un codigo a recomendar contra el LLM real y el catalogo cargado.
// MinMatched es el piso de programas reconciliados; MinAligned la fraccion de
// resultados cuyas etiquetas comparten al menos una letra con el codigo.
type Scenario struct {
	Name       string
	Code       domain.TraitCode
	MinMatched int
	MinAligned float64
}

func main() {
	ctx := context.Background()
	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer pool.Close()

	if err := db.Ping(ctx, pool); err != nil {
		log.Fatalf("db ping: %v", err)
	}

	logger := zap.NewNop()
	llmClient, err := llm.NewFromConfig(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("llm client: %v", err)
	}
	catalog := repository.NewPgCatalogRepository(pool)
	timeout := cfg.LLMTimeout()

	// Sin userID el servicio no toca la cache: cada escenario genera de nuevo.
	recoSvc := service.NewRecommendationService(llmClient, catalog, nil, nil, timeout, logger)
	rankSvc := service.NewRankingService(llmClient, catalog, timeout, logger)

	scenarios := []Scenario{
		{Name: "Tecnico investigador", Code: "RIC", MinMatched: 3, MinAligned: 0.5},
		{Name: "Artistico social", Code: "ASE", MinMatched: 3, MinAligned: 0.5},
		{Name: "Emprendedor convencional", Code: "ECS", MinMatched: 3, MinAligned: 0.5},
		{Name: "Social investigador", Code: "SIA", MinMatched: 3, MinAligned: 0.5},
	}

	passed := 0
	total := len(scenarios) + 1

	for _, sc := range scenarios {
		fmt.Printf("=== Ejecutando: %s (%s) ===\n", sc.Name, sc.Code)

		outcome, err := recoSvc.Recommend(ctx, "", sc.Code)
		if err != nil {
			fmt.Printf("❌ FAIL [%s] recommend: %v\n\n", sc.Name, err)
			continue
		}
		if outcome.Status == service.RecommendationStatusNoCatalog {
			fmt.Printf("❌ FAIL [%s] catalogo vacio\n\n", sc.Name)
			continue
		}

		for _, r := range outcome.Results {
			fmt.Printf("  %2d. %s (%s)\n", r.Rank, r.Title, r.SchoolName)
		}
		if d := outcome.Diagnostics; d != nil {
			fmt.Printf("  requested=%d matched=%d duplicates=%d unmatched=%q\n", d.Requested, d.Matched, d.Duplicates, d.Unmatched)
		}

		programs, err := catalog.ListPrograms(ctx)
		if err != nil {
			fmt.Printf("❌ FAIL [%s] list programs: %v\n\n", sc.Name, err)
			continue
		}
		aligned := alignedFraction(sc.Code, outcome.Results, programs)

		if len(outcome.Results) >= sc.MinMatched && aligned >= sc.MinAligned {
			fmt.Printf("✅ PASS [%s] matched=%d aligned=%.2f\n\n", sc.Name, len(outcome.Results), aligned)
			passed++
		} else {
			fmt.Printf("❌ FAIL [%s] matched=%d (min %d) aligned=%.2f (min %.2f)\n\n",
				sc.Name, len(outcome.Results), sc.MinMatched, aligned, sc.MinAligned)
		}
	}

	fmt.Println("=== Ejecutando: Ranking de instituciones ===")
	ranking, err := rankSvc.Rank(ctx)
	switch {
	case err != nil:
		fmt.Printf("❌ FAIL [ranking] %v\n\n", err)
	case len(ranking.Entries) == 0:
		fmt.Printf("❌ FAIL [ranking] sin entradas reconciliadas (source=%s)\n\n", ranking.ParseSource)
	default:
		for _, e := range ranking.Entries {
			fmt.Printf("  %2d. %s %.1f★\n", e.Rank, e.Name, e.StarRating)
		}
		fmt.Printf("✅ PASS [ranking] entries=%d source=%s\n\n", len(ranking.Entries), ranking.ParseSource)
		passed++
	}

	fmt.Printf("Tests: %d/%d pasaron\n", passed, total)
	if passed != total {
		os.Exit(1)
	}
	os.Exit(0)
}

// alignedFraction mide cuantos resultados tienen una etiqueta RIASEC presente en el codigo.
func alignedFraction(code domain.TraitCode, results []domain.RecommendedProgram, programs []domain.Program) float64 {
	if len(results) == 0 {
		return 0
	}
	tags := make(map[string][]string, len(programs))
	for _, p := range programs {
		tags[p.ID] = p.RIASECTags
	}

	aligned := 0
	for _, r := range results {
		for _, tag := range tags[r.ProgramID] {
			if tag != "" && strings.ContainsAny(strings.ToUpper(tag[:1]), code.String()) {
				aligned++
				break
			}
		}
	}
	return float64(aligned) / float64(len(results))
}
