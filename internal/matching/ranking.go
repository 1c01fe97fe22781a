package matching

import (
	"math"

	"school-advisor/internal/domain"
)

const (
	MaxStars = 5.0
	MinStars = 3.0
	MaxRank  = 10
)

// RankedName es un item del ranking crudo devuelto por el LLM.
type RankedName struct {
	Name      string `json:"name"`
	Rationale string `json:"rationale"`
}

// RankingReport es el resultado de ReconcileRankings.
type RankingReport struct {
	Entries     []domain.InstitutionRank
	Diagnostics domain.MatchDiagnostics
}

// StarRating interpola linealmente entre MaxStars (rank 1) y MinStars
// (rank MaxRank) y redondea al 0.5 mas cercano.
func StarRating(rank int) float64 {
	if rank < 1 {
		rank = 1
	}
	if rank > MaxRank {
		rank = MaxRank
	}
	rating := MaxStars - float64(rank-1)*(MaxStars-MinStars)/float64(MaxRank-1)
	return math.Round(rating*2) / 2
}

// ReconcileRankings matchea cada nombre rankeado contra las instituciones con
// la regla bidireccional de substring, en orden. Rank es la posicion 1-based
// en el ranking crudo. Los que no matchean se descartan en silencio.
func ReconcileRankings(raw []RankedName, institutions []domain.Institution) RankingReport {
	report := RankingReport{
		Diagnostics: domain.MatchDiagnostics{Requested: len(raw)},
	}

	normalized := make([]string, len(institutions))
	for i, inst := range institutions {
		normalized[i] = Normalize(inst.Name)
	}
	used := make(map[string]struct{}, MaxMatches)

	for i, item := range raw {
		if len(report.Entries) == MaxMatches {
			report.Diagnostics.Truncated = len(raw) - i
			break
		}

		needle := Normalize(item.Name)
		idx := -1
		for j, name := range normalized {
			if containsEither(name, needle) {
				idx = j
				break
			}
		}
		if idx < 0 {
			report.Diagnostics.Unmatched = append(report.Diagnostics.Unmatched, item.Name)
			continue
		}

		inst := institutions[idx]
		if _, dup := used[inst.ID]; dup {
			report.Diagnostics.Duplicates++
			continue
		}
		used[inst.ID] = struct{}{}

		rank := i + 1
		report.Entries = append(report.Entries, domain.InstitutionRank{
			Rank:          rank,
			InstitutionID: inst.ID,
			Name:          inst.Name,
			LogoURL:       inst.LogoURL,
			Rationale:     item.Rationale,
			StarRating:    StarRating(rank),
		})
	}

	report.Diagnostics.Matched = len(report.Entries)
	return report
}
