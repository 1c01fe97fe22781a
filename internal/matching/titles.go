package matching

import (
	"strings"

	"school-advisor/internal/domain"
)

// MaxMatches es el tope de entradas devueltas por MatchTitles y ReconcileRankings.
const MaxMatches = 10

// TitleMatch une un titulo candidato con la entrada de catalogo encontrada.
// Rank es la posicion (1-based) del candidato en la lista del LLM.
type TitleMatch struct {
	Rank      int
	Candidate string
	Program   domain.Program
	Exact     bool
}

// TitleReport es el resultado de MatchTitles.
type TitleReport struct {
	Matches     []TitleMatch
	Diagnostics domain.MatchDiagnostics
}

// Programs devuelve solo las entradas de catalogo, en orden de match.
func (r TitleReport) Programs() []domain.Program {
	out := make([]domain.Program, 0, len(r.Matches))
	for _, m := range r.Matches {
		out = append(out, m.Program)
	}
	return out
}

// MatchTitles reconcilia los titulos del LLM contra el catalogo respetando el
// orden de los candidatos. Para cada candidato: primero match exacto de
// titulos normalizados; si no hay, el primer programa del catalogo que
// contenga al candidato o este contenido en el. Sin match el candidato se
// descarta y queda en Diagnostics.Unmatched. Nunca devuelve mas de
// MaxMatches entradas ni ids repetidos.
func MatchTitles(candidates []string, catalog []domain.Program) TitleReport {
	report := TitleReport{
		Diagnostics: domain.MatchDiagnostics{Requested: len(candidates)},
	}

	normalized := make([]string, len(catalog))
	keys := make([]string, len(catalog))
	for i, p := range catalog {
		normalized[i] = Normalize(p.Title)
		keys[i] = titleKey(normalized[i])
	}
	used := make(map[string]struct{}, MaxMatches)

	for i, candidate := range candidates {
		if len(report.Matches) == MaxMatches {
			report.Diagnostics.Truncated = len(candidates) - i
			break
		}

		needle := Normalize(candidate)
		idx, exact := findProgram(needle, normalized, keys)
		if idx < 0 {
			report.Diagnostics.Unmatched = append(report.Diagnostics.Unmatched, candidate)
			continue
		}

		program := catalog[idx]
		if _, dup := used[program.ID]; dup {
			report.Diagnostics.Duplicates++
			continue
		}
		used[program.ID] = struct{}{}
		report.Matches = append(report.Matches, TitleMatch{
			Rank:      i + 1,
			Candidate: candidate,
			Program:   program,
			Exact:     exact,
		})
	}

	report.Diagnostics.Matched = len(report.Matches)
	return report
}

// degreeAbbreviations expande las siglas de grado mas comunes a su forma larga.
var degreeAbbreviations = map[string][]string{
	"bs":   {"bachelor", "science"},
	"bsc":  {"bachelor", "science"},
	"ba":   {"bachelor", "arts"},
	"ab":   {"bachelor", "arts"},
	"bfa":  {"bachelor", "fine", "arts"},
	"ms":   {"master", "science"},
	"msc":  {"master", "science"},
	"ma":   {"master", "arts"},
	"bsed": {"bachelor", "secondary", "education"},
	"beed": {"bachelor", "elementary", "education"},
}

// titleConnectors no aportan al comparar titulos: "BS Nursing" y
// "Bachelor of Science in Nursing" deben dar la misma clave.
var titleConnectors = map[string]struct{}{
	"of": {}, "in": {}, "and": {}, "the": {},
}

// titleKey arma la clave de comparacion difusa de un titulo ya normalizado:
// siglas de grado expandidas y conectores fuera. Normalize no cambia.
func titleKey(normalized string) string {
	fields := strings.Fields(normalized)
	out := make([]string, 0, len(fields)+2)
	for _, f := range fields {
		if long, ok := degreeAbbreviations[f]; ok {
			out = append(out, long...)
			continue
		}
		if _, ok := titleConnectors[f]; ok {
			continue
		}
		out = append(out, f)
	}
	return strings.Join(out, " ")
}

// findProgram busca primero igualdad de titulos normalizados y despues la
// primera contencion, en cualquier sentido, entre claves difusas.
func findProgram(needle string, titles, keys []string) (int, bool) {
	if needle == "" {
		return -1, false
	}
	for i, title := range titles {
		if title == needle {
			return i, true
		}
	}
	needleKey := titleKey(needle)
	for i, key := range keys {
		if containsEither(key, needleKey) {
			return i, false
		}
	}
	return -1, false
}
