package domain

import "time"

// RecommendedProgram es un elemento del MatchResult. Rank es la posicion
// que el LLM le asigno al titulo que produjo el match.
type RecommendedProgram struct {
	Rank       int    `json:"rank"`
	ProgramID  string `json:"program_id"`
	Title      string `json:"title"`
	SchoolName string `json:"school_name"`
	Rationale  string `json:"rationale"`
}

// RecommendationSet es el resultado persistido por (usuario, codigo).
type RecommendationSet struct {
	ID          string               `json:"id"`
	UserID      string               `json:"user_id"`
	TraitCode   TraitCode            `json:"trait_code"`
	Results     []RecommendedProgram `json:"results"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// InstitutionRank es una escuela reconciliada contra el catalogo.
type InstitutionRank struct {
	Rank          int     `json:"rank"`
	InstitutionID string  `json:"institution_id"`
	Name          string  `json:"name"`
	LogoURL       string  `json:"logo_url,omitempty"`
	Rationale     string  `json:"rationale"`
	StarRating    float64 `json:"star_rating"`
}

// MatchDiagnostics resume cuantos titulos pidio el LLM y cuantos matchearon.
// Un faltante no es error, solo observabilidad.
type MatchDiagnostics struct {
	Requested  int      `json:"requested"`
	Matched    int      `json:"matched"`
	Unmatched  []string `json:"unmatched,omitempty"`
	Duplicates int      `json:"duplicates"`
	Truncated  int      `json:"truncated"`
}
