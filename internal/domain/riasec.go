package domain

import (
	"errors"
	"strings"
)

// TraitCategory es una de las seis categorias RIASEC.
type TraitCategory string

const (
	TraitRealistic     TraitCategory = "R"
	TraitInvestigative TraitCategory = "I"
	TraitArtistic      TraitCategory = "A"
	TraitSocial        TraitCategory = "S"
	TraitEnterprising  TraitCategory = "E"
	TraitConventional  TraitCategory = "C"
)

// TraitCategories respeta el orden de declaracion R,I,A,S,E,C. Ese orden
// desempata los puntajes iguales al construir el TraitCode.
var TraitCategories = []TraitCategory{
	TraitRealistic,
	TraitInvestigative,
	TraitArtistic,
	TraitSocial,
	TraitEnterprising,
	TraitConventional,
}

var traitNames = map[TraitCategory]string{
	TraitRealistic:     "Realistic",
	TraitInvestigative: "Investigative",
	TraitArtistic:      "Artistic",
	TraitSocial:        "Social",
	TraitEnterprising:  "Enterprising",
	TraitConventional:  "Conventional",
}

// Name devuelve el nombre largo de la categoria.
func (c TraitCategory) Name() string {
	return traitNames[c]
}

// Valid indica si la categoria pertenece a RIASEC.
func (c TraitCategory) Valid() bool {
	_, ok := traitNames[c]
	return ok
}

// SurveyItem es una pregunta fija del cuestionario.
type SurveyItem struct {
	ID       int           `json:"id"`
	Prompt   string        `json:"prompt"`
	Category TraitCategory `json:"category"`
}

// AnswerSet mapea SurveyItem.ID -> respuesta en escala 1..5.
type AnswerSet map[int]int

// TraitScores acumula el puntaje por categoria. Siempre tiene las seis claves.
type TraitScores map[TraitCategory]int

// NewTraitScores devuelve un TraitScores con las seis categorias en cero.
func NewTraitScores() TraitScores {
	scores := make(TraitScores, len(TraitCategories))
	for _, c := range TraitCategories {
		scores[c] = 0
	}
	return scores
}

var ErrInvalidTraitCode = errors.New("invalid trait code")

// TraitCode es el codigo de tres letras con las categorias dominantes.
type TraitCode string

// ParseTraitCode valida un codigo recibido desde afuera (path, CLI).
// Acepta minusculas y espacios alrededor; rechaza letras repetidas.
func ParseTraitCode(raw string) (TraitCode, error) {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if len(code) != 3 {
		return "", ErrInvalidTraitCode
	}
	seen := make(map[TraitCategory]struct{}, 3)
	for _, r := range code {
		c := TraitCategory(string(r))
		if !c.Valid() {
			return "", ErrInvalidTraitCode
		}
		if _, dup := seen[c]; dup {
			return "", ErrInvalidTraitCode
		}
		seen[c] = struct{}{}
	}
	return TraitCode(code), nil
}

// Categories devuelve las letras del codigo como categorias, en orden.
func (c TraitCode) Categories() []TraitCategory {
	out := make([]TraitCategory, 0, len(c))
	for _, r := range string(c) {
		out = append(out, TraitCategory(string(r)))
	}
	return out
}

func (c TraitCode) String() string {
	return string(c)
}
