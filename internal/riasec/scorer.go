package riasec

import (
	"errors"
	"fmt"
	"sort"

	"school-advisor/internal/domain"
)

const (
	MinAnswer = 1
	MaxAnswer = 5

	// ScoringThreshold: solo "Likely" (4) y "Very Likely" (5) suman, y suman su valor crudo.
	ScoringThreshold = 4

	codeLength = 3
)

var ErrInvalidAnswer = errors.New("invalid answer")

// Validate rechaza ids desconocidos y valores fuera de 1..5.
// Un AnswerSet parcial es valido.
func Validate(answers domain.AnswerSet) error {
	for id, value := range answers {
		if _, ok := ItemByID(id); !ok {
			return fmt.Errorf("%w: unknown item %d", ErrInvalidAnswer, id)
		}
		if value < MinAnswer || value > MaxAnswer {
			return fmt.Errorf("%w: item %d value %d out of range", ErrInvalidAnswer, id, value)
		}
	}
	return nil
}

// Score reduce las respuestas a los seis totales. Las respuestas ausentes o
// menores al umbral no aportan nada; no hay resta.
func Score(answers domain.AnswerSet) domain.TraitScores {
	scores := domain.NewTraitScores()
	for _, item := range items {
		value, ok := answers[item.ID]
		if !ok || value < ScoringThreshold {
			continue
		}
		scores[item.Category] += value
	}
	return scores
}

// Rank ordena las categorias por puntaje descendente y toma las tres primeras.
// Los empates se resuelven por orden de declaracion R,I,A,S,E,C.
func Rank(scores domain.TraitScores) domain.TraitCode {
	ordered := make([]domain.TraitCategory, len(domain.TraitCategories))
	copy(ordered, domain.TraitCategories)
	sort.SliceStable(ordered, func(i, j int) bool {
		return scores[ordered[i]] > scores[ordered[j]]
	})

	code := make([]byte, 0, codeLength)
	for _, c := range ordered[:codeLength] {
		code = append(code, c[0])
	}
	return domain.TraitCode(code)
}
