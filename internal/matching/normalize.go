// Package matching reconcilia nombres libres devueltos por el LLM contra los
// catalogos canonicos de carreras y escuelas. Todo es puro y determinista.
package matching

import (
	"strings"
	"unicode"
)

// Normalize baja a minusculas, elimina todo lo que no sea letra, digito o
// espacio, colapsa espacios y recorta. Normalize(Normalize(x)) == Normalize(x).
func Normalize(text string) string {
	var sb strings.Builder
	sb.Grow(len(text))
	pendingSpace := false
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			pendingSpace = false
			sb.WriteRune(r)
		case unicode.IsSpace(r):
			pendingSpace = true
		}
	}
	return sb.String()
}

// containsEither aplica la regla bidireccional de substring. Los vacios nunca
// matchean: "" es substring de cualquier cosa.
func containsEither(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
