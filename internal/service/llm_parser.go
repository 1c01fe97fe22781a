package service

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"school-advisor/internal/matching"
)

// ParseSource indica por que camino se obtuvo una lista desde la respuesta del LLM.
type ParseSource string

const (
	ParseSourceJSON  ParseSource = "json"
	ParseSourceLines ParseSource = "lines"
	ParseSourceNone  ParseSource = "none"
)

// MinFallbackLineLength descarta lineas cortas (corchetes, numeros sueltos) en el fallback.
const MinFallbackLineLength = 4

// TitleParse es el resultado de parsear una lista de titulos.
type TitleParse struct {
	Titles []string
	Source ParseSource
}

// Failed es true cuando no se pudo extraer ningun titulo.
func (p TitleParse) Failed() bool { return p.Source == ParseSourceNone }

// RankingParse es el resultado de parsear una lista de instituciones.
type RankingParse struct {
	Entries []matching.RankedName
	Source  ParseSource
}

func (p RankingParse) Failed() bool { return p.Source == ParseSourceNone }

// LLMResponseParser centraliza la lógica de limpieza y parseo de respuestas del LLM.
type LLMResponseParser struct{}

// DefaultLLMResponseParser permite uso directo sin instanciar.
var DefaultLLMResponseParser = LLMResponseParser{}

var (
	reListMarker = regexp.MustCompile(`^\s*(?:[-*•]+\s*|\(?\d{1,3}\s*[.)\]:-]\s*)`)
	reRankSplit  = regexp.MustCompile(`\s+[-–—]\s+|:\s+`)
)

// ParseTitles intenta primero un array JSON valido contra schema; si falla,
// usa una linea por titulo. Nunca paniquea: en el peor caso devuelve
// Source=none y lista vacia.
func (LLMResponseParser) ParseTitles(raw string) TitleParse {
	cleaned := stripLLMFences(raw)

	for _, candidate := range jsonCandidates(cleaned, raw) {
		if err := validateJSON(schemaTitleList, candidate); err != nil {
			continue
		}
		if titles := decodeTitles(candidate); len(titles) > 0 {
			return TitleParse{Titles: titles, Source: ParseSourceJSON}
		}
	}

	var titles []string
	for _, line := range strings.Split(cleaned, "\n") {
		if title := cleanFallbackLine(line); title != "" {
			titles = append(titles, title)
		}
	}
	if len(titles) == 0 {
		return TitleParse{Source: ParseSourceNone}
	}
	return TitleParse{Titles: titles, Source: ParseSourceLines}
}

// ParseRankings aplica la misma estrategia a una lista de {"name","rationale"}.
// En el fallback cada linea es "Nombre - motivo" o solo "Nombre".
func (LLMResponseParser) ParseRankings(raw string) RankingParse {
	cleaned := stripLLMFences(raw)

	for _, candidate := range jsonCandidates(cleaned, raw) {
		if err := validateJSON(schemaRankList, candidate); err != nil {
			continue
		}
		if entries := decodeRankings(candidate); len(entries) > 0 {
			return RankingParse{Entries: entries, Source: ParseSourceJSON}
		}
	}

	var entries []matching.RankedName
	for _, line := range strings.Split(cleaned, "\n") {
		line = reListMarker.ReplaceAllString(strings.TrimSpace(line), "")
		name, rationale := line, ""
		if loc := reRankSplit.FindStringIndex(line); loc != nil {
			name, rationale = line[:loc[0]], line[loc[1]:]
		}
		name = cleanFallbackLine(name)
		if name == "" {
			continue
		}
		entries = append(entries, matching.RankedName{
			Name:      name,
			Rationale: strings.TrimSpace(UnescapeMaybeDoubleEscaped(trimQuotes(rationale))),
		})
	}
	if len(entries) == 0 {
		return RankingParse{Source: ParseSourceNone}
	}
	return RankingParse{Entries: entries, Source: ParseSourceLines}
}

// jsonCandidates junta los arrays del texto limpio y del crudo, y el texto
// limpio entero, sin repetir.
func jsonCandidates(cleaned, raw string) []string {
	var out []string
	seen := make(map[string]struct{})
	all := append(jsonArrays(cleaned), jsonArrays(raw)...)
	for _, c := range append(all, cleaned) {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}

func decodeTitles(candidate string) []string {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil
	}
	titles := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			var obj struct {
				Title string `json:"title"`
			}
			if err := json.Unmarshal(item, &obj); err != nil {
				continue
			}
			s = obj.Title
		}
		if s = strings.TrimSpace(s); s != "" {
			titles = append(titles, s)
		}
	}
	return titles
}

func decodeRankings(candidate string) []matching.RankedName {
	var items []json.RawMessage
	if err := json.Unmarshal([]byte(candidate), &items); err != nil {
		return nil
	}
	entries := make([]matching.RankedName, 0, len(items))
	for _, item := range items {
		var entry matching.RankedName
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			entry.Name = s
		} else if err := json.Unmarshal(item, &entry); err != nil {
			continue
		}
		entry.Name = strings.TrimSpace(entry.Name)
		entry.Rationale = strings.TrimSpace(entry.Rationale)
		if entry.Name != "" {
			entries = append(entries, entry)
		}
	}
	return entries
}

// cleanFallbackLine quita marcadores de lista y comillas. Devuelve "" si la
// linea queda mas corta que MinFallbackLineLength.
func cleanFallbackLine(line string) string {
	line = strings.TrimSpace(line)
	line = reListMarker.ReplaceAllString(line, "")
	line = strings.TrimSpace(UnescapeMaybeDoubleEscaped(trimQuotes(line)))
	if utf8.RuneCountInString(line) < MinFallbackLineLength {
		return ""
	}
	return line
}

func trimQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimRight(s, ",")
	s = strings.Trim(s, "\"'“”‘’`*")
	return strings.TrimSpace(s)
}

// UnescapeMaybeDoubleEscaped intenta arreglar casos donde el modelo manda texto doble-escapado.
func UnescapeMaybeDoubleEscaped(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return s
	}

	if !strings.Contains(s, `\`) {
		return s
	}

	quoted := `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
	if unq, err := strconv.Unquote(quoted); err == nil {
		return strings.TrimSpace(unq)
	}

	return unescapeMinimalEscapes(s)
}

func unescapeMinimalEscapes(s string) string {
	replacer := strings.NewReplacer(
		`\\`, `\`,
		`\"`, `"`,
		`\n`, "\n",
		`\r`, "\r",
		`\t`, "\t",
	)
	return replacer.Replace(s)
}

// SanitizeAdvisorReply limpia fences y escapes de una respuesta de texto libre.
func SanitizeAdvisorReply(raw string) string {
	return strings.TrimSpace(UnescapeMaybeDoubleEscaped(stripLLMFences(raw)))
}
