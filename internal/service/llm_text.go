package service

import (
	"regexp"
	"sort"
	"strings"
)

// maxJSONCandidates acota cuantos arrays se prueban contra el schema por respuesta.
const maxJSONCandidates = 8

var reOuterFence = regexp.MustCompile("(?s)^```[A-Za-z0-9_-]*[ \t]*\n?(.*?)\n?```$")

// stripLLMFences quita el BOM y un fence ``` que envuelva toda la respuesta.
// Un fence abierto sin cerrar (respuesta cortada por tokens) tambien se quita.
func stripLLMFences(raw string) string {
	s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "\uFEFF"))
	if m := reOuterFence.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	if strings.HasPrefix(s, "```") {
		nl := strings.IndexByte(s, '\n')
		if nl == -1 {
			return ""
		}
		return strings.TrimSpace(s[nl+1:])
	}
	return s
}

// jsonArrays devuelve los arrays JSON balanceados de nivel superior en el
// orden en que aparecen. Un "[1]" suelto en la prosa no tapa al array real
// que viene despues: ambos se devuelven y decide el schema. Un "[" que nunca
// cierra se ignora sin ocultar los arrays que tenga adentro o despues.
// Es una sola pasada lineal: la respuesta puede llegar a 1 MiB.
func jsonArrays(input string) []string {
	type span struct{ start, end int }
	var (
		open     []int
		closed   []span
		inString bool
		escaped  bool
	)
	for i := 0; i < len(input); i++ {
		ch := input[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			// Las comillas fuera de un array son prosa.
			inString = len(open) > 0
		case '[':
			open = append(open, i)
		case ']':
			if len(open) == 0 {
				continue
			}
			start := open[len(open)-1]
			open = open[:len(open)-1]
			closed = append(closed, span{start, i})
		}
	}

	// Los spans cierran de adentro hacia afuera; ordenados por inicio, un span
	// es de nivel superior si arranca despues de que termino el anterior elegido.
	sort.Slice(closed, func(a, b int) bool { return closed[a].start < closed[b].start })
	var out []string
	last := -1
	for _, sp := range closed {
		if sp.start <= last {
			continue
		}
		out = append(out, input[sp.start:sp.end+1])
		last = sp.end
		if len(out) == maxJSONCandidates {
			break
		}
	}
	return out
}
