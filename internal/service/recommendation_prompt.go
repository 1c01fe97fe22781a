package service

import (
	"fmt"
	"strings"

	"school-advisor/internal/domain"
	"school-advisor/internal/matching"
)

// buildRecommendationPrompt arma el prompt con el codigo RIASEC y el catalogo
// completo. Se pide devolver titulos textuales del catalogo como array JSON.
func buildRecommendationPrompt(code domain.TraitCode, programs []domain.Program) string {
	var sb strings.Builder

	sb.WriteString("You are a career guidance counselor for senior high school students.\n")
	sb.WriteString(fmt.Sprintf("The student's Holland (RIASEC) code is %s: ", code))
	names := make([]string, 0, 3)
	for _, c := range code.Categories() {
		names = append(names, c.Name())
	}
	sb.WriteString(strings.Join(names, ", "))
	sb.WriteString(".\n\n")

	sb.WriteString("=== PROGRAM CATALOG ===\n")
	for i, p := range programs {
		sb.WriteString(fmt.Sprintf("%d. %s", i+1, strings.TrimSpace(p.Title)))
		if school := strings.TrimSpace(p.SchoolName); school != "" {
			sb.WriteString(fmt.Sprintf(" | school: %s", school))
		}
		if len(p.RIASECTags) > 0 {
			sb.WriteString(fmt.Sprintf(" | tags: %s", strings.Join(p.RIASECTags, ",")))
		}
		if desc := strings.TrimSpace(p.Description); desc != "" {
			sb.WriteString(fmt.Sprintf(" | %s", desc))
		}
		sb.WriteString("\n")
	}

	sb.WriteString("\n=== INSTRUCTIONS ===\n")
	sb.WriteString(fmt.Sprintf("Pick the %d programs from the catalog that best fit this code, best first.\n", matching.MaxMatches))
	sb.WriteString("Copy each title exactly as written in the catalog. Do not invent programs.\n")
	sb.WriteString("Return ONLY a JSON array of strings, e.g. [\"Title A\", \"Title B\"]. No prose, no markdown.")

	return sb.String()
}

// buildProgramRationale explica el match con las letras del codigo que
// coinciden con los tags del programa.
func buildProgramRationale(code domain.TraitCode, p domain.Program) string {
	var shared []string
	for _, c := range code.Categories() {
		for _, tag := range p.RIASECTags {
			tag = strings.TrimSpace(tag)
			if strings.EqualFold(tag, string(c)) || strings.EqualFold(tag, c.Name()) {
				shared = append(shared, c.Name())
				break
			}
		}
	}
	if len(shared) == 0 {
		return fmt.Sprintf("Suggested for your %s profile.", code)
	}
	return fmt.Sprintf("Fits your %s profile through %s interests.", code, strings.Join(shared, " and "))
}
