package matching

import (
	"fmt"
	"testing"

	"school-advisor/internal/domain"
)

func TestMatchTitles_FuzzySubstring(t *testing.T) {
	catalog := []domain.Program{{ID: "p1", Title: "BS Computer Science"}}
	report := MatchTitles([]string{"Computer Science"}, catalog)

	if len(report.Matches) != 1 || report.Matches[0].Program.ID != "p1" {
		t.Fatalf("expected match on p1, got %+v", report.Matches)
	}
	if report.Matches[0].Exact {
		t.Fatalf("expected fuzzy match, got exact")
	}
}

func TestMatchTitles_ReverseContainment(t *testing.T) {
	catalog := []domain.Program{{ID: "p1", Title: "Nursing"}}
	report := MatchTitles([]string{"BS Nursing"}, catalog)
	if len(report.Matches) != 1 || report.Matches[0].Program.ID != "p1" {
		t.Fatalf("expected candidate containing catalog title to match, got %+v", report.Matches)
	}
}

func TestMatchTitles_ExactBeatsEarlierFuzzy(t *testing.T) {
	catalog := []domain.Program{
		{ID: "p1", Title: "BS Nursing Assistant"},
		{ID: "p2", Title: "BS Nursing"},
	}
	report := MatchTitles([]string{"bs nursing"}, catalog)
	if len(report.Matches) != 1 || report.Matches[0].Program.ID != "p2" || !report.Matches[0].Exact {
		t.Fatalf("expected exact match on p2, got %+v", report.Matches)
	}
}

func TestMatchTitles_FirstFuzzyMatchWins(t *testing.T) {
	catalog := []domain.Program{
		{ID: "p1", Title: "BS Nursing"},
		{ID: "p2", Title: "BS Nursing Assistant"},
	}
	report := MatchTitles([]string{"Nursing"}, catalog)
	if len(report.Matches) != 1 || report.Matches[0].Program.ID != "p1" {
		t.Fatalf("expected catalog order to decide (p1), got %+v", report.Matches)
	}
}

func TestMatchTitles_UnmatchedDiagnostic(t *testing.T) {
	catalog := []domain.Program{{ID: "1", Title: "Bachelor of Science in Nursing"}}
	report := MatchTitles([]string{"BS Nursing", "Doesnotexist Program"}, catalog)

	if len(report.Matches) != 1 || report.Matches[0].Program.ID != "1" {
		t.Fatalf("expected exactly one match on id 1, got %+v", report.Matches)
	}
	if report.Diagnostics.Requested != 2 || report.Diagnostics.Matched != 1 {
		t.Fatalf("unexpected diagnostics: %+v", report.Diagnostics)
	}
	if len(report.Diagnostics.Unmatched) != 1 || report.Diagnostics.Unmatched[0] != "Doesnotexist Program" {
		t.Fatalf("expected one unmatched title, got %+v", report.Diagnostics.Unmatched)
	}
}

func TestMatchTitles_DegreeAbbreviations(t *testing.T) {
	catalog := []domain.Program{
		{ID: "1", Title: "Bachelor of Arts in Psychology"},
		{ID: "2", Title: "BSc Civil Engineering"},
		{ID: "3", Title: "Bachelor of Science in Nursing"},
	}
	tests := []struct {
		candidate string
		want      string
	}{
		{"AB Psychology", "1"},
		{"BA Psychology", "1"},
		{"Bachelor of Science in Civil Engineering", "2"},
		{"BS Nursing", "3"},
		{"B.S. Nursing", "3"},
	}
	for _, tt := range tests {
		t.Run(tt.candidate, func(t *testing.T) {
			report := MatchTitles([]string{tt.candidate}, catalog)
			if len(report.Matches) != 1 || report.Matches[0].Program.ID != tt.want {
				t.Fatalf("expected match on %s, got %+v", tt.want, report.Matches)
			}
			if report.Matches[0].Exact {
				t.Fatalf("expected fuzzy match for %q", tt.candidate)
			}
		})
	}
}

func TestTitleKey(t *testing.T) {
	tests := map[string]string{
		"bs nursing":                     "bachelor science nursing",
		"bachelor of science in nursing": "bachelor science nursing",
		"ab communication":               "bachelor arts communication",
		"nursing":                        "nursing",
		"":                               "",
	}
	for in, want := range tests {
		if got := titleKey(in); got != want {
			t.Fatalf("titleKey(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestMatchTitles_PreservesCandidateRank(t *testing.T) {
	catalog := []domain.Program{
		{ID: "a", Title: "BS Accountancy"},
		{ID: "b", Title: "BS Biology"},
	}
	report := MatchTitles([]string{"Unknown", "Biology", "Accountancy"}, catalog)
	if len(report.Matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(report.Matches))
	}
	if report.Matches[0].Program.ID != "b" || report.Matches[0].Rank != 2 {
		t.Fatalf("expected biology first with rank 2, got %+v", report.Matches[0])
	}
	if report.Matches[1].Program.ID != "a" || report.Matches[1].Rank != 3 {
		t.Fatalf("expected accountancy second with rank 3, got %+v", report.Matches[1])
	}
}

func TestMatchTitles_CapAndNoDuplicates(t *testing.T) {
	var catalog []domain.Program
	var candidates []string
	for i := 1; i <= 15; i++ {
		title := fmt.Sprintf("Program Number %02d", i)
		catalog = append(catalog, domain.Program{ID: fmt.Sprintf("p%d", i), Title: title})
		candidates = append(candidates, title, title)
	}

	report := MatchTitles(candidates, catalog)
	if len(report.Matches) != MaxMatches {
		t.Fatalf("expected cap of %d, got %d", MaxMatches, len(report.Matches))
	}
	seen := map[string]bool{}
	for _, m := range report.Matches {
		if seen[m.Program.ID] {
			t.Fatalf("duplicate id %s", m.Program.ID)
		}
		seen[m.Program.ID] = true
	}
	if report.Diagnostics.Duplicates == 0 {
		t.Fatalf("expected duplicates to be counted")
	}
	if report.Diagnostics.Truncated == 0 {
		t.Fatalf("expected truncated candidates to be counted")
	}
}

func TestMatchTitles_EmptyInputs(t *testing.T) {
	report := MatchTitles([]string{"Nursing"}, nil)
	if len(report.Matches) != 0 || report.Diagnostics.Matched != 0 {
		t.Fatalf("expected empty result for empty catalog, got %+v", report)
	}

	report = MatchTitles(nil, []domain.Program{{ID: "p1", Title: "Nursing"}})
	if len(report.Matches) != 0 || report.Diagnostics.Requested != 0 {
		t.Fatalf("expected empty result for no candidates, got %+v", report)
	}
}

func TestMatchTitles_PunctuationOnlyCandidateNeverMatches(t *testing.T) {
	catalog := []domain.Program{{ID: "p1", Title: "Nursing"}, {ID: "p2", Title: "???"}}
	report := MatchTitles([]string{"---", ""}, catalog)
	if len(report.Matches) != 0 {
		t.Fatalf("expected no matches for empty normalized candidates, got %+v", report.Matches)
	}
	if len(report.Diagnostics.Unmatched) != 2 {
		t.Fatalf("expected 2 unmatched, got %+v", report.Diagnostics.Unmatched)
	}
}

func TestMatchTitles_Deterministic(t *testing.T) {
	catalog := []domain.Program{
		{ID: "p1", Title: "BS Nursing"},
		{ID: "p2", Title: "BS Psychology"},
		{ID: "p3", Title: "BA Psychology"},
	}
	candidates := []string{"Psychology", "Nursing", "Psych"}
	first := MatchTitles(candidates, catalog)
	for i := 0; i < 10; i++ {
		again := MatchTitles(candidates, catalog)
		if len(again.Matches) != len(first.Matches) {
			t.Fatalf("non deterministic length")
		}
		for j := range again.Matches {
			if again.Matches[j].Program.ID != first.Matches[j].Program.ID {
				t.Fatalf("non deterministic order at %d", j)
			}
		}
	}
	if programs := first.Programs(); len(programs) != 2 || programs[0].ID != "p2" || programs[1].ID != "p1" {
		t.Fatalf("unexpected programs: %+v", programs)
	}
}
