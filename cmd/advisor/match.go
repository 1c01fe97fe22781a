package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"school-advisor/internal/matching"
	"school-advisor/internal/repository"
)

var matchCmd = &cobra.Command{
	Use:     "match",
	Short:   "Match candidate titles against the stored program catalog",
	Example: `  advisor match --titles "BS Computer Science;nursing"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, _ := cmd.Flags().GetString("titles")
		titles := splitTitles(raw)

		e, cleanup, err := openEnv(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer cleanup()

		programs, err := repository.NewPgCatalogRepository(e.pool).ListPrograms(cmd.Context())
		if err != nil {
			return fmt.Errorf("list programs: %w", err)
		}

		report := matching.MatchTitles(titles, programs)
		out := cmd.OutOrStdout()
		for _, m := range report.Matches {
			kind := "fuzzy"
			if m.Exact {
				kind = "exact"
			}
			fmt.Fprintf(out, "%2d %-5s %q -> %s (%s)\n", m.Rank, kind, m.Candidate, m.Program.Title, m.Program.ID)
		}
		return printJSON(out, report.Diagnostics)
	},
}

func init() {
	matchCmd.Flags().String("titles", "", "Semicolon separated candidate titles")
	_ = matchCmd.MarkFlagRequired("titles")
}

func splitTitles(raw string) []string {
	var titles []string
	for _, t := range strings.Split(raw, ";") {
		if t = strings.TrimSpace(t); t != "" {
			titles = append(titles, t)
		}
	}
	return titles
}
