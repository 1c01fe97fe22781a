package main

import (
	"github.com/spf13/cobra"

	"school-advisor/internal/domain"
	"school-advisor/internal/repository"
	"school-advisor/internal/service"
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend catalog programs for a trait code",
	Example: `  advisor recommend --code RIA
  advisor recommend --code SEC --user 42`,
	RunE: func(cmd *cobra.Command, args []string) error {
		code, _ := cmd.Flags().GetString("code")
		userID, _ := cmd.Flags().GetString("user")
		reset, _ := cmd.Flags().GetBool("reset")

		e, cleanup, err := openEnv(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := service.NewRecommendationService(
			e.llm,
			repository.NewPgCatalogRepository(e.pool),
			repository.NewPgRecommendationRepository(e.pool),
			nil,
			e.timeout,
			e.logger,
		)
		if reset && userID != "" {
			if err := svc.Reset(cmd.Context(), userID, domain.TraitCode(code)); err != nil {
				return err
			}
		}
		outcome, err := svc.Recommend(cmd.Context(), userID, domain.TraitCode(code))
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), outcome)
	},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank catalog institutions",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, cleanup, err := openEnv(cmd.Context(), true)
		if err != nil {
			return err
		}
		defer cleanup()

		svc := service.NewRankingService(e.llm, repository.NewPgCatalogRepository(e.pool), e.timeout, e.logger)
		outcome, err := svc.Rank(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), outcome)
	},
}

func init() {
	recommendCmd.Flags().String("code", "", "Three letter RIASEC code")
	recommendCmd.Flags().String("user", "", "User id; empty runs an anonymous preview without cache")
	recommendCmd.Flags().Bool("reset", false, "Delete the cached set for --user before recommending")
	_ = recommendCmd.MarkFlagRequired("code")
}
