package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"school-advisor/internal/config"
	"school-advisor/internal/db"
	"school-advisor/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "advisor",
	Short: "RIASEC school advisor tooling",
	Long:  "Command line access to the RIASEC survey, scorer, catalog matcher and recommendation pipeline.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		_ = godotenv.Load()
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(surveyCmd)
	rootCmd.AddCommand(takeCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(recommendCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(matchCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(tokenCmd)
}

// env agrupa las dependencias que comparten los comandos que tocan la base.
type env struct {
	cfg     *config.Config
	logger  *zap.Logger
	pool    *pgxpool.Pool
	llm     llm.LLMClient
	timeout time.Duration
}

// openEnv carga config, conecta a Postgres y, si withLLM, arma el cliente LLM.
func openEnv(ctx context.Context, withLLM bool) (*env, func(), error) {
	cfg, err := config.LoadConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	logger := zap.NewExample()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("db connect: %w", err)
	}
	if err := db.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("db schema: %w", err)
	}

	e := &env{
		cfg:     cfg,
		logger:  logger,
		pool:    pool,
		timeout: cfg.LLMTimeout(),
	}
	if withLLM {
		client, err := llm.NewFromConfig(ctx, cfg, logger)
		if err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("llm client: %w", err)
		}
		e.llm = client
	}

	cleanup := func() {
		pool.Close()
		_ = logger.Sync()
	}
	return e, cleanup, nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
