package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements crea las tablas que usa el servicio. Son idempotentes.
// La restriccion UNIQUE (user_id, trait_code) es la que garantiza una sola
// recomendacion persistida por usuario y codigo aunque dos requests compitan.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS programs (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		school_name TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		riasec_tags TEXT[] NOT NULL DEFAULT '{}',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS institutions (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		logo_url TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS recommendation_sets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		trait_code CHAR(3) NOT NULL,
		results JSONB NOT NULL,
		generated_at TIMESTAMPTZ NOT NULL,
		UNIQUE (user_id, trait_code)
	)`,
	`CREATE TABLE IF NOT EXISTS assessments (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL UNIQUE,
		scores JSONB NOT NULL,
		trait_code CHAR(3) NOT NULL,
		answered INT NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS advisor_sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS advisor_sessions_user_idx ON advisor_sessions (user_id)`,
	`CREATE TABLE IF NOT EXISTS advisor_messages (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		session_id TEXT NOT NULL REFERENCES advisor_sessions (id) ON DELETE CASCADE,
		content TEXT NOT NULL,
		role TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS advisor_messages_session_idx ON advisor_messages (session_id, created_at)`,
}

// EnsureSchema aplica el esquema base sobre el pool.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	for i, stmt := range schemaStatements {
		if _, err := pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i, err)
		}
	}
	return nil
}
