package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-advisor/internal/domain"
)

// PgRecommendationRepository guarda un RecommendationSet por (user_id, trait_code).
// La restriccion UNIQUE de la tabla resuelve la carrera entre writers: el
// primero gana y el segundo recibe stored=false.
type PgRecommendationRepository struct {
	pool *pgxpool.Pool
}

func NewPgRecommendationRepository(pool *pgxpool.Pool) *PgRecommendationRepository {
	return &PgRecommendationRepository{pool: pool}
}

func (r *PgRecommendationRepository) Get(ctx context.Context, userID string, code domain.TraitCode) (domain.RecommendationSet, bool, error) {
	const query = `
		SELECT id, user_id, trait_code, results, generated_at
		FROM recommendation_sets
		WHERE user_id = $1 AND trait_code = $2
	`
	var (
		set     domain.RecommendationSet
		rawCode string
		results []byte
	)
	err := r.pool.QueryRow(ctx, query, userID, string(code)).Scan(
		&set.ID,
		&set.UserID,
		&rawCode,
		&results,
		&set.GeneratedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.RecommendationSet{}, false, nil
	}
	if err != nil {
		return domain.RecommendationSet{}, false, err
	}
	set.TraitCode = domain.TraitCode(rawCode)
	if err := json.Unmarshal(results, &set.Results); err != nil {
		return domain.RecommendationSet{}, false, fmt.Errorf("decode results: %w", err)
	}
	return set, true, nil
}

func (r *PgRecommendationRepository) Put(ctx context.Context, set domain.RecommendationSet) (bool, error) {
	const query = `
		INSERT INTO recommendation_sets (id, user_id, trait_code, results, generated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id, trait_code) DO NOTHING
	`
	results, err := json.Marshal(set.Results)
	if err != nil {
		return false, fmt.Errorf("encode results: %w", err)
	}

	tag, err := r.pool.Exec(ctx, query,
		set.ID,
		set.UserID,
		string(set.TraitCode),
		results,
		set.GeneratedAt,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() == 1, nil
}

func (r *PgRecommendationRepository) Delete(ctx context.Context, userID string, code domain.TraitCode) error {
	const query = `
		DELETE FROM recommendation_sets
		WHERE user_id = $1 AND trait_code = $2
	`
	_, err := r.pool.Exec(ctx, query, userID, string(code))
	return err
}
