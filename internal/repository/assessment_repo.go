package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"school-advisor/internal/domain"
)

type AssessmentRepository interface {
	Upsert(ctx context.Context, assessment domain.Assessment) error
	GetByUserID(ctx context.Context, userID string) (domain.Assessment, error)
}

type PgAssessmentRepository struct {
	pool *pgxpool.Pool
}

func NewPgAssessmentRepository(pool *pgxpool.Pool) *PgAssessmentRepository {
	return &PgAssessmentRepository{pool: pool}
}

func (r *PgAssessmentRepository) Upsert(ctx context.Context, assessment domain.Assessment) error {
	const query = `
		INSERT INTO assessments (id, user_id, scores, trait_code, answered, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id)
		DO UPDATE SET
			scores = EXCLUDED.scores,
			trait_code = EXCLUDED.trait_code,
			answered = EXCLUDED.answered,
			updated_at = EXCLUDED.updated_at
	`

	scores, err := json.Marshal(assessment.Scores)
	if err != nil {
		return fmt.Errorf("encode scores: %w", err)
	}

	_, err = r.pool.Exec(ctx, query,
		assessment.ID,
		assessment.UserID,
		scores,
		string(assessment.Code),
		assessment.Answered,
		assessment.CreatedAt,
		assessment.UpdatedAt,
	)
	return err
}

// GetByUserID devuelve pgx.ErrNoRows si el usuario nunca respondio el cuestionario.
func (r *PgAssessmentRepository) GetByUserID(ctx context.Context, userID string) (domain.Assessment, error) {
	const query = `
		SELECT id, user_id, scores, trait_code, answered, created_at, updated_at
		FROM assessments
		WHERE user_id = $1
	`
	var (
		a       domain.Assessment
		scores  []byte
		rawCode string
	)
	err := r.pool.QueryRow(ctx, query, userID).Scan(
		&a.ID,
		&a.UserID,
		&scores,
		&rawCode,
		&a.Answered,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return domain.Assessment{}, err
	}
	a.Code = domain.TraitCode(rawCode)
	a.Scores = domain.NewTraitScores()
	if err := json.Unmarshal(scores, &a.Scores); err != nil {
		return domain.Assessment{}, fmt.Errorf("decode scores: %w", err)
	}
	return a, nil
}
