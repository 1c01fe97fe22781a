package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-advisor/internal/domain"
)

// SessionRepository persiste sesiones del asesor. GetByID devuelve pgx.ErrNoRows si no existe.
type SessionRepository interface {
	Create(ctx context.Context, session domain.Session) error
	GetByID(ctx context.Context, id string) (domain.Session, error)
}

type PgSessionRepository struct {
	pool *pgxpool.Pool
}

func NewPgSessionRepository(pool *pgxpool.Pool) *PgSessionRepository {
	return &PgSessionRepository{pool: pool}
}

func (r *PgSessionRepository) Create(ctx context.Context, session domain.Session) error {
	const query = `
		INSERT INTO advisor_sessions (id, user_id, created_at)
		VALUES (@id, @user_id, @created_at)
	`
	_, err := r.pool.Exec(ctx, query, pgx.NamedArgs{
		"id":         session.ID,
		"user_id":    session.UserID,
		"created_at": session.CreatedAt,
	})
	return err
}

func (r *PgSessionRepository) GetByID(ctx context.Context, id string) (domain.Session, error) {
	const query = `
		SELECT id, user_id, created_at
		FROM advisor_sessions
		WHERE id = $1
	`
	rows, err := r.pool.Query(ctx, query, id)
	if err != nil {
		return domain.Session{}, err
	}
	// Las columnas siguen el orden de los campos de domain.Session.
	return pgx.CollectOneRow(rows, pgx.RowToStructByPos[domain.Session])
}
