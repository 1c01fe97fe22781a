package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-advisor/internal/domain"
)

// defaultRecentMessages es la ventana que usa el prompt del asesor.
const defaultRecentMessages = 10

type MessageRepository interface {
	Create(ctx context.Context, message domain.Message) error
	// ListRecent devuelve los ultimos limit mensajes de la sesion en orden cronologico.
	ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.Message, error)
}

type PgMessageRepository struct {
	pool *pgxpool.Pool
}

func NewPgMessageRepository(pool *pgxpool.Pool) *PgMessageRepository {
	return &PgMessageRepository{pool: pool}
}

func (r *PgMessageRepository) Create(ctx context.Context, message domain.Message) error {
	const query = `
		INSERT INTO advisor_messages (id, user_id, session_id, content, role, created_at)
		VALUES (@id, @user_id, @session_id, @content, @role, @created_at)
	`
	_, err := r.pool.Exec(ctx, query, pgx.NamedArgs{
		"id":         message.ID,
		"user_id":    message.UserID,
		"session_id": message.SessionID,
		"content":    message.Content,
		"role":       message.Role,
		"created_at": message.CreatedAt,
	})
	return err
}

func (r *PgMessageRepository) ListRecent(ctx context.Context, sessionID string, limit int) ([]domain.Message, error) {
	if limit <= 0 {
		limit = defaultRecentMessages
	}
	const query = `
		SELECT id, user_id, session_id, content, role, created_at
		FROM (
			SELECT id, user_id, session_id, content, role, created_at
			FROM advisor_messages
			WHERE session_id = $1
			ORDER BY created_at DESC
			LIMIT $2
		) recent
		ORDER BY created_at ASC
	`
	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (domain.Message, error) {
		var msg domain.Message
		err := row.Scan(&msg.ID, &msg.UserID, &msg.SessionID, &msg.Content, &msg.Role, &msg.CreatedAt)
		return msg, err
	})
}
