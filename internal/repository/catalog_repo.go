package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"school-advisor/internal/domain"
)

// CatalogRepository lee los catalogos canonicos. Un catalogo vacio devuelve
// slice vacia y nil; los errores de conexion se propagan tal cual.
type CatalogRepository interface {
	ListPrograms(ctx context.Context) ([]domain.Program, error)
	ListInstitutions(ctx context.Context) ([]domain.Institution, error)
}

type PgCatalogRepository struct {
	pool *pgxpool.Pool
}

func NewPgCatalogRepository(pool *pgxpool.Pool) *PgCatalogRepository {
	return &PgCatalogRepository{pool: pool}
}

func (r *PgCatalogRepository) ListPrograms(ctx context.Context) ([]domain.Program, error) {
	// El orden por created_at, id define el "primer match" del matcher.
	const query = `
		SELECT id, title, school_name, description, riasec_tags, created_at
		FROM programs
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	programs := []domain.Program{}
	for rows.Next() {
		var p domain.Program
		if err := rows.Scan(
			&p.ID,
			&p.Title,
			&p.SchoolName,
			&p.Description,
			&p.RIASECTags,
			&p.CreatedAt,
		); err != nil {
			return nil, err
		}
		programs = append(programs, p)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return programs, nil
}

func (r *PgCatalogRepository) ListInstitutions(ctx context.Context) ([]domain.Institution, error) {
	const query = `
		SELECT id, name, logo_url
		FROM institutions
		ORDER BY created_at, id
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	institutions := []domain.Institution{}
	for rows.Next() {
		var inst domain.Institution
		if err := rows.Scan(&inst.ID, &inst.Name, &inst.LogoURL); err != nil {
			return nil, err
		}
		institutions = append(institutions, inst)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return institutions, nil
}
