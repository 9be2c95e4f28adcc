package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

// GradeRepository handles the school's grade and stream structure.
type GradeRepository struct {
	pool *pgxpool.Pool
}

// NewGradeRepository creates a new GradeRepository.
func NewGradeRepository(pool *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{pool: pool}
}

// List retrieves all grades followed by their streams.
func (r *GradeRepository) List(ctx context.Context) ([]model.Grade, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, name, parent_id, created_at
		 FROM school_config ORDER BY type, name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grades := []model.Grade{}
	for rows.Next() {
		var g model.Grade
		if err := rows.Scan(&g.ID, &g.Type, &g.Name, &g.ParentID, &g.CreatedAt); err != nil {
			return nil, err
		}
		grades = append(grades, g)
	}
	return grades, rows.Err()
}

// Create inserts a new grade or stream.
func (r *GradeRepository) Create(ctx context.Context, g *model.Grade) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO school_config (type, name, parent_id) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		g.Type, g.Name, g.ParentID,
	).Scan(&g.ID, &g.CreatedAt)
	return mapError(err, ErrDuplicateGrade)
}

// Update modifies a grade or stream.
func (r *GradeRepository) Update(ctx context.Context, g *model.Grade) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE school_config SET type = $1, name = $2, parent_id = $3 WHERE id = $4 RETURNING created_at`,
		g.Type, g.Name, g.ParentID, g.ID,
	).Scan(&g.CreatedAt)
	return mapError(err, ErrDuplicateGrade)
}

// Delete removes a grade and, through the foreign key, its streams.
func (r *GradeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM school_config WHERE id = $1`, id))
}
