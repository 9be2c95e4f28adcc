package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

// AreaRepository handles pickup area data access.
type AreaRepository struct {
	pool *pgxpool.Pool
}

// NewAreaRepository creates a new AreaRepository.
func NewAreaRepository(pool *pgxpool.Pool) *AreaRepository {
	return &AreaRepository{pool: pool}
}

// List retrieves areas in pickup order, optionally restricted to one route.
func (r *AreaRepository) List(ctx context.Context, routeID *uuid.UUID) ([]model.Area, error) {
	query := `SELECT id, name, route_id, pickup_order, created_at FROM areas`
	var args []interface{}
	if routeID != nil {
		query += ` WHERE route_id = $1`
		args = append(args, *routeID)
	}
	query += ` ORDER BY route_id, pickup_order, name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	areas := []model.Area{}
	for rows.Next() {
		var a model.Area
		if err := rows.Scan(&a.ID, &a.Name, &a.RouteID, &a.PickupOrder, &a.CreatedAt); err != nil {
			return nil, err
		}
		areas = append(areas, a)
	}
	return areas, rows.Err()
}

// Create inserts a new area.
func (r *AreaRepository) Create(ctx context.Context, a *model.Area) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO areas (name, route_id, pickup_order) VALUES ($1, $2, $3)
		 RETURNING id, created_at`,
		a.Name, a.RouteID, a.PickupOrder,
	).Scan(&a.ID, &a.CreatedAt)
	return mapError(err, ErrDuplicateArea)
}

// Update modifies an existing area.
func (r *AreaRepository) Update(ctx context.Context, a *model.Area) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE areas SET name = $1, route_id = $2, pickup_order = $3 WHERE id = $4 RETURNING created_at`,
		a.Name, a.RouteID, a.PickupOrder, a.ID,
	).Scan(&a.CreatedAt)
	return mapError(err, ErrDuplicateArea)
}

// Delete removes an area by ID.
func (r *AreaRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM areas WHERE id = $1`, id))
}

// CreateMany inserts imported areas, skipping names that already exist on
// their route. It returns how many rows were written.
func (r *AreaRepository) CreateMany(ctx context.Context, areas []model.Area) (int, error) {
	if len(areas) == 0 {
		return 0, nil
	}
	written := 0
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		for _, a := range areas {
			tag, err := tx.Exec(ctx,
				`INSERT INTO areas (name, route_id, pickup_order) VALUES ($1, $2, $3)
				 ON CONFLICT (route_id, name) DO NOTHING`,
				a.Name, a.RouteID, a.PickupOrder)
			if err != nil {
				return err
			}
			written += int(tag.RowsAffected())
		}
		return nil
	})
	if err != nil {
		return 0, mapError(err, ErrDuplicateArea)
	}
	return written, nil
}
