package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

const minderColumns = `id, name, phone, driver_id, route_id, created_at, updated_at`

// MinderRepository handles minder data access.
type MinderRepository struct {
	pool *pgxpool.Pool
}

// NewMinderRepository creates a new MinderRepository.
func NewMinderRepository(pool *pgxpool.Pool) *MinderRepository {
	return &MinderRepository{pool: pool}
}

func scanMinder(row pgx.Row, m *model.Minder) error {
	return row.Scan(&m.ID, &m.Name, &m.Phone, &m.DriverID, &m.RouteID, &m.CreatedAt, &m.UpdatedAt)
}

// GetByID retrieves a minder by ID.
func (r *MinderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Minder, error) {
	m := &model.Minder{}
	if err := scanMinder(r.pool.QueryRow(ctx, `SELECT `+minderColumns+` FROM minders WHERE id = $1`, id), m); err != nil {
		return nil, mapError(err, nil)
	}
	return m, nil
}

// GetByRoute retrieves the minder assigned to a route.
func (r *MinderRepository) GetByRoute(ctx context.Context, routeID uuid.UUID) (*model.Minder, error) {
	m := &model.Minder{}
	err := scanMinder(r.pool.QueryRow(ctx,
		`SELECT `+minderColumns+` FROM minders WHERE route_id = $1 ORDER BY name LIMIT 1`, routeID), m)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return m, nil
}

// List retrieves all minders ordered by name.
func (r *MinderRepository) List(ctx context.Context) ([]model.Minder, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+minderColumns+` FROM minders ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	minders := []model.Minder{}
	for rows.Next() {
		var m model.Minder
		if err := scanMinder(rows, &m); err != nil {
			return nil, err
		}
		minders = append(minders, m)
	}
	return minders, rows.Err()
}

// Create inserts a new minder.
func (r *MinderRepository) Create(ctx context.Context, m *model.Minder) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO minders (name, phone, driver_id, route_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		m.Name, m.Phone, m.DriverID, m.RouteID,
	).Scan(&m.ID, &m.CreatedAt, &m.UpdatedAt)
	return mapError(err, nil)
}

// Update modifies an existing minder.
func (r *MinderRepository) Update(ctx context.Context, m *model.Minder) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE minders SET name = $1, phone = $2, driver_id = $3, route_id = $4, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $5
		 RETURNING created_at, updated_at`,
		m.Name, m.Phone, m.DriverID, m.RouteID, m.ID,
	).Scan(&m.CreatedAt, &m.UpdatedAt)
	return mapError(err, nil)
}

// Delete removes a minder by ID.
func (r *MinderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM minders WHERE id = $1`, id))
}
