package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

const routeColumns = `r.id, r.name, r.vehicle_no, r.areas, r.term, r.year, r.status, r.created_at, r.updated_at`

// RouteRepository handles route data access.
type RouteRepository struct {
	pool *pgxpool.Pool
}

// NewRouteRepository creates a new RouteRepository.
func NewRouteRepository(pool *pgxpool.Pool) *RouteRepository {
	return &RouteRepository{pool: pool}
}

func scanRoute(row pgx.Row, rt *model.Route, extra ...interface{}) error {
	dest := append([]interface{}{&rt.ID, &rt.Name, &rt.VehicleNo, &rt.Areas, &rt.Term, &rt.Year, &rt.Status, &rt.CreatedAt, &rt.UpdatedAt}, extra...)
	if err := row.Scan(dest...); err != nil {
		return err
	}
	if rt.Areas == nil {
		rt.Areas = []string{}
	}
	return nil
}

// GetByID retrieves a route by ID.
func (r *RouteRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Route, error) {
	rt := &model.Route{}
	err := scanRoute(r.pool.QueryRow(ctx, `SELECT `+routeColumns+` FROM routes r WHERE r.id = $1`, id), rt)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return rt, nil
}

// List retrieves routes ordered by name. When activeOnly is set archived
// routes are skipped.
func (r *RouteRepository) List(ctx context.Context, activeOnly bool) ([]model.Route, error) {
	query := `SELECT ` + routeColumns + ` FROM routes r`
	if activeOnly {
		query += ` WHERE r.status = 'active'`
	}
	query += ` ORDER BY r.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	routes := []model.Route{}
	for rows.Next() {
		var rt model.Route
		if err := scanRoute(rows, &rt); err != nil {
			return nil, err
		}
		routes = append(routes, rt)
	}
	return routes, rows.Err()
}

// ListSummaries retrieves routes with their learner count and assigned personnel.
func (r *RouteRepository) ListSummaries(ctx context.Context) ([]model.RouteSummary, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+routeColumns+`,
			(SELECT COUNT(*) FROM learners l WHERE l.route_id = r.id AND l.active),
			COALESCE((SELECT d.name FROM drivers d WHERE d.route_id = r.id AND d.role = 'driver' ORDER BY d.name LIMIT 1), ''),
			COALESCE((SELECT m.name FROM minders m WHERE m.route_id = r.id ORDER BY m.name LIMIT 1), '')
		 FROM routes r
		 ORDER BY r.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := []model.RouteSummary{}
	for rows.Next() {
		var s model.RouteSummary
		if err := scanRoute(rows, &s.Route, &s.LearnerCount, &s.DriverName, &s.MinderName); err != nil {
			return nil, err
		}
		summaries = append(summaries, s)
	}
	return summaries, rows.Err()
}

// Create inserts a new route.
func (r *RouteRepository) Create(ctx context.Context, rt *model.Route) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO routes (name, vehicle_no, areas, term, year, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		rt.Name, rt.VehicleNo, rt.Areas, rt.Term, rt.Year, rt.Status,
	).Scan(&rt.ID, &rt.CreatedAt, &rt.UpdatedAt)
	return mapError(err, ErrDuplicateRouteName)
}

// Update modifies an existing route.
func (r *RouteRepository) Update(ctx context.Context, rt *model.Route) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE routes SET name = $1, vehicle_no = $2, areas = $3, term = $4, year = $5, status = $6,
			updated_at = CURRENT_TIMESTAMP
		 WHERE id = $7
		 RETURNING created_at, updated_at`,
		rt.Name, rt.VehicleNo, rt.Areas, rt.Term, rt.Year, rt.Status, rt.ID,
	).Scan(&rt.CreatedAt, &rt.UpdatedAt)
	return mapError(err, ErrDuplicateRouteName)
}

// Delete removes a route. Routes that still carry learners cannot be deleted.
func (r *RouteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return mapError(expectOne(r.pool.Exec(ctx, `DELETE FROM routes WHERE id = $1`, id)), nil)
}

// Rollover moves every active route to the given term and year and, when
// deleteLearners is set, removes every learner. Both happen in one
// transaction so a failed purge leaves the routes on the old term.
func (r *RouteRepository) Rollover(ctx context.Context, term string, year int, deleteLearners bool) (routes, learners int64, err error) {
	err = pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx,
			`UPDATE routes SET term = $1, year = $2, updated_at = CURRENT_TIMESTAMP WHERE status = 'active'`,
			term, year)
		if err != nil {
			return err
		}
		routes = tag.RowsAffected()

		if !deleteLearners {
			return nil
		}
		tag, err = tx.Exec(ctx, `DELETE FROM learners`)
		if err != nil {
			return err
		}
		learners = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return 0, 0, err
	}
	return routes, learners, nil
}

// FindByName resolves a route name case-insensitively.
func (r *RouteRepository) FindByName(ctx context.Context, name string) (*model.Route, error) {
	rt := &model.Route{}
	err := scanRoute(r.pool.QueryRow(ctx,
		`SELECT `+routeColumns+` FROM routes r WHERE LOWER(r.name) = LOWER($1) LIMIT 1`, name), rt)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return rt, nil
}
