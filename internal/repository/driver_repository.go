package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

const driverColumns = `d.id, d.name, d.email, d.phone, d.password_hash, d.route_id, COALESCE(r.name, ''),
	d.role, d.status, d.photo_url, d.created_at, d.updated_at`

const driverFrom = ` FROM drivers d LEFT JOIN routes r ON r.id = d.route_id`

// DriverRepository handles staff account data access. Administrators live in
// the same table with role 'admin'.
type DriverRepository struct {
	pool *pgxpool.Pool
}

// NewDriverRepository creates a new DriverRepository.
func NewDriverRepository(pool *pgxpool.Pool) *DriverRepository {
	return &DriverRepository{pool: pool}
}

func scanDriver(row pgx.Row, d *model.Driver) error {
	return row.Scan(&d.ID, &d.Name, &d.Email, &d.Phone, &d.PasswordHash, &d.RouteID, &d.RouteName,
		&d.Role, &d.Status, &d.PhotoURL, &d.CreatedAt, &d.UpdatedAt)
}

// GetByID retrieves a staff account by ID.
func (r *DriverRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Driver, error) {
	d := &model.Driver{}
	if err := scanDriver(r.pool.QueryRow(ctx, `SELECT `+driverColumns+driverFrom+` WHERE d.id = $1`, id), d); err != nil {
		return nil, mapError(err, nil)
	}
	return d, nil
}

// GetByEmail retrieves a staff account by email, case-insensitively.
func (r *DriverRepository) GetByEmail(ctx context.Context, email string) (*model.Driver, error) {
	d := &model.Driver{}
	if err := scanDriver(r.pool.QueryRow(ctx, `SELECT `+driverColumns+driverFrom+` WHERE LOWER(d.email) = LOWER($1)`, email), d); err != nil {
		return nil, mapError(err, nil)
	}
	return d, nil
}

// GetByRoute retrieves the driver assigned to a route, if any.
func (r *DriverRepository) GetByRoute(ctx context.Context, routeID uuid.UUID) (*model.Driver, error) {
	d := &model.Driver{}
	err := scanDriver(r.pool.QueryRow(ctx,
		`SELECT `+driverColumns+driverFrom+` WHERE d.route_id = $1 AND d.role = 'driver' ORDER BY d.name LIMIT 1`, routeID), d)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return d, nil
}

// List retrieves staff accounts ordered by name, optionally filtered by role.
func (r *DriverRepository) List(ctx context.Context, role model.StaffRole) ([]model.Driver, error) {
	query := `SELECT ` + driverColumns + driverFrom
	var args []interface{}
	if role != "" {
		query += ` WHERE d.role = $1`
		args = append(args, role)
	}
	query += ` ORDER BY d.name`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	drivers := []model.Driver{}
	for rows.Next() {
		var d model.Driver
		if err := scanDriver(rows, &d); err != nil {
			return nil, err
		}
		drivers = append(drivers, d)
	}
	return drivers, rows.Err()
}

// Create inserts a new staff account.
func (r *DriverRepository) Create(ctx context.Context, d *model.Driver) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO drivers (name, email, phone, password_hash, route_id, role, status, photo_url)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING id, created_at, updated_at`,
		d.Name, d.Email, d.Phone, d.PasswordHash, d.RouteID, d.Role, d.Status, d.PhotoURL,
	).Scan(&d.ID, &d.CreatedAt, &d.UpdatedAt)
	return mapError(err, ErrDuplicateEmail)
}

// Update modifies a staff account (excluding password).
func (r *DriverRepository) Update(ctx context.Context, d *model.Driver) error {
	return mapError(expectOne(r.pool.Exec(ctx,
		`UPDATE drivers SET name = $1, email = $2, phone = $3, route_id = $4, role = $5, status = $6,
			photo_url = $7, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $8`,
		d.Name, d.Email, d.Phone, d.RouteID, d.Role, d.Status, d.PhotoURL, d.ID,
	)), ErrDuplicateEmail)
}

// UpdatePassword updates a staff account's password hash.
func (r *DriverRepository) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return expectOne(r.pool.Exec(ctx,
		`UPDATE drivers SET password_hash = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`,
		passwordHash, id))
}

// Delete removes a staff account by ID.
func (r *DriverRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return mapError(expectOne(r.pool.Exec(ctx, `DELETE FROM drivers WHERE id = $1`, id)), nil)
}

// CountAdmins returns the number of administrator accounts.
func (r *DriverRepository) CountAdmins(ctx context.Context) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM drivers WHERE role = 'admin'`).Scan(&n)
	return n, err
}
