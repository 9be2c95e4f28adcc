package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

const vehicleColumns = `id, vehicle_no, make, model, year, color, capacity, image_url, status, route_id, created_at, updated_at`

// VehicleRepository handles fleet data access.
type VehicleRepository struct {
	pool *pgxpool.Pool
}

func NewVehicleRepository(pool *pgxpool.Pool) *VehicleRepository {
	return &VehicleRepository{pool: pool}
}

func scanVehicle(row pgx.Row, v *model.Vehicle) error {
	return row.Scan(&v.ID, &v.VehicleNo, &v.Make, &v.Model, &v.Year, &v.Color, &v.Capacity, &v.ImageURL,
		&v.Status, &v.RouteID, &v.CreatedAt, &v.UpdatedAt)
}

func (r *VehicleRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Vehicle, error) {
	v := &model.Vehicle{}
	if err := scanVehicle(r.pool.QueryRow(ctx, `SELECT `+vehicleColumns+` FROM vehicles WHERE id = $1`, id), v); err != nil {
		return nil, mapError(err, nil)
	}
	return v, nil
}

func (r *VehicleRepository) List(ctx context.Context) ([]model.Vehicle, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+vehicleColumns+` FROM vehicles ORDER BY vehicle_no`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles := []model.Vehicle{}
	for rows.Next() {
		var v model.Vehicle
		if err := scanVehicle(rows, &v); err != nil {
			return nil, err
		}
		vehicles = append(vehicles, v)
	}
	return vehicles, rows.Err()
}

func (r *VehicleRepository) Create(ctx context.Context, v *model.Vehicle) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO vehicles (vehicle_no, make, model, year, color, capacity, image_url, status, route_id)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at, updated_at`,
		v.VehicleNo, v.Make, v.Model, v.Year, v.Color, v.Capacity, v.ImageURL, v.Status, v.RouteID,
	).Scan(&v.ID, &v.CreatedAt, &v.UpdatedAt)
	return mapError(err, ErrDuplicateVehicleNo)
}

func (r *VehicleRepository) Update(ctx context.Context, v *model.Vehicle) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE vehicles SET vehicle_no = $1, make = $2, model = $3, year = $4, color = $5, capacity = $6,
			image_url = $7, status = $8, route_id = $9, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $10
		 RETURNING created_at, updated_at`,
		v.VehicleNo, v.Make, v.Model, v.Year, v.Color, v.Capacity, v.ImageURL, v.Status, v.RouteID, v.ID,
	).Scan(&v.CreatedAt, &v.UpdatedAt)
	return mapError(err, ErrDuplicateVehicleNo)
}

func (r *VehicleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return expectOne(r.pool.Exec(ctx, `DELETE FROM vehicles WHERE id = $1`, id))
}
