package repository

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lelani/transport-backend/internal/model"
)

const learnerColumns = `id, name, admission_no, class, route_id, trip, pickup_area, pickup_time,
	dropoff_area, drop_time, father_phone, mother_phone, house_help_phone, active, created_at, updated_at`

// LearnerRepository handles learner data access.
type LearnerRepository struct {
	pool *pgxpool.Pool
}

// NewLearnerRepository creates a new LearnerRepository.
func NewLearnerRepository(pool *pgxpool.Pool) *LearnerRepository {
	return &LearnerRepository{pool: pool}
}

func scanLearner(row pgx.Row, l *model.Learner) error {
	return row.Scan(&l.ID, &l.Name, &l.AdmissionNo, &l.Class, &l.RouteID, &l.Trip, &l.PickupArea, &l.PickupTime,
		&l.DropoffArea, &l.DropTime, &l.FatherPhone, &l.MotherPhone, &l.HouseHelpPhone, &l.Active, &l.CreatedAt, &l.UpdatedAt)
}

func collectLearners(rows pgx.Rows) ([]model.Learner, error) {
	defer rows.Close()

	learners := []model.Learner{}
	for rows.Next() {
		var l model.Learner
		if err := scanLearner(rows, &l); err != nil {
			return nil, err
		}
		learners = append(learners, l)
	}
	return learners, rows.Err()
}

// GetByID retrieves a learner by ID.
func (r *LearnerRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Learner, error) {
	l := &model.Learner{}
	err := scanLearner(r.pool.QueryRow(ctx, `SELECT `+learnerColumns+` FROM learners WHERE id = $1`, id), l)
	if err != nil {
		return nil, mapError(err, nil)
	}
	return l, nil
}

// List retrieves learners matching the filter, ordered by name.
func (r *LearnerRepository) List(ctx context.Context, f model.LearnerFilter) ([]model.Learner, error) {
	var (
		conds []string
		args  []interface{}
	)
	arg := func(v interface{}) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if f.RouteID != nil {
		conds = append(conds, "route_id = "+arg(*f.RouteID))
	}
	if f.Class != "" {
		conds = append(conds, "class = "+arg(f.Class))
	}
	if f.Search != "" {
		p := arg("%" + f.Search + "%")
		conds = append(conds, "(name ILIKE "+p+" OR admission_no ILIKE "+p+")")
	}
	if !f.IncludeInactive {
		conds = append(conds, "active = TRUE")
	}

	query := `SELECT ` + learnerColumns + ` FROM learners`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY name, id`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return collectLearners(rows)
}

// ListByRoute retrieves every learner on a route, active or not, ordered by name.
func (r *LearnerRepository) ListByRoute(ctx context.Context, routeID uuid.UUID) ([]model.Learner, error) {
	return r.List(ctx, model.LearnerFilter{RouteID: &routeID, IncludeInactive: true})
}

// Create inserts a new learner.
func (r *LearnerRepository) Create(ctx context.Context, l *model.Learner) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO learners (name, admission_no, class, route_id, trip, pickup_area, pickup_time,
			dropoff_area, drop_time, father_phone, mother_phone, house_help_phone, active)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 RETURNING id, created_at, updated_at`,
		l.Name, l.AdmissionNo, l.Class, l.RouteID, l.Trip, l.PickupArea, l.PickupTime,
		l.DropoffArea, l.DropTime, l.FatherPhone, l.MotherPhone, l.HouseHelpPhone, l.Active,
	).Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	return mapError(err, ErrDuplicateAdmissionNo)
}

// Update modifies a learner's details. Status is changed through SetActive.
func (r *LearnerRepository) Update(ctx context.Context, l *model.Learner) error {
	err := r.pool.QueryRow(ctx,
		`UPDATE learners SET name = $1, admission_no = $2, class = $3, route_id = $4, trip = $5,
			pickup_area = $6, pickup_time = $7, dropoff_area = $8, drop_time = $9,
			father_phone = $10, mother_phone = $11, house_help_phone = $12, updated_at = CURRENT_TIMESTAMP
		 WHERE id = $13
		 RETURNING updated_at`,
		l.Name, l.AdmissionNo, l.Class, l.RouteID, l.Trip, l.PickupArea, l.PickupTime,
		l.DropoffArea, l.DropTime, l.FatherPhone, l.MotherPhone, l.HouseHelpPhone, l.ID,
	).Scan(&l.UpdatedAt)
	return mapError(err, ErrDuplicateAdmissionNo)
}

// SetActive deactivates or reactivates a learner.
func (r *LearnerRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	return expectOne(r.pool.Exec(ctx,
		`UPDATE learners SET active = $1, updated_at = CURRENT_TIMESTAMP WHERE id = $2`, active, id))
}

// Upsert inserts imported learners in one transaction. Rows whose admission
// number already exists overwrite the stored record.
func (r *LearnerRepository) Upsert(ctx context.Context, learners []model.Learner) (int, error) {
	if len(learners) == 0 {
		return 0, nil
	}
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, l := range learners {
			batch.Queue(
				`INSERT INTO learners (name, admission_no, class, route_id, trip, pickup_area, pickup_time,
					dropoff_area, drop_time, father_phone, mother_phone, house_help_phone, active)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, TRUE)
				 ON CONFLICT (admission_no) DO UPDATE SET
					name = EXCLUDED.name, class = EXCLUDED.class, route_id = EXCLUDED.route_id,
					trip = EXCLUDED.trip, pickup_area = EXCLUDED.pickup_area, pickup_time = EXCLUDED.pickup_time,
					dropoff_area = EXCLUDED.dropoff_area, drop_time = EXCLUDED.drop_time,
					father_phone = EXCLUDED.father_phone, mother_phone = EXCLUDED.mother_phone,
					house_help_phone = EXCLUDED.house_help_phone, updated_at = CURRENT_TIMESTAMP`,
				l.Name, l.AdmissionNo, l.Class, l.RouteID, l.Trip, l.PickupArea, l.PickupTime,
				l.DropoffArea, l.DropTime, l.FatherPhone, l.MotherPhone, l.HouseHelpPhone,
			)
		}
		return tx.SendBatch(ctx, batch).Close()
	})
	if err != nil {
		return 0, mapError(err, ErrDuplicateAdmissionNo)
	}
	return len(learners), nil
}

// DeactivateByClassPatterns deactivates active learners whose class matches
// any of the ILIKE patterns.
func (r *LearnerRepository) DeactivateByClassPatterns(ctx context.Context, patterns []string) (int64, error) {
	if len(patterns) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE learners SET active = FALSE, updated_at = CURRENT_TIMESTAMP
		 WHERE active = TRUE AND class ILIKE ANY($1)`, patterns)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

// DistinctClasses lists the classes in use, optionally on one route.
func (r *LearnerRepository) DistinctClasses(ctx context.Context, routeID *uuid.UUID) ([]string, error) {
	return r.distinctStrings(ctx, "class", routeID)
}

// DistinctPickupAreas lists the pickup areas in use, optionally on one route.
func (r *LearnerRepository) DistinctPickupAreas(ctx context.Context, routeID *uuid.UUID) ([]string, error) {
	return r.distinctStrings(ctx, "pickup_area", routeID)
}

// column is always a trusted identifier supplied by this file.
func (r *LearnerRepository) distinctStrings(ctx context.Context, column string, routeID *uuid.UUID) ([]string, error) {
	query := `SELECT DISTINCT ` + column + ` FROM learners WHERE ` + column + ` <> ''`
	var args []interface{}
	if routeID != nil {
		query += ` AND route_id = $1`
		args = append(args, *routeID)
	}
	query += ` ORDER BY 1`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DistinctTrips lists the trip slots in use on a route; a missing trip counts as 1.
func (r *LearnerRepository) DistinctTrips(ctx context.Context, routeID uuid.UUID) ([]int, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT GREATEST(trip, 1) FROM learners WHERE route_id = $1 ORDER BY 1`, routeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	trips := []int{}
	for rows.Next() {
		var t int
		if err := rows.Scan(&t); err != nil {
			return nil, err
		}
		trips = append(trips, t)
	}
	return trips, rows.Err()
}

// CountByRoute returns the total and active learner counts on a route.
func (r *LearnerRepository) CountByRoute(ctx context.Context, routeID uuid.UUID) (total, active int, err error) {
	err = r.pool.QueryRow(ctx,
		`SELECT COUNT(*), COUNT(*) FILTER (WHERE active) FROM learners WHERE route_id = $1`, routeID,
	).Scan(&total, &active)
	return
}
