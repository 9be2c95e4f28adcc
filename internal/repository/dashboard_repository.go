package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DashboardRepository handles dashboard data access.
type DashboardRepository struct {
	pool *pgxpool.Pool
}

// NewDashboardRepository creates a new DashboardRepository.
func NewDashboardRepository(pool *pgxpool.Pool) *DashboardRepository {
	return &DashboardRepository{pool: pool}
}

// SummaryCounts are the stat cards shown to administrators.
type SummaryCounts struct {
	ActiveRoutes   int `json:"active_routes"`
	Drivers        int `json:"drivers"`
	Minders        int `json:"minders"`
	Vehicles       int `json:"vehicles"`
	Learners       int `json:"learners"`
	ActiveLearners int `json:"active_learners"`
}

// GetSummaryCounts retrieves the school-wide metrics.
func (r *DashboardRepository) GetSummaryCounts(ctx context.Context) (*SummaryCounts, error) {
	c := &SummaryCounts{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM routes WHERE status = 'active'),
			(SELECT COUNT(*) FROM drivers WHERE role = 'driver'),
			(SELECT COUNT(*) FROM minders),
			(SELECT COUNT(*) FROM vehicles),
			(SELECT COUNT(*) FROM learners),
			(SELECT COUNT(*) FROM learners WHERE active)`,
	).Scan(&c.ActiveRoutes, &c.Drivers, &c.Minders, &c.Vehicles, &c.Learners, &c.ActiveLearners)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// RouteLoad is the occupancy and staffing of one active route.
type RouteLoad struct {
	RouteID     uuid.UUID `json:"route_id"`
	Name        string    `json:"name"`
	Learners    int       `json:"learners"`
	Areas       int       `json:"areas"`
	Capacity    int       `json:"capacity"`
	Utilization int       `json:"utilization"`
	HasDriver   bool      `json:"has_driver"`
	HasMinder   bool      `json:"has_minder"`
}

// GetRouteLoads retrieves, for every active route, its active learner count
// against the seating of its vehicle and whether a driver and minder are
// assigned. The vehicle is matched on registration, falling back to a
// vehicle assigned to the route.
func (r *DashboardRepository) GetRouteLoads(ctx context.Context) ([]RouteLoad, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT r.id, r.name,
			(SELECT COUNT(*) FROM learners l WHERE l.route_id = r.id AND l.active),
			COALESCE(array_length(r.areas, 1), 0),
			COALESCE(
				(SELECT v.capacity FROM vehicles v WHERE v.vehicle_no = r.vehicle_no LIMIT 1),
				(SELECT v.capacity FROM vehicles v WHERE v.route_id = r.id ORDER BY v.vehicle_no LIMIT 1),
				0),
			EXISTS (SELECT 1 FROM drivers d WHERE d.route_id = r.id AND d.role = 'driver'),
			EXISTS (SELECT 1 FROM minders m WHERE m.route_id = r.id)
		 FROM routes r
		 WHERE r.status = 'active'
		 ORDER BY r.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	loads := []RouteLoad{}
	for rows.Next() {
		var l RouteLoad
		if err := rows.Scan(&l.RouteID, &l.Name, &l.Learners, &l.Areas, &l.Capacity, &l.HasDriver, &l.HasMinder); err != nil {
			return nil, err
		}
		l.Utilization = Utilization(l.Learners, l.Capacity)
		loads = append(loads, l)
	}
	return loads, rows.Err()
}

// Utilization returns learners as a rounded percentage of capacity, or 0
// when the capacity is unknown.
func Utilization(learners, capacity int) int {
	if capacity <= 0 {
		return 0
	}
	return (learners*100 + capacity/2) / capacity
}

// TripCount is the number of active learners riding one trip.
type TripCount struct {
	Trip  int `json:"trip"`
	Count int `json:"count"`
}

// DashboardTrips are always reported, even when nobody rides them.
const DashboardTrips = 3

// GetTripDistribution counts active learners per trip. A missing trip
// counts as trip 1.
func (r *DashboardRepository) GetTripDistribution(ctx context.Context) ([]TripCount, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT GREATEST(trip, 1), COUNT(*) FROM learners WHERE active GROUP BY 1 ORDER BY 1`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []TripCount
	for rows.Next() {
		var c TripCount
		if err := rows.Scan(&c.Trip, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return FillTrips(counts, DashboardTrips), nil
}

// FillTrips returns counts with a zero entry for every trip from 1 to n that
// is missing, ordered by trip. Trips above n are kept.
func FillTrips(counts []TripCount, n int) []TripCount {
	byTrip := make(map[int]int, len(counts))
	last := n
	for _, c := range counts {
		byTrip[c.Trip] += c.Count
		last = max(last, c.Trip)
	}
	out := make([]TripCount, 0, last)
	for trip := 1; trip <= last; trip++ {
		count, ok := byTrip[trip]
		if !ok && trip > n {
			continue
		}
		out = append(out, TripCount{Trip: trip, Count: count})
	}
	return out
}

// Breakdown is a learner count for one class or pickup area.
type Breakdown struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// DashboardTopN bounds the class and pickup area breakdowns.
const DashboardTopN = 10

// GetClassDistribution returns the most populated classes across all learners.
func (r *DashboardRepository) GetClassDistribution(ctx context.Context) ([]Breakdown, error) {
	return r.breakdown(ctx, "class")
}

// GetAreaCounts returns the busiest pickup areas across all learners.
func (r *DashboardRepository) GetAreaCounts(ctx context.Context) ([]Breakdown, error) {
	return r.breakdown(ctx, "pickup_area")
}

// breakdown groups learners by column. column must be a trusted identifier.
func (r *DashboardRepository) breakdown(ctx context.Context, column string) ([]Breakdown, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+column+`, COUNT(*) FROM learners
		 WHERE `+column+` <> ''
		 GROUP BY 1
		 ORDER BY 2 DESC, 1 ASC
		 LIMIT $1`, DashboardTopN)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Breakdown{}
	for rows.Next() {
		var b Breakdown
		if err := rows.Scan(&b.Label, &b.Count); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

// RouteCounts are the stat cards shown to a driver for their own route.
type RouteCounts struct {
	Learners       int `json:"learners"`
	ActiveLearners int `json:"active_learners"`
	Areas          int `json:"areas"`
}

// GetRouteCounts retrieves the metrics of a single route.
func (r *DashboardRepository) GetRouteCounts(ctx context.Context, routeID uuid.UUID) (*RouteCounts, error) {
	c := &RouteCounts{}
	err := r.pool.QueryRow(ctx,
		`SELECT
			(SELECT COUNT(*) FROM learners WHERE route_id = $1),
			(SELECT COUNT(*) FROM learners WHERE route_id = $1 AND active),
			(SELECT COUNT(*) FROM areas WHERE route_id = $1)`,
		routeID,
	).Scan(&c.Learners, &c.ActiveLearners, &c.Areas)
	if err != nil {
		return nil, err
	}
	return c, nil
}
