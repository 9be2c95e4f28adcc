package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const dashboardCacheTTL = 30 * time.Second

// DashboardData consolidates the metrics for the dashboard. Admins get the
// school-wide figures and analytics; drivers get Route for their own route.
type DashboardData struct {
	Summary             *repository.SummaryCounts `json:"summary,omitempty"`
	RouteLoads          []repository.RouteLoad    `json:"route_loads,omitempty"`
	RoutesWithoutDriver int                       `json:"routes_without_driver"`
	Trips               []repository.TripCount    `json:"trip_distribution,omitempty"`
	Classes             []repository.Breakdown    `json:"class_distribution,omitempty"`
	PickupAreas         []repository.Breakdown    `json:"area_counts,omitempty"`
	Route               *repository.RouteCounts   `json:"route,omitempty"`
	Recent              []model.AuditLog          `json:"recent_activity,omitempty"`
}

// DashboardStore reads the aggregated figures.
type DashboardStore interface {
	GetSummaryCounts(ctx context.Context) (*repository.SummaryCounts, error)
	GetRouteLoads(ctx context.Context) ([]repository.RouteLoad, error)
	GetTripDistribution(ctx context.Context) ([]repository.TripCount, error)
	GetClassDistribution(ctx context.Context) ([]repository.Breakdown, error)
	GetAreaCounts(ctx context.Context) ([]repository.Breakdown, error)
	GetRouteCounts(ctx context.Context, routeID uuid.UUID) (*repository.RouteCounts, error)
}

// RecentActivity lists the newest audit entries.
type RecentActivity interface {
	Latest(ctx context.Context, learnerID *uuid.UUID, limit int) ([]model.AuditLog, error)
}

// DashboardService handles dashboard business logic.
type DashboardService struct {
	repo  DashboardStore
	audit RecentActivity
	rdb   *redis.Client
	log   zerolog.Logger
}

// NewDashboardService creates a new DashboardService. rdb may be nil.
func NewDashboardService(repo DashboardStore, audit RecentActivity, rdb *redis.Client, log zerolog.Logger) *DashboardService {
	return &DashboardService{
		repo:  repo,
		audit: audit,
		rdb:   rdb,
		log:   log.With().Str("component", "dashboard_service").Logger(),
	}
}

// GetDashboardData returns the metrics visible to actor, served from a short
// lived cache when possible.
func (s *DashboardService) GetDashboardData(ctx context.Context, actor model.Actor) (*DashboardData, error) {
	if !actor.IsAdmin() {
		if actor.RouteID == nil {
			return &DashboardData{Route: &repository.RouteCounts{}}, nil
		}
		return s.cached(ctx, config.CacheKey.RouteDashboardStatsKey(actor.RouteID.String()), func() (*DashboardData, error) {
			counts, err := s.repo.GetRouteCounts(ctx, *actor.RouteID)
			if err != nil {
				return nil, err
			}
			return &DashboardData{Route: counts}, nil
		})
	}

	return s.cached(ctx, config.CacheKey.DashboardStatsKey(), func() (*DashboardData, error) {
		return s.schoolWide(ctx)
	})
}

func (s *DashboardService) schoolWide(ctx context.Context) (*DashboardData, error) {
	var (
		data DashboardData
		err  error
	)
	if data.Summary, err = s.repo.GetSummaryCounts(ctx); err != nil {
		return nil, err
	}
	if data.RouteLoads, err = s.repo.GetRouteLoads(ctx); err != nil {
		return nil, err
	}
	if data.Trips, err = s.repo.GetTripDistribution(ctx); err != nil {
		return nil, err
	}
	if data.Classes, err = s.repo.GetClassDistribution(ctx); err != nil {
		return nil, err
	}
	if data.PickupAreas, err = s.repo.GetAreaCounts(ctx); err != nil {
		return nil, err
	}
	if data.Recent, err = s.audit.Latest(ctx, nil, 10); err != nil {
		return nil, err
	}
	for _, l := range data.RouteLoads {
		if !l.HasDriver {
			data.RoutesWithoutDriver++
		}
	}
	return &data, nil
}

func (s *DashboardService) cached(ctx context.Context, key string, load func() (*DashboardData, error)) (*DashboardData, error) {
	if s.rdb != nil {
		raw, err := s.rdb.Get(ctx, key).Bytes()
		if err == nil {
			var data DashboardData
			if err := json.Unmarshal(raw, &data); err == nil {
				return &data, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warn().Err(err).Str("key", key).Msg("Dashboard cache read failed")
		}
	}

	data, err := load()
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if raw, err := json.Marshal(data); err == nil {
			if err := s.rdb.Set(ctx, key, raw, dashboardCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Str("key", key).Msg("Dashboard cache write failed")
			}
		}
	}
	return data, nil
}
