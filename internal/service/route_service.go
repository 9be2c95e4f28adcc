package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/rs/zerolog"
)

// RouteService handles route management.
type RouteService struct {
	repo *repository.RouteRepository
	log  zerolog.Logger
}

// NewRouteService creates a new RouteService.
func NewRouteService(repo *repository.RouteRepository, log zerolog.Logger) *RouteService {
	return &RouteService{repo: repo, log: log.With().Str("component", "route_service").Logger()}
}

// List returns route summaries. Drivers only see their own route.
func (s *RouteService) List(ctx context.Context, actor model.Actor) ([]model.RouteSummary, error) {
	all, err := s.repo.ListSummaries(ctx)
	if err != nil {
		return nil, err
	}
	if actor.IsAdmin() {
		return all, nil
	}

	own := []model.RouteSummary{}
	for _, r := range all {
		if actor.RouteID != nil && r.ID == *actor.RouteID {
			own = append(own, r)
		}
	}
	return own, nil
}

// Get returns a route by ID. Drivers may only read their own route.
func (s *RouteService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Route, error) {
	if !canTouch(actor, &id) {
		return nil, ErrRouteForbidden
	}
	return s.repo.GetByID(ctx, id)
}

// Create adds a route.
func (s *RouteService) Create(ctx context.Context, req *model.RouteRequest) (*model.Route, error) {
	r := routeFromRequest(req)
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.log.Info().Str("route_id", r.ID.String()).Str("name", r.Name).Msg("Route created")
	return r, nil
}

// Update replaces a route's details.
func (s *RouteService) Update(ctx context.Context, id uuid.UUID, req *model.RouteRequest) (*model.Route, error) {
	r := routeFromRequest(req)
	r.ID = id
	if err := s.repo.Update(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// Delete removes a route.
func (s *RouteService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func routeFromRequest(req *model.RouteRequest) *model.Route {
	status := req.Status
	if status == "" {
		status = model.RouteStatusActive
	}
	areas := make([]string, 0, len(req.Areas))
	for _, a := range req.Areas {
		if a = strings.TrimSpace(a); a != "" {
			areas = append(areas, a)
		}
	}
	return &model.Route{
		Name:      strings.TrimSpace(req.Name),
		VehicleNo: strings.ToUpper(strings.TrimSpace(req.VehicleNo)),
		Areas:     areas,
		Term:      strings.TrimSpace(req.Term),
		Year:      req.Year,
		Status:    status,
	}
}
