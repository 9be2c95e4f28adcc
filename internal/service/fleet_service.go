package service

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/rs/zerolog"
)

// FleetService manages minders, vehicles and pickup areas.
type FleetService struct {
	minders  *repository.MinderRepository
	vehicles *repository.VehicleRepository
	areas    *repository.AreaRepository
	log      zerolog.Logger
}

// NewFleetService creates a new FleetService.
func NewFleetService(
	minders *repository.MinderRepository,
	vehicles *repository.VehicleRepository,
	areas *repository.AreaRepository,
	log zerolog.Logger,
) *FleetService {
	return &FleetService{
		minders:  minders,
		vehicles: vehicles,
		areas:    areas,
		log:      log.With().Str("component", "fleet_service").Logger(),
	}
}

// ─── Minders ──────────────────────────────────────────────────────────

func (s *FleetService) ListMinders(ctx context.Context) ([]model.Minder, error) {
	return s.minders.List(ctx)
}

func (s *FleetService) CreateMinder(ctx context.Context, req *model.MinderRequest) (*model.Minder, error) {
	m := &model.Minder{Name: strings.TrimSpace(req.Name), Phone: req.Phone, DriverID: req.DriverID, RouteID: req.RouteID}
	if err := s.minders.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *FleetService) UpdateMinder(ctx context.Context, id uuid.UUID, req *model.MinderRequest) (*model.Minder, error) {
	m := &model.Minder{ID: id, Name: strings.TrimSpace(req.Name), Phone: req.Phone, DriverID: req.DriverID, RouteID: req.RouteID}
	if err := s.minders.Update(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (s *FleetService) DeleteMinder(ctx context.Context, id uuid.UUID) error {
	return s.minders.Delete(ctx, id)
}

// ─── Vehicles ─────────────────────────────────────────────────────────

func (s *FleetService) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	return s.vehicles.List(ctx)
}

func (s *FleetService) CreateVehicle(ctx context.Context, req *model.VehicleRequest) (*model.Vehicle, error) {
	v := vehicleFromRequest(req)
	if err := s.vehicles.Create(ctx, v); err != nil {
		return nil, err
	}
	s.log.Info().Str("vehicle_no", v.VehicleNo).Msg("Vehicle registered")
	return v, nil
}

func (s *FleetService) UpdateVehicle(ctx context.Context, id uuid.UUID, req *model.VehicleRequest) (*model.Vehicle, error) {
	v := vehicleFromRequest(req)
	v.ID = id
	if err := s.vehicles.Update(ctx, v); err != nil {
		return nil, err
	}
	return v, nil
}

func (s *FleetService) DeleteVehicle(ctx context.Context, id uuid.UUID) error {
	return s.vehicles.Delete(ctx, id)
}

func vehicleFromRequest(req *model.VehicleRequest) *model.Vehicle {
	status := req.Status
	if status == "" {
		status = model.VehicleStatusActive
	}
	return &model.Vehicle{
		VehicleNo: strings.ToUpper(strings.TrimSpace(req.VehicleNo)),
		Make:      strings.TrimSpace(req.Make),
		Model:     strings.TrimSpace(req.Model),
		Year:      req.Year,
		Color:     strings.TrimSpace(req.Color),
		Capacity:  req.Capacity,
		ImageURL:  req.ImageURL,
		Status:    status,
		RouteID:   req.RouteID,
	}
}

// ─── Areas ────────────────────────────────────────────────────────────

// ListAreas returns pickup areas, optionally for one route, in pickup order.
func (s *FleetService) ListAreas(ctx context.Context, routeID *uuid.UUID) ([]model.Area, error) {
	return s.areas.List(ctx, routeID)
}

// CreateArea adds a pickup area. Without an explicit order it goes last.
func (s *FleetService) CreateArea(ctx context.Context, req *model.AreaRequest) (*model.Area, error) {
	a := &model.Area{Name: strings.TrimSpace(req.Name), RouteID: req.RouteID, PickupOrder: req.PickupOrder}
	if a.PickupOrder == 0 {
		existing, err := s.areas.List(ctx, &req.RouteID)
		if err != nil {
			return nil, err
		}
		a.PickupOrder = len(existing) + 1
	}
	if err := s.areas.Create(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *FleetService) UpdateArea(ctx context.Context, id uuid.UUID, req *model.AreaRequest) (*model.Area, error) {
	order := req.PickupOrder
	if order == 0 {
		order = 1
	}
	a := &model.Area{ID: id, Name: strings.TrimSpace(req.Name), RouteID: req.RouteID, PickupOrder: order}
	if err := s.areas.Update(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *FleetService) DeleteArea(ctx context.Context, id uuid.UUID) error {
	return s.areas.Delete(ctx, id)
}
