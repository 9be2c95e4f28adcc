package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/rs/zerolog"
)

type fakeDashboardStore struct {
	loads      []repository.RouteLoad
	trips      []repository.TripCount
	classes    []repository.Breakdown
	areas      []repository.Breakdown
	routeCalls []uuid.UUID
	err        error
}

func (f *fakeDashboardStore) GetSummaryCounts(context.Context) (*repository.SummaryCounts, error) {
	return &repository.SummaryCounts{ActiveRoutes: len(f.loads), Learners: 40, ActiveLearners: 38}, f.err
}

func (f *fakeDashboardStore) GetRouteLoads(context.Context) ([]repository.RouteLoad, error) {
	return f.loads, nil
}

func (f *fakeDashboardStore) GetTripDistribution(context.Context) ([]repository.TripCount, error) {
	return f.trips, nil
}

func (f *fakeDashboardStore) GetClassDistribution(context.Context) ([]repository.Breakdown, error) {
	return f.classes, nil
}

func (f *fakeDashboardStore) GetAreaCounts(context.Context) ([]repository.Breakdown, error) {
	return f.areas, nil
}

func (f *fakeDashboardStore) GetRouteCounts(_ context.Context, id uuid.UUID) (*repository.RouteCounts, error) {
	f.routeCalls = append(f.routeCalls, id)
	return &repository.RouteCounts{Learners: 12, ActiveLearners: 11, Areas: 3}, nil
}

type fakeActivity struct{ limit int }

func (f *fakeActivity) Latest(_ context.Context, _ *uuid.UUID, limit int) ([]model.AuditLog, error) {
	f.limit = limit
	return []model.AuditLog{{Action: model.AuditCreated}}, nil
}

func TestDashboardSchoolWide(t *testing.T) {
	store := &fakeDashboardStore{
		loads: []repository.RouteLoad{
			{Name: "Route A", Learners: 30, Capacity: 33, Utilization: 91, HasDriver: true, HasMinder: true},
			{Name: "Route B", Learners: 8, Capacity: 0, HasDriver: false},
			{Name: "Route C", Learners: 0, Capacity: 14, HasDriver: false, HasMinder: true},
		},
		trips:   []repository.TripCount{{Trip: 1, Count: 30}, {Trip: 2, Count: 8}, {Trip: 3, Count: 0}},
		classes: []repository.Breakdown{{Label: "Grade 4", Count: 20}},
		areas:   []repository.Breakdown{{Label: "Kilimani", Count: 18}},
	}
	activity := &fakeActivity{}
	svc := NewDashboardService(store, activity, nil, zerolog.Nop())

	data, err := svc.GetDashboardData(context.Background(), adminActor())
	if err != nil {
		t.Fatalf("GetDashboardData: %v", err)
	}
	if data.RoutesWithoutDriver != 2 {
		t.Errorf("RoutesWithoutDriver = %d, want 2", data.RoutesWithoutDriver)
	}
	if !reflect.DeepEqual(data.Trips, store.trips) {
		t.Errorf("Trips = %+v", data.Trips)
	}
	if !reflect.DeepEqual(data.Classes, store.classes) || !reflect.DeepEqual(data.PickupAreas, store.areas) {
		t.Errorf("breakdowns = %+v / %+v", data.Classes, data.PickupAreas)
	}
	if len(data.RouteLoads) != 3 || data.RouteLoads[0].Utilization != 91 {
		t.Errorf("RouteLoads = %+v", data.RouteLoads)
	}
	if data.Route != nil {
		t.Error("admin dashboard carries a single-route view")
	}
	if activity.limit != 10 || len(data.Recent) != 1 {
		t.Errorf("recent activity limit = %d, entries = %d", activity.limit, len(data.Recent))
	}
}

func TestDashboardDriverSeesOwnRoute(t *testing.T) {
	store := &fakeDashboardStore{}
	svc := NewDashboardService(store, &fakeActivity{}, nil, zerolog.Nop())

	routeID := uuid.New()
	driver := model.Actor{UserID: uuid.New(), Role: model.RoleDriver, RouteID: &routeID}
	data, err := svc.GetDashboardData(context.Background(), driver)
	if err != nil {
		t.Fatalf("GetDashboardData: %v", err)
	}
	if data.Summary != nil || data.Trips != nil || data.RouteLoads != nil {
		t.Errorf("driver received school-wide figures: %+v", data)
	}
	if data.Route == nil || data.Route.Learners != 12 {
		t.Errorf("Route = %+v", data.Route)
	}
	if len(store.routeCalls) != 1 || store.routeCalls[0] != routeID {
		t.Errorf("route counts requested for %v", store.routeCalls)
	}

	unassigned := model.Actor{UserID: uuid.New(), Role: model.RoleDriver}
	data, err = svc.GetDashboardData(context.Background(), unassigned)
	if err != nil || data.Route == nil || data.Route.Learners != 0 {
		t.Errorf("unassigned driver dashboard = %+v, %v", data, err)
	}
}

func TestDashboardPropagatesStoreErrors(t *testing.T) {
	boom := errors.New("db down")
	svc := NewDashboardService(&fakeDashboardStore{err: boom}, &fakeActivity{}, nil, zerolog.Nop())

	if _, err := svc.GetDashboardData(context.Background(), adminActor()); !errors.Is(err, boom) {
		t.Errorf("err = %v, want %v", err, boom)
	}
}

func TestUtilizationAndTripFill(t *testing.T) {
	for _, tt := range []struct{ learners, capacity, want int }{
		{30, 33, 91},
		{33, 33, 100},
		{40, 33, 121},
		{5, 0, 0},
		{1, 3, 33},
		{1, 2, 50},
	} {
		if got := repository.Utilization(tt.learners, tt.capacity); got != tt.want {
			t.Errorf("Utilization(%d, %d) = %d, want %d", tt.learners, tt.capacity, got, tt.want)
		}
	}

	got := repository.FillTrips([]repository.TripCount{{Trip: 2, Count: 5}, {Trip: 5, Count: 1}}, repository.DashboardTrips)
	want := []repository.TripCount{{Trip: 1}, {Trip: 2, Count: 5}, {Trip: 3}, {Trip: 5, Count: 1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FillTrips = %+v, want %+v", got, want)
	}
}
