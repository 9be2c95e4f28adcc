package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/report"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/rs/zerolog"
)

type fakeReportStore struct {
	routes   map[uuid.UUID]model.Route
	learners map[uuid.UUID][]model.Learner
}

func (f *fakeReportStore) ListByRoute(_ context.Context, id uuid.UUID) ([]model.Learner, error) {
	return f.learners[id], nil
}

func (f *fakeReportStore) DistinctClasses(_ context.Context, id *uuid.UUID) ([]string, error) {
	var out []string
	for _, l := range f.learners[*id] {
		out = append(out, l.Class)
	}
	return out, nil
}

func (f *fakeReportStore) DistinctPickupAreas(_ context.Context, id *uuid.UUID) ([]string, error) {
	return report.DistinctPickupAreas(f.learners[*id]), nil
}

func (f *fakeReportStore) DistinctTrips(context.Context, uuid.UUID) ([]int, error) {
	return []int{1, 2}, nil
}

func (f *fakeReportStore) GetByID(_ context.Context, id uuid.UUID) (*model.Route, error) {
	r, ok := f.routes[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &r, nil
}

func (f *fakeReportStore) List(context.Context, bool) ([]model.Route, error) {
	out := []model.Route{}
	for _, r := range f.routes {
		out = append(out, r)
	}
	return out, nil
}

type fakeDriverSource struct{ d *model.Driver }

func (f fakeDriverSource) GetByRoute(context.Context, uuid.UUID) (*model.Driver, error) {
	if f.d == nil {
		return nil, repository.ErrNotFound
	}
	return f.d, nil
}

type fakeMinderSource struct{}

func (fakeMinderSource) GetByRoute(context.Context, uuid.UUID) (*model.Minder, error) {
	return nil, repository.ErrNotFound
}

type fakeSettings struct{}

func (fakeSettings) GetSchoolSettings(context.Context) (*model.SchoolSettings, error) {
	return &model.SchoolSettings{SchoolName: "Lelani School"}, nil
}

type memLock struct {
	mu   sync.Mutex
	held map[string]bool
}

func (l *memLock) Acquire(_ context.Context, key string, _ time.Duration) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.held[key] {
		return false, nil
	}
	l.held[key] = true
	return true, nil
}

func (l *memLock) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.held, key)
	return nil
}

type reportFixture struct {
	svc     *ReportService
	lock    *memLock
	routeA  uuid.UUID
	emptyID uuid.UUID
	admin   model.Actor
	driver  model.Actor
}

func newReportFixture() *reportFixture {
	routeA, emptyID := uuid.New(), uuid.New()
	store := &fakeReportStore{
		routes: map[uuid.UUID]model.Route{
			routeA:  {ID: routeA, Name: "Route A", VehicleNo: "KDA 123A", Areas: []string{"Kilimani"}, Term: "Term 1", Year: 2026},
			emptyID: {ID: emptyID, Name: "Empty Route"},
		},
		learners: map[uuid.UUID][]model.Learner{
			routeA: {
				{Name: "John", Trip: 1, Class: "Grade 1", PickupArea: "Kilimani", Active: true},
				{Name: "Mary", Trip: 2, Class: "Grade 2", PickupArea: "Lavington", Active: false},
			},
		},
	}
	lock := &memLock{held: map[string]bool{}}
	cfg := &config.Config{UploadDir: "testdata", ReportLockTTL: time.Minute}

	svc := NewReportService(store, store, fakeDriverSource{}, fakeMinderSource{}, fakeSettings{}, lock, cfg, zerolog.Nop())
	svc.now = func() time.Time { return time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC) }

	return &reportFixture{
		svc:     svc,
		lock:    lock,
		routeA:  routeA,
		emptyID: emptyID,
		admin:   model.Actor{UserID: uuid.New(), UserName: "Admin", Role: model.RoleAdmin},
		driver:  model.Actor{UserID: uuid.New(), UserName: "Driver", Role: model.RoleDriver, RouteID: &emptyID},
	}
}

func TestReportGenerate(t *testing.T) {
	fx := newReportFixture()

	tests := []struct {
		format      string
		filename    string
		contentType string
		magic       []byte
	}{
		{"pdf", "Route_A_Route_Report_03-Feb-2026.pdf", "application/pdf", []byte("%PDF-")},
		{"excel", "Route_A_Transport_List_03-02-2026.xlsx", report.FormatExcel.ContentType(), []byte("PK")},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			art, err := fx.svc.Generate(context.Background(), fx.admin, &model.ReportRequest{RouteID: fx.routeA, Format: tt.format})
			if err != nil {
				t.Fatalf("Generate: %v", err)
			}
			if art.Filename != tt.filename {
				t.Errorf("Filename = %q, want %q", art.Filename, tt.filename)
			}
			if art.ContentType != tt.contentType {
				t.Errorf("ContentType = %q", art.ContentType)
			}
			if !bytes.HasPrefix(art.Data, tt.magic) {
				t.Errorf("data does not start with %q", tt.magic)
			}
		})
	}

	if len(fx.lock.held) != 0 {
		t.Errorf("locks left behind: %v", fx.lock.held)
	}
}

func TestReportGenerateRefusesEmptyRoute(t *testing.T) {
	fx := newReportFixture()

	art, err := fx.svc.Generate(context.Background(), fx.admin, &model.ReportRequest{RouteID: fx.emptyID, Format: "pdf"})
	if !errors.Is(err, report.ErrNoLearners) {
		t.Fatalf("Generate(empty route) error = %v, want ErrNoLearners", err)
	}
	if art != nil {
		t.Error("an artifact was produced for an empty route")
	}
}

func TestReportGenerateRejectsDuplicate(t *testing.T) {
	fx := newReportFixture()
	key := config.CacheKey.ReportInFlightKey(fx.admin.UserID.String(), fx.routeA.String(), "pdf")
	fx.lock.held[key] = true

	_, err := fx.svc.Generate(context.Background(), fx.admin, &model.ReportRequest{RouteID: fx.routeA, Format: "pdf"})
	if !errors.Is(err, ErrReportInProgress) {
		t.Fatalf("error = %v, want ErrReportInProgress", err)
	}
	if !fx.lock.held[key] {
		t.Error("the other generation's lock was released")
	}

	if _, err := fx.svc.Generate(context.Background(), fx.admin, &model.ReportRequest{RouteID: fx.routeA, Format: "excel"}); err != nil {
		t.Errorf("a different format should not be blocked: %v", err)
	}
}

func TestReportDriverIsPinnedToRoute(t *testing.T) {
	fx := newReportFixture()

	_, err := fx.svc.Generate(context.Background(), fx.driver, &model.ReportRequest{RouteID: fx.routeA})
	if !errors.Is(err, ErrRouteForbidden) {
		t.Errorf("Generate on another route error = %v, want ErrRouteForbidden", err)
	}
	_, err = fx.svc.Preview(context.Background(), fx.driver, &model.ReportRequest{RouteID: fx.routeA})
	if !errors.Is(err, ErrRouteForbidden) {
		t.Errorf("Preview on another route error = %v, want ErrRouteForbidden", err)
	}

	opts, err := fx.svc.Options(context.Background(), fx.driver, nil)
	if err != nil {
		t.Fatalf("Options: %v", err)
	}
	if len(opts.Routes) != 1 || opts.Routes[0].ID != fx.emptyID {
		t.Errorf("driver options routes = %v, want only their own", opts.Routes)
	}
}

func TestReportPreview(t *testing.T) {
	fx := newReportFixture()
	trip := 2

	preview, err := fx.svc.Preview(context.Background(), fx.admin, &model.ReportRequest{
		RouteID:         fx.routeA,
		IncludeInactive: true,
		Trip:            &trip,
		Columns:         map[string]bool{"father_phone": false, "active": true},
	})
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if preview.Total != 1 || preview.Table.Column(report.ColName)[0] != "Mary" {
		t.Errorf("preview rows = %v, want only Mary", preview.Table.Rows)
	}
	if preview.Table.Column(report.ColFatherPhone) != nil {
		t.Error("father_phone should be switched off")
	}
	if got := preview.Table.Column(report.ColActive); len(got) != 1 || got[0] != "Inactive" {
		t.Errorf("status column = %v", got)
	}
}

func TestBuildConfig(t *testing.T) {
	id := uuid.New()

	cfg, err := BuildConfig(&model.ReportRequest{RouteID: id})
	if err != nil {
		t.Fatalf("BuildConfig: %v", err)
	}
	if cfg.Format != report.FormatPDF || cfg.SortBy != report.SortByName || cfg.IncludeInactive {
		t.Errorf("defaults = %+v", cfg)
	}

	if _, err := BuildConfig(&model.ReportRequest{}); !errors.Is(err, report.ErrRouteRequired) {
		t.Errorf("missing route error = %v", err)
	}
	_, err = BuildConfig(&model.ReportRequest{RouteID: id, Columns: map[string]bool{"shoe": true}})
	if err == nil || !strings.Contains(err.Error(), "shoe") {
		t.Errorf("unknown column error = %v", err)
	}
}
