package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/config"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/report"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Data sources used by the report service. The repositories satisfy them.
type (
	ReportLearnerSource interface {
		ListByRoute(ctx context.Context, routeID uuid.UUID) ([]model.Learner, error)
		DistinctClasses(ctx context.Context, routeID *uuid.UUID) ([]string, error)
		DistinctPickupAreas(ctx context.Context, routeID *uuid.UUID) ([]string, error)
		DistinctTrips(ctx context.Context, routeID uuid.UUID) ([]int, error)
	}
	ReportRouteSource interface {
		GetByID(ctx context.Context, id uuid.UUID) (*model.Route, error)
		List(ctx context.Context, activeOnly bool) ([]model.Route, error)
	}
	ReportDriverSource interface {
		GetByRoute(ctx context.Context, routeID uuid.UUID) (*model.Driver, error)
	}
	ReportMinderSource interface {
		GetByRoute(ctx context.Context, routeID uuid.UUID) (*model.Minder, error)
	}
	ReportSettingsSource interface {
		GetSchoolSettings(ctx context.Context) (*model.SchoolSettings, error)
	}
)

// InFlightLock guards against duplicate concurrent report generations.
type InFlightLock interface {
	Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, key string) error
}

// RedisLock implements InFlightLock with SET NX.
type RedisLock struct {
	rdb *redis.Client
}

func NewRedisLock(rdb *redis.Client) *RedisLock {
	return &RedisLock{rdb: rdb}
}

func (l *RedisLock) Acquire(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	return l.rdb.SetNX(ctx, key, time.Now().Unix(), ttl).Result()
}

func (l *RedisLock) Release(ctx context.Context, key string) error {
	return l.rdb.Del(ctx, key).Err()
}

// Artifact is a rendered report ready for download.
type Artifact struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ReportPreview is the JSON rendition of a report.
type ReportPreview struct {
	Route model.Route  `json:"route"`
	Table report.Table `json:"table"`
	Total int          `json:"total"`
}

// ReportService assembles route manifests and renders them.
type ReportService struct {
	learners  ReportLearnerSource
	routes    ReportRouteSource
	drivers   ReportDriverSource
	minders   ReportMinderSource
	settings  ReportSettingsSource
	lock      InFlightLock
	renderers map[report.Format]report.Renderer

	uploadDir string
	lockTTL   time.Duration
	now       func() time.Time
	log       zerolog.Logger
}

// NewReportService creates a new ReportService.
func NewReportService(
	learners ReportLearnerSource,
	routes ReportRouteSource,
	drivers ReportDriverSource,
	minders ReportMinderSource,
	settings ReportSettingsSource,
	lock InFlightLock,
	cfg *config.Config,
	log zerolog.Logger,
) *ReportService {
	s := &ReportService{
		learners:  learners,
		routes:    routes,
		drivers:   drivers,
		minders:   minders,
		settings:  settings,
		lock:      lock,
		uploadDir: cfg.UploadDir,
		lockTTL:   cfg.ReportLockTTL,
		now:       time.Now,
		log:       log.With().Str("component", "report_service").Logger(),
	}
	now := func() time.Time { return s.now() }
	s.renderers = map[report.Format]report.Renderer{
		report.FormatPDF:   &report.PDFRenderer{Now: now, Compress: true},
		report.FormatExcel: &report.ExcelRenderer{Now: now},
	}
	return s
}

// Options lists what actor may pick from. With a route selected it also
// lists that route's classes, pickup areas and trips.
func (s *ReportService) Options(ctx context.Context, actor model.Actor, routeID *uuid.UUID) (*model.ReportOptions, error) {
	opts := &model.ReportOptions{Routes: []model.Route{}, Classes: []string{}, PickupAreas: []string{}, Trips: []int{}}

	if actor.IsAdmin() {
		routes, err := s.routes.List(ctx, true)
		if err != nil {
			return nil, err
		}
		opts.Routes = routes
	} else if actor.RouteID != nil {
		r, err := s.routes.GetByID(ctx, *actor.RouteID)
		if err != nil && !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		if r != nil {
			opts.Routes = []model.Route{*r}
		}
	}

	if routeID == nil {
		return opts, nil
	}
	if !canTouch(actor, routeID) {
		return nil, ErrRouteForbidden
	}

	var err error
	if opts.Classes, err = s.learners.DistinctClasses(ctx, routeID); err != nil {
		return nil, err
	}
	if opts.PickupAreas, err = s.learners.DistinctPickupAreas(ctx, routeID); err != nil {
		return nil, err
	}
	if opts.Trips, err = s.learners.DistinctTrips(ctx, *routeID); err != nil {
		return nil, err
	}
	return opts, nil
}

// BuildConfig turns a request into a validated report configuration.
func BuildConfig(req *model.ReportRequest) (report.Config, error) {
	cfg := report.NewConfig(req.RouteID)

	var err error
	if cfg.Format, err = report.ParseFormat(req.Format); err != nil {
		return cfg, err
	}
	if cfg.SortBy, err = report.ParseSortKey(req.SortBy); err != nil {
		return cfg, err
	}
	if cfg.Columns, err = cfg.Columns.ApplyOverrides(req.Columns); err != nil {
		return cfg, err
	}
	cfg.Trip = req.Trip
	cfg.PickupArea = strings.TrimSpace(req.PickupArea)
	cfg.Class = strings.TrimSpace(req.Class)
	cfg.IncludeInactive = req.IncludeInactive
	return cfg, cfg.Validate()
}

// Preview returns the table a report would contain.
func (s *ReportService) Preview(ctx context.Context, actor model.Actor, req *model.ReportRequest) (*ReportPreview, error) {
	cfg, err := BuildConfig(req)
	if err != nil {
		return nil, err
	}
	doc, err := s.document(ctx, actor, cfg, false)
	if err != nil {
		return nil, err
	}
	return &ReportPreview{
		Route: doc.Route,
		Table: doc.Table,
		Total: len(doc.Table.Rows),
	}, nil
}

// Generate renders the report file. Only one generation per user, route and
// format runs at a time.
func (s *ReportService) Generate(ctx context.Context, actor model.Actor, req *model.ReportRequest) (*Artifact, error) {
	cfg, err := BuildConfig(req)
	if err != nil {
		return nil, err
	}
	if !canTouch(actor, &cfg.RouteID) {
		return nil, ErrRouteForbidden
	}

	key := config.CacheKey.ReportInFlightKey(actor.UserID.String(), cfg.RouteID.String(), string(cfg.Format))
	if s.lock != nil {
		ok, err := s.lock.Acquire(ctx, key, s.lockTTL)
		if err != nil {
			// Generate without the guard rather than refuse.
			s.log.Warn().Err(err).Msg("Report lock unavailable")
		} else if !ok {
			return nil, ErrReportInProgress
		} else {
			defer func() {
				if err := s.lock.Release(context.WithoutCancel(ctx), key); err != nil {
					s.log.Warn().Err(err).Str("key", key).Msg("Report lock release failed")
				}
			}()
		}
	}

	doc, err := s.document(ctx, actor, cfg, true)
	if err != nil {
		return nil, err
	}

	renderer, ok := s.renderers[cfg.Format]
	if !ok {
		return nil, fmt.Errorf("%w: %q", report.ErrUnknownFormat, cfg.Format)
	}

	start := time.Now()
	data, err := renderer.Render(doc)
	if err != nil {
		s.log.Error().Err(err).Str("route_id", cfg.RouteID.String()).Str("format", string(cfg.Format)).Msg("Report rendering failed")
		return nil, err
	}

	s.log.Info().
		Str("route_id", cfg.RouteID.String()).
		Str("format", string(cfg.Format)).
		Int("learners", len(doc.Table.Rows)).
		Int("bytes", len(data)).
		Dur("took", time.Since(start)).
		Msg("Report generated")

	return &Artifact{
		Filename:    report.Filename(cfg.Format, doc.Route.Name, s.now()),
		ContentType: cfg.Format.ContentType(),
		Data:        data,
	}, nil
}

// document loads everything one report needs. Personnel, settings and the
// logo are only fetched for full renders.
func (s *ReportService) document(ctx context.Context, actor model.Actor, cfg report.Config, full bool) (*report.Document, error) {
	if !canTouch(actor, &cfg.RouteID) {
		return nil, ErrRouteForbidden
	}

	route, err := s.routes.GetByID(ctx, cfg.RouteID)
	if err != nil {
		return nil, err
	}
	learners, err := s.learners.ListByRoute(ctx, route.ID)
	if err != nil {
		return nil, err
	}

	doc, err := report.NewDocument(*route, learners, cfg)
	if err != nil {
		return nil, err
	}
	doc.Areas = route.Areas
	if !full {
		return doc, nil
	}

	if doc.Settings, err = s.settings.GetSchoolSettings(ctx); err != nil {
		return nil, err
	}
	if doc.Driver, err = s.drivers.GetByRoute(ctx, route.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if doc.Minder, err = s.minders.GetByRoute(ctx, route.ID); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	if doc.Settings != nil {
		doc.Logo = s.loadLogo(doc.Settings.LogoURL)
	}
	return doc, nil
}

// loadLogo reads an uploaded logo from local storage. Anything it cannot
// use yields nil so the report falls back to initials.
func (s *ReportService) loadLogo(url string) *report.Image {
	name, ok := strings.CutPrefix(url, uploadURLPrefix)
	if !ok || name == "" || strings.ContainsAny(name, `/\`) {
		return nil
	}

	var kind string
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		kind = "PNG"
	case ".jpg", ".jpeg":
		kind = "JPG"
	case ".gif":
		kind = "GIF"
	default:
		return nil
	}

	data, err := os.ReadFile(filepath.Join(s.uploadDir, name))
	if err != nil {
		s.log.Warn().Err(err).Str("logo", url).Msg("School logo unreadable")
		return nil
	}
	return &report.Image{Data: data, Type: kind}
}
