package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/rs/zerolog"
)

// SettingStore persists school settings as key-value pairs.
type SettingStore interface {
	GetMap(ctx context.Context) (map[string]string, error)
	UpsertMany(ctx context.Context, values map[string]string) error
}

// GradeStore persists grades and streams.
type GradeStore interface {
	List(ctx context.Context) ([]model.Grade, error)
	Create(ctx context.Context, g *model.Grade) error
	Update(ctx context.Context, g *model.Grade) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SettingService manages school branding settings and the grade structure.
type SettingService struct {
	settingRepo SettingStore
	gradeRepo   GradeStore
	defaultName string
	log         zerolog.Logger
}

func NewSettingService(settingRepo SettingStore, gradeRepo GradeStore, defaultName string, log zerolog.Logger) *SettingService {
	return &SettingService{
		settingRepo: settingRepo,
		gradeRepo:   gradeRepo,
		defaultName: defaultName,
		log:         log.With().Str("component", "setting_service").Logger(),
	}
}

// GetSchoolSettings returns the typed settings, falling back to the
// configured school name when none is stored.
func (s *SettingService) GetSchoolSettings(ctx context.Context) (*model.SchoolSettings, error) {
	m, err := s.settingRepo.GetMap(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("failed to get all settings")
		return nil, err
	}
	settings := model.SchoolSettingsFromMap(m)
	if settings.SchoolName == "" {
		settings.SchoolName = s.defaultName
	}
	return settings, nil
}

func (s *SettingService) UpdateSchoolSettings(ctx context.Context, req *model.UpdateSettingsRequest) (*model.SchoolSettings, error) {
	if err := s.settingRepo.UpsertMany(ctx, req.ToMap()); err != nil {
		s.log.Error().Err(err).Msg("failed to update settings")
		return nil, err
	}
	return s.GetSchoolSettings(ctx)
}

// SetLogo stores the URL of an uploaded logo.
func (s *SettingService) SetLogo(ctx context.Context, url string) error {
	return s.settingRepo.UpsertMany(ctx, map[string]string{model.SettingLogoURL: url})
}

// ─── Grades ───────────────────────────────────────────────────────────

func (s *SettingService) ListGrades(ctx context.Context) ([]model.Grade, error) {
	return s.gradeRepo.List(ctx)
}

func (s *SettingService) CreateGrade(ctx context.Context, req *model.GradeRequest) (*model.Grade, error) {
	g, err := s.gradeFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	if err := s.gradeRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SettingService) UpdateGrade(ctx context.Context, id uuid.UUID, req *model.GradeRequest) (*model.Grade, error) {
	g, err := s.gradeFromRequest(ctx, req)
	if err != nil {
		return nil, err
	}
	g.ID = id
	if g.ParentID != nil && *g.ParentID == id {
		return nil, ErrInvalidParent
	}
	if err := s.gradeRepo.Update(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *SettingService) DeleteGrade(ctx context.Context, id uuid.UUID) error {
	return s.gradeRepo.Delete(ctx, id)
}

// gradeFromRequest checks that a stream points at an existing grade.
func (s *SettingService) gradeFromRequest(ctx context.Context, req *model.GradeRequest) (*model.Grade, error) {
	g := &model.Grade{Type: req.Type, Name: req.Name}
	if req.Type != model.GradeTypeStream {
		return g, nil
	}
	if req.ParentID == nil {
		return nil, ErrInvalidParent
	}

	grades, err := s.gradeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, p := range grades {
		if p.ID == *req.ParentID && p.Type == model.GradeTypeGrade {
			g.ParentID = req.ParentID
			return g, nil
		}
	}
	return nil, ErrInvalidParent
}
