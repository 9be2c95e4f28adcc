package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/rs/zerolog"
)

type memSettings struct {
	values map[string]string
}

func (m *memSettings) GetMap(context.Context) (map[string]string, error) {
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

func (m *memSettings) UpsertMany(_ context.Context, values map[string]string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

type memGrades struct {
	grades []model.Grade
}

func (m *memGrades) List(context.Context) ([]model.Grade, error) { return m.grades, nil }

func (m *memGrades) Create(_ context.Context, g *model.Grade) error {
	g.ID = uuid.New()
	m.grades = append(m.grades, *g)
	return nil
}

func (m *memGrades) Update(_ context.Context, g *model.Grade) error {
	for i := range m.grades {
		if m.grades[i].ID == g.ID {
			m.grades[i] = *g
			return nil
		}
	}
	return errors.New("not found")
}

func (m *memGrades) Delete(context.Context, uuid.UUID) error { return nil }

func TestSchoolSettingsDefaultName(t *testing.T) {
	store := &memSettings{}
	svc := NewSettingService(store, &memGrades{}, "Lelani School", zerolog.Nop())

	got, err := svc.GetSchoolSettings(context.Background())
	if err != nil {
		t.Fatalf("GetSchoolSettings: %v", err)
	}
	if got.SchoolName != "Lelani School" {
		t.Errorf("SchoolName = %q, want configured default", got.SchoolName)
	}

	got, err = svc.UpdateSchoolSettings(context.Background(), &model.UpdateSettingsRequest{SchoolName: "Hillcrest Academy"})
	if err != nil {
		t.Fatalf("UpdateSchoolSettings: %v", err)
	}
	if got.SchoolName != "Hillcrest Academy" {
		t.Errorf("SchoolName after update = %q", got.SchoolName)
	}

	if err := svc.SetLogo(context.Background(), "/uploads/logo.png"); err != nil {
		t.Fatalf("SetLogo: %v", err)
	}
	got, _ = svc.GetSchoolSettings(context.Background())
	if got.LogoURL != "/uploads/logo.png" || got.SchoolName != "Hillcrest Academy" {
		t.Errorf("settings after logo = %+v", got)
	}
}

func TestGradeStreamsNeedAGradeParent(t *testing.T) {
	grades := &memGrades{}
	svc := NewSettingService(&memSettings{}, grades, "", zerolog.Nop())
	ctx := context.Background()

	grade, err := svc.CreateGrade(ctx, &model.GradeRequest{Type: model.GradeTypeGrade, Name: "Grade 7"})
	if err != nil {
		t.Fatalf("CreateGrade(grade): %v", err)
	}
	stream, err := svc.CreateGrade(ctx, &model.GradeRequest{Type: model.GradeTypeStream, Name: "East", ParentID: &grade.ID})
	if err != nil {
		t.Fatalf("CreateGrade(stream): %v", err)
	}
	if stream.ParentID == nil || *stream.ParentID != grade.ID {
		t.Errorf("stream parent = %v, want %v", stream.ParentID, grade.ID)
	}

	missing := uuid.New()
	tests := []struct {
		name string
		req  model.GradeRequest
	}{
		{"no parent", model.GradeRequest{Type: model.GradeTypeStream, Name: "West"}},
		{"unknown parent", model.GradeRequest{Type: model.GradeTypeStream, Name: "West", ParentID: &missing}},
		{"stream as parent", model.GradeRequest{Type: model.GradeTypeStream, Name: "West", ParentID: &stream.ID}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.CreateGrade(ctx, &tt.req); !errors.Is(err, ErrInvalidParent) {
				t.Errorf("CreateGrade error = %v, want ErrInvalidParent", err)
			}
		})
	}

	if _, err := svc.UpdateGrade(ctx, grade.ID, &model.GradeRequest{Type: model.GradeTypeStream, Name: "Loop", ParentID: &grade.ID}); !errors.Is(err, ErrInvalidParent) {
		t.Errorf("UpdateGrade(self parent) error = %v, want ErrInvalidParent", err)
	}
}
