package service

import (
	"context"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/rs/zerolog"
)

// LearnerService handles learner records, the driver route restriction and
// the audit trail of every change.
type LearnerService struct {
	repo  *repository.LearnerRepository
	audit *AuditService
	log   zerolog.Logger
}

// NewLearnerService creates a new LearnerService.
func NewLearnerService(repo *repository.LearnerRepository, audit *AuditService, log zerolog.Logger) *LearnerService {
	return &LearnerService{
		repo:  repo,
		audit: audit,
		log:   log.With().Str("component", "learner_service").Logger(),
	}
}

// List returns learners visible to actor. Drivers are pinned to their route.
func (s *LearnerService) List(ctx context.Context, actor model.Actor, f model.LearnerFilter) ([]model.Learner, error) {
	if !actor.IsAdmin() {
		if actor.RouteID == nil {
			return []model.Learner{}, nil
		}
		f.RouteID = actor.RouteID
	}
	return s.repo.List(ctx, f)
}

// Get returns a learner visible to actor.
func (s *LearnerService) Get(ctx context.Context, actor model.Actor, id uuid.UUID) (*model.Learner, error) {
	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canTouch(actor, l.RouteID) {
		return nil, ErrRouteForbidden
	}
	return l, nil
}

// Create adds a learner. New learners start active.
func (s *LearnerService) Create(ctx context.Context, actor model.Actor, req *model.LearnerRequest) (*model.Learner, error) {
	l := learnerFromRequest(req)
	if !canTouch(actor, l.RouteID) {
		return nil, ErrRouteForbidden
	}
	l.Active = true

	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	id := l.ID
	s.audit.Record(ctx, actor, model.AuditLog{LearnerID: &id, Action: model.AuditCreated, NewValue: l.Name})
	s.log.Info().Str("learner_id", l.ID.String()).Msg("Learner created")
	return l, nil
}

// Update replaces a learner's details and audits every changed field.
func (s *LearnerService) Update(ctx context.Context, actor model.Actor, id uuid.UUID, req *model.LearnerRequest) (*model.Learner, error) {
	old, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	l := learnerFromRequest(req)
	if !canTouch(actor, l.RouteID) {
		return nil, ErrRouteForbidden
	}
	l.ID, l.Active, l.CreatedAt = old.ID, old.Active, old.CreatedAt

	if err := s.repo.Update(ctx, l); err != nil {
		return nil, err
	}

	changes := DiffLearner(old, l)
	entries := make([]model.AuditLog, len(changes))
	for i, c := range changes {
		entries[i] = model.AuditLog{
			LearnerID: &l.ID,
			Action:    model.AuditUpdated,
			FieldName: c.Field,
			OldValue:  c.Old,
			NewValue:  c.New,
		}
	}
	s.audit.Record(ctx, actor, entries...)
	return l, nil
}

// SetActive deactivates or reactivates a learner. Learners are never deleted
// individually so that their history survives.
func (s *LearnerService) SetActive(ctx context.Context, actor model.Actor, id uuid.UUID, active bool) (*model.Learner, error) {
	l, err := s.Get(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	if l.Active == active {
		return l, nil
	}

	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}
	l.Active = active

	action := model.AuditDeactivated
	if active {
		action = model.AuditReactivated
	}
	s.audit.Record(ctx, actor, model.AuditLog{
		LearnerID: &l.ID,
		Action:    action,
		FieldName: "active",
		OldValue:  strconv.FormatBool(!active),
		NewValue:  strconv.FormatBool(active),
	})
	return l, nil
}

func canTouch(actor model.Actor, routeID *uuid.UUID) bool {
	if actor.IsAdmin() {
		return true
	}
	return actor.RouteID != nil && routeID != nil && *actor.RouteID == *routeID
}

func learnerFromRequest(req *model.LearnerRequest) *model.Learner {
	routeID := req.RouteID
	trip := req.Trip
	if trip <= 0 {
		trip = 1
	}
	return &model.Learner{
		Name:           strings.TrimSpace(req.Name),
		AdmissionNo:    strings.TrimSpace(req.AdmissionNo),
		Class:          strings.TrimSpace(req.Class),
		RouteID:        &routeID,
		Trip:           trip,
		PickupArea:     strings.TrimSpace(req.PickupArea),
		PickupTime:     strings.TrimSpace(req.PickupTime),
		DropoffArea:    strings.TrimSpace(req.DropoffArea),
		DropTime:       strings.TrimSpace(req.DropTime),
		FatherPhone:    req.FatherPhone,
		MotherPhone:    req.MotherPhone,
		HouseHelpPhone: req.HouseHelpPhone,
	}
}

// FieldChange is one differing field between two learner versions.
type FieldChange struct {
	Field string
	Old   string
	New   string
}

// DiffLearner lists the editable fields that differ between a and b, in a
// fixed order.
func DiffLearner(a, b *model.Learner) []FieldChange {
	routeStr := func(id *uuid.UUID) string {
		if id == nil {
			return ""
		}
		return id.String()
	}
	fields := []struct {
		name     string
		old, new string
	}{
		{"name", a.Name, b.Name},
		{"admission_no", a.AdmissionNo, b.AdmissionNo},
		{"class", a.Class, b.Class},
		{"route_id", routeStr(a.RouteID), routeStr(b.RouteID)},
		{"trip", strconv.Itoa(a.Trip), strconv.Itoa(b.Trip)},
		{"pickup_area", a.PickupArea, b.PickupArea},
		{"pickup_time", a.PickupTime, b.PickupTime},
		{"dropoff_area", a.DropoffArea, b.DropoffArea},
		{"drop_time", a.DropTime, b.DropTime},
		{"father_phone", a.FatherPhone, b.FatherPhone},
		{"mother_phone", a.MotherPhone, b.MotherPhone},
		{"house_help_phone", a.HouseHelpPhone, b.HouseHelpPhone},
	}

	var changes []FieldChange
	for _, f := range fields {
		if f.old != f.new {
			changes = append(changes, FieldChange{Field: f.name, Old: f.old, New: f.new})
		}
	}
	return changes
}
