package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/lelani/transport-backend/internal/model"
	"github.com/rs/zerolog"
)

// RolloverRequest moves the school into a new term or year.
type RolloverRequest struct {
	Term           string `json:"term" binding:"required,max=20"`
	Year           int    `json:"year" binding:"required,min=2000,max=2100"`
	DeleteLearners bool   `json:"delete_learners"`
	Archive        bool   `json:"archive"`
}

// DeactivateGraduatesRequest names the classes that have left the school.
type DeactivateGraduatesRequest struct {
	Classes []string `json:"classes" binding:"required,min=1,dive,required,max=50"`
}

// RolloverResult reports what a rollover changed.
type RolloverResult struct {
	RoutesUpdated   int64 `json:"routes_updated"`
	LearnersDeleted int64 `json:"learners_deleted"`
}

// RolloverStore applies the term change and optional learner purge atomically.
type RolloverStore interface {
	Rollover(ctx context.Context, term string, year int, deleteLearners bool) (routes, learners int64, err error)
}

// GraduateStore deactivates learners by class.
type GraduateStore interface {
	DeactivateByClassPatterns(ctx context.Context, patterns []string) (int64, error)
}

// RolloverService performs year-end maintenance.
type RolloverService struct {
	routes   RolloverStore
	learners GraduateStore
	audit    AuditRecorder
	log      zerolog.Logger
}

// NewRolloverService creates a new RolloverService.
func NewRolloverService(routes RolloverStore, learners GraduateStore, audit AuditRecorder, log zerolog.Logger) *RolloverService {
	return &RolloverService{
		routes:   routes,
		learners: learners,
		audit:    audit,
		log:      log.With().Str("component", "rollover_service").Logger(),
	}
}

// Rollover updates every active route to the new term and year. Deleting
// learners is the one hard delete the system performs.
func (s *RolloverService) Rollover(ctx context.Context, actor model.Actor, req *RolloverRequest) (*RolloverResult, error) {
	term := strings.TrimSpace(req.Term)

	routes, learners, err := s.routes.Rollover(ctx, term, req.Year, req.DeleteLearners)
	if err != nil {
		return nil, err
	}
	res := &RolloverResult{RoutesUpdated: routes, LearnersDeleted: learners}

	if req.Archive {
		s.audit.Record(ctx, actor, model.AuditLog{
			Action:   model.AuditRollover,
			NewValue: fmt.Sprintf("%s %d", term, req.Year),
			Details:  fmt.Sprintf("%d routes updated, %d learners deleted", res.RoutesUpdated, res.LearnersDeleted),
		})
	}

	s.log.Warn().
		Str("term", term).
		Int("year", req.Year).
		Int64("routes", res.RoutesUpdated).
		Int64("learners_deleted", res.LearnersDeleted).
		Msg("Year-end rollover completed")
	return res, nil
}

// DeactivateGraduates deactivates learners whose class contains any of the
// given names, ignoring case, and returns how many were changed.
func (s *RolloverService) DeactivateGraduates(ctx context.Context, actor model.Actor, req *DeactivateGraduatesRequest) (int64, error) {
	patterns := GraduatePatterns(req.Classes)
	if len(patterns) == 0 {
		return 0, nil
	}

	n, err := s.learners.DeactivateByClassPatterns(ctx, patterns)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.audit.Record(ctx, actor, model.AuditLog{
			Action:    model.AuditDeactivated,
			FieldName: "class",
			OldValue:  strings.Join(req.Classes, ", "),
			Details:   fmt.Sprintf("%d graduating learners deactivated", n),
		})
	}
	return n, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// GraduatePatterns turns class names into "contains" ILIKE patterns. Blank
// and repeated names (ignoring case) are dropped and LIKE wildcards in the
// names match literally.
func GraduatePatterns(classes []string) []string {
	seen := make(map[string]struct{}, len(classes))
	patterns := make([]string, 0, len(classes))
	for _, c := range classes {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		key := strings.ToLower(c)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		patterns = append(patterns, "%"+likeEscaper.Replace(c)+"%")
	}
	return patterns
}
