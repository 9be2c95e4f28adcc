package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/lelani/transport-backend/internal/repository"
	"github.com/lelani/transport-backend/internal/validator"
	"github.com/rs/zerolog"
)

// ErrInvalidImport is returned when an upload cannot be parsed or contains
// no usable rows.
var ErrInvalidImport = errors.New("invalid import file")

// ImportKind selects what an upload contains.
type ImportKind string

const (
	ImportLearners ImportKind = "learners"
	ImportAreas    ImportKind = "areas"
)

// ImportRowError describes why one row was skipped.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarises an import run.
type ImportResult struct {
	Kind     ImportKind       `json:"kind"`
	Total    int              `json:"total"`
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
	DryRun   bool             `json:"dry_run"`
}

func (r *ImportResult) skip(row int, format string, args ...interface{}) {
	r.Skipped++
	r.Errors = append(r.Errors, ImportRowError{Row: row, Message: fmt.Sprintf(format, args...)})
}

// ImportService loads learners and areas from CSV or XLSX uploads.
type ImportService struct {
	learners *repository.LearnerRepository
	areas    *repository.AreaRepository
	routes   *repository.RouteRepository
	audit    *AuditService
	phone    *regexp.Regexp
	country  string
	log      zerolog.Logger
}

// NewImportService creates a new ImportService.
func NewImportService(
	learners *repository.LearnerRepository,
	areas *repository.AreaRepository,
	routes *repository.RouteRepository,
	audit *AuditService,
	countryCode string,
	log zerolog.Logger,
) *ImportService {
	return &ImportService{
		learners: learners,
		areas:    areas,
		routes:   routes,
		audit:    audit,
		phone:    validator.PhonePattern(countryCode),
		country:  countryCode,
		log:      log.With().Str("component", "import_service").Logger(),
	}
}

// Import parses an upload and, unless dryRun is set, writes the valid rows.
func (s *ImportService) Import(ctx context.Context, actor model.Actor, kind ImportKind, filename string, r io.Reader, dryRun bool) (*ImportResult, error) {
	records, err := parseImportFile(filename, r)
	if err != nil {
		return nil, err
	}

	routes, err := s.routes.List(ctx, false)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]uuid.UUID, len(routes))
	for _, rt := range routes {
		byName[strings.ToLower(strings.TrimSpace(rt.Name))] = rt.ID
	}

	result := &ImportResult{Kind: kind, Total: len(records), Errors: []ImportRowError{}, DryRun: dryRun}
	switch kind {
	case ImportLearners:
		learners := s.mapLearners(records, byName, result)
		if len(learners) == 0 {
			return result, fmt.Errorf("%w: no valid learner rows", ErrInvalidImport)
		}
		result.Imported = len(learners)
		if dryRun {
			return result, nil
		}
		if _, err := s.learners.Upsert(ctx, learners); err != nil {
			return nil, err
		}

	case ImportAreas:
		areas := mapAreas(records, byName, result)
		if len(areas) == 0 {
			return result, fmt.Errorf("%w: no valid area rows; route names must match existing routes", ErrInvalidImport)
		}
		result.Imported = len(areas)
		if dryRun {
			return result, nil
		}
		written, err := s.areas.CreateMany(ctx, areas)
		if err != nil {
			return nil, err
		}
		result.Skipped += len(areas) - written
		result.Imported = written

	default:
		return nil, fmt.Errorf("%w: unknown kind %q", ErrInvalidImport, kind)
	}

	s.audit.Record(ctx, actor, model.AuditLog{
		Action:  model.AuditImported,
		Details: fmt.Sprintf("%d %s imported from %s", result.Imported, kind, filename),
	})
	s.log.Info().Str("kind", string(kind)).Int("imported", result.Imported).Int("skipped", result.Skipped).Msg("Import completed")
	return result, nil
}

var tripDigits = regexp.MustCompile(`\d+`)

func (s *ImportService) mapLearners(records []importRecord, routes map[string]uuid.UUID, result *ImportResult) []model.Learner {
	out := make([]model.Learner, 0, len(records))
	seen := make(map[string]int)

	for _, rec := range records {
		name := rec.first("name", "learner_name")
		if name == "" {
			name = strings.TrimSpace(rec.first("first_name") + " " + rec.first("last_name"))
		}
		father := rec.first("father_phone", "guardian_phone", "parent_phone", "phone", "contact")
		if name == "" || father == "" {
			result.skip(rec.Row, "name and phone are required")
			continue
		}

		l := model.Learner{
			Name:        name,
			AdmissionNo: rec.first("admission_no", "adm_no", "admission_number", "admission"),
			Class:       rec.first("class", "grade"),
			Trip:        1,
			PickupArea:  rec.first("pickup_area", "area", "location"),
			PickupTime:  rec.first("pickup_time"),
			DropoffArea: rec.first("dropoff_area", "drop_area"),
			DropTime:    rec.first("drop_time", "dropoff_time"),
			Active:      true,
		}

		var ok bool
		if l.FatherPhone, ok = s.normalisePhone(father); !ok {
			result.skip(rec.Row, "invalid phone %q", father)
			continue
		}
		if v := rec.first("mother_phone"); v != "" {
			if l.MotherPhone, ok = s.normalisePhone(v); !ok {
				result.skip(rec.Row, "invalid mother phone %q", v)
				continue
			}
		}
		if v := rec.first("house_help_phone", "house_help"); v != "" {
			if l.HouseHelpPhone, ok = s.normalisePhone(v); !ok {
				result.skip(rec.Row, "invalid house help phone %q", v)
				continue
			}
		}

		if v := rec.first("trip"); v != "" {
			n, err := strconv.Atoi(tripDigits.FindString(v))
			if err != nil || n < 1 {
				result.skip(rec.Row, "invalid trip %q", v)
				continue
			}
			l.Trip = n
		}

		if routeName := rec.first("route", "route_name"); routeName != "" {
			id, found := routes[strings.ToLower(routeName)]
			if !found {
				result.skip(rec.Row, "unknown route %q", routeName)
				continue
			}
			l.RouteID = &id
		}

		if l.AdmissionNo == "" {
			l.AdmissionNo = "IMP-" + strings.ToUpper(uuid.NewString()[:8])
		}
		if prev, dup := seen[strings.ToLower(l.AdmissionNo)]; dup {
			result.skip(rec.Row, "admission number %q repeats row %d", l.AdmissionNo, prev)
			continue
		}
		seen[strings.ToLower(l.AdmissionNo)] = rec.Row

		out = append(out, l)
	}
	return out
}

// normalisePhone converts local formats such as 0712345678 or 254712345678
// to +254712345678 and validates the result.
func (s *ImportService) normalisePhone(raw string) (string, bool) {
	p := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "").Replace(raw)
	switch {
	case strings.HasPrefix(p, "+"):
	case strings.HasPrefix(p, s.country):
		p = "+" + p
	case strings.HasPrefix(p, "0"):
		p = "+" + s.country + p[1:]
	}
	return p, s.phone.MatchString(p)
}

func mapAreas(records []importRecord, routes map[string]uuid.UUID, result *ImportResult) []model.Area {
	out := make([]model.Area, 0, len(records))
	for i, rec := range records {
		name := rec.first("name", "area_name", "area")
		routeName := rec.first("route", "route_name")
		if name == "" || routeName == "" {
			result.skip(rec.Row, "name and route are required")
			continue
		}
		routeID, ok := routes[strings.ToLower(routeName)]
		if !ok {
			result.skip(rec.Row, "unknown route %q", routeName)
			continue
		}

		order, err := strconv.Atoi(rec.first("pickup_order", "order"))
		if err != nil || order < 1 {
			order = i + 1
		}
		out = append(out, model.Area{Name: name, RouteID: routeID, PickupOrder: order})
	}
	return out
}
