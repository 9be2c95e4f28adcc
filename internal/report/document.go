package report

import (
	"strings"

	"github.com/lelani/transport-backend/internal/model"
)

// DefaultSchoolName is printed when no school settings are stored.
const DefaultSchoolName = "Lelani School"

// Image is an embedded picture such as the school logo.
type Image struct {
	Data []byte
	// Type is the image format understood by the PDF engine: "PNG", "JPG" or "GIF".
	Type string
}

// Document is everything a renderer needs for one report. Learners holds the
// filtered and sorted learners that Table was projected from.
type Document struct {
	Route    model.Route
	Learners []model.Learner
	Table    Table
	Settings *model.SchoolSettings
	Driver   *model.Driver
	Minder   *model.Minder
	// Areas is the explicit areas-covered list; when empty the distinct
	// pickup areas of Learners are shown instead.
	Areas []string
	Logo  *Image
}

// SchoolName returns the configured school name or the default placeholder.
func (d *Document) SchoolName() string {
	if d.Settings != nil {
		if name := strings.TrimSpace(d.Settings.SchoolName); name != "" {
			return name
		}
	}
	return DefaultSchoolName
}

// AreasCovered returns the areas strip contents.
func (d *Document) AreasCovered() []string {
	if len(d.Areas) > 0 {
		return d.Areas
	}
	return DistinctPickupAreas(d.Learners)
}

// Initials returns up to two initials of the school name for the logo badge.
func (d *Document) Initials() string {
	var initials []rune
	for _, w := range strings.Fields(d.SchoolName()) {
		initials = append(initials, []rune(strings.ToUpper(w))[0])
		if len(initials) == 2 {
			break
		}
	}
	return string(initials)
}

// NewDocument filters, sorts and projects learners for cfg. It fails with
// ErrNoLearners when nothing is left to print.
func NewDocument(route model.Route, learners []model.Learner, cfg Config) (*Document, error) {
	selected, err := Select(learners, cfg)
	if err != nil {
		return nil, err
	}
	return &Document{
		Route:    route,
		Learners: selected,
		Table:    Project(selected, cfg.Columns),
	}, nil
}
