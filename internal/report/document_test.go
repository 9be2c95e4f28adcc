package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
)

func manyLearners(n int) []model.Learner {
	out := make([]model.Learner, n)
	for i := range out {
		out[i] = model.Learner{
			Name:        "Learner " + string(rune('A'+i%26)),
			AdmissionNo: "ADM" + string(rune('0'+i%10)),
			Class:       "Grade 4",
			PickupArea:  "Kilimani",
			FatherPhone: "+254711000000",
			MotherPhone: "+254722000000",
			Active:      true,
		}
	}
	return out
}

func testDocument(t *testing.T, learners []model.Learner) *Document {
	t.Helper()
	route := model.Route{ID: uuid.New(), Name: "Route A", VehicleNo: "KDA 123A", Term: "Term 1", Year: 2026}
	doc, err := NewDocument(route, learners, NewConfig(route.ID))
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func TestNewDocumentRefusesEmptyRoute(t *testing.T) {
	route := model.Route{ID: uuid.New(), Name: "Empty"}
	if _, err := NewDocument(route, nil, NewConfig(route.ID)); err != ErrNoLearners {
		t.Errorf("NewDocument(no learners) error = %v, want ErrNoLearners", err)
	}
}

func TestDocumentDefaults(t *testing.T) {
	doc := testDocument(t, johnAndMary())

	if doc.SchoolName() != DefaultSchoolName {
		t.Errorf("SchoolName() = %q", doc.SchoolName())
	}
	if doc.Initials() != "LS" {
		t.Errorf("Initials() = %q, want LS", doc.Initials())
	}
	if got := doc.AreasCovered(); len(got) != 1 || got[0] != "Kilimani" {
		t.Errorf("AreasCovered() = %v, want derived [Kilimani]", got)
	}

	doc.Settings = &model.SchoolSettings{SchoolName: "  Ñgong Hills Academy "}
	doc.Areas = []string{"Ngong", "Karen"}
	if doc.SchoolName() != "Ñgong Hills Academy" {
		t.Errorf("SchoolName() = %q", doc.SchoolName())
	}
	if doc.Initials() != "ÑH" {
		t.Errorf("Initials() = %q, want ÑH", doc.Initials())
	}
	if got := doc.AreasCovered(); len(got) != 2 {
		t.Errorf("AreasCovered() = %v, want explicit areas", got)
	}
}
