package service

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/validator"
	"github.com/xuri/excelize/v2"
)

func newTestImporter() *ImportService {
	return &ImportService{phone: validator.PhonePattern("254"), country: "254"}
}

func TestParseImportFileCSV(t *testing.T) {
	csvData := "\ufeffName, Grade ,Guardian Phone,Route\n" +
		"Amani Otieno,Grade 3,0712345678,route a\n" +
		",,,\n" +
		"\"Baraka, Jr\",Grade 4,+254700000001,Route B\n"

	records, err := parseImportFile("learners.CSV", strings.NewReader(csvData))
	if err != nil {
		t.Fatalf("parseImportFile: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("got %d records, want 2 (blank row dropped)", len(records))
	}
	if records[0].Values["guardian_phone"] != "0712345678" || records[0].Values["name"] != "Amani Otieno" {
		t.Errorf("record 0 = %v", records[0].Values)
	}
	if records[1].Row != 4 || records[1].Values["name"] != "Baraka, Jr" {
		t.Errorf("record 1 = %+v", records[1])
	}
}

func TestParseImportFileXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	_ = f.SetSheetRow(sheet, "A1", &[]interface{}{"Area Name", "Route", "Order"})
	_ = f.SetSheetRow(sheet, "A2", &[]interface{}{"Kilimani", "Route A", 2})
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}

	records, err := parseImportFile("areas.xlsx", bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("parseImportFile: %v", err)
	}
	if len(records) != 1 || records[0].Values["area_name"] != "Kilimani" || records[0].Values["order"] != "2" {
		t.Errorf("records = %+v", records)
	}
}

func TestParseImportFileRejectsOtherTypes(t *testing.T) {
	if _, err := parseImportFile("learners.pdf", strings.NewReader("x")); !errors.Is(err, ErrUnsupportedImport) {
		t.Errorf("error = %v, want ErrUnsupportedImport", err)
	}
}

func TestMapLearners(t *testing.T) {
	routeA := uuid.New()
	routes := map[string]uuid.UUID{"route a": routeA}
	records := []importRecord{
		{Row: 2, Values: map[string]string{"first_name": "Amani", "last_name": "Otieno", "grade": "Grade 3", "phone": "0712 345 678", "route": "ROUTE A", "trip": "Trip 2", "adm_no": "A-1"}},
		{Row: 3, Values: map[string]string{"name": "No Phone"}},
		{Row: 4, Values: map[string]string{"name": "Lost", "phone": "+254700000001", "route": "Nowhere"}},
		{Row: 5, Values: map[string]string{"name": "Bad", "phone": "12345"}},
		{Row: 6, Values: map[string]string{"name": "Twin", "phone": "254700000002", "admission_no": "a-1"}},
		{Row: 7, Values: map[string]string{"learner_name": "Routeless", "contact": "+254700000003"}},
	}

	result := &ImportResult{}
	learners := newTestImporter().mapLearners(records, routes, result)

	if len(learners) != 2 {
		t.Fatalf("got %d learners, want 2; errors: %v", len(learners), result.Errors)
	}
	a := learners[0]
	if a.Name != "Amani Otieno" || a.Class != "Grade 3" || a.FatherPhone != "+254712345678" || a.Trip != 2 {
		t.Errorf("learner 0 = %+v", a)
	}
	if a.RouteID == nil || *a.RouteID != routeA {
		t.Errorf("route not resolved case-insensitively: %v", a.RouteID)
	}
	if b := learners[1]; b.RouteID != nil || !strings.HasPrefix(b.AdmissionNo, "IMP-") || b.Trip != 1 {
		t.Errorf("learner 1 = %+v", b)
	}

	wantRows := []int{3, 4, 5, 6}
	if result.Skipped != len(wantRows) {
		t.Fatalf("skipped = %d, want %d: %v", result.Skipped, len(wantRows), result.Errors)
	}
	for i, row := range wantRows {
		if result.Errors[i].Row != row {
			t.Errorf("error %d row = %d, want %d", i, result.Errors[i].Row, row)
		}
	}
}

func TestMapAreas(t *testing.T) {
	routeA := uuid.New()
	records := []importRecord{
		{Row: 2, Values: map[string]string{"name": "Kilimani", "route": "Route A"}},
		{Row: 3, Values: map[string]string{"area": "Lavington", "route_name": "route a", "pickup_order": "7"}},
		{Row: 4, Values: map[string]string{"name": "Orphan"}},
	}

	result := &ImportResult{}
	areas := mapAreas(records, map[string]uuid.UUID{"route a": routeA}, result)

	if len(areas) != 2 || result.Skipped != 1 {
		t.Fatalf("areas = %v, skipped = %d", areas, result.Skipped)
	}
	if areas[0].PickupOrder != 1 || areas[1].PickupOrder != 7 {
		t.Errorf("pickup orders = %d, %d, want 1, 7", areas[0].PickupOrder, areas[1].PickupOrder)
	}
}

func TestNormalisePhone(t *testing.T) {
	s := newTestImporter()
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"0712345678", "+254712345678", true},
		{"254712345678", "+254712345678", true},
		{"+254 712-345-678", "+254712345678", true},
		{"+1 555 0100", "+15550100", false},
	}
	for _, tt := range tests {
		got, ok := s.normalisePhone(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("normalisePhone(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}
