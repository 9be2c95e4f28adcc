package report

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lelani/transport-backend/internal/model"
	"github.com/phpdave11/gofpdf"
)

func plainPDF() *PDFRenderer {
	return &PDFRenderer{
		Now:      func() time.Time { return time.Date(2026, time.January, 12, 8, 0, 0, 0, time.UTC) },
		Compress: false,
	}
}

func TestPageCount(t *testing.T) {
	first, rest := pageCapacities()
	tests := []struct {
		rows, want int
	}{
		{1, 1},
		{first, 1},
		{first + 1, 2},
		{first + rest, 2},
		{first + rest + 1, 3},
	}
	for _, tt := range tests {
		if got := PageCount(tt.rows); got != tt.want {
			t.Errorf("PageCount(%d) = %d, want %d", tt.rows, got, tt.want)
		}
	}
}

func TestPDFRender(t *testing.T) {
	doc := testDocument(t, johnAndMary())

	out, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.HasPrefix(out, []byte("%PDF-")) {
		t.Fatalf("output does not start with a PDF header: %q", out[:min(len(out), 8)])
	}
	for _, want := range []string{"Page 1 of 1", "ROUTE LEARNERS REPORT", "LEARNERS LIST", "KDA 123A", "Term 1, 2026", "John"} {
		if !bytes.Contains(out, []byte(want)) {
			t.Errorf("PDF does not contain %q", want)
		}
	}
	if bytes.Contains(out, []byte("Mary")) {
		t.Error("inactive learner rendered")
	}
}

func TestPDFRenderPaginates(t *testing.T) {
	first, _ := pageCapacities()
	doc := testDocument(t, manyLearners(first+5))

	out, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for page := 1; page <= 2; page++ {
		label := fmt.Sprintf("Page %d of 2", page)
		if !bytes.Contains(out, []byte(label)) {
			t.Errorf("PDF does not contain %q", label)
		}
	}
	if bytes.Contains(out, []byte("Page 3")) {
		t.Error("PDF has an unexpected third page")
	}
}

func TestPDFRenderBrokenLogoFallsBack(t *testing.T) {
	doc := testDocument(t, johnAndMary())
	doc.Logo = &Image{Data: []byte("not an image"), Type: "PNG"}

	out, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render with broken logo: %v", err)
	}
	if !bytes.Contains(out, []byte("(LS)")) {
		t.Error("initials badge missing after logo failure")
	}
}

func TestRenderersRefuseEmptyTable(t *testing.T) {
	doc := &Document{Table: Project(nil, DefaultColumns())}
	for _, r := range []Renderer{plainPDF(), NewExcelRenderer()} {
		out, err := r.Render(doc)
		if err != ErrNoLearners {
			t.Errorf("%s Render(empty) error = %v, want ErrNoLearners", r.Format(), err)
		}
		if out != nil {
			t.Errorf("%s Render(empty) produced %d bytes", r.Format(), len(out))
		}
	}
}

func allColumns() ColumnSet {
	set := ColumnSet{}
	for _, c := range Columns() {
		set = set.With(c.Key, true)
	}
	return set
}

func fullRecordDocument(t *testing.T, learners []model.Learner) *Document {
	t.Helper()
	route := model.Route{ID: uuid.New(), Name: "Route A", VehicleNo: "KDA 123A", Term: "Term 1", Year: 2026}
	cfg := NewConfig(route.ID)
	cfg.Columns = allColumns()
	cfg.IncludeInactive = true
	doc, err := NewDocument(route, learners, cfg)
	if err != nil {
		t.Fatalf("NewDocument: %v", err)
	}
	return doc
}

func fullRecordLearner() model.Learner {
	return model.Learner{
		Name:           "Wanjiku Achieng Mwangi",
		AdmissionNo:    "LS/2026/0412",
		Class:          "Grade 7 East",
		Trip:           2,
		PickupArea:     "Kilimani Yaya Centre",
		PickupTime:     "06:45",
		DropoffArea:    "Lavington Green",
		DropTime:       "17:10",
		FatherPhone:    "+254712345678",
		MotherPhone:    "+254723456789",
		HouseHelpPhone: "+254734567890",
		Active:         false,
	}
}

func newLayoutPage() *pdfPage {
	pdf := gofpdf.New("L", "mm", "A4", "")
	p := &pdfPage{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	p.pageW, p.pageH = pdf.GetPageSize()
	return p
}

func TestPDFKeepsEveryCellWhole(t *testing.T) {
	learners := make([]model.Learner, 12)
	for i := range learners {
		learners[i] = fullRecordLearner()
		learners[i].AdmissionNo = fmt.Sprintf("LS/2026/%04d", i+400)
	}
	doc := fullRecordDocument(t, learners)

	out, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, h := range doc.Table.Headers {
		if !bytes.Contains(out, []byte("("+h+")")) {
			t.Errorf("PDF missing header %q", h)
		}
	}
	for _, row := range doc.Table.Rows {
		for _, cell := range row {
			if !bytes.Contains(out, []byte("("+cell+")")) {
				t.Errorf("PDF missing full cell %q", cell)
			}
		}
	}
	if bytes.Contains(out, []byte(ellipsis+")")) {
		t.Error("PDF contains a shortened value")
	}
}

func TestLayoutShrinksFontBeforeWrapping(t *testing.T) {
	p := newLayoutPage()
	avail := p.pageW - 2*pageMargin

	narrow := testDocument(t, manyLearners(3))
	l := p.layoutTable(narrow.Table, avail)
	if l.font != tableFont {
		t.Errorf("default columns font = %v, want %v", l.font, tableFont)
	}

	wide := fullRecordDocument(t, []model.Learner{fullRecordLearner()})
	l = p.layoutTable(wide.Table, avail)
	if l.font >= tableFont || l.font < minTableFont {
		t.Errorf("all columns font = %v, want within [%v, %v)", l.font, minTableFont, tableFont)
	}
	for i, h := range l.heights {
		if h != bodyRowH {
			t.Errorf("row %d height = %v, want single line %v", i, h, bodyRowH)
		}
	}
	if got := sum(l.widths); math.Abs(got-avail) > 0.01 {
		t.Errorf("table width = %v, want %v", got, avail)
	}
}

func TestLayoutWrapsLongValuesWithoutLosingText(t *testing.T) {
	learner := fullRecordLearner()
	learner.PickupArea = strings.Repeat("Kilimani Yaya Centre Argwings Kodhek Road ", 4)
	learner.PickupArea = strings.TrimSpace(learner.PickupArea)
	learner.Name = "Wanjiku Achieng Mwangi Nyambura Chebet Otieno"
	doc := fullRecordDocument(t, []model.Learner{learner})

	p := newLayoutPage()
	l := p.layoutTable(doc.Table, p.pageW-2*pageMargin)

	if l.font != minTableFont {
		t.Errorf("font = %v, want %v", l.font, minTableFont)
	}
	if l.heights[0] <= bodyRowH {
		t.Errorf("row height = %v, want a wrapped row", l.heights[0])
	}
	for j, cell := range doc.Table.Rows[0] {
		if got := strings.Join(l.rows[0][j], " "); got != cell {
			t.Errorf("column %s lines %q do not rebuild %q", doc.Table.Keys[j], l.rows[0][j], cell)
		}
	}
	for j, key := range doc.Table.Keys {
		if key == ColFatherPhone || key == ColMotherPhone || key == ColHouseHelpPhone {
			if len(l.rows[0][j]) != 1 {
				t.Errorf("%s broken across lines: %q", key, l.rows[0][j])
			}
		}
	}

	out, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !bytes.Contains(out, []byte("(+254712345678)")) {
		t.Error("PDF missing father phone")
	}
}

func TestPaginateTallRows(t *testing.T) {
	first, _ := pageCapacities()
	heights := make([]float64, first+1)
	for i := range heights {
		heights[i] = bodyRowH
	}
	if got := paginate(heights, headRowH, a4ShortEdge); len(got) != 2 || got[1] != first {
		t.Errorf("paginate(single lines) = %v, want break at %d", got, first)
	}

	heights[0] = 3 * bodyRowH
	got := paginate(heights, headRowH, a4ShortEdge)
	if len(got) != 2 || got[1] >= first {
		t.Errorf("paginate(tall first row) = %v, want an earlier break than %d", got, first)
	}
}
