package report

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func fixedExcel() *ExcelRenderer {
	return &ExcelRenderer{Now: func() time.Time { return time.Date(2026, time.January, 12, 8, 5, 9, 0, time.UTC) }}
}

func readSheet(t *testing.T, data []byte) (string, [][]string) {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("OpenReader: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		t.Fatalf("GetRows: %v", err)
	}
	return sheet, rows
}

func TestExcelRender(t *testing.T) {
	doc := testDocument(t, johnAndMary())

	out, err := fixedExcel().Render(doc)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	sheet, rows := readSheet(t, out)

	if sheet != "Route A" {
		t.Errorf("sheet = %q, want Route A", sheet)
	}
	if len(rows) != excelFirstRow-1+len(doc.Table.Rows) {
		t.Fatalf("got %d rows: %v", len(rows), rows)
	}
	if rows[0][0] != "Route A - Transport List (Term 1 2026)" {
		t.Errorf("title = %q", rows[0][0])
	}
	if rows[1][0] != "Generated: 12/01/2026, 08:05:09" {
		t.Errorf("stamp = %q", rows[1][0])
	}
	if !reflect.DeepEqual(rows[excelHeaderRow-1], doc.Table.Headers) {
		t.Errorf("header = %v, want %v", rows[excelHeaderRow-1], doc.Table.Headers)
	}
}

// Both renderers draw the same projected table, so the spreadsheet must
// carry exactly the cells the PDF was given.
func TestRenderersAgreeOnCells(t *testing.T) {
	learners := manyLearners(30)
	learners[3].Active = false
	doc := testDocument(t, learners)

	xlsx, err := fixedExcel().Render(doc)
	if err != nil {
		t.Fatalf("excel: %v", err)
	}
	_, rows := readSheet(t, xlsx)
	if got := rows[excelFirstRow-1:]; !reflect.DeepEqual(got, doc.Table.Rows) {
		t.Errorf("excel body differs from table:\n got %v\nwant %v", got, doc.Table.Rows)
	}

	pdf, err := plainPDF().Render(doc)
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	for _, row := range doc.Table.Rows {
		for _, cell := range row[1:] {
			if !bytes.Contains(pdf, []byte("("+cell+")")) {
				t.Errorf("PDF missing cell %q", cell)
			}
		}
	}
}

func TestExcelWidths(t *testing.T) {
	table := Table{
		Headers: []string{"#", "Name", "Pickup Area"},
		Rows:    [][]string{{"1", strings.Repeat("n", 50), "Kilimani"}},
	}
	got := excelWidths(table)
	want := []float64{excelMinWidth, excelMaxWidth, float64(len("Pickup Area") + 2)}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("excelWidths() = %v, want %v", got, want)
	}
}
