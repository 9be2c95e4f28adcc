package report

import (
	"fmt"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

const (
	excelTitleRow  = 1
	excelStampRow  = 2
	excelHeaderRow = 4
	excelFirstRow  = 5

	excelMinWidth = 10.0
	excelMaxWidth = 30.0

	excelAccent    = "D32F2F"
	excelHeaderBg  = "1E1E1E"
	excelStripe    = "F5F5F5"
	excelGridColor = "E0E0E0"
)

// ExcelRenderer writes a Document as a single-sheet workbook.
type ExcelRenderer struct {
	// Now stamps the "Generated" line. Defaults to time.Now.
	Now func() time.Time
}

func NewExcelRenderer() *ExcelRenderer {
	return &ExcelRenderer{Now: time.Now}
}

// Format implements Renderer.
func (r *ExcelRenderer) Format() Format { return FormatExcel }

// Render implements Renderer.
func (r *ExcelRenderer) Render(doc *Document) ([]byte, error) {
	if len(doc.Table.Rows) == 0 {
		return nil, ErrNoLearners
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(doc.Route.Name)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}
	tab := excelAccent
	if err := f.SetSheetProps(sheet, &excelize.SheetPropsOptions{TabColorRGB: &tab}); err != nil {
		return nil, fmt.Errorf("tab colour: %w", err)
	}

	styles, err := newExcelStyles(f)
	if err != nil {
		return nil, err
	}

	t := doc.Table
	lastCol, err := excelize.ColumnNumberToName(len(t.Headers))
	if err != nil {
		return nil, err
	}

	title := fmt.Sprintf("%s - Transport List (%s)", doc.Route.Name, termYearSpaced(doc.Route.Term, doc.Route.Year))
	if err := banner(f, sheet, excelTitleRow, lastCol, title, styles.title); err != nil {
		return nil, err
	}
	stamp := "Generated: " + now.Format("02/01/2006, 15:04:05")
	if err := banner(f, sheet, excelStampRow, lastCol, stamp, styles.stamp); err != nil {
		return nil, err
	}

	if err := writeRow(f, sheet, excelHeaderRow, toCells(t.Headers, nil)); err != nil {
		return nil, err
	}
	if err := styleRow(f, sheet, excelHeaderRow, lastCol, styles.header); err != nil {
		return nil, err
	}
	if err := f.SetRowHeight(sheet, excelHeaderRow, 25); err != nil {
		return nil, err
	}

	for i, row := range t.Rows {
		n := excelFirstRow + i
		if err := writeRow(f, sheet, n, toCells(row, t.Keys)); err != nil {
			return nil, err
		}
		style := styles.body
		if i%2 == 1 {
			style = styles.stripe
		}
		if err := styleRow(f, sheet, n, lastCol, style); err != nil {
			return nil, err
		}
	}

	for j, w := range excelWidths(t) {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return nil, err
		}
	}

	if err := f.SetDocProps(&excelize.DocProperties{
		Title:   doc.Route.Name + " Transport List",
		Creator: doc.SchoolName() + " Transport Management System",
	}); err != nil {
		return nil, fmt.Errorf("doc props: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

type excelStyles struct {
	title, stamp, header, body, stripe int
}

func newExcelStyles(f *excelize.File) (excelStyles, error) {
	grid := []excelize.Border{
		{Type: "left", Color: excelGridColor, Style: 1},
		{Type: "right", Color: excelGridColor, Style: 1},
		{Type: "top", Color: excelGridColor, Style: 1},
		{Type: "bottom", Color: excelGridColor, Style: 1},
	}
	centre := &excelize.Alignment{Horizontal: "center", Vertical: "center"}

	defs := []*excelize.Style{
		{Font: &excelize.Font{Bold: true, Size: 16, Color: excelAccent}, Alignment: centre},
		{Font: &excelize.Font{Italic: true, Size: 10, Color: "666666"}, Alignment: centre},
		{
			Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelHeaderBg}},
			Alignment: centre,
			Border:    grid,
		},
		{Border: grid, Alignment: &excelize.Alignment{Vertical: "center"}},
		{
			Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{excelStripe}},
			Border:    grid,
			Alignment: &excelize.Alignment{Vertical: "center"},
		},
	}
	ids := make([]int, len(defs))
	for i, d := range defs {
		id, err := f.NewStyle(d)
		if err != nil {
			return excelStyles{}, fmt.Errorf("new style: %w", err)
		}
		ids[i] = id
	}
	return excelStyles{title: ids[0], stamp: ids[1], header: ids[2], body: ids[3], stripe: ids[4]}, nil
}

// banner writes text into column A of row and merges it across the table width.
func banner(f *excelize.File, sheet string, row int, lastCol, text string, style int) error {
	first := "A" + strconv.Itoa(row)
	last := lastCol + strconv.Itoa(row)
	if err := f.SetCellValue(sheet, first, text); err != nil {
		return err
	}
	if last != first {
		if err := f.MergeCell(sheet, first, last); err != nil {
			return err
		}
	}
	return f.SetCellStyle(sheet, first, last, style)
}

func writeRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &cells)
}

func styleRow(f *excelize.File, sheet string, row int, lastCol string, style int) error {
	r := strconv.Itoa(row)
	return f.SetCellStyle(sheet, "A"+r, lastCol+r, style)
}

// toCells converts a table row into cell values. The index column is
// written as a number so it sorts numerically in a spreadsheet.
func toCells(values []string, keys []ColumnKey) []any {
	out := make([]any, len(values))
	for j, v := range values {
		out[j] = v
		if j < len(keys) && keys[j] == ColIndex {
			if n, err := strconv.Atoi(v); err == nil {
				out[j] = n
			}
		}
	}
	return out
}

// excelWidths sizes each column to its longest header or body value plus
// two characters, clamped to a readable range. Title rows are ignored.
func excelWidths(t Table) []float64 {
	widths := make([]float64, len(t.Headers))
	for j, h := range t.Headers {
		widths[j] = float64(utf8.RuneCountInString(h))
	}
	for _, row := range t.Rows {
		for j, v := range row {
			if n := float64(utf8.RuneCountInString(v)); n > widths[j] {
				widths[j] = n
			}
		}
	}
	for j := range widths {
		widths[j] = min(max(widths[j]+2, excelMinWidth), excelMaxWidth)
	}
	return widths
}

func termYearSpaced(term string, year int) string {
	switch {
	case year == 0:
		return term
	case term == "":
		return strconv.Itoa(year)
	}
	return term + " " + strconv.Itoa(year)
}
