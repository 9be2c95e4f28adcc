package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/phpdave11/gofpdf"
)

type rgb struct{ r, g, b int }

var (
	colorPrimary   = rgb{211, 47, 47}
	colorDarkGray  = rgb{50, 50, 50}
	colorLightGray = rgb{120, 120, 120}
	colorBorder    = rgb{200, 200, 200}
	colorGrid      = rgb{220, 220, 220}
	colorHeaderBg  = rgb{180, 40, 40}
	colorStripe    = rgb{252, 252, 252}
	colorStrip     = rgb{250, 250, 250}
	colorWhite     = rgb{255, 255, 255}
)

// Page geometry in millimetres for landscape A4.
const (
	a4ShortEdge  = 210.0
	pageMargin   = 10.0
	bannerHeight = 35.0
	infoStartY   = bannerHeight + 8
	infoHeight   = 36.0
	areasY       = infoStartY + 42
	areasHeight  = 14.0
	tableStartY  = areasY + 20
	tableTopY    = 12.0
	footerLineY  = 12.0 // distance from the bottom edge
	tableBottomY = 16.0 // distance from the bottom edge
	headRowH     = 8.0
	bodyRowH     = 7.0
	cellPad      = 2.5
	indexColW    = 8.0
	tableFont    = 8.0
	minTableFont = 6.0
	fontStep     = 0.5
	lineSpacing  = 1.25
	ptToMM       = 25.4 / 72
	ellipsis     = "..."
)

// widthTolerance absorbs rounding when a column is sized to its content.
const widthTolerance = 1e-6

// PDFRenderer draws a Document as a landscape A4 manifest.
type PDFRenderer struct {
	// Now stamps the footer date. Defaults to time.Now.
	Now func() time.Time
	// Compress toggles stream compression; disabled output is easier to inspect.
	Compress bool
}

// NewPDFRenderer returns a renderer with compression enabled.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{Now: time.Now, Compress: true}
}

// Format implements Renderer.
func (r *PDFRenderer) Format() Format { return FormatPDF }

// PageCount returns how many pages a table of rows single-line rows occupies.
func PageCount(rows int) int {
	heights := make([]float64, rows)
	for i := range heights {
		heights[i] = bodyRowH
	}
	return len(paginate(heights, headRowH, a4ShortEdge))
}

func pageCapacities() (first, rest int) {
	bottom := a4ShortEdge - tableBottomY
	first = int((bottom - tableStartY - headRowH) / bodyRowH)
	rest = int((bottom - tableTopY - headRowH) / bodyRowH)
	return first, rest
}

// Render implements Renderer.
func (r *PDFRenderer) Render(doc *Document) ([]byte, error) {
	if len(doc.Table.Rows) == 0 {
		return nil, ErrNoLearners
	}

	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetCompression(r.Compress)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(pageMargin, tableTopY, pageMargin)
	pdf.SetCellMargin(cellPad)

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	school := doc.SchoolName()

	pdf.SetTitle(tr(doc.Route.Name+" Route Learners Report"), false)
	pdf.SetCreator(tr(school+" Transport Management System"), false)

	p := &pdfPage{pdf: pdf, tr: tr}
	p.pageW, p.pageH = pdf.GetPageSize()

	layout := p.layoutTable(doc.Table, p.pageW-2*pageMargin)
	starts := paginate(layout.heights, layout.headerH, p.pageH)
	totalPages := len(starts)
	footer := tr(fmt.Sprintf("Generated by %s Transport Management System  •  %s", school, now.Format("02 Jan 2006")))
	pdf.SetFooterFunc(func() {
		p.footer(footer, fmt.Sprintf("Page %d of %d", pdf.PageNo(), totalPages))
	})

	pdf.AddPage()
	p.banner(doc, school)
	p.infoBoxes(doc)
	p.areas(doc.AreasCovered())
	p.table(layout, doc.Table, starts)

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pdfPage carries the drawing state of one render.
type pdfPage struct {
	pdf          *gofpdf.Fpdf
	tr           func(string) string
	pageW, pageH float64
}

func (p *pdfPage) fill(c rgb) { p.pdf.SetFillColor(c.r, c.g, c.b) }
func (p *pdfPage) text(c rgb) { p.pdf.SetTextColor(c.r, c.g, c.b) }
func (p *pdfPage) draw(c rgb) { p.pdf.SetDrawColor(c.r, c.g, c.b) }
func (p *pdfPage) font(style string, size float64) {
	p.pdf.SetFont("Helvetica", style, size)
}

// centered writes s centred across the page with its vertical middle at y.
func (p *pdfPage) centered(s string, y, h float64) {
	p.pdf.SetXY(0, y-h/2)
	p.pdf.CellFormat(p.pageW, h, p.fit(p.tr(s), p.pageW-2*pageMargin), "", 0, "CM", false, 0, "")
}

// fit shortens an already translated string until it is no wider than w.
func (p *pdfPage) fit(s string, w float64) string {
	if p.pdf.GetStringWidth(s) <= w {
		return s
	}
	for len(s) > 0 {
		s = s[:len(s)-1]
		if p.pdf.GetStringWidth(s+ellipsis) <= w {
			return strings.TrimRight(s, " ") + ellipsis
		}
	}
	return ""
}

func (p *pdfPage) banner(doc *Document, school string) {
	p.fill(colorPrimary)
	p.pdf.Rect(0, 0, p.pageW, bannerHeight, "F")

	cx, cy, radius := 20.0, bannerHeight/2, 12.0
	p.fill(colorWhite)
	p.pdf.Circle(cx, cy, radius, "F")
	if !p.logo(doc.Logo, cx, cy, radius) {
		p.text(colorPrimary)
		p.font("B", 8)
		p.pdf.SetXY(cx-radius, cy-3)
		p.pdf.CellFormat(2*radius, 6, p.tr(doc.Initials()), "", 0, "CM", false, 0, "")
	}

	p.text(colorWhite)
	p.font("B", 26)
	p.centered(strings.ToUpper(school), 11, 10)
	p.font("", 10)
	p.centered("TRANSPORT MANAGEMENT SYSTEM", 19, 5)
	p.font("B", 14)
	p.centered("ROUTE LEARNERS REPORT", 28, 6)
}

// logo draws the school logo inside the badge circle. It reports false when
// there is no usable image so the caller can fall back to initials.
func (p *pdfPage) logo(img *Image, cx, cy, radius float64) bool {
	if img == nil || len(img.Data) == 0 {
		return false
	}
	opt := gofpdf.ImageOptions{ImageType: img.Type, ReadDpi: false}
	p.pdf.RegisterImageOptionsReader("logo", opt, bytes.NewReader(img.Data))
	if p.pdf.Err() {
		// A broken upload must not fail the whole report.
		p.pdf.ClearError()
		return false
	}
	side := radius * 1.4
	p.pdf.ImageOptions("logo", cx-side/2, cy-side/2, side, side, false, opt, 0, "")
	return true
}

func (p *pdfPage) footer(attribution, pageLabel string) {
	y := p.pageH - footerLineY
	p.draw(colorBorder)
	p.pdf.SetLineWidth(0.3)
	p.pdf.Line(pageMargin, y, p.pageW-pageMargin, y)

	p.text(colorLightGray)
	p.font("", 7)
	p.pdf.Text(pageMargin, p.pageH-7, p.fit(attribution, p.pageW-2*pageMargin-30))
	p.pdf.Text(p.pageW-pageMargin-p.pdf.GetStringWidth(pageLabel), p.pageH-7, pageLabel)
}

type infoLine struct{ label, value string }

func (p *pdfPage) infoBox(x, w float64, title string, lines []infoLine, valueOffset float64) {
	p.draw(colorBorder)
	p.pdf.SetLineWidth(0.3)
	p.pdf.Rect(x, infoStartY, w, infoHeight, "D")

	p.text(colorPrimary)
	p.font("B", 11)
	p.pdf.Text(x+4, infoStartY+7, p.tr(title))

	p.text(colorDarkGray)
	y := infoStartY + 14
	for _, l := range lines {
		p.font("", 9)
		p.pdf.Text(x+4, y, p.tr(l.label))
		p.font("B", 9)
		value := l.value
		if value == "" {
			value = Placeholder
		}
		p.pdf.Text(x+valueOffset, y, p.fit(p.tr(value), w-valueOffset-4))
		y += 6
	}
}

func (p *pdfPage) infoBoxes(doc *Document) {
	half := (p.pageW - 30) / 2

	route := doc.Route
	p.infoBox(pageMargin, half, "ROUTE INFORMATION", []infoLine{
		{"Route Name:", route.Name},
		{"Vehicle Reg:", route.VehicleNo},
		{"Term/Year:", termYear(route.Term, route.Year)},
		{"Total Learners:", strconv.Itoa(len(doc.Table.Rows))},
	}, 34)

	var driverName, driverPhone, minderName, minderPhone string
	if doc.Driver != nil {
		driverName, driverPhone = doc.Driver.Name, doc.Driver.Phone
	}
	if doc.Minder != nil {
		minderName, minderPhone = doc.Minder.Name, doc.Minder.Phone
	}
	p.infoBox(pageMargin+half+10, half, "PERSONNEL", []infoLine{
		{"Driver:", driverName},
		{"Phone:", driverPhone},
		{"Minder:", minderName},
		{"Phone:", minderPhone},
	}, 24)
}

func termYear(term string, year int) string {
	switch {
	case term == "" && year == 0:
		return ""
	case year == 0:
		return term
	case term == "":
		return strconv.Itoa(year)
	}
	return term + ", " + strconv.Itoa(year)
}

func (p *pdfPage) areas(areas []string) {
	w := p.pageW - 2*pageMargin
	p.fill(colorStrip)
	p.draw(colorBorder)
	p.pdf.Rect(pageMargin, areasY, w, areasHeight, "FD")

	p.text(colorPrimary)
	p.font("B", 10)
	p.pdf.Text(pageMargin+4, areasY+5, "AREAS COVERED")

	line := strings.Join(areas, "  •  ")
	if line == "" {
		line = "No areas defined"
	}
	p.text(colorDarkGray)
	p.font("B", 9)
	p.pdf.Text(pageMargin+4, areasY+11, p.fit(p.tr(line), w-8))
}

func (p *pdfPage) table(l *tableLayout, t Table, starts []int) {
	p.text(colorPrimary)
	p.font("B", 11)
	p.pdf.Text(pageMargin, tableStartY-3, "LEARNERS LIST")

	y := tableStartY
	for page, start := range starts {
		end := len(t.Rows)
		if page+1 < len(starts) {
			end = starts[page+1]
		}
		if page > 0 {
			p.pdf.AddPage()
			y = tableTopY
		}
		p.headerRow(l, y)
		y += l.headerH
		for i := start; i < end; i++ {
			p.bodyRow(l, i, y, i%2 == 1)
			y += l.heights[i]
		}
	}
}

func (p *pdfPage) headerRow(l *tableLayout, y float64) {
	p.fill(colorHeaderBg)
	p.text(colorWhite)
	p.draw(colorGrid)
	p.pdf.SetLineWidth(0.2)
	p.font("B", l.font)

	x := pageMargin
	for j, lines := range l.header {
		p.cell(x, y, l.widths[j], l.headerH, lines, "C", l.lineH)
		x += l.widths[j]
	}
}

func (p *pdfPage) bodyRow(l *tableLayout, i int, y float64, striped bool) {
	p.fill(colorWhite)
	if striped {
		p.fill(colorStripe)
	}
	p.text(colorDarkGray)
	p.draw(colorGrid)
	p.font("", l.font)

	x := pageMargin
	for j, lines := range l.rows[i] {
		align := "L"
		if j == 0 && l.indexed {
			align = "C"
		}
		p.cell(x, y, l.widths[j], l.heights[i], lines, align, l.lineH)
		x += l.widths[j]
	}
}

// cell draws a filled, bordered box and centres lines vertically inside it.
func (p *pdfPage) cell(x, y, w, h float64, lines []string, align string, lineH float64) {
	p.pdf.Rect(x, y, w, h, "FD")
	top := y + (h-float64(len(lines))*lineH)/2
	for k, line := range lines {
		p.pdf.SetXY(x, top+float64(k)*lineH)
		p.pdf.CellFormat(w, lineH, line, "", 0, align+"M", false, 0, "")
	}
}

// ─── Table layout ───────────────────────────────────────────────────────

// tableLayout is the resolved geometry of the learners table. Cell text is
// already translated and split into lines; no characters are dropped.
type tableLayout struct {
	font    float64
	lineH   float64
	indexed bool
	widths  []float64
	header  [][]string
	headerH float64
	rows    [][][]string
	heights []float64
}

// layoutTable picks the largest font between tableFont and minTableFont at
// which every cell fits on one line. If none does, cells wrap at word
// boundaries at minTableFont and rows grow to the tallest cell.
func (p *pdfPage) layoutTable(t Table, avail float64) *tableLayout {
	l := &tableLayout{indexed: len(t.Keys) > 0 && t.Keys[0] == ColIndex}

	size := tableFont
	var natural []float64
	for {
		natural = p.naturalWidths(t, size, l.indexed)
		if sum(natural) <= avail || size <= minTableFont {
			break
		}
		size -= fontStep
	}
	l.font = size
	l.lineH = size * ptToMM * lineSpacing
	l.widths = spreadWidths(natural, p.wordWidths(t, size, l.indexed), avail, l.indexed)

	p.font("B", size)
	l.header = make([][]string, len(t.Headers))
	lines := 1
	for j, h := range t.Headers {
		l.header[j] = p.wrap(p.tr(h), l.widths[j]-2*cellPad)
		lines = max(lines, len(l.header[j]))
	}
	l.headerH = headRowH + float64(lines-1)*l.lineH

	p.font("", size)
	l.rows = make([][][]string, len(t.Rows))
	l.heights = make([]float64, len(t.Rows))
	for i, row := range t.Rows {
		cells := make([][]string, len(row))
		lines := 1
		for j, v := range row {
			cells[j] = p.wrap(p.tr(v), l.widths[j]-2*cellPad)
			lines = max(lines, len(cells[j]))
		}
		l.rows[i] = cells
		l.heights[i] = bodyRowH + float64(lines-1)*l.lineH
	}
	return l
}

// naturalWidths returns each column's single-line width at size.
func (p *pdfPage) naturalWidths(t Table, size float64, indexed bool) []float64 {
	widths := make([]float64, len(t.Headers))
	p.font("B", size)
	for j, h := range t.Headers {
		widths[j] = p.pdf.GetStringWidth(p.tr(h))
	}
	p.font("", size)
	for _, row := range t.Rows {
		for j, v := range row {
			widths[j] = max(widths[j], p.pdf.GetStringWidth(p.tr(v)))
		}
	}
	return padWidths(widths, indexed)
}

// wordWidths returns the width each column needs to avoid breaking a word.
func (p *pdfPage) wordWidths(t Table, size float64, indexed bool) []float64 {
	widths := make([]float64, len(t.Headers))
	p.font("B", size)
	for j, h := range t.Headers {
		for _, w := range strings.Fields(p.tr(h)) {
			widths[j] = max(widths[j], p.pdf.GetStringWidth(w))
		}
	}
	p.font("", size)
	for _, row := range t.Rows {
		for j, v := range row {
			for _, w := range strings.Fields(p.tr(v)) {
				widths[j] = max(widths[j], p.pdf.GetStringWidth(w))
			}
		}
	}
	return padWidths(widths, indexed)
}

func padWidths(widths []float64, indexed bool) []float64 {
	for j := range widths {
		widths[j] += 2 * cellPad
		if j == 0 && indexed {
			widths[j] = max(widths[j], indexColW)
		}
	}
	return widths
}

// spreadWidths fits the columns into avail millimetres. A table narrower
// than avail grows in proportion to its content. A wider one starts from the
// word widths and hands the remaining space to the columns that lose the most.
// The index column keeps its fixed width.
func spreadWidths(natural, words []float64, avail float64, indexed bool) []float64 {
	out := make([]float64, len(natural))
	copy(out, natural)

	fixed := 0.0
	if indexed && len(out) > 0 {
		fixed = out[0]
	}
	flexible := func(j int) bool { return !(indexed && j == 0) }

	total := sum(natural)
	if total-fixed <= 0 {
		return out
	}
	if total <= avail {
		grow := (avail - fixed) / (total - fixed)
		for j := range out {
			if flexible(j) {
				out[j] *= grow
			}
		}
		return out
	}

	copy(out, words)
	minimum := sum(words)
	if minimum-fixed <= 0 {
		return out
	}
	if minimum >= avail {
		// Words must break; keep the proportions of the word widths.
		shrink := (avail - fixed) / (minimum - fixed)
		for j := range out {
			if flexible(j) {
				out[j] *= shrink
			}
		}
		return out
	}

	var slack float64
	for j := range out {
		if flexible(j) {
			slack += natural[j] - words[j]
		}
	}
	for j := range out {
		if flexible(j) && slack > 0 {
			out[j] += (avail - minimum) * (natural[j] - words[j]) / slack
		}
	}
	return out
}

// wrap splits an already translated string into lines no wider than w.
// Lines break at spaces; a word wider than w is broken between bytes.
func (p *pdfPage) wrap(s string, w float64) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{s}
	}

	var lines []string
	line := ""
	for _, word := range words {
		candidate := word
		if line != "" {
			candidate = line + " " + word
		}
		if p.pdf.GetStringWidth(candidate) <= w+widthTolerance {
			line = candidate
			continue
		}
		if line != "" {
			lines = append(lines, line)
			line = ""
		}
		for p.pdf.GetStringWidth(word) > w+widthTolerance && len(word) > 1 {
			n := 1
			for n < len(word) && p.pdf.GetStringWidth(word[:n+1]) <= w+widthTolerance {
				n++
			}
			lines = append(lines, word[:n])
			word = word[n:]
		}
		line = word
	}
	return append(lines, line)
}

// paginate returns the index of the first row on each page. The first page
// starts below the route details; later pages repeat the header at the top.
func paginate(heights []float64, headerH, pageH float64) []int {
	starts := []int{0}
	bottom := pageH - tableBottomY
	y := tableStartY + headerH
	for i, h := range heights {
		if y+h > bottom && i > starts[len(starts)-1] {
			starts = append(starts, i)
			y = tableTopY + headerH
		}
		y += h
	}
	return starts
}

func sum(values []float64) float64 {
	var total float64
	for _, v := range values {
		total += v
	}
	return total
}
