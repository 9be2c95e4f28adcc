package service

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedImport is returned for files that are neither CSV nor XLSX.
var ErrUnsupportedImport = errors.New("import file must be .csv or .xlsx")

// importRecord is one data row keyed by normalised header name.
type importRecord struct {
	Row    int
	Values map[string]string
}

// first returns the first non-empty value among keys.
func (r importRecord) first(keys ...string) string {
	for _, k := range keys {
		if v := strings.TrimSpace(r.Values[k]); v != "" {
			return v
		}
	}
	return ""
}

// parseImportFile reads a spreadsheet or CSV upload into records. Row numbers
// count the header as row 1.
func parseImportFile(filename string, r io.Reader) ([]importRecord, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		rows, err = readCSV(r)
	case ".xlsx":
		rows, err = readXLSX(r)
	default:
		return nil, ErrUnsupportedImport
	}
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: file has no header row", ErrInvalidImport)
	}

	header := make([]string, len(rows[0]))
	for i, h := range rows[0] {
		header[i] = normaliseHeader(h)
	}

	records := make([]importRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		rec := importRecord{Row: i + 2, Values: make(map[string]string, len(header))}
		empty := true
		for j, h := range header {
			if h == "" || j >= len(row) {
				continue
			}
			v := strings.TrimSpace(row[j])
			rec.Values[h] = v
			if v != "" {
				empty = false
			}
		}
		if !empty {
			records = append(records, rec)
		}
	}
	return records, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidImport)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	return rows, nil
}

// normaliseHeader lower-cases a header and joins its words with underscores,
// so "Pickup Area" and "pickup_area" match.
func normaliseHeader(h string) string {
	h = strings.TrimPrefix(h, "\ufeff")
	h = strings.ReplaceAll(h, `"`, "")
	return strings.Join(strings.Fields(strings.ToLower(h)), "_")
}
