package report

import (
	"fmt"
	"strconv"

	"github.com/lelani/transport-backend/internal/model"
)

// ColumnKey identifies one report column.
type ColumnKey string

const (
	ColIndex          ColumnKey = "index"
	ColName           ColumnKey = "name"
	ColAdmissionNo    ColumnKey = "admission_no"
	ColClass          ColumnKey = "class"
	ColTrip           ColumnKey = "trip"
	ColPickupArea     ColumnKey = "pickup_area"
	ColPickupTime     ColumnKey = "pickup_time"
	ColDropoffArea    ColumnKey = "dropoff_area"
	ColDropTime       ColumnKey = "drop_time"
	ColFatherPhone    ColumnKey = "father_phone"
	ColMotherPhone    ColumnKey = "mother_phone"
	ColHouseHelpPhone ColumnKey = "house_help_phone"
	ColActive         ColumnKey = "active"
)

// Placeholder is rendered for empty optional values.
const Placeholder = "-"

// Column is one entry of the canonical column table.
type Column struct {
	Key    ColumnKey
	Header string
	// Fixed columns are always emitted and cannot be toggled.
	Fixed bool
	value func(index int, l *model.Learner) string
}

// Value renders the cell for the learner at zero-based position index.
func (c Column) Value(index int, l *model.Learner) string {
	return c.value(index, l)
}

// columns is the single canonical column order shared by every renderer.
var columns = []Column{
	{Key: ColIndex, Header: "#", Fixed: true, value: func(i int, _ *model.Learner) string { return strconv.Itoa(i + 1) }},
	{Key: ColName, Header: "Name", Fixed: true, value: func(_ int, l *model.Learner) string { return orPlaceholder(l.Name) }},
	{Key: ColAdmissionNo, Header: "Adm No", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.AdmissionNo) }},
	{Key: ColClass, Header: "Class", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.Class) }},
	{Key: ColTrip, Header: "Trip", value: func(_ int, l *model.Learner) string { return "Trip " + strconv.Itoa(TripOf(l)) }},
	{Key: ColPickupArea, Header: "Pickup Area", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.PickupArea) }},
	{Key: ColPickupTime, Header: "Pickup Time", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.PickupTime) }},
	{Key: ColDropoffArea, Header: "Dropoff Area", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.DropoffArea) }},
	{Key: ColDropTime, Header: "Dropoff Time", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.DropTime) }},
	{Key: ColFatherPhone, Header: "Father Phone", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.FatherPhone) }},
	{Key: ColMotherPhone, Header: "Mother Phone", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.MotherPhone) }},
	{Key: ColHouseHelpPhone, Header: "House Help", value: func(_ int, l *model.Learner) string { return orPlaceholder(l.HouseHelpPhone) }},
	{Key: ColActive, Header: "Status", value: func(_ int, l *model.Learner) string { return statusLabel(l.Active) }},
}

// Columns returns a copy of the canonical column table.
func Columns() []Column {
	out := make([]Column, len(columns))
	copy(out, columns)
	return out
}

// TripOf returns the learner's trip slot, treating a missing trip as 1.
func TripOf(l *model.Learner) int {
	if l.Trip <= 0 {
		return 1
	}
	return l.Trip
}

func orPlaceholder(s string) string {
	if s == "" {
		return Placeholder
	}
	return s
}

func statusLabel(active bool) string {
	if active {
		return "Active"
	}
	return "Inactive"
}

// ColumnSet records which optional columns are enabled. The zero value
// enables only the fixed columns.
type ColumnSet map[ColumnKey]bool

// DefaultColumns returns the selection a new report starts with.
func DefaultColumns() ColumnSet {
	return ColumnSet{
		ColAdmissionNo: true,
		ColClass:       true,
		ColTrip:        true,
		ColPickupArea:  true,
		ColFatherPhone: true,
		ColMotherPhone: true,
	}
}

// Enabled reports whether key is emitted. Fixed columns are always enabled.
func (s ColumnSet) Enabled(key ColumnKey) bool {
	for _, c := range columns {
		if c.Key == key {
			return c.Fixed || s[key]
		}
	}
	return false
}

// With returns a copy of s with key switched on or off.
func (s ColumnSet) With(key ColumnKey, on bool) ColumnSet {
	out := make(ColumnSet, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[key] = on
	return out
}

// ApplyOverrides returns a copy of s with the given request toggles applied.
// Unknown keys are rejected; toggles on fixed columns are ignored.
func (s ColumnSet) ApplyOverrides(overrides map[string]bool) (ColumnSet, error) {
	out := make(ColumnSet, len(s)+len(overrides))
	for k, v := range s {
		out[k] = v
	}
	for k, on := range overrides {
		col, ok := lookupColumn(ColumnKey(k))
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, k)
		}
		if col.Fixed {
			continue
		}
		out[col.Key] = on
	}
	return out, nil
}

// Selected returns the enabled columns in canonical order.
func (s ColumnSet) Selected() []Column {
	out := make([]Column, 0, len(columns))
	for _, c := range columns {
		if c.Fixed || s[c.Key] {
			out = append(out, c)
		}
	}
	return out
}

func lookupColumn(key ColumnKey) (Column, bool) {
	for _, c := range columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column{}, false
}

// Table is the projected dataset every renderer draws from.
type Table struct {
	Keys    []ColumnKey `json:"keys"`
	Headers []string    `json:"headers"`
	Rows    [][]string  `json:"rows"`
}

// Project renders learners into rows for the enabled columns, preserving
// the order of learners.
func Project(learners []model.Learner, set ColumnSet) Table {
	selected := set.Selected()

	t := Table{
		Keys:    make([]ColumnKey, len(selected)),
		Headers: make([]string, len(selected)),
		Rows:    make([][]string, len(learners)),
	}
	for i, c := range selected {
		t.Keys[i] = c.Key
		t.Headers[i] = c.Header
	}
	for i := range learners {
		row := make([]string, len(selected))
		for j, c := range selected {
			row[j] = c.Value(i, &learners[i])
		}
		t.Rows[i] = row
	}
	return t
}

// Column returns the values of the column with key, or nil if it is not part of the table.
func (t Table) Column(key ColumnKey) []string {
	idx := -1
	for i, k := range t.Keys {
		if k == key {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil
	}
	out := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		out[i] = row[idx]
	}
	return out
}
