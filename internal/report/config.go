package report

import (
	"fmt"

	"github.com/google/uuid"
)

// Format selects the renderer.
type Format string

const (
	FormatPDF   Format = "pdf"
	FormatExcel Format = "excel"
)

// SortKey selects the ordering of report rows.
type SortKey string

const (
	SortByName       SortKey = "name"
	SortByClass      SortKey = "class"
	SortByPickupArea SortKey = "pickup_area"
	SortByTrip       SortKey = "trip"
)

// Config captures one report request. It is built per request and never shared.
type Config struct {
	RouteID         uuid.UUID
	Format          Format
	SortBy          SortKey
	Trip            *int
	PickupArea      string
	Class           string
	IncludeInactive bool
	Columns         ColumnSet
}

// NewConfig returns a Config for routeID with the default format, sort order
// and column selection.
func NewConfig(routeID uuid.UUID) Config {
	return Config{
		RouteID: routeID,
		Format:  FormatPDF,
		SortBy:  SortByName,
		Columns: DefaultColumns(),
	}
}

// ParseFormat maps a request value to a Format. Empty selects PDF.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatPDF:
		return FormatPDF, nil
	case FormatExcel:
		return FormatExcel, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// ParseSortKey maps a request value to a SortKey. Empty sorts by name.
func ParseSortKey(s string) (SortKey, error) {
	switch SortKey(s) {
	case "", SortByName:
		return SortByName, nil
	case SortByClass, SortByPickupArea, SortByTrip:
		return SortKey(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSort, s)
}

// Validate checks the preconditions shared by preview and generation.
func (c Config) Validate() error {
	if c.RouteID == uuid.Nil {
		return ErrRouteRequired
	}
	if _, err := ParseFormat(string(c.Format)); err != nil {
		return err
	}
	if _, err := ParseSortKey(string(c.SortBy)); err != nil {
		return err
	}
	return nil
}

// Extension returns the file extension for the format.
func (f Format) Extension() string {
	if f == FormatExcel {
		return ".xlsx"
	}
	return ".pdf"
}

// ContentType returns the MIME type for the format.
func (f Format) ContentType() string {
	if f == FormatExcel {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "application/pdf"
}
