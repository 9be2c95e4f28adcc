package report

import (
	"strings"
	"testing"
	"time"
)

func TestFilename(t *testing.T) {
	now := time.Date(2026, time.March, 7, 9, 30, 0, 0, time.UTC)

	tests := []struct {
		format Format
		route  string
		want   string
	}{
		{FormatPDF, "Route A", "Route_A_Route_Report_07-Mar-2026.pdf"},
		{FormatExcel, "Route A", "Route_A_Transport_List_07-03-2026.xlsx"},
		{FormatPDF, "Karen / Langata\\Express", "Karen_Langata_Express_Route_Report_07-Mar-2026.pdf"},
		{FormatExcel, "  ", "Route_Transport_List_07-03-2026.xlsx"},
	}
	for _, tt := range tests {
		if got := Filename(tt.format, tt.route, now); got != tt.want {
			t.Errorf("Filename(%s, %q) = %q, want %q", tt.format, tt.route, got, tt.want)
		}
	}
}

func TestSanitizeFilenamePart(t *testing.T) {
	tests := map[string]string{
		"Westlands  Morning":  "Westlands_Morning",
		"Route\x00\x07Nine":   "Route_Nine",
		"../etc/passwd":       "etc_passwd",
		"Ruaka-2.Evening":     "Ruaka-2.Evening",
		"Kitengela Ölmäki":    "Kitengela_lm_ki",
		"":                    "Route",
		strings.Repeat("x", 200): strings.Repeat("x", maxFilenamePart),
	}
	for in, want := range tests {
		if got := SanitizeFilenamePart(in); got != want {
			t.Errorf("SanitizeFilenamePart(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSheetName(t *testing.T) {
	tests := map[string]string{
		"Route A":                 "Route A",
		"Karen/Langata [AM]":      "KarenLangata AM",
		"'quoted'":                "quoted",
		"history":                 "history_",
		"???":                     "Learners",
		strings.Repeat("ab", 20): strings.Repeat("ab", 15) + "a",
	}
	for in, want := range tests {
		if got := SheetName(in); got != want {
			t.Errorf("SheetName(%q) = %q, want %q", in, got, want)
		}
	}
}
