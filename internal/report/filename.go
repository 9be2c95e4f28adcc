package report

import (
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

const (
	maxFilenamePart = 80
	// Excel rejects worksheet names longer than 31 characters.
	maxSheetName = 31
)

// Filename returns the download name for a report on routeName generated at now.
func Filename(format Format, routeName string, now time.Time) string {
	base := SanitizeFilenamePart(routeName)
	if format == FormatExcel {
		return base + "_Transport_List_" + now.Format("02-01-2006") + format.Extension()
	}
	return base + "_Route_Report_" + now.Format("02-Jan-2006") + format.Extension()
}

// SanitizeFilenamePart turns a route name into a portable filename stem.
// Whitespace runs become one underscore, anything outside ASCII letters,
// digits, dot, dash and underscore becomes an underscore, and repeated
// underscores collapse.
func SanitizeFilenamePart(s string) string {
	var b strings.Builder
	lastUnderscore := false
	for _, r := range s {
		switch {
		case r < utf8.RuneSelf && (unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-' || r == '.'):
			b.WriteRune(r)
			lastUnderscore = false
		default:
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
		}
	}

	out := strings.Trim(b.String(), "_.")
	if len(out) > maxFilenamePart {
		out = strings.TrimRight(out[:maxFilenamePart], "_.")
	}
	if out == "" {
		return "Route"
	}
	return out
}

// SheetName makes a route name acceptable as an Excel worksheet name.
func SheetName(s string) string {
	var b strings.Builder
	for _, r := range s {
		if unicode.IsControl(r) || strings.ContainsRune(`[]:*?/\`, r) {
			continue
		}
		b.WriteRune(r)
	}

	out := strings.Trim(strings.TrimSpace(b.String()), "'")
	if utf8.RuneCountInString(out) > maxSheetName {
		out = string([]rune(out)[:maxSheetName])
		out = strings.TrimRight(out, " '")
	}
	switch {
	case out == "":
		return "Learners"
	case strings.EqualFold(out, "History"):
		// Reserved by Excel.
		return out + "_"
	}
	return out
}
