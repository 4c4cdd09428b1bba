package utils

import (
	"math"
	"strconv"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Display formatting for KPI cards and tables. Numbers are grouped with
// English separators (1,234,567) to match the dashboard's published figures.

var printer = message.NewPrinter(language.English)

// FormatThousands renders v rounded to an integer with thousands separators.
// NaN renders as "N/A".
func FormatThousands(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return printer.Sprintf("%.0f", v)
}

// FormatPercent renders v with one decimal and a percent sign.
func FormatPercent(v float64) string {
	if math.IsNaN(v) {
		return "N/A"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// FormatCell renders a table cell: empty for NaN, otherwise the shortest
// representation rounded to the given number of decimals.
func FormatCell(v float64, decimals int) string {
	if math.IsNaN(v) {
		return ""
	}
	s := strconv.FormatFloat(v, 'f', decimals, 64)
	if decimals > 0 {
		for len(s) > 0 && s[len(s)-1] == '0' {
			s = s[:len(s)-1]
		}
		if len(s) > 0 && s[len(s)-1] == '.' {
			s = s[:len(s)-1]
		}
	}
	if s == "-0" {
		s = "0"
	}
	return s
}

// TruncateLabel shortens a label to at most limit runes, appending an
// ellipsis when it was cut.
func TruncateLabel(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit == 1 {
		return "…"
	}
	return string(runes[:limit-1]) + "…"
}
