package dataset

import (
	"math"
	"strconv"
	"strings"
)

// parseNumeric accepts plain, percent-suffixed and locale-formatted numbers
// ("1,234.5", "1.234,5", "12 345"). The decimal separator is whichever of
// ',' or '.' appears last; the other is treated as a thousands separator.
// Repeated dots with no comma ("1.234.567") are thousands separators.
func parseNumeric(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	raw = strings.TrimSpace(raw)

	dec := '.'
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0 && cpos > dpos:
		dec = ','
	case cpos >= 0 && dpos < 0 && strings.Count(raw, ",") == 1 && len(raw)-cpos-1 != 3:
		// "0,5" is a decimal comma; "1,000" stays a thousands separator.
		dec = ','
	case cpos < 0 && strings.Count(raw, ".") > 1:
		dec = ','
	}
	for _, sep := range []rune{',', '.', ' '} {
		if sep != dec {
			raw = strings.ReplaceAll(raw, string(sep), "")
		}
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
