package parse

import (
	"regexp"
	"strconv"
	"strings"
)

var numericRe = regexp.MustCompile(`[^0-9.]`)

// Numeric extracts the numeric magnitude from a decorated string such as
// "1,500.250" or "50m²". Thousands separators and unit suffixes are stripped
// before parsing. Unparsable input yields 0: a malformed price or size must
// never exclude a record from processing, only from meaningful comparisons.
func Numeric(raw string) float64 {
	s := numericRe.ReplaceAllString(strings.TrimSpace(raw), "")
	if s == "" {
		return 0
	}

	// Stripping separators can leave more than one dot ("1.500,25" style
	// input). Keep only the first dot so the mantissa survives.
	if first := strings.Index(s, "."); first != -1 {
		s = s[:first+1] + strings.ReplaceAll(s[first+1:], ".", "")
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}

// PositiveInt parses a selector value that is either a positive integer or a
// sentinel meaning "no constraint" ("all" or empty). The boolean reports
// whether a usable integer was present.
func PositiveInt(raw string) (int, bool) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" || s == "all" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
