package utils

import (
	"strconv"
	"strings"
)

// ParseNumber parses a string cell as a number using explicit handling for
// the formats tabular files carry. Thousands separators are tolerated;
// currency symbols are not.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	s = strings.ReplaceAll(s, ",", "")
	n, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// ParseBool parses the boolean spellings that show up in exports. Only
// unambiguous spellings count; "1"/"0" stay numeric.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y":
		return true, true
	case "false", "no", "n":
		return false, true
	default:
		return false, false
	}
}

// IsBlank reports whether a cell is empty or one of the conventional
// missing-value markers.
func IsBlank(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "null", "na", "n/a", "nan", "none":
		return true
	default:
		return false
	}
}
