package stats

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber reads a user-entered numeric string. Anything that is not a
// finite number counts as 0; inputs are validated before they are stored, so
// this only matters for documents written by older clients.
func ParseNumber(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// ValidNumber reports whether s is empty or a finite non-negative number.
func ValidNumber(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return true
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
