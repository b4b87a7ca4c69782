package results

import (
	"math"
	"strconv"
	"strings"
)

// ParseCount coerces a vote-count cell to a number. Cells that do not
// parse (empty, sentinel text like "Combined") become NaN so they can be
// told apart from a genuine zero.
func ParseCount(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// DivisionID coerces a polling-division id cell to an integer key.
// Surrounding whitespace is stripped; unparsable or missing ids become 0.
// Id 0 therefore groups all unresolved rows together and callers should
// treat it as "unresolved" rather than a real division.
func DivisionID(s string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return int(v)
}
