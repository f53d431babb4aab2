package bexio

import (
	"math"
	"strconv"
	"strings"
)

// MapUnitName converts a locally captured measurement unit to the unit name
// Bexio accepts. Unknown or empty units fall back to "Stk".
func MapUnitName(dbUnit string) string {
	switch strings.ToLower(dbUnit) {
	case "m2", "m²":
		return "m2"
	case "lfm":
		return "m"
	case "stk":
		return "Stk"
	case "pauschal":
		return "Stk"
	default:
		return "Stk"
	}
}

// ToNumber converts a numeric or string value to a float64. String input is
// stripped of whitespace and a decimal comma is normalized to a dot. Any
// non-finite or unparseable result yields 0; ToNumber never fails.
func ToNumber(value any) float64 {
	switch v := value.(type) {
	case float64:
		return finiteOrZero(v)
	case float32:
		return finiteOrZero(float64(v))
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case string:
		cleaned := strings.ReplaceAll(v, ",", ".")
		cleaned = strings.Join(strings.Fields(cleaned), "")
		num, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return 0
		}
		return finiteOrZero(num)
	default:
		return 0
	}
}

func finiteOrZero(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
