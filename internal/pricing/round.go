package pricing

import "math"

// Round rounds half away from zero to a whole unit.
func Round(v float64) float64 {
	return math.Round(v)
}

// RoundTo rounds half away from zero to the given number of decimal places.
func RoundTo(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// markup applies a percentage on top of a base amount.
func markup(base, percent float64) float64 {
	return base * (1 + percent/100)
}
