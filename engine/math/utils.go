package math

import "golang.org/x/exp/constraints"

// Clamp returns the value `f` clamped to the range [low, high].
// It works for any numeric type (integers and floats).
func Clamp[T constraints.Ordered](f, low, high T) T {
	if f < low {
		return low
	}
	if f > high {
		return high
	}
	return f
}

// MinOf returns the smallest of the given values and false if there are none.
func MinOf[T constraints.Ordered](values ...T) (T, bool) {
	var m T
	if len(values) == 0 {
		return m, false
	}
	m = values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m, true
}
