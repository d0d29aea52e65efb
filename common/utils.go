package common

// Coalesce returns the first non-zero value, or the zero value when every
// argument is zero. Sampler staging data uses it to fill unset fields with
// defaults.
//
// Parameters:
//   - values: the candidate values in priority order
//
// Returns:
//   - T: the first non-zero value, or the zero value of T
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}
