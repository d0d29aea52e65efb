package light

// LightBuilderOption is a function that configures a light instance during construction.
type LightBuilderOption func(*lightImpl)

// WithDirection is an option builder that sets the light direction.
// The direction is normalized on assignment.
//
// Parameters:
//   - x, y, z: direction components
//
// Returns:
//   - LightBuilderOption: a function that applies the direction option to a light
func WithDirection(x, y, z float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.direction = normalize3(x, y, z)
	}
}

// WithRadiance is an option builder that sets the RGB radiance of the light.
//
// Parameters:
//   - r, g, b: radiance components
//
// Returns:
//   - LightBuilderOption: a function that applies the radiance option to a light
func WithRadiance(r, g, b float32) LightBuilderOption {
	return func(l *lightImpl) {
		l.radiance = [3]float32{r, g, b}
	}
}

// WithEnabled is an option builder that sets whether the light contributes to shading.
//
// Parameters:
//   - enabled: true to enable the light
//
// Returns:
//   - LightBuilderOption: a function that applies the enabled option to a light
func WithEnabled(enabled bool) LightBuilderOption {
	return func(l *lightImpl) {
		l.enabled = enabled
	}
}
