package light

import "github.com/chewxy/math32"

// lightImpl is the implementation of the Light interface.
type lightImpl struct {
	direction [3]float32
	radiance  [3]float32
	enabled   bool
}

// Light defines the interface for an analytical directional light source.
//
// The viewer shades with a small fixed set of directional lights on top of the
// image-based environment contribution. Each light has a normalized direction
// (pointing from the surface toward the light) and an RGB radiance. Disabled
// lights keep their settings but contribute zero radiance when marshaled into
// the shading uniform buffer.
type Light interface {
	// Direction returns the normalized world-space direction of the light.
	//
	// Returns:
	//   - [3]float32: normalized direction as (x, y, z)
	Direction() [3]float32

	// Radiance returns the RGB radiance of the light.
	//
	// Returns:
	//   - [3]float32: radiance as (r, g, b)
	Radiance() [3]float32

	// Enabled returns whether this light contributes to shading.
	//
	// Returns:
	//   - bool: true if the light is enabled
	Enabled() bool

	// SetDirection sets the direction of the light and normalizes it.
	//
	// Parameters:
	//   - x, y, z: direction components (will be normalized)
	SetDirection(x, y, z float32)

	// SetRadiance sets the RGB radiance of the light.
	//
	// Parameters:
	//   - r, g, b: radiance components
	SetRadiance(r, g, b float32)

	// SetEnabled enables or disables the light for shading.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)
}

var _ Light = &lightImpl{}

// NewLight creates a new directional Light with sensible defaults and any
// provided options applied.
//
// Parameters:
//   - opts: variadic list of LightBuilderOption functions to configure the light
//
// Returns:
//   - Light: a new Light instance
func NewLight(opts ...LightBuilderOption) Light {
	l := &lightImpl{
		direction: [3]float32{0, -1, 0},
		radiance:  [3]float32{1, 1, 1},
		enabled:   true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *lightImpl) Direction() [3]float32 {
	return l.direction
}

func (l *lightImpl) Radiance() [3]float32 {
	return l.radiance
}

func (l *lightImpl) Enabled() bool {
	return l.enabled
}

func (l *lightImpl) SetDirection(x, y, z float32) {
	l.direction = normalize3(x, y, z)
}

func (l *lightImpl) SetRadiance(r, g, b float32) {
	l.radiance = [3]float32{r, g, b}
}

func (l *lightImpl) SetEnabled(enabled bool) {
	l.enabled = enabled
}

// normalize3 returns the normalized form of the given vector.
// Degenerate (near-zero) vectors are returned unchanged.
func normalize3(x, y, z float32) [3]float32 {
	length := math32.Sqrt(x*x + y*y + z*z)
	if length < 1e-8 {
		return [3]float32{x, y, z}
	}
	return [3]float32{x / length, y / length, z / length}
}
