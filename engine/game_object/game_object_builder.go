package game_object

import (
	"github.com/Carmen-Shannon/pbr-go/engine/light"
	"github.com/Carmen-Shannon/pbr-go/engine/model"
)

// GameObjectBuilderOption configures a GameObject during construction.
type GameObjectBuilderOption func(*gameObject)

// WithEnabled is an option builder that sets whether the object is enabled for rendering.
//
// Parameters:
//   - enabled: true to enable
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithEnabled(enabled bool) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.enabled.Store(enabled)
	}
}

// WithModel is an option builder that sets the Model rendered by this object.
//
// Parameters:
//   - m: the model
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithModel(m model.Model) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.mdl = m
	}
}

// WithPosition is an option builder that sets the object's world position.
//
// Parameters:
//   - x, y, z: the position components
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithPosition(x, y, z float32) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.position = [3]float32{x, y, z}
	}
}

// WithScale is an option builder that sets the object's scale.
//
// Parameters:
//   - sx, sy, sz: the scale components
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithScale(sx, sy, sz float32) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.scale = [3]float32{sx, sy, sz}
	}
}

// WithRotation is an option builder that sets the object's Euler rotation in radians.
//
// Parameters:
//   - rx, ry, rz: the rotation components
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithRotation(rx, ry, rz float32) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.rotation = [3]float32{rx, ry, rz}
	}
}

// WithRotationSpeed is an option builder that sets a continuous rotation in radians
// per second, applied by Advance.
//
// Parameters:
//   - rx, ry, rz: the rotation speed components
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithRotationSpeed(rx, ry, rz float32) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.rotationSpeed = [3]float32{rx, ry, rz}
	}
}

// WithLight is an option builder that attaches a light to the object. The Scene
// includes attached lights of enabled objects in its shading uniforms.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - GameObjectBuilderOption: the option
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(o *gameObject) {
		o.attachedLight = l
	}
}
