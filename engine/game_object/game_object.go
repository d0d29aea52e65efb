package game_object

import (
	"sync"
	"sync/atomic"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/light"
	"github.com/Carmen-Shannon/pbr-go/engine/model"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
)

type gameObject struct {
	mu      sync.RWMutex
	id      uint64
	enabled atomic.Bool

	mdl           model.Model
	attachedLight light.Light

	// per-object frame uniforms (transform + shading), initialized by the Scene
	frameProvider bind_group_provider.BindGroupProvider

	position      [3]float32
	rotation      [3]float32
	scale         [3]float32
	rotationSpeed [3]float32
}

// GameObject is a placed instance of a Model in a Scene. Multiple objects may share
// one Model; each object carries its own transform and its own frame uniform bind
// group so the instances render independently.
// Thread-safe for concurrent access.
type GameObject interface {
	// ID returns the object's unique identifier.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Enabled returns whether this object is enabled for rendering.
	//
	// Returns:
	//   - bool: true if enabled
	Enabled() bool

	// SetEnabled sets whether this object is enabled for rendering.
	//
	// Parameters:
	//   - enabled: true to enable
	SetEnabled(enabled bool)

	// Model returns the Model associated with this object, or nil if not set.
	//
	// Returns:
	//   - model.Model: the associated model or nil
	Model() model.Model

	// Light returns the light attached to this object, or nil.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	Light() light.Light

	// Position returns the object's world position.
	//
	// Returns:
	//   - x, y, z: the position components
	Position() (x, y, z float32)

	// SetPosition sets the object's world position.
	//
	// Parameters:
	//   - x, y, z: the position components
	SetPosition(x, y, z float32)

	// Rotation returns the object's Euler rotation in radians.
	//
	// Returns:
	//   - rx, ry, rz: the rotation components
	Rotation() (rx, ry, rz float32)

	// SetRotation sets the object's Euler rotation in radians.
	//
	// Parameters:
	//   - rx, ry, rz: the rotation components
	SetRotation(rx, ry, rz float32)

	// Scale returns the object's scale.
	//
	// Returns:
	//   - sx, sy, sz: the scale components
	Scale() (sx, sy, sz float32)

	// SetScale sets the object's scale.
	//
	// Parameters:
	//   - sx, sy, sz: the scale components
	SetScale(sx, sy, sz float32)

	// RotationSpeed returns the object's continuous rotation speed in radians per second.
	//
	// Returns:
	//   - rx, ry, rz: the rotation speed components
	RotationSpeed() (rx, ry, rz float32)

	// SetRotationSpeed sets the object's continuous rotation speed in radians per second.
	//
	// Parameters:
	//   - rx, ry, rz: the rotation speed components
	SetRotationSpeed(rx, ry, rz float32)

	// Advance applies the rotation speed over the given time step.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Advance(deltaTime float32)

	// ModelMatrix computes the object's model matrix from its transform.
	//
	// Returns:
	//   - [16]float32: the column-major model matrix
	ModelMatrix() [16]float32

	// BoundingRadius returns the model's bounding radius scaled by the largest
	// scale component, or 0 when no model is set.
	//
	// Returns:
	//   - float32: the world-space bounding radius
	BoundingRadius() float32

	// FrameProvider returns the per-object frame uniform provider, or nil before
	// the object is added to a Scene.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the frame uniform provider
	FrameProvider() bind_group_provider.BindGroupProvider

	// SetFrameProvider attaches the per-object frame uniform provider.
	//
	// Parameters:
	//   - provider: the frame uniform provider
	SetFrameProvider(provider bind_group_provider.BindGroupProvider)
}

var _ GameObject = (*gameObject)(nil)

var nextObjectID atomic.Uint64

// NewGameObject creates a new GameObject with a unique ID, enabled by default,
// positioned at the origin with unit scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	obj := &gameObject{
		id:    nextObjectID.Add(1),
		scale: [3]float32{1, 1, 1},
	}
	obj.enabled.Store(true)
	for _, opt := range options {
		opt(obj)
	}
	return obj
}

func (o *gameObject) ID() uint64 {
	return o.id
}

func (o *gameObject) Enabled() bool {
	return o.enabled.Load()
}

func (o *gameObject) SetEnabled(enabled bool) {
	o.enabled.Store(enabled)
}

func (o *gameObject) Model() model.Model {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.mdl
}

func (o *gameObject) Light() light.Light {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.attachedLight
}

func (o *gameObject) Position() (x, y, z float32) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.position[0], o.position[1], o.position[2]
}

func (o *gameObject) SetPosition(x, y, z float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.position = [3]float32{x, y, z}
}

func (o *gameObject) Rotation() (rx, ry, rz float32) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.rotation[0], o.rotation[1], o.rotation[2]
}

func (o *gameObject) SetRotation(rx, ry, rz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation = [3]float32{rx, ry, rz}
}

func (o *gameObject) Scale() (sx, sy, sz float32) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.scale[0], o.scale[1], o.scale[2]
}

func (o *gameObject) SetScale(sx, sy, sz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.scale = [3]float32{sx, sy, sz}
}

func (o *gameObject) RotationSpeed() (rx, ry, rz float32) {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.rotationSpeed[0], o.rotationSpeed[1], o.rotationSpeed[2]
}

func (o *gameObject) SetRotationSpeed(rx, ry, rz float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotationSpeed = [3]float32{rx, ry, rz}
}

func (o *gameObject) Advance(deltaTime float32) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.rotation[0] += o.rotationSpeed[0] * deltaTime
	o.rotation[1] += o.rotationSpeed[1] * deltaTime
	o.rotation[2] += o.rotationSpeed[2] * deltaTime
}

func (o *gameObject) ModelMatrix() [16]float32 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	var out [16]float32
	common.BuildModelMatrix(out[:],
		o.position[0], o.position[1], o.position[2],
		o.rotation[0], o.rotation[1], o.rotation[2],
		o.scale[0], o.scale[1], o.scale[2],
	)
	return out
}

func (o *gameObject) BoundingRadius() float32 {
	o.mu.RLock()
	defer o.mu.RUnlock()
	if o.mdl == nil {
		return 0
	}
	maxScale := o.scale[0]
	if o.scale[1] > maxScale {
		maxScale = o.scale[1]
	}
	if o.scale[2] > maxScale {
		maxScale = o.scale[2]
	}
	return o.mdl.BoundingRadius() * maxScale
}

func (o *gameObject) FrameProvider() bind_group_provider.BindGroupProvider {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.frameProvider
}

func (o *gameObject) SetFrameProvider(provider bind_group_provider.BindGroupProvider) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.frameProvider = provider
}
