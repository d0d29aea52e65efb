package scene

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/camera"
	"github.com/Carmen-Shannon/pbr-go/engine/game_object"
	"github.com/Carmen-Shannon/pbr-go/engine/light"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// Scene manages a registry of GameObjects with a Camera and Renderer, an optional
// set of analytical lights, and the environment bind group shared by all objects.
// Render performs CPU frustum culling against each object's bounding sphere, writes
// the per-object frame uniforms, and records one draw call per visible object.
// Render records into an already-open frame; the caller brackets it with the
// renderer's BeginFrame and the post pass.
// Scenes can be hot-swapped via the Active flag to switch between different views.
// Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's name.
	//
	// Returns:
	//   - string: the name
	Name() string

	// SetName sets the scene's name.
	//
	// Parameters:
	//   - name: the new name
	SetName(name string)

	// Active returns whether the scene is active.
	//
	// Returns:
	//   - bool: true if active
	Active() bool

	// SetActive sets whether the scene is active. Render is a no-op on an
	// inactive scene.
	//
	// Parameters:
	//   - active: true to activate
	SetActive(active bool)

	// Camera returns the scene's camera.
	//
	// Returns:
	//   - camera.Camera: the camera
	Camera() camera.Camera

	// Renderer returns the scene's renderer.
	//
	// Returns:
	//   - renderer.Renderer: the renderer
	Renderer() renderer.Renderer

	// CullingDisabled returns whether frustum culling is disabled.
	//
	// Returns:
	//   - bool: true if culling is disabled
	CullingDisabled() bool

	// SetCullingDisabled sets whether frustum culling is disabled.
	//
	// Parameters:
	//   - disabled: true to disable culling
	SetCullingDisabled(disabled bool)

	// AddLight adds an analytical light to the scene.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight removes a previously added light. No-op if not present.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// Lights returns the scene's lights, including lights attached to enabled
	// objects.
	//
	// Returns:
	//   - []light.Light: the effective light list
	Lights() []light.Light

	// SetEnvironment sets the environment bind group provider holding the
	// prefiltered specular map, irradiance map, and BRDF LUT. Objects are not
	// drawn until an environment is set.
	//
	// Parameters:
	//   - provider: the environment bind group provider
	SetEnvironment(provider bind_group_provider.BindGroupProvider)

	// Add registers a GameObject and initializes its per-object frame uniform
	// bind group on the GPU.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove removes the object with the given ID. No-op if not present.
	//
	// Parameters:
	//   - id: the object ID
	Remove(id uint64)

	// Clear removes all objects.
	Clear()

	// Count returns the number of registered objects.
	//
	// Returns:
	//   - int: the object count
	Count() int

	// VisibleCount returns the number of objects drawn by the most recent Render.
	//
	// Returns:
	//   - int: the visible object count
	VisibleCount() int

	// Update advances the rotation of every enabled object.
	//
	// Parameters:
	//   - deltaTime: elapsed time in seconds
	Update(deltaTime float32)

	// Render culls, uploads frame uniforms, and records draw calls for all
	// visible objects into the current frame.
	//
	// Returns:
	//   - error: the first draw call error, or nil
	Render() error
}

type scene struct {
	mu sync.RWMutex

	name            string
	active          bool
	cullingDisabled bool

	cam camera.Camera
	r   renderer.Renderer

	pipelineKey     string
	frameDescriptor wgpu.BindGroupLayoutDescriptor

	objects        map[uint64]game_object.GameObject
	order          []uint64
	lights         []light.Light
	pendingObjects []game_object.GameObject

	environment bind_group_provider.BindGroupProvider

	visibleCount int
}

var _ Scene = (*scene)(nil)

// NewScene creates a new Scene with the given camera, renderer, and the vertex and
// fragment shaders of the lit pipeline. All four are required and NewScene panics
// if any of them is nil. The shaders' group 0 layouts are merged to produce the
// per-object frame uniform layout, matching the visibility merge the render
// pipeline performs.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to attach (must not be nil)
//   - r: the renderer to attach (must not be nil)
//   - vertexShader: the lit pipeline's vertex shader (must not be nil)
//   - fragmentShader: the lit pipeline's fragment shader (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, r renderer.Renderer, vertexShader, fragmentShader shader.Shader, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: camera must not be nil")
	}
	if r == nil {
		panic("scene: renderer must not be nil")
	}
	if vertexShader == nil || fragmentShader == nil {
		panic("scene: vertex and fragment shaders must not be nil")
	}

	s := &scene{
		name:        name,
		active:      true,
		cam:         cam,
		r:           r,
		pipelineKey: "pbr",
		objects:     make(map[uint64]game_object.GameObject),
	}

	merged := renderer.MergeBindGroupLayouts(
		vertexShader.BindGroupLayoutDescriptors(),
		fragmentShader.BindGroupLayoutDescriptors(),
	)
	s.frameDescriptor = merged[0]

	for _, opt := range options {
		opt(s)
	}
	for _, obj := range s.pendingObjects {
		s.Add(obj)
	}
	s.pendingObjects = nil

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) Renderer() renderer.Renderer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.r
}

func (s *scene) CullingDisabled() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cullingDisabled
}

func (s *scene) SetCullingDisabled(disabled bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cullingDisabled = disabled
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lights = append(s.lights, l)
}

func (s *scene) RemoveLight(l light.Light) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, existing := range s.lights {
		if existing == l {
			s.lights = append(s.lights[:i], s.lights[i+1:]...)
			return
		}
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.effectiveLightsLocked()
}

// effectiveLightsLocked merges scene lights with lights attached to enabled objects.
// Caller must hold at least the read lock.
func (s *scene) effectiveLightsLocked() []light.Light {
	lights := make([]light.Light, 0, len(s.lights))
	lights = append(lights, s.lights...)
	for _, id := range s.order {
		obj := s.objects[id]
		if obj == nil || !obj.Enabled() {
			continue
		}
		if l := obj.Light(); l != nil {
			lights = append(lights, l)
		}
	}
	return lights
}

func (s *scene) SetEnvironment(provider bind_group_provider.BindGroupProvider) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.environment = provider
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	if obj == nil {
		return 0
	}

	if obj.FrameProvider() == nil {
		provider := bind_group_provider.NewBindGroupProvider(fmt.Sprintf("%s_object_%d", s.Name(), obj.ID()))
		if err := s.r.InitBindGroup(provider, s.frameDescriptor, nil); err != nil {
			panic(fmt.Sprintf("scene: failed to init frame uniforms for object %d: %v", obj.ID(), err))
		}
		obj.SetFrameProvider(provider)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[obj.ID()]; !exists {
		s.order = append(s.order, obj.ID())
	}
	s.objects[obj.ID()] = obj
	return obj.ID()
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.objects[id]
}

func (s *scene) Remove(id uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.objects[id]; !exists {
		return
	}
	delete(s.objects, id)
	for i, oid := range s.order {
		if oid == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects = make(map[uint64]game_object.GameObject)
	s.order = nil
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) VisibleCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.visibleCount
}

func (s *scene) Update(deltaTime float32) {
	s.mu.RLock()
	objects := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		objects = append(objects, s.objects[id])
	}
	s.mu.RUnlock()

	for _, obj := range objects {
		if obj.Enabled() {
			obj.Advance(deltaTime)
		}
	}
}

func (s *scene) Render() error {
	s.mu.RLock()
	if !s.active || s.environment == nil {
		s.mu.RUnlock()
		return nil
	}
	env := s.environment
	cullingDisabled := s.cullingDisabled
	pipelineKey := s.pipelineKey
	lights := s.effectiveLightsLocked()
	objects := make([]game_object.GameObject, 0, len(s.order))
	for _, id := range s.order {
		objects = append(objects, s.objects[id])
	}
	s.mu.RUnlock()

	viewProjection := s.cam.ViewProjectionMatrix()
	skyViewProjection := s.cam.SkyViewProjectionMatrix()
	frustum := common.ExtractFrustumFromMatrix(viewProjection[:])

	var eyeX, eyeY, eyeZ float32
	if ctrl := s.cam.Controller(); ctrl != nil {
		eyeX, eyeY, eyeZ = ctrl.Position()
	}
	shading := light.BuildShadingUniforms(lights, eyeX, eyeY, eyeZ)
	shadingBytes := shading.Marshal()

	visible := objects[:0]
	var writes []bind_group_provider.BufferWrite
	for _, obj := range objects {
		if obj == nil || !obj.Enabled() || obj.Model() == nil || obj.FrameProvider() == nil {
			continue
		}
		if !cullingDisabled {
			x, y, z := obj.Position()
			if !frustum.ContainsSphere(x, y, z, obj.BoundingRadius()) {
				continue
			}
		}

		transform := camera.GPUTransformUniforms{
			ViewProjection:    viewProjection,
			SkyViewProjection: skyViewProjection,
			SceneRotation:     obj.ModelMatrix(),
		}
		writes = append(writes,
			bind_group_provider.BufferWrite{Provider: obj.FrameProvider(), Binding: 0, Data: transform.Marshal()},
			bind_group_provider.BufferWrite{Provider: obj.FrameProvider(), Binding: 1, Data: shadingBytes},
		)
		visible = append(visible, obj)
	}

	if len(writes) > 0 {
		s.r.WriteBuffers(writes)
	}

	drawn := 0
	for _, obj := range visible {
		mdl := obj.Model()
		mats := mdl.Materials()
		if len(mats) == 0 || mats[0].BindGroupProvider() == nil {
			continue
		}
		if err := s.r.DrawCall(pipelineKey, mdl.MeshProvider(), []bind_group_provider.BindGroupProvider{
			obj.FrameProvider(),
			mats[0].BindGroupProvider(),
			env,
		}); err != nil {
			s.mu.Lock()
			s.visibleCount = drawn
			s.mu.Unlock()
			return fmt.Errorf("failed to draw object %d: %w", obj.ID(), err)
		}
		drawn++
	}

	s.mu.Lock()
	s.visibleCount = drawn
	s.mu.Unlock()
	return nil
}
