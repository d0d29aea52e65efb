package renderer

import (
	"fmt"
	"sync"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pbr-go/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	pipelineCache map[string]pipeline.Pipeline

	backendType RendererBackendType
	backend     RendererBackend

	// Pre-creation config collected from builder options
	forceFallbackAdapter bool
	pendingPresentMode   *PresentMode
	pendingMSAA          *MSAASampleCount
}

// Renderer defines the interface for the rendering system.
//
// This is a high-level API designed to simplify rendering tasks into a streamlined and idiomatic flow.
// The Renderer manages a cache of pipelines, allowing for easy retrieval and management of these resources.
// The Renderer also implements a backend which allows for multiple backend API implementations to exist.
//
// A frame renders in two passes: BeginFrame opens the scene pass on an offscreen HDR color target,
// DrawCall records lit geometry into it, BeginPostPass resolves to the swapchain pass, and
// DrawFullscreen records the tone mapping draw. Outside the frame loop, the Begin/ExecuteImmediate
// family runs one-time compute work (environment map filtering, mipmap generation) synchronously.
type Renderer interface {
	// Pipeline retrieves the cached Pipeline associated with the given key.
	// If the Pipeline does not exist, this will return nil.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to retrieve
	//
	// Returns:
	//   - pipeline.Pipeline: the Pipeline associated with the key, or nil if not found
	Pipeline(key string) pipeline.Pipeline

	// Pipelines retrieves the entire cache of Pipelines.
	//
	// Returns:
	//   - map[string]pipeline.Pipeline: a map of pipeline keys to their corresponding Pipeline objects
	Pipelines() map[string]pipeline.Pipeline

	// RegisterPipelines registers one or more pipelines by creating the corresponding GPU
	// pipeline objects (render or compute) via the backend, then caching them by PipelineKey.
	// Pipelines whose keys are already registered are skipped to avoid duplicate GPU resource creation.
	//
	// Parameters:
	//   - pipelines: the Pipelines to register
	//
	// Returns:
	//   - error: an error if pipeline creation fails
	RegisterPipelines(pipelines ...pipeline.Pipeline) error

	// SetPipeline adds or updates a Pipeline in the cache with the given key.
	//
	// Parameters:
	//   - key: the unique identifier for the Pipeline to add or update in the cache
	//   - p: the Pipeline to add or update in the cache
	SetPipeline(key string, p pipeline.Pipeline)

	// Resize configures the underlying backend to handle a new surface size.
	// This should be called when re-sizing the window or when the surface size should change.
	// The offscreen scene targets are rebuilt, so any bind group sampling the
	// scene color view must be recreated afterwards.
	//
	// Parameters:
	//   - width: the new width of the surface in pixels
	//   - height: the new height of the surface in pixels
	Resize(width, height int)

	// InitMeshBuffers creates GPU vertex and index buffers from raw byte data and stores them
	// on the given BindGroupProvider for later use in draw calls.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created buffers on
	//   - vertexData: the raw vertex data bytes to upload to the GPU
	//   - indexData: the raw index data bytes to upload to the GPU
	//   - indexCount: the number of indices, used for draw calls
	//
	// Returns:
	//   - error: an error if buffer creation fails
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates GPU buffers and a bind group from a layout descriptor and stores them
	// on the given BindGroupProvider. Textures and samplers must be stored on the provider before
	// calling this method. Buffer sizes can be overridden per binding.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created bind group on
	//   - descriptor: the layout descriptor defining the bind group entries
	//   - bufferSizeOverrides: custom buffer sizes to use instead of MinBindingSize, keyed by binding index (nil safe)
	//
	// Returns:
	//   - error: an error if bind group creation fails
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitSampler creates a GPU sampler from staging data and stores it on the given BindGroupProvider
	// at the specified binding index. Must be called before InitBindGroup for any sampler bindings.
	//
	// Parameters:
	//   - provider: the BindGroupProvider to store the created sampler on
	//   - bindingKey: the binding index for this sampler
	//   - samplerStagingData: the sampler configuration
	//
	// Returns:
	//   - error: an error if sampler creation fails
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers writes all staged buffer writes to the GPU queue.
	// Each BufferWrite targets a specific buffer on a BindGroupProvider at a given binding and offset.
	//
	// Parameters:
	//   - writes: a slice of BufferWrite structs describing the data to write
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CreateTexture creates an empty GPU texture with the given dimensions, mip chain and usage,
	// wrapped together with its default sampled view. Cubemaps use six array layers.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - width: the width of the base mip in pixels
	//   - height: the height of the base mip in pixels
	//   - layers: the array layer count (6 for cubemaps)
	//   - mipLevels: the number of mip levels to allocate
	//   - format: the texel format
	//   - usage: the texture usage flags
	//
	// Returns:
	//   - *Texture: the created texture
	//   - error: an error if texture creation fails
	CreateTexture(label string, width, height, layers, mipLevels uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Texture, error)

	// CreateTextureFromPixels uploads a float32 RGBA pixel buffer into a new sampled rgba32float
	// 2D texture. Used for decoded high dynamic range environment images.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - pixels: the pixel buffer to upload
	//
	// Returns:
	//   - *Texture: the created texture
	//   - error: an error if creation fails
	CreateTextureFromPixels(label string, pixels *common.PixelBuffer) (*Texture, error)

	// CreateTextureFromStaging uploads 8-bit RGBA staging data into the base mip of a new
	// storage-writable texture with the given mip chain. Mip levels above the base are left
	// to be generated by compute passes.
	//
	// Parameters:
	//   - label: a debug label for the texture
	//   - stagingData: the decoded pixel data and dimensions
	//   - mipLevels: the number of mip levels to allocate
	//
	// Returns:
	//   - *Texture: the created texture
	//   - error: an error if creation fails
	CreateTextureFromStaging(label string, stagingData common.TextureStagingData, mipLevels uint32) (*Texture, error)

	// CreateUniformBuffer creates a uniform buffer initialized with the given data.
	//
	// Parameters:
	//   - label: a debug label for the buffer
	//   - data: the initial contents, which also set the buffer size
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: an error if buffer creation fails
	CreateUniformBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// CreateBindGroup creates a bind group against group 0 of a registered pipeline's layout.
	// Used for ad-hoc bind groups (filter passes, tone mapping) that are not tied to a provider.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached Pipeline to bind against
	//   - label: a debug label for the bind group
	//   - entries: the resource bindings in layout order
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: an error if the pipeline is not found or creation fails
	CreateBindGroup(pipelineKey, label string, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error)

	// BeginImmediate opens a command encoder for compute and copy work outside the frame loop.
	// Must be paired with ExecuteImmediate.
	//
	// Returns:
	//   - error: an error if an immediate encoder is already open
	BeginImmediate() error

	// DispatchImmediate encodes a compute dispatch on the immediate encoder. Each dispatch runs
	// in its own compute pass so dependent dispatches see each other's writes.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached compute Pipeline to use
	//   - bindGroup: the resources for bind group 0
	//   - workGroupCount: the number of workgroups to dispatch in the x, y, and z dimensions
	//
	// Returns:
	//   - error: an error if the pipeline is not found or no immediate encoder is open
	DispatchImmediate(pipelineKey string, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error

	// CopyTextureLevel encodes a full-size copy of one mip level between two textures on the
	// immediate encoder.
	//
	// Parameters:
	//   - src: the source texture
	//   - dst: the destination texture
	//   - srcLevel: the source mip level
	//   - dstLevel: the destination mip level
	//
	// Returns:
	//   - error: an error if no immediate encoder is open
	CopyTextureLevel(src, dst *Texture, srcLevel, dstLevel uint32) error

	// ExecuteImmediate submits the immediate encoder and blocks until the GPU has finished
	// the work, so the caller can safely release intermediate resources afterwards.
	//
	// Returns:
	//   - error: an error if no immediate encoder is open or submission fails
	ExecuteImmediate() error

	// BeginFrame acquires the swapchain texture and begins the scene pass on the offscreen
	// HDR target. Must be paired with EndFrame after all draw calls within a single frame.
	//
	// Returns:
	//   - error: an error if the swapchain texture could not be acquired
	BeginFrame() error

	// DrawCall encodes a single indexed draw command within the current scene pass.
	// Multiple DrawCall invocations can be made between BeginFrame and BeginPostPass.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - meshProvider: the BindGroupProvider holding vertex and index buffers
	//   - bindGroups: a slice of BindGroupProviders whose BindGroups will be set on the render pass
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error

	// BeginPostPass ends the scene pass and begins the swapchain pass for post processing.
	// Must be called between BeginFrame and EndFrame.
	//
	// Returns:
	//   - error: an error if no frame is in progress
	BeginPostPass() error

	// DrawFullscreen encodes a fullscreen-triangle draw within the current post pass. No
	// vertex buffers are bound; the vertex shader derives positions from the vertex index.
	//
	// Parameters:
	//   - pipelineKey: the unique identifier for the cached render Pipeline to use
	//   - bindGroup: the resources for bind group 0
	//
	// Returns:
	//   - error: an error if the pipeline is not found
	DrawFullscreen(pipelineKey string, bindGroup *wgpu.BindGroup) error

	// EndFrame ends the current render pass and submits the command buffer to the GPU.
	// Does not present the surface; call Present() after EndFrame to display the frame.
	EndFrame()

	// Present presents the surface to the display and releases the swapchain texture.
	// Must be called once per frame after EndFrame.
	Present()

	// SceneColorView returns the resolved HDR scene color view sampled by the tone mapping
	// pass. The view changes whenever Resize runs, so dependent bind groups must be rebuilt.
	//
	// Returns:
	//   - *wgpu.TextureView: the resolved scene color view
	SceneColorView() *wgpu.TextureView

	// Device returns the underlying WebGPU device for advanced use.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// SetPresentMode sets the surface present mode which controls how frames are delivered to the display.
	// A call to Resize is required after changing this for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the PresentMode to use (VSync or Uncapped)
	SetPresentMode(mode PresentMode)

	// Release destroys the GPU state owned by the renderer.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer instance with the specified backend type and window.
//
// Parameters:
//   - backendType: the type of rendering backend to use (e.g., WGPU)
//   - window: the window whose surface the renderer draws into
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new instance of Renderer configured with the specified backend and options
func NewRenderer(backendType RendererBackendType, window window.Window, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:            &sync.Mutex{},
		pipelineCache: make(map[string]pipeline.Pipeline),
		backendType:   backendType,
	}

	// Apply options first so config flags (e.g. forceFallbackAdapter) are
	// available before the backend requests a GPU adapter.
	for _, opt := range options {
		opt(r)
	}

	msaa := MSAA4x // default
	if r.pendingMSAA != nil {
		msaa = *r.pendingMSAA
	}

	switch backendType {
	case BackendTypeWGPU:
		fallthrough
	default:
		r.backend = newWGPURendererBackend(window.SurfaceDescriptor(), r.forceFallbackAdapter, msaa)
	}

	if r.pendingPresentMode != nil {
		r.backend.SetPresentMode(*r.pendingPresentMode)
	}

	r.backend.ConfigureSurface(window.Width(), window.Height())
	return r
}

func (r *renderer) Resize(width, height int) {
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) SetPresentMode(mode PresentMode) {
	r.backend.SetPresentMode(mode)
}

func (r *renderer) Pipeline(key string) pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache[key]
}

func (r *renderer) Pipelines() map[string]pipeline.Pipeline {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pipelineCache
}

func (r *renderer) RegisterPipelines(pipelines ...pipeline.Pipeline) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range pipelines {
		key := p.PipelineKey()
		if _, exists := r.pipelineCache[key]; exists {
			continue
		}
		switch p.Type() {
		case pipeline.PipelineTypeCompute:
			if err := r.backend.RegisterComputePipeline(p); err != nil {
				return err
			}
		case pipeline.PipelineTypeRender:
			if err := r.backend.RegisterRenderPipeline(p); err != nil {
				return err
			}
		}
		r.pipelineCache[key] = p
	}
	return nil
}

func (r *renderer) SetPipeline(key string, p pipeline.Pipeline) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pipelineCache[key] = p
}

func (r *renderer) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	return r.backend.InitMeshBuffers(provider, vertexData, indexData, indexCount)
}

func (r *renderer) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	return r.backend.InitBindGroup(provider, descriptor, bufferSizeOverrides)
}

func (r *renderer) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	return r.backend.InitSampler(provider, bindingKey, samplerStagingData)
}

func (r *renderer) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.WriteBuffers(writes)
}

func (r *renderer) CreateTexture(label string, width, height, layers, mipLevels uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Texture, error) {
	return r.backend.CreateTexture(label, width, height, layers, mipLevels, format, usage)
}

func (r *renderer) CreateTextureFromPixels(label string, pixels *common.PixelBuffer) (*Texture, error) {
	return r.backend.CreateTextureFromPixels(label, pixels)
}

func (r *renderer) CreateTextureFromStaging(label string, stagingData common.TextureStagingData, mipLevels uint32) (*Texture, error) {
	return r.backend.CreateTextureFromStaging(label, stagingData, mipLevels)
}

func (r *renderer) CreateUniformBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	return r.backend.CreateUniformBuffer(label, data)
}

func (r *renderer) CreateBindGroup(pipelineKey, label string, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return nil, fmt.Errorf("pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.CreateBindGroup(p, label, entries)
}

func (r *renderer) BeginImmediate() error {
	return r.backend.BeginImmediate()
}

func (r *renderer) DispatchImmediate(pipelineKey string, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("compute pipeline %q not found in cache", pipelineKey)
	}
	return r.backend.DispatchImmediate(p, bindGroup, workGroupCount)
}

func (r *renderer) CopyTextureLevel(src, dst *Texture, srcLevel, dstLevel uint32) error {
	return r.backend.CopyTextureLevel(src, dst, srcLevel, dstLevel)
}

func (r *renderer) ExecuteImmediate() error {
	return r.backend.ExecuteImmediate()
}

func (r *renderer) BeginFrame() error {
	return r.backend.BeginFrame()
}

func (r *renderer) DrawCall(pipelineKey string, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawCall(p, meshProvider, bindGroups)
	return nil
}

func (r *renderer) BeginPostPass() error {
	return r.backend.BeginPostPass()
}

func (r *renderer) DrawFullscreen(pipelineKey string, bindGroup *wgpu.BindGroup) error {
	r.mu.Lock()
	p, exists := r.pipelineCache[pipelineKey]
	r.mu.Unlock()

	if !exists {
		return fmt.Errorf("render pipeline %q not found in cache", pipelineKey)
	}

	r.backend.DrawFullscreen(p, bindGroup)
	return nil
}

func (r *renderer) EndFrame() {
	r.backend.EndFrame()
}

func (r *renderer) Present() {
	r.backend.Present()
}

func (r *renderer) SceneColorView() *wgpu.TextureView {
	return r.backend.SceneColorView()
}

func (r *renderer) Device() *wgpu.Device {
	return r.backend.Device()
}

func (r *renderer) Release() {
	r.backend.Release()
}
