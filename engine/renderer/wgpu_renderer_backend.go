package renderer

import (
	"errors"
	"fmt"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/shader"
	"github.com/cogentcore/webgpu/wgpu"
)

// sceneColorFormat is the offscreen HDR target the lit scene renders into
// before tone mapping resolves it to the swapchain.
const sceneColorFormat = wgpu.TextureFormatRGBA16Float

// wgpuRendererBackend is the internal WebGPU-facing surface of the Renderer.
// A frame runs as two passes: the scene pass draws into an offscreen HDR
// color target (with optional MSAA resolve), then the post pass samples the
// resolved scene color and writes the tone mapped result to the swapchain.
// Outside the frame loop, immediate encoders run compute and copy work
// synchronously for one-time GPU precomputation.
type wgpuRendererBackend interface {
	// ConfigureSurface (re)configures the window surface and rebuilds the
	// offscreen scene targets for a new drawable size.
	//
	// Parameters:
	//   - width: surface width in pixels
	//   - height: surface height in pixels
	ConfigureSurface(width, height int)

	// SetPresentMode updates the preferred present mode. A ConfigureSurface
	// call is required for the new mode to take effect.
	//
	// Parameters:
	//   - mode: the present mode to use
	SetPresentMode(mode PresentMode)

	// RegisterRenderPipeline compiles the pipeline's vertex and fragment
	// shaders and creates the render pipeline, storing it on p.
	//
	// Parameters:
	//   - p: the pipeline definition to register
	//
	// Returns:
	//   - error: if shader modules or pipeline creation failed
	RegisterRenderPipeline(p pipeline.Pipeline) error

	// RegisterComputePipeline compiles the pipeline's compute shader and
	// creates the compute pipeline, storing it on p.
	//
	// Parameters:
	//   - p: the pipeline definition to register
	//
	// Returns:
	//   - error: if the shader module or pipeline creation failed
	RegisterComputePipeline(p pipeline.Pipeline) error

	// InitMeshBuffers creates and uploads vertex and index buffers for the
	// provider.
	//
	// Parameters:
	//   - provider: the provider to hold the mesh buffers
	//   - vertexData: interleaved vertex bytes
	//   - indexData: index bytes (uint32 indices)
	//   - indexCount: number of indices for draw calls
	//
	// Returns:
	//   - error: if buffer creation failed
	InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error

	// InitBindGroup creates the provider's bind group from a layout
	// descriptor, creating uniform buffers for any buffer entries the
	// provider does not already hold. Texture and sampler entries must be
	// populated on the provider beforehand.
	//
	// Parameters:
	//   - provider: the bind group provider to initialize
	//   - descriptor: the bind group layout descriptor (from shader parsing)
	//   - bufferSizeOverrides: optional buffer sizes keyed by binding index
	//
	// Returns:
	//   - error: if a binding is unpopulated or creation failed
	InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error

	// InitSampler creates a sampler from staging data and stores it on the
	// provider at the given binding.
	//
	// Parameters:
	//   - provider: the bind group provider to hold the sampler
	//   - bindingKey: the binding index for the sampler
	//   - samplerStagingData: sampler parameters, zero fields use defaults
	//
	// Returns:
	//   - error: if sampler creation failed
	InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error

	// WriteBuffers flushes queued uniform writes to the GPU. Writes whose
	// target buffer does not exist are skipped.
	//
	// Parameters:
	//   - writes: the buffer writes to apply
	WriteBuffers(writes []bind_group_provider.BufferWrite)

	// CreateTexture creates an empty texture with the given dimensions, mip
	// chain and usage.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - width: width of the base mip in pixels
	//   - height: height of the base mip in pixels
	//   - layers: array layer count, 6 for cubemaps
	//   - mipLevels: number of mip levels to allocate
	//   - format: texel format
	//   - usage: texture usage flags
	//
	// Returns:
	//   - *Texture: the created texture with its default view
	//   - error: if texture creation failed
	CreateTexture(label string, width, height, layers, mipLevels uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Texture, error)

	// CreateTextureFromPixels uploads a float32 RGBA pixel buffer into a new
	// sampled rgba32float 2D texture.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - pixels: the pixel buffer to upload
	//
	// Returns:
	//   - *Texture: the created texture
	//   - error: if creation failed
	CreateTextureFromPixels(label string, pixels *common.PixelBuffer) (*Texture, error)

	// CreateTextureFromStaging uploads 8-bit RGBA staging data into the base
	// mip of a new storage-writable rgba8unorm texture with the given mip
	// chain. Mip levels above the base are left for compute generation.
	//
	// Parameters:
	//   - label: debug label for the texture
	//   - stagingData: decoded pixel data with dimensions
	//   - mipLevels: number of mip levels to allocate
	//
	// Returns:
	//   - *Texture: the created texture
	//   - error: if creation failed
	CreateTextureFromStaging(label string, stagingData common.TextureStagingData, mipLevels uint32) (*Texture, error)

	// CreateUniformBuffer creates a uniform buffer initialized with data.
	//
	// Parameters:
	//   - label: debug label for the buffer
	//   - data: initial contents, also sets the buffer size
	//
	// Returns:
	//   - *wgpu.Buffer: the created buffer
	//   - error: if buffer creation failed
	CreateUniformBuffer(label string, data []byte) (*wgpu.Buffer, error)

	// CreateBindGroup creates a bind group against group 0 of a registered
	// pipeline's layout.
	//
	// Parameters:
	//   - p: the registered pipeline to bind against
	//   - label: debug label for the bind group
	//   - entries: resource bindings in layout order
	//
	// Returns:
	//   - *wgpu.BindGroup: the created bind group
	//   - error: if the pipeline is unregistered or creation failed
	CreateBindGroup(p pipeline.Pipeline, label string, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error)

	// BeginImmediate opens a command encoder for compute and copy work
	// outside the frame loop.
	//
	// Returns:
	//   - error: if an immediate encoder is already open
	BeginImmediate() error

	// DispatchImmediate records a compute dispatch on the immediate encoder.
	// Each dispatch runs in its own compute pass.
	//
	// Parameters:
	//   - p: the registered compute pipeline to run
	//   - bindGroup: resources for group 0
	//   - workGroupCount: workgroup counts in x, y, z
	//
	// Returns:
	//   - error: if no immediate encoder is open or p is unregistered
	DispatchImmediate(p pipeline.Pipeline, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error

	// CopyTextureLevel records a full-size copy of one mip level between two
	// textures on the immediate encoder.
	//
	// Parameters:
	//   - src: source texture
	//   - dst: destination texture
	//   - srcLevel: source mip level
	//   - dstLevel: destination mip level
	//
	// Returns:
	//   - error: if no immediate encoder is open
	CopyTextureLevel(src, dst *Texture, srcLevel, dstLevel uint32) error

	// ExecuteImmediate submits the immediate encoder and blocks until the
	// GPU has finished the work.
	//
	// Returns:
	//   - error: if no immediate encoder is open or submission failed
	ExecuteImmediate() error

	// BeginFrame acquires the swapchain image and begins the scene pass on
	// the offscreen HDR target.
	//
	// Returns:
	//   - error: if the surface texture could not be acquired
	BeginFrame() error

	// DrawCall records an indexed draw on the scene pass.
	//
	// Parameters:
	//   - p: the registered render pipeline to draw with
	//   - meshProvider: provider holding vertex and index buffers
	//   - bindGroups: providers whose bind groups fill slots 0..n in order
	DrawCall(p pipeline.Pipeline, meshProvider bind_group_provider.BindGroupProvider, bindGroups []bind_group_provider.BindGroupProvider)

	// BeginPostPass ends the scene pass and begins the swapchain pass for
	// post processing. The post pass has no depth attachment.
	//
	// Returns:
	//   - error: if no frame is active
	BeginPostPass() error

	// DrawFullscreen records a fullscreen-triangle draw on the post pass.
	// No vertex buffers are bound; the vertex shader derives positions from
	// the vertex index.
	//
	// Parameters:
	//   - p: the registered render pipeline to draw with
	//   - bindGroup: resources for group 0
	DrawFullscreen(p pipeline.Pipeline, bindGroup *wgpu.BindGroup)

	// EndFrame ends the active pass and submits the frame's command buffer.
	// Does not present the surface, call Present after EndFrame to display
	// the frame.
	EndFrame()

	// Present presents the acquired swapchain image and releases frame
	// references.
	Present()

	// SceneColorView returns the resolved HDR scene color view sampled by
	// the tone mapping pass. It changes whenever ConfigureSurface runs.
	//
	// Returns:
	//   - *wgpu.TextureView: the resolved scene color view
	SceneColorView() *wgpu.TextureView

	// Device returns the WebGPU device.
	//
	// Returns:
	//   - *wgpu.Device: the device
	Device() *wgpu.Device

	// Queue returns the device queue.
	//
	// Returns:
	//   - *wgpu.Queue: the queue
	Queue() *wgpu.Queue

	// Release destroys the GPU state owned by the backend.
	Release()
}

type wgpuRendererBackendImpl struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat wgpu.TextureFormat
	presentMode   wgpu.PresentMode
	sampleCount   MSAASampleCount

	sceneColorTexture *wgpu.Texture
	sceneColorView    *wgpu.TextureView
	msaaTexture       *wgpu.Texture
	msaaTextureView   *wgpu.TextureView
	depthTexture      *wgpu.Texture
	depthTextureView  *wgpu.TextureView
	scenePassDescriptor *wgpu.RenderPassDescriptor

	frameEncoder *wgpu.CommandEncoder
	scenePass    *wgpu.RenderPassEncoder
	postPass     *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView

	immediateEncoder *wgpu.CommandEncoder
}

var _ wgpuRendererBackend = &wgpuRendererBackendImpl{}

// newWGPURendererBackend creates the WebGPU backend from a platform surface
// descriptor, requesting an adapter and device. The surface must be
// configured via ConfigureSurface before the first frame.
//
// Parameters:
//   - surfaceDescriptor: the platform-specific surface descriptor
//   - forceFallbackAdapter: true to force a CPU/software fallback adapter
//   - sampleCount: MSAA sample count for the scene pass, MSAAOff disables MSAA
//
// Returns:
//   - wgpuRendererBackend: the initialized backend
func newWGPURendererBackend(surfaceDescriptor *wgpu.SurfaceDescriptor, forceFallbackAdapter bool, sampleCount MSAASampleCount) wgpuRendererBackend {
	runtime.LockOSThread()
	b := &wgpuRendererBackendImpl{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: wgpu.PresentModeImmediate,
		sampleCount: sampleCount,
	}
	b.surface = b.instance.CreateSurface(surfaceDescriptor)

	a, err := b.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: forceFallbackAdapter,
		CompatibleSurface:    b.surface,
	})
	if err != nil {
		panic(err)
	}
	b.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		panic(err)
	}
	b.device = d
	b.queue = d.GetQueue()

	return b
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: b.presentMode,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	b.releaseSceneTargetsLocked()

	count := uint32(b.sampleCount)
	msaaEnabled := count > 1

	// Resolved (sample count 1) HDR color target, sampled by the tone
	// mapping pass.
	sceneColor, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Scene Color Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        sceneColorFormat,
		Usage:         wgpu.TextureUsageRenderAttachment | wgpu.TextureUsageTextureBinding,
	})
	if err != nil {
		panic(err)
	}
	b.sceneColorTexture = sceneColor
	b.sceneColorView, err = sceneColor.CreateView(nil)
	if err != nil {
		panic(err)
	}

	if msaaEnabled {
		// The scene pass draws into the MSAA texture; the resolved result is
		// written to the scene color texture as the ResolveTarget.
		msaaTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(width),
				Height:             uint32(height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        sceneColorFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(err)
		}
		b.msaaTexture = msaaTexture
		b.msaaTextureView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(err)
		}
	}

	// Depth texture sample count must match the color attachment.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTexture = depthTexture
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// Build the cached render pass descriptor for the scene target. When
	// MSAA is enabled, View is the MSAA texture and the resolved scene color
	// is the ResolveTarget. When disabled, View is the scene color directly.
	// Unlike the swapchain, both are offscreen, so the descriptor is fully
	// static between resizes.
	colorAttachment := wgpu.RenderPassColorAttachment{
		View:       b.sceneColorView,
		LoadOp:     wgpu.LoadOpClear,
		StoreOp:    wgpu.StoreOpStore,
		ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
	}
	if msaaEnabled {
		colorAttachment.View = b.msaaTextureView
		colorAttachment.ResolveTarget = b.sceneColorView
		colorAttachment.StoreOp = wgpu.StoreOpDiscard // Don't store MSAA data, just resolve
	}
	b.scenePassDescriptor = &wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{colorAttachment},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView, // Persistent until resize
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard, // Depth not needed after the scene pass
			DepthClearValue: 1.0,
		},
	}
}

func (b *wgpuRendererBackendImpl) SetPresentMode(mode PresentMode) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch mode {
	case PresentModeVSync:
		b.presentMode = wgpu.PresentModeFifo
	case PresentModeUncapped:
		fallthrough
	default:
		b.presentMode = wgpu.PresentModeImmediate
	}
}

func (b *wgpuRendererBackendImpl) RegisterRenderPipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	vertexShader := p.Shader(shader.ShaderTypeVertex)
	fragmentShader := p.Shader(shader.ShaderTypeFragment)
	if vertexShader == nil || fragmentShader == nil {
		return errors.New("vertex and fragment shaders must be set to create a render pipeline")
	}

	vs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: vertexShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: vertexShader.Source(),
		},
	})
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: fragmentShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: fragmentShader.Source(),
		},
	})
	if err != nil {
		return err
	}
	defer fs.Release()

	merged := MergeBindGroupLayouts(vertexShader.BindGroupLayoutDescriptors(), fragmentShader.BindGroupLayoutDescriptors())
	pipelineLayout, bindGroupLayouts, err := b.createPipelineLayoutLocked(p.PipelineKey(), merged)
	if err != nil {
		return err
	}
	defer func() {
		pipelineLayout.Release()
		for _, l := range bindGroupLayouts {
			l.Release()
		}
	}()

	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(vertexShader.VertexLayouts()))
	for i := range vertexShader.VertexLayouts() {
		vertexLayouts = append(vertexLayouts, vertexShader.VertexLayout(i)...)
	}

	colorFormat := p.ColorFormat()
	if colorFormat == wgpu.TextureFormatUndefined {
		if p.DepthAttachment() {
			colorFormat = sceneColorFormat
		} else {
			colorFormat = b.surfaceFormat
		}
	}
	multisampleCount := uint32(1)
	if p.Multisampled() {
		multisampleCount = uint32(b.sampleCount)
	}

	var depthStencil *wgpu.DepthStencilState
	if p.DepthAttachment() {
		depthCompare := p.DepthCompare()
		if !p.DepthTestEnabled() {
			depthCompare = wgpu.CompareFunctionAlways
		}
		depthStencil = &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: p.DepthWriteEnabled(),
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		}
	}

	created, err := b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: vertexShader.EntryPoint(),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: fragmentShader.EntryPoint(),
			Targets: []wgpu.ColorTargetState{
				{
					Format:    colorFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  p.Topology(),
			FrontFace: p.FrontFace(),
			CullMode:  p.CullMode(),
		},
		Multisample: wgpu.MultisampleState{
			Count: multisampleCount,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: depthStencil,
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %s: %w", p.PipelineKey(), err)
	}

	p.SetRenderPipeline(created)

	return nil
}

func (b *wgpuRendererBackendImpl) RegisterComputePipeline(p pipeline.Pipeline) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	computeShader := p.Shader(shader.ShaderTypeCompute)
	if computeShader == nil {
		return errors.New("compute shader must be set to create a compute pipeline")
	}

	s, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: computeShader.Key(),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: computeShader.Source(),
		},
	})
	if err != nil {
		return err
	}
	defer s.Release()

	pipelineLayout, bindGroupLayouts, err := b.createPipelineLayoutLocked(p.PipelineKey(), computeShader.BindGroupLayoutDescriptors())
	if err != nil {
		return err
	}
	defer func() {
		pipelineLayout.Release()
		for _, l := range bindGroupLayouts {
			l.Release()
		}
	}()

	created, err := b.device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  p.PipelineKey() + " Compute Pipeline",
		Layout: pipelineLayout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     s,
			EntryPoint: computeShader.EntryPoint(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create compute pipeline %s: %w", p.PipelineKey(), err)
	}

	p.SetComputePipeline(created)

	return nil
}

// createPipelineLayoutLocked builds a pipeline layout from per-group layout
// descriptors parsed out of WGSL source. Caller holds b.mu and releases the
// returned layouts after pipeline creation.
func (b *wgpuRendererBackendImpl) createPipelineLayoutLocked(key string, descriptors map[int]wgpu.BindGroupLayoutDescriptor) (*wgpu.PipelineLayout, []*wgpu.BindGroupLayout, error) {
	maxGroup := -1
	for g := range descriptors {
		if g > maxGroup {
			maxGroup = g
		}
	}
	bindGroupLayouts := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g, desc := range descriptors {
		layout, err := b.device.CreateBindGroupLayout(&desc)
		if err != nil {
			for _, l := range bindGroupLayouts {
				if l != nil {
					l.Release()
				}
			}
			return nil, nil, fmt.Errorf("failed to create bind group layout for group %d of %s: %w", g, key, err)
		}
		bindGroupLayouts[g] = layout
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            key,
		BindGroupLayouts: bindGroupLayouts,
	})
	if err != nil {
		for _, l := range bindGroupLayouts {
			if l != nil {
				l.Release()
			}
		}
		return nil, nil, fmt.Errorf("failed to create pipeline layout for %s: %w", key, err)
	}
	return pipelineLayout, bindGroupLayouts, nil
}

// MergeBindGroupLayouts merges the vertex and fragment stage views of the same bind
// groups, OR-ing visibility for bindings both stages declare. Render pipeline layouts
// are built from the merged descriptors, so bind groups for any group that both stages
// contribute bindings to must be created against the merged descriptor as well.
//
// Parameters:
//   - vertexLayouts: the vertex shader's bind group layout descriptors keyed by group
//   - fragmentLayouts: the fragment shader's bind group layout descriptors keyed by group
//
// Returns:
//   - map[int]wgpu.BindGroupLayoutDescriptor: the merged descriptors keyed by group
func MergeBindGroupLayouts(
	vertexLayouts, fragmentLayouts map[int]wgpu.BindGroupLayoutDescriptor,
) map[int]wgpu.BindGroupLayoutDescriptor {
	merged := make(map[int]wgpu.BindGroupLayoutDescriptor)

	groupIndices := make(map[int]bool)
	for g := range vertexLayouts {
		groupIndices[g] = true
	}
	for g := range fragmentLayouts {
		groupIndices[g] = true
	}

	for g := range groupIndices {
		vDesc, hasV := vertexLayouts[g]
		fDesc, hasF := fragmentLayouts[g]

		switch {
		case hasV && !hasF:
			merged[g] = vDesc
		case hasF && !hasV:
			merged[g] = fDesc
		default:
			entryMap := make(map[uint32]wgpu.BindGroupLayoutEntry)
			for _, e := range vDesc.Entries {
				entryMap[e.Binding] = e
			}
			for _, e := range fDesc.Entries {
				if existing, ok := entryMap[e.Binding]; ok {
					existing.Visibility |= e.Visibility
					entryMap[e.Binding] = existing
				} else {
					entryMap[e.Binding] = e
				}
			}

			entries := make([]wgpu.BindGroupLayoutEntry, 0, len(entryMap))
			for _, e := range entryMap {
				entries = append(entries, e)
			}
			// sort by binding for deterministic layout
			sort.Slice(entries, func(i, j int) bool {
				return entries[i].Binding < entries[j].Binding
			})

			merged[g] = wgpu.BindGroupLayoutDescriptor{
				Label:   vDesc.Label,
				Entries: entries,
			}
		}
	}

	return merged
}

func (b *wgpuRendererBackendImpl) InitMeshBuffers(provider bind_group_provider.BindGroupProvider, vertexData, indexData []byte, indexCount int) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(vertexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Vertex Buffer",
			Size:  uint64(len(vertexData)),
			Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create vertex buffer for %s (%d bytes): %w", provider.Label(), len(vertexData), err)
		}
		b.queue.WriteBuffer(buf, 0, vertexData)
		provider.SetVertexBuffer(buf)
	}

	if len(indexData) > 0 {
		buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: provider.Label() + " Index Buffer",
			Size:  uint64(len(indexData)),
			Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
		})
		if err != nil {
			return fmt.Errorf("failed to create index buffer for %s (%d bytes): %w", provider.Label(), len(indexData), err)
		}
		b.queue.WriteBuffer(buf, 0, indexData)
		provider.SetIndexBuffer(buf)
	}

	provider.SetIndexCount(indexCount)

	return nil
}

func (b *wgpuRendererBackendImpl) InitBindGroup(provider bind_group_provider.BindGroupProvider, descriptor wgpu.BindGroupLayoutDescriptor, bufferSizeOverrides map[int]uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(descriptor.Entries) == 0 {
		return nil
	}

	layout := provider.BindGroupLayout()
	if layout == nil {
		var err error
		layout, err = b.device.CreateBindGroupLayout(&descriptor)
		if err != nil {
			return err
		}
		provider.SetBindGroupLayout(layout)
	}

	bindGroupEntries := make([]wgpu.BindGroupEntry, len(descriptor.Entries))
	for i, entry := range descriptor.Entries {
		binding := int(entry.Binding)

		isTexture := entry.Texture.SampleType != wgpu.TextureSampleTypeUndefined
		isSampler := entry.Sampler.Type != wgpu.SamplerBindingTypeUndefined

		if isTexture {
			tv := provider.TextureView(binding)
			if tv == nil {
				return fmt.Errorf("texture binding %d on %s has no texture view", binding, provider.Label())
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding:     entry.Binding,
				TextureView: tv,
			}
		} else if isSampler {
			samp := provider.Sampler(binding)
			if samp == nil {
				return fmt.Errorf("sampler binding %d on %s has no sampler, call InitSampler first", binding, provider.Label())
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Sampler: samp,
			}
		} else {
			buf := provider.Buffer(binding)
			if buf == nil {
				bufSize := entry.Buffer.MinBindingSize
				if overrideSize, ok := bufferSizeOverrides[binding]; ok {
					bufSize = overrideSize
				}
				var bufErr error
				buf, bufErr = b.device.CreateBuffer(&wgpu.BufferDescriptor{
					Label: provider.Label() + " Buffer",
					Size:  bufSize,
					Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
				})
				if bufErr != nil {
					return bufErr
				}
				provider.SetBuffer(binding, buf)
			}
			bindGroupEntries[i] = wgpu.BindGroupEntry{
				Binding: entry.Binding,
				Buffer:  buf,
				Offset:  0,
				Size:    wgpu.WholeSize,
			}
		}
	}

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   provider.Label() + " Bind Group",
		Layout:  layout,
		Entries: bindGroupEntries,
	})
	if err != nil {
		return err
	}
	provider.SetBindGroup(bindGroup)

	return nil
}

func (b *wgpuRendererBackendImpl) InitSampler(provider bind_group_provider.BindGroupProvider, bindingKey int, samplerStagingData common.SamplerStagingData) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	samp, err := b.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         provider.Label() + " Sampler",
		AddressModeU:  common.Coalesce(samplerStagingData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(samplerStagingData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(samplerStagingData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(samplerStagingData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(samplerStagingData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(samplerStagingData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(samplerStagingData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(samplerStagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(samplerStagingData.MaxAnisotropy, 1),
		Compare:       samplerStagingData.Compare,
	})
	if err != nil {
		return err
	}
	provider.SetSampler(bindingKey, samp)

	return nil
}

func (b *wgpuRendererBackendImpl) WriteBuffers(writes []bind_group_provider.BufferWrite) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, w := range writes {
		buf := w.Provider.Buffer(w.Binding)
		if buf == nil {
			continue
		}
		b.queue.WriteBuffer(buf, w.Offset, w.Data)
	}
}

func (b *wgpuRendererBackendImpl) CreateTexture(label string, width, height, layers, mipLevels uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return createTexture(b.device, label, width, height, layers, mipLevels, format, usage)
}

func createTexture(device *wgpu.Device, label string, width, height, layers, mipLevels uint32, format wgpu.TextureFormat, usage wgpu.TextureUsage) (*Texture, error) {
	tex, err := device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         label,
		Size:          wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: layers},
		MipLevelCount: mipLevels,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s (%dx%dx%d, %d mips, format %d): %w", label, width, height, layers, mipLevels, format, err)
	}
	t, err := newTexture(tex, width, height, layers, mipLevels, format)
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %s: %w", label, err)
	}
	return t, nil
}

func (b *wgpuRendererBackendImpl) CreateTextureFromPixels(label string, pixels *common.PixelBuffer) (*Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	tex, err := createTexture(b.device, label, pixels.Width, pixels.Height, 1, 1,
		wgpu.TextureFormatRGBA32Float, wgpu.TextureUsageTextureBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.Texture(),
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		common.SliceToBytes(pixels.Pix),
		&wgpu.TextureDataLayout{
			Offset: 0,
			// 4 float32 channels per texel
			BytesPerRow:  pixels.Width * 16,
			RowsPerImage: pixels.Height,
		},
		&wgpu.Extent3D{Width: pixels.Width, Height: pixels.Height, DepthOrArrayLayers: 1},
	)
	return tex, nil
}

func (b *wgpuRendererBackendImpl) CreateTextureFromStaging(label string, stagingData common.TextureStagingData, mipLevels uint32) (*Texture, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Storage writes are not allowed on srgb formats, so gamma content stays
	// rgba8unorm and decoding happens in the shaders that sample it.
	tex, err := createTexture(b.device, label, stagingData.Width, stagingData.Height, 1, mipLevels,
		wgpu.TextureFormatRGBA8Unorm,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}

	b.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  tex.Texture(),
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{Width: stagingData.Width, Height: stagingData.Height, DepthOrArrayLayers: 1},
	)
	return tex, nil
}

func (b *wgpuRendererBackendImpl) CreateUniformBuffer(label string, data []byte) (*wgpu.Buffer, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  uint64(len(data)),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform buffer %s (%d bytes): %w", label, len(data), err)
	}
	b.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (b *wgpuRendererBackendImpl) CreateBindGroup(p pipeline.Pipeline, label string, entries []wgpu.BindGroupEntry) (*wgpu.BindGroup, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	var layout *wgpu.BindGroupLayout
	switch pl := p.Pipeline().(type) {
	case *wgpu.ComputePipeline:
		layout = pl.GetBindGroupLayout(0)
	case *wgpu.RenderPipeline:
		layout = pl.GetBindGroupLayout(0)
	default:
		return nil, fmt.Errorf("pipeline %s is not registered", p.PipelineKey())
	}
	defer layout.Release()

	bg, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:   label,
		Layout:  layout,
		Entries: entries,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bind group %s against %s: %w", label, p.PipelineKey(), err)
	}
	return bg, nil
}

func (b *wgpuRendererBackendImpl) BeginImmediate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.immediateEncoder != nil {
		return errors.New("immediate encoder already open")
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		return fmt.Errorf("failed to create immediate encoder: %w", err)
	}
	b.immediateEncoder = encoder
	return nil
}

func (b *wgpuRendererBackendImpl) DispatchImmediate(p pipeline.Pipeline, bindGroup *wgpu.BindGroup, workGroupCount [3]uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.immediateEncoder == nil {
		return fmt.Errorf("no immediate encoder open for dispatch of %s", p.PipelineKey())
	}
	computePipeline, ok := p.Pipeline().(*wgpu.ComputePipeline)
	if !ok {
		return fmt.Errorf("pipeline %s is not a registered compute pipeline", p.PipelineKey())
	}

	// One pass per dispatch so texture usage transitions happen between
	// dependent dispatches.
	pass := b.immediateEncoder.BeginComputePass(nil)
	pass.SetPipeline(computePipeline)
	pass.SetBindGroup(0, bindGroup, nil)
	pass.DispatchWorkgroups(workGroupCount[0], workGroupCount[1], workGroupCount[2])
	pass.End()
	pass.Release()
	return nil
}

func (b *wgpuRendererBackendImpl) CopyTextureLevel(src, dst *Texture, srcLevel, dstLevel uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.immediateEncoder == nil {
		return errors.New("no immediate encoder open for texture copy")
	}
	width, height := src.MipSize(srcLevel)
	b.immediateEncoder.CopyTextureToTexture(
		&wgpu.ImageCopyTexture{
			Texture:  src.Texture(),
			MipLevel: srcLevel,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.ImageCopyTexture{
			Texture:  dst.Texture(),
			MipLevel: dstLevel,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		&wgpu.Extent3D{Width: width, Height: height, DepthOrArrayLayers: src.Layers()},
	)
	return nil
}

func (b *wgpuRendererBackendImpl) ExecuteImmediate() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.immediateEncoder == nil {
		return errors.New("no immediate encoder open to execute")
	}
	commandBuffer, err := b.immediateEncoder.Finish(nil)
	if err != nil {
		b.immediateEncoder.Release()
		b.immediateEncoder = nil
		return fmt.Errorf("failed to finish immediate encoder: %w", err)
	}

	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	b.immediateEncoder.Release()
	b.immediateEncoder = nil

	// Block until the precompute work has finished before the caller reuses
	// or destroys its textures.
	b.device.Poll(true, nil)
	return nil
}

func (b *wgpuRendererBackendImpl) BeginFrame() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// If a previous frame's surface texture is still held, avoid acquiring
	// another one. Overlapping frames trigger wgpu-native validation errors
	// like "Surface image is already acquired".
	if b.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	b.frameEncoder = encoder
	b.frameSurface = surfaceTexture
	b.frameView = view
	b.scenePass = encoder.BeginRenderPass(b.scenePassDescriptor)

	return nil
}

func (b *wgpuRendererBackendImpl) DrawCall(
	p pipeline.Pipeline,
	meshProvider bind_group_provider.BindGroupProvider,
	bindGroups []bind_group_provider.BindGroupProvider,
) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.scenePass == nil {
		return
	}
	renderPipeline := p.Pipeline().(*wgpu.RenderPipeline)
	b.scenePass.SetPipeline(renderPipeline)

	for i, bg := range bindGroups {
		b.scenePass.SetBindGroup(uint32(i), bg.BindGroup(), nil)
	}

	b.scenePass.SetVertexBuffer(0, meshProvider.VertexBuffer(), 0, wgpu.WholeSize)
	b.scenePass.SetIndexBuffer(meshProvider.IndexBuffer(), wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	b.scenePass.DrawIndexed(uint32(meshProvider.IndexCount()), 1, 0, 0, 0)
}

func (b *wgpuRendererBackendImpl) BeginPostPass() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return errors.New("no frame in progress")
	}
	if b.scenePass != nil {
		b.scenePass.End()
		b.scenePass.Release()
		b.scenePass = nil
	}

	b.postPass = b.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		Label: "Post Pass",
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:       b.frameView,
				LoadOp:     wgpu.LoadOpClear,
				StoreOp:    wgpu.StoreOpStore,
				ClearValue: wgpu.Color{R: 0, G: 0, B: 0, A: 1},
			},
		},
	})
	return nil
}

func (b *wgpuRendererBackendImpl) DrawFullscreen(p pipeline.Pipeline, bindGroup *wgpu.BindGroup) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.postPass == nil {
		return
	}
	renderPipeline := p.Pipeline().(*wgpu.RenderPipeline)
	b.postPass.SetPipeline(renderPipeline)
	b.postPass.SetBindGroup(0, bindGroup, nil)
	b.postPass.Draw(3, 1, 0, 0)
}

func (b *wgpuRendererBackendImpl) EndFrame() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameEncoder == nil {
		return
	}
	if b.scenePass != nil {
		b.scenePass.End()
		b.scenePass.Release()
		b.scenePass = nil
	}
	if b.postPass != nil {
		b.postPass.End()
		b.postPass.Release()
		b.postPass = nil
	}

	commandBuffer, err := b.frameEncoder.Finish(nil)
	if err != nil {
		b.frameEncoder.Release()
		b.frameView.Release()
		b.frameSurface.Release()
		b.frameEncoder = nil
		b.frameSurface = nil
		b.frameView = nil
		return
	}

	b.queue.Submit(commandBuffer)

	commandBuffer.Release()
	b.frameEncoder.Release()
	b.frameEncoder = nil
}

func (b *wgpuRendererBackendImpl) Present() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) SceneColorView() *wgpu.TextureView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sceneColorView
}

func (b *wgpuRendererBackendImpl) Device() *wgpu.Device {
	return b.device
}

func (b *wgpuRendererBackendImpl) Queue() *wgpu.Queue {
	return b.queue
}

// releaseSceneTargetsLocked drops the offscreen attachments ahead of a
// resize. Caller holds b.mu.
func (b *wgpuRendererBackendImpl) releaseSceneTargetsLocked() {
	if b.msaaTextureView != nil {
		b.msaaTextureView.Release()
		b.msaaTextureView = nil
	}
	if b.msaaTexture != nil {
		b.msaaTexture.Destroy()
		b.msaaTexture = nil
	}
	if b.sceneColorView != nil {
		b.sceneColorView.Release()
		b.sceneColorView = nil
	}
	if b.sceneColorTexture != nil {
		b.sceneColorTexture.Destroy()
		b.sceneColorTexture = nil
	}
	if b.depthTextureView != nil {
		b.depthTextureView.Release()
		b.depthTextureView = nil
	}
	if b.depthTexture != nil {
		b.depthTexture.Destroy()
		b.depthTexture = nil
	}
}

func (b *wgpuRendererBackendImpl) Release() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.releaseSceneTargetsLocked()
	if b.queue != nil {
		b.queue.Release()
		b.queue = nil
	}
	if b.device != nil {
		b.device.Release()
		b.device = nil
	}
	if b.surface != nil {
		b.surface.Release()
		b.surface = nil
	}
	if b.adapter != nil {
		b.adapter.Release()
		b.adapter = nil
	}
	if b.instance != nil {
		b.instance.Release()
		b.instance = nil
	}
}
