package ibl

import (
	"fmt"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer"
	"github.com/cogentcore/webgpu/wgpu"
)

// EnvironmentMaps holds the GPU textures produced by the environment precompute
// passes. All three are ready for sampling when Precompute returns.
type EnvironmentMaps struct {
	// Specular is the prefiltered specular environment cubemap. Each mip level
	// is filtered for increasing roughness; level zero is the unfiltered base.
	Specular *renderer.Texture
	// Irradiance is the diffuse irradiance cubemap.
	Irradiance *renderer.Texture
	// BRDFLUT is the split-sum BRDF lookup table.
	BRDFLUT *renderer.Texture
}

// Destroy releases all three environment textures.
func (e *EnvironmentMaps) Destroy() {
	if e.Specular != nil {
		e.Specular.Destroy()
		e.Specular = nil
	}
	if e.Irradiance != nil {
		e.Irradiance.Destroy()
		e.Irradiance = nil
	}
	if e.BRDFLUT != nil {
		e.BRDFLUT.Destroy()
		e.BRDFLUT = nil
	}
}

// precomputer is the implementation of the Precomputer interface.
type precomputer struct {
	renderer renderer.Renderer
	config   Config
}

// Precomputer runs the image based lighting precompute passes on the GPU. It
// converts a decoded equirectangular environment map into the prefiltered
// specular cubemap, diffuse irradiance cubemap, and BRDF lookup table consumed
// by the physically based shading pipeline, and generates mip chains for
// material textures.
type Precomputer interface {
	// Precompute runs the full environment precompute: equirectangular to
	// cubemap conversion, mip chain generation, specular prefiltering per mip
	// level, diffuse irradiance convolution, and BRDF lookup table integration.
	// All passes run in a single command submission and the call blocks until
	// the GPU has finished.
	//
	// Parameters:
	//   - equirect: the decoded HDR environment map, RGBA float32 pixels
	//
	// Returns:
	//   - *EnvironmentMaps: the three precomputed environment textures
	//   - error: an error if any pass could not be recorded or submitted
	Precompute(equirect *common.PixelBuffer) (*EnvironmentMaps, error)

	// GenerateMipmaps fills the mip chain of a single-layer rgba8unorm texture
	// whose base level has already been uploaded. Gamma-encoded textures are
	// averaged in linear light.
	//
	// Parameters:
	//   - tex: the texture to fill, created with storage binding usage
	//   - gamma: true when the texture content is gamma (2.2) encoded
	//
	// Returns:
	//   - error: an error if any downsample pass could not be recorded or submitted
	GenerateMipmaps(tex *renderer.Texture, gamma bool) error

	// Config retrieves the precompute configuration.
	//
	// Returns:
	//   - Config: the texture sizes used by the precompute passes
	Config() Config
}

var _ Precomputer = &precomputer{}

// NewPrecomputer creates a Precomputer bound to the given renderer and registers
// the precompute compute pipelines with it.
//
// Parameters:
//   - r: the renderer used for texture creation and compute dispatch
//   - options: variadic list of PrecomputerOption functions to configure the precomputer
//
// Returns:
//   - Precomputer: a new Precomputer instance
//   - error: an error if the compute pipelines could not be registered
func NewPrecomputer(r renderer.Renderer, options ...PrecomputerOption) (Precomputer, error) {
	p := &precomputer{
		renderer: r,
		config:   DefaultConfig(),
	}
	for _, opt := range options {
		opt(p)
	}
	p.config = p.config.withDefaults()
	if err := r.RegisterPipelines(computePipelines()...); err != nil {
		return nil, fmt.Errorf("failed to register precompute pipelines: %w", err)
	}
	return p, nil
}

func (p *precomputer) Config() Config {
	return p.config
}

// transientResources tracks GPU objects that only need to live until the
// immediate command submission completes.
type transientResources struct {
	views      []*wgpu.TextureView
	bindGroups []*wgpu.BindGroup
	buffers    []*wgpu.Buffer
	samplers   []*wgpu.Sampler
}

func (t *transientResources) view(v *wgpu.TextureView, err error) (*wgpu.TextureView, error) {
	if err == nil {
		t.views = append(t.views, v)
	}
	return v, err
}

func (t *transientResources) bindGroup(bg *wgpu.BindGroup, err error) (*wgpu.BindGroup, error) {
	if err == nil {
		t.bindGroups = append(t.bindGroups, bg)
	}
	return bg, err
}

func (t *transientResources) buffer(b *wgpu.Buffer, err error) (*wgpu.Buffer, error) {
	if err == nil {
		t.buffers = append(t.buffers, b)
	}
	return b, err
}

func (t *transientResources) release() {
	for _, bg := range t.bindGroups {
		bg.Release()
	}
	for _, v := range t.views {
		v.Release()
	}
	for _, b := range t.buffers {
		b.Release()
	}
	for _, s := range t.samplers {
		s.Release()
	}
}

func (p *precomputer) Precompute(equirect *common.PixelBuffer) (*EnvironmentMaps, error) {
	size := p.config.EnvironmentSize
	levels := NumMipLevels(size, size)

	transient := &transientResources{}
	defer transient.release()

	equirectTexture, err := p.renderer.CreateTextureFromPixels("Equirect Environment", equirect)
	if err != nil {
		return nil, err
	}
	defer equirectTexture.Destroy()

	unfiltered, err := p.renderer.CreateTexture("Unfiltered Environment Map", size, size, 6, levels,
		wgpu.TextureFormatRGBA16Float,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding|wgpu.TextureUsageCopySrc)
	if err != nil {
		return nil, err
	}
	defer unfiltered.Destroy()

	maps := &EnvironmentMaps{}
	maps.Specular, err = p.renderer.CreateTexture("Specular Environment Map", size, size, 6, levels,
		wgpu.TextureFormatRGBA16Float,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding|wgpu.TextureUsageCopyDst)
	if err != nil {
		return nil, err
	}
	irrSize := p.config.IrradianceSize
	maps.Irradiance, err = p.renderer.CreateTexture("Irradiance Map", irrSize, irrSize, 6, 1,
		wgpu.TextureFormatRGBA16Float,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding)
	if err != nil {
		maps.Destroy()
		return nil, err
	}
	lutSize := p.config.BRDFLUTSize
	maps.BRDFLUT, err = p.renderer.CreateTexture("BRDF LUT", lutSize, lutSize, 1, 1,
		wgpu.TextureFormatRGBA16Float,
		wgpu.TextureUsageTextureBinding|wgpu.TextureUsageStorageBinding)
	if err != nil {
		maps.Destroy()
		return nil, err
	}

	wrapSampler, err := p.createSampler("Equirect Sampler", wgpu.AddressModeRepeat, transient)
	if err != nil {
		maps.Destroy()
		return nil, err
	}
	mipSampler, err := p.createSampler("Environment Mip Sampler", wgpu.AddressModeClampToEdge, transient)
	if err != nil {
		maps.Destroy()
		return nil, err
	}

	if err := p.runPrecomputePasses(equirectTexture, unfiltered, maps, wrapSampler, mipSampler, transient); err != nil {
		maps.Destroy()
		return nil, err
	}
	return maps, nil
}

// runPrecomputePasses records and submits every precompute dispatch in order.
func (p *precomputer) runPrecomputePasses(equirectTexture, unfiltered *renderer.Texture, maps *EnvironmentMaps, wrapSampler, mipSampler *wgpu.Sampler, transient *transientResources) error {
	if err := p.renderer.BeginImmediate(); err != nil {
		return err
	}

	size := p.config.EnvironmentSize
	levels := unfiltered.MipLevels()

	// Project the equirectangular map onto the cubemap base level.
	baseView, err := transient.view(unfiltered.StorageMipView(0))
	if err != nil {
		return err
	}
	bindGroup, err := transient.bindGroup(p.renderer.CreateBindGroup(PipelineKeyEquirectToCube, "Equirect To Cube", []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: equirectTexture.View()},
		{Binding: 1, Sampler: wrapSampler},
		{Binding: 2, TextureView: baseView},
	}))
	if err != nil {
		return err
	}
	if err := p.renderer.DispatchImmediate(PipelineKeyEquirectToCube, bindGroup, [3]uint32{dispatchGroups(size, 32), dispatchGroups(size, 32), 6}); err != nil {
		return err
	}

	// Fill the unfiltered mip chain so the prefilter pass can sample by footprint.
	for level := uint32(1); level < levels; level++ {
		input, err := transient.view(unfiltered.ArrayMipView(level - 1))
		if err != nil {
			return err
		}
		output, err := transient.view(unfiltered.StorageMipView(level))
		if err != nil {
			return err
		}
		bindGroup, err := transient.bindGroup(p.renderer.CreateBindGroup(PipelineKeyDownsampleArray, fmt.Sprintf("Environment Downsample %d", level), []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: input},
			{Binding: 1, TextureView: output},
		}))
		if err != nil {
			return err
		}
		width, height := unfiltered.MipSize(level)
		if err := p.renderer.DispatchImmediate(PipelineKeyDownsampleArray, bindGroup, [3]uint32{dispatchGroups(width, 8), dispatchGroups(height, 8), 6}); err != nil {
			return err
		}
	}

	// The specular base level is the unfiltered environment, copied not filtered.
	if err := p.renderer.CopyTextureLevel(unfiltered, maps.Specular, 0, 0); err != nil {
		return err
	}

	// Prefilter each remaining specular level for its roughness.
	for level := uint32(1); level < levels; level++ {
		params := GPUFilterParams{Roughness: RoughnessForLevel(level, levels), NumSamples: p.config.SpecularSamples}
		paramsBuffer, err := transient.buffer(p.renderer.CreateUniformBuffer(fmt.Sprintf("Specular Filter Params %d", level), params.Marshal()))
		if err != nil {
			return err
		}
		output, err := transient.view(maps.Specular.StorageMipView(level))
		if err != nil {
			return err
		}
		bindGroup, err := transient.bindGroup(p.renderer.CreateBindGroup(PipelineKeySpecularFilter, fmt.Sprintf("Specular Filter %d", level), []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: unfiltered.View()},
			{Binding: 1, Sampler: mipSampler},
			{Binding: 2, TextureView: output},
			{Binding: 3, Buffer: paramsBuffer, Offset: 0, Size: wgpu.WholeSize},
		}))
		if err != nil {
			return err
		}
		width, height := maps.Specular.MipSize(level)
		if err := p.renderer.DispatchImmediate(PipelineKeySpecularFilter, bindGroup, [3]uint32{dispatchGroups(width, 32), dispatchGroups(height, 32), 6}); err != nil {
			return err
		}
	}

	// Convolve the diffuse irradiance map.
	irrSize := p.config.IrradianceSize
	irrParams := GPUSampleParams{NumSamples: p.config.IrradianceSamples}
	irrParamsBuffer, err := transient.buffer(p.renderer.CreateUniformBuffer("Irradiance Params", irrParams.Marshal()))
	if err != nil {
		return err
	}
	irrView, err := transient.view(maps.Irradiance.StorageMipView(0))
	if err != nil {
		return err
	}
	bindGroup, err = transient.bindGroup(p.renderer.CreateBindGroup(PipelineKeyIrradiance, "Irradiance Convolution", []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: maps.Specular.View()},
		{Binding: 1, Sampler: mipSampler},
		{Binding: 2, TextureView: irrView},
		{Binding: 3, Buffer: irrParamsBuffer, Offset: 0, Size: wgpu.WholeSize},
	}))
	if err != nil {
		return err
	}
	if err := p.renderer.DispatchImmediate(PipelineKeyIrradiance, bindGroup, [3]uint32{dispatchGroups(irrSize, 32), dispatchGroups(irrSize, 32), 6}); err != nil {
		return err
	}

	// Integrate the BRDF lookup table.
	lutSize := p.config.BRDFLUTSize
	lutParams := GPUSampleParams{NumSamples: p.config.BRDFSamples}
	lutParamsBuffer, err := transient.buffer(p.renderer.CreateUniformBuffer("BRDF LUT Params", lutParams.Marshal()))
	if err != nil {
		return err
	}
	lutView, err := transient.view(maps.BRDFLUT.StorageMipView(0))
	if err != nil {
		return err
	}
	bindGroup, err = transient.bindGroup(p.renderer.CreateBindGroup(PipelineKeyBRDFLUT, "BRDF LUT Integration", []wgpu.BindGroupEntry{
		{Binding: 0, TextureView: lutView},
		{Binding: 1, Buffer: lutParamsBuffer, Offset: 0, Size: wgpu.WholeSize},
	}))
	if err != nil {
		return err
	}
	if err := p.renderer.DispatchImmediate(PipelineKeyBRDFLUT, bindGroup, [3]uint32{dispatchGroups(lutSize, 32), dispatchGroups(lutSize, 32), 1}); err != nil {
		return err
	}

	return p.renderer.ExecuteImmediate()
}

func (p *precomputer) GenerateMipmaps(tex *renderer.Texture, gamma bool) error {
	key := PipelineKeyDownsample
	if gamma {
		key = PipelineKeyDownsampleGamma
	}

	transient := &transientResources{}
	defer transient.release()

	if err := p.renderer.BeginImmediate(); err != nil {
		return err
	}
	for level := uint32(1); level < tex.MipLevels(); level++ {
		input, err := transient.view(tex.SampledMipView(level-1, 1))
		if err != nil {
			return err
		}
		output, err := transient.view(tex.StorageMipView(level))
		if err != nil {
			return err
		}
		bindGroup, err := transient.bindGroup(p.renderer.CreateBindGroup(key, fmt.Sprintf("Texture Downsample %d", level), []wgpu.BindGroupEntry{
			{Binding: 0, TextureView: input},
			{Binding: 1, TextureView: output},
		}))
		if err != nil {
			return err
		}
		width, height := tex.MipSize(level)
		if err := p.renderer.DispatchImmediate(key, bindGroup, [3]uint32{dispatchGroups(width, 8), dispatchGroups(height, 8), 1}); err != nil {
			return err
		}
	}
	return p.renderer.ExecuteImmediate()
}

// dispatchGroups returns the workgroup count covering extent texels with
// workgroups that are groupSize texels wide, rounding up so partial edges
// still get a workgroup. Every output size dispatches at least one group.
func dispatchGroups(extent, groupSize uint32) uint32 {
	return (extent + groupSize - 1) / groupSize
}

// createSampler builds a linear-filtering sampler with the given address mode
// and registers it with the transient set.
func (p *precomputer) createSampler(label string, addressMode wgpu.AddressMode, transient *transientResources) (*wgpu.Sampler, error) {
	samp, err := p.renderer.Device().CreateSampler(&wgpu.SamplerDescriptor{
		Label:         label,
		AddressModeU:  addressMode,
		AddressModeV:  addressMode,
		AddressModeW:  addressMode,
		MagFilter:     wgpu.FilterModeLinear,
		MinFilter:     wgpu.FilterModeLinear,
		MipmapFilter:  wgpu.MipmapFilterModeLinear,
		LodMinClamp:   0,
		LodMaxClamp:   32,
		MaxAnisotropy: 1,
	})
	if err != nil {
		return nil, err
	}
	transient.samplers = append(transient.samplers, samp)
	return samp, nil
}
