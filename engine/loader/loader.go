package loader

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/ibl"
	"github.com/Carmen-Shannon/pbr-go/engine/model"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/material"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/shader"

	"github.com/cogentcore/webgpu/wgpu"
)

// LoaderBackendType identifies the model file format backend to use.
type LoaderBackendType int

const (
	// BackendTypeGLTF selects the glTF/GLB loader backend.
	BackendTypeGLTF LoaderBackendType = iota
)

// materialBindGroup is the bind group index that lit fragment shaders reserve for
// per-material texture bindings.
const materialBindGroup = 1

// Material texture binding variable names looked up in the fragment shader.
const (
	albedoTextureVar    = "albedo_texture"
	normalTextureVar    = "normal_texture"
	metalnessTextureVar = "metalness_texture"
	roughnessTextureVar = "roughness_texture"
	materialSamplerVar  = "material_sampler"
)

// MipmapGenerator fills the full mip chain of a 2D texture from its level 0 contents.
// The gamma flag selects sRGB-aware downsampling for color textures.
type MipmapGenerator interface {
	GenerateMipmaps(tex *renderer.Texture, gamma bool) error
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	renderer renderer.Renderer
	mipGen   MipmapGenerator

	modelCache map[string]model.Model

	backend loaderBackend
}

// Loader defines the public-facing interface for loading and caching 3D models.
// It abstracts the file format (glTF, GLB, etc.) behind a generic backend and
// manages a cache of previously loaded models.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected based on the file extension (.gltf/.glb → glTF backend).
	// The fragment shader is used to locate the material texture bindings when
	// initializing material GPU resources (textures, mip chains, sampler, bind group).
	//
	// Parameters:
	//   - path: the file path to the model file
	//   - fragmentShader: the fragment shader whose material bindings drive GPU init
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if loading fails
	Load(path string, fragmentShader shader.Shader) (model.Model, error)

	// LoadMeshOnly imports only mesh geometry, skipping materials and textures.
	// Useful for models rendered with shaders that take no material bindings.
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded model (mesh data only)
	//   - error: error if loading fails
	LoadMeshOnly(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	// The fragment shader is used to locate the material texture bindings when
	// initializing material GPU resources.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - isGLB: true if the reader provides GLB binary data
	//   - fragmentShader: the fragment shader whose material bindings drive GPU init
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, isGLB bool, fragmentShader shader.Shader) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns the full model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model

	// InitMaterialGPU initializes GPU resources (fallback textures, sampler, bind group)
	// for a render material using the provided fragment shader's material bindings. This
	// is required for procedural/hand-built models that bypass the Load pipeline but need
	// to render with lit fragment shaders that declare material texture bindings.
	//
	// Parameters:
	//   - mat: the Material to initialize GPU resources on
	//   - fragmentShader: the fragment shader providing material binding information
	//   - providerName: a unique name for the material's bind group provider
	//
	// Returns:
	//   - error: error if GPU resource creation fails
	InitMaterialGPU(mat material.Material, fragmentShader shader.Shader, providerName string) error
}

var _ Loader = &loader{}

// NewLoader creates a new Loader instance with the specified backend type and options applied.
//
// Parameters:
//   - backendType: the type of loader backend to use (e.g., BackendTypeGLTF)
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new instance of Loader configured with the provided backend and options
func NewLoader(backendType LoaderBackendType, options ...LoaderBuilderOption) Loader {
	l := &loader{
		mu:         sync.RWMutex{},
		modelCache: make(map[string]model.Model),
	}

	switch backendType {
	case BackendTypeGLTF:
		l.backend = newGLTFLoaderBackend()
	}

	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string, fragmentShader shader.Shader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported, fragmentShader)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadMeshOnly(path string) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[path]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	backend, err := l.resolveBackend(path)
	if err != nil {
		return nil, err
	}

	imported, err := backend.LoadMeshOnly(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	m, err := l.importedToModel(imported, nil)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[path] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) LoadReader(name string, r io.Reader, isGLB bool, fragmentShader shader.Shader) (model.Model, error) {
	l.mu.RLock()
	if cached, ok := l.modelCache[name]; ok {
		l.mu.RUnlock()
		return cached, nil
	}
	l.mu.RUnlock()

	imported, err := l.backend.LoadReader(r, isGLB)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}

	m, err := l.importedToModel(imported, fragmentShader)
	if err != nil {
		return nil, err
	}

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()

	return m, nil
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) InitMaterialGPU(mat material.Material, fragmentShader shader.Shader, providerName string) error {
	if l.renderer == nil {
		return fmt.Errorf("loader: cannot InitMaterialGPU without a Renderer")
	}
	return l.initMaterialGPU(mat, nil, fragmentShader, providerName)
}

// resolveBackend selects an appropriate loader backend based on the file extension.
// Currently only glTF/GLB is supported.
func (l *loader) resolveBackend(path string) (loaderBackend, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".gltf", ".glb":
		return l.backend, nil
	default:
		return nil, fmt.Errorf("unsupported model format: %s", ext)
	}
}

// importedToModel converts an ImportedModel (CPU data) into a Model (engine-ready).
// It combines all mesh vertex and index data into a single BindGroupProvider, uploads
// the data to the GPU via InitMeshBuffers when a Renderer is available, and initializes
// material GPU resources (textures, mip chains, sampler, bind group) using the fragment
// shader's material bindings.
//
// Parameters:
//   - imported: the CPU-side ImportedModel containing mesh and material data
//   - fragmentShader: the fragment shader used to locate material bindings, or nil to skip material init
//
// Returns:
//   - model.Model: the engine-ready Model with GPU mesh resources
//   - error: error if GPU resource creation fails
func (l *loader) importedToModel(imported *model.ImportedModel, fragmentShader shader.Shader) (model.Model, error) {
	// Combine all meshes into one vertex + index buffer
	var allVertices []model.GPUVertex
	var allIndexBytes []byte
	totalIndices := 0
	indexOffset := uint32(0)

	for _, mesh := range imported.Meshes {
		allVertices = append(allVertices, mesh.Vertices...)

		// Reindex: offset each index by the running vertex count across meshes
		adjusted := make([]uint32, len(mesh.Indices))
		for i, idx := range mesh.Indices {
			adjusted[i] = idx + indexOffset
		}
		allIndexBytes = append(allIndexBytes, common.SliceToBytes(adjusted)...)

		totalIndices += len(mesh.Indices)
		indexOffset += uint32(len(mesh.Vertices))
	}

	provider := bind_group_provider.NewBindGroupProvider(
		imported.Name + "_mesh",
	)

	// Upload to GPU if renderer is available
	if l.renderer != nil {
		if err := l.renderer.InitMeshBuffers(provider, common.SliceToBytes(allVertices), allIndexBytes, totalIndices); err != nil {
			return nil, fmt.Errorf("failed to init mesh buffers for %q: %w", imported.Name, err)
		}
	}

	mdl := model.NewModel(
		model.WithName(imported.Name),
		model.WithMeshProvider(provider),
		model.WithBoundingRadius(model.ComputeBoundingRadius(allVertices)),
		model.WithIndexCount(totalIndices),
	)

	// Convert imported materials into render-ready Materials with GPU resources.
	renderMats := make([]material.Material, len(imported.Materials))
	for i := range imported.Materials {
		imp := &imported.Materials[i]
		mat := material.NewMaterial(
			material.WithName(imp.Name),
			material.WithAlbedoTexture(imp.AlbedoTexture),
			material.WithNormalTexture(imp.NormalTexture),
			material.WithMetalnessTexture(imp.MetallicRoughnessTexture),
			material.WithRoughnessTexture(imp.MetallicRoughnessTexture),
		)

		// Initialize material GPU resources when a renderer and fragment shader are available.
		if l.renderer != nil && fragmentShader != nil {
			providerName := fmt.Sprintf("%s_material_%d", imported.Name, i)
			if err := l.initMaterialGPU(mat, imp, fragmentShader, providerName); err != nil {
				return nil, fmt.Errorf("failed to init material GPU resources for %q material %d: %w", imported.Name, i, err)
			}
		}

		renderMats[i] = mat
	}
	mdl.SetMaterials(renderMats)

	return mdl, nil
}

// initMaterialGPU creates GPU resources (textures, mip chains, sampler, bind group) for a
// single Material by resolving the fragment shader's material texture bindings by variable
// name. Missing texture maps fall back to 1x1 placeholders derived from the material factors
// so the bind group is always complete. The combined glTF metallic-roughness texture is split
// into separate metalness and roughness textures to match the shader's per-map bindings.
//
// Parameters:
//   - mat: the Material to set the finished bind group provider on
//   - imp: the imported material providing texture data and factors, or nil for pure fallbacks
//   - fragmentShader: the fragment shader providing material binding information
//   - providerName: a unique name for the material's bind group provider
//
// Returns:
//   - error: error if GPU resource creation fails
func (l *loader) initMaterialGPU(mat material.Material, imp *common.ImportedMaterial, fragmentShader shader.Shader, providerName string) error {
	albedoBinding, ok := fragmentShader.BindGroupFromVarName(materialBindGroup, albedoTextureVar)
	if !ok {
		// No material bindings declared in this shader; nothing to init.
		return nil
	}

	provider := bind_group_provider.NewBindGroupProvider(providerName)

	baseColor := [4]float32{1, 1, 1, 1}
	metallic := float32(0)
	roughness := float32(1)
	var samplerData *common.SamplerStagingData
	if imp != nil {
		baseColor = imp.BaseColorFactor
		metallic = imp.MetallicFactor
		roughness = imp.RoughnessFactor
		samplerData = imp.SamplerData
	}

	// Albedo: sRGB-encoded color map, white factor fallback.
	albedoStaging, err := textureOrFallback(mat.AlbedoTexture(), [4]byte{
		floatToUNorm8(baseColor[0]),
		floatToUNorm8(baseColor[1]),
		floatToUNorm8(baseColor[2]),
		floatToUNorm8(baseColor[3]),
	}, true)
	if err != nil {
		return fmt.Errorf("albedo texture: %w", err)
	}
	if err := l.initMaterialTexture(provider, albedoBinding, providerName+"_albedo", albedoStaging); err != nil {
		return err
	}

	// Normal map: flat tangent-space normal fallback (0.5, 0.5, 1.0).
	if binding, ok := fragmentShader.BindGroupFromVarName(materialBindGroup, normalTextureVar); ok {
		staging, err := textureOrFallback(mat.NormalTexture(), [4]byte{128, 128, 255, 255}, false)
		if err != nil {
			return fmt.Errorf("normal texture: %w", err)
		}
		if err := l.initMaterialTexture(provider, binding, providerName+"_normal", staging); err != nil {
			return err
		}
	}

	// Metalness and roughness: split from the combined glTF metallic-roughness map
	// (G=roughness, B=metalness), with factor-derived fallbacks.
	var mrPixels []byte
	var mrWidth, mrHeight uint32
	if imp != nil && imp.MetallicRoughnessTexture != nil {
		mrPixels, mrWidth, mrHeight, err = imp.MetallicRoughnessTexture.Decode()
		if err != nil {
			return fmt.Errorf("metallic-roughness texture: %w", err)
		}
	}

	if binding, ok := fragmentShader.BindGroupFromVarName(materialBindGroup, metalnessTextureVar); ok {
		staging := channelOrFallback(mrPixels, mrWidth, mrHeight, 2, floatToUNorm8(metallic))
		if err := l.initMaterialTexture(provider, binding, providerName+"_metalness", staging); err != nil {
			return err
		}
	}

	if binding, ok := fragmentShader.BindGroupFromVarName(materialBindGroup, roughnessTextureVar); ok {
		staging := channelOrFallback(mrPixels, mrWidth, mrHeight, 1, floatToUNorm8(roughness))
		if err := l.initMaterialTexture(provider, binding, providerName+"_roughness", staging); err != nil {
			return err
		}
	}

	// Shared sampler: glTF sampler params if available, otherwise linear/repeat defaults.
	if binding, ok := fragmentShader.BindGroupFromVarName(materialBindGroup, materialSamplerVar); ok {
		sampler := common.SamplerStagingData{
			AddressModeU:  wgpu.AddressModeRepeat,
			AddressModeV:  wgpu.AddressModeRepeat,
			AddressModeW:  wgpu.AddressModeRepeat,
			MagFilter:     wgpu.FilterModeLinear,
			MinFilter:     wgpu.FilterModeLinear,
			MipmapFilter:  wgpu.MipmapFilterModeLinear,
			LodMinClamp:   0,
			LodMaxClamp:   32,
			MaxAnisotropy: 1,
		}
		if samplerData != nil {
			sampler = *samplerData
		}
		if err := l.renderer.InitSampler(provider, binding, sampler); err != nil {
			return fmt.Errorf("failed to init material sampler: %w", err)
		}
	}

	// Create the bind group from the shader's layout descriptor for the material group.
	descriptor := fragmentShader.BindGroupLayoutDescriptor(materialBindGroup)
	if err := l.renderer.InitBindGroup(provider, descriptor, nil); err != nil {
		return fmt.Errorf("failed to init material bind group: %w", err)
	}

	mat.SetBindGroupProvider(provider)
	return nil
}

// initMaterialTexture uploads staging pixels as a mipmapped texture, generates the mip
// chain when a MipmapGenerator is configured, and stores the view on the provider.
func (l *loader) initMaterialTexture(provider bind_group_provider.BindGroupProvider, binding int, label string, staging common.TextureStagingData) error {
	mipLevels := ibl.NumMipLevels(staging.Width, staging.Height)
	tex, err := l.renderer.CreateTextureFromStaging(label, staging, mipLevels)
	if err != nil {
		return fmt.Errorf("failed to create texture %s: %w", label, err)
	}

	if l.mipGen != nil && mipLevels > 1 {
		if err := l.mipGen.GenerateMipmaps(tex, staging.Gamma); err != nil {
			return fmt.Errorf("failed to generate mipmaps for %s: %w", label, err)
		}
	}

	provider.SetTextureView(binding, tex.View())
	return nil
}

// textureOrFallback decodes an imported texture into staging data, or produces a 1x1
// texture with the given pixel when no texture is present.
func textureOrFallback(tex *common.ImportedTexture, fallback [4]byte, gamma bool) (common.TextureStagingData, error) {
	if tex == nil {
		return common.TextureStagingData{
			Pixels: fallback[:],
			Width:  1,
			Height: 1,
			Gamma:  gamma,
		}, nil
	}

	pixels, width, height, err := tex.Decode()
	if err != nil {
		return common.TextureStagingData{}, err
	}
	return common.TextureStagingData{
		Pixels: pixels,
		Width:  width,
		Height: height,
		Gamma:  gamma,
	}, nil
}

// channelOrFallback extracts a single channel from decoded RGBA pixels into a grayscale
// RGBA staging buffer, or produces a 1x1 texture with the fallback value when no source
// pixels are available.
func channelOrFallback(pixels []byte, width, height uint32, channel int, fallback byte) common.TextureStagingData {
	if len(pixels) == 0 {
		return common.TextureStagingData{
			Pixels: []byte{fallback, fallback, fallback, 255},
			Width:  1,
			Height: 1,
		}
	}

	out := make([]byte, len(pixels))
	for i := 0; i+3 < len(pixels); i += 4 {
		v := pixels[i+channel]
		out[i] = v
		out[i+1] = v
		out[i+2] = v
		out[i+3] = 255
	}
	return common.TextureStagingData{
		Pixels: out,
		Width:  width,
		Height: height,
	}
}

// floatToUNorm8 converts a [0,1] float to an 8-bit unorm value with clamping.
func floatToUNorm8(v float32) byte {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 255
	}
	return byte(v*255 + 0.5)
}
