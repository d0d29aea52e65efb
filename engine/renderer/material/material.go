package material

import (
	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
)

// material is the implementation of the Material interface.
type material struct {
	name             string
	albedoTexture    *common.ImportedTexture
	normalTexture    *common.ImportedTexture
	metalnessTexture *common.ImportedTexture
	roughnessTexture *common.ImportedTexture
	pipelineKey      string

	bindGroupProvider bind_group_provider.BindGroupProvider
}

// Material defines the interface for a physically-based render material. It holds the
// four surface texture maps (albedo, normal, metalness, roughness) and the GPU resource
// bindings needed for draw calls.
//
// Texture references are set at load time and are read-only through this interface.
// GPU resource references (pipeline key, bind group provider) are mutable so they can
// be configured after construction during the GPU-init phase.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// AlbedoTexture retrieves the albedo (base color) texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the albedo texture, or nil
	AlbedoTexture() *common.ImportedTexture

	// NormalTexture retrieves the tangent-space normal map texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the normal texture, or nil
	NormalTexture() *common.ImportedTexture

	// MetalnessTexture retrieves the metalness texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the metalness texture, or nil
	MetalnessTexture() *common.ImportedTexture

	// RoughnessTexture retrieves the roughness texture data reference, or nil if none is set.
	//
	// Returns:
	//   - *common.ImportedTexture: the roughness texture, or nil
	RoughnessTexture() *common.ImportedTexture

	// PipelineKey retrieves the key identifying the render pipeline this material uses.
	//
	// Returns:
	//   - string: the pipeline key
	PipelineKey() string

	// BindGroupProvider retrieves the bind group provider holding GPU-side resources for this material.
	//
	// Returns:
	//   - bind_group_provider.BindGroupProvider: the bind group provider, or nil if not yet initialized
	BindGroupProvider() bind_group_provider.BindGroupProvider

	// SetPipelineKey sets the render pipeline key for this material.
	//
	// Parameters:
	//   - key: the pipeline key to associate with this material
	SetPipelineKey(key string)

	// SetBindGroupProvider sets the bind group provider for this material.
	//
	// Parameters:
	//   - provider: the bind group provider containing GPU resources for this material
	SetBindGroupProvider(provider bind_group_provider.BindGroupProvider)
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) AlbedoTexture() *common.ImportedTexture {
	return m.albedoTexture
}

func (m *material) NormalTexture() *common.ImportedTexture {
	return m.normalTexture
}

func (m *material) MetalnessTexture() *common.ImportedTexture {
	return m.metalnessTexture
}

func (m *material) RoughnessTexture() *common.ImportedTexture {
	return m.roughnessTexture
}

func (m *material) PipelineKey() string {
	return m.pipelineKey
}

func (m *material) BindGroupProvider() bind_group_provider.BindGroupProvider {
	return m.bindGroupProvider
}

func (m *material) SetPipelineKey(key string) {
	m.pipelineKey = key
}

func (m *material) SetBindGroupProvider(provider bind_group_provider.BindGroupProvider) {
	m.bindGroupProvider = provider
}
