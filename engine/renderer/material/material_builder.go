package material

import (
	"github.com/Carmen-Shannon/pbr-go/common"
	"github.com/Carmen-Shannon/pbr-go/engine/renderer/bind_group_provider"
)

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *material) {
		m.name = name
	}
}

// WithAlbedoTexture is an option builder that sets the albedo (base color) texture reference.
//
// Parameters:
//   - tex: the imported texture data for the albedo map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the albedo texture option to a material
func WithAlbedoTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.albedoTexture = tex
	}
}

// WithNormalTexture is an option builder that sets the tangent-space normal map texture reference.
//
// Parameters:
//   - tex: the imported texture data for the normal map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the normal texture option to a material
func WithNormalTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.normalTexture = tex
	}
}

// WithMetalnessTexture is an option builder that sets the metalness texture reference.
//
// Parameters:
//   - tex: the imported texture data for the metalness map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the metalness texture option to a material
func WithMetalnessTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.metalnessTexture = tex
	}
}

// WithRoughnessTexture is an option builder that sets the roughness texture reference.
//
// Parameters:
//   - tex: the imported texture data for the roughness map
//
// Returns:
//   - MaterialBuilderOption: a function that applies the roughness texture option to a material
func WithRoughnessTexture(tex *common.ImportedTexture) MaterialBuilderOption {
	return func(m *material) {
		m.roughnessTexture = tex
	}
}

// WithPipelineKey is an option builder that sets the render pipeline key for the material.
//
// Parameters:
//   - key: the pipeline key to associate with the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the pipeline key option to a material
func WithPipelineKey(key string) MaterialBuilderOption {
	return func(m *material) {
		m.pipelineKey = key
	}
}

// WithBindGroupProvider is an option builder that sets the bind group provider for the material.
//
// Parameters:
//   - provider: the bind group provider containing GPU resources for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the bind group provider option to a material
func WithBindGroupProvider(provider bind_group_provider.BindGroupProvider) MaterialBuilderOption {
	return func(m *material) {
		m.bindGroupProvider = provider
	}
}
